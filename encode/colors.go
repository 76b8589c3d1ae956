package encode

import (
	"strings"

	"github.com/fatih/color"
	"github.com/signadot/propdefs/ir"
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	sep := color.RGB(255, 0, 196).SprintfFunc()
	colors.Map[Colorable{Type: ir.ObjectType, Attr: SepColor}] = sep
	colors.Map[Colorable{Type: ir.ArrayType, Attr: SepColor}] = sep
	colors.Map[Colorable{Type: ir.ObjectType, Attr: FieldColor}] = color.RGB(128, 168, 196).SprintfFunc()
	colors.Map[Colorable{Type: ir.StringType, Attr: ValueColor}] = color.RGB(8, 196, 16).SprintfFunc()
	colors.Map[Colorable{Type: ir.NumberType, Attr: ValueColor}] = color.RGB(128, 216, 236).SprintfFunc()
	colors.Map[Colorable{Type: ir.BoolType, Attr: ValueColor}] = color.CyanString
	colors.Map[Colorable{Type: ir.NullType, Attr: ValueColor}] = color.RGB(168, 0, 196).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
