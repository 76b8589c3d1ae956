package encode

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/signadot/propdefs/ir"
)

func encodeJSON(buf *bytes.Buffer, node *ir.Node, es *EncState, depth int) error {
	switch node.Type {
	case ir.ObjectType:
		if len(node.Fields) == 0 {
			buf.WriteString(applyColor(es, ir.ObjectType, SepColor, "{}"))
			return nil
		}
		buf.WriteString(applyColor(es, ir.ObjectType, SepColor, "{"))
		for i, f := range node.Fields {
			if i > 0 {
				buf.WriteString(applyColor(es, ir.ObjectType, SepColor, ","))
				if es.compact {
					buf.WriteByte(' ')
				}
			}
			writeJSONNL(buf, es, depth+1)
			buf.WriteString(applyColor(es, ir.ObjectType, FieldColor, Quote(f.String)))
			buf.WriteString(applyColor(es, ir.ObjectType, SepColor, ":"))
			buf.WriteByte(' ')
			if err := encodeJSON(buf, node.Values[i], es, depth+1); err != nil {
				return fmt.Errorf("key %q: %w", f.String, err)
			}
		}
		writeJSONNL(buf, es, depth)
		buf.WriteString(applyColor(es, ir.ObjectType, SepColor, "}"))
	case ir.ArrayType:
		if len(node.Values) == 0 {
			buf.WriteString(applyColor(es, ir.ArrayType, SepColor, "[]"))
			return nil
		}
		buf.WriteString(applyColor(es, ir.ArrayType, SepColor, "["))
		for i, v := range node.Values {
			if i > 0 {
				buf.WriteString(applyColor(es, ir.ArrayType, SepColor, ","))
				if es.compact {
					buf.WriteByte(' ')
				}
			}
			writeJSONNL(buf, es, depth+1)
			if err := encodeJSON(buf, v, es, depth+1); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		writeJSONNL(buf, es, depth)
		buf.WriteString(applyColor(es, ir.ArrayType, SepColor, "]"))
	case ir.StringType:
		buf.WriteString(applyColor(es, ir.StringType, ValueColor, Quote(node.String)))
	case ir.NumberType:
		if node.Float64 != nil && node.Int64 == nil && (math.IsInf(*node.Float64, 0) || math.IsNaN(*node.Float64)) {
			return fmt.Errorf("%w: %s is not representable in JSON", ErrEncoding, node.Text())
		}
		buf.WriteString(applyColor(es, ir.NumberType, ValueColor, node.Text()))
	case ir.BoolType, ir.NullType:
		buf.WriteString(applyColor(es, node.Type, ValueColor, node.Text()))
	default:
		return fmt.Errorf("%w: unknown node type %s", ErrEncoding, node.Type)
	}
	return nil
}

func writeJSONNL(buf *bytes.Buffer, es *EncState, depth int) {
	if es.compact {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", es.indent*depth))
}

const hex = "0123456789abcdef"

// Quote renders v as a JSON string literal with all non-ASCII characters
// escaped.
func Quote(v string) string {
	buf := &strings.Builder{}
	buf.Grow(len(v) + 2)
	buf.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				writeU(buf, r)
			case r < utf8.RuneSelf:
				buf.WriteRune(r)
			case r > 0xffff:
				r -= 0x10000
				writeU(buf, 0xd800+(r>>10)&0x3ff)
				writeU(buf, 0xdc00+r&0x3ff)
			default:
				writeU(buf, r)
			}
		}
	}
	buf.WriteByte('"')
	return buf.String()
}

func writeU(buf *strings.Builder, r rune) {
	buf.WriteString(`\u`)
	buf.WriteByte(hex[r>>12&0xf])
	buf.WriteByte(hex[r>>8&0xf])
	buf.WriteByte(hex[r>>4&0xf])
	buf.WriteByte(hex[r&0xf])
}
