package directive

import (
	"fmt"
	"strings"

	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/stage"
)

const (
	Prefix      = "$$"
	InheritKey  = "$$inherit"
	KeepKey     = "$$keep"
	ExcludeKey  = "$$exclude"
	SchemaKey   = "$$schema"
	SchemaField = "$schema"
	IDField     = "$id"
)

// IsDirective reports whether key is a directive key.
func IsDirective(key string) bool {
	return strings.HasPrefix(key, Prefix)
}

// Inherit is the value of a $$inherit directive: a SingleRef or a
// RefList.
type Inherit interface {
	Refs() []string
	inherit()
}

type SingleRef string

func (r SingleRef) Refs() []string { return []string{string(r)} }
func (SingleRef) inherit()         {}

type RefList []string

func (l RefList) Refs() []string { return []string(l) }
func (RefList) inherit()         {}

// ParseInherit reads the value of a $$inherit key.
func ParseInherit(y *ir.Node) (Inherit, error) {
	switch {
	case y == nil:
		return nil, fmt.Errorf("%w: missing %s value", stage.ErrDirectiveShape, InheritKey)
	case y.Type == ir.StringType:
		return SingleRef(y.String), nil
	case y.IsArray():
		refs, err := stringList(y, InheritKey)
		if err != nil {
			return nil, err
		}
		if len(refs) == 0 {
			return nil, fmt.Errorf("%w: empty %s list", stage.ErrDirectiveShape, InheritKey)
		}
		return RefList(refs), nil
	}
	return nil, fmt.Errorf("%w: %s must be a string or a list of strings, got %s",
		stage.ErrDirectiveShape, InheritKey, strings.ToLower(y.Type.String()))
}

func stringList(y *ir.Node, key string) ([]string, error) {
	if !y.IsArray() {
		return nil, fmt.Errorf("%w: %s must be a list of strings, got %s",
			stage.ErrDirectiveShape, key, strings.ToLower(y.Type.String()))
	}
	res := make([]string, len(y.Values))
	for i, v := range y.Values {
		if v.Type != ir.StringType {
			return nil, fmt.Errorf("%w: %s[%d] must be a string, got %s",
				stage.ErrDirectiveShape, key, i, strings.ToLower(v.Type.String()))
		}
		res[i] = v.String
	}
	return res, nil
}
