package directive

import (
	"fmt"
	"strings"

	"github.com/signadot/propdefs/ir"
)

// Substitution replaces every occurrence of From with To.
type Substitution struct {
	From string
	To   string
}

// ParseSubstitution reads "from=to".
func ParseSubstitution(v string) (Substitution, error) {
	from, to, ok := strings.Cut(v, "=")
	if !ok || from == "" {
		return Substitution{}, fmt.Errorf("substitution %q is not of the form key=value", v)
	}
	return Substitution{From: from, To: to}, nil
}

func (s Substitution) String() string {
	return s.From + "=" + s.To
}

// Substitutions are applied in order.
type Substitutions []Substitution

// Apply rewrites every string value in y, including strings in lists.
// Keys are left alone, as are the values of directive keys.
func (s Substitutions) Apply(y *ir.Node) {
	if len(s) == 0 {
		return
	}
	s.apply(y)
}

func (s Substitutions) apply(y *ir.Node) {
	switch y.Type {
	case ir.StringType:
		for _, sub := range s {
			y.String = strings.ReplaceAll(y.String, sub.From, sub.To)
		}
	case ir.ObjectType:
		for i, f := range y.Fields {
			if IsDirective(f.String) {
				continue
			}
			s.apply(y.Values[i])
		}
	case ir.ArrayType:
		for _, v := range y.Values {
			s.apply(v)
		}
	}
}
