package encode

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/signadot/propdefs/ir"
)

func encodeYAML(buf *bytes.Buffer, node *ir.Node, es *EncState) error {
	v, err := toYAML(node)
	if err != nil {
		return err
	}
	d, err := yaml.MarshalWithOptions(v,
		yaml.Indent(es.indent),
		yaml.IndentSequence(true),
		yaml.UseLiteralStyleIfMultiline(true))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	buf.Write(d)
	return nil
}

// toYAML converts node into values goccy/go-yaml encodes in order.
func toYAML(node *ir.Node) (any, error) {
	switch node.Type {
	case ir.ObjectType:
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			v, err := toYAML(node.Values[i])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", f.String, err)
			}
			res[i] = yaml.MapItem{Key: f.String, Value: v}
		}
		return res, nil
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, elt := range node.Values {
			v, err := toYAML(elt)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			res[i] = v
		}
		return res, nil
	case ir.StringType:
		return node.String, nil
	case ir.NumberType:
		if node.Int64 != nil {
			return *node.Int64, nil
		}
		if node.Float64 != nil {
			return *node.Float64, nil
		}
		if u, err := strconv.ParseUint(node.Number, 10, 64); err == nil {
			return u, nil
		}
		// out of range: ParseFloat still returns the signed infinity
		f, _ := strconv.ParseFloat(node.Number, 64)
		return f, nil
	case ir.BoolType:
		return node.Bool, nil
	case ir.NullType:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: unknown node type %s", ErrEncoding, node.Type)
}
