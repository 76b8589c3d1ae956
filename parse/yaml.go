package parse

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/signadot/propdefs/ir"
)

func parseYAML(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	return fromYAML(v)
}

func fromYAML(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case yaml.MapSlice:
		res := ir.Object()
		for _, item := range x {
			key := yamlKey(item.Key)
			val, err := fromYAML(item.Value)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			res.Set(key, val)
		}
		return res, nil
	case []any:
		res := &ir.Node{Type: ir.ArrayType, Values: make([]*ir.Node, len(x))}
		for i, elt := range x {
			val, err := fromYAML(elt)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			res.Values[i] = val
		}
		return res, nil
	}
	return ir.FromAny(v)
}

// yamlKey renders non-string mapping keys the way they would be written
// as JSON object keys.
func yamlKey(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case nil:
		return "null"
	case bool:
		if x {
			return "true"
		}
		return "false"
	}
	return fmt.Sprint(k)
}
