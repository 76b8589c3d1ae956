package ir

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"
)

// ToAny converts a tree into plain Go values: map[string]any, []any,
// string, bool, nil, int64 or float64. Key order is lost.
func ToAny(y *Node) any {
	switch y.Type {
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f.String] = ToAny(y.Values[i])
		}
		return res
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = ToAny(v)
		}
		return res
	case StringType:
		return y.String
	case NumberType:
		if y.Int64 != nil {
			return *y.Int64
		}
		if y.Float64 != nil {
			return *y.Float64
		}
		return json.Number(y.Number)
	case BoolType:
		return y.Bool
	default:
		return nil
	}
}

// FromAny converts plain Go values into a tree. Maps with string keys are
// sorted by key since they carry no order of their own.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x.Clone(), nil
	case string:
		return FromString(x), nil
	case bool:
		return FromBool(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case json.Number:
		return FromNumber(string(x)), nil
	case time.Time:
		return FromString(x.Format(time.RFC3339Nano)), nil
	case []byte:
		return FromString(string(x)), nil
	case []any:
		res := &Node{Type: ArrayType, Values: make([]*Node, len(x))}
		for i, elt := range x {
			n, err := FromAny(elt)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			res.Values[i] = n
		}
		return res, nil
	case map[string]any:
		res := Object()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			n, err := FromAny(x[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			res.Set(k, n)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func fromUint(u uint64) *Node {
	if u <= 1<<63-1 {
		return FromInt(int64(u))
	}
	return FromNumber(strconv.FormatUint(u, 10))
}
