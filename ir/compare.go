package ir

import "strconv"

// Equal reports whether a and b hold the same document. Object key order
// is not significant; array order is. Numbers compare by value when both
// sides have a numeric value, and by text otherwise.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case NullType:
		return true
	case BoolType:
		return a.Bool == b.Bool
	case StringType:
		return a.String == b.String
	case NumberType:
		return equalNumbers(a, b)
	case ArrayType:
		if len(a.Values) != len(b.Values) {
			return false
		}
		for i := range a.Values {
			if !Equal(a.Values[i], b.Values[i]) {
				return false
			}
		}
		return true
	case ObjectType:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i, f := range a.Fields {
			bv := Get(b, f.String)
			if bv == nil || !Equal(a.Values[i], bv) {
				return false
			}
		}
		return true
	}
	return false
}

func equalNumbers(a, b *Node) bool {
	fa, okA := numberValue(a)
	fb, okB := numberValue(b)
	if okA && okB {
		if a.Int64 != nil && b.Int64 != nil {
			return *a.Int64 == *b.Int64
		}
		return fa == fb
	}
	return a.Text() == b.Text()
}

func numberValue(y *Node) (float64, bool) {
	switch {
	case y.Int64 != nil:
		return float64(*y.Int64), true
	case y.Float64 != nil:
		return *y.Float64, true
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
