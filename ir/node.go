package ir

import (
	"math"
	"strconv"
	"strings"
)

type Node struct {
	Type   Type
	Fields []*Node
	Values []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	dst := &Node{
		Type:   y.Type,
		String: y.String,
		Bool:   y.Bool,
		Number: y.Number,
	}
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
		for i, f := range y.Fields {
			dst.Fields[i] = f.Clone()
		}
	}
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
		for i, v := range y.Values {
			dst.Values[i] = v.Clone()
		}
	}
	return dst
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node {
	return &Node{
		Type:   NumberType,
		Int64:  &v,
		Number: strconv.FormatInt(v, 10),
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
		Number:  formatFloat(f),
	}
}

// FromNumber builds a number node from its textual form, keeping the text
// so that encoders can write it back unchanged.
func FromNumber(text string) *Node {
	res := &Node{Type: NumberType, Number: text}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		res.Int64 = &i
		return res
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		res.Float64 = &f
	}
	return res
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

// Object returns an empty object node.
func Object() *Node {
	return &Node{Type: ObjectType, Fields: []*Node{}, Values: []*Node{}}
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type:   ArrayType,
		Values: make([]*Node, len(ySlice)),
	}
	copy(res.Values, ySlice)
	return res
}

// FromStrings is FromSlice for string elements.
func FromStrings(vs ...string) *Node {
	res := &Node{Type: ArrayType, Values: make([]*Node, len(vs))}
	for i, v := range vs {
		res.Values[i] = FromString(v)
	}
	return res
}

type KeyVal struct {
	Key string
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := Object()
	for _, kv := range kvs {
		res.Set(kv.Key, kv.Val)
	}
	return res
}

func (y *Node) IsObject() bool { return y != nil && y.Type == ObjectType }
func (y *Node) IsArray() bool  { return y != nil && y.Type == ArrayType }
func (y *Node) IsNull() bool   { return y == nil || y.Type == NullType }

// Index returns the position of field in an object node, or -1.
func (y *Node) Index(field string) int {
	if y == nil || y.Type != ObjectType {
		return -1
	}
	for i, f := range y.Fields {
		if f.String == field {
			return i
		}
	}
	return -1
}

func (y *Node) Has(field string) bool {
	return y.Index(field) != -1
}

func Get(y *Node, field string) *Node {
	i := y.Index(field)
	if i == -1 {
		return nil
	}
	return y.Values[i]
}

// Get is the method form of the package level Get.
func (y *Node) Get(field string) *Node {
	return Get(y, field)
}

// Set replaces the value of field in place, or appends field if it is not
// present yet.
func (y *Node) Set(field string, val *Node) {
	if i := y.Index(field); i != -1 {
		y.Values[i] = val
		return
	}
	y.Fields = append(y.Fields, FromString(field))
	y.Values = append(y.Values, val)
}

// Delete removes field and reports whether it was present.
func (y *Node) Delete(field string) bool {
	i := y.Index(field)
	if i == -1 {
		return false
	}
	y.Fields = append(y.Fields[:i], y.Fields[i+1:]...)
	y.Values = append(y.Values[:i], y.Values[i+1:]...)
	return true
}

func (y *Node) Keys() []string {
	if y == nil || y.Type != ObjectType {
		return nil
	}
	res := make([]string, len(y.Fields))
	for i, f := range y.Fields {
		res[i] = f.String
	}
	return res
}

// Retain drops every field for which keep returns false, keeping the
// order of the remaining fields.
func (y *Node) Retain(keep func(field string) bool) {
	j := 0
	for i := range y.Fields {
		if !keep(y.Fields[i].String) {
			continue
		}
		y.Fields[j] = y.Fields[i]
		y.Values[j] = y.Values[i]
		j++
	}
	clear(y.Fields[j:])
	clear(y.Values[j:])
	y.Fields = y.Fields[:j]
	y.Values = y.Values[:j]
}

// Visit calls f on y and every node below it, depth first. Returning false
// from f skips the children of that node.
func (y *Node) Visit(f func(y *Node) (bool, error)) error {
	dive, err := f(y)
	if err != nil {
		return err
	}
	if !dive {
		return nil
	}
	for _, yy := range y.Values {
		if err := yy.Visit(f); err != nil {
			return err
		}
	}
	return nil
}

// Text renders a leaf node the way it would appear as a bare scalar.
func (y *Node) Text() string {
	switch y.Type {
	case StringType:
		return y.String
	case NumberType:
		if y.Number != "" {
			return y.Number
		}
		if y.Int64 != nil {
			return strconv.FormatInt(*y.Int64, 10)
		}
		if y.Float64 != nil {
			return formatFloat(*y.Float64)
		}
		return "0"
	case BoolType:
		return strconv.FormatBool(y.Bool)
	case NullType:
		return "null"
	default:
		return "<" + strings.ToLower(y.Type.String()) + ">"
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
