// Package mergeop implements the deep merge of document trees.
package mergeop

import (
	"fmt"

	"github.com/signadot/propdefs/debug"
	"github.com/signadot/propdefs/ir"
)

// Policy decides non-mapping collisions.
type Policy int

const (
	// KeepExisting leaves keys already present in the destination alone.
	KeepExisting Policy = iota
	// Overwrite replaces destination values with source values.
	Overwrite
)

func (p Policy) String() string {
	switch p {
	case KeepExisting:
		return "keep-existing"
	case Overwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("<policy %d>", int(p))
	}
}

// Merge merges src into dst in place. Keys present on both sides with
// mapping values on both sides are merged recursively under the same
// policy; any other collision is decided by p. Keys only in src are
// appended to dst in src order. Values taken from src are cloned.
func Merge(dst, src *ir.Node, p Policy) error {
	if !dst.IsObject() || !src.IsObject() {
		return fmt.Errorf("cannot merge %s into %s", typeName(src), typeName(dst))
	}
	merge(dst, src, p, "")
	return nil
}

func merge(dst, src *ir.Node, p Policy, at string) {
	for i, f := range src.Fields {
		key := f.String
		sv := src.Values[i]
		j := dst.Index(key)
		if j == -1 {
			dst.Set(key, sv.Clone())
			continue
		}
		dv := dst.Values[j]
		if dv.IsObject() && sv.IsObject() {
			merge(dv, sv, p, at+"/"+key)
			continue
		}
		if p == Overwrite {
			if debug.Merge() {
				debug.Logf("merge: %s/%s replaced\n", at, key)
			}
			dst.Values[j] = sv.Clone()
		} else if debug.Merge() {
			debug.Logf("merge: %s/%s kept\n", at, key)
		}
	}
}

func typeName(y *ir.Node) string {
	if y == nil {
		return "nothing"
	}
	return y.Type.String()
}
