package directive

import (
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/propdefs/debug"
	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/stage"
)

// Keep applies and removes the $$keep directive of y. Directive keys are
// always retained.
func Keep(y *ir.Node) error {
	v := y.Get(KeepKey)
	if v == nil {
		return nil
	}
	keys, err := stringList(v, KeepKey)
	if err != nil {
		return err
	}
	if debug.Filter() {
		debug.Logf("keep %v of %v\n", keys, y.Keys())
	}
	y.Retain(func(k string) bool {
		return IsDirective(k) || slices.Contains(keys, k)
	})
	y.Delete(KeepKey)
	return nil
}

// Exclude applies and removes the $$exclude directive of y.
func Exclude(y *ir.Node) error {
	v := y.Get(ExcludeKey)
	if v == nil {
		return nil
	}
	ptrs, err := stringList(v, ExcludeKey)
	if err != nil {
		return err
	}
	y.Delete(ExcludeKey)
	for _, p := range ptrs {
		if debug.Filter() {
			debug.Logf("exclude %q\n", p)
		}
		if err := deletePointer(y, p); err != nil {
			return err
		}
	}
	return nil
}

func deletePointer(y *ir.Node, p string) error {
	segs := SplitPointer(p)
	loc := y
	for _, seg := range segs[:len(segs)-1] {
		next := loc.Get(seg)
		if !next.IsObject() {
			return fmt.Errorf("%w: %s pointer %q invalid: no mapping at %q", stage.ErrReference, ExcludeKey, p, seg)
		}
		loc = next
	}
	last := segs[len(segs)-1]
	if !loc.Delete(last) {
		return fmt.Errorf("%w: %s pointer %q invalid: no key %q", stage.ErrReference, ExcludeKey, p, last)
	}
	return nil
}

// SplitPointer splits an exclude pointer on every "/" not preceded by a
// backslash and unescapes "\/" in the segments. A single leading "/" is
// ignored.
func SplitPointer(p string) []string {
	p = strings.TrimPrefix(p, "/")
	var (
		res []string
		cur strings.Builder
	)
	for i := 0; i < len(p); i++ {
		switch {
		case p[i] == '\\' && i+1 < len(p) && p[i+1] == '/':
			cur.WriteByte('/')
			i++
		case p[i] == '/':
			res = append(res, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(p[i])
		}
	}
	return append(res, cur.String())
}
