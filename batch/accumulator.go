package batch

import (
	"slices"

	"github.com/signadot/propdefs/ir"
)

// Collision records a top level key set by more than one source in
// directory mode. The later source wins.
type Collision struct {
	// Path is the slash separated key path in the combined result.
	Path     string
	Previous string
	Source   string
}

// Accumulator collects the results of a directory walk. Each directory
// gets its own accumulator nested in its parent's under the directory
// name; collisions are recorded on the root.
type Accumulator struct {
	node       *ir.Node
	path       string
	sources    map[string]string
	root       *Accumulator
	collisions []Collision
}

func NewAccumulator() *Accumulator {
	a := &Accumulator{node: ir.Object(), sources: map[string]string{}}
	a.root = a
	return a
}

// Set sets key to val, recording a collision if an earlier source set
// key. It returns the collision, if any.
func (a *Accumulator) Set(key string, val *ir.Node, source string) *Collision {
	var res *Collision
	if prev, ok := a.sources[key]; ok {
		res = &Collision{
			Path:     a.path + "/" + key,
			Previous: prev,
			Source:   source,
		}
		a.root.collisions = append(a.root.collisions, *res)
	}
	a.node.Set(key, val)
	a.sources[key] = source
	return res
}

// Child returns a new accumulator stored under name.
func (a *Accumulator) Child(name, source string) (*Accumulator, *Collision) {
	c := &Accumulator{
		node:    ir.Object(),
		path:    a.path + "/" + name,
		sources: map[string]string{},
		root:    a.root,
	}
	return c, a.Set(name, c.node, source)
}

func (a *Accumulator) Node() *ir.Node {
	return a.node
}

func (a *Accumulator) Collisions() []Collision {
	return slices.Clone(a.root.collisions)
}
