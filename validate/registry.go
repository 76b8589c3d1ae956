// Package validate checks resolved documents against JSON schemas.
//
// Schemas are registered under their own $id. A document names its
// schema with $schema; the lookup tries the exact identifier, then the
// identifier without its extension, so "https://x/s.json" finds a schema
// registered as "https://x/s".
package validate

import (
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/stage"
)

// Registry holds schemas by $id. It is safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]*ir.Node
}

func NewRegistry() *Registry {
	return &Registry{byID: map[string]*ir.Node{}}
}

// Register adds schema under its $id.
func (r *Registry) Register(schema *ir.Node) error {
	if !schema.IsObject() {
		return fmt.Errorf("%w: schema must be a mapping", stage.ErrValidation)
	}
	id := schema.Get("$id")
	if id == nil || id.Type != ir.StringType || id.String == "" {
		return fmt.Errorf("%w: schema provided without $id field", stage.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[id.String]; exists {
		return fmt.Errorf("%w: schema %q already registered", stage.ErrValidation, id.String)
	}
	r.byID[id.String] = schema
	return nil
}

// Lookup finds the schema for a $schema value, or returns nil.
func (r *Registry) Lookup(id string) *ir.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s := r.byID[id]; s != nil {
		return s
	}
	if ext := path.Ext(id); ext != "" {
		return r.byID[strings.TrimSuffix(id, ext)]
	}
	return nil
}

// IDs returns the registered identifiers in order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]string, 0, len(r.byID))
	for id := range r.byID {
		res = append(res, id)
	}
	slices.Sort(res)
	return res
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *Registry) all() []*ir.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*ir.Node, 0, len(r.byID))
	for _, id := range slices.Sorted(maps.Keys(r.byID)) {
		res = append(res, r.byID[id])
	}
	return res
}
