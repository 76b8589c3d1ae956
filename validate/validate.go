package validate

import (
	"fmt"
	"strings"

	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/stage"
	"github.com/xeipuuv/gojsonschema"
)

// Validate checks instance against the schema named by its $schema. It
// is a validation failure for instance to lack $schema or to name an
// unregistered schema.
func (r *Registry) Validate(instance *ir.Node) error {
	sv := instance.Get("$schema")
	if sv == nil || sv.Type != ir.StringType {
		return fmt.Errorf("%w: validation requested but instance does not contain $schema, nor was an explicit schema given", stage.ErrValidation)
	}
	schema := r.Lookup(sv.String)
	if schema == nil {
		return fmt.Errorf("%w: reference to unknown schema id: %s", stage.ErrValidation, sv.String)
	}
	return r.ValidateWith(instance, schema)
}

// ValidateWith checks instance against schema. The registered schemas
// are available to $ref by their $id.
func (r *Registry) ValidateWith(instance, schema *ir.Node) error {
	res, err := r.validate(instance, schema)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	errs := res.Errors()
	first := errs[0]
	msg := fmt.Sprintf("schema validation failed: %s. Error at JSON path: %s.", first.Description(), jsonPath(first))
	if len(errs) > 1 {
		msg += fmt.Sprintf(" (%d more)", len(errs)-1)
	}
	return fmt.Errorf("%w: %s", stage.ErrValidation, msg)
}

// Errors lists every violation in instance against schema as
// "path: description".
func (r *Registry) Errors(instance, schema *ir.Node) ([]string, error) {
	res, err := r.validate(instance, schema)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		out = append(out, jsonPath(e)+": "+e.Description())
	}
	return out, nil
}

func (r *Registry) validate(instance, schema *ir.Node) (*gojsonschema.Result, error) {
	sl := gojsonschema.NewSchemaLoader()
	var id string
	if v := schema.Get("$id"); v != nil && v.Type == ir.StringType {
		id = v.String
	}
	var others []gojsonschema.JSONLoader
	for _, s := range r.all() {
		if sid := s.Get("$id"); sid != nil && sid.String == id {
			continue
		}
		others = append(others, gojsonschema.NewGoLoader(ir.ToAny(s)))
	}
	if err := sl.AddSchemas(others...); err != nil {
		return nil, fmt.Errorf("%w: invalid schema: %w", stage.ErrValidation, err)
	}
	compiled, err := sl.Compile(gojsonschema.NewGoLoader(ir.ToAny(schema)))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid schema: %w", stage.ErrValidation, err)
	}
	res, err := compiled.Validate(gojsonschema.NewGoLoader(ir.ToAny(instance)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stage.ErrValidation, err)
	}
	return res, nil
}

func jsonPath(e gojsonschema.ResultError) string {
	p := strings.TrimPrefix(e.Context().String("/"), "(root)")
	if p == "" {
		return "/"
	}
	return p
}
