package directive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/signadot/propdefs/debug"
	"github.com/signadot/propdefs/format"
	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/mergeop"
	"github.com/signadot/propdefs/stage"
)

const DefaultMaxDepth = 64

// Loader loads the document at a locator produced by Resolve.
type Loader interface {
	Load(ctx context.Context, locator string) (*ir.Node, error)
}

// LocatingLoader is a Loader that also reports the locator a document was
// actually read from, which differs from the requested one when the
// loader tries extensions. Inheritance cycles are detected on it.
type LocatingLoader interface {
	Loader
	LoadFrom(ctx context.Context, locator string) (y *ir.Node, actual string, err error)
}

type Options struct {
	// OutputFormat names the extension $$schema values receive.
	OutputFormat format.Format
	// RemoveNull drops keys whose value is null.
	RemoveNull bool
	// CleanInnerSchemas drops $schema from inherited documents.
	CleanInnerSchemas bool
	// MaxDepth bounds the length of inheritance chains.
	MaxDepth int
	Log      *slog.Logger
}

type Engine struct {
	Loader        Loader
	Substitutions Substitutions
	Options       Options
}

func New(loader Loader, subs Substitutions, opts Options) *Engine {
	if opts.OutputFormat.IsAuto() {
		opts.OutputFormat = format.JSONFormat
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{Loader: loader, Substitutions: subs, Options: opts}
}

// Resolve eliminates every directive in tree, in place. tree must be a
// mapping or a list.
func (e *Engine) Resolve(ctx context.Context, tree *ir.Node, base Base) error {
	if !tree.IsObject() && !tree.IsArray() {
		return fmt.Errorf("%w: cannot resolve a %s document", stage.ErrDirectiveShape, typeName(tree))
	}
	r := &resolver{Engine: e, log: e.Options.Log}
	return r.resolve(ctx, tree, base, 0, false, "")
}

type resolver struct {
	*Engine
	log *slog.Logger
	// locators of the documents being inherited, outermost first
	chain []string
}

func (r *resolver) resolve(ctx context.Context, y *ir.Node, base Base, depth int, inheritedRoot bool, at string) error {
	switch y.Type {
	case ir.ArrayType:
		for i, v := range y.Values {
			if !v.IsObject() && !v.IsArray() {
				continue
			}
			if err := r.resolve(ctx, v, base, depth, false, at+"/"+strconv.Itoa(i)); err != nil {
				return err
			}
		}
		return nil
	case ir.ObjectType:
		return r.resolveMapping(ctx, y, base, depth, inheritedRoot, at)
	}
	return fmt.Errorf("%w: unsupported %s at %s", stage.ErrDirectiveShape, typeName(y), pathOf(at))
}

func (r *resolver) resolveMapping(ctx context.Context, y *ir.Node, base Base, depth int, inheritedRoot bool, at string) error {
	if v := y.Get(InheritKey); v != nil {
		inh, err := ParseInherit(v)
		if err != nil {
			return fmt.Errorf("at %s: %w", pathOf(at), err)
		}
		acc := ir.Object()
		for _, ref := range inh.Refs() {
			sub, err := r.inherit(ctx, ref, base, depth)
			if err != nil {
				return fmt.Errorf("in %s %q at %s: %w", InheritKey, ref, pathOf(at), err)
			}
			if err := mergeop.Merge(acc, sub, mergeop.Overwrite); err != nil {
				return err
			}
		}
		y.Delete(InheritKey)
		if err := mergeop.Merge(y, acc, mergeop.KeepExisting); err != nil {
			return err
		}
	}
	if v := y.Get(SchemaKey); v != nil {
		if v.Type != ir.StringType {
			return fmt.Errorf("%w: %s at %s must be a string", stage.ErrDirectiveShape, SchemaKey, pathOf(at))
		}
		schema := ir.FromString(v.String + "." + r.Options.OutputFormat.String())
		if i := y.Index(SchemaField); i != -1 {
			y.Values[i] = schema
			y.Delete(SchemaKey)
		} else {
			// take the directive's place
			y.Fields[y.Index(SchemaKey)] = ir.FromString(SchemaField)
			y.Values[y.Index(SchemaField)] = schema
		}
	}
	if depth > 0 && r.Options.CleanInnerSchemas {
		y.Delete(SchemaField)
	}
	for i, f := range y.Fields {
		v := y.Values[i]
		if !v.IsObject() && !v.IsArray() {
			continue
		}
		if err := r.resolve(ctx, v, base, depth, false, at+"/"+escapeSegment(f.String)); err != nil {
			return err
		}
	}
	if !inheritedRoot {
		if err := Keep(y); err != nil {
			return fmt.Errorf("at %s: %w", pathOf(at), err)
		}
		if err := Exclude(y); err != nil {
			return fmt.Errorf("at %s: %w", pathOf(at), err)
		}
	}
	if r.Options.RemoveNull {
		removeNull(y)
	}
	return nil
}

// inherit loads, resolves, substitutes and filters the document named by
// ref.
func (r *resolver) inherit(ctx context.Context, ref string, base Base, depth int) (*ir.Node, error) {
	loc, err := Resolve(ref, base)
	if err != nil {
		return nil, err
	}
	if depth+1 > r.Options.MaxDepth {
		return nil, fmt.Errorf("%w: inheritance deeper than %d", stage.ErrReference, r.Options.MaxDepth)
	}
	r.log.Debug("handling $$inherit", "ref", ref, "locator", loc, "depth", depth)
	y, actual, err := r.load(ctx, loc)
	if err != nil {
		return nil, err
	}
	if slices.Contains(r.chain, actual) {
		return nil, fmt.Errorf("%w: inheritance cycle %s", stage.ErrReference,
			strings.Join(append(slices.Clone(r.chain), actual), " -> "))
	}
	if !y.IsObject() {
		return nil, fmt.Errorf("%w: %s holds a %s, not a mapping", stage.ErrDirectiveShape, loc, typeName(y))
	}
	r.chain = append(r.chain, actual)
	defer func() { r.chain = r.chain[:len(r.chain)-1] }()
	loc = actual

	nb := base
	nb.Self = Dir(loc)
	if err := r.resolve(ctx, y, nb, depth+1, true, ""); err != nil {
		return nil, fmt.Errorf("resolving %s: %w", loc, err)
	}
	r.Substitutions.Apply(y)
	if err := Keep(y); err != nil {
		return nil, fmt.Errorf("in %s: %w", loc, err)
	}
	if err := Exclude(y); err != nil {
		return nil, fmt.Errorf("in %s: %w", loc, err)
	}
	if debug.Inherit() {
		debug.Logf("inherit %s (depth %d):\n%v", loc, depth+1, y)
	}
	return y, nil
}

func (r *resolver) load(ctx context.Context, loc string) (*ir.Node, string, error) {
	var (
		y      *ir.Node
		actual = loc
		err    error
	)
	if ll, ok := r.Loader.(LocatingLoader); ok {
		y, actual, err = ll.LoadFrom(ctx, loc)
	} else {
		y, err = r.Loader.Load(ctx, loc)
	}
	if err != nil {
		return nil, "", err
	}
	if !isURL(actual) {
		actual = filepath.Clean(actual)
	}
	return y, actual, nil
}

func removeNull(y *ir.Node) {
	var nulls []string
	for i, f := range y.Fields {
		if y.Values[i].IsNull() {
			nulls = append(nulls, f.String)
		}
	}
	for _, k := range nulls {
		y.Delete(k)
	}
}

func escapeSegment(k string) string {
	return strings.ReplaceAll(k, "/", `\/`)
}

func pathOf(at string) string {
	if at == "" {
		return "/"
	}
	return at
}

func typeName(y *ir.Node) string {
	if y == nil {
		return "missing value"
	}
	return strings.ToLower(y.Type.String())
}
