package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"github.com/signadot/propdefs/directive"
	"github.com/signadot/propdefs/fetch"
	"github.com/signadot/propdefs/format"
	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/stage"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// Fetcher reads documents. *fetch.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*fetch.Document, error)
}

type Processor struct {
	fetcher Fetcher
	engine  *directive.Engine
	fs      afs.Service
	log     *slog.Logger
}

func New(f Fetcher, e *directive.Engine, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Processor{fetcher: f, engine: e, fs: afs.New(), log: log}
}

// Run processes source, which may be a document or a local directory.
// For directories the accumulator holding the collisions is returned as
// well.
func (p *Processor) Run(ctx context.Context, source string, base directive.Base) (*ir.Node, *Accumulator, error) {
	if !fetch.HasScheme(source) {
		isDir, err := p.isDir(ctx, source)
		if err != nil {
			return nil, nil, stage.Wrap(stage.Load, fmt.Errorf("%w: %w", stage.ErrLoad, err), "could not read %s", source)
		}
		if isDir {
			p.log.Info("processing directory", "source", source)
			acc := NewAccumulator()
			if err := p.ProcessDir(ctx, source, base, acc); err != nil {
				return nil, nil, err
			}
			return acc.Node(), acc, nil
		}
	}
	p.log.Info("processing file", "source", source)
	y, err := p.Process(ctx, source, base)
	return y, nil, err
}

// Process loads, and resolves the directives of, the document at source.
// When base.ID is empty and the document has an $id, the identifier
// prefix is derived from it.
func (p *Processor) Process(ctx context.Context, source string, base directive.Base) (*ir.Node, error) {
	doc, err := p.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, stage.Wrap(stage.Load, err, "could not read %s", source)
	}
	y := doc.Node
	base.Self = directive.Dir(doc.Locator)
	if id := y.Get(directive.IDField); id != nil && id.Type == ir.StringType && base.ID == "" {
		base, err = deriveBase(id.String, source, base)
		if err != nil {
			return nil, stage.Wrap(stage.Resolve, err, "could not resolve %s", source)
		}
		p.log.Debug("derived base", "source", source, "base", base.String())
	}
	if err := p.engine.Resolve(ctx, y, base); err != nil {
		return nil, stage.Wrap(stage.Resolve, err, "could not resolve %s", source)
	}
	return y, nil
}

// deriveBase sets base.ID to the part of id not accounted for by the
// path of source below base.Dir.
func deriveBase(id, source string, base directive.Base) (directive.Base, error) {
	rel := source
	if base.Dir != "" && !fetch.HasScheme(source) {
		absDir, err := filepath.Abs(base.Dir)
		if err != nil {
			return base, err
		}
		absSrc, err := filepath.Abs(source)
		if err != nil {
			return base, err
		}
		r, err := filepath.Rel(absDir, absSrc)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			return base, fmt.Errorf("%w: %s is not under base directory %s", stage.ErrReference, source, base.Dir)
		}
		rel = filepath.ToSlash(r)
	}
	if !strings.HasSuffix(id, rel) {
		noExt := strings.TrimSuffix(rel, filepath.Ext(rel))
		if !strings.HasSuffix(id, noExt) {
			return base, fmt.Errorf("%w: the $id field needs to end with %s but it does not: %s", stage.ErrReference, noExt, id)
		}
		rel = noExt
	}
	base.ID = id[:len(id)-len(rel)]
	if base.Dir == "" {
		base.Dir = "."
	}
	return base, nil
}

// ProcessDir processes every document below dir into acc.
func (p *Processor) ProcessDir(ctx context.Context, dir string, base directive.Base, acc *Accumulator) error {
	entries, err := p.list(ctx, dir)
	if err != nil {
		return stage.Wrap(stage.Load, fmt.Errorf("%w: %w", stage.ErrLoad, err), "could not list %s", dir)
	}
	patterns, err := p.readIgnore(ctx, dir)
	if err != nil {
		return stage.Wrap(stage.Load, fmt.Errorf("%w: %w", stage.ErrLoad, err), "could not list %s", dir)
	}
	for _, obj := range entries {
		name := obj.Name()
		if ignored(name, patterns) {
			p.log.Debug("ignoring", "dir", dir, "name", name)
			continue
		}
		src := filepath.Join(dir, name)
		if obj.IsDir() {
			p.log.Info("process dir reads directory", "dir", src)
			child, c := acc.Child(name, src)
			p.warnCollision(c)
			if err := p.ProcessDir(ctx, src, base, child); err != nil {
				return err
			}
			continue
		}
		if f, ok := format.FromExtension(name); !ok || !f.IsInput() {
			continue
		}
		p.log.Info("process dir reads file", "file", src)
		y, err := p.Process(ctx, src, base)
		if err != nil {
			return err
		}
		if !y.IsObject() {
			return stage.Wrap(stage.Resolve,
				fmt.Errorf("%w: %s does not hold a mapping", stage.ErrDirectiveShape, src),
				"could not add %s to %s", src, dir)
		}
		for i, f := range y.Fields {
			p.warnCollision(acc.Set(f.String, y.Values[i], src))
		}
	}
	return nil
}

func (p *Processor) warnCollision(c *Collision) {
	if c == nil {
		return
	}
	p.log.Warn("key collision", "key", c.Path, "previous", c.Previous, "source", c.Source)
}

func (p *Processor) isDir(ctx context.Context, source string) (bool, error) {
	u, err := filepath.Abs(source)
	if err != nil {
		return false, err
	}
	ok, err := p.fs.Exists(ctx, u)
	if err != nil || !ok {
		// let the fetcher try extensions and report
		return false, nil
	}
	obj, err := p.fs.Object(ctx, u)
	if err != nil {
		return false, err
	}
	return obj.IsDir(), nil
}

// list returns the entries of dir sorted by name.
func (p *Processor) list(ctx context.Context, dir string) ([]storage.Object, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	objs, err := p.fs.List(ctx, absDir)
	if err != nil {
		return nil, err
	}
	res := make([]storage.Object, 0, len(objs))
	for _, obj := range objs {
		if obj.IsDir() && sameDir(obj.URL(), absDir) {
			continue
		}
		res = append(res, obj)
	}
	slices.SortFunc(res, func(a, b storage.Object) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return res, nil
}

// sameDir reports whether the storage URL u names the directory dir; afs
// lists a directory along with its entries.
func sameDir(u, dir string) bool {
	p := u
	if pu, err := url.Parse(u); err == nil && pu.Scheme != "" {
		p = pu.Path
	}
	return filepath.Clean(filepath.FromSlash(p)) == filepath.Clean(dir)
}
