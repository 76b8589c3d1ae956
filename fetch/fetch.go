package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/signadot/propdefs/debug"
	"github.com/signadot/propdefs/format"
	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/parse"
	"github.com/signadot/propdefs/stage"
	"github.com/viant/afs"
)

const DefaultCacheSize = 256

type Options struct {
	// InputFormat forces the format of every document. AutoFormat
	// detects it per document.
	InputFormat format.Format
	// Timeout bounds each remote fetch. Zero means no timeout.
	Timeout time.Duration
	// Client is used for http and https locators.
	Client *http.Client
	// CacheSize is the number of parsed documents kept. Negative disables
	// the cache.
	CacheSize int
	Log       *slog.Logger
}

// Document is a parsed source.
type Document struct {
	// Locator is where the document was actually read, after trying
	// other extensions.
	Locator string
	Format  format.Format
	Node    *ir.Node
}

type Fetcher struct {
	opts   Options
	fs     afs.Service
	client *http.Client
	cache  *lru.Cache[string, *Document]
	log    *slog.Logger
}

func New(opts Options) (*Fetcher, error) {
	f := &Fetcher{
		opts:   opts,
		fs:     afs.New(),
		client: opts.Client,
		log:    opts.Log,
	}
	if f.client == nil {
		f.client = http.DefaultClient
	}
	if f.log == nil {
		f.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	size := opts.CacheSize
	if size == 0 {
		size = DefaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[string, *Document](size)
		if err != nil {
			return nil, err
		}
		f.cache = cache
	}
	return f, nil
}

// Load returns the document tree at locator.
func (f *Fetcher) Load(ctx context.Context, locator string) (*ir.Node, error) {
	doc, err := f.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	return doc.Node, nil
}

// LoadFrom is Load that also returns the locator the document was read
// from after trying extensions.
func (f *Fetcher) LoadFrom(ctx context.Context, locator string) (*ir.Node, string, error) {
	doc, err := f.Fetch(ctx, locator)
	if err != nil {
		return nil, "", err
	}
	return doc.Node, doc.Locator, nil
}

// Fetch reads and parses the document at locator. Errors match
// stage.ErrLoad.
func (f *Fetcher) Fetch(ctx context.Context, locator string) (*Document, error) {
	if f.cache != nil {
		if doc, ok := f.cache.Get(locator); ok {
			if debug.Fetch() {
				debug.Logf("fetch: cache hit %s\n", locator)
			}
			return doc.clone(), nil
		}
	}
	f.log.Debug("read data", "locator", locator)
	var (
		doc *Document
		err error
	)
	if IsRemote(locator) {
		doc, err = f.fetchRemote(ctx, locator)
	} else {
		doc, err = f.fetchStorage(ctx, locator)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't load data from %s: %w", stage.ErrLoad, locator, err)
	}
	if f.cache != nil {
		f.cache.Add(locator, doc.clone())
	}
	return doc, nil
}

func (f *Fetcher) parse(d []byte, locator string, detected format.Format) (*Document, error) {
	form := f.opts.InputFormat
	if form.IsAuto() {
		form = detected
	}
	if form.IsAuto() {
		form = parse.Sniff(d)
		f.log.Debug("input format sniffed", "locator", locator, "format", form)
	}
	if !form.IsInput() {
		return nil, fmt.Errorf("unsupported input format %s", form)
	}
	node, err := parse.Parse(d, parse.ParseFormat(form))
	if err != nil {
		return nil, err
	}
	return &Document{Locator: locator, Format: form, Node: node}, nil
}

func (d *Document) clone() *Document {
	res := *d
	res.Node = d.Node.Clone()
	return &res
}

// IsRemote reports whether locator names an http or https resource.
func IsRemote(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return true
	}
	return false
}

// HasScheme reports whether locator is a URL rather than a file path.
func HasScheme(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	// single letter schemes are windows drive letters
	return len(u.Scheme) > 1
}

// candidates lists the locators tried for p in order: p itself, then p
// with its extension replaced by each input format's.
func candidates(p string) []string {
	base := strings.TrimSuffix(p, path.Ext(p))
	res := []string{p}
	for _, form := range format.InputFormats() {
		c := base + form.Suffix()
		if c != p {
			res = append(res, c)
		}
	}
	return res
}

func storageURL(locator string) (string, error) {
	if HasScheme(locator) {
		return locator, nil
	}
	return filepath.Abs(locator)
}
