package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/propdefs/format"
	"github.com/signadot/propdefs/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func newFetcher(t *testing.T, opts Options) *Fetcher {
	t.Helper()
	f, err := New(opts)
	require.NoError(t, err)
	return f
}

func TestFetchFileByExtension(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.json", `{"b": 1, "a": 2}`)
	doc, err := newFetcher(t, Options{}).Fetch(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, format.JSONFormat, doc.Format)
	assert.Equal(t, p, doc.Locator)
	assert.Equal(t, []string{"b", "a"}, doc.Node.Keys())
}

func TestFetchTriesExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "defs/base.yaml", "x: 1\n")
	f := newFetcher(t, Options{})

	doc, err := f.Fetch(context.Background(), filepath.Join(dir, "defs/base"))
	require.NoError(t, err)
	assert.Equal(t, format.YAMLFormat, doc.Format)
	assert.Equal(t, filepath.Join(dir, "defs/base.yaml"), doc.Locator)

	// a .json reference falls back to the yaml sibling
	doc, err = f.Fetch(context.Background(), filepath.Join(dir, "defs/base.json"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "defs/base.yaml"), doc.Locator)
}

func TestLoadFromReportsActualLocator(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "defs/base.json", `{"x": 1}`)
	y, actual, err := newFetcher(t, Options{}).LoadFrom(context.Background(), filepath.Join(dir, "defs/base"))
	require.NoError(t, err)
	assert.Equal(t, p, actual)
	assert.True(t, y.Has("x"))
}

func TestFetchSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "d/inner.json", `{}`)
	writeFile(t, dir, "d.json", `{"file": true}`)
	doc, err := newFetcher(t, Options{}).Fetch(context.Background(), filepath.Join(dir, "d"))
	require.NoError(t, err)
	assert.True(t, doc.Node.Get("file").Bool)
}

func TestFetchMissing(t *testing.T) {
	_, err := newFetcher(t, Options{}).Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, stage.ErrLoad)
}

func TestFetchForcedFormat(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.txt", "a: [1, 2]\n")
	f := newFetcher(t, Options{InputFormat: format.YAMLFormat})
	y, err := f.Load(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, y.Get("a").Values, 2)

	p = writeFile(t, dir, "b.json", "a: 1\n")
	_, err = newFetcher(t, Options{InputFormat: format.JSONFormat}).Load(context.Background(), p)
	assert.ErrorIs(t, err, stage.ErrLoad)
}

func TestCacheReturnsCopies(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.json", `{"a": 1}`)
	f := newFetcher(t, Options{})
	y, err := f.Load(context.Background(), p)
	require.NoError(t, err)
	y.Delete("a")

	require.NoError(t, os.Remove(p))
	y, err = f.Load(context.Background(), p)
	require.NoError(t, err, "second load should come from the cache")
	assert.True(t, y.Has("a"))
}

func TestFetchRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/schemas/a":
			w.Header().Set("Content-Type", "application/x-yaml")
			w.Write([]byte("z: 1\na: 2\n"))
		case "/schemas/b.json":
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte(`{"b": true}`))
		case "/schemas/latin1":
			w.Header().Set("Content-Type", "application/json; charset=iso-8859-1")
			w.Write([]byte("{\"name\": \"\xc5ngstr\xf6m\"}"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	f := newFetcher(t, Options{Client: srv.Client(), CacheSize: -1})
	ctx := context.Background()

	doc, err := f.Fetch(ctx, srv.URL+"/schemas/a")
	require.NoError(t, err)
	assert.Equal(t, format.YAMLFormat, doc.Format)
	assert.Equal(t, []string{"z", "a"}, doc.Node.Keys())

	doc, err = f.Fetch(ctx, srv.URL+"/schemas/b.json")
	require.NoError(t, err)
	assert.Equal(t, format.JSONFormat, doc.Format)

	doc, err = f.Fetch(ctx, srv.URL+"/schemas/latin1")
	require.NoError(t, err)
	assert.Equal(t, "Ångström", doc.Node.Get("name").String)

	_, err = f.Fetch(ctx, srv.URL+"/missing")
	assert.ErrorIs(t, err, stage.ErrLoad)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []string{"a/b", "a/b.json", "a/b.yaml"}, candidates("a/b"))
	assert.Equal(t, []string{"a/b.json", "a/b.yaml"}, candidates("a/b.json"))
	assert.Equal(t, []string{"a/b.v1", "a/b.json", "a/b.yaml"}, candidates("a/b.v1"))
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://x/y"))
	assert.True(t, IsRemote("HTTP://x/y"))
	assert.False(t, IsRemote("file:///x/y"))
	assert.False(t, IsRemote("/x/y"))
	assert.False(t, HasScheme(`C:\x\y`))
	assert.True(t, HasScheme("mem://localhost/x"))
}
