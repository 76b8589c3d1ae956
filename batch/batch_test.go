package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/signadot/propdefs/directive"
	"github.com/signadot/propdefs/encode"
	"github.com/signadot/propdefs/fetch"
	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/parse"
	"github.com/signadot/propdefs/stage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func newProcessor(t *testing.T, opts directive.Options) *Processor {
	t.Helper()
	f, err := fetch.New(fetch.Options{CacheSize: -1})
	require.NoError(t, err)
	return New(f, directive.New(f, nil, opts), nil)
}

func assertTree(t *testing.T, want string, got *ir.Node) {
	t.Helper()
	w, err := parse.Parse([]byte(want), parse.ParseJSON())
	require.NoError(t, err)
	assert.True(t, ir.Equal(w, got), "got %s\nwant %s", encode.MustString(got), want)
}

func TestProcessRelative(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"defs/a.json":        `{"$$inherit": "common/b", "a": 1}`,
		"defs/common/b.yaml": "b: 2\n$$inherit: c.json\n",
		"defs/common/c.json": `{"c": 3, "a": 0}`,
	})
	y, err := newProcessor(t, directive.Options{}).Process(context.Background(), filepath.Join(dir, "defs/a.json"), directive.Base{})
	require.NoError(t, err)
	assertTree(t, `{"a": 1, "b": 2, "c": 3}`, y)
}

func TestProcessDerivesID(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"core/a.json":   `{"$id": "https://x/defs/core/a", "$$inherit": "/defs/shared/b"}`,
		"shared/b.json": `{"b": true}`,
	})
	p := newProcessor(t, directive.Options{})
	y, err := p.Process(context.Background(), filepath.Join(dir, "core/a.json"), directive.Base{Dir: dir})
	require.NoError(t, err)
	assertTree(t, `{"$id": "https://x/defs/core/a", "b": true}`, y)
}

func TestProcessBadID(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"core/a.json": `{"$id": "https://x/defs/other/a"}`,
	})
	_, err := newProcessor(t, directive.Options{}).Process(context.Background(), filepath.Join(dir, "core/a.json"), directive.Base{Dir: dir})
	require.Error(t, err)
	assert.ErrorIs(t, err, stage.ErrReference)
}

func TestDeriveBase(t *testing.T) {
	b, err := deriveBase("https://x/defs/core/a.json", "/root/defs/core/a.json", directive.Base{Dir: "/root/defs"})
	require.NoError(t, err)
	assert.Equal(t, "https://x/defs/", b.ID)

	b, err = deriveBase("https://x/schemas/core/a", "schemas/core/a.yaml", directive.Base{})
	require.NoError(t, err)
	assert.Equal(t, "https://x/", b.ID)
	assert.Equal(t, ".", b.Dir)

	_, err = deriveBase("https://x/a", "/elsewhere/a.json", directive.Base{Dir: "/root"})
	assert.ErrorIs(t, err, stage.ErrReference)
}

func TestProcessDir(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.json":          `{"x": 1, "k": "a"}`,
		"b.yaml":          "k: b\n",
		"notes.txt":       "not a document",
		"skip.json":       `{"skipped": true}`,
		".propdefsignore": `["skip*"]`,
		"sub/c.json":      `{"$$inherit": "../base.yml", "c": 1}`,
		"base.yml":        "shared: true\n",
	})
	p := newProcessor(t, directive.Options{})
	y, acc, err := p.Run(context.Background(), dir, directive.Base{})
	require.NoError(t, err)
	require.NotNil(t, acc)
	assertTree(t, `{"x": 1, "k": "b", "shared": true, "sub": {"c": 1, "shared": true}}`, y)
	assert.Equal(t, []string{"x", "k", "shared", "sub"}, y.Keys())

	require.Len(t, acc.Collisions(), 1)
	c := acc.Collisions()[0]
	assert.Equal(t, "/k", c.Path)
	assert.Equal(t, filepath.Join(dir, "a.json"), c.Previous)
	assert.Equal(t, filepath.Join(dir, "b.yaml"), c.Source)
}

func TestProcessDirRejectsLists(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.json": `[1, 2]`})
	acc := NewAccumulator()
	err := newProcessor(t, directive.Options{}).ProcessDir(context.Background(), dir, directive.Base{}, acc)
	assert.ErrorIs(t, err, stage.ErrDirectiveShape)
}

func TestRunFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.yaml": "$$schema: https://x/s\n"})
	y, acc, err := newProcessor(t, directive.Options{}).Run(context.Background(), filepath.Join(dir, "a"), directive.Base{})
	require.NoError(t, err)
	assert.Nil(t, acc)
	assertTree(t, `{"$schema": "https://x/s.json"}`, y)
}

func TestRunMissing(t *testing.T) {
	_, _, err := newProcessor(t, directive.Options{}).Run(context.Background(), filepath.Join(t.TempDir(), "nope"), directive.Base{})
	assert.ErrorIs(t, err, stage.ErrLoad)
}

func TestAccumulatorNesting(t *testing.T) {
	acc := NewAccumulator()
	child, c := acc.Child("sub", "d/sub")
	assert.Nil(t, c)
	assert.Nil(t, child.Set("a", ir.FromInt(1), "d/sub/x.json"))
	assert.NotNil(t, child.Set("a", ir.FromInt(2), "d/sub/y.json"))
	assert.Equal(t, int64(2), *acc.Node().Get("sub").Get("a").Int64)
	require.Len(t, acc.Collisions(), 1)
	assert.Equal(t, "/sub/a", acc.Collisions()[0].Path)
}
