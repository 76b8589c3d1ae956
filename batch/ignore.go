package batch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/parse"
)

// IgnoreFile lists glob patterns, relative to its directory, of entries
// directory mode skips. It holds a JSON or YAML list of strings.
const IgnoreFile = ".propdefsignore"

func (p *Processor) readIgnore(ctx context.Context, dir string) ([]string, error) {
	ignorePath := filepath.Join(dir, IgnoreFile)
	ok, err := p.fs.Exists(ctx, ignorePath)
	if err != nil || !ok {
		return nil, nil
	}
	d, err := p.fs.DownloadWithURL(ctx, ignorePath)
	if err != nil {
		return nil, err
	}
	y, err := parse.Parse(d)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", ignorePath, err)
	}
	if y.IsNull() {
		return nil, nil
	}
	if !y.IsArray() {
		return nil, fmt.Errorf("%s must hold a list of patterns", ignorePath)
	}
	res := make([]string, 0, len(y.Values))
	for _, v := range y.Values {
		if v.Type != ir.StringType {
			return nil, fmt.Errorf("%s: pattern %s is not a string", ignorePath, v.Text())
		}
		if _, err := filepath.Match(v.String, ""); err != nil {
			return nil, fmt.Errorf("illegal ignore pattern %q in %s: %w", v.String, ignorePath, err)
		}
		res = append(res, v.String)
	}
	return res, nil
}

func ignored(name string, patterns []string) bool {
	if name == IgnoreFile {
		return true
	}
	for _, pat := range patterns {
		if m, _ := filepath.Match(pat, name); m {
			return true
		}
	}
	return false
}
