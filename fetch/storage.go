package fetch

import (
	"context"
	"fmt"

	"github.com/signadot/propdefs/debug"
	"github.com/signadot/propdefs/format"
)

func (f *Fetcher) fetchStorage(ctx context.Context, locator string) (*Document, error) {
	cands := candidates(locator)
	for _, c := range cands {
		u, err := storageURL(c)
		if err != nil {
			return nil, err
		}
		if debug.Fetch() {
			debug.Logf("fetch: checking for file %s\n", u)
		}
		ok, err := f.fs.Exists(ctx, u)
		if err != nil || !ok {
			continue
		}
		obj, err := f.fs.Object(ctx, u)
		if err != nil || obj.IsDir() {
			continue
		}
		d, err := f.fs.DownloadWithURL(ctx, u)
		if err != nil {
			return nil, err
		}
		form, _ := format.FromExtension(c)
		return f.parse(d, c, form)
	}
	return nil, fmt.Errorf("no such file (tried %v)", cands)
}
