package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/signadot/propdefs/debug"
	"github.com/signadot/propdefs/format"
	"golang.org/x/net/html/charset"
)

func (f *Fetcher) fetchRemote(ctx context.Context, locator string) (*Document, error) {
	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, application/x-yaml;q=0.9, */*;q=0.1")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("url %s gave %d/%s", locator, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	ct := resp.Header.Get("Content-Type")
	if debug.Fetch() {
		debug.Logf("fetch: %s content-type %q\n", locator, ct)
	}
	body := io.Reader(resp.Body)
	if _, params, err := mime.ParseMediaType(ct); err == nil && params["charset"] != "" {
		body, err = charset.NewReaderLabel(params["charset"], resp.Body)
		if err != nil {
			return nil, fmt.Errorf("charset of %s: %w", locator, err)
		}
	}
	d, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	form, ok := format.FromContentType(ct)
	if !ok {
		if u, err := url.Parse(locator); err == nil {
			form, _ = format.FromExtension(u.Path)
		}
	}
	return f.parse(d, locator, form)
}
