package directive

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/signadot/propdefs/stage"
)

// Base is the context references are resolved against.
type Base struct {
	// ID is the identifier prefix corresponding to Dir, such as
	// "https://schemas.example.org/defs/".
	ID string
	// Dir is the directory holding the documents named by ID.
	Dir string
	// Self is the directory of the document being resolved.
	Self string
}

func (b Base) String() string {
	return fmt.Sprintf("id=%q dir=%q self=%q", b.ID, b.Dir, b.Self)
}

// Resolve maps a reference found in a document to the locator to load.
//
// Absolute paths live in the identifier space: they are resolved against
// b.ID and the part below b.ID is joined onto b.Dir. Relative paths are
// joined onto b.Self. References with a remote scheme are returned as is.
func Resolve(ref string, b Base) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: bad reference %q: %w", stage.ErrReference, ref, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if isURLScheme(scheme) && scheme != "file" {
		return ref, nil
	}
	p := ref
	if scheme == "file" {
		p = u.Path
		if p == "" {
			// file:x.json
			p = u.Opaque
		}
	}
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return resolveAbs(ref, p, b)
	}
	if b.Self == "" {
		return p, nil
	}
	if isURL(b.Self) {
		self, err := url.Parse(b.Self)
		if err != nil {
			return "", fmt.Errorf("%w: bad base %q: %w", stage.ErrReference, b.Self, err)
		}
		if !strings.HasSuffix(self.Path, "/") {
			self.Path += "/"
		}
		return self.ResolveReference(&url.URL{Path: p}).String(), nil
	}
	return filepath.Join(b.Self, filepath.FromSlash(p)), nil
}

func resolveAbs(ref, p string, b Base) (string, error) {
	if b.ID == "" {
		if b.Dir == "" {
			return p, nil
		}
		return filepath.Join(b.Dir, filepath.FromSlash(p)), nil
	}
	id, err := url.Parse(b.ID)
	if err != nil {
		return "", fmt.Errorf("%w: bad base id %q: %w", stage.ErrReference, b.ID, err)
	}
	abs := id.ResolveReference(&url.URL{Path: filepath.ToSlash(p)}).String()
	rel, ok := strings.CutPrefix(abs, b.ID)
	if !ok {
		return "", fmt.Errorf("%w: %q resolves to %s which is not under %s", stage.ErrReference, ref, abs, b.ID)
	}
	if b.Dir == "" {
		return abs, nil
	}
	return filepath.Join(b.Dir, filepath.FromSlash(rel)), nil
}

// Dir returns the directory of a locator, which may be a file path or a
// URL.
func Dir(locator string) string {
	if !isURL(locator) {
		return filepath.Dir(locator)
	}
	u, err := url.Parse(locator)
	if err != nil {
		return filepath.Dir(locator)
	}
	if strings.EqualFold(u.Scheme, "file") {
		return path.Dir(u.Path)
	}
	d := path.Dir(u.Path)
	if d == "." {
		d = ""
	}
	if !strings.HasSuffix(d, "/") {
		d += "/"
	}
	u.Path = d
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && isURLScheme(strings.ToLower(u.Scheme))
}

// single letter schemes are windows drive letters
func isURLScheme(s string) bool {
	return len(s) > 1
}
