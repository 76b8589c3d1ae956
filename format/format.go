// Package format names the document encodings propdefs reads and writes.
package format

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
)

type Format int

const (
	// AutoFormat asks for detection from the source's extension or
	// content type.
	AutoFormat Format = iota
	JSONFormat
	YAMLFormat
	MarkdownFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"auto": AutoFormat,
		"":     AutoFormat,
		"j":    JSONFormat,
		"json": JSONFormat,
		"y":    YAMLFormat,
		"yaml": YAMLFormat,
		"yml":  YAMLFormat,
		"md":   MarkdownFormat,
	}[strings.ToLower(v)]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case AutoFormat:
		return []byte("auto"), nil
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case MarkdownFormat:
		return []byte("md"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsAuto() bool     { return f == AutoFormat }
func (f Format) IsJSON() bool     { return f == JSONFormat }
func (f Format) IsYAML() bool     { return f == YAMLFormat }
func (f Format) IsMarkdown() bool { return f == MarkdownFormat }

// IsInput reports whether documents can be read in f.
func (f Format) IsInput() bool {
	return f == JSONFormat || f == YAMLFormat
}

// IsOutput reports whether documents can be written in f.
func (f Format) IsOutput() bool {
	return f == JSONFormat || f == YAMLFormat || f == MarkdownFormat
}

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case JSONFormat:
		return ".json"
	case YAMLFormat:
		return ".yaml"
	case MarkdownFormat:
		return ".md"
	default:
		return ""
	}
}

// InputFormats returns the readable formats in the order they are tried.
func InputFormats() []Format {
	return []Format{JSONFormat, YAMLFormat}
}

// FromExtension returns the format named by the extension of p, which may
// be a file path or a URL path. ok is false when the extension is not one
// of ours.
func FromExtension(p string) (f Format, ok bool) {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return JSONFormat, true
	case ".yaml", ".yml":
		return YAMLFormat, true
	case ".md":
		return MarkdownFormat, true
	}
	return AutoFormat, false
}

// FromContentType detects an input format from a MIME content type such as
// "application/json; charset=utf-8" or "application/x-yaml".
func FromContentType(ct string) (f Format, ok bool) {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return AutoFormat, false
	}
	major, sub, found := strings.Cut(mt, "/")
	if !found || (major != "application" && major != "text") {
		return AutoFormat, false
	}
	sub = strings.TrimPrefix(sub, "x-")
	if i := strings.LastIndexByte(sub, '+'); i != -1 {
		sub = sub[i+1:]
	}
	switch sub {
	case "json":
		return JSONFormat, true
	case "yaml", "yml":
		return YAMLFormat, true
	}
	return AutoFormat, false
}
