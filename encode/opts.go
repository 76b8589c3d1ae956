package encode

import "github.com/signadot/propdefs/format"

type EncodeOption func(*EncState)

func EncodeFormat(f format.Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// Indent sets the number of spaces per nesting level. Zero keeps the
// format's default.
func Indent(n int) EncodeOption {
	return func(es *EncState) { es.indent = n }
}

// EncodeCompact writes JSON on a single line.
func EncodeCompact(v bool) EncodeOption {
	return func(es *EncState) { es.compact = v }
}

// EncodeColors colors JSON output for a terminal.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
	}
}
