package encode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/propdefs/format"
	"github.com/signadot/propdefs/ir"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	format  format.Format
	indent  int
	compact bool

	Color func(ir.Type, ColorAttr, string) string
}

func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{format: format.JSONFormat}
	for _, opt := range opts {
		opt(es)
	}
	if node == nil {
		node = ir.Null()
	}
	buf := bytes.NewBuffer(nil)
	switch es.format {
	case format.JSONFormat, format.AutoFormat:
		if es.indent == 0 {
			es.indent = 4
		}
		if err := encodeJSON(buf, node, es, 0); err != nil {
			return err
		}
		buf.WriteByte('\n')
	case format.YAMLFormat:
		if es.indent == 0 {
			es.indent = 2
		}
		if err := encodeYAML(buf, node, es); err != nil {
			return err
		}
	case format.MarkdownFormat:
		if err := Markdown(buf, node); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: cannot write %s", ErrEncoding, es.format)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func MustString(node *ir.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

func applyColor(es *EncState, t ir.Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, attr, v)
}
