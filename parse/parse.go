package parse

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/signadot/propdefs/format"
	"github.com/signadot/propdefs/ir"
)

var ErrParse = errors.New("parse error")

func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	pOpts := &parseOpts{format: format.AutoFormat}
	for _, f := range opts {
		f(pOpts)
	}
	f := pOpts.format
	if f.IsAuto() {
		f = Sniff(d)
	}
	var (
		res *ir.Node
		err error
	)
	switch f {
	case format.JSONFormat:
		res, err = parseJSON(d)
	case format.YAMLFormat:
		res, err = parseYAML(d)
	default:
		return nil, fmt.Errorf("%w: cannot read %s documents", ErrParse, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrParse, f, err)
	}
	return res, nil
}

// Sniff guesses the format of d. JSON is a subset of YAML so the guess
// only needs to be right for documents the JSON decoder would accept.
func Sniff(d []byte) format.Format {
	d = bytes.TrimLeft(d, " \t\r\n\ufeff")
	if len(d) != 0 && (d[0] == '{' || d[0] == '[') {
		return format.JSONFormat
	}
	return format.YAMLFormat
}
