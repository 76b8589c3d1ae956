package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/signadot/propdefs/ir"
)

func parseJSON(d []byte) (*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	res, err := decodeJSON(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after offset %d", dec.InputOffset())
	}
	return res, nil
}

func decodeJSON(dec *json.Decoder) (*ir.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch x := tok.(type) {
	case json.Delim:
		switch x {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		}
		return nil, fmt.Errorf("unexpected %q at offset %d", rune(x), dec.InputOffset())
	case string:
		return ir.FromString(x), nil
	case json.Number:
		return ir.FromNumber(string(x)), nil
	case bool:
		return ir.FromBool(x), nil
	case nil:
		return ir.Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeJSONObject(dec *json.Decoder) (*ir.Node, error) {
	res := ir.Object()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", tok)
		}
		val, err := decodeJSON(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		// duplicate keys: last one wins, in the position of the first
		res.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return res, nil
}

func decodeJSONArray(dec *json.Decoder) (*ir.Node, error) {
	res := ir.FromSlice(nil)
	for dec.More() {
		val, err := decodeJSON(dec)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", len(res.Values), err)
		}
		res.Values = append(res.Values, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return res, nil
}
