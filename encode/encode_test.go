package encode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/propdefs/format"
	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/parse"
)

func mustParse(t *testing.T, in string) *ir.Node {
	t.Helper()
	y, err := parse.Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse %q: %v", in, err)
	}
	return y
}

func encodeString(t *testing.T, y *ir.Node, opts ...EncodeOption) string {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	if err := Encode(y, buf, opts...); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.String()
}

func TestJSON(t *testing.T) {
	y := mustParse(t, `{"z": 1, "a": [true, null, 1.5], "e": {}, "l": [], "s": "x\"y"}`)
	want := `{
    "z": 1,
    "a": [
        true,
        null,
        1.5
    ],
    "e": {},
    "l": [],
    "s": "x\"y"
}
`
	if diff := cmp.Diff(want, encodeString(t, y, EncodeFormat(format.JSONFormat))); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestJSONCompact(t *testing.T) {
	y := mustParse(t, `{"a": [1, 2], "b": {"c": "d"}}`)
	got := MustString(y, EncodeCompact(true))
	if want := `{"a": [1, 2], "b": {"c": "d"}}`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestQuote(t *testing.T) {
	for in, want := range map[string]string{
		"plain":      `"plain"`,
		"a\nb\tc":    `"a\nb\tc"`,
		"\u00c5":     `"\u00c5"`,
		"\U0001F600": `"\ud83d\ude00"`,
		"<&>":        `"<&>"`,
		"\x01":       `"\u0001"`,
	} {
		if got := Quote(in); got != want {
			t.Errorf("Quote(%q) = %s want %s", in, got, want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	y := mustParse(t, `{"b": {"y": [1, {"q": "Å"}], "x": -2.5e-3}, "a": null}`)
	back := mustParse(t, encodeString(t, y))
	if !ir.Equal(y, back) {
		t.Errorf("round trip changed the tree:\n%s", encodeString(t, back))
	}
	if diff := cmp.Diff(y.Keys(), back.Keys()); diff != "" {
		t.Errorf("key order (-want +got):\n%s", diff)
	}
}

func TestYAMLKeepsOrder(t *testing.T) {
	y := mustParse(t, `{"z": 1, "a": {"w": "b", "x": [1, 2]}}`)
	got := encodeString(t, y, EncodeFormat(format.YAMLFormat))
	zi, ai, wi, xi := strings.Index(got, "z:"), strings.Index(got, "a:"), strings.Index(got, "w:"), strings.Index(got, "x:")
	if zi < 0 || !(zi < ai && ai < wi && wi < xi) {
		t.Errorf("order lost:\n%s", got)
	}
	back, err := parse.Parse([]byte(got), parse.ParseYAML())
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(y, back) {
		t.Errorf("yaml round trip changed the tree:\n%s", got)
	}
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := Encode(ir.Null(), bytes.NewBuffer(nil), EncodeFormat(format.Format(42)))
	if !errors.Is(err, ErrEncoding) {
		t.Errorf("expected ErrEncoding, got %v", err)
	}
}

func TestColors(t *testing.T) {
	c := &Colors{
		Default: colorDefault,
		Map: map[Colorable]func(string, ...any) string{
			{Type: ir.ObjectType, Attr: FieldColor}: func(s string, _ ...any) string { return "<" + s + ">" },
		},
	}
	got := MustString(mustParse(t, `{"a": 1}`), EncodeColors(c), EncodeCompact(true))
	if want := `{<"a">: 1}`; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}
