package directive

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/propdefs/encode"
	"github.com/signadot/propdefs/ir"
	"github.com/signadot/propdefs/parse"
	"github.com/signadot/propdefs/stage"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		ref  string
		base Base
		want string
	}{
		{"/schemas/c/d", Base{ID: "https://x/schemas/", Dir: "/root"}, "/root/c/d"},
		{"file:///schemas/c/d.json", Base{ID: "https://x/schemas/", Dir: "/root"}, "/root/c/d.json"},
		{"file:x.json", Base{Self: "/defs"}, "/defs/x.json"},
		{"file:sub/x.json", Base{}, "sub/x.json"},
		{"/c/d", Base{Dir: "/root"}, "/root/c/d"},
		{"/c/d", Base{}, "/c/d"},
		{"/schemas/c", Base{ID: "https://x/schemas/"}, "https://x/schemas/c"},
		{"b/c.json", Base{Self: "/root/a"}, "/root/a/b/c.json"},
		{"../c.json", Base{Self: "/root/a"}, "/root/c.json"},
		{"c.json", Base{}, "c.json"},
		{"c.json", Base{Self: "https://x/schemas/a/"}, "https://x/schemas/a/c.json"},
		{"c.json", Base{Self: "https://x/schemas/a"}, "https://x/schemas/a/c.json"},
		{"https://y/z.json", Base{ID: "https://x/", Dir: "/root", Self: "/root"}, "https://y/z.json"},
		{"ftp://y/z.json", Base{}, "ftp://y/z.json"},
	}
	for _, tt := range tests {
		got, err := Resolve(tt.ref, tt.base)
		if err != nil {
			t.Errorf("%s with %s: %v", tt.ref, tt.base, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s with %s: got %q want %q", tt.ref, tt.base, got, tt.want)
		}
	}
}

func TestResolveOutsideID(t *testing.T) {
	_, err := Resolve("/elsewhere/a", Base{ID: "https://x/schemas/", Dir: "/root"})
	if !errors.Is(err, stage.ErrReference) {
		t.Errorf("expected ErrReference, got %v", err)
	}
}

func TestDir(t *testing.T) {
	for in, want := range map[string]string{
		"/root/a/b.json":             "/root/a",
		"b.json":                     ".",
		"https://x/schemas/a/b.json": "https://x/schemas/a/",
		"https://x/b.json?v=1":       "https://x/",
		"file:///root/a/b.json":      "/root/a",
	} {
		if got := Dir(in); got != want {
			t.Errorf("Dir(%q) = %q want %q", in, got, want)
		}
	}
}

func TestSplitPointer(t *testing.T) {
	for in, want := range map[string][]string{
		"a":          {"a"},
		"a/b/c":      {"a", "b", "c"},
		"/a/b":       {"a", "b"},
		`a\/b/c`:     {"a/b", "c"},
		`a\b`:        {`a\b`},
		"a//b":       {"a", "", "b"},
		`units\/s\/`: {"units/s/"},
	} {
		if diff := cmp.Diff(want, SplitPointer(in)); diff != "" {
			t.Errorf("%q (-want +got):\n%s", in, diff)
		}
	}
}

func TestParseInherit(t *testing.T) {
	inh, err := ParseInherit(ir.FromString("a"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := inh.(SingleRef); !ok {
		t.Errorf("string gave %T", inh)
	}
	inh, err = ParseInherit(ir.FromStrings("a", "b"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, inh.Refs()); diff != "" {
		t.Errorf("refs (-want +got):\n%s", diff)
	}
	for _, bad := range []*ir.Node{ir.FromInt(1), ir.FromSlice([]*ir.Node{ir.FromInt(1)}), ir.Object(), nil} {
		if _, err := ParseInherit(bad); !errors.Is(err, stage.ErrDirectiveShape) {
			t.Errorf("%v: expected ErrDirectiveShape, got %v", bad, err)
		}
	}
}

func TestParseSubstitution(t *testing.T) {
	s, err := ParseSubstitution("$$ID$$=https://x/a=b")
	if err != nil {
		t.Fatal(err)
	}
	if s.From != "$$ID$$" || s.To != "https://x/a=b" {
		t.Errorf("got %+v", s)
	}
	for _, bad := range []string{"noequals", "=x"} {
		if _, err := ParseSubstitution(bad); err == nil {
			t.Errorf("%q: expected an error", bad)
		}
	}
}

func TestSubstitutionsSkipDirectives(t *testing.T) {
	y, err := parse.Parse([]byte(`{
		"title": "x-optimade-a",
		"$$keep": ["x-optimade-a"],
		"$$exclude": ["x-optimade-a/b"],
		"m": {"$$inherit": "optimade.json", "v": ["optimade"]}
	}`), parse.ParseJSON())
	if err != nil {
		t.Fatal(err)
	}
	Substitutions{{From: "optimade", To: "myproj"}}.Apply(y)
	want := `{
		"title": "x-myproj-a",
		"$$keep": ["x-optimade-a"],
		"$$exclude": ["x-optimade-a/b"],
		"m": {"$$inherit": "optimade.json", "v": ["myproj"]}
	}`
	w, err := parse.Parse([]byte(want), parse.ParseJSON())
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(y, w) {
		t.Errorf("got %s", encode.MustString(y))
	}
}

func TestSubstitutionsInOrder(t *testing.T) {
	y := ir.FromKeyVals([]ir.KeyVal{{Key: "a", Val: ir.FromString("x")}})
	Substitutions{{From: "x", To: "y"}, {From: "y", To: "z"}}.Apply(y)
	if got := y.Get("a").String; got != "z" {
		t.Errorf("got %q", got)
	}
}
