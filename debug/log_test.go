package debug

import (
	"bytes"
	"strings"
	"testing"

	"github.com/signadot/propdefs/ir"
)

func TestLogf(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	old := Out
	Out = buf
	defer func() { Out = old }()

	node := ir.FromKeyVals([]ir.KeyVal{{Key: "a", Val: ir.FromInt(1)}})
	Logf("node %v list %v n %d\n", node, []string{"x", "y"}, 3)
	got := buf.String()
	for _, want := range []string{`"a": 1`, `"x"`, `"y"`, "n 3"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func TestBoolEnv(t *testing.T) {
	t.Setenv("PROPDEFS_TEST_FLAG", "true")
	if !boolEnv("PROPDEFS_TEST_FLAG") {
		t.Error("true not parsed")
	}
	t.Setenv("PROPDEFS_TEST_FLAG", "nope")
	if boolEnv("PROPDEFS_TEST_FLAG") {
		t.Error("garbage should be false")
	}
}
