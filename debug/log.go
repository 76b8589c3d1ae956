package debug

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/signadot/propdefs/encode"
	"github.com/signadot/propdefs/ir"
)

var Out io.Writer = os.Stderr

var spewConf = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Logf formats like fmt.Printf. Nodes are rendered as JSON, maps and
// slices through go-spew.
func Logf(msg string, args ...any) {
	for i := range args {
		a := args[i]
		switch x := a.(type) {
		case *ir.Node:
			buf := bytes.NewBuffer(nil)
			if err := encode.Encode(x, buf); err != nil {
				args[i] = fmt.Sprintf("[raw *ir.Node] %v", x)
				continue
			}
			args[i] = buf.String()
		case bool, string, float64, int, int64, error, fmt.Stringer:
		default:
			args[i] = spewConf.Sdump(a)
		}
	}
	fmt.Fprintf(Out, msg, args...)
}
