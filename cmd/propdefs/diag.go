package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/signadot/propdefs/stage"
)

// printErr writes the diagnostic for err, headline first.
func printErr(w io.Writer, err error, details, colored bool) {
	head, rest, _ := strings.Cut(stage.Format(err, details), "\n")
	red := color.New(color.FgRed, color.Bold)
	faint := color.New(color.Faint)
	if colored {
		red.EnableColor()
		faint.EnableColor()
	} else {
		red.DisableColor()
		faint.DisableColor()
	}
	fmt.Fprintln(w, red.Sprint(head))
	for _, line := range strings.SplitAfter(rest, "\n") {
		if strings.HasPrefix(line, "- ") {
			fmt.Fprint(w, line)
			continue
		}
		fmt.Fprint(w, faint.Sprint(line))
	}
}
