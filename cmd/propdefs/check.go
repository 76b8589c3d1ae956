package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// checkOutput compares rendered with the contents of path and writes a
// line diff to w when they differ. A missing file differs from anything.
func checkOutput(w io.Writer, path string, rendered []byte, colored bool) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if string(existing) == string(rendered) {
		return true, nil
	}
	fmt.Fprintf(w, "--- %s\n+++ %s (rendered)\n", path, path)
	fmt.Fprint(w, lineDiff(string(existing), string(rendered), colored))
	return false, nil
}

func lineDiff(from, to string, colored bool) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	del := color.New(color.FgRed)
	add := color.New(color.FgGreen)
	if colored {
		del.EnableColor()
		add.EnableColor()
	} else {
		del.DisableColor()
		add.DisableColor()
	}
	buf := &strings.Builder{}
	for _, d := range diffs {
		var (
			prefix string
			c      *color.Color
		)
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, c = "-", del
		case diffmatchpatch.DiffInsert:
			prefix, c = "+", add
		default:
			continue
		}
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			buf.WriteString(c.Sprint(prefix+line) + "\n")
		}
	}
	return buf.String()
}
