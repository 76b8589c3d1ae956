// Package debug holds env gated tracing switches.
package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Inherit bool
	Merge   bool
	Fetch   bool
	Filter  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Inherit = boolEnv("PROPDEFS_DEBUG_INHERIT")
	d.Merge = boolEnv("PROPDEFS_DEBUG_MERGE")
	d.Fetch = boolEnv("PROPDEFS_DEBUG_FETCH")
	d.Filter = boolEnv("PROPDEFS_DEBUG_FILTER")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Inherit() bool {
	return d.Inherit
}
func Merge() bool {
	return d.Merge
}
func Fetch() bool {
	return d.Fetch
}
func Filter() bool {
	return d.Filter
}
