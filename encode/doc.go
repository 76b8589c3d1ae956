// Package encode writes ir nodes as JSON, YAML or markdown.
//
// # Usage
//
//	err := encode.Encode(node, os.Stdout, encode.EncodeFormat(format.YAMLFormat))
//
// JSON output is indented with four spaces, escapes non-ASCII characters
// and keeps the key order of the tree. YAML output goes through
// github.com/goccy/go-yaml ordered maps. Markdown output renders a tree of
// property definitions as reference documentation; see Markdown.
package encode
