// Package parse reads JSON and YAML documents into ir nodes.
//
// Both decoders keep the key order of the source document, which the
// encoders reproduce on output.
//
//	node, err := parse.Parse(data, parse.ParseFormat(format.YAMLFormat))
//
// With no format option, the input is sniffed: documents whose first
// significant byte opens a JSON object or array are read as JSON, anything
// else as YAML.
package parse
