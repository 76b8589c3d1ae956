// Package batch runs the directive engine over a single document or a
// directory of documents.
//
// In directory mode the directory is walked depth first in name order.
// The top level keys of every document are set on the result for the
// directory; each subdirectory's result is nested under its name. Later
// entries win on key collisions, which are recorded on the Accumulator.
package batch
