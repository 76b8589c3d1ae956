// Package ir provides the document tree used by propdefs.
//
// # Overview
//
// Every property-definition document, whether it was read from JSON or
// YAML, is represented as a tree of *Node. The tree is the unit that the
// directive engine mutates in place and that the encoders serialize.
//
// # Node Structure
//
// A Node is a small tagged union. The Type field says which of the other
// fields carry the value:
//
//   - NullType: no payload
//   - BoolType: Bool
//   - NumberType: Number (the text as read), Int64 or Float64
//   - StringType: String
//   - ArrayType: Values, in order
//   - ObjectType: Fields[i] is the key (a StringType node) of Values[i]
//
// # Ordering
//
// Objects are ordered: the order of Fields is the order in which keys were
// read or inserted, and every operation in this package keeps it. Set on an
// existing key replaces the value in place; Set on a new key appends.
//
// # Ownership
//
// Nodes carry no parent pointers, so a subtree may be moved between trees
// freely. Use Clone when the same subtree must appear in two places that are
// later mutated independently.
package ir
