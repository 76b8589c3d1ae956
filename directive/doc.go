// Package directive resolves the directive keys of property definition
// documents.
//
// Directive keys start with "$$":
//
//   - $$inherit: a reference, or a list of references, to documents whose
//     content is merged into the mapping holding the directive. Keys the
//     mapping already has are never overwritten. Among several references,
//     later ones overwrite earlier ones.
//   - $$keep: the keys of a mapping to retain.
//   - $$exclude: pointers ("a/b/c", with "\/" for a literal slash) to keys
//     to delete.
//   - $$schema: a schema identifier which becomes $schema with the output
//     format's name appended.
//
// An inherited document is resolved first, relative to its own location,
// then substituted, then filtered by its own $$keep and $$exclude before
// being merged. Every other mapping applies its $$keep and $$exclude to
// itself once its children are resolved.
//
// After Engine.Resolve no mapping in the tree holds a directive key.
package directive
