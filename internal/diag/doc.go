// Package diag defines the error and diagnostic model shared by every
// compiler phase.
//
// # Errors
//
// A compile unit stops at its first fatal problem. That problem is returned as
// a *Error: a numeric Code, the source Span and 1-based line, the mnemonic and
// token that triggered it, a message and optional notes. Every Code belongs to
// exactly one Kind, and the Kind's String form is the stable error tag
// (SyntaxError, StructureError, NameError, DuplicateDefinitionError,
// ArityError, UnresolvedLabelError, InternalInvariantError).
//
//	if diag.KindOf(err) == diag.KindArity { ... }
//
// # Diagnostics
//
// Multi-file builds convert errors into Diagnostic records and collect them in
// a Bag through a Reporter. The Bag sorts and deduplicates deterministically
// so output is stable across parallel runs. Rendering lives in
// internal/diagfmt.
package diag
