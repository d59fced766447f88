// Package token defines the lexical tokens of paxy source lines.
//
// Invariants:
//   - Token.Text is the exact source text of Token.Span.
//   - Literal tokens carry their decoded value; string escapes are resolved.
//   - A bracketed list is a single List token whose Elems are its elements.
//   - The keyword operators "is not" and "not in" are single Op tokens.
package token
