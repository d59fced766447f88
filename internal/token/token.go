package token

import (
	"paxy/internal/source"
	"paxy/internal/value"
)

// Token is one operand or operator of a command line.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Op    Op          // Operator only
	Value value.Value // literal kinds only
	Elems []Token     // List only
}

// IsLiteral reports a scalar literal token.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, BoolLit, NoneLit:
		return true
	}
	return false
}

// IsConst reports a scalar literal or a list whose elements are all
// constants, recursively.
func (t Token) IsConst() bool {
	if t.Kind == List {
		for _, e := range t.Elems {
			if !e.IsConst() {
				return false
			}
		}
		return true
	}
	return t.IsLiteral()
}

// ConstValue returns the compile-time value of a constant token.
// A nested list token becomes a list value.
func (t Token) ConstValue() (value.Value, bool) {
	if t.Kind == List {
		items := make([]value.Value, 0, len(t.Elems))
		for _, e := range t.Elems {
			v, ok := e.ConstValue()
			if !ok {
				return value.Value{}, false
			}
			items = append(items, v)
		}
		return value.List(items...), true
	}
	if t.IsLiteral() {
		return t.Value, true
	}
	return value.Value{}, false
}

// IsValue reports tokens usable where a value is expected.
func (t Token) IsValue() bool {
	return t.Kind == Ident || t.Kind == List || t.IsLiteral()
}

// OperatorOf accepts a bare operator token or a quoted operator string.
func (t Token) OperatorOf() (Op, bool) {
	switch t.Kind {
	case Operator:
		return t.Op, t.Op != OpInvalid
	case StringLit:
		return LookupOp(t.Value.Str)
	}
	return OpInvalid, false
}
