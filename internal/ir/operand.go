package ir

import (
	"strings"

	"paxy/internal/source"
	"paxy/internal/token"
	"paxy/internal/value"
)

// OperandKind distinguishes how an operand value is produced.
type OperandKind uint8

const (
	OperandConst OperandKind = iota // compile-time value, including constant lists
	OperandVar                      // variable load
	OperandList                     // list literal with at least one runtime element
)

// Operand is one value-producing command argument.
type Operand struct {
	Kind  OperandKind
	Const value.Value
	Name  string
	Elems []Operand
	Span  source.Span
}

// IsConst reports whether the operand is known at compile time.
func (o Operand) IsConst() bool { return o.Kind == OperandConst }

func (o Operand) String() string {
	switch o.Kind {
	case OperandVar:
		return o.Name
	case OperandList:
		parts := make([]string, len(o.Elems))
		for i, e := range o.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return o.Const.Repr()
}

// operandOf converts a value token. Tokens must already satisfy the value shape.
func operandOf(t token.Token) Operand {
	switch t.Kind {
	case token.Ident:
		return Operand{Kind: OperandVar, Name: t.Text, Span: t.Span}
	case token.List:
		if v, ok := t.ConstValue(); ok {
			return Operand{Kind: OperandConst, Const: v, Span: t.Span}
		}
		elems := make([]Operand, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = operandOf(e)
		}
		return Operand{Kind: OperandList, Elems: elems, Span: t.Span}
	}
	return Operand{Kind: OperandConst, Const: t.Value, Span: t.Span}
}

// Expr is a single operand or a binary expression lhs op rhs.
type Expr struct {
	Lhs Operand
	Op  token.Op // OpInvalid for a plain operand
	Rhs Operand
}

// IsBinary reports whether the expression applies an operator.
func (e Expr) IsBinary() bool { return e.Op != token.OpInvalid }

func (e Expr) String() string {
	if !e.IsBinary() {
		return e.Lhs.String()
	}
	return e.Lhs.String() + " " + e.Op.String() + " " + e.Rhs.String()
}
