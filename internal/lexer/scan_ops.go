package lexer

import (
	"paxy/internal/diag"
	"paxy/internal/token"
)

var twoByteOps = map[string]token.Op{
	"**": token.OpPow,
	"//": token.OpFloorDiv,
	"<<": token.OpShl,
	">>": token.OpShr,
	"==": token.OpEq,
	"!=": token.OpNe,
	"<=": token.OpLe,
	">=": token.OpGe,
}

var oneByteOps = map[byte]token.Op{
	'+': token.OpAdd,
	'-': token.OpSub,
	'*': token.OpMul,
	'/': token.OpDiv,
	'%': token.OpMod,
	'<': token.OpLt,
	'>': token.OpGt,
	'|': token.OpOr,
	'&': token.OpAnd,
	'^': token.OpXor,
}

// scanOperator scans a symbolic operator using longest match.
func (lx *Lexer) scanOperator() (token.Token, error) {
	start := lx.cursor.Mark()
	if b0, b1 := lx.cursor.Peek(), lx.cursor.PeekAt(1); b1 != 0 {
		if op, ok := twoByteOps[string([]byte{b0, b1})]; ok {
			lx.cursor.Off += 2
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.Operator, Span: sp, Text: lx.text(sp), Op: op}, nil
		}
	}
	if op, ok := oneByteOps[lx.cursor.Peek()]; ok {
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Operator, Span: sp, Text: lx.text(sp), Op: op}, nil
	}
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{}, lx.errorf(diag.SynUnexpectedChar, sp, "unexpected character %q", lx.text(sp))
}
