package lexer

import (
	"paxy/internal/diag"
	"paxy/internal/token"
)

// scanList scans a bracketed list literal. Elements are separated by
// whitespace and optional commas, and may themselves be lists.
func (lx *Lexer) scanList() (token.Token, error) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '['
	var elems []token.Token
	for {
		for {
			lx.skipSpace()
			if !lx.cursor.Eat(',') {
				break
			}
		}
		if lx.cursor.EOF() || lx.atComment() {
			open := lx.cursor.SpanFrom(start)
			open.End = open.Start + 1
			return token.Token{}, lx.errorf(diag.SynUnclosedList, open, "list literal is not closed before end of line")
		}
		if lx.cursor.Eat(']') {
			break
		}
		el, err := lx.scanOperand()
		if err != nil {
			return token.Token{}, err
		}
		if el.Kind == token.Operator {
			return token.Token{}, lx.errorf(diag.SynUnexpectedChar, el.Span, "operator %q inside list literal", el.Text)
		}
		elems = append(elems, el)
	}
	sp := lx.cursor.SpanFrom(start)
	if elems == nil {
		elems = []token.Token{}
	}
	return token.Token{Kind: token.List, Span: sp, Text: lx.text(sp), Elems: elems}, nil
}
