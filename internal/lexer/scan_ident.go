package lexer

import (
	"golang.org/x/text/unicode/norm"

	"paxy/internal/diag"
	"paxy/internal/token"
	"paxy/internal/value"
)

// scanWord scans a run of identifier characters as a plain identifier.
func (lx *Lexer) scanWord() token.Token {
	start := lx.cursor.Mark()
	for {
		r, sz := lx.peekRune()
		if sz == 0 || !isIdentContinueRune(r) {
			break
		}
		lx.bumpRune()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Ident, Span: sp, Text: norm.NFC.String(lx.text(sp))}
}

// scanIdentOrKeyword scans an identifier and maps the literal words None,
// True and False and the keyword operators is, is not, in and not in.
func (lx *Lexer) scanIdentOrKeyword() (token.Token, error) {
	tok := lx.scanWord()
	switch tok.Text {
	case "None":
		tok.Kind, tok.Value = token.NoneLit, value.None()
	case "True":
		tok.Kind, tok.Value = token.BoolLit, value.Bool(true)
	case "False":
		tok.Kind, tok.Value = token.BoolLit, value.Bool(false)
	case "is":
		tok.Kind, tok.Op = token.Operator, token.OpIs
		if lx.eatFollowingWord("not") {
			tok.Op = token.OpIsNot
			tok.Span.End = lx.cursor.Off
			tok.Text = tok.Op.String()
		}
	case "in":
		tok.Kind, tok.Op = token.Operator, token.OpIn
	case "not":
		if !lx.eatFollowingWord("in") {
			return token.Token{}, lx.errorf(diag.SynReservedWord, tok.Span, "'not' is reserved and must be followed by 'in'")
		}
		tok.Kind, tok.Op = token.Operator, token.OpNotIn
		tok.Span.End = lx.cursor.Off
		tok.Text = tok.Op.String()
	}
	return tok, nil
}

// eatFollowingWord consumes whitespace and word when the next word is exactly
// word; otherwise the cursor is left unchanged.
func (lx *Lexer) eatFollowingWord(word string) bool {
	m := lx.cursor.Mark()
	lx.skipSpace()
	if lx.cursor.Mark() == m {
		return false
	}
	if isIdentStartByte(lx.cursor.Peek()) {
		next := lx.scanWord()
		if next.Text == word {
			return true
		}
	}
	lx.cursor.Reset(m)
	return false
}
