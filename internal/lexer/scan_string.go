package lexer

import (
	"strconv"
	"strings"

	"paxy/internal/diag"
	"paxy/internal/token"
	"paxy/internal/value"
)

// scanString scans a single- or double-quoted literal and decodes escapes.
func (lx *Lexer) scanString() (token.Token, error) {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	var sb strings.Builder
	for {
		if lx.cursor.EOF() {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{}, lx.errorf(diag.SynUnterminatedString, sp, "unterminated string literal")
		}
		b := lx.cursor.Peek()
		if b == quote {
			lx.cursor.Bump()
			break
		}
		if b != '\\' {
			sb.WriteByte(lx.cursor.Bump())
			continue
		}
		escStart := lx.cursor.Mark()
		if err := lx.scanEscape(&sb); err != nil {
			sp := lx.cursor.SpanFrom(escStart)
			if sp.Empty() {
				sp.End = sp.Start + 1
			}
			return token.Token{}, lx.errorf(diag.SynBadEscape, sp, "invalid escape sequence")
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp), Value: value.Str(sb.String())}, nil
}

func (lx *Lexer) scanEscape(sb *strings.Builder) error {
	next := lx.cursor.PeekAt(1)
	switch {
	case next == '\'' || next == '"':
		sb.WriteByte(next)
		lx.cursor.Off += 2
		return nil
	case next == '0' && !isOctal(lx.cursor.PeekAt(2)):
		sb.WriteByte(0)
		lx.cursor.Off += 2
		return nil
	}
	rest := string(lx.cursor.Rest())
	r, _, tail, err := strconv.UnquoteChar(rest, 0)
	if err != nil {
		lx.cursor.Bump()
		lx.cursor.Bump()
		return err
	}
	sb.WriteRune(r)
	lx.cursor.Off += uint32(len(rest) - len(tail)) // #nosec G115 -- bounded by the line length
	return nil
}

func isOctal(b byte) bool { return b >= '0' && b <= '7' }
