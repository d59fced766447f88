package lexer

import (
	"errors"
	"strconv"
	"strings"

	"paxy/internal/diag"
	"paxy/internal/token"
	"paxy/internal/value"
)

// scanNumber scans an optionally negative int or float literal.
func (lx *Lexer) scanNumber() (token.Token, error) {
	start := lx.cursor.Mark()
	lx.cursor.Eat('-')
	prefixed := lx.cursor.Peek() == '0' && strings.ContainsRune("xXoObB", rune(lx.cursor.PeekAt(1)))
scan:
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isDec(b) || isIdentStartByte(b) || b == '.':
			lx.cursor.Bump()
		case (b == '+' || b == '-') && !prefixed && lx.cursor.Off > uint32(start) &&
			(lx.file.Content[lx.cursor.Off-1]|0x20) == 'e':
			lx.cursor.Bump()
		default:
			break scan
		}
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	v, kind, err := parseNumber(text)
	if err != nil {
		return token.Token{}, lx.errorf(diag.SynBadNumber, sp, "%v", err)
	}
	return token.Token{Kind: kind, Span: sp, Text: text, Value: v}, nil
}

func parseNumber(text string) (value.Value, token.Kind, error) {
	digits := strings.TrimPrefix(text, "-")
	lower := strings.ToLower(digits)

	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return value.Value{}, token.Invalid, numberError(text, err)
		}
		return value.Int(n), token.IntLit, nil
	}

	if !validUnderscores(digits) {
		return value.Value{}, token.Invalid, errors.New("malformed number literal " + strconv.Quote(text))
	}
	plain := strings.ReplaceAll(text, "_", "")

	if strings.ContainsAny(lower, ".e") {
		f, err := strconv.ParseFloat(plain, 64)
		if err != nil {
			return value.Value{}, token.Invalid, numberError(text, err)
		}
		return value.Float(f), token.FloatLit, nil
	}

	body := strings.TrimPrefix(plain, "-")
	if len(body) > 1 && body[0] == '0' && strings.Trim(body, "0") != "" {
		return value.Value{}, token.Invalid, errors.New("leading zeros in decimal literal " + strconv.Quote(text))
	}
	n, err := strconv.ParseInt(plain, 10, 64)
	if err != nil {
		return value.Value{}, token.Invalid, numberError(text, err)
	}
	return value.Int(n), token.IntLit, nil
}

func numberError(text string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return errors.New("number literal " + strconv.Quote(text) + " out of range")
	}
	return errors.New("malformed number literal " + strconv.Quote(text))
}

// validUnderscores requires every '_' to sit between two digits.
func validUnderscores(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isDec(s[i-1]) || !isDec(s[i+1]) {
			return false
		}
	}
	return true
}
