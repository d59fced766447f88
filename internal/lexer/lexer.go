// Package lexer splits paxy source into lines of tokens.
//
// Each non-blank, non-comment line becomes a Line. The first token of a line
// is always scanned as a plain word so that mnemonics such as IN and IS are
// never mistaken for the keyword operators "in" and "is".
package lexer

import (
	"bytes"
	"fmt"

	"fortio.org/safecast"

	"paxy/internal/diag"
	"paxy/internal/source"
	"paxy/internal/token"
)

// Line is the tokenized form of one source line.
type Line struct {
	Num    int         // 1-based
	Span   source.Span // whole line without the newline
	Tokens []token.Token
}

type Lexer struct {
	file      *source.File
	cursor    Cursor
	opts      Options
	fileEnd   uint32
	line      int
	lineStart uint32
}

func New(file *source.File, opts Options) *Lexer {
	c := NewCursor(file)
	return &Lexer{
		file:    file,
		cursor:  c,
		opts:    opts,
		fileEnd: c.Limit,
	}
}

// Lex tokenizes the whole file and stops at the first error.
func Lex(file *source.File, opts Options) ([]Line, error) {
	lx := New(file, opts)
	var lines []Line
	for {
		ln, ok, err := lx.NextLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return lines, nil
		}
		lines = append(lines, ln)
	}
}

// NextLine returns the next line that carries at least one token.
func (lx *Lexer) NextLine() (Line, bool, error) {
	for lx.cursor.Off < lx.fileEnd {
		start := lx.cursor.Off
		end := lx.fileEnd
		if i := bytes.IndexByte(lx.file.Content[start:lx.fileEnd], '\n'); i >= 0 {
			n, err := safecast.Conv[uint32](i)
			if err != nil {
				panic(fmt.Errorf("line length overflow: %w", err))
			}
			end = start + n
		}
		lx.line++
		lx.lineStart = start
		lx.cursor.Limit = end

		toks, err := lx.scanLine()

		lx.cursor.Limit = lx.fileEnd
		lx.cursor.Off = end + 1
		if err != nil {
			return Line{}, false, err
		}
		if len(toks) > 0 {
			return Line{
				Num:    lx.line,
				Span:   source.Span{File: lx.file.ID, Start: start, End: end},
				Tokens: toks,
			}, true, nil
		}
	}
	return Line{}, false, nil
}

func (lx *Lexer) scanLine() ([]token.Token, error) {
	var toks []token.Token
	for {
		lx.skipSpace()
		if lx.cursor.EOF() || lx.atComment() {
			return toks, nil
		}
		var (
			tok token.Token
			err error
		)
		if len(toks) == 0 && isIdentStartByte(lx.cursor.Peek()) {
			tok = lx.scanWord()
		} else {
			tok, err = lx.scanOperand()
		}
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// scanOperand scans one token: a literal, identifier, list or operator.
func (lx *Lexer) scanOperand() (token.Token, error) {
	ch := lx.cursor.Peek()
	switch {
	case ch == '[':
		return lx.scanList()
	case ch == '\'' || ch == '"':
		return lx.scanString()
	case isDec(ch) || (ch == '.' && isDec(lx.cursor.PeekAt(1))):
		return lx.scanNumber()
	case ch == '-' && lx.atBoundary() && startsNumber(lx.cursor.PeekAt(1), lx.cursor.PeekAt(2)):
		return lx.scanNumber()
	case isIdentStartByte(ch):
		return lx.scanIdentOrKeyword()
	case ch >= 0x80:
		if r, _ := lx.peekRune(); isIdentStartRune(r) {
			return lx.scanIdentOrKeyword()
		}
	}
	return lx.scanOperator()
}

func (lx *Lexer) skipSpace() {
	for isSpace(lx.cursor.Peek()) && !lx.cursor.EOF() {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) atComment() bool {
	return bytes.HasPrefix(lx.cursor.Rest(), []byte(lx.opts.marker()))
}

// atBoundary reports whether the cursor follows whitespace, a list opener,
// a comma or the start of the line.
func (lx *Lexer) atBoundary() bool {
	if lx.cursor.Off == lx.lineStart {
		return true
	}
	prev := lx.file.Content[lx.cursor.Off-1]
	return isSpace(prev) || prev == '[' || prev == ','
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) errorf(code diag.Code, sp source.Span, format string, args ...any) error {
	return diag.Errorf(code, sp, lx.line, format, args...).At("", lx.text(sp))
}
