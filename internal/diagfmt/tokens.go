package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"paxy/internal/lexer"
	"paxy/internal/source"
	"paxy/internal/token"
)

type TokenOutput struct {
	Line  int           `json:"line"`
	Kind  string        `json:"kind"`
	Text  string        `json:"text"`
	Value string        `json:"value,omitempty"`
	Span  source.Span   `json:"span"`
	Elems []TokenOutput `json:"elems,omitempty"`
}

func tokenOutput(line int, tok token.Token) TokenOutput {
	out := TokenOutput{
		Line: line,
		Kind: tok.Kind.String(),
		Text: tok.Text,
		Span: tok.Span,
	}
	if tok.IsLiteral() {
		out.Value = tok.Value.Repr()
	}
	if tok.Kind == token.Operator {
		out.Value = tok.Op.String()
	}
	for _, el := range tok.Elems {
		out.Elems = append(out.Elems, tokenOutput(line, el))
	}
	return out
}

// FormatTokensPretty prints one token per row, grouped by source line.
func FormatTokensPretty(w io.Writer, lines []lexer.Line, fs *source.FileSet) error {
	for _, ln := range lines {
		if _, err := fmt.Fprintf(w, "line %d:\n", ln.Num); err != nil {
			return err
		}
		for i, tok := range ln.Tokens {
			if err := writeToken(w, fs, i, tok, "  "); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeToken(w io.Writer, fs *source.FileSet, i int, tok token.Token, indent string) error {
	start, end := fs.Resolve(tok.Span)
	out := tokenOutput(0, tok)
	line := fmt.Sprintf("%s%3d: %-10s %q at %d:%d-%d:%d", indent, i+1, out.Kind, tok.Text,
		start.Line, start.Col, end.Line, end.Col)
	if out.Value != "" && out.Value != tok.Text {
		line += " = " + out.Value
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for j, el := range tok.Elems {
		if err := writeToken(w, fs, j, el, indent+"     "); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes every token as a JSON array.
func FormatTokensJSON(w io.Writer, lines []lexer.Line) error {
	output := []TokenOutput{}
	for _, ln := range lines {
		for _, tok := range ln.Tokens {
			output = append(output, tokenOutput(ln.Num, tok))
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
