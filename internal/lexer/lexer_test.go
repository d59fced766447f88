package lexer_test

import (
	"testing"

	"paxy/internal/diag"
	"paxy/internal/lexer"
	"paxy/internal/source"
	"paxy/internal/token"
)

func lexString(t *testing.T, src string) []lexer.Line {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.px", []byte(src)))
	lines, err := lexer.Lex(f, lexer.Options{})
	if err != nil {
		t.Fatalf("Lex(%q): %v", src, err)
	}
	return lines
}

func lexErr(t *testing.T, src string) *diag.Error {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.px", []byte(src)))
	_, err := lexer.Lex(f, lexer.Options{})
	if err == nil {
		t.Fatalf("Lex(%q): expected error", src)
	}
	de, ok := diag.AsError(err)
	if !ok {
		t.Fatalf("Lex(%q): error %v is not a *diag.Error", src, err)
	}
	return de
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestLexSkipsBlankAndCommentLines(t *testing.T) {
	lines := lexString(t, "\n# header\n   \nLET a 1 # trailing\n\tPNT a\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Num != 4 || lines[1].Num != 5 {
		t.Fatalf("line numbers = %d, %d", lines[0].Num, lines[1].Num)
	}
	if len(lines[0].Tokens) != 3 {
		t.Fatalf("trailing comment not stripped: %+v", lines[0].Tokens)
	}
}

func TestLexLiterals(t *testing.T) {
	lines := lexString(t, `LET x 42 -7 0x1F 1_000 2.5 -.5 1e3 'a b' "q\"t" None True False`)
	toks := lines[0].Tokens
	want := []token.Kind{
		token.Ident, token.Ident, token.IntLit, token.IntLit, token.IntLit, token.IntLit,
		token.FloatLit, token.FloatLit, token.FloatLit, token.StringLit, token.StringLit,
		token.NoneLit, token.BoolLit, token.BoolLit,
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d (%q): kind %v, want %v", i, toks[i].Text, got[i], want[i])
		}
	}
	checks := map[int]string{2: "42", 3: "-7", 4: "31", 5: "1000", 6: "2.5", 7: "-0.5", 8: "1000.0", 9: "a b", 10: `q"t`}
	for i, w := range checks {
		if s := toks[i].Value.String(); s != w {
			t.Errorf("token %d value = %s, want %s", i, s, w)
		}
	}
}

func TestLexOperatorsWithoutSpaces(t *testing.T) {
	toks := lexString(t, "LET c a+b**2//x")[0].Tokens
	var ops []string
	for _, tk := range toks {
		if tk.Kind == token.Operator {
			ops = append(ops, tk.Op.String())
		}
	}
	if len(toks) != 9 || len(ops) != 3 || ops[0] != "+" || ops[1] != "**" || ops[2] != "//" {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestLexMinusAfterOperandIsOperator(t *testing.T) {
	toks := lexString(t, "LET c a-1")[0].Tokens
	if got := kinds(toks); len(got) != 5 || got[3] != token.Operator || got[4] != token.IntLit || toks[4].Value.Int != 1 {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestLexKeywordOperators(t *testing.T) {
	lines := lexString(t, "IF a is not None end\nIF x not  in b end\nIF x in b end")
	want := []token.Op{token.OpIsNot, token.OpNotIn, token.OpIn}
	for i, ln := range lines {
		if ln.Tokens[2].Kind != token.Operator || ln.Tokens[2].Op != want[i] {
			t.Errorf("line %d: operator %+v, want %v", ln.Num, ln.Tokens[2], want[i])
		}
	}
}

func TestLexMnemonicNeverKeyword(t *testing.T) {
	lines := lexString(t, "in found x xs\nIS same a b")
	for _, ln := range lines {
		if ln.Tokens[0].Kind != token.Ident {
			t.Fatalf("line %d: first token kind %v", ln.Num, ln.Tokens[0].Kind)
		}
	}
}

func TestLexNestedList(t *testing.T) {
	toks := lexString(t, "ROW v [1, [2 3], 'x',y]")[0].Tokens
	if len(toks) != 3 || toks[2].Kind != token.List {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
	list := toks[2]
	if len(list.Elems) != 4 || list.Elems[1].Kind != token.List || len(list.Elems[1].Elems) != 2 {
		t.Fatalf("unexpected list: %+v", list.Elems)
	}
	if list.IsConst() {
		t.Fatal("list with identifier y must not be constant")
	}
	if list.Text != "[1, [2 3], 'x',y]" {
		t.Fatalf("list text = %q", list.Text)
	}
}

func TestLexUnicodeIdentifierNormalized(t *testing.T) {
	// "e" + combining acute accent normalizes to U+00E9
	toks := lexString(t, "LET caf\u0065\u0301 1")[0].Tokens
	if toks[1].Text != "caf\u00e9" {
		t.Fatalf("identifier = %q", toks[1].Text)
	}
}

func TestLexCustomCommentMarker(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("c.px", []byte("; note\nPNT 'a#b' ; tail\n")))
	lines, err := lexer.Lex(f, lexer.Options{CommentMarker: ";"})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || len(lines[0].Tokens) != 2 || lines[0].Tokens[1].Value.Str != "a#b" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestLexEscapes(t *testing.T) {
	toks := lexString(t, `PNT "a\tb\n\x41\u00e9\0" 'it\'s'`)[0].Tokens
	if got := toks[1].Value.Str; got != "a\tb\nA\u00e9\x00" {
		t.Fatalf("decoded = %q", got)
	}
	if got := toks[2].Value.Str; got != "it's" {
		t.Fatalf("decoded = %q", got)
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
		line int
	}{
		{"LET a 'open", diag.SynUnterminatedString, 1},
		{"\nROW v [1 2", diag.SynUnclosedList, 2},
		{"LET a 9223372036854775808", diag.SynBadNumber, 1},
		{"LET a 12abc", diag.SynBadNumber, 1},
		{"LET a 007", diag.SynBadNumber, 1},
		{"LET a 1__0", diag.SynBadNumber, 1},
		{"LET a $", diag.SynUnexpectedChar, 1},
		{"LET a b = c", diag.SynUnexpectedChar, 1},
		{"IF a not b end", diag.SynReservedWord, 1},
		{`PNT "bad\q"`, diag.SynBadEscape, 1},
		{`PNT "end\`, diag.SynBadEscape, 1},
	}
	for _, tc := range cases {
		de := lexErr(t, tc.src)
		if de.Code != tc.code || de.Line != tc.line {
			t.Errorf("%q: got %s line %d, want %s line %d", tc.src, de.Code.ID(), de.Line, tc.code.ID(), tc.line)
		}
		if de.Kind() != diag.KindSyntax {
			t.Errorf("%q: kind %v", tc.src, de.Kind())
		}
	}
}

func TestLexMinInt(t *testing.T) {
	toks := lexString(t, "LET a -9223372036854775808")[0].Tokens
	if toks[2].Value.Int != -9223372036854775808 {
		t.Fatalf("value = %d", toks[2].Value.Int)
	}
}
