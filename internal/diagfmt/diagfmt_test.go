package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"paxy/internal/diag"
	"paxy/internal/diagfmt"
	"paxy/internal/lexer"
	"paxy/internal/parser"
	"paxy/internal/source"
)

func parseErr(t *testing.T, src string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.px", []byte(src)))
	_, err := parser.Parse(f, lexer.Options{})
	if err == nil {
		t.Fatalf("expected an error for %q", src)
	}
	return diagfmt.FromError(err), fs
}

func TestPrettySnippet(t *testing.T) {
	bag, fs := parseErr(t, "PNT 1\nLET a $\n")
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("output:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[0], "t.px:2:7: ERROR PX1010 SyntaxError: ") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "   2 | LET a $" {
		t.Errorf("source line = %q", lines[1])
	}
	if lines[2] != "     |       ^" {
		t.Errorf("caret line = %q", lines[2])
	}
}

func TestPrettyWideRunes(t *testing.T) {
	bag, fs := parseErr(t, "LET 名 $\n")
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, fs, diagfmt.PrettyOpts{})
	out := buf.String()
	if !strings.Contains(out, "t.px:1:8: ") {
		t.Errorf("display column not width-aware:\n%s", out)
	}
	if !strings.Contains(out, "     |        ^\n") {
		t.Errorf("caret misaligned:\n%s", out)
	}
}

func TestShortAndUnlocated(t *testing.T) {
	bag := diagfmt.FromError(errors.New("disk on fire"))
	var buf bytes.Buffer
	diagfmt.Short(&buf, bag, nil, diagfmt.PrettyOpts{})
	if got := buf.String(); got != "paxy: ERROR PX0000: disk on fire\n" {
		t.Errorf("short = %q", got)
	}
}

func TestMnemonicInMessage(t *testing.T) {
	bag, fs := parseErr(t, "LET a\n")
	var buf bytes.Buffer
	diagfmt.Short(&buf, bag, fs, diagfmt.PrettyOpts{})
	if !strings.Contains(buf.String(), "PX1002: LET: ") {
		t.Errorf("short = %q", buf.String())
	}
}

func TestPrettyMax(t *testing.T) {
	bag := diag.NewBag(0)
	for range 3 {
		bag.Add(diag.NewError(diag.IOReadFailed, source.Span{}, "cannot read"))
	}
	var buf bytes.Buffer
	diagfmt.Pretty(&buf, bag, nil, diagfmt.PrettyOpts{Max: 1})
	if !strings.HasSuffix(buf.String(), "... and 2 more\n") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestJSON(t *testing.T) {
	bag, fs := parseErr(t, "LET a $\n")
	var buf bytes.Buffer
	if err := diagfmt.JSON(&buf, bag, fs, diagfmt.JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}
	var out diagfmt.DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "PX1010" || d.Kind != "SyntaxError" || d.Severity != "ERROR" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Location == nil || d.Location.File != "t.px" || d.Location.StartLine != 1 || d.Location.StartCol != 7 {
		t.Errorf("location = %+v", d.Location)
	}
}

func TestTokens(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.px", []byte("LET v [1 'a']\nIF v == 2 done\n")))
	lines, err := lexer.Lex(f, lexer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := diagfmt.FormatTokensPretty(&buf, lines, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"line 1:", "line 2:", `"[1 'a']"`, `"=="`} {
		if !strings.Contains(out, want) {
			t.Errorf("pretty tokens missing %s:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := diagfmt.FormatTokensJSON(&buf, lines); err != nil {
		t.Fatal(err)
	}
	var toks []diagfmt.TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &toks); err != nil {
		t.Fatal(err)
	}
	if len(toks) != 8 || toks[2].Kind != "list" || len(toks[2].Elems) != 2 || toks[7].Line != 2 {
		t.Errorf("json tokens = %+v", toks)
	}
}
