package parser_test

import (
	"strings"
	"testing"

	"paxy/internal/diag"
	"paxy/internal/lexer"
	"paxy/internal/parser"
	"paxy/internal/source"
)

func parse(t *testing.T, src string) ([]parser.Command, error) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.px", []byte(src)))
	return parser.Parse(f, lexer.Options{})
}

func mustParse(t *testing.T, src string) []parser.Command {
	t.Helper()
	cmds, err := parse(t, src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return cmds
}

func TestMnemonicsAndAliases(t *testing.T) {
	cases := map[string]parser.Mnemonic{
		"let":      parser.MnLet,
		"Compare":  parser.MnCmp,
		"label":    parser.MnLbl,
		"GOTO":     parser.MnGo,
		"rng":      parser.MnRange,
		"RangeEnd": parser.MnRangeEnd,
		"SBE":      parser.MnSubEnd,
		"return":   parser.MnRet,
		"gosub":    parser.MnGos,
		"call":     parser.MnGos,
		"print":    parser.MnPnt,
		"input":    parser.MnInp,
		"import":   parser.MnImp,
	}
	for word, want := range cases {
		got, ok := parser.LookupMnemonic(word)
		if !ok || got != want {
			t.Errorf("LookupMnemonic(%q) = %v %v, want %v", word, got, ok, want)
		}
	}
	for _, m := range parser.Mnemonics() {
		if parser.Usage(m) == "" {
			t.Errorf("%v has no shape", m)
		}
	}
}

func TestParseValidProgram(t *testing.T) {
	src := `
# swap and sum
LET a 1
LET b a + 2
CMP c a <= b
IF a "<" b done
PAR a b b a
SUB add x y
RET x+y
SUBEND
GOS z add 2 3
MAP m "k" 1 name [1 2]
VEC v
IMP "math"
IMP os
LBL done
LBL 10
RET
`
	cmds := mustParse(t, src)
	if len(cmds) != 16 {
		t.Fatalf("got %d commands", len(cmds))
	}
	if cmds[0].Line != 3 || cmds[0].Mnemonic != parser.MnLet {
		t.Fatalf("first command = %+v", cmds[0])
	}
	if cmds[6].Mnemonic != parser.MnRet || len(cmds[6].Operands) != 3 {
		t.Fatalf("RET x+y parsed as %+v", cmds[6])
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
		frag string
	}{
		{"FOO a", diag.SynUnknownMnemonic, "unknown command"},
		{"42 a", diag.SynUnknownMnemonic, "must start with a command"},
		{"LET a", diag.SynOperandCount, "LET expects 2 or 4 operands, got 1"},
		{"LET 5 1", diag.SynOperandKind, "operand 1 of LET must be an identifier"},
		{"LET a 1 2 3", diag.SynUnknownOperator, "expected an operator"},
		{`LET a 1 "@" 3`, diag.SynUnknownOperator, "unknown operator"},
		{"RANGE i 1", diag.SynOperandCount, "RANGE expects 3"},
		{"RANGEEND now", diag.SynOperandCount, "got 1"},
		{"MAP m 1", diag.SynOperandCount, "key/value pairs"},
		{"PAR a b c", diag.SynOperandCount, "2n operands"},
		{"PAR a 1 2 3", diag.SynOperandKind, "operand 2 of PAR must be an identifier"},
		{"IF a < b 'x'", diag.SynOperandKind, "must be a label"},
		{"LBL -1", diag.SynOperandKind, "must be a label"},
		{"IMP 3", diag.SynOperandKind, "module name"},
		{"LET in 3", diag.SynReservedWord, "reserved"},
		{"GOS z", diag.SynOperandCount, "at least 2"},
	}
	for _, tc := range cases {
		_, err := parse(t, tc.src)
		de, ok := diag.AsError(err)
		if !ok {
			t.Errorf("%q: expected *diag.Error, got %v", tc.src, err)
			continue
		}
		if de.Code != tc.code {
			t.Errorf("%q: code %s, want %s (%v)", tc.src, de.Code.ID(), tc.code.ID(), de)
		}
		if !strings.Contains(de.Error(), tc.frag) {
			t.Errorf("%q: message %q missing %q", tc.src, de.Error(), tc.frag)
		}
		if de.Kind() != diag.KindSyntax || de.Line != 1 {
			t.Errorf("%q: kind %v line %d", tc.src, de.Kind(), de.Line)
		}
	}
}

func TestUsage(t *testing.T) {
	if got := parser.Usage(parser.MnLet); got != "LET I V | LET I V O V" {
		t.Fatalf("Usage(LET) = %q", got)
	}
	if got := parser.Usage(parser.MnMap); got != "MAP I (V V)*" {
		t.Fatalf("Usage(MAP) = %q", got)
	}
}
