package codegen_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"paxy/internal/bytecode"
	"paxy/internal/codegen"
	"paxy/internal/diag"
	"paxy/internal/ir"
	"paxy/internal/lexer"
	"paxy/internal/parser"
	"paxy/internal/source"
	"paxy/internal/symbols"
	"paxy/internal/testkit"
	"paxy/internal/value"
)

type config struct {
	policy symbols.Policy
	opts   codegen.Options
}

func generate(t *testing.T, src string, cfg config) (*bytecode.Unit, error) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("test.px", []byte(src)))
	cmds, err := parser.Parse(f, lexer.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	prog, err := ir.Build(cmds, symbols.NewTable(cfg.policy))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	u, err := codegen.Generate(context.Background(), prog, cfg.opts)
	if err == nil {
		if verr := testkit.CheckStackDiscipline(u); verr != nil {
			t.Fatalf("generated unit fails verification: %v\n%s", verr, bytecode.Disassemble(u))
		}
		if lerr := testkit.CheckLines(u, f); lerr != nil {
			t.Fatalf("line table: %v", lerr)
		}
	}
	if diag.KindOf(err) == diag.KindInternal {
		t.Fatalf("internal invariant violated: %v", err)
	}
	return u, err
}

func mustGenerate(t *testing.T, src string) *bytecode.Unit {
	t.Helper()
	u, err := generate(t, src, config{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return u
}

func run(t *testing.T, src string, cfg config) *testkit.Result {
	t.Helper()
	u, err := generate(t, src, cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	res, err := testkit.Run(u, testkit.RunOptions{})
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, bytecode.Disassemble(u))
	}
	return res
}

func wantCode(t *testing.T, err error, code diag.Code, line int) {
	t.Helper()
	var de *diag.Error
	if !errors.As(err, &de) {
		t.Fatalf("expected %v, got %v", code, err)
	}
	if de.Code != code || de.Line != line {
		t.Fatalf("got %v at line %d, want %v at line %d (%v)", de.Code, de.Line, code, line, err)
	}
}

func ops(code []bytecode.Instruction) []bytecode.Opcode {
	out := make([]bytecode.Opcode, len(code))
	for i, in := range code {
		out[i] = in.Op
	}
	return out
}

func TestDanglingLabel(t *testing.T) {
	_, err := generate(t, "PNT 1\nGO nowhere\nIF 1 == 1 nowhere\n", config{})
	wantCode(t, err, diag.LabelUnresolved, 2)
	if diag.KindOf(err).String() != "UnresolvedLabelError" {
		t.Errorf("kind = %v", diag.KindOf(err))
	}
}

func TestDeadLabelIsLegal(t *testing.T) {
	mustGenerate(t, "LBL unused\nPNT 1\n")
}

func TestRangeRunsHalfOpen(t *testing.T) {
	res := run(t, "RANGE i 1 5\nPNT i\nRANGEEND\nPNT i\n", config{})
	if got := strings.Join(res.Output, ","); got != "1,2,3,4,5" {
		t.Errorf("output = %s, want 1,2,3,4 then 5", got)
	}
	if !value.Equal(res.Vars["i"], value.Int(5)) {
		t.Errorf("i = %v, want 5", res.Vars["i"])
	}
}

func TestRangeEmpty(t *testing.T) {
	res := run(t, "RANGE i 3 3\nPNT i\nRANGEEND\n", config{})
	if len(res.Output) != 0 {
		t.Errorf("body ran: %v", res.Output)
	}
	if !value.Equal(res.Vars["i"], value.Int(3)) {
		t.Errorf("i = %v, want 3", res.Vars["i"])
	}
}

func TestRangeEndPolicy(t *testing.T) {
	src := `
LET n 5
LET c 0
RANGE i 0 n
  DEC n
  INC c
RANGEEND
`
	once := run(t, src, config{})
	if !value.Equal(once.Vars["c"], value.Int(5)) {
		t.Errorf("once: c = %v, want 5", once.Vars["c"])
	}
	each := run(t, src, config{opts: codegen.Options{LoopEnd: codegen.LoopEndEach}})
	if !value.Equal(each.Vars["c"], value.Int(3)) {
		t.Errorf("each: c = %v, want 3", each.Vars["c"])
	}
}

func TestNestedLoopsAndEarlyExit(t *testing.T) {
	res := run(t, `
LET total 0
RANGE i 0 3
  RANGE j 0 3
    LET total total + 1
    IF total == 5 done
  RANGEEND
RANGEEND
LBL done
PNT total
`, config{})
	if got := strings.Join(res.Output, ","); got != "5" {
		t.Errorf("output = %s", got)
	}
}

func TestParallelSwap(t *testing.T) {
	res := run(t, "LET a 1\nLET b 2\nPAR a b b a\nPAR x y z 7 8 9\n", config{})
	want := map[string]int64{"a": 2, "b": 1, "x": 7, "y": 8, "z": 9}
	for name, v := range want {
		if !value.Equal(res.Vars[name], value.Int(v)) {
			t.Errorf("%s = %v, want %d", name, res.Vars[name], v)
		}
	}
}

func TestLiteralContainersFold(t *testing.T) {
	u := mustGenerate(t, "IGL s 1 2 2\nVEC v 1 \"a\" 2.5\nMAP m \"k\" 1 \"k\" 2\n")
	want := []bytecode.Opcode{
		bytecode.OpLoadConst, bytecode.OpStoreLocal,
		bytecode.OpLoadConst, bytecode.OpStoreLocal,
		bytecode.OpLoadConst, bytecode.OpStoreLocal,
		bytecode.OpLoadConst, bytecode.OpReturn,
	}
	if got := ops(u.Code); !reflect.DeepEqual(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	set := u.Consts[u.Code[0].Arg]
	if set.Kind != value.KindFrozenSet || len(set.Items) != 2 {
		t.Errorf("set constant = %s", set.Repr())
	}
	m := u.Consts[u.Code[4].Arg]
	if v, ok := value.DictGet(m.Pairs, value.Str("k")); !ok || !value.Equal(v, value.Int(2)) || len(m.Pairs) != 1 {
		t.Errorf("map constant = %s, later key should win", m.Repr())
	}
}

func TestContainersWithVariablesBuildAtRuntime(t *testing.T) {
	u := mustGenerate(t, "LET x 3\nIGL s 1 x\n")
	want := []bytecode.Opcode{
		bytecode.OpLoadConst, bytecode.OpStoreLocal,
		bytecode.OpLoadConst, bytecode.OpLoadLocal, bytecode.OpBuildFrozenSet, bytecode.OpStoreLocal,
		bytecode.OpLoadConst, bytecode.OpReturn,
	}
	if got := ops(u.Code); !reflect.DeepEqual(got, want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	if u.Code[4].Arg != 2 {
		t.Errorf("BUILD_FROZENSET arg = %d", u.Code[4].Arg)
	}
}

func TestUnhashableSetFallsBackToBuild(t *testing.T) {
	u := mustGenerate(t, "IGL s [1 2] 3\n")
	if u.Code[2].Op != bytecode.OpBuildFrozenSet {
		t.Errorf("expected runtime build, got %v", ops(u.Code))
	}
}

func TestSubroutineCall(t *testing.T) {
	res := run(t, `
GOS r add 2 3
PNT r
SUB add a b
  RET a + b
SUBEND
`, config{})
	if got := strings.Join(res.Output, ","); got != "5" {
		t.Errorf("output = %s, want 5", got)
	}
}

func TestSubroutineLayout(t *testing.T) {
	u := mustGenerate(t, "SUB f a\nRET a\nSUBEND\nSUB g\nSUBEND\nGOS x g\n")
	if len(u.Subs) != 2 || u.Subs[0].Name != "f" || u.Subs[1].Name != "g" {
		t.Fatalf("subs = %+v", u.Subs)
	}
	if u.Main.Entry != 0 || u.Subs[0].Entry != u.Main.End || u.Subs[1].Entry != u.Subs[0].End {
		t.Errorf("blocks are not laid out main first: %+v %+v", u.Main, u.Subs)
	}
	if u.Subs[0].Arity() != 1 || u.Subs[0].Locals != 1 {
		t.Errorf("f frame = %+v", u.Subs[0])
	}
}

func TestImplicitReturns(t *testing.T) {
	res := run(t, "GOS r noret\nGOS s bare\nPNT r\nPNT s\nSUB noret\nLET z 1\nSUBEND\nSUB bare\nRET\nSUBEND\n", config{})
	if got := strings.Join(res.Output, ","); got != "0,None" {
		t.Errorf("output = %s, want 0,None", got)
	}
	if !value.Equal(res.Return, value.Int(0)) {
		t.Errorf("main returned %v", res.Return)
	}
}

func TestRecursion(t *testing.T) {
	res := run(t, `
GOS r fact 5
PNT r
SUB fact n
  IF n > 1 rec
  RET 1
  LBL rec
  LET m n - 1
  GOS k fact m
  RET n * k
SUBEND
`, config{})
	if got := strings.Join(res.Output, ","); got != "120" {
		t.Errorf("output = %s", got)
	}
}

func TestCallErrors(t *testing.T) {
	_, err := generate(t, "SUB add a b\nRET a + b\nSUBEND\nGOS r add 1\n", config{})
	wantCode(t, err, diag.ArityMismatch, 4)
	_, err = generate(t, "GOS r missing 1\n", config{})
	wantCode(t, err, diag.NameUndeclaredSub, 1)
}

func TestUndeclaredVariable(t *testing.T) {
	_, err := generate(t, "LET a 1\nLET b a + c\n", config{})
	wantCode(t, err, diag.NameUndeclaredVariable, 2)
	_, err = generate(t, "INC counter\n", config{})
	wantCode(t, err, diag.NameUndeclaredVariable, 1)
	_, err = generate(t, "MAD m \"a\" 1\n", config{})
	wantCode(t, err, diag.NameUndeclaredVariable, 1)
}

func TestSubVariablesAreLocal(t *testing.T) {
	_, err := generate(t, "LET g 1\nSUB f\nPNT g\nSUBEND\n", config{})
	wantCode(t, err, diag.NameUndeclaredVariable, 3)
}

func TestLabelPolicies(t *testing.T) {
	src := "LET n 0\nLBL a\nINC n\nIF n < 2 a\nLBL a\nINC n\nIF n < 5 a\nPNT n\n"
	_, err := generate(t, src, config{})
	wantCode(t, err, diag.DupLabel, 5)

	res := run(t, src, config{policy: symbols.Policy{Labels: symbols.LabelShadow}})
	if got := strings.Join(res.Output, ","); got != "5" {
		t.Errorf("shadow output = %s, want 5", got)
	}
}

func TestVariablePolicies(t *testing.T) {
	src := "LET x 1\nLET x x + 1\nPNT x\n"
	reuse := mustGenerate(t, src)
	if reuse.Main.Locals != 1 {
		t.Errorf("reuse locals = %d", reuse.Main.Locals)
	}
	u, err := generate(t, src, config{policy: symbols.Policy{Variables: symbols.VarRebind}})
	if err != nil {
		t.Fatal(err)
	}
	if u.Main.Locals != 2 {
		t.Errorf("rebind locals = %d", u.Main.Locals)
	}
	res, err := testkit.Run(u, testkit.RunOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Output[0] != "2" {
		t.Errorf("rebind output = %v", res.Output)
	}
}

func TestMapAndListOps(t *testing.T) {
	res := run(t, `
MAP m "a" 1
LET k "b"
MAD m k 2
MAL m "a"
IN has "b" m
NIN gone "a" m
VEC v 3 1 2
VAP v 9
VEM v 1
VER v
VOP last v
VOP first v 0
LEN n v
TST s n
TFL f n
TIN i "42"
IS same v v
NIS other 1 None
`, config{})
	checks := map[string]value.Value{
		"m":     value.Dict(value.Pair{Key: value.Str("b"), Val: value.Int(2)}),
		"has":   value.Bool(true),
		"gone":  value.Bool(true),
		"v":     value.List(value.Int(2)),
		"last":  value.Int(3),
		"first": value.Int(9),
		"n":     value.Int(1),
		"s":     value.Str("1"),
		"f":     value.Float(1),
		"i":     value.Int(42),
		"same":  value.Bool(true),
		"other": value.Bool(true),
	}
	for name, want := range checks {
		if !value.Equal(res.Vars[name], want) {
			t.Errorf("%s = %s, want %s", name, res.Vars[name].Repr(), want.Repr())
		}
	}
}

func TestListConstantsAreFresh(t *testing.T) {
	res := run(t, "RANGE i 0 2\nVEC v\nVAP v i\nRANGEEND\n", config{})
	if !value.Equal(res.Vars["v"], value.List(value.Int(1))) {
		t.Errorf("v = %s, want [1]", res.Vars["v"].Repr())
	}
}

func TestDeterministic(t *testing.T) {
	src := "MAP m \"x\" 1 \"y\" [1 2]\nIGL s 3 1 2\nRANGE i 0 3\nPNT i\nRANGEEND\nGOS r f 1\nSUB f a\nRET a * 2\nSUBEND\n"
	a, b := mustGenerate(t, src), mustGenerate(t, src)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two compiles differ")
	}
}

func TestConstantPoolDeduplicates(t *testing.T) {
	u := mustGenerate(t, "LET a 1\nLET b 1\nLET c 1.0\nLET d True\n")
	if len(u.Consts) != 4 { // 1, 1.0, True, and the implicit 0
		t.Errorf("consts = %v", u.Consts)
	}
	if u.Code[0].Arg != u.Code[2].Arg {
		t.Errorf("equal ints should share a constant")
	}
}

func TestPrintForms(t *testing.T) {
	res := run(t, "PNT\nPNT \"hi\"\nPNT 2 ** 10\nPNT [1 \"a\"]\n", config{})
	want := []string{"", "hi", "1024", "[1, 'a']"}
	if !reflect.DeepEqual(res.Output, want) {
		t.Errorf("output = %q, want %q", res.Output, want)
	}
}

func TestRebindMatchesReuseAcrossJoins(t *testing.T) {
	rebind := config{policy: symbols.Policy{Variables: symbols.VarRebind}}
	cases := []struct {
		name, src string
		want      string
	}{
		{"range accumulator", "LET x 0\nRANGE i 0 3\nLET x x + 1\nRANGEEND\nPNT x\n", "3"},
		{"label loop", "LET x 0\nLBL top\nLET x x + 1\nIF x < 3 top\nPNT x\n", "3"},
		{"forward skip", "LET x 1\nIF 1 == 1 skip\nLET x 2\nLBL skip\nPNT x\n", "1"},
		{"loop variable assigned in body", "RANGE i 0 5\nLET i i + 1\nPNT i\nRANGEEND\n", "1,3,5"},
		{"body-local temporary", "RANGE i 0 2\nLET t i * 10\nLET t t + 1\nPNT t\nRANGEEND\n", "1,11"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reuseOut := strings.Join(run(t, tc.src, config{}).Output, ",")
			rebindOut := strings.Join(run(t, tc.src, rebind).Output, ",")
			if reuseOut != tc.want || rebindOut != tc.want {
				t.Errorf("reuse = %s, rebind = %s, want %s", reuseOut, rebindOut, tc.want)
			}
		})
	}
}

func TestRebindStillAllocatesInStraightLines(t *testing.T) {
	// t lives between two stores with no label or loop head in between
	u, err := generate(t, "RANGE i 0 2\nLET t i\nLET t t + 1\nPNT t\nRANGEEND\n",
		config{policy: symbols.Policy{Variables: symbols.VarRebind}})
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, name := range u.Main.Slots {
		if name == "t" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("slots = %v, want two for t", u.Main.Slots)
	}
}

func TestVariableAssignedBelowItsUse(t *testing.T) {
	src := "GO init\nLBL use\nPNT x\nGO done\nLBL init\nLET x 7\nGO use\nLBL done\n"
	for _, cfg := range []config{{}, {policy: symbols.Policy{Variables: symbols.VarRebind}}} {
		if got := strings.Join(run(t, src, cfg).Output, ","); got != "7" {
			t.Errorf("policy %v: output = %s, want 7", cfg.policy.Variables, got)
		}
	}

	// an INC of a name nothing else assigns has no first value
	_, err := generate(t, "LBL top\nINC c\nIF c < 3 top\n", config{})
	wantCode(t, err, diag.NameUndeclaredVariable, 2)
}
