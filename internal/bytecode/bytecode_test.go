package bytecode_test

import (
	"errors"
	"strings"
	"testing"

	"paxy/internal/bytecode"
	"paxy/internal/value"
)

func TestStackEffects(t *testing.T) {
	cases := []struct {
		op   bytecode.Opcode
		arg  int
		want int
	}{
		{bytecode.OpLoadConst, 0, 1},
		{bytecode.OpStoreLocal, 0, -1},
		{bytecode.OpBinary, 0, -1},
		{bytecode.OpCall, 2, -2},
		{bytecode.OpCall, 0, 0},
		{bytecode.OpBuildList, 3, -2},
		{bytecode.OpBuildList, 0, 1},
		{bytecode.OpBuildMap, 2, -3},
		{bytecode.OpStoreSubscr, 0, -3},
		{bytecode.OpDeleteSubscr, 0, -2},
		{bytecode.OpPrint, 1, -1},
		{bytecode.OpPrint, 0, 0},
		{bytecode.OpListPop, 1, -1},
		{bytecode.OpListPop, 0, 0},
		{bytecode.OpReverse, 3, 0},
		{bytecode.OpJump, 7, 0},
		{bytecode.OpJumpIfTrue, 7, -1},
		{bytecode.OpReturn, 0, -1},
	}
	for _, tc := range cases {
		if got := bytecode.StackEffect(tc.op, tc.arg); got != tc.want {
			t.Errorf("StackEffect(%s, %d) = %d, want %d", tc.op, tc.arg, got, tc.want)
		}
	}
}

func TestOpcodeNames(t *testing.T) {
	op, ok := bytecode.LookupOpcode("CONTAINS_OP")
	if !ok || op != bytecode.OpContains {
		t.Fatalf("LookupOpcode = %v %v", op, ok)
	}
	if bytecode.Opcode(0xEE).Valid() {
		t.Errorf("0xEE should not be valid")
	}
	if !strings.HasPrefix(bytecode.Opcode(0xEE).String(), "UNKNOWN_") {
		t.Errorf("unknown opcode name = %q", bytecode.Opcode(0xEE).String())
	}
}

func TestConstPoolDedup(t *testing.T) {
	p := bytecode.NewConstPool()
	a := p.Add(value.Int(1))
	b := p.Add(value.Float(1))
	c := p.Add(value.Bool(true))
	d := p.Add(value.Int(1))
	e := p.Add(value.List(value.Int(1)))
	f := p.Add(value.List(value.Int(1)))
	if a != d || e != f {
		t.Errorf("equal constants not shared: %d %d %d %d", a, d, e, f)
	}
	if a == b || a == c || b == c {
		t.Errorf("int, float and bool must not share a slot: %d %d %d", a, b, c)
	}
	if p.Len() != 4 {
		t.Errorf("Len = %d, want 4", p.Len())
	}
}

// x = 1; if x < 2 goto end; print x; end: return 0
func sampleUnit() *bytecode.Unit {
	ins := func(op bytecode.Opcode, arg int) bytecode.Instruction {
		return bytecode.Instruction{Op: op, Arg: arg, Line: 1}
	}
	code := []bytecode.Instruction{
		ins(bytecode.OpLoadConst, 0),
		ins(bytecode.OpStoreLocal, 0),
		ins(bytecode.OpLoadLocal, 0),
		ins(bytecode.OpLoadConst, 1),
		ins(bytecode.OpCompare, 2),
		ins(bytecode.OpJumpIfTrue, 8),
		ins(bytecode.OpLoadLocal, 0),
		ins(bytecode.OpPrint, 1),
		ins(bytecode.OpLoadConst, 2),
		ins(bytecode.OpReturn, 0),
	}
	return &bytecode.Unit{
		Source: "sample.px",
		Code:   code,
		Consts: []value.Value{value.Int(1), value.Int(2), value.Int(0)},
		Main:   bytecode.Frame{Name: "main", Entry: 0, End: len(code), Locals: 1, StackSize: 2, Slots: []string{"x"}},
	}
}

func TestVerifyAcceptsSample(t *testing.T) {
	maxes, err := bytecode.Verify(sampleUnit())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(maxes) != 1 || maxes[0] != 2 {
		t.Errorf("maxes = %v, want [2]", maxes)
	}
}

func TestVerifyRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(u *bytecode.Unit)
		want   string
	}{
		{"underflow", func(u *bytecode.Unit) {
			u.Code[1] = bytecode.Instruction{Op: bytecode.OpPop}
			u.Code[0] = bytecode.Instruction{Op: bytecode.OpNOP}
		}, "needs 1"},
		{"bad slot", func(u *bytecode.Unit) { u.Code[2].Arg = 5 }, "slot out of range"},
		{"jump outside", func(u *bytecode.Unit) { u.Code[5].Arg = 99 }, "outside frame"},
		{"join mismatch", func(u *bytecode.Unit) { u.Code[5].Arg = 7 }, "join depth"},
		{"falls off", func(u *bytecode.Unit) { u.Code[9] = bytecode.Instruction{Op: bytecode.OpPop} }, "falls off"},
		{"small frame", func(u *bytecode.Unit) { u.Main.StackSize = 1 }, "frame declares"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := sampleUnit()
			tc.mutate(u)
			_, err := bytecode.Verify(u)
			var ve *bytecode.VerifyError
			if !errors.As(err, &ve) {
				t.Fatalf("expected VerifyError, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestDisassemble(t *testing.T) {
	out := bytecode.Disassemble(sampleUnit())
	for _, want := range []string{
		"; unit sample.px",
		"STORE_LOCAL      0 (x)",
		"COMPARE_OP       2 (<)",
		"JUMP_IF_TRUE     8 (to 8)",
		">>    8",
		"RETURN",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing lacks %q:\n%s", want, out)
		}
	}
}
