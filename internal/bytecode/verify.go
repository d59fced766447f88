package bytecode

import (
	"fmt"

	"paxy/internal/value"
)

// VerifyError reports a contract violation at one instruction.
type VerifyError struct {
	Frame string
	PC    int
	Msg   string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s@%d: %s", e.Frame, e.PC, e.Msg)
}

// Verify re-derives stack depths over every frame of u by following
// control flow. It checks operand ranges, jump targets, join-point depth
// agreement and that no path underflows or falls off its frame. It
// returns the maximum depth reached per frame, main first.
func Verify(u *Unit) ([]int, error) {
	frames := u.Frames()
	maxes := make([]int, len(frames))
	for i, f := range frames {
		m, err := verifyFrame(u, f)
		if err != nil {
			return nil, err
		}
		maxes[i] = m
	}
	return maxes, nil
}

func verifyFrame(u *Unit, f *Frame) (int, error) {
	if f.Entry < 0 || f.End > len(u.Code) || f.Entry >= f.End {
		return 0, &VerifyError{Frame: f.Name, PC: f.Entry, Msg: fmt.Sprintf("bad code range [%d, %d)", f.Entry, f.End)}
	}
	fail := func(pc int, format string, args ...any) (int, error) {
		return 0, &VerifyError{Frame: f.Name, PC: pc, Msg: fmt.Sprintf(format, args...)}
	}
	depth := make([]int, f.End-f.Entry)
	for i := range depth {
		depth[i] = -1
	}
	depth[0] = 0
	work := []int{f.Entry}
	maxDepth := 0
	for len(work) > 0 {
		pc := work[len(work)-1]
		work = work[:len(work)-1]
		in := u.Code[pc]
		d := depth[pc-f.Entry]
		if !in.Op.Valid() {
			return fail(pc, "invalid opcode 0x%02x", byte(in.Op))
		}
		if msg := checkArg(u, f, in); msg != "" {
			return fail(pc, "%s %s", in.Op, msg)
		}
		if need := Pops(in.Op, in.Arg); d < need {
			return fail(pc, "%s needs %d value(s), depth is %d", in.Op, need, d)
		}
		if in.Op == OpReturn && d != 1 {
			return fail(pc, "RETURN at depth %d", d)
		}
		nd := d + StackEffect(in.Op, in.Arg)
		maxDepth = max(maxDepth, nd, d)

		var next []int
		if in.Op.IsJump() {
			if in.Arg < f.Entry || in.Arg >= f.End {
				return fail(pc, "jump target %d outside frame", in.Arg)
			}
			next = append(next, in.Arg)
		}
		if !EndsBlock(in.Op) {
			if pc+1 >= f.End {
				return fail(pc, "control falls off the end of the frame")
			}
			next = append(next, pc+1)
		}
		for _, t := range next {
			switch seen := depth[t-f.Entry]; {
			case seen < 0:
				depth[t-f.Entry] = nd
				work = append(work, t)
			case seen != nd:
				return fail(t, "join depth mismatch: %d vs %d", seen, nd)
			}
		}
	}
	if maxDepth > f.StackSize {
		return fail(f.Entry, "stack reaches %d, frame declares %d", maxDepth, f.StackSize)
	}
	return maxDepth, nil
}

func checkArg(u *Unit, f *Frame, in Instruction) string {
	switch in.Op {
	case OpLoadConst:
		if in.Arg < 0 || in.Arg >= len(u.Consts) {
			return "constant index out of range"
		}
	case OpImport:
		if in.Arg < 0 || in.Arg >= len(u.Consts) || u.Consts[in.Arg].Kind != value.KindStr {
			return "needs a string constant"
		}
	case OpLoadLocal, OpStoreLocal:
		if in.Arg < 0 || in.Arg >= f.Locals {
			return "slot out of range"
		}
	case OpLoadSub:
		if in.Arg < 0 || in.Arg >= len(u.Subs) {
			return "subroutine index out of range"
		}
	case OpBinary:
		if in.Arg < 0 || in.Arg >= BinaryOps {
			return "unknown operator"
		}
	case OpCompare:
		if in.Arg < 0 || in.Arg >= CompareOps {
			return "unknown comparison"
		}
	case OpIs, OpContains, OpPrint, OpListPop:
		if in.Arg != 0 && in.Arg != 1 {
			return "argument must be 0 or 1"
		}
	case OpConvert:
		if in.Arg < ConvertInt || in.Arg > ConvertStr {
			return "unknown conversion"
		}
	case OpReverse, OpCall, OpBuildList, OpBuildTuple, OpBuildMap, OpBuildFrozenSet:
		if in.Arg < 0 {
			return "negative count"
		}
	}
	return ""
}
