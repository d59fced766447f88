package bytecode

import (
	"fmt"
	"strings"

	"paxy/internal/token"
)

// Operator argument ranges for BINARY_OP and COMPARE_OP.
var (
	BinaryOps  = int(token.OpXor-token.OpAdd) + 1
	CompareOps = int(token.OpGe-token.OpEq) + 1
)

var convertNames = [...]string{ConvertInt: "int", ConvertFloat: "float", ConvertStr: "str"}

// Disassemble returns a human-readable listing of the unit.
func Disassemble(u *Unit) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; unit %s\n", u.Source)
	if u.Hash != "" {
		fmt.Fprintf(&sb, "; sha256 %s\n", u.Hash)
	}
	if len(u.Consts) > 0 {
		fmt.Fprintf(&sb, "; consts (%d):\n", len(u.Consts))
		for i, c := range u.Consts {
			fmt.Fprintf(&sb, ";   %3d  %s\n", i, c.Repr())
		}
	}

	targets := make(map[int]bool)
	for _, in := range u.Code {
		if in.Op.IsJump() {
			targets[in.Arg] = true
		}
	}
	for fi, f := range u.Frames() {
		sb.WriteString("\n")
		if fi == 0 {
			fmt.Fprintf(&sb, "; === %s ===\n", f.Name)
		} else {
			fmt.Fprintf(&sb, "; === sub %s(%s) ===\n", f.Name, strings.Join(f.Params, ", "))
		}
		fmt.Fprintf(&sb, "; locals %d, stack %d\n", f.Locals, f.StackSize)
		if len(f.Slots) > 0 {
			fmt.Fprintf(&sb, "; slots: %s\n", strings.Join(f.Slots, ", "))
		}
		for pc := f.Entry; pc < f.End && pc < len(u.Code); pc++ {
			mark := "  "
			if targets[pc] {
				mark = ">>"
			}
			fmt.Fprintf(&sb, "%s %4d  %s\n", mark, pc, formatInstr(u, f, u.Code[pc]))
		}
	}
	return sb.String()
}

// FormatInstruction renders one instruction with its annotated argument.
func FormatInstruction(u *Unit, pc int) string {
	f, _ := u.FrameAt(pc)
	return formatInstr(u, f, u.Code[pc])
}

func formatInstr(u *Unit, f *Frame, in Instruction) string {
	line := "    "
	if in.Line > 0 {
		line = fmt.Sprintf("L%-3d", in.Line)
	}
	if !in.Op.Info().HasArg {
		return fmt.Sprintf("%s %s", line, in.Op)
	}
	s := fmt.Sprintf("%s %-16s %d", line, in.Op, in.Arg)
	if note := annotate(u, f, in); note != "" {
		s += " (" + note + ")"
	}
	return s
}

func annotate(u *Unit, f *Frame, in Instruction) string {
	switch in.Op {
	case OpLoadConst, OpImport:
		if in.Arg >= 0 && in.Arg < len(u.Consts) {
			return u.Consts[in.Arg].Repr()
		}
	case OpLoadLocal, OpStoreLocal:
		if f != nil && in.Arg >= 0 && in.Arg < len(f.Slots) {
			return f.Slots[in.Arg]
		}
	case OpLoadSub:
		if sub, ok := u.Sub(in.Arg); ok {
			return sub.Name
		}
	case OpBinary:
		return token.BinaryOpFromArg(in.Arg).String()
	case OpCompare:
		return token.CompareOpFromArg(in.Arg).String()
	case OpIs:
		if in.Arg == 1 {
			return "is not"
		}
		return "is"
	case OpContains:
		if in.Arg == 1 {
			return "not in"
		}
		return "in"
	case OpConvert:
		if in.Arg >= 0 && in.Arg < len(convertNames) {
			return convertNames[in.Arg]
		}
	case OpJump, OpJumpIfTrue, OpJumpIfFalse:
		return fmt.Sprintf("to %d", in.Arg)
	}
	return ""
}
