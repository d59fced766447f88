// Package bytecode defines the instruction contract of the paxy virtual
// machine: opcodes, their stack effects, and the linked compile unit.
package bytecode

import "fmt"

// Opcode is a single VM instruction.
type Opcode uint8

// Stack and variables
const (
	OpNOP        Opcode = 0x00
	OpLoadConst  Opcode = 0x01 // push consts[arg]; list and dict constants are copied
	OpLoadLocal  Opcode = 0x02 // push slot arg
	OpStoreLocal Opcode = 0x03 // pop into slot arg
	OpLoadSub    Opcode = 0x04 // push a reference to subroutine arg
	OpPop        Opcode = 0x05
	OpDup        Opcode = 0x06
	OpReverse    Opcode = 0x07 // reverse the top arg items
)

// Operators
const (
	OpBinary   Opcode = 0x10 // arg: BinaryArg index
	OpCompare  Opcode = 0x11 // arg: CompareArg index
	OpIs       Opcode = 0x12 // arg 1 negates
	OpContains Opcode = 0x13 // pops haystack then needle; arg 1 negates
)

// Control flow
const (
	OpJump        Opcode = 0x20 // arg: absolute target
	OpJumpIfTrue  Opcode = 0x21
	OpJumpIfFalse Opcode = 0x22
	OpCall        Opcode = 0x23 // pops arg values and the callee, pushes the result
	OpReturn      Opcode = 0x24
)

// Containers
const (
	OpBuildList      Opcode = 0x30
	OpBuildTuple     Opcode = 0x31
	OpBuildMap       Opcode = 0x32 // arg: pair count
	OpBuildFrozenSet Opcode = 0x33
	OpStoreSubscr    Opcode = 0x34 // pops value, key, map
	OpDeleteSubscr   Opcode = 0x35 // pops key, map
)

// I/O, conversions and list helpers
const (
	OpPrint       Opcode = 0x40 // arg: 0 or 1 values
	OpInput       Opcode = 0x41
	OpImport      Opcode = 0x42 // arg: const index of the module name
	OpConvert     Opcode = 0x43 // arg: ConvertInt, ConvertFloat or ConvertStr
	OpListAppend  Opcode = 0x50
	OpListPop     Opcode = 0x51 // arg 1 when an index is on the stack
	OpListRemove  Opcode = 0x52
	OpListReverse Opcode = 0x53
	OpLen         Opcode = 0x54
)

// Conversion kinds for OpConvert.
const (
	ConvertInt = iota
	ConvertFloat
	ConvertStr
)

// OpcodeInfo holds metadata about an opcode.
type OpcodeInfo struct {
	Name   string
	HasArg bool
	Jump   bool // arg is an instruction offset
}

var opcodeTable = map[Opcode]OpcodeInfo{
	OpNOP:        {"NOP", false, false},
	OpLoadConst:  {"LOAD_CONST", true, false},
	OpLoadLocal:  {"LOAD_LOCAL", true, false},
	OpStoreLocal: {"STORE_LOCAL", true, false},
	OpLoadSub:    {"LOAD_SUB", true, false},
	OpPop:        {"POP", false, false},
	OpDup:        {"DUP", false, false},
	OpReverse:    {"REVERSE", true, false},

	OpBinary:   {"BINARY_OP", true, false},
	OpCompare:  {"COMPARE_OP", true, false},
	OpIs:       {"IS_OP", true, false},
	OpContains: {"CONTAINS_OP", true, false},

	OpJump:        {"JUMP", true, true},
	OpJumpIfTrue:  {"JUMP_IF_TRUE", true, true},
	OpJumpIfFalse: {"JUMP_IF_FALSE", true, true},
	OpCall:        {"CALL", true, false},
	OpReturn:      {"RETURN", false, false},

	OpBuildList:      {"BUILD_LIST", true, false},
	OpBuildTuple:     {"BUILD_TUPLE", true, false},
	OpBuildMap:       {"BUILD_MAP", true, false},
	OpBuildFrozenSet: {"BUILD_FROZENSET", true, false},
	OpStoreSubscr:    {"STORE_SUBSCR", false, false},
	OpDeleteSubscr:   {"DELETE_SUBSCR", false, false},

	OpPrint:       {"PRINT", true, false},
	OpInput:       {"INPUT", false, false},
	OpImport:      {"IMPORT", true, false},
	OpConvert:     {"CONVERT", true, false},
	OpListAppend:  {"LIST_APPEND", false, false},
	OpListPop:     {"LIST_POP", true, false},
	OpListRemove:  {"LIST_REMOVE", false, false},
	OpListReverse: {"LIST_REVERSE", false, false},
	OpLen:         {"LEN", false, false},
}

// Info returns the metadata for an opcode.
func (op Opcode) Info() OpcodeInfo {
	if info, ok := opcodeTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN_%02X", byte(op))}
}

// Valid reports whether op is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeTable[op]
	return ok
}

func (op Opcode) String() string { return op.Info().Name }

// IsJump reports whether the argument is a jump target.
func (op Opcode) IsJump() bool { return op.Info().Jump }

// LookupOpcode finds an opcode by its listing name.
func LookupOpcode(name string) (Opcode, bool) {
	for op, info := range opcodeTable {
		if info.Name == name {
			return op, true
		}
	}
	return 0, false
}

// StackEffect returns the net change in stack depth caused by op with arg.
func StackEffect(op Opcode, arg int) int {
	switch op {
	case OpLoadConst, OpLoadLocal, OpLoadSub, OpDup, OpInput, OpImport:
		return 1
	case OpStoreLocal, OpPop, OpBinary, OpCompare, OpIs, OpContains,
		OpJumpIfTrue, OpJumpIfFalse, OpReturn, OpListReverse:
		return -1
	case OpCall, OpPrint, OpListPop:
		return -arg
	case OpBuildList, OpBuildTuple, OpBuildFrozenSet:
		return 1 - arg
	case OpBuildMap:
		return 1 - 2*arg
	case OpStoreSubscr:
		return -3
	case OpDeleteSubscr, OpListAppend, OpListRemove:
		return -2
	}
	// NOP, REVERSE, JUMP, CONVERT, LEN
	return 0
}

// Pops returns how many values op consumes before pushing its result.
// Together with StackEffect it bounds the depth an instruction requires.
func Pops(op Opcode, arg int) int {
	switch op {
	case OpStoreLocal, OpPop, OpDup, OpJumpIfTrue, OpJumpIfFalse, OpReturn,
		OpConvert, OpLen, OpListReverse:
		return 1
	case OpBinary, OpCompare, OpIs, OpContains, OpDeleteSubscr, OpListAppend, OpListRemove:
		return 2
	case OpStoreSubscr:
		return 3
	case OpReverse, OpBuildList, OpBuildTuple, OpBuildFrozenSet, OpPrint:
		return arg
	case OpBuildMap:
		return 2 * arg
	case OpCall:
		return arg + 1
	case OpListPop:
		return arg + 1
	}
	return 0
}

// EndsBlock reports whether control never falls through op.
func EndsBlock(op Opcode) bool {
	return op == OpJump || op == OpReturn
}
