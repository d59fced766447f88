package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// syntax
	SynInfo               Code = 1000
	SynUnknownMnemonic    Code = 1001
	SynOperandCount       Code = 1002
	SynOperandKind        Code = 1003
	SynUnknownOperator    Code = 1004
	SynOperatorClass      Code = 1005
	SynBadNumber          Code = 1006
	SynUnterminatedString Code = 1007
	SynBadEscape          Code = 1008
	SynUnclosedList       Code = 1009
	SynUnexpectedChar     Code = 1010
	SynBadMapKey          Code = 1011
	SynReservedWord       Code = 1012

	// block structure
	StructInfo          Code = 2000
	StructUnmatchedEnd  Code = 2001
	StructUnclosedBlock Code = 2002
	StructNestedSub     Code = 2003

	// names
	NameInfo               Code = 3000
	NameUndeclaredVariable Code = 3001
	NameUndeclaredSub      Code = 3002
	NameUndeclaredLabel    Code = 3003

	// duplicate definitions
	DupInfo  Code = 4000
	DupLabel Code = 4001
	DupSub   Code = 4002
	DupParam Code = 4003

	// arity
	ArityInfo     Code = 5000
	ArityMismatch Code = 5001

	// labels
	LabelInfo       Code = 6000
	LabelUnresolved Code = 6001

	// io and project configuration
	IOInfo          Code = 7000
	IOReadFailed    Code = 7001
	IOWriteFailed   Code = 7002
	ProjectBadValue Code = 7101

	// compiler invariants; never expected on any input
	InternalInfo           Code = 9000
	InternalStackImbalance Code = 9001
	InternalJoinDepth      Code = 9002
	InternalNegativeDepth  Code = 9003
	InternalUnpatchedJump  Code = 9004
	InternalBadNode        Code = 9005
)

var codeDescription = map[Code]string{
	UnknownCode:            "unknown error",
	SynInfo:                "syntax information",
	SynUnknownMnemonic:     "unknown mnemonic",
	SynOperandCount:        "wrong number of operands",
	SynOperandKind:         "operand has the wrong kind",
	SynUnknownOperator:     "unknown operator",
	SynOperatorClass:       "operator not allowed here",
	SynBadNumber:           "malformed number literal",
	SynUnterminatedString:  "unterminated string literal",
	SynBadEscape:           "invalid escape sequence",
	SynUnclosedList:        "unclosed list literal",
	SynUnexpectedChar:      "unexpected character",
	SynBadMapKey:           "map key must be a string or identifier",
	SynReservedWord:        "reserved word used as a name",
	StructInfo:             "block structure information",
	StructUnmatchedEnd:     "block end without matching start",
	StructUnclosedBlock:    "block is never closed",
	StructNestedSub:        "subroutine defined inside a block",
	NameInfo:               "name information",
	NameUndeclaredVariable: "variable used before assignment",
	NameUndeclaredSub:      "call to undeclared subroutine",
	NameUndeclaredLabel:    "label was never referenced or declared",
	DupInfo:                "duplicate definition information",
	DupLabel:               "label defined twice in one scope",
	DupSub:                 "subroutine defined twice",
	DupParam:               "parameter name repeated",
	ArityInfo:              "arity information",
	ArityMismatch:          "argument count does not match parameters",
	LabelInfo:              "label information",
	LabelUnresolved:        "label referenced but never defined",
	IOInfo:                 "io information",
	IOReadFailed:           "cannot read source",
	IOWriteFailed:          "cannot write artifact",
	ProjectBadValue:        "invalid project configuration value",
	InternalInfo:           "internal information",
	InternalStackImbalance: "statement left values on the stack",
	InternalJoinDepth:      "stack depth differs at a join point",
	InternalNegativeDepth:  "stack depth went negative",
	InternalUnpatchedJump:  "jump target was never patched",
	InternalBadNode:        "unexpected IR node",
}

// Kind returns the error category the code belongs to.
func (c Code) Kind() Kind {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return KindSyntax
	case ic >= 2000 && ic < 3000:
		return KindStructure
	case ic >= 3000 && ic < 4000:
		return KindName
	case ic >= 4000 && ic < 5000:
		return KindDuplicate
	case ic >= 5000 && ic < 6000:
		return KindArity
	case ic >= 6000 && ic < 7000:
		return KindUnresolvedLabel
	case ic >= 7000 && ic < 8000:
		return KindIO
	case ic >= 9000 && ic < 10000:
		return KindInternal
	}
	return KindUnknown
}

// ID returns the stable printable identifier, e.g. PX3001.
func (c Code) ID() string {
	if c == UnknownCode {
		return "PX0000"
	}
	return fmt.Sprintf("PX%04d", int(c))
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
