// Package ir holds the mnemonic-independent program representation between
// parsing and code generation, and the Builder producing it.
package ir

import (
	"paxy/internal/source"
	"paxy/internal/symbols"
	"paxy/internal/token"
)

// Kind enumerates IR node variants.
type Kind uint8

const (
	KindAssign Kind = iota
	KindBinaryOp
	KindCompare
	KindMembership
	KindIdentity
	KindContainer
	KindMapMutate
	KindPrint
	KindInput
	KindImport
	KindCondJump
	KindJump
	KindLabel
	KindLoopRange
	KindSubDef
	KindCall
	KindReturn
	KindParallelAssign
	KindIncDec
	KindConvert
	KindListOp
)

var kindNames = [...]string{
	KindAssign:         "Assign",
	KindBinaryOp:       "BinaryOp",
	KindCompare:        "Compare",
	KindMembership:     "MembershipTest",
	KindIdentity:       "IdentityTest",
	KindContainer:      "ContainerBuild",
	KindMapMutate:      "MapMutate",
	KindPrint:          "Print",
	KindInput:          "Input",
	KindImport:         "Import",
	KindCondJump:       "CondJump",
	KindJump:           "Jump",
	KindLabel:          "Label",
	KindLoopRange:      "LoopRange",
	KindSubDef:         "SubDef",
	KindCall:           "Call",
	KindReturn:         "Return",
	KindParallelAssign: "ParallelAssign",
	KindIncDec:         "IncDec",
	KindConvert:        "Convert",
	KindListOp:         "ListOp",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Node is one IR statement. Only the payload matching Kind is set.
type Node struct {
	Kind     Kind
	Line     int
	Span     source.Span
	Mnemonic string // command as written, for diagnostics

	Assign     AssignNode
	Binary     BinaryNode
	Compare    CompareNode
	Membership MembershipNode
	Identity   IdentityNode
	Container  ContainerNode
	MapMutate  MapMutateNode
	Print      PrintNode
	Input      InputNode
	Import     ImportNode
	CondJump   CondJumpNode
	Jump       JumpNode
	Label      LabelNode
	Loop       LoopNode
	Sub        SubNode
	Call       CallNode
	Return     ReturnNode
	Par        ParallelNode
	IncDec     IncDecNode
	Convert    ConvertNode
	ListOp     ListOpNode
}

type AssignNode struct {
	Dst string
	Src Operand
}

// BinaryNode is arithmetic or bitwise: Dst = Lhs Op Rhs.
type BinaryNode struct {
	Dst string
	Op  token.Op
	Lhs Operand
	Rhs Operand
}

type CompareNode struct {
	Dst string
	Op  token.Op
	Lhs Operand
	Rhs Operand
}

type MembershipNode struct {
	Dst      string
	Negate   bool
	Needle   Operand
	Haystack Operand
}

type IdentityNode struct {
	Dst    string
	Negate bool
	Lhs    Operand
	Rhs    Operand
}

// ContainerKind selects the container a ContainerBuild produces.
type ContainerKind uint8

const (
	ContainerList ContainerKind = iota
	ContainerTuple
	ContainerDict
	ContainerFrozenSet
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerTuple:
		return "tuple"
	case ContainerDict:
		return "dict"
	case ContainerFrozenSet:
		return "frozenset"
	}
	return "list"
}

// ContainerNode builds a container. For dicts Elems alternates key, value.
type ContainerNode struct {
	Dst        string
	Kind       ContainerKind
	Elems      []Operand
	AllLiteral bool
}

type MutateKind uint8

const (
	MutateSet MutateKind = iota
	MutateDelete
)

type MapMutateNode struct {
	Kind  MutateKind
	Map   string
	Key   Operand
	Value Operand // MutateSet only
}

type PrintNode struct {
	HasValue bool
	Value    Expr
}

type InputNode struct {
	Dst string
}

// ImportNode imports Module and binds its first dotted segment to Bind.
type ImportNode struct {
	Module string
	Bind   string
}

// CondJumpNode jumps to Target when Lhs Op Rhs holds.
type CondJumpNode struct {
	Lhs        Operand
	Op         token.Op
	Rhs        Operand
	Target     string
	TargetSpan source.Span
}

type JumpNode struct {
	Target     string
	TargetSpan source.Span
}

type LabelNode struct {
	Name string
}

// LoopNode iterates Var from Start up to but excluding End.
type LoopNode struct {
	Var     string
	Start   Operand
	End     Operand
	Body    []Node
	EndLine int // line of RANGEEND
}

// SubNode is a subroutine definition; Symbol carries its pre-declared signature.
type SubNode struct {
	Name    string
	Params  []string
	Body    []Node
	EndLine int
	Symbol  *symbols.Subroutine
}

type CallNode struct {
	Dst  string
	Name string
	Args []Operand
}

type ReturnNode struct {
	HasValue bool
	Value    Expr
}

// ParallelNode assigns every Srcs[i] to Dsts[i] as if simultaneously.
type ParallelNode struct {
	Dsts []string
	Srcs []Operand
}

type IncDecNode struct {
	Var   string
	Delta int // +1 or -1
}

// ConvKind is the target type of a conversion.
type ConvKind uint8

const (
	ConvInt ConvKind = iota
	ConvFloat
	ConvStr
)

func (k ConvKind) String() string {
	switch k {
	case ConvFloat:
		return "float"
	case ConvStr:
		return "str"
	}
	return "int"
}

type ConvertNode struct {
	Dst string
	To  ConvKind
	Src Operand
}

// ListOpKind enumerates in-place list operations.
type ListOpKind uint8

const (
	ListAppend ListOpKind = iota
	ListPop
	ListRemove
	ListReverse
	ListLen
)

func (k ListOpKind) String() string {
	switch k {
	case ListPop:
		return "pop"
	case ListRemove:
		return "remove"
	case ListReverse:
		return "reverse"
	case ListLen:
		return "len"
	}
	return "append"
}

// ListOpNode mutates or inspects a list. Dst is set for pop and len;
// Target is the list operand (any value for len).
type ListOpNode struct {
	Op     ListOpKind
	Dst    string
	Target Operand
	HasArg bool
	Arg    Operand
}
