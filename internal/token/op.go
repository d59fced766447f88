package token

// Op is one operator of the closed operator set.
type Op uint8

const (
	OpInvalid Op = iota

	// arithmetic and bitwise
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpShl
	OpShr
	OpOr
	OpAnd
	OpXor

	// comparison
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	// identity
	OpIs
	OpIsNot

	// membership
	OpIn
	OpNotIn
)

// OpClass groups operators by the instruction that implements them.
type OpClass uint8

const (
	ClassNone OpClass = iota
	ClassBinary
	ClassCompare
	ClassIdentity
	ClassMembership
)

func (c OpClass) String() string {
	switch c {
	case ClassBinary:
		return "binary"
	case ClassCompare:
		return "comparison"
	case ClassIdentity:
		return "identity"
	case ClassMembership:
		return "membership"
	}
	return "none"
}

var opText = [...]string{
	OpInvalid:  "?",
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpFloorDiv: "//",
	OpMod:      "%",
	OpPow:      "**",
	OpShl:      "<<",
	OpShr:      ">>",
	OpOr:       "|",
	OpAnd:      "&",
	OpXor:      "^",
	OpEq:       "==",
	OpNe:       "!=",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpIs:       "is",
	OpIsNot:    "is not",
	OpIn:       "in",
	OpNotIn:    "not in",
}

var opByText map[string]Op

func init() {
	opByText = make(map[string]Op, len(opText))
	for op, s := range opText {
		if Op(op) != OpInvalid {
			opByText[s] = Op(op)
		}
	}
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return "?"
}

// LookupOp maps operator text, e.g. "<=" or "not in", to its Op.
func LookupOp(s string) (Op, bool) {
	op, ok := opByText[s]
	return op, ok
}

// Class reports the operator class.
func (o Op) Class() OpClass {
	switch {
	case o >= OpAdd && o <= OpXor:
		return ClassBinary
	case o >= OpEq && o <= OpGe:
		return ClassCompare
	case o == OpIs || o == OpIsNot:
		return ClassIdentity
	case o == OpIn || o == OpNotIn:
		return ClassMembership
	}
	return ClassNone
}

// Arg returns the instruction argument encoding the operator inside its
// class: the index for binary and comparison operators, 1 for negated
// identity and membership tests.
func (o Op) Arg() int {
	switch o.Class() {
	case ClassBinary:
		return int(o - OpAdd)
	case ClassCompare:
		return int(o - OpEq)
	case ClassIdentity:
		if o == OpIsNot {
			return 1
		}
	case ClassMembership:
		if o == OpNotIn {
			return 1
		}
	}
	return 0
}

// BinaryOpFromArg is the inverse of Arg for ClassBinary.
func BinaryOpFromArg(arg int) Op {
	op := OpAdd + Op(arg)
	if arg < 0 || op > OpXor {
		return OpInvalid
	}
	return op
}

// CompareOpFromArg is the inverse of Arg for ClassCompare.
func CompareOpFromArg(arg int) Op {
	op := OpEq + Op(arg)
	if arg < 0 || op > OpGe {
		return OpInvalid
	}
	return op
}
