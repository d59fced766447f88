package token

// Kind represents the category of a source token.
type Kind uint8

const (
	Invalid Kind = iota
	Ident
	IntLit
	FloatLit
	StringLit
	BoolLit
	NoneLit
	Operator
	List
)

var kindNames = [...]string{
	Invalid:   "invalid",
	Ident:     "identifier",
	IntLit:    "int",
	FloatLit:  "float",
	StringLit: "string",
	BoolLit:   "bool",
	NoneLit:   "None",
	Operator:  "operator",
	List:      "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}
