package diag

// Kind is the error category reported to users.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindSyntax
	KindStructure
	KindName
	KindDuplicate
	KindArity
	KindUnresolvedLabel
	KindInternal
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "SyntaxError"
	case KindStructure:
		return "StructureError"
	case KindName:
		return "NameError"
	case KindDuplicate:
		return "DuplicateDefinitionError"
	case KindArity:
		return "ArityError"
	case KindUnresolvedLabel:
		return "UnresolvedLabelError"
	case KindInternal:
		return "InternalInvariantError"
	case KindIO:
		return "IOError"
	}
	return "Error"
}
