package symbols

import "paxy/internal/source"

// Variable binds a name to a frame slot.
type Variable struct {
	Name  string
	Scope ScopeID
	Slot  int
	Line  int // first declaring store
}

// Label is a named jump target. Offset is block-relative until the code
// generator links blocks.
type Label struct {
	Name     string
	Scope    ScopeID
	Resolved bool
	Offset   int
	DefLine  int         // line of the defining LBL
	RefLine  int         // line of the first reference, 0 when never referenced
	RefSpan  source.Span // span of the first reference
	Redefs   int         // extra definitions accepted under LabelShadow
}

// Subroutine is a callable block declared with SUB.
type Subroutine struct {
	Name   string
	Params []string
	Index  int // position in declaration order
	Line   int
	Span   source.Span
	Scope  ScopeID
}

// Arity returns the parameter count.
func (s *Subroutine) Arity() int { return len(s.Params) }
