package symbols

import "strconv"

// ScopeKind enumerates scope categories.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeProgram           // top-level statements
	ScopeSub               // one subroutine body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeProgram:
		return "program"
	case ScopeSub:
		return "sub"
	default:
		return "invalid"
	}
}

// Scope owns variables, labels and the slot counter of one frame.
type Scope struct {
	ID     ScopeID
	Kind   ScopeKind
	Name   string
	vars   map[string]*Variable
	slots  []string // slot -> name; temporaries are named "$<hint><n>"
	labels map[string]*Label
	order  []*Label

	defined map[string]bool // names some statement assigns
	pinned  map[string]bool // names that keep one slot under VarRebind
}

func newScope(id ScopeID, kind ScopeKind, name string) *Scope {
	return &Scope{
		ID:      id,
		Kind:    kind,
		Name:    name,
		vars:    make(map[string]*Variable),
		labels:  make(map[string]*Label),
		defined: make(map[string]bool),
		pinned:  make(map[string]bool),
	}
}

// FrameSize is the number of slots allocated so far.
func (s *Scope) FrameSize() int { return len(s.slots) }

// SlotNames returns a copy of slot names ordered by slot index.
func (s *Scope) SlotNames() []string {
	return append([]string(nil), s.slots...)
}

// Labels returns labels in first-mention order.
func (s *Scope) Labels() []*Label {
	return append([]*Label(nil), s.order...)
}

func (s *Scope) allocate(name string) int {
	s.slots = append(s.slots, name)
	return len(s.slots) - 1
}

func (s *Scope) temp(hint string) int {
	return s.allocate("$" + hint + strconv.Itoa(len(s.slots)))
}
