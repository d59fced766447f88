package symbols

// ScopeID identifies a scope inside a Table.
type ScopeID uint32

// NoScopeID marks the absence of a scope reference.
const NoScopeID ScopeID = 0

// IsValid reports whether the id refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }
