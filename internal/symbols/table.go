// Package symbols tracks variables, labels and subroutines for one compile
// unit. Variables and labels are local to their scope; only subroutine
// names are global.
package symbols

import (
	"paxy/internal/diag"
	"paxy/internal/source"
)

// Table is the symbol table of one compile unit. It is not safe for
// concurrent use; every compile owns its own Table.
type Table struct {
	policy Policy
	scopes []*Scope
	subs   map[string]*Subroutine
	order  []*Subroutine
}

// NewTable returns an empty table applying p.
func NewTable(p Policy) *Table {
	return &Table{policy: p, subs: make(map[string]*Subroutine)}
}

// Policy returns the binding rules of the table.
func (t *Table) Policy() Policy { return t.policy }

// NewScope allocates a scope.
func (t *Table) NewScope(kind ScopeKind, name string) ScopeID {
	id := ScopeID(len(t.scopes) + 1) // #nosec G115 -- one scope per SUB, bounded by source size
	t.scopes = append(t.scopes, newScope(id, kind, name))
	return id
}

// Scope returns the scope for id, or nil.
func (t *Table) Scope(id ScopeID) *Scope {
	if !id.IsValid() || int(id) > len(t.scopes) {
		return nil
	}
	return t.scopes[id-1]
}

// DeclareVariable returns the slot a store to name should use.
// Under VarReuse it is idempotent; under VarRebind each call allocates,
// except for pinned names.
func (t *Table) DeclareVariable(scope ScopeID, name string, line int) int {
	sc := t.Scope(scope)
	if v, ok := sc.vars[name]; ok && (t.policy.Variables == VarReuse || sc.pinned[name]) {
		return v.Slot
	}
	slot := sc.allocate(name)
	sc.vars[name] = &Variable{Name: name, Scope: scope, Slot: slot, Line: line}
	return slot
}

// MarkDefined records that a statement of scope assigns name.
func (t *Table) MarkDefined(scope ScopeID, name string) {
	t.Scope(scope).defined[name] = true
}

// Defined reports whether any statement of scope assigns name, wherever
// it sits in the source.
func (t *Table) Defined(scope ScopeID, name string) bool {
	return t.Scope(scope).defined[name]
}

// Pin makes every store to name in scope share one slot, whatever the
// variable policy. A value that must survive a label or loop head cannot
// move between slots.
func (t *Table) Pin(scope ScopeID, name string) {
	t.Scope(scope).pinned[name] = true
}

// Pinned reports whether name keeps a single slot in scope.
func (t *Table) Pinned(scope ScopeID, name string) bool {
	return t.Scope(scope).pinned[name]
}

// LookupVariable returns the current slot bound to name in scope.
func (t *Table) LookupVariable(scope ScopeID, name string) (int, bool) {
	if v, ok := t.Scope(scope).vars[name]; ok {
		return v.Slot, true
	}
	return 0, false
}

// Temp allocates an anonymous slot that no name can reach.
func (t *Table) Temp(scope ScopeID, hint string) int {
	return t.Scope(scope).temp(hint)
}

// DeclareParams binds params to slots 0..n-1 of a fresh scope.
func (t *Table) DeclareParams(scope ScopeID, params []string, line int, span source.Span) error {
	sc := t.Scope(scope)
	for _, p := range params {
		if _, dup := sc.vars[p]; dup {
			return diag.Errorf(diag.DupParam, span, line, "parameter %q listed twice", p).At("", p)
		}
		slot := sc.allocate(p)
		sc.vars[p] = &Variable{Name: p, Scope: scope, Slot: slot, Line: line}
		sc.defined[p] = true
	}
	return nil
}

// DeclareLabel registers a reference to name, creating the label
// unresolved when it is new. It is idempotent.
func (t *Table) DeclareLabel(scope ScopeID, name string, line int, span source.Span) *Label {
	sc := t.Scope(scope)
	if l, ok := sc.labels[name]; ok {
		if l.RefLine == 0 && line > 0 {
			l.RefLine, l.RefSpan = line, span
		}
		return l
	}
	l := &Label{Name: name, Scope: scope, RefLine: line, RefSpan: span}
	sc.labels[name] = l
	sc.order = append(sc.order, l)
	return l
}

// DefineLabel declares name if needed and resolves it at offset.
func (t *Table) DefineLabel(scope ScopeID, name string, offset, line int, span source.Span) (*Label, error) {
	sc := t.Scope(scope)
	if _, ok := sc.labels[name]; !ok {
		l := &Label{Name: name, Scope: scope}
		sc.labels[name] = l
		sc.order = append(sc.order, l)
	}
	return t.ResolveLabel(scope, name, offset, line, span)
}

// ResolveLabel fixes the offset of a declared label.
func (t *Table) ResolveLabel(scope ScopeID, name string, offset, line int, span source.Span) (*Label, error) {
	l, ok := t.Scope(scope).labels[name]
	if !ok {
		return nil, diag.Errorf(diag.NameUndeclaredLabel, span, line, "label %q was never declared", name).At("", name)
	}
	if l.Resolved {
		if t.policy.Labels != LabelShadow {
			return nil, diag.Errorf(diag.DupLabel, span, line,
				"label %q already defined on line %d", name, l.DefLine).At("", name)
		}
		l.Redefs++
	}
	l.Resolved = true
	l.Offset = offset
	l.DefLine = line
	return l, nil
}

// LookupLabel returns the label named name in scope.
func (t *Table) LookupLabel(scope ScopeID, name string) (*Label, bool) {
	l, ok := t.Scope(scope).labels[name]
	return l, ok
}

// Unresolved returns the first label in scope that is referenced but has no
// definition, in first-mention order.
func (t *Table) Unresolved(scope ScopeID) (*Label, bool) {
	for _, l := range t.Scope(scope).order {
		if !l.Resolved {
			return l, true
		}
	}
	return nil, false
}

// DeclareSubroutine registers a signature and allocates its scope.
// Names are global and unique.
func (t *Table) DeclareSubroutine(name string, params []string, line int, span source.Span) (*Subroutine, error) {
	if prev, ok := t.subs[name]; ok {
		return nil, diag.Errorf(diag.DupSub, span, line,
			"subroutine %q already defined on line %d", name, prev.Line).At("SUB", name)
	}
	sub := &Subroutine{
		Name:   name,
		Params: append([]string(nil), params...),
		Index:  len(t.order),
		Line:   line,
		Span:   span,
	}
	sub.Scope = t.NewScope(ScopeSub, name)
	t.subs[name] = sub
	t.order = append(t.order, sub)
	return sub, nil
}

// LookupSubroutine finds a subroutine by name.
func (t *Table) LookupSubroutine(name string) (*Subroutine, bool) {
	s, ok := t.subs[name]
	return s, ok
}

// CheckCall validates a call site against the declared signature.
func (t *Table) CheckCall(name string, argc, line int, span source.Span) (*Subroutine, error) {
	sub, ok := t.subs[name]
	if !ok {
		return nil, diag.Errorf(diag.NameUndeclaredSub, span, line, "subroutine %q is not defined", name).At("", name)
	}
	if sub.Arity() != argc {
		return nil, diag.Errorf(diag.ArityMismatch, span, line,
			"%s expects %d argument(s), got %d", name, sub.Arity(), argc).
			At("", name).WithNote(sub.Span, "subroutine declared here")
	}
	return sub, nil
}

// Subroutines returns signatures in declaration order.
func (t *Table) Subroutines() []*Subroutine {
	return append([]*Subroutine(nil), t.order...)
}
