package symbols

import (
	"fmt"
	"strings"
)

// VariablePolicy decides what a store to an existing name does.
type VariablePolicy uint8

const (
	// VarReuse keeps one slot per name and scope.
	VarReuse VariablePolicy = iota
	// VarRebind gives every declaring store a fresh slot; later loads see the newest.
	VarRebind
)

// LabelPolicy decides what a second LBL with the same name does.
type LabelPolicy uint8

const (
	// LabelError rejects the redefinition.
	LabelError LabelPolicy = iota
	// LabelShadow moves the label; later jumps target the newest definition.
	LabelShadow
)

// Policy bundles the configurable binding rules.
type Policy struct {
	Variables VariablePolicy
	Labels    LabelPolicy
}

func (p VariablePolicy) String() string {
	if p == VarRebind {
		return "rebind"
	}
	return "reuse"
}

func (p LabelPolicy) String() string {
	if p == LabelShadow {
		return "shadow"
	}
	return "error"
}

// ParseVariablePolicy accepts "reuse" or "rebind".
func ParseVariablePolicy(s string) (VariablePolicy, error) {
	switch strings.ToLower(s) {
	case "", "reuse":
		return VarReuse, nil
	case "rebind":
		return VarRebind, nil
	}
	return VarReuse, fmt.Errorf("invalid variable policy %q (expected: reuse|rebind)", s)
}

// ParseLabelPolicy accepts "error" or "shadow".
func ParseLabelPolicy(s string) (LabelPolicy, error) {
	switch strings.ToLower(s) {
	case "", "error":
		return LabelError, nil
	case "shadow":
		return LabelShadow, nil
	}
	return LabelError, fmt.Errorf("invalid label policy %q (expected: error|shadow)", s)
}
