package codegen

import (
	"fmt"
	"strings"
)

// LoopEndPolicy decides how often a RANGE end bound is evaluated.
type LoopEndPolicy uint8

const (
	// LoopEndOnce evaluates the end bound once, before the first test.
	LoopEndOnce LoopEndPolicy = iota
	// LoopEndEach re-evaluates the end bound on every test.
	LoopEndEach
)

func (p LoopEndPolicy) String() string {
	if p == LoopEndEach {
		return "each"
	}
	return "once"
}

// ParseLoopEndPolicy accepts "once" or "each".
func ParseLoopEndPolicy(s string) (LoopEndPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "once":
		return LoopEndOnce, nil
	case "each":
		return LoopEndEach, nil
	}
	return LoopEndOnce, fmt.Errorf("unknown loop_end policy %q (want once|each)", s)
}

// Options tunes code generation.
type Options struct {
	LoopEnd LoopEndPolicy
	// MainName names the main frame in the linked unit.
	MainName string
}
