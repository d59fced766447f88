package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the --ui setting of `paxy build`.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	m := uiMode(strings.ToLower(strings.TrimSpace(value)))
	if m == "" {
		return uiModeAuto, nil
	}
	if m != uiModeAuto && m != uiModeOn && m != uiModeOff {
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return m, nil
}

// shouldUseTUI resolves auto to a progress view only on an interactive,
// non-quiet stdout.
func shouldUseTUI(mode uiMode, quiet bool) bool {
	if mode == uiModeAuto {
		return !quiet && isTerminal(os.Stdout)
	}
	return mode == uiModeOn
}
