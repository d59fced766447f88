package main

import (
	"testing"

	"github.com/spf13/cobra"

	"paxy/internal/codegen"
	"paxy/internal/compiler"
	"paxy/internal/project"
	"paxy/internal/symbols"
)

func newTestCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().Bool("timings", false, "")
	addCompileFlags(cmd)
	return cmd
}

func TestCompileOptionsFlagsOverrideManifest(t *testing.T) {
	cmd := newTestCommand(t)
	m := &project.Manifest{Options: compiler.Options{
		Policy: symbols.Policy{Labels: symbols.LabelShadow, Variables: symbols.VarRebind},
	}}
	if err := cmd.Flags().Set("loop-end", "each"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("variables", "reuse"); err != nil {
		t.Fatal(err)
	}
	opts, err := compileOptions(cmd, m)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Policy.Labels != symbols.LabelShadow {
		t.Errorf("labels = %v, want shadow from manifest", opts.Policy.Labels)
	}
	if opts.Policy.Variables != symbols.VarReuse {
		t.Errorf("variables = %v, want reuse from flag", opts.Policy.Variables)
	}
	if opts.LoopEnd != codegen.LoopEndEach {
		t.Errorf("loop end = %v, want each", opts.LoopEnd)
	}
	if opts.Timer != nil {
		t.Errorf("timer set without --timings")
	}
}

func TestCompileOptionsRejectsBadFlags(t *testing.T) {
	for _, tc := range []struct{ flag, value string }{
		{"labels", "maybe"},
		{"variables", "sometimes"},
		{"loop-end", "twice"},
		{"comment", "a b"},
	} {
		cmd := newTestCommand(t)
		if err := cmd.Flags().Set(tc.flag, tc.value); err != nil {
			t.Fatal(err)
		}
		if _, err := compileOptions(cmd, nil); err == nil {
			t.Errorf("--%s=%q accepted", tc.flag, tc.value)
		}
	}
}

func TestCompileOptionsTimer(t *testing.T) {
	cmd := newTestCommand(t)
	if err := cmd.PersistentFlags().Set("timings", "true"); err != nil {
		t.Fatal(err)
	}
	opts, err := compileOptions(cmd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Timer == nil {
		t.Errorf("--timings did not install a timer")
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Errorf("expected error for unknown mode")
	}
	if !shouldUseTUI(uiModeOn, true) || shouldUseTUI(uiModeOff, false) {
		t.Errorf("explicit modes not honored")
	}
}
