package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"paxy/internal/codegen"
	"paxy/internal/compiler"
	"paxy/internal/observ"
	"paxy/internal/project"
	"paxy/internal/symbols"
)

// addCompileFlags registers the code-affecting flags shared by every
// command that compiles.
func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().String("labels", "", "duplicate label policy (error|shadow)")
	cmd.Flags().String("variables", "", "variable binding policy (reuse|rebind)")
	cmd.Flags().String("loop-end", "", "range end evaluation (once|each)")
	cmd.Flags().String("comment", "", "comment marker (default \"#\")")
}

// loadManifest finds paxy.toml above dir. A missing manifest is not an error.
func loadManifest(dir string) (*project.Manifest, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	m, ok, err := project.Discover(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return m, nil
}

// compileOptions merges paxy.toml with the command line. Flags win.
func compileOptions(cmd *cobra.Command, m *project.Manifest) (compiler.Options, error) {
	var opts compiler.Options
	if m != nil {
		opts = m.Options
	}
	flags := cmd.Flags()

	if flags.Changed("labels") {
		s, _ := flags.GetString("labels")
		p, err := symbols.ParseLabelPolicy(s)
		if err != nil {
			return opts, fmt.Errorf("--labels: %w", err)
		}
		opts.Policy.Labels = p
	}
	if flags.Changed("variables") {
		s, _ := flags.GetString("variables")
		p, err := symbols.ParseVariablePolicy(s)
		if err != nil {
			return opts, fmt.Errorf("--variables: %w", err)
		}
		opts.Policy.Variables = p
	}
	if flags.Changed("loop-end") {
		s, _ := flags.GetString("loop-end")
		p, err := codegen.ParseLoopEndPolicy(s)
		if err != nil {
			return opts, fmt.Errorf("--loop-end: %w", err)
		}
		opts.LoopEnd = p
	}
	if flags.Changed("comment") {
		s, _ := flags.GetString("comment")
		if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
			return opts, fmt.Errorf("--comment: marker %q must not contain whitespace", s)
		}
		opts.Lexer.CommentMarker = s
	}

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		opts.Timer = observ.NewTimer()
	}
	opts.CrashDump = cmd.ErrOrStderr()
	return opts, nil
}

// manifestFor loads the manifest governing a source file.
func manifestFor(path string) (*project.Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return loadManifest(filepath.Dir(abs))
}
