package compiler_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"paxy/internal/bytecode"
	"paxy/internal/codegen"
	"paxy/internal/compiler"
	"paxy/internal/diag"
	"paxy/internal/symbols"
	"paxy/internal/testkit"
)

const conformanceDir = "testdata/conformance"

// suite is one YAML file of conformance cases.
type suite struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Options     caseOptions `yaml:"options,omitempty"`
	Tests       []testCase  `yaml:"tests"`
}

type caseOptions struct {
	Labels    string `yaml:"labels,omitempty"`
	Variables string `yaml:"variables,omitempty"`
	LoopEnd   string `yaml:"loop_end,omitempty"`
	Comment   string `yaml:"comment,omitempty"`
}

type testCase struct {
	Name    string       `yaml:"name"`
	Source  string       `yaml:"source"`
	Input   []string     `yaml:"input,omitempty"`
	Options *caseOptions `yaml:"options,omitempty"`
	Expect  expectation  `yaml:"expect"`
}

type expectation struct {
	Output []string          `yaml:"output,omitempty"`
	Vars   map[string]string `yaml:"vars,omitempty"` // Repr of main variables
	Return string            `yaml:"return,omitempty"`
	Ops    []string          `yaml:"ops,omitempty"` // exact main-frame opcodes
	Error  string            `yaml:"error,omitempty"`
	Code   string            `yaml:"code,omitempty"`
	Line   int               `yaml:"line,omitempty"`
}

func loadSuites(t *testing.T) map[string]suite {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(conformanceDir, "*.yaml"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no conformance files in %s", conformanceDir)
	}
	out := make(map[string]suite, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		var s suite
		if err := yaml.Unmarshal(data, &s); err != nil {
			t.Fatalf("parse %s: %v", p, err)
		}
		out[filepath.Base(p)] = s
	}
	return out
}

func (o caseOptions) apply(t *testing.T, opts *compiler.Options) {
	t.Helper()
	var err error
	if o.Labels != "" {
		if opts.Policy.Labels, err = symbols.ParseLabelPolicy(o.Labels); err != nil {
			t.Fatal(err)
		}
	}
	if o.Variables != "" {
		if opts.Policy.Variables, err = symbols.ParseVariablePolicy(o.Variables); err != nil {
			t.Fatal(err)
		}
	}
	if o.LoopEnd != "" {
		if opts.LoopEnd, err = codegen.ParseLoopEndPolicy(o.LoopEnd); err != nil {
			t.Fatal(err)
		}
	}
	if o.Comment != "" {
		opts.Lexer.CommentMarker = o.Comment
	}
}

func TestConformance(t *testing.T) {
	for file, s := range loadSuites(t) {
		t.Run(strings.TrimSuffix(file, ".yaml"), func(t *testing.T) {
			if len(s.Tests) == 0 {
				t.Fatalf("suite %q has no tests", s.Name)
			}
			for _, tc := range s.Tests {
				t.Run(tc.Name, func(t *testing.T) {
					var opts compiler.Options
					s.Options.apply(t, &opts)
					if tc.Options != nil {
						tc.Options.apply(t, &opts)
					}
					runCase(t, tc, opts)
				})
			}
		})
	}
}

func runCase(t *testing.T, tc testCase, opts compiler.Options) {
	res, err := compiler.CompileSource(context.Background(), "case.px", []byte(tc.Source), opts)
	if diag.KindOf(err) == diag.KindInternal {
		t.Fatalf("internal invariant violated: %v", err)
	}
	if tc.Expect.Error != "" {
		var de *diag.Error
		if !errors.As(err, &de) {
			t.Fatalf("expected %s, compile returned %v", tc.Expect.Error, err)
		}
		if got := de.Kind().String(); got != tc.Expect.Error {
			t.Errorf("error kind = %s, want %s (%v)", got, tc.Expect.Error, err)
		}
		if tc.Expect.Code != "" && de.Code.ID() != tc.Expect.Code {
			t.Errorf("code = %s, want %s", de.Code.ID(), tc.Expect.Code)
		}
		if tc.Expect.Line != 0 && de.Line != tc.Expect.Line {
			t.Errorf("line = %d, want %d", de.Line, tc.Expect.Line)
		}
		return
	}
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	u := res.Unit
	if err := testkit.CheckStackDiscipline(u); err != nil {
		t.Fatalf("%v\n%s", err, bytecode.Disassemble(u))
	}
	if tc.Expect.Ops != nil {
		var ops []string
		for _, in := range u.Code[u.Main.Entry:u.Main.End] {
			ops = append(ops, in.Op.String())
		}
		if !reflect.DeepEqual(ops, tc.Expect.Ops) {
			t.Errorf("ops = %v\nwant  %v", ops, tc.Expect.Ops)
		}
	}
	if tc.Expect.Output == nil && tc.Expect.Vars == nil && tc.Expect.Return == "" {
		return
	}
	run, err := testkit.Run(u, testkit.RunOptions{Input: tc.Input})
	if err != nil {
		t.Fatalf("run: %v\n%s", err, bytecode.Disassemble(u))
	}
	if tc.Expect.Output != nil && !reflect.DeepEqual(run.Output, tc.Expect.Output) {
		t.Errorf("output = %q, want %q", run.Output, tc.Expect.Output)
	}
	for name, want := range tc.Expect.Vars {
		got, ok := run.Vars[name]
		if !ok {
			t.Errorf("variable %s missing", name)
			continue
		}
		if got.Repr() != want {
			t.Errorf("%s = %s, want %s", name, got.Repr(), want)
		}
	}
	if tc.Expect.Return != "" && run.Return.Repr() != tc.Expect.Return {
		t.Errorf("return = %s, want %s", run.Return.Repr(), tc.Expect.Return)
	}
}
