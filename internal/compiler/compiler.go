// Package compiler runs the full pipeline for one source file:
// parse, IR construction, code generation and self-verification.
package compiler

import (
	"context"
	"fmt"

	"paxy/internal/bytecode"
	"paxy/internal/codegen"
	"paxy/internal/diag"
	"paxy/internal/ir"
	"paxy/internal/parser"
	"paxy/internal/source"
	"paxy/internal/symbols"
	"paxy/internal/trace"
)

// Result holds every intermediate product of a successful compile.
type Result struct {
	File     *source.File
	Commands []parser.Command
	Program  *ir.Program
	Unit     *bytecode.Unit
}

// Compile translates f into a linked unit. Compilation is all or nothing:
// the first error aborts and is returned as a *diag.Error.
func Compile(ctx context.Context, f *source.File, opts Options) (*Result, error) {
	ctx, unit := trace.Start(ctx, trace.ScopeUnit, "unit:"+f.Path)

	res, err := compile(ctx, f, opts)
	if err != nil {
		unit.WithExtra("error", diag.KindOf(err).String())
		unit.End("failed")
		if diag.KindOf(err) == diag.KindInternal {
			dumpRing(trace.FromContext(ctx), opts)
		}
		return nil, err
	}
	unit.WithExtra("instrs", fmt.Sprint(len(res.Unit.Code)))
	unit.End("ok")
	return res, nil
}

func compile(ctx context.Context, f *source.File, opts Options) (*Result, error) {
	res := &Result{File: f}
	pass := func(name string, fn func() error) error {
		_, sp := trace.Start(ctx, trace.ScopePass, name)
		err := opts.Timer.Measure(name, fn)
		sp.EndErr(err)
		return err
	}

	if err := pass("parse", func() (err error) {
		res.Commands, err = parser.Parse(f, opts.Lexer)
		return err
	}); err != nil {
		return nil, err
	}
	if err := pass("ir", func() (err error) {
		res.Program, err = ir.Build(res.Commands, symbols.NewTable(opts.Policy))
		return err
	}); err != nil {
		return nil, err
	}
	if err := pass("codegen", func() (err error) {
		res.Unit, err = codegen.Generate(ctx, res.Program, codegen.Options{LoopEnd: opts.LoopEnd})
		return err
	}); err != nil {
		return nil, err
	}
	res.Unit.Source = f.Path
	res.Unit.Hash = f.HashHex()

	if err := pass("verify", func() error {
		if _, err := bytecode.Verify(res.Unit); err != nil {
			return diag.Errorf(diag.InternalStackImbalance, source.Span{File: f.ID}, 0,
				"generated code failed verification: %v", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// CompileSource compiles in-memory text registered under name.
func CompileSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	return Compile(ctx, fs.Get(fs.AddVirtual(name, src)), opts)
}

func dumpRing(tr trace.Tracer, opts Options) {
	if opts.CrashDump == nil {
		return
	}
	ring, ok := trace.Ring(tr)
	if !ok {
		return
	}
	fmt.Fprintln(opts.CrashDump, "internal invariant violated; recent trace events:")
	_ = ring.Dump(opts.CrashDump, trace.FormatText)
}
