package codegen

import (
	"paxy/internal/bytecode"
	"paxy/internal/diag"
	"paxy/internal/source"
	"paxy/internal/symbols"
)

// block is the flat instruction buffer of main or one subroutine.
type block struct {
	name     string
	params   []string
	line     int
	scope    symbols.ScopeID
	code     []bytecode.Instruction
	depth    int
	maxDepth int
	labels   map[string]*fixup // user labels of this block
	internal []*fixup          // loop labels
	err      *diag.Error       // first invariant violation

	// location of the statement being lowered
	curLine int
	curSpan source.Span
}

func newBlock(name string, scope symbols.ScopeID, line int) *block {
	return &block{name: name, scope: scope, line: line, curLine: line, labels: make(map[string]*fixup)}
}

func (b *block) fail(code diag.Code, format string, args ...any) {
	if b.err == nil {
		b.err = diag.Errorf(code, b.curSpan, b.curLine, format, args...)
	}
}

// emit appends one instruction and tracks the virtual stack depth.
func (b *block) emit(op bytecode.Opcode, arg int) int {
	if b.depth < bytecode.Pops(op, arg) {
		b.fail(diag.InternalNegativeDepth, "%s in %s needs %d value(s) at depth %d",
			op, b.name, bytecode.Pops(op, arg), b.depth)
	}
	b.depth += bytecode.StackEffect(op, arg)
	b.maxDepth = max(b.maxDepth, b.depth)
	b.code = append(b.code, bytecode.Instruction{Op: op, Arg: arg, Line: b.curLine})
	return len(b.code) - 1
}

// jump emits a jump to f, patching it later when f is not yet placed.
func (b *block) jump(op bytecode.Opcode, f *fixup) {
	pc := b.emit(op, f.target)
	b.arrive(f)
	if f.line == 0 {
		f.line = b.curLine
	}
	if !f.placed() {
		f.refs = append(f.refs, pc)
	}
}

// place binds f to the next instruction offset and patches pending jumps.
func (b *block) place(f *fixup) {
	f.target = len(b.code)
	b.arrive(f)
	for _, pc := range f.refs {
		b.code[pc].Arg = f.target
	}
	f.refs = nil
}

// arrive records that control reaches f at the current depth.
func (b *block) arrive(f *fixup) {
	switch {
	case f.depth < 0:
		f.depth = b.depth
	case f.depth != b.depth:
		b.fail(diag.InternalJoinDepth, "label %s in %s reached at depth %d and %d",
			f.name, b.name, f.depth, b.depth)
	}
}

func (b *block) newInternal(name string) *fixup {
	f := newFixup(name)
	b.internal = append(b.internal, f)
	return f
}

// userLabel returns the fixup currently bound to a user label name.
func (b *block) userLabel(name string) *fixup {
	f, ok := b.labels[name]
	if !ok {
		f = newFixup(name)
		b.labels[name] = f
	}
	return f
}
