// Package codegen lowers IR to linked stack-machine bytecode. Each block
// is generated in one walk with a virtual stack-depth counter; jumps to
// labels not yet seen are patched through fixup lists.
package codegen

import (
	"context"
	"fmt"

	"paxy/internal/bytecode"
	"paxy/internal/diag"
	"paxy/internal/ir"
	"paxy/internal/symbols"
	"paxy/internal/trace"
	"paxy/internal/value"
)

// Generator holds the state of one compile unit. It is single use.
type Generator struct {
	prog   *ir.Program
	table  *symbols.Table
	opts   Options
	pool   *bytecode.ConstPool
	blocks []*block
}

// Generate lowers p into a linked unit. Source and Hash are left for the caller.
func Generate(ctx context.Context, p *ir.Program, opts Options) (*bytecode.Unit, error) {
	g := &Generator{prog: p, table: p.Table, opts: opts, pool: bytecode.NewConstPool()}
	if g.opts.MainName == "" {
		g.opts.MainName = "main"
	}
	tr := trace.FromContext(ctx)
	parent := trace.ParentSpan(ctx)

	main := newBlock(g.opts.MainName, p.MainScope, 1)
	if err := g.genBlock(main, p.Main); err != nil {
		return nil, err
	}
	trace.Point(tr, trace.ScopeUnit, "block:"+main.name, blockDetail(main), parent)
	g.blocks = append(g.blocks, main)

	for _, sub := range p.Subs {
		b := newBlock(sub.Name, sub.Symbol.Scope, sub.Symbol.Line)
		b.params = sub.Params
		if err := g.genBlock(b, sub.Body); err != nil {
			return nil, err
		}
		trace.Point(tr, trace.ScopeUnit, "block:"+b.name, blockDetail(b), parent)
		g.blocks = append(g.blocks, b)
	}
	return g.link(), nil
}

func blockDetail(b *block) string {
	return fmt.Sprintf("instrs=%d stack=%d", len(b.code), b.maxDepth)
}

// genBlock lowers a statement list and frames it with an implicit return.
func (g *Generator) genBlock(b *block, nodes []ir.Node) error {
	g.prepareBindings(b, nodes)
	if err := g.genNodes(b, nodes); err != nil {
		return err
	}
	if last := lastStatement(nodes); last == nil || last.Kind != ir.KindReturn {
		if last != nil {
			b.curLine, b.curSpan = last.Line, last.Span
		}
		b.emit(bytecode.OpLoadConst, g.pool.Add(value.Int(0)))
		b.emit(bytecode.OpReturn, 0)
	}
	if b.err != nil {
		return b.err
	}
	return g.finishLabels(b)
}

// lastStatement skips subroutine definitions, which emit nothing in place.
func lastStatement(nodes []ir.Node) *ir.Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Kind != ir.KindSubDef {
			return &nodes[i]
		}
	}
	return nil
}

func (g *Generator) genNodes(b *block, nodes []ir.Node) error {
	for i := range nodes {
		n := &nodes[i]
		if n.Kind == ir.KindSubDef {
			continue
		}
		b.curLine, b.curSpan = n.Line, n.Span
		if err := g.lower(b, n); err != nil {
			return withMnemonic(err, n.Mnemonic)
		}
		if b.err != nil {
			return b.err
		}
		if b.depth != 0 {
			b.curLine, b.curSpan = n.Line, n.Span
			b.fail(diag.InternalStackImbalance, "%s leaves %d value(s) on the stack", n.Kind, b.depth)
			return b.err
		}
	}
	return nil
}

// finishLabels reports the first label referenced but never defined and
// any internal jump left unpatched.
func (g *Generator) finishLabels(b *block) error {
	if l, ok := g.table.Unresolved(b.scope); ok {
		return diag.Errorf(diag.LabelUnresolved, l.RefSpan, l.RefLine,
			"label %q is never defined in %s", l.Name, b.name).At("", l.Name)
	}
	for _, f := range b.internal {
		if len(f.refs) > 0 || !f.placed() {
			return diag.Errorf(diag.InternalUnpatchedJump, b.curSpan, f.line,
				"internal label %s in %s was never placed", f.name, b.name)
		}
	}
	return nil
}

// link concatenates blocks, main first, relocating jump targets.
func (g *Generator) link() *bytecode.Unit {
	u := &bytecode.Unit{Consts: g.pool.Values()}
	for i, b := range g.blocks {
		base := len(u.Code)
		for _, in := range b.code {
			if in.Op.IsJump() {
				in.Arg += base
			}
			u.Code = append(u.Code, in)
		}
		sc := g.table.Scope(b.scope)
		f := bytecode.Frame{
			Name:      b.name,
			Params:    b.params,
			Entry:     base,
			End:       len(u.Code),
			Locals:    sc.FrameSize(),
			StackSize: b.maxDepth,
			Slots:     sc.SlotNames(),
			Line:      b.line,
		}
		if i == 0 {
			u.Main = f
		} else {
			u.Subs = append(u.Subs, f)
		}
	}
	return u
}

func withMnemonic(err error, mn string) error {
	if e, ok := diag.AsError(err); ok {
		return e.At(mn, "")
	}
	return err
}
