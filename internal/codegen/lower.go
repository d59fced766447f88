package codegen

import (
	"paxy/internal/bytecode"
	"paxy/internal/diag"
	"paxy/internal/ir"
	"paxy/internal/token"
	"paxy/internal/value"
)

func (g *Generator) lower(b *block, n *ir.Node) error {
	switch n.Kind {
	case ir.KindAssign:
		if err := g.pushOperand(b, n.Assign.Src); err != nil {
			return err
		}
		g.store(b, n.Assign.Dst)
	case ir.KindBinaryOp:
		x := n.Binary
		return g.opInto(b, x.Dst, x.Lhs, x.Op, x.Rhs)
	case ir.KindCompare:
		x := n.Compare
		return g.opInto(b, x.Dst, x.Lhs, x.Op, x.Rhs)
	case ir.KindMembership:
		x := n.Membership
		op := token.OpIn
		if x.Negate {
			op = token.OpNotIn
		}
		return g.opInto(b, x.Dst, x.Needle, op, x.Haystack)
	case ir.KindIdentity:
		x := n.Identity
		op := token.OpIs
		if x.Negate {
			op = token.OpIsNot
		}
		return g.opInto(b, x.Dst, x.Lhs, op, x.Rhs)
	case ir.KindContainer:
		return g.container(b, n.Container)
	case ir.KindMapMutate:
		return g.mapMutate(b, n.MapMutate)
	case ir.KindPrint:
		if !n.Print.HasValue {
			b.emit(bytecode.OpPrint, 0)
			return nil
		}
		if err := g.pushExpr(b, n.Print.Value); err != nil {
			return err
		}
		b.emit(bytecode.OpPrint, 1)
	case ir.KindInput:
		b.emit(bytecode.OpInput, 0)
		g.store(b, n.Input.Dst)
	case ir.KindImport:
		b.emit(bytecode.OpImport, g.pool.Add(value.Str(n.Import.Module)))
		g.store(b, n.Import.Bind)
	case ir.KindCondJump:
		x := n.CondJump
		if err := g.pushExpr(b, ir.Expr{Lhs: x.Lhs, Op: x.Op, Rhs: x.Rhs}); err != nil {
			return err
		}
		g.table.DeclareLabel(b.scope, x.Target, n.Line, x.TargetSpan)
		b.jump(bytecode.OpJumpIfTrue, b.userLabel(x.Target))
	case ir.KindJump:
		g.table.DeclareLabel(b.scope, n.Jump.Target, n.Line, n.Jump.TargetSpan)
		b.jump(bytecode.OpJump, b.userLabel(n.Jump.Target))
	case ir.KindLabel:
		return g.defineLabel(b, n)
	case ir.KindLoopRange:
		return g.loop(b, n)
	case ir.KindCall:
		return g.call(b, n)
	case ir.KindReturn:
		if n.Return.HasValue {
			if err := g.pushExpr(b, n.Return.Value); err != nil {
				return err
			}
		} else {
			b.emit(bytecode.OpLoadConst, g.pool.Add(value.None()))
		}
		b.emit(bytecode.OpReturn, 0)
	case ir.KindParallelAssign:
		x := n.Par
		for _, src := range x.Srcs {
			if err := g.pushOperand(b, src); err != nil {
				return err
			}
		}
		if len(x.Srcs) > 1 {
			b.emit(bytecode.OpReverse, len(x.Srcs))
		}
		for _, dst := range x.Dsts {
			g.store(b, dst)
		}
	case ir.KindIncDec:
		x := n.IncDec
		if err := g.load(b, x.Var); err != nil {
			return err
		}
		b.emit(bytecode.OpLoadConst, g.pool.Add(value.Int(1)))
		op := token.OpAdd
		if x.Delta < 0 {
			op = token.OpSub
		}
		b.emit(bytecode.OpBinary, op.Arg())
		g.store(b, x.Var)
	case ir.KindConvert:
		if err := g.pushOperand(b, n.Convert.Src); err != nil {
			return err
		}
		b.emit(bytecode.OpConvert, convertArg(n.Convert.To))
		g.store(b, n.Convert.Dst)
	case ir.KindListOp:
		return g.listOp(b, n.ListOp)
	default:
		b.fail(diag.InternalBadNode, "cannot lower %s", n.Kind)
	}
	return nil
}

func convertArg(k ir.ConvKind) int {
	switch k {
	case ir.ConvFloat:
		return bytecode.ConvertFloat
	case ir.ConvStr:
		return bytecode.ConvertStr
	}
	return bytecode.ConvertInt
}

func (g *Generator) load(b *block, name string) error {
	slot, ok := g.table.LookupVariable(b.scope, name)
	if !ok {
		if !g.table.Defined(b.scope, name) {
			return diag.Errorf(diag.NameUndeclaredVariable, b.curSpan, b.curLine,
				"variable %q is never assigned in %s", name, b.name).At("", name)
		}
		// assigned further down; a jump reaches that store first
		slot = g.table.DeclareVariable(b.scope, name, b.curLine)
	}
	b.emit(bytecode.OpLoadLocal, slot)
	return nil
}

func (g *Generator) store(b *block, name string) {
	b.emit(bytecode.OpStoreLocal, g.table.DeclareVariable(b.scope, name, b.curLine))
}

func (g *Generator) pushOperand(b *block, o ir.Operand) error {
	switch o.Kind {
	case ir.OperandVar:
		return g.load(b, o.Name)
	case ir.OperandList:
		for _, e := range o.Elems {
			if err := g.pushOperand(b, e); err != nil {
				return err
			}
		}
		b.emit(bytecode.OpBuildList, len(o.Elems))
		return nil
	}
	b.emit(bytecode.OpLoadConst, g.pool.Add(o.Const))
	return nil
}

func (g *Generator) pushExpr(b *block, e ir.Expr) error {
	if err := g.pushOperand(b, e.Lhs); err != nil {
		return err
	}
	if !e.IsBinary() {
		return nil
	}
	if err := g.pushOperand(b, e.Rhs); err != nil {
		return err
	}
	g.emitOp(b, e.Op)
	return nil
}

// emitOp emits the instruction implementing a binary operator of any class.
func (g *Generator) emitOp(b *block, op token.Op) {
	switch op.Class() {
	case token.ClassBinary:
		b.emit(bytecode.OpBinary, op.Arg())
	case token.ClassCompare:
		b.emit(bytecode.OpCompare, op.Arg())
	case token.ClassIdentity:
		b.emit(bytecode.OpIs, op.Arg())
	case token.ClassMembership:
		b.emit(bytecode.OpContains, op.Arg())
	default:
		b.fail(diag.InternalBadNode, "operator %q has no instruction", op)
	}
}

func (g *Generator) opInto(b *block, dst string, lhs ir.Operand, op token.Op, rhs ir.Operand) error {
	if err := g.pushExpr(b, ir.Expr{Lhs: lhs, Op: op, Rhs: rhs}); err != nil {
		return err
	}
	g.store(b, dst)
	return nil
}

func (g *Generator) container(b *block, c ir.ContainerNode) error {
	if c.AllLiteral {
		if v, ok := foldContainer(c); ok {
			b.emit(bytecode.OpLoadConst, g.pool.Add(v))
			g.store(b, c.Dst)
			return nil
		}
	}
	for _, e := range c.Elems {
		if err := g.pushOperand(b, e); err != nil {
			return err
		}
	}
	switch c.Kind {
	case ir.ContainerTuple:
		b.emit(bytecode.OpBuildTuple, len(c.Elems))
	case ir.ContainerDict:
		b.emit(bytecode.OpBuildMap, len(c.Elems)/2)
	case ir.ContainerFrozenSet:
		b.emit(bytecode.OpBuildFrozenSet, len(c.Elems))
	default:
		b.emit(bytecode.OpBuildList, len(c.Elems))
	}
	g.store(b, c.Dst)
	return nil
}

// foldContainer builds the constant for an all-literal container. A
// frozenset with unhashable members cannot be folded.
func foldContainer(c ir.ContainerNode) (value.Value, bool) {
	items := make([]value.Value, len(c.Elems))
	for i, e := range c.Elems {
		items[i] = e.Const
	}
	switch c.Kind {
	case ir.ContainerTuple:
		return value.Tuple(items...), true
	case ir.ContainerFrozenSet:
		v, err := value.FrozenSet(items...)
		return v, err == nil
	case ir.ContainerDict:
		pairs := make([]value.Pair, 0, len(items)/2)
		for i := 0; i+1 < len(items); i += 2 {
			pairs = append(pairs, value.Pair{Key: items[i], Val: items[i+1]})
		}
		return value.Dict(pairs...), true
	}
	return value.List(items...), true
}

func (g *Generator) mapMutate(b *block, m ir.MapMutateNode) error {
	if err := g.load(b, m.Map); err != nil {
		return err
	}
	if err := g.pushOperand(b, m.Key); err != nil {
		return err
	}
	if m.Kind == ir.MutateDelete {
		b.emit(bytecode.OpDeleteSubscr, 0)
		return nil
	}
	if err := g.pushOperand(b, m.Value); err != nil {
		return err
	}
	b.emit(bytecode.OpStoreSubscr, 0)
	return nil
}

func (g *Generator) listOp(b *block, l ir.ListOpNode) error {
	if err := g.pushOperand(b, l.Target); err != nil {
		return err
	}
	if l.HasArg {
		if err := g.pushOperand(b, l.Arg); err != nil {
			return err
		}
	}
	switch l.Op {
	case ir.ListAppend:
		b.emit(bytecode.OpListAppend, 0)
	case ir.ListRemove:
		b.emit(bytecode.OpListRemove, 0)
	case ir.ListReverse:
		b.emit(bytecode.OpListReverse, 0)
	case ir.ListPop:
		arg := 0
		if l.HasArg {
			arg = 1
		}
		b.emit(bytecode.OpListPop, arg)
		g.store(b, l.Dst)
	case ir.ListLen:
		b.emit(bytecode.OpLen, 0)
		g.store(b, l.Dst)
	}
	return nil
}

func (g *Generator) defineLabel(b *block, n *ir.Node) error {
	name := n.Label.Name
	if _, err := g.table.DefineLabel(b.scope, name, len(b.code), n.Line, n.Span); err != nil {
		return err
	}
	f := b.userLabel(name)
	if f.placed() {
		// shadowing redefinition: later jumps bind to the new position
		f = newFixup(name)
		b.labels[name] = f
	}
	b.place(f)
	return nil
}

func (g *Generator) call(b *block, n *ir.Node) error {
	c := n.Call
	sub, err := g.table.CheckCall(c.Name, len(c.Args), n.Line, n.Span)
	if err != nil {
		return err
	}
	b.emit(bytecode.OpLoadSub, sub.Index)
	for _, a := range c.Args {
		if err := g.pushOperand(b, a); err != nil {
			return err
		}
	}
	b.emit(bytecode.OpCall, len(c.Args))
	g.store(b, c.Dst)
	return nil
}

// loop lowers RANGE var start end:
//
//	start -> var; [end -> tmp]
//	top:  var < end else exit
//	      body
//	      var += 1; jump top
//	exit:
func (g *Generator) loop(b *block, n *ir.Node) error {
	l := n.Loop
	if err := g.pushOperand(b, l.Start); err != nil {
		return err
	}
	pushEnd := func() error { return g.pushOperand(b, l.End) }
	if g.opts.LoopEnd == LoopEndOnce && !l.End.IsConst() {
		if err := g.pushOperand(b, l.End); err != nil {
			return err
		}
		tmp := g.table.Temp(b.scope, "end")
		b.emit(bytecode.OpStoreLocal, tmp)
		pushEnd = func() error {
			b.emit(bytecode.OpLoadLocal, tmp)
			return nil
		}
	}
	slot := g.table.DeclareVariable(b.scope, l.Var, n.Line)
	b.emit(bytecode.OpStoreLocal, slot)

	top := b.newInternal("loop_top")
	exit := b.newInternal("loop_exit")
	b.place(top)
	b.emit(bytecode.OpLoadLocal, slot)
	if err := pushEnd(); err != nil {
		return err
	}
	b.emit(bytecode.OpCompare, token.OpLt.Arg())
	b.jump(bytecode.OpJumpIfFalse, exit)

	if err := g.genNodes(b, l.Body); err != nil {
		return err
	}

	b.curLine, b.curSpan = l.EndLine, n.Span
	b.emit(bytecode.OpLoadLocal, slot)
	b.emit(bytecode.OpLoadConst, g.pool.Add(value.Int(1)))
	b.emit(bytecode.OpBinary, token.OpAdd.Arg())
	b.emit(bytecode.OpStoreLocal, slot)
	b.jump(bytecode.OpJump, top)
	b.place(exit)
	b.curLine = n.Line
	return nil
}
