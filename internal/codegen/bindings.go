package codegen

import (
	"paxy/internal/ir"
	"paxy/internal/symbols"
)

// bindingScan walks a block in source order before lowering and records,
// per name, where it is first and last touched. Labels and loop heads are
// join points: control can reach them from more than one place.
type bindingScan struct {
	pos       int
	first     map[string]int
	last      map[string]int
	firstLoad map[string]bool
	defined   map[string]bool
	joins     []int
}

func newBindingScan() *bindingScan {
	return &bindingScan{
		first:     make(map[string]int),
		last:      make(map[string]int),
		firstLoad: make(map[string]bool),
		defined:   make(map[string]bool),
	}
}

// prepareBindings marks every name the block assigns as defined, so a
// load placed above its assignment (reached through a jump) resolves.
// Under VarRebind it pins names whose live range crosses a join point or
// starts with a load; those must read the same slot on every pass.
func (g *Generator) prepareBindings(b *block, nodes []ir.Node) {
	s := newBindingScan()
	for _, p := range b.params {
		s.store(p, false)
	}
	s.nodes(nodes)

	for name := range s.defined {
		g.table.MarkDefined(b.scope, name)
	}
	if g.table.Policy().Variables != symbols.VarRebind {
		return
	}
	for name, first := range s.first {
		if s.firstLoad[name] || s.joinBetween(first, s.last[name]) {
			g.table.Pin(b.scope, name)
		}
	}
}

func (s *bindingScan) touch(name string, load bool) {
	s.pos++
	if _, seen := s.first[name]; !seen {
		s.first[name] = s.pos
		s.firstLoad[name] = load
	}
	s.last[name] = s.pos
}

func (s *bindingScan) load(name string) { s.touch(name, true) }

// store records an assignment. selfRead is set when the same statement
// also reads name, as INC does; such a store cannot supply the first value.
func (s *bindingScan) store(name string, selfRead bool) {
	s.touch(name, false)
	if !selfRead {
		s.defined[name] = true
	}
}

func (s *bindingScan) join() {
	s.pos++
	s.joins = append(s.joins, s.pos)
}

func (s *bindingScan) joinBetween(from, to int) bool {
	for _, j := range s.joins {
		if j > from && j < to {
			return true
		}
	}
	return false
}

func (s *bindingScan) operand(o ir.Operand, reads map[string]bool) {
	switch o.Kind {
	case ir.OperandVar:
		s.load(o.Name)
		reads[o.Name] = true
	case ir.OperandList:
		for _, e := range o.Elems {
			s.operand(e, reads)
		}
	}
}

func (s *bindingScan) expr(e ir.Expr, reads map[string]bool) {
	s.operand(e.Lhs, reads)
	if e.IsBinary() {
		s.operand(e.Rhs, reads)
	}
}

func (s *bindingScan) nodes(nodes []ir.Node) {
	for i := range nodes {
		s.node(&nodes[i])
	}
}

func (s *bindingScan) node(n *ir.Node) {
	reads := make(map[string]bool)
	set := func(dst string) {
		if dst != "" {
			s.store(dst, reads[dst])
		}
	}
	switch n.Kind {
	case ir.KindAssign:
		s.operand(n.Assign.Src, reads)
		set(n.Assign.Dst)
	case ir.KindBinaryOp:
		s.operand(n.Binary.Lhs, reads)
		s.operand(n.Binary.Rhs, reads)
		set(n.Binary.Dst)
	case ir.KindCompare:
		s.operand(n.Compare.Lhs, reads)
		s.operand(n.Compare.Rhs, reads)
		set(n.Compare.Dst)
	case ir.KindMembership:
		s.operand(n.Membership.Needle, reads)
		s.operand(n.Membership.Haystack, reads)
		set(n.Membership.Dst)
	case ir.KindIdentity:
		s.operand(n.Identity.Lhs, reads)
		s.operand(n.Identity.Rhs, reads)
		set(n.Identity.Dst)
	case ir.KindContainer:
		for _, e := range n.Container.Elems {
			s.operand(e, reads)
		}
		set(n.Container.Dst)
	case ir.KindMapMutate:
		s.load(n.MapMutate.Map)
		s.operand(n.MapMutate.Key, reads)
		if n.MapMutate.Kind == ir.MutateSet {
			s.operand(n.MapMutate.Value, reads)
		}
	case ir.KindPrint:
		if n.Print.HasValue {
			s.expr(n.Print.Value, reads)
		}
	case ir.KindInput:
		set(n.Input.Dst)
	case ir.KindImport:
		set(n.Import.Bind)
	case ir.KindCondJump:
		s.expr(ir.Expr{Lhs: n.CondJump.Lhs, Op: n.CondJump.Op, Rhs: n.CondJump.Rhs}, reads)
	case ir.KindLabel:
		s.join()
	case ir.KindLoopRange:
		l := &n.Loop
		s.operand(l.Start, reads)
		s.operand(l.End, reads)
		set(l.Var)
		s.join()
		s.nodes(l.Body)
		s.load(l.Var)
		s.store(l.Var, true)
		s.join()
	case ir.KindCall:
		for _, a := range n.Call.Args {
			s.operand(a, reads)
		}
		set(n.Call.Dst)
	case ir.KindReturn:
		if n.Return.HasValue {
			s.expr(n.Return.Value, reads)
		}
	case ir.KindParallelAssign:
		for _, src := range n.Par.Srcs {
			s.operand(src, reads)
		}
		for _, dst := range n.Par.Dsts {
			set(dst)
		}
	case ir.KindIncDec:
		s.load(n.IncDec.Var)
		s.store(n.IncDec.Var, true)
	case ir.KindConvert:
		s.operand(n.Convert.Src, reads)
		set(n.Convert.Dst)
	case ir.KindListOp:
		s.operand(n.ListOp.Target, reads)
		if n.ListOp.HasArg {
			s.operand(n.ListOp.Arg, reads)
		}
		set(n.ListOp.Dst)
	}
}
