package ir

import (
	"strings"
	"unicode"

	"paxy/internal/diag"
	"paxy/internal/parser"
	"paxy/internal/symbols"
	"paxy/internal/token"
)

// Program is the IR of one compile unit.
type Program struct {
	Main      []Node
	Subs      []*SubNode // definitions in source order, also present in Main
	Table     *symbols.Table
	MainScope symbols.ScopeID
}

type blockKind uint8

const (
	blockProgram blockKind = iota
	blockRange
	blockSub
)

func (k blockKind) String() string {
	switch k {
	case blockRange:
		return "RANGE"
	case blockSub:
		return "SUB"
	}
	return "program"
}

// block is an open RANGE or SUB collecting its body.
type block struct {
	kind   blockKind
	opener *parser.Command
	nodes  []Node
	loop   LoopNode
	sub    SubNode
}

// Builder converts parsed commands into IR.
type Builder struct {
	table *symbols.Table
	stack []*block
}

// Build runs the signature pre-pass and then the structural pass over cmds.
// Subroutine signatures are declared in table before any body is built,
// so calls may precede definitions.
func Build(cmds []parser.Command, table *symbols.Table) (*Program, error) {
	b := &Builder{table: table}
	main := table.NewScope(symbols.ScopeProgram, "main")
	if err := b.declareSubs(cmds); err != nil {
		return nil, err
	}
	b.stack = []*block{{kind: blockProgram}}
	for i := range cmds {
		if err := b.command(&cmds[i]); err != nil {
			return nil, err
		}
	}
	if len(b.stack) > 1 {
		open := b.top()
		end := "RANGEEND"
		if open.kind == blockSub {
			end = "SUBEND"
		}
		return nil, diag.Errorf(diag.StructUnclosedBlock, open.opener.Span, open.opener.Line,
			"%s opened here is never closed by %s", open.kind, end).At(open.opener.Name, "")
	}
	p := &Program{Main: b.stack[0].nodes, Table: table, MainScope: main}
	for i := range p.Main {
		if p.Main[i].Kind == KindSubDef {
			p.Subs = append(p.Subs, &p.Main[i].Sub)
		}
	}
	return p, nil
}

func (b *Builder) declareSubs(cmds []parser.Command) error {
	for i := range cmds {
		c := &cmds[i]
		if c.Mnemonic != parser.MnSub {
			continue
		}
		params := make([]string, 0, len(c.Operands)-1)
		for _, p := range c.Operands[1:] {
			params = append(params, p.Text)
		}
		sub, err := b.table.DeclareSubroutine(c.Operands[0].Text, params, c.Line, c.Operands[0].Span)
		if err != nil {
			return err
		}
		if err := b.table.DeclareParams(sub.Scope, params, c.Line, c.Span); err != nil {
			return withMnemonic(err, c.Name)
		}
	}
	return nil
}

func (b *Builder) top() *block { return b.stack[len(b.stack)-1] }

func (b *Builder) push(n Node) {
	t := b.top()
	t.nodes = append(t.nodes, n)
}

func (b *Builder) command(c *parser.Command) error {
	switch c.Mnemonic {
	case parser.MnRange:
		b.stack = append(b.stack, &block{kind: blockRange, opener: c, loop: LoopNode{
			Var:   c.Operands[0].Text,
			Start: operandOf(c.Operands[1]),
			End:   operandOf(c.Operands[2]),
		}})
		return nil
	case parser.MnSub:
		if len(b.stack) > 1 {
			outer := b.top()
			return diag.Errorf(diag.StructNestedSub, c.Span, c.Line,
				"SUB %s cannot be defined inside %s", c.Operands[0].Text, outer.kind).
				At(c.Name, c.Operands[0].Text).
				WithNote(outer.opener.Span, "enclosing "+outer.kind.String()+" opened here")
		}
		sub, _ := b.table.LookupSubroutine(c.Operands[0].Text)
		b.stack = append(b.stack, &block{kind: blockSub, opener: c, sub: SubNode{
			Name:   sub.Name,
			Params: sub.Params,
			Symbol: sub,
		}})
		return nil
	case parser.MnRangeEnd:
		return b.close(c, blockRange)
	case parser.MnSubEnd:
		return b.close(c, blockSub)
	}
	n, err := lower(c)
	if err != nil {
		return err
	}
	b.push(n)
	return nil
}

func (b *Builder) close(c *parser.Command, want blockKind) error {
	t := b.top()
	if t.kind != want {
		err := diag.Errorf(diag.StructUnmatchedEnd, c.Span, c.Line,
			"%s without a matching %s", c.Name, want).At(c.Name, "")
		if t.opener != nil {
			err = err.WithNote(t.opener.Span, "innermost open block is the "+t.kind.String()+" here")
		}
		return err
	}
	b.stack = b.stack[:len(b.stack)-1]
	n := Node{Line: t.opener.Line, Span: t.opener.Span, Mnemonic: t.opener.Name}
	switch want {
	case blockRange:
		n.Kind = KindLoopRange
		n.Loop = t.loop
		n.Loop.Body = t.nodes
		n.Loop.EndLine = c.Line
	case blockSub:
		n.Kind = KindSubDef
		n.Sub = t.sub
		n.Sub.Body = t.nodes
		n.Sub.EndLine = c.Line
	}
	b.push(n)
	return nil
}

// lower converts a non-structural command into one node.
func lower(c *parser.Command) (Node, error) {
	ops := c.Operands
	n := Node{Line: c.Line, Span: c.Span, Mnemonic: c.Name}
	switch c.Mnemonic {
	case parser.MnLet:
		if len(ops) == 2 {
			n.Kind = KindAssign
			n.Assign = AssignNode{Dst: ops[0].Text, Src: operandOf(ops[1])}
			return n, nil
		}
		return letExpr(n, c)
	case parser.MnCmp:
		op, _ := ops[2].OperatorOf()
		if op.Class() != token.ClassCompare {
			return n, operatorClassErr(c, ops[2], op, "CMP needs a comparison operator")
		}
		n.Kind = KindCompare
		n.Compare = CompareNode{Dst: ops[0].Text, Op: op, Lhs: operandOf(ops[1]), Rhs: operandOf(ops[3])}
	case parser.MnIf:
		op, _ := ops[1].OperatorOf()
		if op.Class() == token.ClassBinary {
			return n, operatorClassErr(c, ops[1], op, "IF needs a comparison, identity or membership operator")
		}
		n.Kind = KindCondJump
		n.CondJump = CondJumpNode{
			Lhs:        operandOf(ops[0]),
			Op:         op,
			Rhs:        operandOf(ops[2]),
			Target:     ops[3].Text,
			TargetSpan: ops[3].Span,
		}
	case parser.MnLbl:
		n.Kind = KindLabel
		n.Label = LabelNode{Name: ops[0].Text}
	case parser.MnGo:
		n.Kind = KindJump
		n.Jump = JumpNode{Target: ops[0].Text, TargetSpan: ops[0].Span}
	case parser.MnRet:
		n.Kind = KindReturn
		n.Return.HasValue, n.Return.Value = exprOf(ops)
	case parser.MnPnt:
		n.Kind = KindPrint
		n.Print.HasValue, n.Print.Value = exprOf(ops)
	case parser.MnGos:
		n.Kind = KindCall
		n.Call = CallNode{Dst: ops[0].Text, Name: ops[1].Text, Args: operandsOf(ops[2:])}
	case parser.MnInc, parser.MnDec:
		n.Kind = KindIncDec
		n.IncDec = IncDecNode{Var: ops[0].Text, Delta: 1}
		if c.Mnemonic == parser.MnDec {
			n.IncDec.Delta = -1
		}
	case parser.MnIn, parser.MnNin:
		n.Kind = KindMembership
		n.Membership = MembershipNode{
			Dst:      ops[0].Text,
			Negate:   c.Mnemonic == parser.MnNin,
			Needle:   operandOf(ops[1]),
			Haystack: operandOf(ops[2]),
		}
	case parser.MnIs, parser.MnNis:
		n.Kind = KindIdentity
		n.Identity = IdentityNode{
			Dst:    ops[0].Text,
			Negate: c.Mnemonic == parser.MnNis,
			Lhs:    operandOf(ops[1]),
			Rhs:    operandOf(ops[2]),
		}
	case parser.MnVec, parser.MnRow, parser.MnIgl, parser.MnMap:
		return container(n, c)
	case parser.MnMad:
		if err := checkMapKey(c, ops[1]); err != nil {
			return n, err
		}
		n.Kind = KindMapMutate
		n.MapMutate = MapMutateNode{Kind: MutateSet, Map: ops[0].Text, Key: operandOf(ops[1]), Value: operandOf(ops[2])}
	case parser.MnMal:
		if err := checkMapKey(c, ops[1]); err != nil {
			return n, err
		}
		n.Kind = KindMapMutate
		n.MapMutate = MapMutateNode{Kind: MutateDelete, Map: ops[0].Text, Key: operandOf(ops[1])}
	case parser.MnPar:
		half := len(ops) / 2
		n.Kind = KindParallelAssign
		for _, d := range ops[:half] {
			n.Par.Dsts = append(n.Par.Dsts, d.Text)
		}
		n.Par.Srcs = operandsOf(ops[half:])
	case parser.MnInp:
		n.Kind = KindInput
		n.Input = InputNode{Dst: ops[0].Text}
	case parser.MnImp:
		return importNode(n, c)
	case parser.MnTin, parser.MnTfl, parser.MnTst:
		n.Kind = KindConvert
		n.Convert = ConvertNode{Dst: ops[0].Text, Src: operandOf(ops[1])}
		switch c.Mnemonic {
		case parser.MnTfl:
			n.Convert.To = ConvFloat
		case parser.MnTst:
			n.Convert.To = ConvStr
		}
	case parser.MnVap, parser.MnVem:
		n.Kind = KindListOp
		n.ListOp = ListOpNode{Op: ListAppend, Target: operandOf(ops[0]), HasArg: true, Arg: operandOf(ops[1])}
		if c.Mnemonic == parser.MnVem {
			n.ListOp.Op = ListRemove
		}
	case parser.MnVop:
		n.Kind = KindListOp
		n.ListOp = ListOpNode{Op: ListPop, Dst: ops[0].Text, Target: operandOf(ops[1])}
		if len(ops) == 3 {
			n.ListOp.HasArg, n.ListOp.Arg = true, operandOf(ops[2])
		}
	case parser.MnVer:
		n.Kind = KindListOp
		n.ListOp = ListOpNode{Op: ListReverse, Target: operandOf(ops[0])}
	case parser.MnLen:
		n.Kind = KindListOp
		n.ListOp = ListOpNode{Op: ListLen, Dst: ops[0].Text, Target: operandOf(ops[1])}
	default:
		return n, diag.Errorf(diag.InternalBadNode, c.Span, c.Line, "no lowering for %s", c.Mnemonic).At(c.Name, "")
	}
	return n, nil
}

// letExpr classifies LET dst lhs op rhs by operator class.
func letExpr(n Node, c *parser.Command) (Node, error) {
	ops := c.Operands
	op, _ := ops[2].OperatorOf()
	dst, lhs, rhs := ops[0].Text, operandOf(ops[1]), operandOf(ops[3])
	switch op.Class() {
	case token.ClassBinary:
		n.Kind = KindBinaryOp
		n.Binary = BinaryNode{Dst: dst, Op: op, Lhs: lhs, Rhs: rhs}
	case token.ClassCompare:
		n.Kind = KindCompare
		n.Compare = CompareNode{Dst: dst, Op: op, Lhs: lhs, Rhs: rhs}
	case token.ClassIdentity:
		n.Kind = KindIdentity
		n.Identity = IdentityNode{Dst: dst, Negate: op == token.OpIsNot, Lhs: lhs, Rhs: rhs}
	case token.ClassMembership:
		n.Kind = KindMembership
		n.Membership = MembershipNode{Dst: dst, Negate: op == token.OpNotIn, Needle: lhs, Haystack: rhs}
	default:
		return n, operatorClassErr(c, ops[2], op, "unsupported operator")
	}
	return n, nil
}

func container(n Node, c *parser.Command) (Node, error) {
	n.Kind = KindContainer
	elems := c.Operands[1:]
	cn := ContainerNode{Dst: c.Operands[0].Text, Elems: operandsOf(elems), AllLiteral: true}
	switch c.Mnemonic {
	case parser.MnRow:
		cn.Kind = ContainerTuple
	case parser.MnIgl:
		cn.Kind = ContainerFrozenSet
	case parser.MnMap:
		cn.Kind = ContainerDict
		for i := 0; i < len(elems); i += 2 {
			if err := checkMapKey(c, elems[i]); err != nil {
				return n, err
			}
		}
	}
	for _, e := range cn.Elems {
		if !e.IsConst() {
			cn.AllLiteral = false
			break
		}
	}
	n.Container = cn
	return n, nil
}

// checkMapKey accepts string literal keys and identifiers whose runtime
// value becomes the key.
func checkMapKey(c *parser.Command, t token.Token) error {
	if t.Kind == token.StringLit || t.Kind == token.Ident {
		return nil
	}
	return diag.Errorf(diag.SynBadMapKey, t.Span, c.Line,
		"map keys must be string literals or variables, found %s", t.Kind).At(c.Name, t.Text)
}

func importNode(n Node, c *parser.Command) (Node, error) {
	t := c.Operands[0]
	module := t.Text
	if t.Kind == token.StringLit {
		module = t.Value.Str
	}
	segs := strings.Split(module, ".")
	for _, s := range segs {
		if !isIdent(s) {
			return n, diag.Errorf(diag.SynOperandKind, t.Span, c.Line,
				"%q is not a dotted module name", module).At(c.Name, t.Text)
		}
	}
	n.Kind = KindImport
	n.Import = ImportNode{Module: module, Bind: segs[0]}
	return n, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

func exprOf(ops []token.Token) (bool, Expr) {
	switch len(ops) {
	case 0:
		return false, Expr{}
	case 1:
		return true, Expr{Lhs: operandOf(ops[0])}
	}
	op, _ := ops[1].OperatorOf()
	return true, Expr{Lhs: operandOf(ops[0]), Op: op, Rhs: operandOf(ops[2])}
}

func operandsOf(ts []token.Token) []Operand {
	out := make([]Operand, len(ts))
	for i, t := range ts {
		out[i] = operandOf(t)
	}
	return out
}

func operatorClassErr(c *parser.Command, t token.Token, op token.Op, msg string) error {
	return diag.Errorf(diag.SynOperatorClass, t.Span, c.Line,
		"%s, %q is a %s operator", msg, op.String(), op.Class()).At(c.Name, t.Text)
}

func withMnemonic(err error, mn string) error {
	if e, ok := diag.AsError(err); ok {
		return e.At(mn, "")
	}
	return err
}
