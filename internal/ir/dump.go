package ir

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented listing of the program, one node per line.
func Dump(w io.Writer, p *Program) error {
	return dumpNodes(w, p.Main, 0)
}

func dumpNodes(w io.Writer, nodes []Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	for i := range nodes {
		n := &nodes[i]
		if _, err := fmt.Fprintf(w, "%4d %s%s %s\n", n.Line, indent, n.Kind, n.Describe()); err != nil {
			return err
		}
		var body []Node
		switch n.Kind {
		case KindLoopRange:
			body = n.Loop.Body
		case KindSubDef:
			body = n.Sub.Body
		}
		if err := dumpNodes(w, body, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Describe renders the node payload without its kind.
func (n *Node) Describe() string {
	switch n.Kind {
	case KindAssign:
		return n.Assign.Dst + " = " + n.Assign.Src.String()
	case KindBinaryOp:
		b := n.Binary
		return fmt.Sprintf("%s = %s %s %s", b.Dst, b.Lhs, b.Op, b.Rhs)
	case KindCompare:
		c := n.Compare
		return fmt.Sprintf("%s = %s %s %s", c.Dst, c.Lhs, c.Op, c.Rhs)
	case KindMembership:
		m := n.Membership
		return fmt.Sprintf("%s = %s %s %s", m.Dst, m.Needle, negated("in", m.Negate), m.Haystack)
	case KindIdentity:
		m := n.Identity
		op := "is"
		if m.Negate {
			op = "is not"
		}
		return fmt.Sprintf("%s = %s %s %s", m.Dst, m.Lhs, op, m.Rhs)
	case KindContainer:
		c := n.Container
		return fmt.Sprintf("%s = %s(%s) literal=%t", c.Dst, c.Kind, joinOperands(c.Elems), c.AllLiteral)
	case KindMapMutate:
		m := n.MapMutate
		if m.Kind == MutateDelete {
			return fmt.Sprintf("del %s[%s]", m.Map, m.Key)
		}
		return fmt.Sprintf("%s[%s] = %s", m.Map, m.Key, m.Value)
	case KindPrint:
		if !n.Print.HasValue {
			return "()"
		}
		return n.Print.Value.String()
	case KindInput:
		return n.Input.Dst
	case KindImport:
		return n.Import.Module + " as " + n.Import.Bind
	case KindCondJump:
		c := n.CondJump
		return fmt.Sprintf("if %s %s %s goto %s", c.Lhs, c.Op, c.Rhs, c.Target)
	case KindJump:
		return n.Jump.Target
	case KindLabel:
		return n.Label.Name
	case KindLoopRange:
		l := n.Loop
		return fmt.Sprintf("%s in %s..%s", l.Var, l.Start, l.End)
	case KindSubDef:
		return n.Sub.Name + "(" + strings.Join(n.Sub.Params, ", ") + ")"
	case KindCall:
		c := n.Call
		return fmt.Sprintf("%s = %s(%s)", c.Dst, c.Name, joinOperands(c.Args))
	case KindReturn:
		if !n.Return.HasValue {
			return "None"
		}
		return n.Return.Value.String()
	case KindParallelAssign:
		return strings.Join(n.Par.Dsts, ", ") + " = " + joinOperands(n.Par.Srcs)
	case KindIncDec:
		return fmt.Sprintf("%s += %d", n.IncDec.Var, n.IncDec.Delta)
	case KindConvert:
		c := n.Convert
		return fmt.Sprintf("%s = %s(%s)", c.Dst, c.To, c.Src)
	case KindListOp:
		l := n.ListOp
		s := l.Op.String() + " " + l.Target.String()
		if l.HasArg {
			s += " " + l.Arg.String()
		}
		if l.Dst != "" {
			s = l.Dst + " = " + s
		}
		return s
	}
	return ""
}

func negated(op string, neg bool) string {
	if neg {
		return "not " + op
	}
	return op
}

func joinOperands(ops []Operand) string {
	parts := make([]string, len(ops))
	for i, o := range ops {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}
