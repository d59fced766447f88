// Package parser turns tokenized lines into Commands and checks every
// command against its mnemonic's operand shapes.
package parser

import (
	"fmt"
	"strings"

	"paxy/internal/diag"
	"paxy/internal/lexer"
	"paxy/internal/source"
	"paxy/internal/token"
)

// Command is one parsed source line.
type Command struct {
	Mnemonic Mnemonic
	Name     string // mnemonic as written
	Operands []token.Token
	Line     int
	Span     source.Span
}

// Parse lexes and parses a whole file, stopping at the first error.
func Parse(f *source.File, opts lexer.Options) ([]Command, error) {
	lines, err := lexer.Lex(f, opts)
	if err != nil {
		return nil, err
	}
	cmds := make([]Command, 0, len(lines))
	for _, ln := range lines {
		cmd, err := ParseLine(ln)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// ParseLine validates one tokenized line.
func ParseLine(ln lexer.Line) (Command, error) {
	head := ln.Tokens[0]
	if head.Kind != token.Ident {
		return Command{}, diag.Errorf(diag.SynUnknownMnemonic, head.Span, ln.Num,
			"line must start with a command, found %s", head.Kind).At("", head.Text)
	}
	mn, ok := LookupMnemonic(head.Text)
	if !ok {
		return Command{}, diag.Errorf(diag.SynUnknownMnemonic, head.Span, ln.Num,
			"unknown command %q", head.Text).At("", head.Text)
	}
	cmd := Command{
		Mnemonic: mn,
		Name:     head.Text,
		Operands: ln.Tokens[1:],
		Line:     ln.Num,
		Span:     ln.Span,
	}
	if err := checkShape(cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func checkShape(cmd Command) error {
	n := len(cmd.Operands)
	var kindErr error
	counted := false
	for _, f := range shapes[cmd.Mnemonic] {
		if !f.matchesCount(n) {
			continue
		}
		counted = true
		err := checkKinds(cmd, f)
		if err == nil {
			return nil
		}
		if kindErr == nil {
			kindErr = err
		}
	}
	if counted {
		return kindErr
	}

	var want []string
	for _, f := range shapes[cmd.Mnemonic] {
		want = append(want, f.describe())
	}
	sp := cmd.Span
	tok := ""
	if n > 0 {
		last := cmd.Operands[n-1]
		sp, tok = last.Span, last.Text
	}
	return diag.Errorf(diag.SynOperandCount, sp, cmd.Line,
		"%s expects %s operands, got %d (usage: %s)",
		cmd.Mnemonic, strings.Join(want, " or "), n, Usage(cmd.Mnemonic)).At(cmd.Name, tok)
}

func checkKinds(cmd Command, f form) error {
	n := len(cmd.Operands)
	for i, tok := range cmd.Operands {
		want := f.slotAt(i, n)
		if want.accepts(tok) {
			continue
		}
		code := diag.SynOperandKind
		msg := fmt.Sprintf("operand %d of %s must be %s, got %s", i+1, cmd.Mnemonic, want, describeToken(tok))
		switch {
		case want == slotOp && tok.Kind == token.StringLit:
			code = diag.SynUnknownOperator
			msg = fmt.Sprintf("unknown operator %s", tok.Text)
		case want == slotOp:
			code = diag.SynUnknownOperator
			msg = fmt.Sprintf("expected an operator, got %s", describeToken(tok))
		case tok.Kind == token.Operator && isWordOp(tok.Op):
			code = diag.SynReservedWord
			msg = fmt.Sprintf("%q is a reserved word", tok.Text)
		}
		return diag.Errorf(code, tok.Span, cmd.Line, "%s", msg).At(cmd.Name, tok.Text)
	}
	return nil
}

func isWordOp(op token.Op) bool {
	return op.Class() == token.ClassIdentity || op.Class() == token.ClassMembership
}

func describeToken(t token.Token) string {
	switch t.Kind {
	case token.Ident:
		return "identifier " + t.Text
	case token.Operator:
		return "operator " + t.Text
	case token.List:
		return "a list literal"
	}
	return t.Kind.String() + " " + t.Text
}
