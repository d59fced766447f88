package parser

import (
	"fmt"
	"strings"

	"paxy/internal/token"
)

// slot is the kind of token an operand position accepts.
type slot uint8

const (
	slotIdent  slot = iota + 1 // variable or subroutine name
	slotValue                  // identifier, literal or list
	slotOp                     // operator, bare or quoted
	slotLabel                  // identifier or non-negative int
	slotModule                 // string or identifier
)

func (s slot) String() string {
	switch s {
	case slotIdent:
		return "an identifier"
	case slotValue:
		return "a value"
	case slotOp:
		return "an operator"
	case slotLabel:
		return "a label"
	case slotModule:
		return "a module name"
	}
	return "?"
}

func (s slot) accepts(t token.Token) bool {
	switch s {
	case slotIdent:
		return t.Kind == token.Ident
	case slotValue:
		return t.IsValue()
	case slotOp:
		_, ok := t.OperatorOf()
		return ok
	case slotLabel:
		return t.Kind == token.Ident || (t.Kind == token.IntLit && t.Value.Int >= 0)
	case slotModule:
		return t.Kind == token.Ident || t.Kind == token.StringLit
	}
	return false
}

// form is one accepted operand layout of a mnemonic.
type form struct {
	fixed []slot
	rest  slot // repeated zero or more times after fixed; 0 for none
	pairs bool // rest count must be even
	halve bool // operands split into equal ident and value halves, n >= 1
}

func (f form) matchesCount(n int) bool {
	switch {
	case f.halve:
		return n >= 2 && n%2 == 0
	case f.rest == 0:
		return n == len(f.fixed)
	case n < len(f.fixed):
		return false
	case f.pairs:
		return (n-len(f.fixed))%2 == 0
	}
	return true
}

func (f form) slotAt(i, n int) slot {
	if f.halve {
		if i < n/2 {
			return slotIdent
		}
		return slotValue
	}
	if i < len(f.fixed) {
		return f.fixed[i]
	}
	return f.rest
}

func (f form) describe() string {
	switch {
	case f.halve:
		return "2n"
	case f.rest == 0:
		return fmt.Sprintf("%d", len(f.fixed))
	case f.pairs:
		return fmt.Sprintf("%d plus key/value pairs", len(f.fixed))
	}
	return fmt.Sprintf("at least %d", len(f.fixed))
}

func fixed(slots ...slot) form { return form{fixed: slots} }

// short names for the shape table
const (
	sI = slotIdent
	sV = slotValue
	sO = slotOp
	sL = slotLabel
	sM = slotModule
)

var shapes = [mnCount][]form{
	MnLet:      {fixed(sI, sV), fixed(sI, sV, sO, sV)},
	MnCmp:      {fixed(sI, sV, sO, sV)},
	MnIf:       {fixed(sV, sO, sV, sL)},
	MnLbl:      {fixed(sL)},
	MnGo:       {fixed(sL)},
	MnRange:    {fixed(sI, sV, sV)},
	MnRangeEnd: {fixed()},
	MnSub:      {{fixed: []slot{sI}, rest: sI}},
	MnSubEnd:   {fixed()},
	MnRet:      {fixed(), fixed(sV), fixed(sV, sO, sV)},
	MnGos:      {{fixed: []slot{sI, sI}, rest: sV}},
	MnInc:      {fixed(sI)},
	MnDec:      {fixed(sI)},
	MnIn:       {fixed(sI, sV, sV)},
	MnNin:      {fixed(sI, sV, sV)},
	MnIs:       {fixed(sI, sV, sV)},
	MnNis:      {fixed(sI, sV, sV)},
	MnVec:      {{fixed: []slot{sI}, rest: sV}},
	MnRow:      {{fixed: []slot{sI}, rest: sV}},
	MnIgl:      {{fixed: []slot{sI}, rest: sV}},
	MnMap:      {{fixed: []slot{sI}, rest: sV, pairs: true}},
	MnMad:      {fixed(sI, sV, sV)},
	MnMal:      {fixed(sI, sV)},
	MnPar:      {{halve: true}},
	MnPnt:      {fixed(), fixed(sV), fixed(sV, sO, sV)},
	MnInp:      {fixed(sI)},
	MnImp:      {fixed(sM)},
	MnTin:      {fixed(sI, sV)},
	MnTfl:      {fixed(sI, sV)},
	MnTst:      {fixed(sI, sV)},
	MnVap:      {fixed(sI, sV)},
	MnVop:      {fixed(sI, sI), fixed(sI, sI, sV)},
	MnVem:      {fixed(sI, sV)},
	MnVer:      {fixed(sI)},
	MnLen:      {fixed(sI, sV)},
}

// Usage renders the accepted operand layouts, e.g. "LET I V | LET I V O V".
func Usage(m Mnemonic) string {
	if m <= MnInvalid || m >= mnCount {
		return ""
	}
	var parts []string
	for _, f := range shapes[m] {
		var sb strings.Builder
		sb.WriteString(m.String())
		if f.halve {
			sb.WriteString(" I... V...")
		}
		for _, s := range f.fixed {
			sb.WriteByte(' ')
			sb.WriteString(slotLetter(s))
		}
		if f.rest != 0 {
			if f.pairs {
				sb.WriteString(" (V V)*")
			} else {
				sb.WriteString(" " + slotLetter(f.rest) + "*")
			}
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, " | ")
}

func slotLetter(s slot) string {
	switch s {
	case slotIdent:
		return "I"
	case slotValue:
		return "V"
	case slotOp:
		return "O"
	case slotLabel:
		return "L"
	case slotModule:
		return "M"
	}
	return "?"
}
