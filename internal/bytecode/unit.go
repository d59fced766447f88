package bytecode

import (
	"paxy/internal/value"
)

// Instruction is one opcode with its argument. Arg is zero for opcodes
// without one. Line is the source line that produced it.
type Instruction struct {
	Op   Opcode `msgpack:"o" cbor:"1,keyasint" json:"op"`
	Arg  int    `msgpack:"a,omitempty" cbor:"2,keyasint,omitempty" json:"arg,omitempty"`
	Line int    `msgpack:"l,omitempty" cbor:"3,keyasint,omitempty" json:"line,omitempty"`
}

// Frame describes one code block of a linked unit: main or a subroutine.
// Instructions of the frame occupy [Entry, End) in Unit.Code.
type Frame struct {
	Name      string   `msgpack:"name" cbor:"1,keyasint" json:"name"`
	Params    []string `msgpack:"params,omitempty" cbor:"2,keyasint,omitempty" json:"params,omitempty"`
	Entry     int      `msgpack:"entry" cbor:"3,keyasint" json:"entry"`
	End       int      `msgpack:"end" cbor:"4,keyasint" json:"end"`
	Locals    int      `msgpack:"locals" cbor:"5,keyasint" json:"locals"`
	StackSize int      `msgpack:"stack" cbor:"6,keyasint" json:"stack_size"`
	Slots     []string `msgpack:"slots,omitempty" cbor:"7,keyasint,omitempty" json:"slots,omitempty"`
	Line      int      `msgpack:"line,omitempty" cbor:"8,keyasint,omitempty" json:"line,omitempty"`
}

// Arity is the number of parameters bound to slots 0..Arity-1.
func (f *Frame) Arity() int { return len(f.Params) }

// Unit is a linked compile unit: main block first, then subroutines in
// order of appearance. Jump arguments are absolute offsets into Code.
type Unit struct {
	Source string        `msgpack:"source" cbor:"1,keyasint" json:"source"`
	Hash   string        `msgpack:"hash" cbor:"2,keyasint" json:"hash"`
	Code   []Instruction `msgpack:"code" cbor:"3,keyasint" json:"code"`
	Consts []value.Value `msgpack:"consts" cbor:"4,keyasint" json:"consts"`
	Main   Frame         `msgpack:"main" cbor:"5,keyasint" json:"main"`
	Subs   []Frame       `msgpack:"subs,omitempty" cbor:"6,keyasint,omitempty" json:"subs,omitempty"`
}

// Frames returns main followed by every subroutine frame.
func (u *Unit) Frames() []*Frame {
	out := make([]*Frame, 0, 1+len(u.Subs))
	out = append(out, &u.Main)
	for i := range u.Subs {
		out = append(out, &u.Subs[i])
	}
	return out
}

// FrameAt returns the frame whose code range contains pc.
func (u *Unit) FrameAt(pc int) (*Frame, bool) {
	for _, f := range u.Frames() {
		if pc >= f.Entry && pc < f.End {
			return f, true
		}
	}
	return nil, false
}

// Sub returns the frame of the subroutine with the given index.
func (u *Unit) Sub(idx int) (*Frame, bool) {
	if idx < 0 || idx >= len(u.Subs) {
		return nil, false
	}
	return &u.Subs[idx], true
}
