// Package testkit provides test helpers: a reference executor of the
// bytecode contract and invariant checks over linked units.
package testkit

import (
	"errors"
	"fmt"
	"slices"

	"paxy/internal/bytecode"
	"paxy/internal/value"
)

// ErrStepLimit is returned when a program runs longer than RunOptions.MaxSteps.
var ErrStepLimit = errors.New("step limit exceeded")

// RunOptions configures Run.
type RunOptions struct {
	Input    []string // lines returned by INPUT, in order
	MaxSteps int      // 0 means 100000
}

// Result is the observable outcome of running a unit.
type Result struct {
	Output []string    // one entry per PRINT
	Return value.Value // value returned by main
	Vars   map[string]value.Value
	Steps  int
}

// object is a runtime value. Lists and dicts are shared by reference
// through the pointer; nested containers are copied by value.
type object struct {
	v   value.Value
	sub int // 1 + subroutine index for callable references
}

func (o *object) String() string {
	if o.sub > 0 {
		return fmt.Sprintf("<sub %d>", o.sub-1)
	}
	return o.v.String()
}

type frame struct {
	fn    *bytecode.Frame
	slots []*object
	stack []*object
	pc    int
}

// RuntimeError reports a failure while executing an instruction.
type RuntimeError struct {
	PC  int
	Op  bytecode.Opcode
	Msg string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("pc %d (%s): %s", e.PC, e.Op, e.Msg)
}

type machine struct {
	u      *bytecode.Unit
	opts   RunOptions
	frames []*frame
	out    []string
	input  int
}

// Run executes u from the main frame until main returns.
func Run(u *bytecode.Unit, opts RunOptions) (*Result, error) {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = 100000
	}
	m := &machine{u: u, opts: opts}
	main := m.newFrame(&u.Main)
	m.frames = []*frame{main}
	res := &Result{}
	for steps := 1; ; steps++ {
		if steps > opts.MaxSteps {
			return nil, ErrStepLimit
		}
		ret, done, err := m.step()
		if err != nil {
			return nil, err
		}
		if done {
			res.Output = m.out
			res.Return = ret.v
			res.Vars = collectVars(main)
			res.Steps = steps
			return res, nil
		}
	}
}

func (m *machine) newFrame(fn *bytecode.Frame) *frame {
	f := &frame{fn: fn, slots: make([]*object, fn.Locals), pc: fn.Entry}
	for i := range f.slots {
		f.slots[i] = &object{v: value.None()}
	}
	return f
}

// collectVars maps named slots to their values; the newest slot of a name wins.
func collectVars(f *frame) map[string]value.Value {
	vars := make(map[string]value.Value)
	for i, name := range f.fn.Slots {
		if name == "" || name[0] == '$' || i >= len(f.slots) {
			continue
		}
		vars[name] = f.slots[i].v
	}
	return vars
}

func (f *frame) push(o *object) { f.stack = append(f.stack, o) }

func (f *frame) pop() *object {
	o := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return o
}

func (f *frame) popN(n int) []*object {
	out := append([]*object(nil), f.stack[len(f.stack)-n:]...)
	f.stack = f.stack[:len(f.stack)-n]
	return out
}

func wrap(v value.Value) *object { return &object{v: v} }

func values(objs []*object) []value.Value {
	out := make([]value.Value, len(objs))
	for i, o := range objs {
		out[i] = o.v.Clone()
	}
	return out
}

// step executes one instruction. done is set when main returns.
func (m *machine) step() (ret *object, done bool, err error) {
	f := m.frames[len(m.frames)-1]
	if f.pc < f.fn.Entry || f.pc >= f.fn.End {
		return nil, false, &RuntimeError{PC: f.pc, Msg: "pc outside frame " + f.fn.Name}
	}
	in := m.u.Code[f.pc]
	fail := func(format string, args ...any) (*object, bool, error) {
		return nil, false, &RuntimeError{PC: f.pc, Op: in.Op, Msg: fmt.Sprintf(format, args...)}
	}
	if len(f.stack) < bytecode.Pops(in.Op, in.Arg) {
		return fail("stack underflow")
	}
	f.pc++

	switch in.Op {
	case bytecode.OpNOP:
	case bytecode.OpLoadConst:
		f.push(wrap(m.u.Consts[in.Arg].Clone()))
	case bytecode.OpLoadLocal:
		f.push(f.slots[in.Arg])
	case bytecode.OpStoreLocal:
		f.slots[in.Arg] = f.pop()
	case bytecode.OpLoadSub:
		f.push(&object{sub: in.Arg + 1})
	case bytecode.OpPop:
		f.pop()
	case bytecode.OpDup:
		f.push(f.stack[len(f.stack)-1])
	case bytecode.OpReverse:
		slices.Reverse(f.stack[len(f.stack)-in.Arg:])

	case bytecode.OpBinary:
		r, l := f.pop(), f.pop()
		v, err := binary(in.Arg, l.v, r.v)
		if err != nil {
			return fail("%v", err)
		}
		f.push(wrap(v))
	case bytecode.OpCompare:
		r, l := f.pop(), f.pop()
		v, err := compare(in.Arg, l.v, r.v)
		if err != nil {
			return fail("%v", err)
		}
		f.push(wrap(value.Bool(v)))
	case bytecode.OpIs:
		r, l := f.pop(), f.pop()
		f.push(wrap(value.Bool(identical(l, r) != (in.Arg == 1))))
	case bytecode.OpContains:
		hay, needle := f.pop(), f.pop()
		ok, err := contains(hay.v, needle.v)
		if err != nil {
			return fail("%v", err)
		}
		f.push(wrap(value.Bool(ok != (in.Arg == 1))))

	case bytecode.OpJump:
		f.pc = in.Arg
	case bytecode.OpJumpIfTrue:
		if f.pop().v.Truthy() {
			f.pc = in.Arg
		}
	case bytecode.OpJumpIfFalse:
		if !f.pop().v.Truthy() {
			f.pc = in.Arg
		}
	case bytecode.OpCall:
		args := f.popN(in.Arg)
		callee := f.pop()
		sub, ok := m.u.Sub(callee.sub - 1)
		if callee.sub == 0 || !ok {
			return fail("%s is not callable", callee)
		}
		if sub.Arity() != len(args) {
			return fail("%s expects %d argument(s), got %d", sub.Name, sub.Arity(), len(args))
		}
		nf := m.newFrame(sub)
		copy(nf.slots, args)
		m.frames = append(m.frames, nf)
	case bytecode.OpReturn:
		rv := f.pop()
		m.frames = m.frames[:len(m.frames)-1]
		if len(m.frames) == 0 {
			return rv, true, nil
		}
		m.frames[len(m.frames)-1].push(rv)

	case bytecode.OpBuildList:
		f.push(wrap(value.List(values(f.popN(in.Arg))...)))
	case bytecode.OpBuildTuple:
		f.push(wrap(value.Tuple(values(f.popN(in.Arg))...)))
	case bytecode.OpBuildFrozenSet:
		v, err := value.FrozenSet(values(f.popN(in.Arg))...)
		if err != nil {
			return fail("%v", err)
		}
		f.push(wrap(v))
	case bytecode.OpBuildMap:
		items := values(f.popN(2 * in.Arg))
		pairs := make([]value.Pair, 0, in.Arg)
		for i := 0; i < len(items); i += 2 {
			if !items[i].Hashable() {
				return fail("unhashable key %s", items[i].Repr())
			}
			pairs = append(pairs, value.Pair{Key: items[i], Val: items[i+1]})
		}
		f.push(wrap(value.Dict(pairs...)))
	case bytecode.OpStoreSubscr:
		val, key, d := f.pop(), f.pop(), f.pop()
		if d.v.Kind != value.KindDict {
			return fail("%s does not support item assignment", d.v.Kind)
		}
		if !key.v.Hashable() {
			return fail("unhashable key %s", key.v.Repr())
		}
		d.v.Pairs = value.DictSet(d.v.Pairs, key.v.Clone(), val.v.Clone())
	case bytecode.OpDeleteSubscr:
		key, d := f.pop(), f.pop()
		if d.v.Kind != value.KindDict {
			return fail("%s does not support item deletion", d.v.Kind)
		}
		var ok bool
		if d.v.Pairs, ok = value.DictDelete(d.v.Pairs, key.v); !ok {
			return fail("key %s not found", key.v.Repr())
		}

	case bytecode.OpPrint:
		line := ""
		if in.Arg == 1 {
			line = f.pop().String()
		}
		m.out = append(m.out, line)
	case bytecode.OpInput:
		if m.input >= len(m.opts.Input) {
			return fail("input exhausted")
		}
		f.push(wrap(value.Str(m.opts.Input[m.input])))
		m.input++
	case bytecode.OpImport:
		f.push(wrap(value.Str("<module " + m.u.Consts[in.Arg].Str + ">")))
	case bytecode.OpConvert:
		v, err := convert(in.Arg, f.pop().v)
		if err != nil {
			return fail("%v", err)
		}
		f.push(wrap(v))

	case bytecode.OpListAppend:
		elem, l := f.pop(), f.pop()
		if l.v.Kind != value.KindList {
			return fail("cannot append to %s", l.v.Kind)
		}
		l.v.Items = append(l.v.Items, elem.v.Clone())
	case bytecode.OpListPop:
		idx := int64(-1)
		if in.Arg == 1 {
			i, ok := f.pop().v.AsInt()
			if !ok {
				return fail("list index must be an integer")
			}
			idx = i
		}
		l := f.pop()
		if l.v.Kind != value.KindList {
			return fail("cannot pop from %s", l.v.Kind)
		}
		n := int64(len(l.v.Items))
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return fail("pop index out of range")
		}
		item := l.v.Items[idx]
		l.v.Items = slices.Delete(l.v.Items, int(idx), int(idx)+1)
		f.push(wrap(item))
	case bytecode.OpListRemove:
		elem, l := f.pop(), f.pop()
		if l.v.Kind != value.KindList {
			return fail("cannot remove from %s", l.v.Kind)
		}
		i := slices.IndexFunc(l.v.Items, func(x value.Value) bool { return value.Equal(x, elem.v) })
		if i < 0 {
			return fail("%s not in list", elem.v.Repr())
		}
		l.v.Items = slices.Delete(l.v.Items, i, i+1)
	case bytecode.OpListReverse:
		l := f.pop()
		if l.v.Kind != value.KindList {
			return fail("cannot reverse %s", l.v.Kind)
		}
		slices.Reverse(l.v.Items)
	case bytecode.OpLen:
		o := f.pop()
		n, ok := o.v.Len()
		if !ok {
			return fail("%s has no length", o.v.Kind)
		}
		f.push(wrap(value.Int(int64(n))))
	default:
		return fail("unknown opcode")
	}
	return nil, false, nil
}

// identical approximates object identity: containers by reference,
// scalars by kind and value.
func identical(a, b *object) bool {
	if a.sub != 0 || b.sub != 0 {
		return a.sub == b.sub
	}
	if a.v.IsMutable() || b.v.IsMutable() {
		return a == b
	}
	return a.v.Kind == b.v.Kind && value.Equal(a.v, b.v)
}
