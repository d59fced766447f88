package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"paxy/internal/bytecode"
	"paxy/internal/source"
)

// CheckStackDiscipline re-verifies a linked unit independently of the code
// generator: stack effects along every path, join depths, jump ranges and
// the declared frame sizes.
func CheckStackDiscipline(u *bytecode.Unit) error {
	if u == nil {
		return fmt.Errorf("nil unit")
	}
	if _, err := bytecode.Verify(u); err != nil {
		return fmt.Errorf("stack discipline: %w", err)
	}
	prevEnd := 0
	for _, f := range u.Frames() {
		if f.Entry != prevEnd {
			return fmt.Errorf("frame %s starts at %d, previous frame ends at %d", f.Name, f.Entry, prevEnd)
		}
		if f.Locals < f.Arity() {
			return fmt.Errorf("frame %s has %d locals for %d params", f.Name, f.Locals, f.Arity())
		}
		prevEnd = f.End
	}
	if prevEnd != len(u.Code) {
		return fmt.Errorf("frames cover %d of %d instructions", prevEnd, len(u.Code))
	}
	return nil
}

// CheckLines ensures every instruction carries a line inside the source file.
func CheckLines(u *bytecode.Unit, sf *source.File) error {
	if u == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	lines := sf.LineCount()
	for pc, in := range u.Code {
		ln, err := safecast.Conv[uint32](in.Line)
		if err != nil || ln == 0 || int(ln) > lines {
			return fmt.Errorf("instruction %d (%s) has line %d outside 1..%d", pc, in.Op, in.Line, lines)
		}
	}
	return nil
}
