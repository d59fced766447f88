package codegen

// fixup is a jump target inside one block. Jumps emitted before the
// target is placed are recorded in refs and patched by place.
type fixup struct {
	name   string
	target int // block-relative, -1 until placed
	depth  int // stack depth every path must arrive with, -1 until known
	refs   []int
	line   int // first referencing line
}

func newFixup(name string) *fixup {
	return &fixup{name: name, target: -1, depth: -1}
}

func (f *fixup) placed() bool { return f.target >= 0 }
