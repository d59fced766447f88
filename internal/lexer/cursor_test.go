package lexer

import (
	"testing"

	"paxy/internal/source"
)

func TestCursorRespectsLimit(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("c.px", []byte("ab\ncd")))
	c := NewCursor(f)
	c.Limit = 2
	if c.Bump() != 'a' || c.PeekAt(1) != 0 || c.Bump() != 'b' {
		t.Fatal("unexpected bytes")
	}
	if !c.EOF() || c.Bump() != 0 || c.Rest() != nil {
		t.Fatal("cursor read past its limit")
	}
	m := c.Mark()
	c.Limit = 5
	c.Off = 3
	if !c.Eat('c') || c.Eat('x') {
		t.Fatal("Eat mismatch")
	}
	if sp := c.SpanFrom(m); sp.Start != 2 || sp.End != 4 {
		t.Fatalf("SpanFrom = %v", sp)
	}
	c.Reset(m)
	if c.Off != 2 {
		t.Fatalf("Reset left Off = %d", c.Off)
	}
}
