package emit_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"paxy/internal/bytecode"
	"paxy/internal/emit"
	"paxy/internal/value"
)

func sampleUnit() *bytecode.Unit {
	set, _ := value.FrozenSet(value.Int(1), value.Str("x"))
	consts := []value.Value{
		value.Int(-7),
		value.Float(2.5),
		value.Str("héllo"),
		value.None(),
		value.Bool(true),
		value.List(value.Int(1), value.List(value.Str("n"))),
		value.Tuple(value.Int(1)),
		value.Dict(value.Pair{Key: value.Str("k"), Val: value.Float(0.5)}),
		set,
		value.Str("math"),
	}
	code := []bytecode.Instruction{
		{Op: bytecode.OpLoadConst, Arg: 0, Line: 1},
		{Op: bytecode.OpStoreLocal, Arg: 0, Line: 1},
		{Op: bytecode.OpImport, Arg: 9, Line: 2},
		{Op: bytecode.OpStoreLocal, Arg: 1, Line: 2},
		{Op: bytecode.OpLoadSub, Arg: 0, Line: 3},
		{Op: bytecode.OpLoadLocal, Arg: 0, Line: 3},
		{Op: bytecode.OpCall, Arg: 1, Line: 3},
		{Op: bytecode.OpPrint, Arg: 1, Line: 3},
		{Op: bytecode.OpLoadConst, Arg: 3, Line: 3},
		{Op: bytecode.OpReturn, Line: 3},
		{Op: bytecode.OpLoadLocal, Arg: 0, Line: 4},
		{Op: bytecode.OpReturn, Line: 4},
	}
	return &bytecode.Unit{
		Source: "sample.px",
		Hash:   "abc123",
		Code:   code,
		Consts: consts,
		Main:   bytecode.Frame{Name: "main", Entry: 0, End: 10, Locals: 2, StackSize: 2, Slots: []string{"a", "math"}, Line: 1},
		Subs: []bytecode.Frame{
			{Name: "id", Params: []string{"x"}, Entry: 10, End: 12, Locals: 1, StackSize: 1, Slots: []string{"x"}, Line: 4},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	u := sampleUnit()
	want := bytecode.Disassemble(u)
	for _, f := range []emit.Format{emit.FormatMsgpack, emit.FormatCBOR, emit.FormatJSON} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := emit.Marshal(f, u)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, gotFormat, err := emit.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if gotFormat != f {
				t.Errorf("format = %v, want %v", gotFormat, f)
			}
			if listing := bytecode.Disassemble(got); listing != want {
				t.Errorf("listing changed after round trip:\n%s\nwant:\n%s", listing, want)
			}
			for i := range u.Consts {
				if !value.Equal(u.Consts[i], got.Consts[i]) {
					t.Errorf("const %d = %s, want %s", i, got.Consts[i].Repr(), u.Consts[i].Repr())
				}
			}
		})
	}
}

func TestDeterministicBytes(t *testing.T) {
	for _, f := range []emit.Format{emit.FormatMsgpack, emit.FormatCBOR, emit.FormatJSON, emit.FormatText} {
		a, err := emit.Marshal(f, sampleUnit())
		if err != nil {
			t.Fatal(err)
		}
		b, err := emit.Marshal(f, sampleUnit())
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s output differs between runs", f)
		}
	}
}

func TestHeader(t *testing.T) {
	data, err := emit.Marshal(emit.FormatMsgpack, sampleUnit())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte(emit.Magic)) {
		t.Fatalf("artifact does not start with magic: %q", data[:8])
	}

	bad := append([]byte("NOPE"), data[4:]...)
	if _, _, err := emit.Decode(bytes.NewReader(bad)); !errors.Is(err, emit.ErrBadMagic) {
		t.Errorf("bad magic: err = %v", err)
	}

	future := append([]byte(nil), data...)
	future[len(emit.Magic)+1] = 0xFF
	if _, _, err := emit.Decode(bytes.NewReader(future)); !errors.Is(err, emit.ErrSchema) {
		t.Errorf("schema mismatch: err = %v", err)
	}
}

func TestTextListing(t *testing.T) {
	data, err := emit.Marshal(emit.FormatText, sampleUnit())
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"; === sub id(x) ===", "IMPORT", "'math'", "CALL"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing lacks %q", want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]emit.Format{"": emit.FormatMsgpack, "CBOR": emit.FormatCBOR, "json": emit.FormatJSON, "asm": emit.FormatText}
	for in, want := range cases {
		got, err := emit.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := emit.ParseFormat("yaml"); err == nil {
		t.Errorf("yaml should be rejected")
	}
}
