package value_test

import (
	"testing"

	"paxy/internal/value"
)

func TestEqualNumericCrossKind(t *testing.T) {
	if !value.Equal(value.Int(1), value.Float(1.0)) {
		t.Fatal("1 == 1.0")
	}
	if !value.Equal(value.Bool(true), value.Int(1)) {
		t.Fatal("True == 1")
	}
	if value.Equal(value.List(value.Int(1)), value.Tuple(value.Int(1))) {
		t.Fatal("list and tuple must differ")
	}
	if value.Int(1).Key() == value.Float(1).Key() || value.Int(1).Key() == value.Bool(true).Key() {
		t.Fatal("pool keys must be kind exact")
	}
}

func TestFrozenSetDedupAndHashability(t *testing.T) {
	fs, err := value.FrozenSet(value.Int(1), value.Float(1), value.Str("a"), value.Int(2), value.Str("a"))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs.Items) != 3 {
		t.Fatalf("items = %s", fs.Repr())
	}
	if fs.Items[0].Kind != value.KindInt {
		t.Fatal("first appearance must win")
	}
	if _, err := value.FrozenSet(value.List()); err == nil {
		t.Fatal("list element must be rejected")
	}
	if value.Tuple(value.Int(1), value.List()).Hashable() {
		t.Fatal("tuple holding a list is unhashable")
	}
}

func TestDictLaterKeyWins(t *testing.T) {
	d := value.Dict(
		value.Pair{Key: value.Str("a"), Val: value.Int(1)},
		value.Pair{Key: value.Str("b"), Val: value.Int(2)},
		value.Pair{Key: value.Str("a"), Val: value.Int(3)},
	)
	if got := d.Repr(); got != "{'a': 3, 'b': 2}" {
		t.Fatalf("Repr = %s", got)
	}
	pairs, ok := value.DictDelete(d.Pairs, value.Str("a"))
	if !ok || len(pairs) != 1 {
		t.Fatalf("delete failed: %v", pairs)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := value.List(value.List(value.Int(1)))
	cp := orig.Clone()
	cp.Items[0].Items[0] = value.Int(9)
	if orig.Items[0].Items[0].Int != 1 {
		t.Fatal("clone shares storage")
	}
}

func TestRepr(t *testing.T) {
	fs, _ := value.FrozenSet(value.Int(1), value.Int(2))
	cases := map[string]value.Value{
		"None":              value.None(),
		"True":              value.Bool(true),
		"-3":                value.Int(-3),
		"2.0":               value.Float(2),
		"1e+20":             value.Float(1e20),
		"'it'":              value.Str("it"),
		`"it's"`:            value.Str("it's"),
		"[1, 'x']":          value.List(value.Int(1), value.Str("x")),
		"(1,)":              value.Tuple(value.Int(1)),
		"frozenset({1, 2})": fs,
		"{'k': [None]}":     value.Dict(value.Pair{Key: value.Str("k"), Val: value.List(value.None())}),
	}
	for want, v := range cases {
		if got := v.Repr(); got != want {
			t.Errorf("Repr = %s, want %s", got, want)
		}
	}
	if value.Str("plain").String() != "plain" {
		t.Fatal("String must not quote top-level strings")
	}
}
