// Package value models the compile-time constants of a paxy program:
// literal scalars and the containers the compiler folds into the
// constant pool.
package value

import (
	"fmt"
	"math"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindList
	KindTuple
	KindDict
	KindFrozenSet
)

var kindNames = [...]string{
	KindNone:      "none",
	KindBool:      "bool",
	KindInt:       "int",
	KindFloat:     "float",
	KindStr:       "str",
	KindList:      "list",
	KindTuple:     "tuple",
	KindDict:      "dict",
	KindFrozenSet: "frozenset",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is an immutable-by-convention constant. Only the field matching Kind
// is meaningful. Dict preserves insertion order; FrozenSet keeps first
// appearance order with duplicates removed.
type Value struct {
	Kind  Kind    `msgpack:"k" cbor:"1,keyasint" json:"kind"`
	Bool  bool    `msgpack:"b,omitempty" cbor:"2,keyasint,omitempty" json:"bool,omitempty"`
	Int   int64   `msgpack:"i,omitempty" cbor:"3,keyasint,omitempty" json:"int,omitempty"`
	Float float64 `msgpack:"f,omitempty" cbor:"4,keyasint,omitempty" json:"float,omitempty"`
	Str   string  `msgpack:"s,omitempty" cbor:"5,keyasint,omitempty" json:"str,omitempty"`
	Items []Value `msgpack:"e,omitempty" cbor:"6,keyasint,omitempty" json:"items,omitempty"`
	Pairs []Pair  `msgpack:"p,omitempty" cbor:"7,keyasint,omitempty" json:"pairs,omitempty"`
}

// Pair is one dict entry.
type Pair struct {
	Key Value `msgpack:"k" cbor:"1,keyasint" json:"key"`
	Val Value `msgpack:"v" cbor:"2,keyasint" json:"val"`
}

func None() Value               { return Value{Kind: KindNone} }
func Bool(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func Int(i int64) Value         { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value     { return Value{Kind: KindFloat, Float: f} }
func Str(s string) Value        { return Value{Kind: KindStr, Str: s} }
func List(items ...Value) Value { return Value{Kind: KindList, Items: nonNil(items)} }

func Tuple(items ...Value) Value { return Value{Kind: KindTuple, Items: nonNil(items)} }

// Dict builds a dict from pairs in order; a later duplicate key replaces the
// earlier value but keeps the earlier position.
func Dict(pairs ...Pair) Value {
	out := Value{Kind: KindDict, Pairs: make([]Pair, 0, len(pairs))}
	for _, p := range pairs {
		out.Pairs = DictSet(out.Pairs, p.Key, p.Val)
	}
	return out
}

// FrozenSet builds a set, dropping elements equal to an earlier one.
// It fails when an element is unhashable.
func FrozenSet(items ...Value) (Value, error) {
	out := Value{Kind: KindFrozenSet, Items: make([]Value, 0, len(items))}
	for _, it := range items {
		if !it.Hashable() {
			return Value{}, fmt.Errorf("unhashable type: %s", it.Kind)
		}
		if indexOf(out.Items, it) < 0 {
			out.Items = append(out.Items, it)
		}
	}
	return out, nil
}

// DictSet inserts or replaces key in pairs.
func DictSet(pairs []Pair, key, val Value) []Pair {
	for i := range pairs {
		if Equal(pairs[i].Key, key) {
			pairs[i].Val = val
			return pairs
		}
	}
	return append(pairs, Pair{Key: key, Val: val})
}

// DictGet returns the value stored under key.
func DictGet(pairs []Pair, key Value) (Value, bool) {
	for _, p := range pairs {
		if Equal(p.Key, key) {
			return p.Val, true
		}
	}
	return Value{}, false
}

// DictDelete removes key, reporting whether it was present.
func DictDelete(pairs []Pair, key Value) ([]Pair, bool) {
	for i := range pairs {
		if Equal(pairs[i].Key, key) {
			return append(pairs[:i:i], pairs[i+1:]...), true
		}
	}
	return pairs, false
}

// IsMutable reports whether the value is a list or dict.
func (v Value) IsMutable() bool {
	return v.Kind == KindList || v.Kind == KindDict
}

// IsNumeric reports bool, int or float.
func (v Value) IsNumeric() bool {
	return v.Kind == KindBool || v.Kind == KindInt || v.Kind == KindFloat
}

// Hashable reports whether the value can be a set element or dict key.
func (v Value) Hashable() bool {
	switch v.Kind {
	case KindList, KindDict:
		return false
	case KindTuple:
		for _, it := range v.Items {
			if !it.Hashable() {
				return false
			}
		}
	}
	return true
}

// Truthy follows the usual rules: zero, empty and None are false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNone:
		return false
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindStr:
		return v.Str != ""
	case KindDict:
		return len(v.Pairs) > 0
	default:
		return len(v.Items) > 0
	}
}

// Len returns the element count of a string or container.
func (v Value) Len() (int, bool) {
	switch v.Kind {
	case KindStr:
		return len([]rune(v.Str)), true
	case KindList, KindTuple, KindFrozenSet:
		return len(v.Items), true
	case KindDict:
		return len(v.Pairs), true
	}
	return 0, false
}

// Clone deep-copies containers so mutation of the copy never reaches v.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindList, KindTuple, KindFrozenSet:
		items := make([]Value, len(v.Items))
		for i, it := range v.Items {
			items[i] = it.Clone()
		}
		v.Items = items
	case KindDict:
		pairs := make([]Pair, len(v.Pairs))
		for i, p := range v.Pairs {
			pairs[i] = Pair{Key: p.Key.Clone(), Val: p.Val.Clone()}
		}
		v.Pairs = pairs
	}
	return v
}

// AsFloat converts a numeric value.
func (v Value) AsFloat() float64 {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	}
	return math.NaN()
}

// AsInt converts bool or int.
func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	case KindInt:
		return v.Int, true
	}
	return 0, false
}

func nonNil(items []Value) []Value {
	if items == nil {
		return []Value{}
	}
	return items
}

func indexOf(items []Value, v Value) int {
	for i := range items {
		if Equal(items[i], v) {
			return i
		}
	}
	return -1
}
