package value

import (
	"math"
	"strconv"
	"strings"
)

// Equal implements value equality: numbers compare across bool, int and
// float; lists and tuples never equal each other; dicts and sets ignore order.
func Equal(a, b Value) bool {
	if a.IsNumeric() && b.IsNumeric() {
		if a.Kind == KindFloat || b.Kind == KindFloat {
			return a.AsFloat() == b.AsFloat()
		}
		ai, _ := a.AsInt()
		bi, _ := b.AsInt()
		return ai == bi
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindStr:
		return a.Str == b.Str
	case KindList, KindTuple:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KindFrozenSet:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for _, it := range a.Items {
			if indexOf(b.Items, it) < 0 {
				return false
			}
		}
		return true
	case KindDict:
		if len(a.Pairs) != len(b.Pairs) {
			return false
		}
		for _, p := range a.Pairs {
			other, ok := DictGet(b.Pairs, p.Key)
			if !ok || !Equal(p.Val, other) {
				return false
			}
		}
		return true
	}
	return false
}

// Key returns an exact, kind-tagged identity used for constant pool
// deduplication. Unlike Equal, 1, 1.0 and True have distinct keys.
func (v Value) Key() string {
	var sb strings.Builder
	writeKey(&sb, v)
	return sb.String()
}

func writeKey(sb *strings.Builder, v Value) {
	switch v.Kind {
	case KindNone:
		sb.WriteString("N")
	case KindBool:
		if v.Bool {
			sb.WriteString("T")
		} else {
			sb.WriteString("F")
		}
	case KindInt:
		sb.WriteString("i")
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		sb.WriteString("f")
		sb.WriteString(strconv.FormatUint(math.Float64bits(v.Float), 16))
	case KindStr:
		sb.WriteString("s")
		sb.WriteString(strconv.Quote(v.Str))
	case KindList, KindTuple, KindFrozenSet:
		sb.WriteString(v.Kind.String()[:1])
		sb.WriteByte('(')
		for i, it := range v.Items {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeKey(sb, it)
		}
		sb.WriteByte(')')
	case KindDict:
		sb.WriteString("d(")
		for i, p := range v.Pairs {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeKey(sb, p.Key)
			sb.WriteByte(':')
			writeKey(sb, p.Val)
		}
		sb.WriteByte(')')
	}
}
