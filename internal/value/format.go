package value

import (
	"math"
	"strconv"
	"strings"
)

// String renders the value the way PRINT shows it: strings unquoted at the
// top level, containers with their elements in Repr form.
func (v Value) String() string {
	if v.Kind == KindStr {
		return v.Str
	}
	return v.Repr()
}

// Repr renders the value in source-like form.
func (v Value) Repr() string {
	var sb strings.Builder
	writeRepr(&sb, v)
	return sb.String()
}

func writeRepr(sb *strings.Builder, v Value) {
	switch v.Kind {
	case KindNone:
		sb.WriteString("None")
	case KindBool:
		if v.Bool {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.Int, 10))
	case KindFloat:
		sb.WriteString(FormatFloat(v.Float))
	case KindStr:
		sb.WriteString(quote(v.Str))
	case KindList:
		writeSeq(sb, "[", "]", v.Items)
	case KindTuple:
		if len(v.Items) == 1 {
			sb.WriteByte('(')
			writeRepr(sb, v.Items[0])
			sb.WriteString(",)")
			return
		}
		writeSeq(sb, "(", ")", v.Items)
	case KindFrozenSet:
		if len(v.Items) == 0 {
			sb.WriteString("frozenset()")
			return
		}
		writeSeq(sb, "frozenset({", "})", v.Items)
	case KindDict:
		sb.WriteByte('{')
		for i, p := range v.Pairs {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeRepr(sb, p.Key)
			sb.WriteString(": ")
			writeRepr(sb, p.Val)
		}
		sb.WriteByte('}')
	}
}

func writeSeq(sb *strings.Builder, open, close string, items []Value) {
	sb.WriteString(open)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeRepr(sb, it)
	}
	sb.WriteString(close)
}

// FormatFloat prints a float with at least one fractional digit.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// quote prefers single quotes unless the text contains one and no double quote.
func quote(s string) string {
	q := strconv.Quote(s)
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return q
	}
	body := q[1 : len(q)-1]
	body = strings.ReplaceAll(body, `\"`, `"`)
	body = strings.ReplaceAll(body, `'`, `\'`)
	return "'" + body + "'"
}
