package testkit

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"paxy/internal/bytecode"
	"paxy/internal/token"
	"paxy/internal/value"
)

func binary(arg int, l, r value.Value) (value.Value, error) {
	op := token.BinaryOpFromArg(arg)
	switch {
	case op == token.OpAdd && l.Kind == value.KindStr && r.Kind == value.KindStr:
		return value.Str(l.Str + r.Str), nil
	case op == token.OpAdd && l.Kind == value.KindList && r.Kind == value.KindList:
		return value.List(append(append([]value.Value{}, l.Items...), r.Items...)...), nil
	case op == token.OpMul && l.Kind == value.KindStr:
		if n, ok := r.AsInt(); ok {
			return value.Str(strings.Repeat(l.Str, int(max(n, 0)))), nil
		}
	}
	if !l.IsNumeric() || !r.IsNumeric() {
		return value.Value{}, fmt.Errorf("unsupported operand types for %s: %s and %s", op, l.Kind, r.Kind)
	}
	li, lok := l.AsInt()
	ri, rok := r.AsInt()
	if lok && rok {
		return intOp(op, li, ri)
	}
	return floatOp(op, l.AsFloat(), r.AsFloat())
}

func intOp(op token.Op, a, b int64) (value.Value, error) {
	switch op {
	case token.OpAdd:
		return value.Int(a + b), nil
	case token.OpSub:
		return value.Int(a - b), nil
	case token.OpMul:
		return value.Int(a * b), nil
	case token.OpDiv:
		if b == 0 {
			return value.Value{}, fmt.Errorf("division by zero")
		}
		return value.Float(float64(a) / float64(b)), nil
	case token.OpFloorDiv, token.OpMod:
		if b == 0 {
			return value.Value{}, fmt.Errorf("integer division or modulo by zero")
		}
		q, m := a/b, a%b
		if m != 0 && (m < 0) != (b < 0) {
			q--
			m += b
		}
		if op == token.OpMod {
			return value.Int(m), nil
		}
		return value.Int(q), nil
	case token.OpPow:
		if b < 0 {
			return value.Float(math.Pow(float64(a), float64(b))), nil
		}
		out := int64(1)
		for range b {
			out *= a
		}
		return value.Int(out), nil
	case token.OpShl:
		if b < 0 {
			return value.Value{}, fmt.Errorf("negative shift count")
		}
		return value.Int(a << b), nil
	case token.OpShr:
		if b < 0 {
			return value.Value{}, fmt.Errorf("negative shift count")
		}
		return value.Int(a >> b), nil
	case token.OpOr:
		return value.Int(a | b), nil
	case token.OpAnd:
		return value.Int(a & b), nil
	case token.OpXor:
		return value.Int(a ^ b), nil
	}
	return value.Value{}, fmt.Errorf("bad binary operator %d", op)
}

func floatOp(op token.Op, a, b float64) (value.Value, error) {
	switch op {
	case token.OpAdd:
		return value.Float(a + b), nil
	case token.OpSub:
		return value.Float(a - b), nil
	case token.OpMul:
		return value.Float(a * b), nil
	case token.OpDiv, token.OpFloorDiv, token.OpMod:
		if b == 0 {
			return value.Value{}, fmt.Errorf("float division by zero")
		}
		switch op {
		case token.OpDiv:
			return value.Float(a / b), nil
		case token.OpFloorDiv:
			return value.Float(math.Floor(a / b)), nil
		}
		return value.Float(a - math.Floor(a/b)*b), nil
	case token.OpPow:
		return value.Float(math.Pow(a, b)), nil
	}
	return value.Value{}, fmt.Errorf("unsupported operand type float for %s", op)
}

func compare(arg int, l, r value.Value) (bool, error) {
	op := token.CompareOpFromArg(arg)
	switch op {
	case token.OpEq:
		return value.Equal(l, r), nil
	case token.OpNe:
		return !value.Equal(l, r), nil
	}
	var c int
	switch {
	case l.IsNumeric() && r.IsNumeric():
		a, b := l.AsFloat(), r.AsFloat()
		li, lok := l.AsInt()
		ri, rok := r.AsInt()
		switch {
		case lok && rok:
			c = cmpInt(li, ri)
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	case l.Kind == value.KindStr && r.Kind == value.KindStr:
		c = strings.Compare(l.Str, r.Str)
	default:
		return false, fmt.Errorf("%s not supported between %s and %s", op, l.Kind, r.Kind)
	}
	switch op {
	case token.OpLt:
		return c < 0, nil
	case token.OpLe:
		return c <= 0, nil
	case token.OpGt:
		return c > 0, nil
	case token.OpGe:
		return c >= 0, nil
	}
	return false, fmt.Errorf("bad comparison %d", arg)
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func contains(hay, needle value.Value) (bool, error) {
	switch hay.Kind {
	case value.KindStr:
		if needle.Kind != value.KindStr {
			return false, fmt.Errorf("'in <string>' requires string as left operand")
		}
		return strings.Contains(hay.Str, needle.Str), nil
	case value.KindList, value.KindTuple, value.KindFrozenSet:
		for _, it := range hay.Items {
			if value.Equal(it, needle) {
				return true, nil
			}
		}
		return false, nil
	case value.KindDict:
		_, ok := value.DictGet(hay.Pairs, needle)
		return ok, nil
	}
	return false, fmt.Errorf("argument of type %s is not iterable", hay.Kind)
}

func convert(kind int, v value.Value) (value.Value, error) {
	switch kind {
	case bytecode.ConvertStr:
		return value.Str(v.String()), nil
	case bytecode.ConvertFloat:
		switch {
		case v.IsNumeric():
			return value.Float(v.AsFloat()), nil
		case v.Kind == value.KindStr:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
			if err != nil {
				return value.Value{}, fmt.Errorf("could not convert %q to float", v.Str)
			}
			return value.Float(f), nil
		}
	case bytecode.ConvertInt:
		switch {
		case v.Kind == value.KindFloat:
			return value.Int(int64(math.Trunc(v.Float))), nil
		case v.IsNumeric():
			i, _ := v.AsInt()
			return value.Int(i), nil
		case v.Kind == value.KindStr:
			i, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
			if err != nil {
				return value.Value{}, fmt.Errorf("invalid literal for int(): %q", v.Str)
			}
			return value.Int(i), nil
		}
	}
	return value.Value{}, fmt.Errorf("cannot convert %s", v.Kind)
}
