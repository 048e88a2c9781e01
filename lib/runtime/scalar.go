package runtime

import (
	"math"
	"strings"
)

// Scalar operators work on non-vector operands. Type-guard and domain
// failures (non-numeric operands, division or modulo by zero) yield Null
// without a diagnostic; Null then propagates through later operators.

func bothInt(a, b Value) bool {
	return a.kind == KindInt && b.kind == KindInt
}

func bothNumeric(a, b Value) bool {
	return a.IsNumeric() && b.IsNumeric()
}

// ScalarAdd adds numbers and concatenates two strings.
func ScalarAdd(a, b Value) Value {
	if a.kind == KindString && b.kind == KindString {
		return MakeString(a.s + b.s)
	}
	if !bothNumeric(a, b) {
		return MakeNull()
	}
	if bothInt(a, b) {
		return MakeInt(a.i + b.i)
	}
	return MakeFloat(a.AsFloat() + b.AsFloat())
}

func ScalarSub(a, b Value) Value {
	if !bothNumeric(a, b) {
		return MakeNull()
	}
	if bothInt(a, b) {
		return MakeInt(a.i - b.i)
	}
	return MakeFloat(a.AsFloat() - b.AsFloat())
}

func ScalarMul(a, b Value) Value {
	if !bothNumeric(a, b) {
		return MakeNull()
	}
	if bothInt(a, b) {
		return MakeInt(a.i * b.i)
	}
	return MakeFloat(a.AsFloat() * b.AsFloat())
}

// ScalarDiv always returns a Float. Division by zero is Null.
func ScalarDiv(a, b Value) Value {
	if !bothNumeric(a, b) {
		return MakeNull()
	}
	d := b.AsFloat()
	if d == 0 {
		return MakeNull()
	}
	return MakeFloat(a.AsFloat() / d)
}

// ScalarMod is defined for two Ints only; the sign follows the dividend.
func ScalarMod(a, b Value) Value {
	if !bothInt(a, b) || b.i == 0 {
		return MakeNull()
	}
	return MakeInt(a.i % b.i)
}

// ScalarPow computes in float64. Two Int operands give an Int, truncated
// toward zero, unless the result overflows int64 or is not finite, in which
// case the Float is returned.
func ScalarPow(a, b Value) Value {
	if !bothNumeric(a, b) {
		return MakeNull()
	}
	r := math.Pow(a.AsFloat(), b.AsFloat())
	if !bothInt(a, b) {
		return MakeFloat(r)
	}
	if math.IsNaN(r) || r < -(1<<63) || r >= 1<<63 {
		return MakeFloat(r)
	}
	return MakeInt(int64(r))
}

func ScalarNeg(a Value) Value {
	switch a.kind {
	case KindInt:
		return MakeInt(-a.i)
	case KindFloat:
		return MakeFloat(-a.f)
	}
	return MakeNull()
}

// ordered compares two numbers, or two strings bytewise. ok is false for
// any other combination.
func ordered(a, b Value) (c int, ok bool) {
	switch {
	case bothInt(a, b):
		switch {
		case a.i < b.i:
			return -1, true
		case a.i > b.i:
			return 1, true
		}
		return 0, true
	case bothNumeric(a, b):
		x, y := a.AsFloat(), b.AsFloat()
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		case x == y:
			return 0, true
		}
		// NaN is unordered: every ordered comparison is false.
		return 2, true
	case a.kind == KindString && b.kind == KindString:
		return strings.Compare(a.s, b.s), true
	}
	return 0, false
}

func ScalarLt(a, b Value) Value {
	c, ok := ordered(a, b)
	if !ok {
		return MakeNull()
	}
	return MakeBool(c == -1)
}

func ScalarLte(a, b Value) Value {
	c, ok := ordered(a, b)
	if !ok {
		return MakeNull()
	}
	return MakeBool(c == -1 || c == 0)
}

func ScalarGt(a, b Value) Value {
	c, ok := ordered(a, b)
	if !ok {
		return MakeNull()
	}
	return MakeBool(c == 1)
}

func ScalarGte(a, b Value) Value {
	c, ok := ordered(a, b)
	if !ok {
		return MakeNull()
	}
	return MakeBool(c == 1 || c == 0)
}

// ScalarEq is type sensitive: different kinds are unequal unless both are
// numeric. Null equals Null. Containers, functions, results and vectors
// never compare equal here.
func ScalarEq(a, b Value) Value {
	return MakeBool(scalarEqual(a, b))
}

func ScalarNeq(a, b Value) Value {
	return MakeBool(!scalarEqual(a, b))
}

func scalarEqual(a, b Value) bool {
	if a.kind != b.kind {
		if bothNumeric(a, b) {
			return a.AsFloat() == b.AsFloat()
		}
		return false
	}
	switch a.kind {
	case KindInt, KindBool:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindNull:
		return true
	}
	return false
}

// Logical operators use Truthy and always return a Bool.

func ScalarAnd(a, b Value) Value { return MakeBool(a.Truthy() && b.Truthy()) }
func ScalarOr(a, b Value) Value  { return MakeBool(a.Truthy() || b.Truthy()) }
func ScalarNot(a Value) Value    { return MakeBool(!a.Truthy()) }
