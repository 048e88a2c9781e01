package runtime

import (
	"github.com/chazu/quark/vector"
)

// Operators exposed to compiled code. If either operand is a vector the
// operation runs on the vector engine; otherwise the scalar operator runs.
// Engine failures become a diagnostic plus Null.

// toScalar maps a non-container value onto an engine scalar.
func toScalar(v Value) (vector.Scalar, bool) {
	switch v.kind {
	case KindInt:
		return vector.IntScalar(v.i), true
	case KindFloat:
		return vector.FloatScalar(v.f), true
	case KindBool:
		return vector.BoolScalar(v.i != 0), true
	case KindString:
		return vector.StringScalar(v.s), true
	}
	return vector.Scalar{}, false
}

// fromScalar maps an engine scalar back onto a Value.
func fromScalar(s vector.Scalar) Value {
	switch s.Kind() {
	case vector.ScalarInt:
		return MakeInt(s.Int())
	case vector.ScalarFloat:
		return MakeFloat(s.Float())
	case vector.ScalarBool:
		return MakeBool(s.Bool())
	case vector.ScalarString:
		return MakeString(s.Str())
	}
	return MakeNull()
}

// operands converts a mixed pair for the engine. isVec is false when neither
// side is a vector. valid is false when the other side has no scalar form;
// that case has already been reported.
func (r *Runtime) operands(op string, a, b Value) (x, y vector.Operand, isVec, valid bool) {
	if a.kind != KindVector && b.kind != KindVector {
		return x, y, false, false
	}
	conv := func(v Value) (vector.Operand, bool) {
		if v.kind == KindVector {
			return vector.Vec(v.vec), true
		}
		s, ok := toScalar(v)
		if !ok {
			r.failf(op, "cannot combine vector with %s", v.TypeName())
			return vector.Operand{}, false
		}
		return vector.Lit(s), true
	}
	if x, valid = conv(a); !valid {
		return x, y, true, false
	}
	y, valid = conv(b)
	return x, y, true, valid
}

func (r *Runtime) vectorArith(op vector.ArithOp, a, b Value) (Value, bool) {
	x, y, isVec, valid := r.operands(op.String(), a, b)
	if !isVec {
		return Value{}, false
	}
	if !valid {
		return MakeNull(), true
	}
	out, err := vector.Arith(op, x, y)
	if err != nil {
		return r.fail(op.String(), err), true
	}
	return WrapVector(out), true
}

func (r *Runtime) vectorCompare(op vector.CmpOp, a, b Value) (Value, bool) {
	x, y, isVec, valid := r.operands(op.String(), a, b)
	if !isVec {
		return Value{}, false
	}
	if !valid {
		return MakeNull(), true
	}
	out, err := vector.Compare(op, x, y)
	if err != nil {
		return r.fail(op.String(), err), true
	}
	return WrapVector(out), true
}

// Add adds numbers, concatenates strings, and adds vectors elementwise.
func (r *Runtime) Add(a, b Value) Value {
	if v, ok := r.vectorArith(vector.OpAdd, a, b); ok {
		return v
	}
	return ScalarAdd(a, b)
}

func (r *Runtime) Sub(a, b Value) Value {
	if v, ok := r.vectorArith(vector.OpSub, a, b); ok {
		return v
	}
	return ScalarSub(a, b)
}

func (r *Runtime) Mul(a, b Value) Value {
	if v, ok := r.vectorArith(vector.OpMul, a, b); ok {
		return v
	}
	return ScalarMul(a, b)
}

// Div always yields floats. Scalar division by zero is Null; vector
// division by zero follows IEEE.
func (r *Runtime) Div(a, b Value) Value {
	if v, ok := r.vectorArith(vector.OpDiv, a, b); ok {
		return v
	}
	return ScalarDiv(a, b)
}

// Mod has no vector kernel.
func (r *Runtime) Mod(a, b Value) Value {
	if a.kind == KindVector || b.kind == KindVector {
		return r.failf("mod", "mod is not supported on vectors")
	}
	return ScalarMod(a, b)
}

// Pow has no vector kernel.
func (r *Runtime) Pow(a, b Value) Value {
	if a.kind == KindVector || b.kind == KindVector {
		return r.failf("pow", "pow is not supported on vectors")
	}
	return ScalarPow(a, b)
}

// Neg negates a number, or every element of a numeric vector.
func (r *Runtime) Neg(a Value) Value {
	if a.kind == KindVector {
		return r.Mul(a, MakeInt(-1))
	}
	return ScalarNeg(a)
}

func (r *Runtime) Lt(a, b Value) Value {
	if v, ok := r.vectorCompare(vector.CmpLt, a, b); ok {
		return v
	}
	return ScalarLt(a, b)
}

func (r *Runtime) Lte(a, b Value) Value {
	if v, ok := r.vectorCompare(vector.CmpLte, a, b); ok {
		return v
	}
	return ScalarLte(a, b)
}

func (r *Runtime) Gt(a, b Value) Value {
	if v, ok := r.vectorCompare(vector.CmpGt, a, b); ok {
		return v
	}
	return ScalarGt(a, b)
}

func (r *Runtime) Gte(a, b Value) Value {
	if v, ok := r.vectorCompare(vector.CmpGte, a, b); ok {
		return v
	}
	return ScalarGte(a, b)
}

func (r *Runtime) Eq(a, b Value) Value {
	if v, ok := r.vectorCompare(vector.CmpEq, a, b); ok {
		return v
	}
	return ScalarEq(a, b)
}

func (r *Runtime) Neq(a, b Value) Value {
	if v, ok := r.vectorCompare(vector.CmpNeq, a, b); ok {
		return v
	}
	return ScalarNeq(a, b)
}

// And, Or and Not look only at truthiness, vectors included.
func (r *Runtime) And(a, b Value) Value { return ScalarAnd(a, b) }
func (r *Runtime) Or(a, b Value) Value  { return ScalarOr(a, b) }
func (r *Runtime) Not(a Value) Value    { return ScalarNot(a) }

// ============================================================================
// Indexing
// ============================================================================

// Get reads container[index]:
//   - list or string with an int index (negative counts from the end)
//   - dict with any key (non-string keys are stringified)
//   - vector with an int index, or with a bool vector mask to filter
//
// Out of range and null elements are Null.
func (r *Runtime) Get(container, index Value) Value {
	switch container.kind {
	case KindList:
		if index.kind != KindInt {
			return r.failf("get", "list index must be int; got type '%s'", index.TypeName())
		}
		return r.ListGet(container, index.i)
	case KindString:
		if index.kind != KindInt {
			return r.failf("get", "string index must be int; got type '%s'", index.TypeName())
		}
		i, ok := normIndex(index.i, len(container.s))
		if !ok {
			return MakeNull()
		}
		return MakeString(container.s[i : i+1])
	case KindDict:
		return r.DGet(container, index)
	case KindVector:
		switch index.kind {
		case KindInt:
			s, ok, err := container.vec.Index(int(index.i))
			if err != nil {
				return r.fail("get", err)
			}
			if !ok {
				return MakeNull()
			}
			return fromScalar(s)
		case KindVector:
			out, err := container.vec.Filter(index.vec)
			if err != nil {
				return r.fail("get", err)
			}
			return WrapVector(out)
		}
		return r.failf("get", "vector index must be int or bool vector; got type '%s'", index.TypeName())
	}
	return r.failf("get", "cannot index value of type '%s'", container.TypeName())
}

// Set writes container[index] = val for lists and dicts and returns val.
func (r *Runtime) Set(container, index, val Value) Value {
	switch container.kind {
	case KindList:
		if index.kind != KindInt {
			return r.failf("set", "list index must be int; got type '%s'", index.TypeName())
		}
		return r.ListSet(container, index.i, val)
	case KindDict:
		r.DSet(container, index, val)
		return val
	}
	return r.failf("set", "cannot assign into value of type '%s'", container.TypeName())
}

// IterGet is the element access for-loops are lowered to. It never reports:
// anything that is not a list, string or vector yields Null.
func (r *Runtime) IterGet(iterable, index Value) Value {
	if index.kind != KindInt {
		return MakeNull()
	}
	switch iterable.kind {
	case KindList:
		i, ok := normIndex(index.i, len(iterable.list.Items))
		if !ok {
			return MakeNull()
		}
		return iterable.list.Items[i]
	case KindString:
		i, ok := normIndex(index.i, len(iterable.s))
		if !ok {
			return MakeNull()
		}
		return MakeString(iterable.s[i : i+1])
	case KindVector:
		s, ok, err := iterable.vec.Index(int(index.i))
		if err != nil || !ok {
			return MakeNull()
		}
		return fromScalar(s)
	}
	return MakeNull()
}
