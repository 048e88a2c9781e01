package vector

import (
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/chazu/quark/alloc"
)

// ArithOp is an elementwise arithmetic kernel.
type ArithOp uint8

const (
	OpAdd ArithOp = iota + 1
	OpSub
	OpMul
	OpDiv
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	}
	return "arith?"
}

// CmpOp is an elementwise comparison kernel.
type CmpOp uint8

const (
	CmpLt CmpOp = iota + 1
	CmpLte
	CmpGt
	CmpGte
	CmpEq
	CmpNeq
)

func (op CmpOp) String() string {
	switch op {
	case CmpLt:
		return "lt"
	case CmpLte:
		return "lte"
	case CmpGt:
		return "gt"
	case CmpGte:
		return "gte"
	case CmpEq:
		return "eq"
	case CmpNeq:
		return "neq"
	}
	return "cmp?"
}

func (op CmpOp) equality() bool { return op == CmpEq || op == CmpNeq }

// Operand is one side of a kernel: a vector or a scalar.
type Operand struct {
	vec    *Vector
	scalar Scalar
}

// Vec wraps a vector operand.
func Vec(v *Vector) Operand { return Operand{vec: v} }

// Lit wraps a scalar operand.
func Lit(s Scalar) Operand { return Operand{scalar: s} }

func (o Operand) IsVector() bool { return o.vec != nil }

func (o Operand) dtype() DType {
	if o.vec == nil {
		return 0
	}
	return o.vec.DType()
}

func (o Operand) String() string {
	if o.vec != nil {
		return "vector[" + o.vec.DType().String() + "]"
	}
	return o.scalar.Kind().String()
}

// Add, Sub, Mul and Div are shorthands for Arith.
func Add(a, b Operand) (*Vector, error) { return Arith(OpAdd, a, b) }
func Sub(a, b Operand) (*Vector, error) { return Arith(OpSub, a, b) }
func Mul(a, b Operand) (*Vector, error) { return Arith(OpMul, a, b) }
func Div(a, b Operand) (*Vector, error) { return Arith(OpDiv, a, b) }

// Arith applies an arithmetic kernel to vector-vector, vector-scalar or
// scalar-vector operands. When an i64 vector meets another integral operand
// (i64 or bool vector, Int scalar), add/sub/mul stay in i64; everything else,
// including every division, is computed in f64. An element is null in the
// result when it is null in either input; its payload is not meaningful.
func Arith(op ArithOp, a, b Operand) (*Vector, error) {
	n, base, err := prepare(op.String(), a, b)
	if err != nil {
		return nil, err
	}
	al := base.Allocator()
	out := &Vector{count: n, alloc: al}
	out.nulls = mergeMasks(al, n, a.vec, b.vec)

	if op != OpDiv && (a.dtype() == I64 || b.dtype() == I64) {
		av, aok := intView(al, a, true)
		bv, bok := intView(al, b, true)
		if aok && bok {
			buf := al.Int64s(n, n)
			arith(op, buf, av, bv)
			out.storage = &i64Storage{data: buf}
			return out, nil
		}
	}

	av, aok := floatView(al, a)
	bv, bok := floatView(al, b)
	if !aok || !bok {
		return nil, fmt.Errorf("%s %s and %s: %w", op, a, b, ErrDType)
	}
	buf := al.Float64s(n, n)
	arith(op, buf, av, bv)
	out.storage = &f64Storage{data: buf}
	return out, nil
}

// Compare applies a comparison kernel and returns a bool vector. Numeric
// operands compare in i64 when both are integral and in f64 otherwise.
// Equality and inequality also accept bool operands against bool operands
// and str/cat operands against str/cat/String operands, comparing strings
// by value. Nulls propagate as in Arith.
func Compare(op CmpOp, a, b Operand) (*Vector, error) {
	n, base, err := prepare(op.String(), a, b)
	if err != nil {
		return nil, err
	}
	al := base.Allocator()
	out := &Vector{count: n, alloc: al}
	out.nulls = mergeMasks(al, n, a.vec, b.vec)
	buf := al.Bytes(n, n)
	out.storage = &boolStorage{data: buf}

	ca, cb := classify(a), classify(b)
	switch {
	case ca == classNumeric && cb == classNumeric:
		if isIntegral(a) && isIntegral(b) {
			av, _ := intView(al, a, false)
			bv, _ := intView(al, b, false)
			compare(op, buf, av, bv)
			return out, nil
		}
		av, _ := floatView(al, a)
		bv, _ := floatView(al, b)
		compare(op, buf, av, bv)
		return out, nil
	case ca == classBool && cb == classBool && op.equality():
		av, _ := intView(al, a, true)
		bv, _ := intView(al, b, true)
		compare(op, buf, av, bv)
		return out, nil
	case ca == classString && cb == classString && op.equality():
		if err := compareStrings(op, out, a, b); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s %s and %s: %w", op, a, b, ErrDType)
}

func prepare(op string, a, b Operand) (int, *Vector, error) {
	if a.vec == nil && b.vec == nil {
		return 0, nil, fmt.Errorf("%s of two scalars: %w", op, ErrUnsupported)
	}
	if err := validate(op, a.vec, b.vec); err != nil {
		return 0, nil, err
	}
	if a.vec != nil && b.vec != nil && a.vec.count != b.vec.count {
		return 0, nil, fmt.Errorf("%s: lengths %d and %d: %w", op, a.vec.count, b.vec.count, ErrLengthMismatch)
	}
	base := a.vec
	if base == nil {
		base = b.vec
	}
	return base.count, base, nil
}

type operandClass uint8

const (
	classOther operandClass = iota
	classNumeric
	classBool
	classString
)

func classify(o Operand) operandClass {
	if o.vec != nil {
		switch o.vec.DType() {
		case F64, I64:
			return classNumeric
		case Bool:
			return classBool
		case Str, Cat:
			return classString
		}
		return classOther
	}
	switch o.scalar.Kind() {
	case ScalarInt, ScalarFloat:
		return classNumeric
	case ScalarBool:
		return classBool
	case ScalarString:
		return classString
	}
	return classOther
}

func isIntegral(o Operand) bool {
	if o.vec != nil {
		return o.vec.DType() == I64
	}
	return o.scalar.Kind() == ScalarInt
}

type number interface {
	constraints.Integer | constraints.Float
}

// view broadcasts a scalar or indexes a buffer.
type view[T number] struct {
	data   []T
	scalar T
	isVec  bool
}

func (v view[T]) at(i int) T {
	if v.isVec {
		return v.data[i]
	}
	return v.scalar
}

func intView(al alloc.Allocator, o Operand, allowBool bool) (view[int64], bool) {
	if o.vec == nil {
		switch o.scalar.Kind() {
		case ScalarInt:
			return view[int64]{scalar: o.scalar.Int()}, true
		case ScalarBool:
			if allowBool {
				return view[int64]{scalar: o.scalar.Int()}, true
			}
		}
		return view[int64]{}, false
	}
	switch st := o.vec.storage.(type) {
	case *i64Storage:
		return view[int64]{data: st.data, isVec: true}, true
	case *boolStorage:
		if !allowBool {
			return view[int64]{}, false
		}
		buf := al.Int64s(len(st.data), len(st.data))
		for i, b := range st.data {
			buf[i] = int64(b)
		}
		return view[int64]{data: buf, isVec: true}, true
	}
	return view[int64]{}, false
}

func floatView(al alloc.Allocator, o Operand) (view[float64], bool) {
	if o.vec == nil {
		f, ok := o.scalar.AsFloat64()
		return view[float64]{scalar: f}, ok
	}
	switch st := o.vec.storage.(type) {
	case *f64Storage:
		return view[float64]{data: st.data, isVec: true}, true
	case *i64Storage:
		buf := al.Float64s(len(st.data), len(st.data))
		for i, x := range st.data {
			buf[i] = float64(x)
		}
		return view[float64]{data: buf, isVec: true}, true
	case *boolStorage:
		buf := al.Float64s(len(st.data), len(st.data))
		for i, x := range st.data {
			buf[i] = float64(x)
		}
		return view[float64]{data: buf, isVec: true}, true
	}
	return view[float64]{}, false
}

func arith[T number](op ArithOp, out []T, a, b view[T]) {
	var f func(x, y T) T
	switch op {
	case OpAdd:
		f = func(x, y T) T { return x + y }
	case OpSub:
		f = func(x, y T) T { return x - y }
	case OpMul:
		f = func(x, y T) T { return x * y }
	case OpDiv:
		f = func(x, y T) T { return x / y }
	}
	parallelFor(len(out), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = f(a.at(i), b.at(i))
		}
	})
}

func compare[T number](op CmpOp, out []uint8, a, b view[T]) {
	var f func(x, y T) bool
	switch op {
	case CmpLt:
		f = func(x, y T) bool { return x < y }
	case CmpLte:
		f = func(x, y T) bool { return x <= y }
	case CmpGt:
		f = func(x, y T) bool { return x > y }
	case CmpGte:
		f = func(x, y T) bool { return x >= y }
	case CmpEq:
		f = func(x, y T) bool { return x == y }
	case CmpNeq:
		f = func(x, y T) bool { return x != y }
	}
	parallelFor(len(out), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if f(a.at(i), b.at(i)) {
				out[i] = 1
			}
		}
	})
}

// compareStrings decodes both sides element by element. A cat null code
// without a mask bit still yields a null result element.
func compareStrings(op CmpOp, out *Vector, a, b Operand) error {
	buf := out.storage.(*boolStorage).data
	side := func(o Operand, i int) (string, bool, error) {
		if o.vec == nil {
			return o.scalar.Str(), true, nil
		}
		return o.vec.stringAt(i)
	}
	for i := 0; i < out.count; i++ {
		x, xok, err := side(a, i)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		y, yok, err := side(b, i)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !xok || !yok {
			if len(out.nulls) == 0 {
				out.nulls = out.alloc.Bytes(out.count, out.count)
			}
			out.nulls[i] = 1
			continue
		}
		if (x == y) == (op == CmpEq) {
			buf[i] = 1
		}
	}
	return nil
}
