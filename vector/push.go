package vector

import (
	"fmt"

	"github.com/chazu/quark/alloc"
)

// Push appends a scalar to an f64, i64 or bool vector after checking it
// against the dtype:
//   - f64 accepts Int and Float
//   - i64 accepts Int, Float (truncated) and Bool
//   - bool accepts Bool and Int (nonzero is true)
//
// str and cat vectors are built in bulk and reject Push. When the vector
// already carries a mask, a valid entry is appended to keep it in step.
func (v *Vector) Push(s Scalar) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	a := v.Allocator()
	switch st := v.storage.(type) {
	case *f64Storage:
		f, ok := s.AsFloat64()
		if !ok {
			return fmt.Errorf("push %s onto f64 vector: %w", s.Kind(), ErrDType)
		}
		st.data = alloc.AppendFloat64(a, st.data, f)
	case *i64Storage:
		var i int64
		switch s.Kind() {
		case ScalarInt, ScalarBool:
			i = s.Int()
		case ScalarFloat:
			i = int64(s.Float())
		default:
			return fmt.Errorf("push %s onto i64 vector: %w", s.Kind(), ErrDType)
		}
		st.data = alloc.AppendInt64(a, st.data, i)
	case *boolStorage:
		var b uint8
		switch s.Kind() {
		case ScalarBool, ScalarInt:
			if s.Int() != 0 {
				b = 1
			}
		default:
			return fmt.Errorf("push %s onto bool vector: %w", s.Kind(), ErrDType)
		}
		st.data = alloc.AppendBytes(a, st.data, b)
	default:
		return fmt.Errorf("push onto %s vector: %w", v.DType(), ErrUnsupported)
	}
	v.count++
	if len(v.nulls) != 0 {
		v.nulls = alloc.AppendBytes(a, v.nulls, 0)
	}
	return nil
}

// PushNull appends a null element to an f64, i64 or bool vector. The
// payload stored under the null is the dtype's zero value.
func (v *Vector) PushNull() error {
	var zero Scalar
	switch v.DType() {
	case F64:
		zero = FloatScalar(0)
	case I64:
		zero = IntScalar(0)
	case Bool:
		zero = BoolScalar(false)
	default:
		return fmt.Errorf("push null onto %s vector: %w", v.DType(), ErrUnsupported)
	}
	if err := v.Push(zero); err != nil {
		return err
	}
	return v.SetNull(v.count - 1)
}

// AddInPlace adds a numeric scalar to every element of an f64 or i64
// vector, mutating it. An i64 vector only accepts an Int scalar.
func (v *Vector) AddInPlace(s Scalar) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("add in place: %w", err)
	}
	switch st := v.storage.(type) {
	case *f64Storage:
		f, ok := s.AsFloat64()
		if !ok {
			return fmt.Errorf("add %s in place to f64 vector: %w", s.Kind(), ErrDType)
		}
		parallelFor(len(st.data), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				st.data[i] += f
			}
		})
	case *i64Storage:
		if s.Kind() != ScalarInt {
			return fmt.Errorf("add %s in place to i64 vector: %w", s.Kind(), ErrDType)
		}
		n := s.Int()
		parallelFor(len(st.data), func(lo, hi int) {
			for i := lo; i < hi; i++ {
				st.data[i] += n
			}
		})
	default:
		return fmt.Errorf("add in place to %s vector: %w", v.DType(), ErrUnsupported)
	}
	return nil
}
