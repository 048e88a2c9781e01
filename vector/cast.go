package vector

import (
	"fmt"

	"github.com/chazu/quark/alloc"
)

// AsType converts between f64, i64 and bool, returning a new vector with the
// same length and a verbatim copy of the mask. bool maps to 1/0; any nonzero
// number maps to true; f64 to i64 truncates toward zero. Casting to or from
// str and cat is not supported here: use ToCategorical/FromCategorical.
func (v *Vector) AsType(target DType) (*Vector, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("astype: %w", err)
	}
	src := v.DType()
	if !isNumericDType(src) || !isNumericDType(target) {
		return nil, fmt.Errorf("astype %s to %s: %w", src, target, ErrUnsupported)
	}
	if src == target {
		return v.Clone(), nil
	}

	a := v.Allocator()
	n := v.count
	out := &Vector{count: n, alloc: a}
	switch target {
	case F64:
		buf := a.Float64s(n, n)
		switch st := v.storage.(type) {
		case *i64Storage:
			for i, x := range st.data {
				buf[i] = float64(x)
			}
		case *boolStorage:
			for i, x := range st.data {
				buf[i] = float64(x)
			}
		}
		out.storage = &f64Storage{data: buf}
	case I64:
		buf := a.Int64s(n, n)
		switch st := v.storage.(type) {
		case *f64Storage:
			for i, x := range st.data {
				buf[i] = int64(x)
			}
		case *boolStorage:
			for i, x := range st.data {
				buf[i] = int64(x)
			}
		}
		out.storage = &i64Storage{data: buf}
	case Bool:
		buf := a.Bytes(n, n)
		switch st := v.storage.(type) {
		case *f64Storage:
			for i, x := range st.data {
				if x != 0 {
					buf[i] = 1
				}
			}
		case *i64Storage:
			for i, x := range st.data {
				if x != 0 {
					buf[i] = 1
				}
			}
		}
		out.storage = &boolStorage{data: buf}
	}
	out.nulls = alloc.CloneBytes(a, v.nulls)
	return out, nil
}

func isNumericDType(d DType) bool {
	return d == F64 || d == I64 || d == Bool
}
