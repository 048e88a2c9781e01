package vector

import "fmt"

// Sum adds every element. f64 and i64 accumulate in float64 and return a
// Float; bool counts true elements and returns an Int. Null elements are
// included with whatever payload they hold.
func (v *Vector) Sum() (Scalar, error) {
	if err := v.Validate(); err != nil {
		return Scalar{}, fmt.Errorf("sum: %w", err)
	}
	switch st := v.storage.(type) {
	case *f64Storage:
		var acc float64
		for _, x := range st.data {
			acc += x
		}
		return FloatScalar(acc), nil
	case *i64Storage:
		var acc float64
		for _, x := range st.data {
			acc += float64(x)
		}
		return FloatScalar(acc), nil
	case *boolStorage:
		var n int64
		for _, x := range st.data {
			n += int64(x)
		}
		return IntScalar(n), nil
	}
	return Scalar{}, fmt.Errorf("sum of %s vector: %w", v.DType(), ErrDType)
}

// Min returns the smallest element in the vector's own scalar kind.
func (v *Vector) Min() (Scalar, error) { return v.extreme("min", -1) }

// Max returns the largest element in the vector's own scalar kind.
func (v *Vector) Max() (Scalar, error) { return v.extreme("max", 1) }

func (v *Vector) extreme(op string, sign int) (Scalar, error) {
	if err := v.Validate(); err != nil {
		return Scalar{}, fmt.Errorf("%s: %w", op, err)
	}
	if !isNumericDType(v.DType()) {
		return Scalar{}, fmt.Errorf("%s of %s vector: %w", op, v.DType(), ErrDType)
	}
	if v.count == 0 {
		return Scalar{}, fmt.Errorf("%s: %w", op, ErrEmpty)
	}
	switch st := v.storage.(type) {
	case *f64Storage:
		return FloatScalar(pick(st.data, sign)), nil
	case *i64Storage:
		return IntScalar(pick(st.data, sign)), nil
	case *boolStorage:
		return BoolScalar(pick(st.data, sign) != 0), nil
	}
	return Scalar{}, fmt.Errorf("%s of %s vector: %w", op, v.DType(), ErrDType)
}

func pick[T number](data []T, sign int) T {
	best := data[0]
	for _, x := range data[1:] {
		if (sign < 0 && x < best) || (sign > 0 && x > best) {
			best = x
		}
	}
	return best
}

// Mean is Sum divided by the element count, as a Float.
func (v *Vector) Mean() (Scalar, error) {
	s, err := v.Sum()
	if err != nil {
		return Scalar{}, fmt.Errorf("mean: %w", err)
	}
	if v.count == 0 {
		return Scalar{}, fmt.Errorf("mean: %w", ErrEmpty)
	}
	total, _ := s.AsFloat64()
	return FloatScalar(total / float64(v.count)), nil
}

// Count returns the number of non-null elements.
func (v *Vector) Count() int {
	return v.Len() - v.NullCount()
}
