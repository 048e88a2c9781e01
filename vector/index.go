package vector

import (
	"fmt"

	"github.com/chazu/quark/alloc"
)

// Index returns element i as a scalar. Negative i counts from the end. ok is
// false when i is out of range or the element is null. Cat elements decode
// to their dictionary string.
func (v *Vector) Index(i int) (s Scalar, ok bool, err error) {
	if err := v.Validate(); err != nil {
		return Scalar{}, false, fmt.Errorf("index: %w", err)
	}
	if i < 0 {
		i += v.count
	}
	if i < 0 || i >= v.count || v.IsNullAt(i) {
		return Scalar{}, false, nil
	}
	switch st := v.storage.(type) {
	case *f64Storage:
		return FloatScalar(st.data[i]), true, nil
	case *i64Storage:
		return IntScalar(st.data[i]), true, nil
	case *boolStorage:
		return BoolScalar(st.data[i] != 0), true, nil
	}
	str, present, err := v.stringAt(i)
	if err != nil || !present {
		return Scalar{}, false, err
	}
	return StringScalar(str), true, nil
}

// Filter selects the elements where mask is true and not null. mask must be
// a bool vector of the same length. The result has the same dtype and gets
// a mask only when a selected element was null in v.
func (v *Vector) Filter(mask *Vector) (*Vector, error) {
	if err := validate("filter", v, mask); err != nil {
		return nil, err
	}
	m, ok := mask.storage.(*boolStorage)
	if !ok {
		return nil, fmt.Errorf("filter with %s mask: %w", mask.DType(), ErrDType)
	}
	if mask.count != v.count {
		return nil, fmt.Errorf("filter: lengths %d and %d: %w", v.count, mask.count, ErrLengthMismatch)
	}
	idx := make([]int, 0, v.count)
	for i, b := range m.data {
		if b != 0 && !mask.IsNullAt(i) {
			idx = append(idx, i)
		}
	}
	return v.gather(idx), nil
}

// Slice returns elements [lo, hi) as a new vector. Bounds are clamped and
// negative bounds count from the end.
func (v *Vector) Slice(lo, hi int) (*Vector, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("slice: %w", err)
	}
	lo, hi = clampRange(lo, hi, v.count)
	idx := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		idx = append(idx, i)
	}
	return v.gather(idx), nil
}

func clampRange(lo, hi, n int) (int, int) {
	if lo < 0 {
		lo += n
	}
	if hi < 0 {
		hi += n
	}
	lo = max(0, min(lo, n))
	hi = max(lo, min(hi, n))
	return lo, hi
}

// gather copies the elements at idx, which must be valid for v.
func (v *Vector) gather(idx []int) *Vector {
	a := v.Allocator()
	n := len(idx)
	out := &Vector{count: n, alloc: a}
	switch st := v.storage.(type) {
	case *f64Storage:
		buf := a.Float64s(n, n)
		for j, i := range idx {
			buf[j] = st.data[i]
		}
		out.storage = &f64Storage{data: buf}
	case *i64Storage:
		buf := a.Int64s(n, n)
		for j, i := range idx {
			buf[j] = st.data[i]
		}
		out.storage = &i64Storage{data: buf}
	case *boolStorage:
		buf := a.Bytes(n, n)
		for j, i := range idx {
			buf[j] = st.data[i]
		}
		out.storage = &boolStorage{data: buf}
	case *strStorage:
		offsets := a.Uint32s(n+1, n+1)
		var bytes []byte
		for j, i := range idx {
			bytes = alloc.AppendBytes(a, bytes, st.bytes[st.offsets[i]:st.offsets[i+1]]...)
			offsets[j+1] = uint32(len(bytes))
		}
		if bytes == nil {
			bytes = a.Bytes(0, 0)
		}
		out.storage = &strStorage{offsets: offsets, bytes: bytes}
	case *catStorage:
		codes := a.Int32s(n, n)
		for j, i := range idx {
			codes[j] = st.codes[i]
		}
		out.storage = &catStorage{codes: codes, dict: append([]string(nil), st.dict...)}
	}
	for j, i := range idx {
		if !v.IsNullAt(i) {
			continue
		}
		if out.nulls == nil {
			out.nulls = a.Bytes(n, n)
		}
		out.nulls[j] = 1
	}
	return out
}
