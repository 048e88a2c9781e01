package vector

import (
	"fmt"

	"github.com/chazu/quark/alloc"
)

// FillNull replaces every null element with s and drops the mask, so the
// vector reports no nulls afterwards. A vector without nulls keeps its
// values and loses only an all-valid mask. The scalar is checked against
// the dtype the same way Push checks it; str vectors take a String. cat
// vectors are not supported.
func (v *Vector) FillNull(s Scalar) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("fill null: %w", err)
	}
	if v.DType() == Cat {
		return fmt.Errorf("fill null on cat vector: %w", ErrUnsupported)
	}
	if err := checkFill(v.DType(), s); err != nil {
		return err
	}
	if !v.HasNulls() {
		v.nulls = nil
		return nil
	}

	switch st := v.storage.(type) {
	case *f64Storage:
		f, _ := s.AsFloat64()
		for i, n := range v.nulls {
			if n != 0 {
				st.data[i] = f
			}
		}
	case *i64Storage:
		x := s.Int()
		if s.Kind() == ScalarFloat {
			x = int64(s.Float())
		}
		for i, n := range v.nulls {
			if n != 0 {
				st.data[i] = x
			}
		}
	case *boolStorage:
		var b uint8
		if s.Int() != 0 {
			b = 1
		}
		for i, n := range v.nulls {
			if n != 0 {
				st.data[i] = b
			}
		}
	case *strStorage:
		a := v.Allocator()
		fill := s.Str()
		total := len(st.bytes) + v.NullCount()*len(fill)
		offsets := a.Uint32s(1, v.count+1)
		bytes := a.Bytes(0, total)
		for i := 0; i < v.count; i++ {
			if v.nulls[i] != 0 {
				bytes = append(bytes, fill...)
			} else {
				bytes = append(bytes, st.bytes[st.offsets[i]:st.offsets[i+1]]...)
			}
			offsets = alloc.AppendUint32(a, offsets, uint32(len(bytes)))
		}
		st.offsets, st.bytes = offsets, bytes
	}
	v.nulls = nil
	return nil
}

func checkFill(d DType, s Scalar) error {
	ok := false
	switch d {
	case F64:
		ok = s.IsNumeric()
	case I64:
		ok = s.IsNumeric() || s.Kind() == ScalarBool
	case Bool:
		ok = s.Kind() == ScalarBool || s.Kind() == ScalarInt
	case Str:
		ok = s.Kind() == ScalarString
	}
	if !ok {
		return fmt.Errorf("fill %s vector with %s: %w", d, s.Kind(), ErrDType)
	}
	return nil
}
