package vector

import (
	"fmt"

	"github.com/chazu/quark/alloc"
)

// IsNullAt reports whether element i is null. It is false whenever the
// vector has no mask, whatever i is.
func (v *Vector) IsNullAt(i int) bool {
	if len(v.nulls) == 0 {
		return false
	}
	if i < 0 || i >= len(v.nulls) {
		return false
	}
	return v.nulls[i] != 0
}

// SetNull marks element i null. The first call allocates an all-valid mask
// sized to the current length.
func (v *Vector) SetNull(i int) error {
	if i < 0 || i >= v.count {
		return fmt.Errorf("set null at %d of %d: %w", i, v.count, ErrInvalid)
	}
	if len(v.nulls) == 0 {
		v.nulls = v.Allocator().Bytes(v.count, v.count)
	}
	v.nulls[i] = 1
	if s, ok := v.storage.(*catStorage); ok {
		s.codes[i] = -1
	}
	return nil
}

// HasNulls reports whether any element is null. An absent mask and a mask
// of all zeros both mean no nulls.
func (v *Vector) HasNulls() bool {
	for _, n := range v.nulls {
		if n != 0 {
			return true
		}
	}
	return false
}

// HasMask reports whether a mask is allocated, regardless of its contents.
func (v *Vector) HasMask() bool {
	return len(v.nulls) != 0
}

// NullCount returns the number of null elements.
func (v *Vector) NullCount() int {
	n := 0
	for _, b := range v.nulls {
		if b != 0 {
			n++
		}
	}
	return n
}

// NullMask returns a copy of the mask, or nil when there is none.
func (v *Vector) NullMask() []uint8 {
	if len(v.nulls) == 0 {
		return nil
	}
	return append([]uint8(nil), v.nulls...)
}

func maskFromBools(a alloc.Allocator, nulls []bool) []uint8 {
	found := false
	for _, n := range nulls {
		if n {
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	mask := alloc.Or(a).Bytes(len(nulls), len(nulls))
	for i, n := range nulls {
		if n {
			mask[i] = 1
		}
	}
	return mask
}

// mergeMasks ORs the masks of up to two vectors into a fresh mask of length
// n. It returns nil when neither input carries a mask.
func mergeMasks(a alloc.Allocator, n int, xs ...*Vector) []uint8 {
	var out []uint8
	for _, x := range xs {
		if x == nil || len(x.nulls) == 0 {
			continue
		}
		if out == nil {
			out = a.Bytes(n, n)
		}
		for i, b := range x.nulls {
			out[i] |= b
		}
	}
	return out
}
