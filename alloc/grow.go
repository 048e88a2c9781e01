package alloc

// Append helpers grow a buffer through the allocator instead of letting
// append reallocate behind its back.

func grow[T any](s []T, extra int, mk func(n, capacity int) []T) []T {
	if cap(s)-len(s) >= extra {
		return s
	}
	newCap := 2 * cap(s)
	if newCap < len(s)+extra {
		newCap = len(s) + extra
	}
	if newCap < 8 {
		newCap = 8
	}
	out := mk(len(s), newCap)
	copy(out, s)
	return out
}

func AppendFloat64(a Allocator, s []float64, vs ...float64) []float64 {
	s = grow(s, len(vs), Or(a).Float64s)
	return append(s, vs...)
}

func AppendInt64(a Allocator, s []int64, vs ...int64) []int64 {
	s = grow(s, len(vs), Or(a).Int64s)
	return append(s, vs...)
}

func AppendInt32(a Allocator, s []int32, vs ...int32) []int32 {
	s = grow(s, len(vs), Or(a).Int32s)
	return append(s, vs...)
}

func AppendUint32(a Allocator, s []uint32, vs ...uint32) []uint32 {
	s = grow(s, len(vs), Or(a).Uint32s)
	return append(s, vs...)
}

func AppendBytes(a Allocator, s []byte, vs ...byte) []byte {
	s = grow(s, len(vs), Or(a).Bytes)
	return append(s, vs...)
}

// CloneBytes copies b into a buffer from a. A nil b stays nil.
func CloneBytes(a Allocator, b []byte) []byte {
	if b == nil {
		return nil
	}
	out := Or(a).Bytes(len(b), len(b))
	copy(out, b)
	return out
}
