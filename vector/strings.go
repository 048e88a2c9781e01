package vector

import (
	"fmt"

	"github.com/chazu/quark/alloc"
)

// EncodeStrings flattens values into an offsets table and a byte buffer.
// offsets has len(values)+1 entries; offsets[i+1]-offsets[i] is the UTF-8
// byte length of values[i].
func EncodeStrings(values []string) (offsets []uint32, bytes []byte) {
	return encodeStrings(nil, values, nil)
}

func encodeStrings(a alloc.Allocator, values []string, nulls []bool) ([]uint32, []byte) {
	a = alloc.Or(a)
	total := 0
	for i, s := range values {
		if nulls != nil && nulls[i] {
			continue
		}
		total += len(s)
	}
	offsets := a.Uint32s(len(values)+1, len(values)+1)
	bytes := a.Bytes(0, total)
	for i, s := range values {
		if nulls == nil || !nulls[i] {
			bytes = append(bytes, s...)
		}
		offsets[i+1] = uint32(len(bytes))
	}
	return offsets, bytes
}

// DecodeStrings is the inverse of EncodeStrings.
func DecodeStrings(offsets []uint32, bytes []byte) ([]string, error) {
	if err := checkOffsets(offsets, len(bytes)); err != nil {
		return nil, err
	}
	out := make([]string, len(offsets)-1)
	for i := range out {
		out[i] = string(bytes[offsets[i]:offsets[i+1]])
	}
	return out, nil
}

func checkOffsets(offsets []uint32, nbytes int) error {
	if len(offsets) == 0 {
		return fmt.Errorf("string offsets empty: %w", ErrInvalid)
	}
	if offsets[0] != 0 {
		return fmt.Errorf("string offsets start at %d: %w", offsets[0], ErrInvalid)
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return fmt.Errorf("string offsets decrease at %d: %w", i, ErrInvalid)
		}
	}
	if int(offsets[len(offsets)-1]) != nbytes {
		return fmt.Errorf("string offsets end at %d, buffer has %d bytes: %w",
			offsets[len(offsets)-1], nbytes, ErrInvalid)
	}
	return nil
}

func (s *strStorage) at(i int) string {
	return string(s.bytes[s.offsets[i]:s.offsets[i+1]])
}

// stringAt decodes element i of a str or cat vector. ok is false for a null
// sentinel code.
func (v *Vector) stringAt(i int) (string, bool, error) {
	switch s := v.storage.(type) {
	case *strStorage:
		return s.at(i), true, nil
	case *catStorage:
		code := s.codes[i]
		if code == -1 {
			return "", false, nil
		}
		if code < -1 || int(code) >= len(s.dict) {
			return "", false, fmt.Errorf("code %d outside dictionary of %d: %w", code, len(s.dict), ErrCorrupt)
		}
		return s.dict[code], true, nil
	}
	return "", false, fmt.Errorf("string element of %s vector: %w", v.DType(), ErrDType)
}
