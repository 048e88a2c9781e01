package vector

import (
	"fmt"
	"math"

	"github.com/chazu/quark/alloc"
)

// ToCategorical dictionary-encodes values. The dictionary lists distinct
// values in first-seen order; null elements get code -1 and a mask bit.
// nulls may be nil.
func ToCategorical(a alloc.Allocator, values []string, nulls []bool) (*Vector, error) {
	a = alloc.Or(a)
	if nulls != nil && len(nulls) != len(values) {
		return nil, fmt.Errorf("categorical: %d values, %d null flags: %w", len(values), len(nulls), ErrLengthMismatch)
	}
	codes := a.Int32s(len(values), len(values))
	index := make(map[string]int32)
	var dict []string
	for i, s := range values {
		if nulls != nil && nulls[i] {
			codes[i] = -1
			continue
		}
		code, seen := index[s]
		if !seen {
			if len(dict) == math.MaxInt32 {
				return nil, fmt.Errorf("categorical dictionary full: %w", ErrUnsupported)
			}
			code = int32(len(dict))
			index[s] = code
			dict = append(dict, s)
		}
		codes[i] = code
	}
	return &Vector{
		count:   len(values),
		storage: &catStorage{codes: codes, dict: dict},
		nulls:   maskFromBools(a, nulls),
		alloc:   a,
	}, nil
}

// ToCategorical encodes a str vector; a cat vector is cloned.
func (v *Vector) ToCategorical() (*Vector, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("to categorical: %w", err)
	}
	switch st := v.storage.(type) {
	case *catStorage:
		return v.Clone(), nil
	case *strStorage:
		values := make([]string, v.count)
		var nulls []bool
		if v.HasNulls() {
			nulls = make([]bool, v.count)
		}
		for i := range values {
			if nulls != nil && v.nulls[i] != 0 {
				nulls[i] = true
				continue
			}
			values[i] = st.at(i)
		}
		return ToCategorical(v.Allocator(), values, nulls)
	}
	return nil, fmt.Errorf("to categorical from %s vector: %w", v.DType(), ErrDType)
}

// FromCategorical decodes a cat vector into its strings and per-element
// null flags. An element is null when its code is -1 or its mask bit is set.
// A code outside the dictionary is reported as ErrCorrupt.
func (v *Vector) FromCategorical() (values []string, nulls []bool, err error) {
	st, ok := v.storage.(*catStorage)
	if !ok {
		return nil, nil, fmt.Errorf("from categorical on %s vector: %w", v.DType(), ErrDType)
	}
	if len(st.codes) != v.count {
		return nil, nil, fmt.Errorf("from categorical: %d codes, count %d: %w", len(st.codes), v.count, ErrInvalid)
	}
	values = make([]string, v.count)
	nulls = make([]bool, v.count)
	for i, code := range st.codes {
		if code == -1 || v.IsNullAt(i) {
			nulls[i] = true
			continue
		}
		if code < -1 || int(code) >= len(st.dict) {
			return nil, nil, fmt.Errorf("from categorical: code %d at %d outside dictionary of %d: %w",
				code, i, len(st.dict), ErrCorrupt)
		}
		values[i] = st.dict[code]
	}
	return values, nulls, nil
}

// Decode turns a cat vector back into a str vector.
func (v *Vector) Decode() (*Vector, error) {
	values, nulls, err := v.FromCategorical()
	if err != nil {
		return nil, err
	}
	return FromStrings(v.Allocator(), values, nulls)
}
