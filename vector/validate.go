package vector

import "fmt"

// Validate checks the structural invariants every kernel relies on:
//   - storage is present and its length equals the logical count
//   - str offsets have count+1 entries, start at 0, never decrease and end
//     at the byte buffer length
//   - cat codes are -1 or index the dictionary
//   - a mask, when present, has one entry per element
func (v *Vector) Validate() error {
	if v == nil || v.storage == nil {
		return fmt.Errorf("no storage: %w", ErrInvalid)
	}
	if v.count < 0 {
		return fmt.Errorf("negative count %d: %w", v.count, ErrInvalid)
	}
	switch s := v.storage.(type) {
	case *f64Storage, *i64Storage, *boolStorage:
		if s.length() != v.count {
			return fmt.Errorf("%s buffer has %d elements, count is %d: %w",
				s.dtype(), s.length(), v.count, ErrInvalid)
		}
	case *strStorage:
		if len(s.offsets) != v.count+1 {
			return fmt.Errorf("str offsets has %d entries, want %d: %w",
				len(s.offsets), v.count+1, ErrInvalid)
		}
		if err := checkOffsets(s.offsets, len(s.bytes)); err != nil {
			return err
		}
	case *catStorage:
		if len(s.codes) != v.count {
			return fmt.Errorf("cat codes has %d entries, count is %d: %w",
				len(s.codes), v.count, ErrInvalid)
		}
		for i, c := range s.codes {
			if c < -1 || int(c) >= len(s.dict) {
				return fmt.Errorf("cat code %d at %d outside dictionary of %d: %w",
					c, i, len(s.dict), ErrInvalid)
			}
		}
	default:
		return fmt.Errorf("unknown storage %T: %w", v.storage, ErrInvalid)
	}
	if len(v.nulls) != 0 && len(v.nulls) != v.count {
		return fmt.Errorf("null mask has %d entries, count is %d: %w",
			len(v.nulls), v.count, ErrInvalid)
	}
	return nil
}

func validate(op string, vs ...*Vector) error {
	for _, v := range vs {
		if v == nil {
			continue
		}
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}
