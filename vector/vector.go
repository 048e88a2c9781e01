// Package vector implements quark's typed one-dimensional columns.
//
// A Vector stores a single dtype (f64, i64, bool, str or cat) in a typed
// backing buffer plus an optional null mask. The buffer variant is a closed
// sum (the storage interface), so the dtype of a vector is always the dtype
// of its storage. Arithmetic and comparison kernels never mutate their
// operands; they allocate a new vector through the operand's allocator.
package vector

import (
	"fmt"

	"github.com/chazu/quark/alloc"
)

// DType is the element type of a vector.
type DType uint8

const (
	F64 DType = iota + 1
	I64
	Bool
	Str
	Cat
)

func (d DType) String() string {
	switch d {
	case F64:
		return "f64"
	case I64:
		return "i64"
	case Bool:
		return "bool"
	case Str:
		return "str"
	case Cat:
		return "cat"
	default:
		return "invalid"
	}
}

// ParseDType maps a dtype name to its DType.
func ParseDType(name string) (DType, error) {
	switch name {
	case "f64", "float", "float64":
		return F64, nil
	case "i64", "int", "int64":
		return I64, nil
	case "bool":
		return Bool, nil
	case "str", "string":
		return Str, nil
	case "cat", "categorical":
		return Cat, nil
	}
	return 0, fmt.Errorf("unknown dtype %q: %w", name, ErrDType)
}

// storage is the closed set of backing buffers.
type storage interface {
	dtype() DType
	length() int
}

type f64Storage struct{ data []float64 }

type i64Storage struct{ data []int64 }

// boolStorage keeps one byte per element, 0 or 1.
type boolStorage struct{ data []uint8 }

// strStorage is an offsets table over a shared byte buffer. Element i is
// bytes[offsets[i]:offsets[i+1]].
type strStorage struct {
	offsets []uint32
	bytes   []byte
}

// catStorage is dictionary encoded: code -1 is the null sentinel, any other
// code indexes dict.
type catStorage struct {
	codes []int32
	dict  []string
}

func (*f64Storage) dtype() DType  { return F64 }
func (*i64Storage) dtype() DType  { return I64 }
func (*boolStorage) dtype() DType { return Bool }
func (*strStorage) dtype() DType  { return Str }
func (*catStorage) dtype() DType  { return Cat }

func (s *f64Storage) length() int  { return len(s.data) }
func (s *i64Storage) length() int  { return len(s.data) }
func (s *boolStorage) length() int { return len(s.data) }
func (s *strStorage) length() int  { return len(s.offsets) - 1 }
func (s *catStorage) length() int  { return len(s.codes) }

// Vector is a typed column. The zero Vector is invalid; use New or one of
// the From constructors.
type Vector struct {
	count   int
	storage storage
	nulls   []uint8 // nil, or one entry per element: 0 valid, 1 null
	alloc   alloc.Allocator
}

// New creates an empty vector of the given dtype with room for capacity
// elements. A nil allocator selects alloc.Default().
func New(a alloc.Allocator, dtype DType, capacity int) (*Vector, error) {
	a = alloc.Or(a)
	if capacity < 0 {
		capacity = 0
	}
	v := &Vector{alloc: a}
	switch dtype {
	case F64:
		v.storage = &f64Storage{data: a.Float64s(0, capacity)}
	case I64:
		v.storage = &i64Storage{data: a.Int64s(0, capacity)}
	case Bool:
		v.storage = &boolStorage{data: a.Bytes(0, capacity)}
	case Str:
		offsets := a.Uint32s(1, capacity+1)
		v.storage = &strStorage{offsets: offsets, bytes: a.Bytes(0, 0)}
	case Cat:
		v.storage = &catStorage{codes: a.Int32s(0, capacity)}
	default:
		return nil, fmt.Errorf("new vector of dtype %d: %w", dtype, ErrDType)
	}
	return v, nil
}

// FromFloat64s builds an f64 vector holding a copy of data.
func FromFloat64s(a alloc.Allocator, data []float64) *Vector {
	a = alloc.Or(a)
	buf := a.Float64s(len(data), len(data))
	copy(buf, data)
	return &Vector{count: len(data), storage: &f64Storage{data: buf}, alloc: a}
}

// FromInt64s builds an i64 vector holding a copy of data.
func FromInt64s(a alloc.Allocator, data []int64) *Vector {
	a = alloc.Or(a)
	buf := a.Int64s(len(data), len(data))
	copy(buf, data)
	return &Vector{count: len(data), storage: &i64Storage{data: buf}, alloc: a}
}

// FromBools builds a bool vector from data.
func FromBools(a alloc.Allocator, data []bool) *Vector {
	a = alloc.Or(a)
	buf := a.Bytes(len(data), len(data))
	for i, b := range data {
		if b {
			buf[i] = 1
		}
	}
	return &Vector{count: len(data), storage: &boolStorage{data: buf}, alloc: a}
}

// FromStrings builds a str vector. nulls may be nil; otherwise it must have
// one entry per value, and null elements are stored as empty strings.
func FromStrings(a alloc.Allocator, values []string, nulls []bool) (*Vector, error) {
	a = alloc.Or(a)
	if nulls != nil && len(nulls) != len(values) {
		return nil, fmt.Errorf("str vector: %d values, %d null flags: %w", len(values), len(nulls), ErrLengthMismatch)
	}
	st := &strStorage{}
	st.offsets, st.bytes = encodeStrings(a, values, nulls)
	v := &Vector{count: len(values), storage: st, alloc: a}
	v.nulls = maskFromBools(a, nulls)
	return v, nil
}

// FromStringParts wraps an offsets table and byte buffer without copying or
// checking them. Callers must Validate the result before handing it to a
// kernel.
func FromStringParts(a alloc.Allocator, offsets []uint32, bytes []byte, nulls []uint8) *Vector {
	count := len(offsets) - 1
	if count < 0 {
		count = 0
	}
	return &Vector{
		count:   count,
		storage: &strStorage{offsets: offsets, bytes: bytes},
		nulls:   nulls,
		alloc:   alloc.Or(a),
	}
}

// FromCategoricalParts wraps codes and a dictionary without copying or
// checking them. Callers must Validate the result before handing it to a
// kernel.
func FromCategoricalParts(a alloc.Allocator, codes []int32, dict []string, nulls []uint8) *Vector {
	return &Vector{
		count:   len(codes),
		storage: &catStorage{codes: codes, dict: dict},
		nulls:   nulls,
		alloc:   alloc.Or(a),
	}
}

// Len returns the logical element count.
func (v *Vector) Len() int {
	if v == nil {
		return 0
	}
	return v.count
}

// DType returns the dtype of the vector's storage, or 0 for a vector with
// no storage.
func (v *Vector) DType() DType {
	if v == nil || v.storage == nil {
		return 0
	}
	return v.storage.dtype()
}

// Allocator returns the allocator the vector grows and derives through.
func (v *Vector) Allocator() alloc.Allocator {
	if v == nil {
		return alloc.Default()
	}
	return alloc.Or(v.alloc)
}

// Float64s exposes the f64 buffer. ok is false for other dtypes.
func (v *Vector) Float64s() (data []float64, ok bool) {
	if s, isF := v.storage.(*f64Storage); isF {
		return s.data, true
	}
	return nil, false
}

// Int64s exposes the i64 buffer. ok is false for other dtypes.
func (v *Vector) Int64s() (data []int64, ok bool) {
	if s, isI := v.storage.(*i64Storage); isI {
		return s.data, true
	}
	return nil, false
}

// Bools returns a copy of a bool vector's elements.
func (v *Vector) Bools() (data []bool, ok bool) {
	s, isB := v.storage.(*boolStorage)
	if !isB {
		return nil, false
	}
	out := make([]bool, len(s.data))
	for i, b := range s.data {
		out[i] = b != 0
	}
	return out, true
}

// Strings decodes a str or cat vector. Null elements decode as "".
func (v *Vector) Strings() ([]string, error) {
	switch s := v.storage.(type) {
	case *strStorage:
		return DecodeStrings(s.offsets, s.bytes)
	case *catStorage:
		vals, _, err := v.FromCategorical()
		return vals, err
	}
	return nil, fmt.Errorf("strings of %s vector: %w", v.DType(), ErrDType)
}

// Dictionary returns the dictionary of a cat vector.
func (v *Vector) Dictionary() ([]string, bool) {
	if s, ok := v.storage.(*catStorage); ok {
		return s.dict, true
	}
	return nil, false
}

// Codes returns the codes of a cat vector.
func (v *Vector) Codes() ([]int32, bool) {
	if s, ok := v.storage.(*catStorage); ok {
		return s.codes, true
	}
	return nil, false
}

// Clone returns a deep copy sharing nothing with v.
func (v *Vector) Clone() *Vector {
	a := v.Allocator()
	out := &Vector{count: v.count, alloc: a}
	switch s := v.storage.(type) {
	case *f64Storage:
		buf := a.Float64s(len(s.data), len(s.data))
		copy(buf, s.data)
		out.storage = &f64Storage{data: buf}
	case *i64Storage:
		buf := a.Int64s(len(s.data), len(s.data))
		copy(buf, s.data)
		out.storage = &i64Storage{data: buf}
	case *boolStorage:
		out.storage = &boolStorage{data: alloc.CloneBytes(a, s.data)}
	case *strStorage:
		offs := a.Uint32s(len(s.offsets), len(s.offsets))
		copy(offs, s.offsets)
		bytes := a.Bytes(len(s.bytes), len(s.bytes))
		copy(bytes, s.bytes)
		out.storage = &strStorage{offsets: offs, bytes: bytes}
	case *catStorage:
		codes := a.Int32s(len(s.codes), len(s.codes))
		copy(codes, s.codes)
		out.storage = &catStorage{codes: codes, dict: append([]string(nil), s.dict...)}
	}
	out.nulls = alloc.CloneBytes(a, v.nulls)
	return out
}

func (v *Vector) String() string {
	if err := v.Validate(); err != nil {
		return "vector[invalid]"
	}
	return fmt.Sprintf("vector[%s] len=%d", v.DType(), v.count)
}
