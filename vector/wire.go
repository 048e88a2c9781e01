package vector

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/chazu/quark/alloc"
)

// Frame tags. Every encoded vector starts with one of these bytes.
const (
	frameRaw  byte = 0
	frameZstd byte = 1
)

var (
	cborEncMode cbor.EncMode
	zstdEnc     *zstd.Encoder
	zstdDec     *zstd.Decoder
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vector: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	zstdEnc, err = zstd.NewWriter(nil)
	if err != nil {
		panic(fmt.Sprintf("vector: failed to create zstd encoder: %v", err))
	}
	zstdDec, err = zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Sprintf("vector: failed to create zstd decoder: %v", err))
	}
}

// wireVector is the serialized form. Bytes holds bool payloads or the str
// byte buffer, depending on DType.
type wireVector struct {
	DType   uint8     `cbor:"1,keyasint"`
	Count   int       `cbor:"2,keyasint"`
	F64     []float64 `cbor:"3,keyasint,omitempty"`
	I64     []int64   `cbor:"4,keyasint,omitempty"`
	Bytes   []byte    `cbor:"5,keyasint,omitempty"`
	Offsets []uint32  `cbor:"6,keyasint,omitempty"`
	Codes   []int32   `cbor:"7,keyasint,omitempty"`
	Dict    []string  `cbor:"8,keyasint,omitempty"`
	Nulls   []byte    `cbor:"9,keyasint,omitempty"`
}

// Marshal encodes v as canonical CBOR behind a one-byte frame tag, zstd
// compressing the payload when compress is set.
func Marshal(v *Vector, compress bool) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("vector: marshal: %w", err)
	}
	w := wireVector{DType: uint8(v.DType()), Count: v.count, Nulls: v.nulls}
	switch st := v.storage.(type) {
	case *f64Storage:
		w.F64 = st.data
	case *i64Storage:
		w.I64 = st.data
	case *boolStorage:
		w.Bytes = st.data
	case *strStorage:
		w.Offsets, w.Bytes = st.offsets, st.bytes
	case *catStorage:
		w.Codes, w.Dict = st.codes, st.dict
	}
	payload, err := cborEncMode.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("vector: marshal: %w", err)
	}
	if !compress {
		return append([]byte{frameRaw}, payload...), nil
	}
	return zstdEnc.EncodeAll(payload, []byte{frameZstd}), nil
}

// Unmarshal decodes a framed vector into buffers from a, then validates it.
func Unmarshal(a alloc.Allocator, data []byte) (*Vector, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("vector: unmarshal: empty input: %w", ErrCorrupt)
	}
	payload := data[1:]
	switch data[0] {
	case frameRaw:
	case frameZstd:
		var err error
		payload, err = zstdDec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("vector: unmarshal: %w", err)
		}
	default:
		return nil, fmt.Errorf("vector: unmarshal: unknown frame tag %d: %w", data[0], ErrCorrupt)
	}

	var w wireVector
	if err := cbor.Unmarshal(payload, &w); err != nil {
		return nil, fmt.Errorf("vector: unmarshal: %w", err)
	}
	a = alloc.Or(a)
	var v *Vector
	switch DType(w.DType) {
	case F64:
		v = FromFloat64s(a, w.F64)
	case I64:
		v = FromInt64s(a, w.I64)
	case Bool:
		v = &Vector{count: len(w.Bytes), storage: &boolStorage{data: alloc.CloneBytes(a, orEmpty(w.Bytes))}, alloc: a}
	case Str:
		offsets := a.Uint32s(len(w.Offsets), len(w.Offsets))
		copy(offsets, w.Offsets)
		v = FromStringParts(a, offsets, alloc.CloneBytes(a, orEmpty(w.Bytes)), nil)
	case Cat:
		codes := a.Int32s(len(w.Codes), len(w.Codes))
		copy(codes, w.Codes)
		v = FromCategoricalParts(a, codes, w.Dict, nil)
	default:
		return nil, fmt.Errorf("vector: unmarshal: dtype %d: %w", w.DType, ErrCorrupt)
	}
	v.nulls = alloc.CloneBytes(a, w.Nulls)
	if v.count != w.Count {
		return nil, fmt.Errorf("vector: unmarshal: count %d, payload holds %d: %w", w.Count, v.count, ErrCorrupt)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("vector: unmarshal: %w", err)
	}
	return v, nil
}

func orEmpty(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// MarshalBinary implements encoding.BinaryMarshaler with an uncompressed
// frame.
func (v *Vector) MarshalBinary() ([]byte, error) {
	return Marshal(v, false)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It accepts both
// frame kinds and allocates through alloc.Default().
func (v *Vector) UnmarshalBinary(data []byte) error {
	out, err := Unmarshal(nil, data)
	if err != nil {
		return err
	}
	*v = *out
	return nil
}
