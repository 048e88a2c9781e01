package vector

import (
	"errors"
	"reflect"
	"testing"
)

func wireSamples(t *testing.T) []*Vector {
	t.Helper()
	f := FromFloat64s(nil, []float64{1.5, -2, 0})
	_ = f.SetNull(1)
	s, err := FromStrings(nil, []string{"alpha", "", "gamma"}, []bool{false, true, false})
	if err != nil {
		t.Fatal(err)
	}
	c, err := ToCategorical(nil, []string{"x", "y", "x"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	emptyStr, _ := New(nil, Str, 0)
	return []*Vector{
		f,
		smokeVector(),
		FromBools(nil, []bool{true, false, true}),
		s,
		c,
		emptyStr,
	}
}

func TestWireRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		for _, v := range wireSamples(t) {
			data, err := Marshal(v, compress)
			if err != nil {
				t.Fatalf("Marshal(%s): %v", v, err)
			}
			got, err := Unmarshal(nil, data)
			if err != nil {
				t.Fatalf("Unmarshal(%s, compress=%v): %v", v, compress, err)
			}
			if got.DType() != v.DType() || got.Len() != v.Len() {
				t.Errorf("round trip %s -> %s", v, got)
				continue
			}
			if !reflect.DeepEqual(got.NullMask(), v.NullMask()) {
				t.Errorf("%s: mask %v, want %v", v, got.NullMask(), v.NullMask())
			}
			for i := 0; i < v.Len(); i++ {
				want, wok, _ := v.Index(i)
				have, hok, _ := got.Index(i)
				if wok != hok || want != have {
					t.Errorf("%s[%d] = %s, want %s", v, i, have, want)
				}
			}
		}
	}
}

func TestWireFrameTags(t *testing.T) {
	v := smokeVector()
	raw, _ := Marshal(v, false)
	packed, _ := Marshal(v, true)
	if raw[0] != frameRaw || packed[0] != frameZstd {
		t.Errorf("frame tags = %d, %d", raw[0], packed[0])
	}
}

func TestWireBinaryMarshaler(t *testing.T) {
	v := smokeVector()
	data, err := v.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	var out Vector
	if err := out.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	if got, _ := out.Int64s(); !reflect.DeepEqual(got, []int64{10, 20, 30, 40, 50}) {
		t.Errorf("decoded = %v", got)
	}
}

func TestWireRejectsCorruptInput(t *testing.T) {
	if _, err := Unmarshal(nil, nil); !errors.Is(err, ErrCorrupt) {
		t.Errorf("empty input: %v", err)
	}
	if _, err := Unmarshal(nil, []byte{7, 0}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("bad frame: %v", err)
	}
	if _, err := Unmarshal(nil, []byte{frameRaw, 0xff, 0x00}); err == nil {
		t.Error("garbage payload decoded")
	}

	bad := FromCategoricalParts(nil, []int32{3}, []string{"a"}, nil)
	if _, err := Marshal(bad, false); !errors.Is(err, ErrInvalid) {
		t.Errorf("marshal invalid vector: %v", err)
	}
}
