package vector

import (
	"errors"
	"reflect"
	"testing"
)

func TestIndexNegative(t *testing.T) {
	v := smokeVector()
	tests := []struct {
		i    int
		want int64
		ok   bool
	}{
		{0, 10, true},
		{-1, 50, true},
		{-5, 10, true},
		{5, 0, false},
		{-6, 0, false},
	}
	for _, tt := range tests {
		s, ok, err := v.Index(tt.i)
		if err != nil {
			t.Fatalf("Index(%d): %v", tt.i, err)
		}
		if ok != tt.ok {
			t.Errorf("Index(%d) ok = %v, want %v", tt.i, ok, tt.ok)
			continue
		}
		if ok && (s.Kind() != ScalarInt || s.Int() != tt.want) {
			t.Errorf("Index(%d) = %s, want %d", tt.i, s, tt.want)
		}
	}
}

func TestIndexNullAndStrings(t *testing.T) {
	v := smokeVector()
	_ = v.SetNull(2)
	if _, ok, _ := v.Index(2); ok {
		t.Error("null element indexed as present")
	}

	c, _ := ToCategorical(nil, []string{"x", "y"}, nil)
	s, ok, err := c.Index(-1)
	if err != nil || !ok || s.Str() != "y" {
		t.Errorf("cat Index(-1) = %s, %v, %v", s, ok, err)
	}
	str, _ := FromStrings(nil, []string{"hello"}, nil)
	s, ok, _ = str.Index(0)
	if !ok || s.Kind() != ScalarString || s.Str() != "hello" {
		t.Errorf("str Index(0) = %s", s)
	}
}

func TestFilterSmoke(t *testing.T) {
	v := smokeVector()
	mask, err := Compare(CmpGt, Vec(v), Lit(IntScalar(25)))
	if err != nil {
		t.Fatal(err)
	}
	out, err := v.Filter(mask)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := out.Int64s()
	if out.Len() != 3 || !reflect.DeepEqual(got, []int64{30, 40, 50}) {
		t.Errorf("v[v > 25] = %v", got)
	}
	count, err := mask.Sum()
	if err != nil {
		t.Fatal(err)
	}
	if count.Kind() != ScalarInt || count.Int() != 3 {
		t.Errorf("sum(v > 25) = %s, want 3", count)
	}
}

func TestFilterEmptySelection(t *testing.T) {
	v := smokeVector()
	mask, _ := Compare(CmpGt, Vec(v), Lit(IntScalar(1000)))
	out, err := v.Filter(mask)
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 || out.DType() != I64 {
		t.Errorf("empty filter = %s", out)
	}
	if err := out.Validate(); err != nil {
		t.Error(err)
	}
}

func TestFilterNulls(t *testing.T) {
	v := smokeVector()
	_ = v.SetNull(3)
	mask := FromBools(nil, []bool{true, true, true, true, true})
	_ = mask.SetNull(0)

	out, err := v.Filter(mask)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := out.Int64s()
	if !reflect.DeepEqual(got, []int64{20, 30, 40, 50}) {
		t.Errorf("filtered = %v", got)
	}
	if !reflect.DeepEqual(out.nulls, []uint8{0, 0, 1, 0}) {
		t.Errorf("mask = %v", out.nulls)
	}

	clean := FromBools(nil, []bool{true, false, false, false, false})
	out, _ = v.Filter(clean)
	if out.HasMask() {
		t.Error("mask allocated although no selected element was null")
	}
}

func TestFilterStrAndCat(t *testing.T) {
	s, _ := FromStrings(nil, []string{"a", "bb", "ccc"}, nil)
	mask := FromBools(nil, []bool{true, false, true})
	out, err := s.Filter(mask)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := out.Strings(); !reflect.DeepEqual(got, []string{"a", "ccc"}) {
		t.Errorf("str filter = %q", got)
	}
	c, _ := s.ToCategorical()
	out, err = c.Filter(mask)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := out.Strings(); !reflect.DeepEqual(got, []string{"a", "ccc"}) {
		t.Errorf("cat filter = %q", got)
	}
}

func TestFilterErrors(t *testing.T) {
	v := smokeVector()
	if _, err := v.Filter(FromBools(nil, []bool{true})); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short mask: %v", err)
	}
	if _, err := v.Filter(smokeVector()); !errors.Is(err, ErrDType) {
		t.Errorf("i64 mask: %v", err)
	}
}

func TestSlice(t *testing.T) {
	v := smokeVector()
	tests := []struct {
		lo, hi int
		want   []int64
	}{
		{1, 3, []int64{20, 30}},
		{-2, 5, []int64{40, 50}},
		{3, 100, []int64{40, 50}},
		{4, 2, []int64{}},
	}
	for _, tt := range tests {
		out, err := v.Slice(tt.lo, tt.hi)
		if err != nil {
			t.Fatal(err)
		}
		got, _ := out.Int64s()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Slice(%d, %d) = %v, want %v", tt.lo, tt.hi, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// Reductions
// ---------------------------------------------------------------------------

func TestReductions(t *testing.T) {
	v := smokeVector()
	sum, _ := v.Sum()
	if sum.Kind() != ScalarFloat || sum.Float() != 150 {
		t.Errorf("sum = %s", sum)
	}
	lo, _ := v.Min()
	hi, _ := v.Max()
	if lo.Kind() != ScalarInt || lo.Int() != 10 || hi.Int() != 50 {
		t.Errorf("min/max = %s/%s", lo, hi)
	}
	mean, _ := v.Mean()
	if mean.Float() != 30 {
		t.Errorf("mean = %s", mean)
	}

	f := FromFloat64s(nil, []float64{2.5, -1, 7})
	fmin, _ := f.Min()
	if fmin.Kind() != ScalarFloat || fmin.Float() != -1 {
		t.Errorf("f64 min = %s", fmin)
	}
	b := FromBools(nil, []bool{false, true})
	bmax, _ := b.Max()
	if bmax.Kind() != ScalarBool || !bmax.Bool() {
		t.Errorf("bool max = %s", bmax)
	}
}

func TestReductionsIncludeNulls(t *testing.T) {
	v := smokeVector()
	_ = v.SetNull(0)
	sum, _ := v.Sum()
	if sum.Float() != 150 {
		t.Errorf("sum with null = %s, want 150", sum)
	}
	if v.Count() != 4 {
		t.Errorf("Count() = %d, want 4", v.Count())
	}
}

func TestReductionErrors(t *testing.T) {
	empty, _ := New(nil, F64, 0)
	if _, err := empty.Min(); !errors.Is(err, ErrEmpty) {
		t.Errorf("min of empty: %v", err)
	}
	if _, err := empty.Max(); !errors.Is(err, ErrEmpty) {
		t.Errorf("max of empty: %v", err)
	}
	if s, err := empty.Sum(); err != nil || s.Float() != 0 {
		t.Errorf("sum of empty = %s, %v", s, err)
	}
	str, _ := FromStrings(nil, []string{"a"}, nil)
	if _, err := str.Sum(); !errors.Is(err, ErrDType) {
		t.Errorf("sum of str: %v", err)
	}
}
