package vector

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func smokeVector() *Vector {
	return FromInt64s(nil, []int64{10, 20, 30, 40, 50})
}

func mustBools(t *testing.T, v *Vector) []bool {
	t.Helper()
	if err := v.Validate(); err != nil {
		t.Fatalf("result invalid: %v", err)
	}
	out, ok := v.Bools()
	if !ok {
		t.Fatalf("result dtype %s, want bool", v.DType())
	}
	return out
}

// ---------------------------------------------------------------------------
// Arithmetic
// ---------------------------------------------------------------------------

func TestArithIntegerPath(t *testing.T) {
	v := smokeVector()
	tests := []struct {
		op   ArithOp
		want []int64
	}{
		{OpAdd, []int64{11, 21, 31, 41, 51}},
		{OpSub, []int64{9, 19, 29, 39, 49}},
		{OpMul, []int64{10, 20, 30, 40, 50}},
	}
	for _, tt := range tests {
		out, err := Arith(tt.op, Vec(v), Lit(IntScalar(1)))
		if err != nil {
			t.Fatalf("%s: %v", tt.op, err)
		}
		got, ok := out.Int64s()
		if !ok {
			t.Fatalf("%s: dtype %s, want i64", tt.op, out.DType())
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestArithDivPromotes(t *testing.T) {
	out, err := Div(Vec(FromInt64s(nil, []int64{6, 3})), Lit(IntScalar(3)))
	if err != nil {
		t.Fatal(err)
	}
	got, ok := out.Float64s()
	if !ok || !reflect.DeepEqual(got, []float64{2, 1}) {
		t.Errorf("div = %v (dtype %s)", got, out.DType())
	}
}

func TestArithFloatPath(t *testing.T) {
	i := FromInt64s(nil, []int64{1, 2})
	f := FromFloat64s(nil, []float64{0.5, 0.25})
	out, err := Add(Vec(i), Vec(f))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := out.Float64s(); !reflect.DeepEqual(got, []float64{1.5, 2.25}) {
		t.Errorf("i64+f64 = %v", got)
	}
	out, err = Mul(Lit(FloatScalar(2)), Vec(i))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := out.Float64s(); !reflect.DeepEqual(got, []float64{2, 4}) {
		t.Errorf("2.0*i64 = %v", got)
	}
}

func TestArithScalarOnLeft(t *testing.T) {
	out, err := Sub(Lit(IntScalar(100)), Vec(smokeVector()))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := out.Int64s(); !reflect.DeepEqual(got, []int64{90, 80, 70, 60, 50}) {
		t.Errorf("100-v = %v", got)
	}
}

func TestArithDivByZeroIsIEEE(t *testing.T) {
	out, err := Div(Vec(FromFloat64s(nil, []float64{1, -1})), Lit(IntScalar(0)))
	if err != nil {
		t.Fatal(err)
	}
	got, _ := out.Float64s()
	if !math.IsInf(got[0], 1) || !math.IsInf(got[1], -1) {
		t.Errorf("x/0 = %v", got)
	}
}

func TestArithErrors(t *testing.T) {
	v := smokeVector()
	if _, err := Add(Lit(IntScalar(1)), Lit(IntScalar(2))); !errors.Is(err, ErrUnsupported) {
		t.Errorf("scalar+scalar: %v", err)
	}
	if _, err := Add(Vec(v), Vec(FromInt64s(nil, []int64{1}))); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("length mismatch: %v", err)
	}
	s, _ := FromStrings(nil, []string{"a", "b", "c", "d", "e"}, nil)
	if _, err := Add(Vec(v), Vec(s)); !errors.Is(err, ErrDType) {
		t.Errorf("i64+str: %v", err)
	}
	if _, err := Add(Vec(v), Lit(StringScalar("x"))); !errors.Is(err, ErrDType) {
		t.Errorf("i64+string: %v", err)
	}
	broken := &Vector{count: 2, storage: &f64Storage{data: []float64{1}}}
	if _, err := Add(Vec(broken), Lit(IntScalar(1))); !errors.Is(err, ErrInvalid) {
		t.Errorf("invalid operand: %v", err)
	}
}

func TestKernelsDoNotMutateOperands(t *testing.T) {
	v := smokeVector()
	if _, err := Add(Vec(v), Vec(v)); err != nil {
		t.Fatal(err)
	}
	if got, _ := v.Int64s(); !reflect.DeepEqual(got, []int64{10, 20, 30, 40, 50}) {
		t.Errorf("operand changed: %v", got)
	}
}

func TestAddInPlace(t *testing.T) {
	v := smokeVector()
	if err := v.AddInPlace(IntScalar(5)); err != nil {
		t.Fatal(err)
	}
	if got, _ := v.Int64s(); !reflect.DeepEqual(got, []int64{15, 25, 35, 45, 55}) {
		t.Errorf("after add in place = %v", got)
	}
	if err := v.AddInPlace(FloatScalar(0.5)); !errors.Is(err, ErrDType) {
		t.Errorf("i64 += float: %v", err)
	}
	f := FromFloat64s(nil, []float64{1})
	if err := f.AddInPlace(IntScalar(1)); err != nil {
		t.Fatal(err)
	}
	if got, _ := f.Float64s(); got[0] != 2 {
		t.Errorf("f64 += 1 = %v", got)
	}
}

// ---------------------------------------------------------------------------
// Comparisons
// ---------------------------------------------------------------------------

func TestCompareSmoke(t *testing.T) {
	v := smokeVector()
	tests := []struct {
		op   CmpOp
		rhs  int64
		want []bool
	}{
		{CmpGt, 25, []bool{false, false, true, true, true}},
		{CmpLt, 25, []bool{true, true, false, false, false}},
		{CmpGte, 30, []bool{false, false, true, true, true}},
		{CmpLte, 30, []bool{true, true, true, false, false}},
		{CmpEq, 30, []bool{false, false, true, false, false}},
		{CmpNeq, 30, []bool{true, true, false, true, true}},
	}
	for _, tt := range tests {
		out, err := Compare(tt.op, Vec(v), Lit(IntScalar(tt.rhs)))
		if err != nil {
			t.Fatalf("%s: %v", tt.op, err)
		}
		if got := mustBools(t, out); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("v %s %d = %v, want %v", tt.op, tt.rhs, got, tt.want)
		}
	}
}

func TestCompareMixedNumeric(t *testing.T) {
	out, err := Compare(CmpLt, Vec(FromInt64s(nil, []int64{1, 2, 3})), Lit(FloatScalar(2.5)))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustBools(t, out); !reflect.DeepEqual(got, []bool{true, true, false}) {
		t.Errorf("i64 < 2.5 = %v", got)
	}
}

func TestCompareBoolEquality(t *testing.T) {
	a := FromBools(nil, []bool{true, false, true})
	b := FromBools(nil, []bool{true, true, false})
	out, err := Compare(CmpEq, Vec(a), Vec(b))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustBools(t, out); !reflect.DeepEqual(got, []bool{true, false, false}) {
		t.Errorf("bool eq = %v", got)
	}
	out, err = Compare(CmpNeq, Vec(a), Lit(BoolScalar(true)))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustBools(t, out); !reflect.DeepEqual(got, []bool{false, true, false}) {
		t.Errorf("bool neq true = %v", got)
	}
	if _, err := Compare(CmpLt, Vec(a), Vec(b)); !errors.Is(err, ErrDType) {
		t.Errorf("bool lt: %v", err)
	}
}

func TestCompareStringsByValue(t *testing.T) {
	s, _ := FromStrings(nil, []string{"a", "b", "a"}, nil)
	c, _ := ToCategorical(nil, []string{"a", "a", "b"}, nil)
	out, err := Compare(CmpEq, Vec(s), Vec(c))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustBools(t, out); !reflect.DeepEqual(got, []bool{true, false, false}) {
		t.Errorf("str == cat = %v", got)
	}
	out, err = Compare(CmpNeq, Lit(StringScalar("a")), Vec(s))
	if err != nil {
		t.Fatal(err)
	}
	if got := mustBools(t, out); !reflect.DeepEqual(got, []bool{false, true, false}) {
		t.Errorf("\"a\" != str = %v", got)
	}
	if _, err := Compare(CmpGt, Vec(s), Vec(c)); !errors.Is(err, ErrDType) {
		t.Errorf("str > cat: %v", err)
	}
}

func TestCompareCatSentinelWithoutMaskIsNull(t *testing.T) {
	c := FromCategoricalParts(nil, []int32{0, -1}, []string{"a"}, nil)
	out, err := Compare(CmpEq, Vec(c), Lit(StringScalar("a")))
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsNullAt(1) || out.IsNullAt(0) {
		t.Errorf("mask = %v", out.nulls)
	}
}

// ---------------------------------------------------------------------------
// Null propagation
// ---------------------------------------------------------------------------

func TestNullPropagation(t *testing.T) {
	a := FromInt64s(nil, []int64{1, 2, 3, 4})
	b := FromFloat64s(nil, []float64{1, 2, 3, 4})
	_ = a.SetNull(1)
	_ = b.SetNull(3)

	var results []*Vector
	for _, op := range []ArithOp{OpAdd, OpSub, OpMul, OpDiv} {
		out, err := Arith(op, Vec(a), Vec(b))
		if err != nil {
			t.Fatalf("%s: %v", op, err)
		}
		results = append(results, out)
	}
	for _, op := range []CmpOp{CmpLt, CmpLte, CmpGt, CmpGte, CmpEq, CmpNeq} {
		out, err := Compare(op, Vec(a), Vec(b))
		if err != nil {
			t.Fatalf("%s: %v", op, err)
		}
		results = append(results, out)
	}
	for _, out := range results {
		if err := out.Validate(); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 4; i++ {
			want := a.IsNullAt(i) || b.IsNullAt(i)
			if out.IsNullAt(i) != want {
				t.Errorf("%s: IsNullAt(%d) = %v, want %v", out, i, out.IsNullAt(i), want)
			}
		}
	}
}

func TestNoMaskWhenInputsHaveNone(t *testing.T) {
	out, err := Add(Vec(smokeVector()), Lit(IntScalar(1)))
	if err != nil {
		t.Fatal(err)
	}
	if out.HasMask() {
		t.Error("result has a mask although no input had one")
	}
}

func TestScalarOperandWithMaskedVector(t *testing.T) {
	v := smokeVector()
	_ = v.SetNull(4)
	out, err := Compare(CmpGt, Lit(IntScalar(100)), Vec(v))
	if err != nil {
		t.Fatal(err)
	}
	if !out.IsNullAt(4) || out.NullCount() != 1 {
		t.Errorf("mask = %v", out.nulls)
	}
}

// ---------------------------------------------------------------------------
// Parallel execution
// ---------------------------------------------------------------------------

func TestParallelMatchesSerial(t *testing.T) {
	defer SetParallelism(Parallelism())

	const n = 10_000
	data := make([]int64, n)
	for i := range data {
		data[i] = int64(i*7 - n)
	}
	v := FromInt64s(nil, data)
	_ = v.SetNull(123)

	run := func() ([]int64, []bool, []uint8) {
		sum, err := Add(Vec(v), Lit(IntScalar(3)))
		if err != nil {
			t.Fatal(err)
		}
		gt, err := Compare(CmpGt, Vec(v), Lit(IntScalar(0)))
		if err != nil {
			t.Fatal(err)
		}
		ints, _ := sum.Int64s()
		bools, _ := gt.Bools()
		return ints, bools, gt.NullMask()
	}

	SetParallelism(0, 0)
	serialInts, serialBools, serialMask := run()
	SetParallelism(100, 4)
	parInts, parBools, parMask := run()

	if !reflect.DeepEqual(serialInts, parInts) {
		t.Error("parallel add differs from serial")
	}
	if !reflect.DeepEqual(serialBools, parBools) {
		t.Error("parallel compare differs from serial")
	}
	if !reflect.DeepEqual(serialMask, parMask) {
		t.Error("parallel mask differs from serial")
	}
}

func TestParallelForCoversRange(t *testing.T) {
	defer SetParallelism(Parallelism())
	SetParallelism(10, 3)

	seen := make([]int, 1000)
	parallelFor(len(seen), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			seen[i]++
		}
	})
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}
