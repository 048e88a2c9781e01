package runtime

import (
	"math"
	"sort"
	"strings"
	"testing"
)

// ============================================================================
// Conversions
// ============================================================================

func TestIntConversion(t *testing.T) {
	tests := []struct {
		in   Value
		want int64
	}{
		{MakeInt(5), 5},
		{MakeFloat(3.9), 3},
		{MakeFloat(-3.9), -3},
		{MakeBool(true), 1},
		{MakeString("42"), 42},
		{MakeString("  -7xyz"), -7},
		{MakeString("+8"), 8},
		{MakeString("abc"), 0},
		{MakeString(""), 0},
		{MakeString("-"), 0},
		{MakeString("99999999999999999999"), math.MaxInt64},
		{MakeString("-99999999999999999999"), math.MinInt64},
		{MakeNull(), 0},
		{MakeList(0), 0},
	}
	for _, tt := range tests {
		got := Int(tt.in)
		if got.Kind() != KindInt || got.AsInt() != tt.want {
			t.Errorf("Int(%s %q) = %v, want %d", tt.in.TypeName(), tt.in.String(), got, tt.want)
		}
	}
}

func TestFloatConversion(t *testing.T) {
	tests := []struct {
		in   Value
		want float64
	}{
		{MakeInt(2), 2},
		{MakeFloat(0.25), 0.25},
		{MakeBool(true), 1},
		{MakeString("3.5"), 3.5},
		{MakeString("3.5e2x"), 350},
		{MakeString("1e"), 1},
		{MakeString(".5"), 0.5},
		{MakeString("-2."), -2},
		{MakeString(" \t6"), 6},
		{MakeString("."), 0},
		{MakeString("nan"), 0},
		{MakeNull(), 0},
	}
	for _, tt := range tests {
		got := Float(tt.in)
		if got.Kind() != KindFloat || got.AsFloat() != tt.want {
			t.Errorf("Float(%q) = %v, want %v", tt.in.String(), got, tt.want)
		}
	}
}

func TestStrTypeBoolLen(t *testing.T) {
	if got := Str(MakeFloat(2.5)); got.AsString() != "2.5" {
		t.Errorf("Str(2.5) = %v", got)
	}
	if got := Str(MakeNull()); got.AsString() != "null" {
		t.Errorf("Str(null) = %v", got)
	}
	if got := Type(MakeListFrom()); got.AsString() != "list" {
		t.Errorf("Type([]) = %v", got)
	}
	if Bool(MakeString("")).AsBool() || !Bool(MakeInt(3)).AsBool() {
		t.Error("Bool does not follow truthiness")
	}
	if got := Len(MakeString("abc")); !same(got, MakeInt(3)) {
		t.Errorf("Len = %v", got)
	}
}

// ============================================================================
// Math
// ============================================================================

func TestMathBuiltins(t *testing.T) {
	i, f, n := MakeInt, MakeFloat, MakeNull()
	tests := []struct {
		name string
		got  Value
		want Value
	}{
		{"abs int", Abs(i(-3)), i(3)},
		{"abs float", Abs(f(-1.5)), f(1.5)},
		{"abs string", Abs(MakeString("-1")), n},
		{"sqrt", Sqrt(i(9)), f(3)},
		{"sqrt negative", Sqrt(f(-1)), n},
		{"floor", Floor(f(2.7)), i(2)},
		{"floor negative", Floor(f(-2.1)), i(-3)},
		{"floor int", Floor(i(5)), i(5)},
		{"ceil", Ceil(f(2.1)), i(3)},
		{"round half up", Round(f(2.5)), i(3)},
		{"round half away", Round(f(-2.5)), i(-3)},
		{"round string", Round(MakeString("x")), n},
		{"min ints", Min2(i(1), i(2)), i(1)},
		{"min mixed", Min2(i(1), f(2.5)), f(1)},
		{"max ints", Max2(i(1), i(2)), i(2)},
		{"max mixed", Max2(f(0.5), i(-1)), f(0.5)},
		{"max string", Max2(MakeString("a"), i(1)), n},
	}
	for _, tt := range tests {
		if !same(tt.got, tt.want) {
			t.Errorf("%s = %s %v, want %s %v", tt.name, tt.got.TypeName(), tt.got, tt.want.TypeName(), tt.want)
		}
	}
}

func TestListAggregates(t *testing.T) {
	r, _, _ := newTestRuntime(t)
	tests := []struct {
		name string
		got  Value
		want Value
	}{
		{"sum ints", r.Sum(ints(1, 2, 3)), MakeInt(6)},
		{"sum mixed", r.Sum(MakeListFrom(MakeInt(1), MakeFloat(0.5))), MakeFloat(1.5)},
		{"sum empty", r.Sum(MakeList(0)), MakeInt(0)},
		{"sum strings", r.Sum(MakeListFrom(MakeString("a"))), MakeNull()},
		{"sum int", r.Sum(MakeInt(3)), MakeNull()},
		{"min", r.Min(ints(3, 1, 2)), MakeInt(1)},
		{"min mixed", r.Min(MakeListFrom(MakeInt(3), MakeFloat(1.5))), MakeFloat(1.5)},
		{"max", r.Max(ints(3, 1, 2)), MakeInt(3)},
		{"max empty", r.Max(MakeList(0)), MakeNull()},
		{"max with string", r.Max(MakeListFrom(MakeInt(1), MakeString("z"))), MakeNull()},
	}
	for _, tt := range tests {
		if !same(tt.got, tt.want) {
			t.Errorf("%s = %s %v, want %v", tt.name, tt.got.TypeName(), tt.got, tt.want)
		}
	}
}

func TestRange(t *testing.T) {
	r, diags, _ := newTestRuntime(t)
	tests := []struct {
		args []Value
		want []int64
	}{
		{[]Value{MakeInt(4)}, []int64{0, 1, 2, 3}},
		{[]Value{MakeInt(2), MakeInt(5)}, []int64{2, 3, 4}},
		{[]Value{MakeInt(0), MakeInt(10), MakeInt(3)}, []int64{0, 3, 6, 9}},
		{[]Value{MakeInt(10), MakeInt(0), MakeInt(-3)}, []int64{10, 7, 4, 1}},
		{[]Value{MakeInt(5), MakeInt(0)}, []int64{}},
		{[]Value{MakeInt(-2)}, []int64{}},
		{[]Value{MakeInt(math.MaxInt64 - 2), MakeInt(math.MaxInt64)}, []int64{math.MaxInt64 - 2, math.MaxInt64 - 1}},
		{[]Value{MakeInt(-1), MakeInt(math.MaxInt64), MakeInt(math.MaxInt64)}, []int64{-1, math.MaxInt64 - 1}},
		{[]Value{MakeInt(0), MakeInt(math.MinInt64), MakeInt(math.MinInt64)}, []int64{0}},
		{[]Value{MakeInt(math.MinInt64 + 1), MakeInt(math.MinInt64), MakeInt(-1)}, []int64{math.MinInt64 + 1}},
	}
	for _, tt := range tests {
		if got := listInts(t, r.Range(tt.args...)); !equalInts(got, tt.want) {
			t.Errorf("Range(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
	if !r.Range(MakeInt(0), MakeInt(5), MakeInt(0)).IsNull() {
		t.Error("zero step is not null")
	}
	if !r.Range(MakeFloat(3)).IsNull() {
		t.Error("float stop is not null")
	}
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.All())
	}

	// A span wider than int64 is counted without wrapping and rejected.
	if got := r.Range(MakeInt(math.MinInt64), MakeInt(math.MaxInt64)); !got.IsNull() {
		t.Errorf("full int64 range = %s len=%d, want null", got.TypeName(), got.Len())
	}
	if all := diags.All(); len(all) != 1 || all[0].Op != "range" {
		t.Errorf("diagnostics = %v", all)
	}
}

// ============================================================================
// Strings
// ============================================================================

func TestStringBuiltins(t *testing.T) {
	r, _, _ := newTestRuntime(t)
	s := MakeString
	tests := []struct {
		name string
		got  Value
		want Value
	}{
		{"upper", Upper(s("abc")), s("ABC")},
		{"upper unicode", Upper(s("héllo")), s("HÉLLO")},
		{"lower", Lower(s("ÀB")), s("àb")},
		{"upper int", Upper(MakeInt(1)), MakeNull()},
		{"trim", Trim(s(" \t x y \n")), s("x y")},
		{"contains", Contains(s("hello"), s("ell")), MakeBool(true)},
		{"contains empty", Contains(s("hello"), s("")), MakeBool(true)},
		{"startswith", StartsWith(s("hello"), s("he")), MakeBool(true)},
		{"endswith", EndsWith(s("hello"), s("he")), MakeBool(false)},
		{"endswith int", EndsWith(s("hello"), MakeInt(1)), MakeNull()},
		{"replace", Replace(s("aaa"), s("a"), s("bb")), s("bbbbbb")},
		{"replace empty old", Replace(s("abc"), s(""), s("x")), s("abc")},
		{"concat", StrConcat(s("ab"), s("cd")), s("abcd")},
		{"concat int", StrConcat(s("ab"), MakeInt(1)), MakeNull()},
		{"builtin concat", r.CallBuiltin("concat", s("x"), s("y")), s("xy")},
	}
	for _, tt := range tests {
		if !same(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestSplit(t *testing.T) {
	r, _, _ := newTestRuntime(t)
	tests := []struct {
		s, sep string
		want   []string
	}{
		{"a,b,c", ",", []string{"a", "b", "c"}},
		{"a,,b", ",", []string{"a", "", "b"}},
		{"a::b", "::", []string{"a", "b"}},
		{"abc", "", []string{"abc"}},
		{"", ",", []string{""}},
	}
	for _, tt := range tests {
		items := r.Split(MakeString(tt.s), MakeString(tt.sep)).AsList().Items
		if len(items) != len(tt.want) {
			t.Errorf("Split(%q, %q) has %d parts, want %d", tt.s, tt.sep, len(items), len(tt.want))
			continue
		}
		for i, w := range tt.want {
			if items[i].AsString() != w {
				t.Errorf("Split(%q, %q)[%d] = %q, want %q", tt.s, tt.sep, i, items[i].AsString(), w)
			}
		}
	}
	if !r.Split(MakeInt(1), MakeString(",")).IsNull() {
		t.Error("Split of an int is not null")
	}
}

// ============================================================================
// I/O
// ============================================================================

func TestPrint(t *testing.T) {
	r, _, out := newTestRuntime(t)
	r.CallBuiltin("print", MakeString("a"))
	r.CallBuiltin("print", MakeInt(1))
	r.CallBuiltin("print")
	r.CallBuiltin("println", MakeFloat(0.5))
	r.CallBuiltin("println")
	r.CallBuiltin("println", MakeBool(false))
	r.CallBuiltin("println", ints(1, 2))

	want := "a10.5\n\nfalse\n[list len=2]\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestInput(t *testing.T) {
	var out strings.Builder
	cfg := DefaultConfig()
	cfg.Allocator = "tracing"
	cfg.Diagnostics = DiscardDiagnostics
	cfg.Stdout = &out
	cfg.Stdin = strings.NewReader("first\nsecond\r\nlast")
	r, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	want := []string{"first", "second\r", "last", "", ""}
	for i, w := range want {
		prompt := MakeNull()
		if i == 0 {
			prompt = MakeString("> ")
		}
		if got := r.CallBuiltin("input", prompt); got.AsString() != w || got.Kind() != KindString {
			t.Errorf("input %d = %q, want %q", i, got.AsString(), w)
		}
	}
	if out.String() != "> " {
		t.Errorf("prompt output = %q", out.String())
	}
}

// ============================================================================
// Builtin table
// ============================================================================

func TestCallBuiltinArity(t *testing.T) {
	r, diags, _ := newTestRuntime(t)

	if !r.CallBuiltin("abs").IsNull() {
		t.Error("abs with no arguments is not null")
	}
	if !r.CallBuiltin("replace", MakeString("a"), MakeString("b")).IsNull() {
		t.Error("replace with two arguments is not null")
	}
	if diags.Len() != 0 {
		t.Errorf("missing arguments reported: %v", diags.All())
	}

	if got := r.CallBuiltin("abs", MakeInt(-4), MakeInt(100)); !same(got, MakeInt(4)) {
		t.Errorf("abs with extra argument = %v", got)
	}

	if !r.CallBuiltin("frobnicate", MakeInt(1)).IsNull() {
		t.Error("unknown builtin is not null")
	}
	all := diags.All()
	if len(all) != 1 || all[0].Message != "unknown builtin 'frobnicate'" {
		t.Errorf("diagnostics = %v", all)
	}
}

func TestRegisterBuiltin(t *testing.T) {
	r, _, _ := newTestRuntime(t)
	r.RegisterBuiltin("twice", func(r *Runtime, args []Value) Value {
		return r.Add(args[0], args[0])
	}, 1, 1)

	if got := r.CallBuiltin("twice", MakeInt(21)); !same(got, MakeInt(42)) {
		t.Errorf("twice(21) = %v", got)
	}
	names := r.Builtins()
	if !sort.StringsAreSorted(names) {
		t.Error("Builtins() is not sorted")
	}
	if e := r.LookupBuiltin("twice"); e == nil || e.MinArgs != 1 || e.MaxArgs != 1 {
		t.Errorf("LookupBuiltin = %+v", e)
	}
}

func TestBuiltinsRouteByReceiver(t *testing.T) {
	r, diags, _ := newTestRuntime(t)

	v := r.MakeVectorF64(1)
	r.CallBuiltin("push", v, MakeFloat(2))
	l := r.NewList(0)
	r.CallBuiltin("push", l, MakeFloat(2))
	if v.Len() != 2 || l.Len() != 1 {
		t.Errorf("push lens = %d, %d", v.Len(), l.Len())
	}

	if got := r.CallBuiltin("slice", v, MakeInt(1), MakeInt(2)); got.TypeName() != "vector[f64]" || got.Len() != 1 {
		t.Errorf("slice on vector = %s len %d", got.TypeName(), got.Len())
	}
	if got := r.CallBuiltin("slice", ints(1, 2, 3), MakeInt(0), MakeInt(2)); got.Kind() != KindList || got.Len() != 2 {
		t.Errorf("slice on list = %s len %d", got.TypeName(), got.Len())
	}

	if got := r.CallBuiltin("mean", v); !same(got, MakeFloat(1.5)) {
		t.Errorf("mean = %v", got)
	}
	if got := r.CallBuiltin("astype", v, MakeString("i64")); got.TypeName() != "vector[i64]" {
		t.Errorf("astype = %s", got.TypeName())
	}
	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", diags.All())
	}
}
