package runtime

import (
	"testing"
)

// BenchmarkScalarAdd measures the operator entry point on two ints.
// This is the common case for arithmetic in loops.
func BenchmarkScalarAdd(b *testing.B) {
	r, _, _ := newTestRuntime(b)
	x, y := MakeInt(1), MakeInt(2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = r.Add(x, y)
	}
}

// BenchmarkVectorAdd measures vector-scalar addition including the result
// allocation.
func BenchmarkVectorAdd(b *testing.B) {
	r, _, _ := newTestRuntime(b)
	data := make([]float64, 4096)
	for i := range data {
		data[i] = float64(i)
	}
	v := r.MakeVectorF64(data...)
	five := MakeInt(5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Add(v, five)
	}
}

// BenchmarkVectorFilter measures compare-then-mask selection.
func BenchmarkVectorFilter(b *testing.B) {
	r, _, _ := newTestRuntime(b)
	data := make([]int64, 4096)
	for i := range data {
		data[i] = int64(i)
	}
	v := r.MakeVectorI64(data...)
	cut := MakeInt(2048)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Get(v, r.Gt(v, cut))
	}
}

// BenchmarkCallMethod measures method dispatch by type name.
func BenchmarkCallMethod(b *testing.B) {
	r, _, _ := newTestRuntime(b)
	s := MakeString("quark")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.CallMethod(s, "len")
	}
}

// BenchmarkDictFallbackDispatch measures a method call resolved through a
// function stored in a dict.
func BenchmarkDictFallbackDispatch(b *testing.B) {
	r, _, _ := newTestRuntime(b)
	obj := r.NewDict()
	r.MemberSet(obj, "inc", MakeClosure(func(self *Closure, args []Value) Value {
		return ScalarAdd(args[0], self.Capture(0))
	}, MakeInt(1)))
	n := MakeInt(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n = r.CallMethod(obj, "inc", n)
	}
}

// BenchmarkCallBuiltin measures the builtin table lookup and arity check.
func BenchmarkCallBuiltin(b *testing.B) {
	r, _, _ := newTestRuntime(b)
	x := MakeFloat(-2.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.CallBuiltin("abs", x)
	}
}
