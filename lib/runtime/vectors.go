package runtime

import (
	"errors"
	"fmt"

	"github.com/chazu/quark/vector"
)

// Vector entry points. Every function takes and returns Values; engine
// errors become diagnostics and the result is Null.

func (r *Runtime) vectorArg(op string, v Value) (*vector.Vector, bool) {
	if v.kind != KindVector || v.vec == nil {
		r.failf(op, "%s expects vector; got type '%s'", op, v.TypeName())
		return nil, false
	}
	return v.vec, true
}

// MakeVector creates an empty vector of the named dtype through the
// runtime's allocator.
func (r *Runtime) MakeVector(dtype string, capacity int) Value {
	dt, err := vector.ParseDType(dtype)
	if err != nil {
		return r.fail("make_vector", err)
	}
	v, err := vector.New(r.alloc, dt, capacity)
	if err != nil {
		return r.fail("make_vector", err)
	}
	return WrapVector(v)
}

// MakeVectorF64 creates an f64 vector holding a copy of data.
func (r *Runtime) MakeVectorF64(data ...float64) Value {
	return WrapVector(vector.FromFloat64s(r.alloc, data))
}

// MakeVectorI64 creates an i64 vector holding a copy of data.
func (r *Runtime) MakeVectorI64(data ...int64) Value {
	return WrapVector(vector.FromInt64s(r.alloc, data))
}

// MakeVectorBool creates a bool vector.
func (r *Runtime) MakeVectorBool(data ...bool) Value {
	return WrapVector(vector.FromBools(r.alloc, data))
}

// MakeVectorStr creates a str vector without nulls.
func (r *Runtime) MakeVectorStr(data ...string) Value {
	v, err := vector.FromStrings(r.alloc, data, nil)
	if err != nil {
		return r.fail("make_vector", err)
	}
	return WrapVector(v)
}

// MakeVectorCat creates a categorical vector without nulls.
func (r *Runtime) MakeVectorCat(data ...string) Value {
	v, err := vector.ToCategorical(r.alloc, data, nil)
	if err != nil {
		return r.fail("make_vector", err)
	}
	return WrapVector(v)
}

// VecPush appends item and returns the vector. Null appends a null element.
func (r *Runtime) VecPush(vec, item Value) Value {
	v, ok := r.vectorArg("push", vec)
	if !ok {
		return MakeNull()
	}
	if item.IsNull() {
		if err := v.PushNull(); err != nil {
			return r.fail("push", err)
		}
		return vec
	}
	s, ok := toScalar(item)
	if !ok {
		return r.failf("push", "cannot push %s onto vector", item.TypeName())
	}
	if err := v.Push(s); err != nil {
		return r.fail("push", err)
	}
	return vec
}

// AsType casts between f64, i64 and bool, returning a new vector.
func (r *Runtime) AsType(vec Value, dtype string) Value {
	v, ok := r.vectorArg("astype", vec)
	if !ok {
		return MakeNull()
	}
	dt, err := vector.ParseDType(dtype)
	if err != nil {
		return r.fail("astype", err)
	}
	out, err := v.AsType(dt)
	if err != nil {
		return r.fail("astype", err)
	}
	return WrapVector(out)
}

// FillNA replaces nulls with fill in place and returns the vector, which
// reports no nulls afterwards.
func (r *Runtime) FillNA(vec, fill Value) Value {
	v, ok := r.vectorArg("fillna", vec)
	if !ok {
		return MakeNull()
	}
	s, ok := toScalar(fill)
	if !ok {
		return r.failf("fillna", "cannot fill vector with %s", fill.TypeName())
	}
	if err := v.FillNull(s); err != nil {
		return r.fail("fillna", err)
	}
	return vec
}

// ToVector converts a list into a vector, or clones a vector. The dtype is
// inferred from the non-null elements, which must all be Int, all Float or
// all String. An empty or all-null list gives an i64 vector.
func (r *Runtime) ToVector(input Value) Value {
	if input.kind == KindVector {
		if err := input.vec.Validate(); err != nil {
			return r.fail("to_vector", err)
		}
		return WrapVector(input.vec.Clone())
	}
	if input.kind != KindList {
		return r.failf("to_vector", "to_vector expects list or vector; got type '%s'", input.TypeName())
	}

	items := input.list.Items
	elem := KindNull
	for _, it := range items {
		switch it.kind {
		case KindNull:
			continue
		case KindInt, KindFloat, KindString:
		default:
			return r.failf("to_vector", "unsupported element type '%s'", it.TypeName())
		}
		if elem == KindNull {
			elem = it.kind
		} else if elem != it.kind {
			return r.failf("to_vector", "mixed element types '%s' and '%s'", elem, it.kind)
		}
	}

	n := len(items)
	var out *vector.Vector
	switch elem {
	case KindFloat:
		data := make([]float64, n)
		for i, it := range items {
			data[i] = it.f
		}
		out = vector.FromFloat64s(r.alloc, data)
	case KindString:
		values := make([]string, n)
		nulls := make([]bool, n)
		for i, it := range items {
			values[i] = it.s
			nulls[i] = it.kind == KindNull
		}
		v, err := vector.FromStrings(r.alloc, values, nulls)
		if err != nil {
			return r.fail("to_vector", err)
		}
		return WrapVector(v)
	default:
		data := make([]int64, n)
		for i, it := range items {
			data[i] = it.i
		}
		out = vector.FromInt64s(r.alloc, data)
	}
	for i, it := range items {
		if it.kind == KindNull {
			if err := out.SetNull(i); err != nil {
				return r.fail("to_vector", err)
			}
		}
	}
	return WrapVector(out)
}

// ToList decodes every element into a new list. Null elements become Null;
// cat elements decode to their strings.
func (r *Runtime) ToList(vec Value) Value {
	v, ok := r.vectorArg("to_list", vec)
	if !ok {
		return MakeNull()
	}
	items, err := r.elements(v)
	if err != nil {
		return r.fail("to_list", err)
	}
	out := r.newList(len(items))
	out.list.Items = append(out.list.Items, items...)
	return out
}

// elements boxes each element of v, honoring the mask.
func (r *Runtime) elements(v *vector.Vector) ([]Value, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	n := v.Len()
	items := make([]Value, n)
	switch v.DType() {
	case vector.F64:
		data, _ := v.Float64s()
		for i, x := range data {
			items[i] = MakeFloat(x)
		}
	case vector.I64:
		data, _ := v.Int64s()
		for i, x := range data {
			items[i] = MakeInt(x)
		}
	case vector.Bool:
		data, _ := v.Bools()
		for i, x := range data {
			items[i] = MakeBool(x)
		}
	case vector.Str:
		data, err := v.Strings()
		if err != nil {
			return nil, err
		}
		for i, x := range data {
			items[i] = MakeString(x)
		}
	case vector.Cat:
		data, nulls, err := v.FromCategorical()
		if err != nil {
			return nil, err
		}
		for i, x := range data {
			if nulls[i] {
				continue
			}
			items[i] = MakeString(x)
		}
	}
	if v.HasNulls() {
		for i := range items {
			if v.IsNullAt(i) {
				items[i] = MakeNull()
			}
		}
	}
	return items, nil
}

// ToCategorical dictionary-encodes a list of strings (Null allowed) or a str
// vector.
func (r *Runtime) ToCategorical(input Value) Value {
	switch input.kind {
	case KindVector:
		out, err := input.vec.ToCategorical()
		if err != nil {
			return r.fail("to_categorical", err)
		}
		return WrapVector(out)
	case KindList:
		items := input.list.Items
		values := make([]string, len(items))
		nulls := make([]bool, len(items))
		for i, it := range items {
			switch it.kind {
			case KindString:
				values[i] = it.s
			case KindNull:
				nulls[i] = true
			default:
				return r.failf("to_categorical", "element %d has type '%s'; expected str or null", i, it.TypeName())
			}
		}
		out, err := vector.ToCategorical(r.alloc, values, nulls)
		if err != nil {
			return r.fail("to_categorical", err)
		}
		return WrapVector(out)
	}
	return r.failf("to_categorical", "to_categorical expects list or str vector; got type '%s'", input.TypeName())
}

// FromCategorical decodes a cat vector into a list of strings and Nulls.
func (r *Runtime) FromCategorical(vec Value) Value {
	v, ok := r.vectorArg("from_categorical", vec)
	if !ok {
		return MakeNull()
	}
	if v.DType() != vector.Cat {
		return r.failf("from_categorical", "from_categorical expects cat vector; got %s", vec.TypeName())
	}
	return r.ToList(vec)
}

// reduce runs a reduction. An empty vector is a domain failure and gives
// Null without a diagnostic.
func (r *Runtime) reduce(op string, vec Value, fn func(*vector.Vector) (vector.Scalar, error)) Value {
	v, ok := r.vectorArg(op, vec)
	if !ok {
		return MakeNull()
	}
	s, err := fn(v)
	if errors.Is(err, vector.ErrEmpty) {
		return MakeNull()
	}
	if err != nil {
		return r.fail(op, err)
	}
	return fromScalar(s)
}

func (r *Runtime) VecSum(vec Value) Value {
	return r.reduce("sum", vec, (*vector.Vector).Sum)
}

func (r *Runtime) VecMin(vec Value) Value {
	return r.reduce("min", vec, (*vector.Vector).Min)
}

func (r *Runtime) VecMax(vec Value) Value {
	return r.reduce("max", vec, (*vector.Vector).Max)
}

func (r *Runtime) VecMean(vec Value) Value {
	return r.reduce("mean", vec, (*vector.Vector).Mean)
}

// VecCount returns the number of non-null elements.
func (r *Runtime) VecCount(vec Value) Value {
	v, ok := r.vectorArg("count", vec)
	if !ok {
		return MakeNull()
	}
	return MakeInt(int64(v.Count()))
}

// VaddInPlace adds a scalar to every element, mutating the vector, and
// returns it.
func (r *Runtime) VaddInPlace(vec, scalar Value) Value {
	v, ok := r.vectorArg("vadd_inplace", vec)
	if !ok {
		return MakeNull()
	}
	s, ok := toScalar(scalar)
	if !ok {
		return r.failf("vadd_inplace", "cannot add %s to vector", scalar.TypeName())
	}
	if err := v.AddInPlace(s); err != nil {
		return r.fail("vadd_inplace", err)
	}
	return vec
}

// IsNullAt reports whether element i is null. A vector without a mask has
// no nulls.
func (r *Runtime) IsNullAt(vec, index Value) Value {
	v, ok := r.vectorArg("is_null_at", vec)
	if !ok {
		return MakeNull()
	}
	if index.kind != KindInt {
		return r.failf("is_null_at", "index must be int; got type '%s'", index.TypeName())
	}
	return MakeBool(v.IsNullAt(int(index.i)))
}

// SetNullAt marks element i null and returns the vector.
func (r *Runtime) SetNullAt(vec, index Value) Value {
	v, ok := r.vectorArg("set_null", vec)
	if !ok {
		return MakeNull()
	}
	if index.kind != KindInt {
		return r.failf("set_null", "index must be int; got type '%s'", index.TypeName())
	}
	if err := v.SetNull(int(index.i)); err != nil {
		return r.fail("set_null", err)
	}
	return vec
}

// HasNulls reports whether any element is null.
func (r *Runtime) HasNulls(vec Value) Value {
	v, ok := r.vectorArg("has_nulls", vec)
	if !ok {
		return MakeNull()
	}
	return MakeBool(v.HasNulls())
}

// VecSlice returns elements [lo, hi) as a new vector.
func (r *Runtime) VecSlice(vec Value, lo, hi int64) Value {
	v, ok := r.vectorArg("slice", vec)
	if !ok {
		return MakeNull()
	}
	out, err := v.Slice(int(lo), int(hi))
	if err != nil {
		return r.fail("slice", err)
	}
	return WrapVector(out)
}

// formatVector renders the elements of v as [a, b, null].
func (r *Runtime) formatVector(v *vector.Vector) string {
	items, err := r.elements(v)
	if err != nil {
		return "vector[invalid]"
	}
	buf := []byte{'['}
	for i, it := range items {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		if it.kind == KindString {
			buf = fmt.Appendf(buf, "%q", it.s)
			continue
		}
		buf = append(buf, it.String()...)
	}
	return string(append(buf, ']'))
}
