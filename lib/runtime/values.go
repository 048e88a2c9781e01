// Package runtime is the value runtime that compiled quark programs link
// against. It provides the tagged Value type, scalar and vector operators,
// lists, dicts, closures, method dispatch by type name and the builtin
// function table. Operations never return Go errors: failures produce a
// Null value and, where the failure is worth a human's attention, a
// Diagnostic on the runtime's sink.
package runtime

import (
	"strconv"
	"unsafe"

	"github.com/chazu/quark/vector"
)

// Kind is the variant tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindList
	KindDict
	KindFunc
	KindResult
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "str"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	case KindFunc:
		return "func"
	case KindResult:
		return "result"
	case KindVector:
		return "vector"
	}
	return "unknown"
}

// Value is a quark value. Only the constructors below build non-null
// values, so the tag always matches the payload. Copying a Value copies
// handles: lists, dicts, closures, results and vectors are shared.
type Value struct {
	kind Kind
	i    int64 // Int payload; 0/1 for Bool
	f    float64
	s    string
	list *List
	dict *Dict
	fn   *Closure
	res  *ResultBox
	vec  *vector.Vector
}

var valueSize = int(unsafe.Sizeof(Value{}))

// ResultBox is the payload of a Result value.
type ResultBox struct {
	Ok    bool
	Value Value
}

// MakeNull returns the null value.
func MakeNull() Value {
	return Value{}
}

// MakeInt creates an integer value
func MakeInt(n int64) Value {
	return Value{kind: KindInt, i: n}
}

// MakeFloat creates a float value
func MakeFloat(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// MakeBool creates a boolean value
func MakeBool(b bool) Value {
	if b {
		return Value{kind: KindBool, i: 1}
	}
	return Value{kind: KindBool}
}

// MakeString creates a string value. Go strings are immutable, so the
// value never observes later changes to the caller's data.
func MakeString(s string) Value {
	return Value{kind: KindString, s: s}
}

// MakeStringBytes creates a string value from a copy of b.
func MakeStringBytes(b []byte) Value {
	return Value{kind: KindString, s: string(b)}
}

// MakeList creates an empty list with room for capacity elements.
func MakeList(capacity int) Value {
	if capacity < 0 {
		capacity = 0
	}
	return Value{kind: KindList, list: &List{Items: make([]Value, 0, capacity)}}
}

// MakeListFrom creates a list holding vals.
func MakeListFrom(vals ...Value) Value {
	items := make([]Value, len(vals))
	copy(items, vals)
	return Value{kind: KindList, list: &List{Items: items}}
}

// MakeDict creates an empty dict.
func MakeDict() Value {
	return Value{kind: KindDict, dict: &Dict{Entries: make(map[string]Value)}}
}

// MakeClosure binds fn to captures. The captures are copied; the closure
// owns its capture slice from here on.
func MakeClosure(fn ClosureFunc, captures ...Value) Value {
	caps := make([]Value, len(captures))
	copy(caps, captures)
	return Value{kind: KindFunc, fn: &Closure{Fn: fn, Captures: caps}}
}

// MakeFunc is MakeClosure without captures.
func MakeFunc(fn ClosureFunc) Value {
	return Value{kind: KindFunc, fn: &Closure{Fn: fn}}
}

// MakeOk wraps v in a successful Result.
func MakeOk(v Value) Value {
	return Value{kind: KindResult, res: &ResultBox{Ok: true, Value: v}}
}

// MakeErr wraps v in a failed Result.
func MakeErr(v Value) Value {
	return Value{kind: KindResult, res: &ResultBox{Value: v}}
}

// WrapVector makes a vector value sharing v.
func WrapVector(v *vector.Vector) Value {
	return Value{kind: KindVector, vec: v}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull returns true if the value is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric reports Int and Float values.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// AsInt returns the integer payload of an Int or Bool, or 0.
func (v Value) AsInt() int64 {
	if v.kind == KindInt || v.kind == KindBool {
		return v.i
	}
	return 0
}

// AsFloat returns a numeric value as float64, or 0.
func (v Value) AsFloat() float64 {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return float64(v.i)
	}
	return 0
}

// AsBool returns the payload of a Bool, or false.
func (v Value) AsBool() bool { return v.kind == KindBool && v.i != 0 }

// AsString returns the payload of a String, or "".
func (v Value) AsString() string {
	if v.kind == KindString {
		return v.s
	}
	return ""
}

func (v Value) AsList() *List            { return v.list }
func (v Value) AsDict() *Dict            { return v.dict }
func (v Value) AsClosure() *Closure      { return v.fn }
func (v Value) AsResult() *ResultBox     { return v.res }
func (v Value) AsVector() *vector.Vector { return v.vec }

// Truthy is the predicate every conditional branch uses. It never panics.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.i != 0
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindList:
		return v.list != nil && len(v.list.Items) > 0
	case KindDict:
		return v.dict != nil && len(v.dict.Entries) > 0
	case KindVector:
		return v.vec.Len() > 0
	case KindFunc:
		return v.fn != nil && v.fn.Fn != nil
	case KindResult:
		return v.res != nil && v.res.Ok
	}
	return false
}

// TypeName returns the runtime type name: int, float, bool, str, null,
// list, dict, func, result or vector[<dtype>]. A structurally invalid
// vector reports vector[invalid].
func (v Value) TypeName() string {
	if v.kind != KindVector {
		return v.kind.String()
	}
	if v.vec.Validate() != nil {
		return "vector[invalid]"
	}
	return "vector[" + v.vec.DType().String() + "]"
}

// Len is the string byte length or the element count of a list, dict or
// vector, and 0 for everything else.
func (v Value) Len() int {
	switch v.kind {
	case KindString:
		return len(v.s)
	case KindList:
		if v.list != nil {
			return len(v.list.Items)
		}
	case KindDict:
		if v.dict != nil {
			return len(v.dict.Entries)
		}
	case KindVector:
		return v.vec.Len()
	}
	return 0
}

// String renders v the way the str builtin does. Containers report their
// length only, so cyclic lists print fine.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindBool:
		if v.i != 0 {
			return "true"
		}
		return "false"
	case KindString:
		return v.s
	case KindList:
		return "[list len=" + strconv.Itoa(v.Len()) + "]"
	case KindVector:
		return "[vector len=" + strconv.Itoa(v.Len()) + "]"
	case KindDict:
		return "[dict len=" + strconv.Itoa(v.Len()) + "]"
	case KindFunc:
		return "<function>"
	case KindResult:
		return "<result>"
	}
	return "<value>"
}

// formatFloat follows printf's %g: six significant digits, exponent form for
// very large or small magnitudes.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// IsOk reports whether v is a successful Result.
func IsOk(v Value) bool {
	return v.kind == KindResult && v.res != nil && v.res.Ok
}

// ResultValue returns the payload of an Ok result, or Null.
func ResultValue(v Value) Value {
	if IsOk(v) {
		return v.res.Value
	}
	return MakeNull()
}

// ResultError returns the payload of an Err result, or Null.
func ResultError(v Value) Value {
	if v.kind == KindResult && v.res != nil && !v.res.Ok {
		return v.res.Value
	}
	return MakeNull()
}
