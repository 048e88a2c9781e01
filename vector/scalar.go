package vector

import "strconv"

// ScalarKind identifies the type held by a Scalar.
type ScalarKind uint8

const (
	ScalarNone ScalarKind = iota
	ScalarInt
	ScalarFloat
	ScalarBool
	ScalarString
)

// Scalar is a single element passed to or returned from the engine. The
// zero Scalar holds nothing and is rejected by every operation.
type Scalar struct {
	kind ScalarKind
	i    int64
	f    float64
	s    string
}

func IntScalar(i int64) Scalar     { return Scalar{kind: ScalarInt, i: i} }
func FloatScalar(f float64) Scalar { return Scalar{kind: ScalarFloat, f: f} }
func StringScalar(s string) Scalar { return Scalar{kind: ScalarString, s: s} }

func BoolScalar(b bool) Scalar {
	if b {
		return Scalar{kind: ScalarBool, i: 1}
	}
	return Scalar{kind: ScalarBool}
}

func (s Scalar) Kind() ScalarKind { return s.kind }
func (s Scalar) Int() int64       { return s.i }
func (s Scalar) Float() float64   { return s.f }
func (s Scalar) Bool() bool       { return s.kind == ScalarBool && s.i != 0 }
func (s Scalar) Str() string      { return s.s }

// IsNumeric reports whether s is an Int or Float.
func (s Scalar) IsNumeric() bool {
	return s.kind == ScalarInt || s.kind == ScalarFloat
}

// AsFloat64 converts Int and Float scalars.
func (s Scalar) AsFloat64() (float64, bool) {
	switch s.kind {
	case ScalarInt:
		return float64(s.i), true
	case ScalarFloat:
		return s.f, true
	}
	return 0, false
}

func (s Scalar) String() string {
	switch s.kind {
	case ScalarInt:
		return strconv.FormatInt(s.i, 10)
	case ScalarFloat:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	case ScalarBool:
		return strconv.FormatBool(s.i != 0)
	case ScalarString:
		return strconv.Quote(s.s)
	}
	return "none"
}

func (k ScalarKind) String() string {
	switch k {
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "bool"
	case ScalarString:
		return "str"
	}
	return "none"
}
