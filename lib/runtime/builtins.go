package runtime

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BuiltinFunc is the signature of a builtin function
type BuiltinFunc func(r *Runtime, args []Value) Value

// BuiltinEntry describes a builtin function
type BuiltinEntry struct {
	Name    string
	Impl    BuiltinFunc
	MinArgs int
	MaxArgs int
}

// RegisterBuiltin adds or replaces a builtin.
func (r *Runtime) RegisterBuiltin(name string, fn BuiltinFunc, minArgs, maxArgs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builtins[name] = &BuiltinEntry{Name: name, Impl: fn, MinArgs: minArgs, MaxArgs: maxArgs}
}

// LookupBuiltin returns the builtin registered under name, or nil.
func (r *Runtime) LookupBuiltin(name string) *BuiltinEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builtins[name]
}

// Builtins returns the registered builtin names in sorted order.
func (r *Runtime) Builtins() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.builtins))
	for name := range r.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallBuiltin invokes a builtin by name. Too few arguments give Null; extra
// arguments are ignored.
func (r *Runtime) CallBuiltin(name string, args ...Value) Value {
	b := r.LookupBuiltin(name)
	if b == nil {
		return r.failf("call", "unknown builtin '%s'", name)
	}
	if len(args) < b.MinArgs {
		return MakeNull()
	}
	if len(args) > b.MaxArgs {
		args = args[:b.MaxArgs]
	}
	return b.Impl(r, args)
}

func unary(fn func(Value) Value) BuiltinFunc {
	return func(_ *Runtime, args []Value) Value { return fn(args[0]) }
}

func binary(fn func(a, b Value) Value) BuiltinFunc {
	return func(_ *Runtime, args []Value) Value { return fn(args[0], args[1]) }
}

func registerBuiltins(r *Runtime) {
	// I/O
	r.builtins["print"] = &BuiltinEntry{"print", func(r *Runtime, args []Value) Value {
		if len(args) == 0 {
			return MakeNull()
		}
		return r.Print(args[0])
	}, 0, 1}
	r.builtins["println"] = &BuiltinEntry{"println", func(r *Runtime, args []Value) Value {
		if len(args) == 0 {
			return r.Println(MakeString(""))
		}
		return r.Println(args[0])
	}, 0, 1}
	r.builtins["input"] = &BuiltinEntry{"input", func(r *Runtime, args []Value) Value {
		if len(args) == 0 {
			return r.Input(MakeNull())
		}
		return r.Input(args[0])
	}, 0, 1}

	// Conversions
	r.builtins["len"] = &BuiltinEntry{"len", unary(Len), 1, 1}
	r.builtins["str"] = &BuiltinEntry{"str", unary(Str), 1, 1}
	r.builtins["int"] = &BuiltinEntry{"int", unary(Int), 1, 1}
	r.builtins["float"] = &BuiltinEntry{"float", unary(Float), 1, 1}
	r.builtins["bool"] = &BuiltinEntry{"bool", unary(Bool), 1, 1}
	r.builtins["type"] = &BuiltinEntry{"type", unary(Type), 1, 1}

	r.builtins["range"] = &BuiltinEntry{"range", func(r *Runtime, args []Value) Value {
		return r.Range(args...)
	}, 1, 3}

	// Math
	r.builtins["abs"] = &BuiltinEntry{"abs", unary(Abs), 1, 1}
	r.builtins["min"] = &BuiltinEntry{"min", func(r *Runtime, args []Value) Value {
		if len(args) == 2 {
			return Min2(args[0], args[1])
		}
		return r.Min(args[0])
	}, 1, 2}
	r.builtins["max"] = &BuiltinEntry{"max", func(r *Runtime, args []Value) Value {
		if len(args) == 2 {
			return Max2(args[0], args[1])
		}
		return r.Max(args[0])
	}, 1, 2}
	r.builtins["sum"] = &BuiltinEntry{"sum", func(r *Runtime, args []Value) Value {
		return r.Sum(args[0])
	}, 1, 1}
	r.builtins["mean"] = &BuiltinEntry{"mean", func(r *Runtime, args []Value) Value {
		return r.VecMean(args[0])
	}, 1, 1}
	r.builtins["sqrt"] = &BuiltinEntry{"sqrt", unary(Sqrt), 1, 1}
	r.builtins["floor"] = &BuiltinEntry{"floor", unary(Floor), 1, 1}
	r.builtins["ceil"] = &BuiltinEntry{"ceil", unary(Ceil), 1, 1}
	r.builtins["round"] = &BuiltinEntry{"round", unary(Round), 1, 1}

	// Strings
	r.builtins["upper"] = &BuiltinEntry{"upper", unary(Upper), 1, 1}
	r.builtins["lower"] = &BuiltinEntry{"lower", unary(Lower), 1, 1}
	r.builtins["trim"] = &BuiltinEntry{"trim", unary(Trim), 1, 1}
	r.builtins["contains"] = &BuiltinEntry{"contains", binary(Contains), 2, 2}
	r.builtins["startswith"] = &BuiltinEntry{"startswith", binary(StartsWith), 2, 2}
	r.builtins["endswith"] = &BuiltinEntry{"endswith", binary(EndsWith), 2, 2}
	r.builtins["replace"] = &BuiltinEntry{"replace", func(_ *Runtime, args []Value) Value {
		return Replace(args[0], args[1], args[2])
	}, 3, 3}
	r.builtins["concat"] = &BuiltinEntry{"concat", binary(StrConcat), 2, 2}
	r.builtins["split"] = &BuiltinEntry{"split", func(r *Runtime, args []Value) Value {
		return r.Split(args[0], args[1])
	}, 2, 2}

	// Lists
	r.builtins["push"] = &BuiltinEntry{"push", func(r *Runtime, args []Value) Value {
		if args[0].kind == KindVector {
			return r.VecPush(args[0], args[1])
		}
		return r.Push(args[0], args[1])
	}, 2, 2}
	r.builtins["pop"] = &BuiltinEntry{"pop", func(r *Runtime, args []Value) Value {
		return r.Pop(args[0])
	}, 1, 1}
	r.builtins["get"] = &BuiltinEntry{"get", func(r *Runtime, args []Value) Value {
		return r.Get(args[0], args[1])
	}, 2, 2}
	r.builtins["set"] = &BuiltinEntry{"set", func(r *Runtime, args []Value) Value {
		return r.Set(args[0], args[1], args[2])
	}, 3, 3}
	r.builtins["insert"] = &BuiltinEntry{"insert", func(r *Runtime, args []Value) Value {
		return r.CallMethod(args[0], "insert", args[1], args[2])
	}, 3, 3}
	r.builtins["remove"] = &BuiltinEntry{"remove", func(r *Runtime, args []Value) Value {
		return r.CallMethod(args[0], "remove", args[1])
	}, 2, 2}
	r.builtins["slice"] = &BuiltinEntry{"slice", func(r *Runtime, args []Value) Value {
		return r.CallMethod(args[0], "slice", args[1], args[2])
	}, 3, 3}
	r.builtins["reverse"] = &BuiltinEntry{"reverse", func(r *Runtime, args []Value) Value {
		return r.Reverse(args[0])
	}, 1, 1}

	// Dicts
	r.builtins["dget"] = &BuiltinEntry{"dget", func(r *Runtime, args []Value) Value {
		return r.DGet(args[0], args[1])
	}, 2, 2}
	r.builtins["dset"] = &BuiltinEntry{"dset", func(r *Runtime, args []Value) Value {
		return r.DSet(args[0], args[1], args[2])
	}, 3, 3}

	// Vectors
	r.builtins["vadd_inplace"] = &BuiltinEntry{"vadd_inplace", func(r *Runtime, args []Value) Value {
		return r.VaddInPlace(args[0], args[1])
	}, 2, 2}
	r.builtins["fillna"] = &BuiltinEntry{"fillna", func(r *Runtime, args []Value) Value {
		return r.FillNA(args[0], args[1])
	}, 2, 2}
	r.builtins["astype"] = &BuiltinEntry{"astype", func(r *Runtime, args []Value) Value {
		name, ok := strArg(r, "astype", args[1])
		if !ok {
			return MakeNull()
		}
		return r.AsType(args[0], name)
	}, 2, 2}
	r.builtins["to_vector"] = &BuiltinEntry{"to_vector", func(r *Runtime, args []Value) Value {
		return r.ToVector(args[0])
	}, 1, 1}
	r.builtins["to_list"] = &BuiltinEntry{"to_list", func(r *Runtime, args []Value) Value {
		return r.ToList(args[0])
	}, 1, 1}
	r.builtins["to_categorical"] = &BuiltinEntry{"to_categorical", func(r *Runtime, args []Value) Value {
		return r.ToCategorical(args[0])
	}, 1, 1}
	r.builtins["from_categorical"] = &BuiltinEntry{"from_categorical", func(r *Runtime, args []Value) Value {
		return r.FromCategorical(args[0])
	}, 1, 1}
}

// ============================================================================
// Conversions
// ============================================================================

// Len is the length builtin.
func Len(v Value) Value { return MakeInt(int64(v.Len())) }

// Str is the str builtin.
func Str(v Value) Value { return MakeString(v.String()) }

// Type is the type builtin.
func Type(v Value) Value { return MakeString(v.TypeName()) }

// Bool is the bool builtin.
func Bool(v Value) Value { return MakeBool(v.Truthy()) }

// Int converts to an integer. Floats truncate; strings parse their leading
// integer prefix the way atoll does and give 0 when there is none.
func Int(v Value) Value {
	switch v.kind {
	case KindInt:
		return v
	case KindFloat:
		return MakeInt(int64(v.f))
	case KindBool:
		return MakeInt(v.i)
	case KindString:
		return MakeInt(parseIntPrefix(v.s))
	}
	return MakeInt(0)
}

// Float converts to a float. Strings parse their leading numeric prefix.
func Float(v Value) Value {
	switch v.kind {
	case KindInt:
		return MakeFloat(float64(v.i))
	case KindFloat:
		return v
	case KindBool:
		return MakeFloat(float64(v.i))
	case KindString:
		return MakeFloat(parseFloatPrefix(v.s))
	}
	return MakeFloat(0)
}

func skipSpace(s string) string {
	return strings.TrimLeft(s, " \t\n\v\f\r")
}

func parseIntPrefix(s string) int64 {
	s = skipSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		// Out of range saturates, like strtoll.
		if s[0] == '-' {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return n
}

func parseFloatPrefix(s string) float64 {
	s = skipSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	mant := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		mant++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			mant++
		}
	}
	if mant == 0 {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		start := exp
		for exp < len(s) && s[exp] >= '0' && s[exp] <= '9' {
			exp++
		}
		if exp > start {
			end = exp
		}
	}
	// Out of range input still yields ±Inf or 0 alongside the error.
	f, _ := strconv.ParseFloat(s[:end], 64)
	return f
}

// ============================================================================
// Math
// ============================================================================

func Abs(v Value) Value {
	switch v.kind {
	case KindInt:
		if v.i < 0 {
			return MakeInt(-v.i)
		}
		return v
	case KindFloat:
		return MakeFloat(math.Abs(v.f))
	}
	return MakeNull()
}

// Sqrt always returns a float. Negative input is Null.
func Sqrt(v Value) Value {
	if !v.IsNumeric() {
		return MakeNull()
	}
	x := v.AsFloat()
	if x < 0 {
		return MakeNull()
	}
	return MakeFloat(math.Sqrt(x))
}

func rounding(v Value, fn func(float64) float64) Value {
	switch v.kind {
	case KindInt:
		return v
	case KindFloat:
		return MakeInt(int64(fn(v.f)))
	}
	return MakeNull()
}

// Floor, Ceil and Round return ints.
func Floor(v Value) Value { return rounding(v, math.Floor) }
func Ceil(v Value) Value  { return rounding(v, math.Ceil) }
func Round(v Value) Value { return rounding(v, math.Round) }

// Min2 returns the smaller of two numbers, as a float if either is one.
func Min2(a, b Value) Value {
	if !bothNumeric(a, b) {
		return MakeNull()
	}
	if bothInt(a, b) {
		return MakeInt(min(a.i, b.i))
	}
	x, y := a.AsFloat(), b.AsFloat()
	if x < y {
		return MakeFloat(x)
	}
	return MakeFloat(y)
}

// Max2 returns the larger of two numbers, as a float if either is one.
func Max2(a, b Value) Value {
	if !bothNumeric(a, b) {
		return MakeNull()
	}
	if bothInt(a, b) {
		return MakeInt(max(a.i, b.i))
	}
	x, y := a.AsFloat(), b.AsFloat()
	if x > y {
		return MakeFloat(x)
	}
	return MakeFloat(y)
}

// Sum adds the elements of a vector or a list of numbers. A list of ints
// sums to an int; any float makes the result a float.
func (r *Runtime) Sum(v Value) Value {
	switch v.kind {
	case KindVector:
		return r.VecSum(v)
	case KindList:
		acc := MakeInt(0)
		for _, it := range v.list.Items {
			if !it.IsNumeric() {
				return MakeNull()
			}
			acc = ScalarAdd(acc, it)
		}
		return acc
	}
	return MakeNull()
}

// Min returns the smallest element of a vector or a list of numbers.
func (r *Runtime) Min(v Value) Value {
	switch v.kind {
	case KindVector:
		return r.VecMin(v)
	case KindList:
		return fold(v.list.Items, Min2)
	}
	return MakeNull()
}

// Max returns the largest element of a vector or a list of numbers.
func (r *Runtime) Max(v Value) Value {
	switch v.kind {
	case KindVector:
		return r.VecMax(v)
	case KindList:
		return fold(v.list.Items, Max2)
	}
	return MakeNull()
}

func fold(items []Value, fn func(a, b Value) Value) Value {
	if len(items) == 0 || !items[0].IsNumeric() {
		return MakeNull()
	}
	acc := items[0]
	for _, it := range items[1:] {
		if acc = fn(acc, it); acc.IsNull() {
			return acc
		}
	}
	return acc
}

// Range returns a list of ints: range(stop), range(start, stop) or
// range(start, stop, step). A zero step or a non-int argument gives Null;
// a range too long to materialize reports a diagnostic.
func (r *Runtime) Range(args ...Value) Value {
	for _, a := range args {
		if a.kind != KindInt {
			return MakeNull()
		}
	}
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		stop = args[0].i
	case 2:
		start, stop = args[0].i, args[1].i
	case 3:
		start, stop, step = args[0].i, args[1].i, args[2].i
	default:
		return MakeNull()
	}
	if step == 0 {
		return MakeNull()
	}
	n, ok := rangeLen(start, stop, step)
	if !ok {
		return r.failf("range", "range(%d, %d, %d) has more than %d elements", start, stop, step, maxRangeLen)
	}
	out := r.newList(n)
	for i, x := 0, start; i < n; i, x = i+1, x+step {
		out.list.Items = append(out.list.Items, MakeInt(x))
	}
	return out
}

// maxRangeLen bounds the list Range materializes.
const maxRangeLen = math.MaxInt32

// rangeLen counts the elements of range(start, stop, step). The span is
// taken in uint64 so bounds at the ends of int64 do not wrap.
func rangeLen(start, stop, step int64) (int, bool) {
	var span, stride uint64
	switch {
	case step > 0 && stop > start:
		span, stride = uint64(stop)-uint64(start), uint64(step)
	case step < 0 && stop < start:
		span, stride = uint64(start)-uint64(stop), uint64(-(step+1))+1
	default:
		return 0, true
	}
	n := (span-1)/stride + 1
	if n > maxRangeLen {
		return 0, false
	}
	return int(n), true
}

// ============================================================================
// Strings
// ============================================================================

// Upper and Lower use Unicode case mapping.
func Upper(v Value) Value {
	if v.kind != KindString {
		return MakeNull()
	}
	return MakeString(cases.Upper(language.Und).String(v.s))
}

func Lower(v Value) Value {
	if v.kind != KindString {
		return MakeNull()
	}
	return MakeString(cases.Lower(language.Und).String(v.s))
}

// Trim removes leading and trailing whitespace.
func Trim(v Value) Value {
	if v.kind != KindString {
		return MakeNull()
	}
	return MakeString(strings.TrimSpace(v.s))
}

func bothStrings(a, b Value) bool {
	return a.kind == KindString && b.kind == KindString
}

func Contains(s, sub Value) Value {
	if !bothStrings(s, sub) {
		return MakeNull()
	}
	return MakeBool(strings.Contains(s.s, sub.s))
}

func StartsWith(s, prefix Value) Value {
	if !bothStrings(s, prefix) {
		return MakeNull()
	}
	return MakeBool(strings.HasPrefix(s.s, prefix.s))
}

func EndsWith(s, suffix Value) Value {
	if !bothStrings(s, suffix) {
		return MakeNull()
	}
	return MakeBool(strings.HasSuffix(s.s, suffix.s))
}

// Replace substitutes every occurrence of old. An empty old returns s
// unchanged.
func Replace(s, old, repl Value) Value {
	if !bothStrings(s, old) || repl.kind != KindString {
		return MakeNull()
	}
	if old.s == "" {
		return s
	}
	return MakeString(strings.ReplaceAll(s.s, old.s, repl.s))
}

// StrConcat joins two strings.
func StrConcat(a, b Value) Value {
	if !bothStrings(a, b) {
		return MakeNull()
	}
	return MakeString(a.s + b.s)
}

// Split breaks s around sep into a list of strings. Empty fields are kept;
// an empty sep gives a one-element list holding s.
func (r *Runtime) Split(s, sep Value) Value {
	if !bothStrings(s, sep) {
		return MakeNull()
	}
	var parts []string
	if sep.s == "" {
		parts = []string{s.s}
	} else {
		parts = strings.Split(s.s, sep.s)
	}
	out := r.newList(len(parts))
	for _, p := range parts {
		out.list.Items = append(out.list.Items, MakeString(p))
	}
	return out
}

// ============================================================================
// I/O
// ============================================================================

// printString is Str with vectors rendered element by element.
func (r *Runtime) printString(v Value) string {
	if v.kind == KindVector {
		return r.formatVector(v.vec)
	}
	return v.String()
}

// Print writes v without a newline and returns Null.
func (r *Runtime) Print(v Value) Value {
	io.WriteString(r.out, r.printString(v))
	return MakeNull()
}

// Println writes v followed by a newline and returns Null.
func (r *Runtime) Println(v Value) Value {
	fmt.Fprintln(r.out, r.printString(v))
	return MakeNull()
}

// Input writes prompt when it is a string, then reads one line without its
// trailing newline. End of input gives the empty string.
func (r *Runtime) Input(prompt Value) Value {
	if prompt.kind == KindString {
		io.WriteString(r.out, prompt.s)
	}
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return MakeString("")
	}
	return MakeString(strings.TrimSuffix(line, "\n"))
}
