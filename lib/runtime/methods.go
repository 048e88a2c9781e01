package runtime

import (
	"sort"
	"strings"
)

// MethodFunc is the signature for native method implementations
type MethodFunc func(r *Runtime, self Value, args []Value) Value

// MethodFlags describes method properties
type MethodFlags uint32

const (
	MethodNative   MethodFlags = 1 << iota // Implemented in native code
	MethodVariadic                         // NumArgs is a minimum, not an exact count
	MethodMutating                         // Mutates the receiver
)

// MethodEntry describes a single method
type MethodEntry struct {
	Name    string
	Impl    MethodFunc
	NumArgs int
	Flags   MethodFlags
}

// MethodTable holds the methods of one type family
type MethodTable struct {
	TypeName string
	Methods  map[string]*MethodEntry
}

// NewMethodTable creates an empty method table
func NewMethodTable(typeName string) *MethodTable {
	return &MethodTable{
		TypeName: typeName,
		Methods:  make(map[string]*MethodEntry),
	}
}

// AddMethod adds a method, replacing any previous entry of the same name
func (mt *MethodTable) AddMethod(name string, impl MethodFunc, numArgs int, flags MethodFlags) {
	mt.Methods[name] = &MethodEntry{
		Name:    name,
		Impl:    impl,
		NumArgs: numArgs,
		Flags:   flags | MethodNative,
	}
}

// Lookup finds a method
func (mt *MethodTable) Lookup(name string) *MethodEntry {
	if mt == nil {
		return nil
	}
	return mt.Methods[name]
}

// Names returns the method names in sorted order
func (mt *MethodTable) Names() []string {
	names := make([]string, 0, len(mt.Methods))
	for name := range mt.Methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// typeAliases maps alternative spellings onto method table names.
var typeAliases = map[string]string{
	"string":   "str",
	"function": "func",
	"vec":      "vector",
	"integer":  "int",
	"boolean":  "bool",
}

// TypeFamily normalizes a type name for method lookup: vector[i64] and
// vector both map to "vector", string maps to "str".
func TypeFamily(typeName string) string {
	name := strings.ToLower(typeName)
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if alias, ok := typeAliases[name]; ok {
		return alias
	}
	return name
}

// family returns the method table name for a value.
func family(v Value) string {
	return v.kind.String()
}

// MethodTable returns the table for a type family, creating it on first use.
func (r *Runtime) MethodTable(typeName string) *MethodTable {
	r.mu.Lock()
	defer r.mu.Unlock()

	fam := TypeFamily(typeName)
	mt := r.methods[fam]
	if mt == nil {
		mt = NewMethodTable(fam)
		r.methods[fam] = mt
	}
	return mt
}

// RegisterMethod adds a native method for a type. numArgs excludes the
// receiver; a negative numArgs accepts any count.
func (r *Runtime) RegisterMethod(typeName, name string, fn MethodFunc, numArgs int) {
	var flags MethodFlags
	if numArgs < 0 {
		flags |= MethodVariadic
		numArgs = 0
	}
	r.MethodTable(typeName).AddMethod(name, fn, numArgs, flags)
}

// LookupMethod finds a method for the receiver's type.
func (r *Runtime) LookupMethod(recv Value, name string) *MethodEntry {
	r.mu.Lock()
	mt := r.methods[family(recv)]
	r.mu.Unlock()
	return mt.Lookup(name)
}

// CallMethod invokes recv.name(args...). A dict without a registered method
// of that name is searched for a function stored under the name, which is
// called with args.
func (r *Runtime) CallMethod(recv Value, name string, args ...Value) Value {
	m := r.LookupMethod(recv, name)
	if m == nil {
		if recv.kind == KindDict {
			if fn, ok := recv.dict.Entries[name]; ok && fn.kind == KindFunc {
				return r.Call(fn, args...)
			}
		}
		return r.failf("method", "unknown method '%s' on type '%s'", name, recv.TypeName())
	}
	if m.Flags&MethodVariadic != 0 {
		if len(args) < m.NumArgs {
			return r.failf("method", "%s.%s expects at least %d arguments; got %d", family(recv), name, m.NumArgs, len(args))
		}
	} else if len(args) != m.NumArgs {
		return r.failf("method", "%s.%s expects %d arguments; got %d", family(recv), name, m.NumArgs, len(args))
	}
	return m.Impl(r, recv, args)
}

// ============================================================================
// Core methods
// ============================================================================

func intArg(r *Runtime, op string, v Value) (int64, bool) {
	if v.kind != KindInt {
		r.failf(op, "expected int argument; got type '%s'", v.TypeName())
		return 0, false
	}
	return v.i, true
}

func strArg(r *Runtime, op string, v Value) (string, bool) {
	if v.kind != KindString {
		r.failf(op, "expected str argument; got type '%s'", v.TypeName())
		return "", false
	}
	return v.s, true
}

func registerCoreMethods(r *Runtime) {
	list := r.MethodTable("list")
	list.AddMethod("push", func(r *Runtime, self Value, args []Value) Value {
		return r.Push(self, args[0])
	}, 1, MethodMutating)
	list.AddMethod("pop", func(r *Runtime, self Value, _ []Value) Value {
		return r.Pop(self)
	}, 0, MethodMutating)
	list.AddMethod("get", func(r *Runtime, self Value, args []Value) Value {
		return r.Get(self, args[0])
	}, 1, 0)
	list.AddMethod("set", func(r *Runtime, self Value, args []Value) Value {
		return r.Set(self, args[0], args[1])
	}, 2, MethodMutating)
	list.AddMethod("insert", func(r *Runtime, self Value, args []Value) Value {
		i, ok := intArg(r, "insert", args[0])
		if !ok {
			return MakeNull()
		}
		return r.Insert(self, i, args[1])
	}, 2, MethodMutating)
	list.AddMethod("remove", func(r *Runtime, self Value, args []Value) Value {
		i, ok := intArg(r, "remove", args[0])
		if !ok {
			return MakeNull()
		}
		return r.Remove(self, i)
	}, 1, MethodMutating)
	list.AddMethod("slice", func(r *Runtime, self Value, args []Value) Value {
		lo, ok := intArg(r, "slice", args[0])
		if !ok {
			return MakeNull()
		}
		hi, ok := intArg(r, "slice", args[1])
		if !ok {
			return MakeNull()
		}
		return r.ListSlice(self, lo, hi)
	}, 2, 0)
	list.AddMethod("reverse", func(r *Runtime, self Value, _ []Value) Value {
		return r.Reverse(self)
	}, 0, MethodMutating)
	list.AddMethod("concat", func(r *Runtime, self Value, args []Value) Value {
		return r.Concat(self, args[0])
	}, 1, 0)
	list.AddMethod("len", func(r *Runtime, self Value, _ []Value) Value {
		return Len(self)
	}, 0, 0)
	list.AddMethod("to_vector", func(r *Runtime, self Value, _ []Value) Value {
		return r.ToVector(self)
	}, 0, 0)
	list.AddMethod("to_categorical", func(r *Runtime, self Value, _ []Value) Value {
		return r.ToCategorical(self)
	}, 0, 0)

	dict := r.MethodTable("dict")
	dict.AddMethod("get", func(r *Runtime, self Value, args []Value) Value {
		return r.DGet(self, args[0])
	}, 1, 0)
	dict.AddMethod("set", func(r *Runtime, self Value, args []Value) Value {
		return r.DSet(self, args[0], args[1])
	}, 2, MethodMutating)
	dict.AddMethod("has", func(r *Runtime, self Value, args []Value) Value {
		return r.DictHas(self, stringKey(args[0]))
	}, 1, 0)
	dict.AddMethod("delete", func(r *Runtime, self Value, args []Value) Value {
		return r.DictDelete(self, stringKey(args[0]))
	}, 1, MethodMutating)
	dict.AddMethod("keys", func(r *Runtime, self Value, _ []Value) Value {
		return r.DictKeys(self)
	}, 0, 0)
	dict.AddMethod("size", func(r *Runtime, self Value, _ []Value) Value {
		return r.DictSize(self)
	}, 0, 0)
	dict.AddMethod("len", func(r *Runtime, self Value, _ []Value) Value {
		return r.DictSize(self)
	}, 0, 0)

	str := r.MethodTable("str")
	str.AddMethod("upper", func(r *Runtime, self Value, _ []Value) Value {
		return Upper(self)
	}, 0, 0)
	str.AddMethod("lower", func(r *Runtime, self Value, _ []Value) Value {
		return Lower(self)
	}, 0, 0)
	str.AddMethod("trim", func(r *Runtime, self Value, _ []Value) Value {
		return Trim(self)
	}, 0, 0)
	str.AddMethod("contains", func(r *Runtime, self Value, args []Value) Value {
		return Contains(self, args[0])
	}, 1, 0)
	str.AddMethod("startswith", func(r *Runtime, self Value, args []Value) Value {
		return StartsWith(self, args[0])
	}, 1, 0)
	str.AddMethod("endswith", func(r *Runtime, self Value, args []Value) Value {
		return EndsWith(self, args[0])
	}, 1, 0)
	str.AddMethod("replace", func(r *Runtime, self Value, args []Value) Value {
		return Replace(self, args[0], args[1])
	}, 2, 0)
	str.AddMethod("split", func(r *Runtime, self Value, args []Value) Value {
		return r.Split(self, args[0])
	}, 1, 0)
	str.AddMethod("len", func(r *Runtime, self Value, _ []Value) Value {
		return Len(self)
	}, 0, 0)

	vec := r.MethodTable("vector")
	vec.AddMethod("push", func(r *Runtime, self Value, args []Value) Value {
		return r.VecPush(self, args[0])
	}, 1, MethodMutating)
	vec.AddMethod("astype", func(r *Runtime, self Value, args []Value) Value {
		name, ok := strArg(r, "astype", args[0])
		if !ok {
			return MakeNull()
		}
		return r.AsType(self, name)
	}, 1, 0)
	vec.AddMethod("fillna", func(r *Runtime, self Value, args []Value) Value {
		return r.FillNA(self, args[0])
	}, 1, MethodMutating)
	vec.AddMethod("to_list", func(r *Runtime, self Value, _ []Value) Value {
		return r.ToList(self)
	}, 0, 0)
	vec.AddMethod("to_categorical", func(r *Runtime, self Value, _ []Value) Value {
		return r.ToCategorical(self)
	}, 0, 0)
	vec.AddMethod("from_categorical", func(r *Runtime, self Value, _ []Value) Value {
		return r.FromCategorical(self)
	}, 0, 0)
	vec.AddMethod("sum", func(r *Runtime, self Value, _ []Value) Value {
		return r.VecSum(self)
	}, 0, 0)
	vec.AddMethod("min", func(r *Runtime, self Value, _ []Value) Value {
		return r.VecMin(self)
	}, 0, 0)
	vec.AddMethod("max", func(r *Runtime, self Value, _ []Value) Value {
		return r.VecMax(self)
	}, 0, 0)
	vec.AddMethod("mean", func(r *Runtime, self Value, _ []Value) Value {
		return r.VecMean(self)
	}, 0, 0)
	vec.AddMethod("count", func(r *Runtime, self Value, _ []Value) Value {
		return r.VecCount(self)
	}, 0, 0)
	vec.AddMethod("is_null", func(r *Runtime, self Value, args []Value) Value {
		return r.IsNullAt(self, args[0])
	}, 1, 0)
	vec.AddMethod("set_null", func(r *Runtime, self Value, args []Value) Value {
		return r.SetNullAt(self, args[0])
	}, 1, MethodMutating)
	vec.AddMethod("has_nulls", func(r *Runtime, self Value, _ []Value) Value {
		return r.HasNulls(self)
	}, 0, 0)
	vec.AddMethod("slice", func(r *Runtime, self Value, args []Value) Value {
		lo, ok := intArg(r, "slice", args[0])
		if !ok {
			return MakeNull()
		}
		hi, ok := intArg(r, "slice", args[1])
		if !ok {
			return MakeNull()
		}
		return r.VecSlice(self, lo, hi)
	}, 2, 0)
	vec.AddMethod("len", func(r *Runtime, self Value, _ []Value) Value {
		return Len(self)
	}, 0, 0)

	fn := r.MethodTable("func")
	fn.AddMethod("call", func(r *Runtime, self Value, args []Value) Value {
		return r.Call(self, args...)
	}, 0, MethodVariadic)

	res := r.MethodTable("result")
	res.AddMethod("is_ok", func(r *Runtime, self Value, _ []Value) Value {
		return MakeBool(IsOk(self))
	}, 0, 0)
	res.AddMethod("value", func(r *Runtime, self Value, _ []Value) Value {
		return ResultValue(self)
	}, 0, 0)
	res.AddMethod("error", func(r *Runtime, self Value, _ []Value) Value {
		return ResultError(self)
	}, 0, 0)
}
