package runtime

import (
	"sort"
)

// List is the payload of a list value. Items is shared by every Value that
// refers to the list.
type List struct {
	Items []Value
}

// Dict is the payload of a dict value. Keys are strings; iteration order is
// not part of the contract.
type Dict struct {
	Entries map[string]Value
}

// normIndex maps a possibly negative index onto [0, n). ok is false when the
// index is out of range.
func normIndex(i int64, n int) (int, bool) {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, false
	}
	return int(i), true
}

// clampIndex maps a possibly negative index onto [0, n].
func clampIndex(i int64, n int) int {
	if i < 0 {
		i += int64(n)
	}
	if i < 0 {
		return 0
	}
	if i > int64(n) {
		return n
	}
	return int(i)
}

// newList allocates a list handle and records it against the allocator.
func (r *Runtime) newList(capacity int) Value {
	r.trackObject(capacity + 1)
	return MakeList(capacity)
}

// NewList creates an empty list with room for capacity elements.
func (r *Runtime) NewList(capacity int) Value {
	return r.newList(capacity)
}

// NewDict creates an empty dict.
func (r *Runtime) NewDict() Value {
	r.trackObject(1)
	return MakeDict()
}

func (r *Runtime) listArg(op string, v Value) (*List, bool) {
	if v.kind != KindList || v.list == nil {
		r.failf(op, "%s expects list; got type '%s'", op, v.TypeName())
		return nil, false
	}
	return v.list, true
}

// ============================================================================
// Lists
// ============================================================================

// Push appends item and returns the list.
func (r *Runtime) Push(list, item Value) Value {
	l, ok := r.listArg("push", list)
	if !ok {
		return MakeNull()
	}
	l.Items = append(l.Items, item)
	return list
}

// Pop removes and returns the last element, or Null when the list is empty.
func (r *Runtime) Pop(list Value) Value {
	l, ok := r.listArg("pop", list)
	if !ok || len(l.Items) == 0 {
		return MakeNull()
	}
	last := l.Items[len(l.Items)-1]
	l.Items[len(l.Items)-1] = Value{}
	l.Items = l.Items[:len(l.Items)-1]
	return last
}

// ListGet returns the element at index, counting from the end when negative.
// Out of range is Null.
func (r *Runtime) ListGet(list Value, index int64) Value {
	l, ok := r.listArg("get", list)
	if !ok {
		return MakeNull()
	}
	i, ok := normIndex(index, len(l.Items))
	if !ok {
		return MakeNull()
	}
	return l.Items[i]
}

// ListSet stores item at index and returns item. Out of range stores nothing
// and returns Null.
func (r *Runtime) ListSet(list Value, index int64, item Value) Value {
	l, ok := r.listArg("set", list)
	if !ok {
		return MakeNull()
	}
	i, ok := normIndex(index, len(l.Items))
	if !ok {
		return MakeNull()
	}
	l.Items[i] = item
	return item
}

// Insert places item before index, clamped to [0, len], and returns the list.
func (r *Runtime) Insert(list Value, index int64, item Value) Value {
	l, ok := r.listArg("insert", list)
	if !ok {
		return MakeNull()
	}
	i := clampIndex(index, len(l.Items))
	l.Items = append(l.Items, Value{})
	copy(l.Items[i+1:], l.Items[i:])
	l.Items[i] = item
	return list
}

// Remove deletes the element at index and returns it, or Null when out of
// range.
func (r *Runtime) Remove(list Value, index int64) Value {
	l, ok := r.listArg("remove", list)
	if !ok {
		return MakeNull()
	}
	i, ok := normIndex(index, len(l.Items))
	if !ok {
		return MakeNull()
	}
	removed := l.Items[i]
	copy(l.Items[i:], l.Items[i+1:])
	l.Items[len(l.Items)-1] = Value{}
	l.Items = l.Items[:len(l.Items)-1]
	return removed
}

// ListSlice returns a new list holding items [start, end). Both bounds may
// be negative and are clamped.
func (r *Runtime) ListSlice(list Value, start, end int64) Value {
	l, ok := r.listArg("slice", list)
	if !ok {
		return MakeNull()
	}
	lo := clampIndex(start, len(l.Items))
	hi := clampIndex(end, len(l.Items))
	if hi < lo {
		hi = lo
	}
	out := r.newList(hi - lo)
	out.list.Items = append(out.list.Items, l.Items[lo:hi]...)
	return out
}

// Reverse reverses the list in place and returns it.
func (r *Runtime) Reverse(list Value) Value {
	l, ok := r.listArg("reverse", list)
	if !ok {
		return MakeNull()
	}
	for i, j := 0, len(l.Items)-1; i < j; i, j = i+1, j-1 {
		l.Items[i], l.Items[j] = l.Items[j], l.Items[i]
	}
	return list
}

// Concat returns a new list holding the elements of a followed by b.
// Concatenating a list with itself is fine.
func (r *Runtime) Concat(a, b Value) Value {
	la, ok := r.listArg("concat", a)
	if !ok {
		return MakeNull()
	}
	lb, ok := r.listArg("concat", b)
	if !ok {
		return MakeNull()
	}
	out := r.newList(len(la.Items) + len(lb.Items))
	out.list.Items = append(out.list.Items, la.Items...)
	out.list.Items = append(out.list.Items, lb.Items...)
	return out
}

// ============================================================================
// Dicts
// ============================================================================

func (r *Runtime) dictArgs(op string, d, key Value) (*Dict, string, bool) {
	if d.kind != KindDict || d.dict == nil {
		r.failf(op, "%s expects dict", op)
		return nil, "", false
	}
	if key.kind != KindString {
		r.failf(op, "dict key must be string")
		return nil, "", false
	}
	return d.dict, key.s, true
}

// DictGet returns the value stored under key, or Null when absent.
func (r *Runtime) DictGet(d, key Value) Value {
	dict, k, ok := r.dictArgs("dict_get", d, key)
	if !ok {
		return MakeNull()
	}
	return dict.Entries[k]
}

// DictSet stores val under key and returns the dict.
func (r *Runtime) DictSet(d, key, val Value) Value {
	dict, k, ok := r.dictArgs("dict_set", d, key)
	if !ok {
		return MakeNull()
	}
	dict.Entries[k] = val
	return d
}

// DictHas reports whether key is present.
func (r *Runtime) DictHas(d, key Value) Value {
	dict, k, ok := r.dictArgs("dict_has", d, key)
	if !ok {
		return MakeBool(false)
	}
	_, found := dict.Entries[k]
	return MakeBool(found)
}

// DictSize returns the number of entries.
func (r *Runtime) DictSize(d Value) Value {
	if d.kind != KindDict || d.dict == nil {
		return r.failf("dict_size", "dict_size expects dict")
	}
	return MakeInt(int64(len(d.dict.Entries)))
}

// DictKeys returns the keys as a sorted list of strings.
func (r *Runtime) DictKeys(d Value) Value {
	if d.kind != KindDict || d.dict == nil {
		return r.failf("dict_keys", "dict_keys expects dict")
	}
	keys := make([]string, 0, len(d.dict.Entries))
	for k := range d.dict.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := r.newList(len(keys))
	for _, k := range keys {
		out.list.Items = append(out.list.Items, MakeString(k))
	}
	return out
}

// DictDelete removes key and returns the value it held, or Null.
func (r *Runtime) DictDelete(d, key Value) Value {
	dict, k, ok := r.dictArgs("dict_delete", d, key)
	if !ok {
		return MakeNull()
	}
	old, found := dict.Entries[k]
	if !found {
		return MakeNull()
	}
	delete(dict.Entries, k)
	return old
}

// DGet is DictGet with the key stringified first, so d[1] reads "1".
func (r *Runtime) DGet(d, key Value) Value {
	return r.DictGet(d, stringKey(key))
}

// DSet is DictSet with the key stringified first.
func (r *Runtime) DSet(d, key, val Value) Value {
	return r.DictSet(d, stringKey(key), val)
}

func stringKey(key Value) Value {
	if key.kind == KindString {
		return key
	}
	return MakeString(key.String())
}

// ============================================================================
// Member access
// ============================================================================

// MemberGet reads obj.name. Only dicts have members.
func (r *Runtime) MemberGet(obj Value, name string) Value {
	switch obj.kind {
	case KindNull:
		return r.failf("member_get", "cannot access member '%s' on null", name)
	case KindDict:
		return obj.dict.Entries[name]
	}
	return r.failf("member_get", "dot access is only supported on dict; got type '%s'", obj.TypeName())
}

// MemberSet writes obj.name = val and returns the dict.
func (r *Runtime) MemberSet(obj Value, name string, val Value) Value {
	if obj.kind != KindDict {
		return r.failf("member_set", "cannot set member '%s' on non-dict type", name)
	}
	obj.dict.Entries[name] = val
	return obj
}
