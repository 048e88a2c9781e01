package runtime

// MaxCallArgs is the largest arity the call helpers support.
const MaxCallArgs = 4

// ClosureFunc is the code of a closure. self gives access to the captures.
type ClosureFunc func(self *Closure, args []Value) Value

// Closure is a function pointer plus the values it captured when created.
type Closure struct {
	Fn       ClosureFunc
	Captures []Value
}

// Capture returns capture i, or Null when out of range.
func (c *Closure) Capture(i int) Value {
	if c == nil || i < 0 || i >= len(c.Captures) {
		return MakeNull()
	}
	return c.Captures[i]
}

// Call invokes f with args. Calling anything but a function, or passing
// more than MaxCallArgs arguments, reports a diagnostic and returns Null.
func (r *Runtime) Call(f Value, args ...Value) Value {
	if f.kind != KindFunc || f.fn == nil || f.fn.Fn == nil {
		return r.failf("call", "cannot call value of type '%s'", f.TypeName())
	}
	if len(args) > MaxCallArgs {
		return r.failf("call", "too many arguments: %d (max %d)", len(args), MaxCallArgs)
	}
	return f.fn.Fn(f.fn, args)
}

func (r *Runtime) Call0(f Value) Value             { return r.Call(f) }
func (r *Runtime) Call1(f, a Value) Value          { return r.Call(f, a) }
func (r *Runtime) Call2(f, a, b Value) Value       { return r.Call(f, a, b) }
func (r *Runtime) Call3(f, a, b, c Value) Value    { return r.Call(f, a, b, c) }
func (r *Runtime) Call4(f, a, b, c, d Value) Value { return r.Call(f, a, b, c, d) }
