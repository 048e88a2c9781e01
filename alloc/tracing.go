package alloc

// Tracing allocates with make and leaves reclamation to Go's tracing
// collector: a buffer stays valid for as long as anything reachable refers
// to it.
type Tracing struct {
	c counters
}

// NewTracing creates a tracing allocator.
func NewTracing() *Tracing {
	return &Tracing{}
}

func (t *Tracing) Name() string { return "tracing" }

func (t *Tracing) Float64s(n, capacity int) []float64 {
	capacity = normCap(n, capacity)
	t.c.buffer(capacity * 8)
	return make([]float64, n, capacity)
}

func (t *Tracing) Int64s(n, capacity int) []int64 {
	capacity = normCap(n, capacity)
	t.c.buffer(capacity * 8)
	return make([]int64, n, capacity)
}

func (t *Tracing) Int32s(n, capacity int) []int32 {
	capacity = normCap(n, capacity)
	t.c.buffer(capacity * 4)
	return make([]int32, n, capacity)
}

func (t *Tracing) Uint32s(n, capacity int) []uint32 {
	capacity = normCap(n, capacity)
	t.c.buffer(capacity * 4)
	return make([]uint32, n, capacity)
}

func (t *Tracing) Bytes(n, capacity int) []byte {
	capacity = normCap(n, capacity)
	t.c.buffer(capacity)
	return make([]byte, n, capacity)
}

func (t *Tracing) Object(size int) { t.c.object(size) }

func (t *Tracing) Stats() Stats { return t.c.snapshot() }
