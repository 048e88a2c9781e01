// Package alloc defines the allocation contract the quark runtime allocates
// through. Every backing buffer a vector or container needs is requested from
// an Allocator, so a host can choose between Go's tracing collector and a
// scoped arena without touching the operators.
package alloc

import (
	"sync/atomic"
)

// Allocator hands out zeroed, typed buffers. Each method returns a slice of
// length n and capacity at least capacity (capacity below n is treated as n).
//
// An Allocator is not required to be safe for concurrent use; the runtime is
// single-threaded and kernels allocate before fanning out.
type Allocator interface {
	Name() string

	Float64s(n, capacity int) []float64
	Int64s(n, capacity int) []int64
	Int32s(n, capacity int) []int32
	Uint32s(n, capacity int) []uint32
	Bytes(n, capacity int) []byte

	// Object records the allocation of a handle-sized object (list, dict,
	// closure, result box) of the given size in bytes. The object itself lives
	// on the Go heap; the allocator only accounts for it.
	Object(size int)

	Stats() Stats
}

// Stats is a snapshot of allocation counters.
type Stats struct {
	Allocations uint64 // buffer allocations
	Bytes       uint64 // bytes handed out, including objects
	Objects     uint64 // handle objects recorded via Object
	Resets      uint64 // arena scope resets
}

type counters struct {
	allocations atomic.Uint64
	bytes       atomic.Uint64
	objects     atomic.Uint64
	resets      atomic.Uint64
}

func (c *counters) buffer(bytes int) {
	c.allocations.Add(1)
	c.bytes.Add(uint64(bytes))
}

func (c *counters) object(bytes int) {
	c.objects.Add(1)
	c.bytes.Add(uint64(bytes))
}

func (c *counters) snapshot() Stats {
	return Stats{
		Allocations: c.allocations.Load(),
		Bytes:       c.bytes.Load(),
		Objects:     c.objects.Load(),
		Resets:      c.resets.Load(),
	}
}

var defaultAllocator atomic.Pointer[Tracing]

func init() {
	defaultAllocator.Store(NewTracing())
}

// Default returns the process-wide tracing allocator used when a caller
// passes a nil Allocator.
func Default() Allocator {
	return defaultAllocator.Load()
}

// Or returns a if it is non-nil, otherwise Default().
func Or(a Allocator) Allocator {
	if a == nil {
		return Default()
	}
	return a
}

func normCap(n, capacity int) int {
	if capacity < n {
		return n
	}
	return capacity
}
