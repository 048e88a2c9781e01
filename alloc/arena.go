package alloc

import (
	"github.com/google/uuid"
)

// DefaultSlabElems is the slab size, in elements, used when an arena is
// created with a non-positive slab size.
const DefaultSlabElems = 64 * 1024

// Arena carves buffers out of per-type slabs. Memory handed out by an arena
// belongs to the arena's scope: Reset ends the scope and makes every slab
// available again, so nothing allocated before Reset may be used after it.
//
// Requests larger than a quarter of the slab are allocated on their own and
// dropped at Reset.
type Arena struct {
	id        string
	slabElems int
	c         counters

	f64 slab[float64]
	i64 slab[int64]
	i32 slab[int32]
	u32 slab[uint32]
	u8  slab[byte]
}

// NewArena creates an arena whose slabs hold slabElems elements each.
func NewArena(slabElems int) *Arena {
	if slabElems <= 0 {
		slabElems = DefaultSlabElems
	}
	return &Arena{
		id:        uuid.NewString(),
		slabElems: slabElems,
	}
}

// ID identifies the arena in runtime stats and logs.
func (a *Arena) ID() string { return a.id }

func (a *Arena) Name() string { return "arena" }

func (a *Arena) Float64s(n, capacity int) []float64 {
	capacity = normCap(n, capacity)
	a.c.buffer(capacity * 8)
	return a.f64.take(n, capacity, a.slabElems)
}

func (a *Arena) Int64s(n, capacity int) []int64 {
	capacity = normCap(n, capacity)
	a.c.buffer(capacity * 8)
	return a.i64.take(n, capacity, a.slabElems)
}

func (a *Arena) Int32s(n, capacity int) []int32 {
	capacity = normCap(n, capacity)
	a.c.buffer(capacity * 4)
	return a.i32.take(n, capacity, a.slabElems)
}

func (a *Arena) Uint32s(n, capacity int) []uint32 {
	capacity = normCap(n, capacity)
	a.c.buffer(capacity * 4)
	return a.u32.take(n, capacity, a.slabElems)
}

func (a *Arena) Bytes(n, capacity int) []byte {
	capacity = normCap(n, capacity)
	a.c.buffer(capacity)
	return a.u8.take(n, capacity, a.slabElems)
}

func (a *Arena) Object(size int) { a.c.object(size) }

func (a *Arena) Stats() Stats { return a.c.snapshot() }

// Reset ends the arena scope. Slabs are kept and reused by later requests.
func (a *Arena) Reset() {
	a.f64.reset()
	a.i64.reset()
	a.i32.reset()
	a.u32.reset()
	a.u8.reset()
	a.c.resets.Add(1)
}

// Reserved reports the number of elements held in slabs across all types.
func (a *Arena) Reserved() int {
	return a.f64.reserved() + a.i64.reserved() + a.i32.reserved() +
		a.u32.reserved() + a.u8.reserved()
}

type slab[T any] struct {
	chunks [][]T
	cur    int // index into chunks
	off    int // offset into chunks[cur]
}

func (s *slab[T]) take(n, capacity, slabElems int) []T {
	if capacity > slabElems/4 {
		return make([]T, n, capacity)
	}
	for {
		if s.cur < len(s.chunks) {
			buf := s.chunks[s.cur]
			if s.off+capacity <= len(buf) {
				out := buf[s.off : s.off+n : s.off+capacity]
				s.off += capacity
				clear(out)
				return out
			}
			s.cur++
			s.off = 0
			continue
		}
		s.chunks = append(s.chunks, make([]T, slabElems))
	}
}

func (s *slab[T]) reset() {
	s.cur = 0
	s.off = 0
}

func (s *slab[T]) reserved() int {
	total := 0
	for _, c := range s.chunks {
		total += len(c)
	}
	return total
}
