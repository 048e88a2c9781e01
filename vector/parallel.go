package vector

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelThreshold is the element count from which elementwise
// kernels split their work across goroutines.
const DefaultParallelThreshold = 64 * 1024

var (
	parallelThreshold atomic.Int64
	parallelWorkers   atomic.Int64
)

func init() {
	parallelThreshold.Store(DefaultParallelThreshold)
}

// SetParallelism configures data-parallel kernels. A threshold <= 0 keeps
// every kernel serial; workers <= 0 uses GOMAXPROCS. Results do not depend
// on these settings, only run time does.
func SetParallelism(threshold, workers int) {
	parallelThreshold.Store(int64(threshold))
	parallelWorkers.Store(int64(workers))
}

// Parallelism returns the current threshold and worker settings.
func Parallelism() (threshold, workers int) {
	return int(parallelThreshold.Load()), int(parallelWorkers.Load())
}

// parallelFor runs body over [0,n) in contiguous, disjoint chunks. Each
// chunk writes only its own index range, so callers need no locking. The
// call returns once every chunk is done.
func parallelFor(n int, body func(lo, hi int)) {
	threshold := int(parallelThreshold.Load())
	if threshold <= 0 || n < threshold {
		body(0, n)
		return
	}
	workers := int(parallelWorkers.Load())
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 2 {
		body(0, n)
		return
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := min(lo+chunk, n)
		g.Go(func() error {
			body(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
