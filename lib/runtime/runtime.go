package runtime

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chazu/quark/alloc"
	"github.com/chazu/quark/manifest"
	"github.com/chazu/quark/vector"
)

// Runtime is the main entry point for compiled code.
// It owns the allocator, the diagnostics sink, method tables and builtins.
type Runtime struct {
	alloc    alloc.Allocator
	diag     Diagnostics
	methods  map[string]*MethodTable
	builtins map[string]*BuiltinEntry

	out    io.Writer
	in     *bufio.Reader
	errOut io.Writer // non-nil in debug mode: diagnostics are echoed here

	initialized bool
	mu          sync.Mutex
}

// Config holds runtime configuration
type Config struct {
	Allocator         string // "tracing" (default) or "arena"
	ArenaSlab         int    // elements per arena slab
	ParallelThreshold int    // kernels at or above this length run in parallel; 0 disables
	ParallelWorkers   int    // 0 means GOMAXPROCS
	Debug             bool   // Echo every diagnostic to Stderr

	Diagnostics Diagnostics // nil selects LogDiagnostics
	Stdout      io.Writer   // print target, defaults to os.Stdout
	Stdin       io.Reader   // input source, defaults to os.Stdin
	Stderr      io.Writer   // debug echo target, defaults to os.Stderr
}

// DefaultConfig returns a configuration with default values.
// QUARK_ALLOCATOR overrides the allocator and QUARK_DEBUG echoes
// diagnostics to stderr.
func DefaultConfig() *Config {
	allocator := os.Getenv("QUARK_ALLOCATOR")
	if allocator == "" {
		allocator = manifest.DefaultAllocator
	}
	return &Config{
		Allocator:         allocator,
		ArenaSlab:         manifest.DefaultArenaSlab,
		ParallelThreshold: manifest.DefaultParallelThreshold,
		Debug:             os.Getenv("QUARK_DEBUG") != "",
	}
}

// ConfigFromManifest builds a configuration from a loaded quark.toml. The
// environment overrides still apply.
func ConfigFromManifest(m *manifest.Manifest) *Config {
	cfg := DefaultConfig()
	if m == nil {
		return cfg
	}
	if os.Getenv("QUARK_ALLOCATOR") == "" {
		cfg.Allocator = m.Runtime.Allocator
	}
	cfg.ArenaSlab = m.Runtime.ArenaSlab
	cfg.ParallelThreshold = m.Vector.ParallelThreshold
	cfg.ParallelWorkers = m.Vector.ParallelWorkers
	return cfg
}

// New creates a new runtime with the given configuration
func New(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	r := &Runtime{
		diag:     cfg.Diagnostics,
		methods:  make(map[string]*MethodTable),
		builtins: make(map[string]*BuiltinEntry),
		out:      cfg.Stdout,
	}

	switch strings.ToLower(cfg.Allocator) {
	case "", "tracing":
		r.alloc = alloc.NewTracing()
	case "arena":
		r.alloc = alloc.NewArena(cfg.ArenaSlab)
	default:
		return nil, fmt.Errorf("unknown allocator %q", cfg.Allocator)
	}

	if r.diag == nil {
		r.diag = LogDiagnostics()
	}
	if cfg.Debug {
		r.errOut = cfg.Stderr
		if r.errOut == nil {
			r.errOut = os.Stderr
		}
		r.diag = echoDiagnostics(r.diag, r.errOut)
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	in := cfg.Stdin
	if in == nil {
		in = os.Stdin
	}
	r.in = bufio.NewReader(in)

	vector.SetParallelism(cfg.ParallelThreshold, cfg.ParallelWorkers)

	registerCoreMethods(r)
	registerBuiltins(r)

	r.initialized = true
	return r, nil
}

// Close shuts down the runtime. An arena allocator is reset, so values
// produced under it must not be used afterwards.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return nil
	}
	if ar, ok := r.alloc.(*alloc.Arena); ok {
		log.Debugf("resetting arena %s (%d elements reserved)", ar.ID(), ar.Reserved())
		ar.Reset()
	}
	r.initialized = false
	return nil
}

// Allocator returns the allocator vectors are built through.
func (r *Runtime) Allocator() alloc.Allocator {
	return r.alloc
}

// SetDiagnostics replaces the diagnostics sink. nil discards. In debug mode
// the new sink is still echoed.
func (r *Runtime) SetDiagnostics(d Diagnostics) {
	if d == nil {
		d = DiscardDiagnostics
	}
	if r.errOut != nil {
		d = echoDiagnostics(d, r.errOut)
	}
	r.diag = d
}

// SetOutput redirects print and println.
func (r *Runtime) SetOutput(w io.Writer) {
	r.out = w
}

// Stats returns runtime statistics
func (r *Runtime) Stats() RuntimeStats {
	stats := RuntimeStats{
		Allocator: r.alloc.Name(),
		Alloc:     r.alloc.Stats(),
		Types:     len(r.methods),
		Builtins:  len(r.builtins),
	}
	if ar, ok := r.alloc.(*alloc.Arena); ok {
		stats.AllocatorID = ar.ID()
	}
	return stats
}

// RuntimeStats contains runtime statistics
type RuntimeStats struct {
	Allocator   string
	AllocatorID string // arena id; empty for the tracing allocator
	Alloc       alloc.Stats
	Types       int
	Builtins    int
}

// trackObject records a handle allocation against the allocator.
func (r *Runtime) trackObject(elems int) {
	r.alloc.Object(elems * valueSize)
}

// ============================================================================
// Global runtime instance
// ============================================================================

var (
	globalRuntime *Runtime
	globalMu      sync.Mutex
)

// GlobalRuntime returns the global runtime instance
func GlobalRuntime() *Runtime {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalRuntime
}

// InitGlobal initializes the global runtime
func InitGlobal(cfg *Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalRuntime != nil {
		return nil // Already initialized
	}

	r, err := New(cfg)
	if err != nil {
		return err
	}

	globalRuntime = r
	return nil
}

// CloseGlobal shuts down the global runtime
func CloseGlobal() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalRuntime != nil {
		err := globalRuntime.Close()
		globalRuntime = nil
		return err
	}
	return nil
}
