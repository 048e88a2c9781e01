// Package manifest handles quark.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up in a project directory.
const FileName = "quark.toml"

// Defaults for settings a manifest leaves out.
const (
	DefaultAllocator         = "tracing"
	DefaultArenaSlab         = 64 * 1024
	DefaultParallelThreshold = 64 * 1024
	DefaultVerbosity         = 1
	DefaultStorePath         = ".quark/vectors.db"
)

// Manifest represents a quark.toml project configuration.
type Manifest struct {
	Project     Project     `toml:"project" json:"project"`
	Runtime     Runtime     `toml:"runtime" json:"runtime"`
	Vector      Vector      `toml:"vector" json:"vector"`
	Diagnostics Diagnostics `toml:"diagnostics" json:"diagnostics"`
	Store       Store       `toml:"store" json:"store"`

	// Dir is the directory containing the quark.toml file (set at load time).
	Dir string `toml:"-" json:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name" json:"name,omitempty"`
	Version string `toml:"version" json:"version,omitempty"`
}

// Runtime selects the allocation policy.
type Runtime struct {
	Allocator string `toml:"allocator" json:"allocator"`
	ArenaSlab int    `toml:"arena-slab" json:"arena-slab"`
}

// Vector tunes the data-parallel kernels. A zero threshold keeps every
// kernel serial; zero workers means GOMAXPROCS.
type Vector struct {
	ParallelThreshold int `toml:"parallel-threshold" json:"parallel-threshold"`
	ParallelWorkers   int `toml:"parallel-workers" json:"parallel-workers"`
}

// Diagnostics configures commonlog.
type Diagnostics struct {
	Verbosity int    `toml:"verbosity" json:"verbosity"`
	LogFile   string `toml:"log-file" json:"log-file"`
}

// Store locates the vector snapshot database.
type Store struct {
	Path string `toml:"path" json:"path"`
}

// Default returns the manifest used when no quark.toml exists.
func Default() *Manifest {
	return &Manifest{
		Runtime: Runtime{Allocator: DefaultAllocator, ArenaSlab: DefaultArenaSlab},
		Vector:  Vector{ParallelThreshold: DefaultParallelThreshold},
		Diagnostics: Diagnostics{
			Verbosity: DefaultVerbosity,
		},
		Store: Store{Path: DefaultStorePath},
	}
}

// Load parses a quark.toml file from the given directory, fills in
// defaults for absent keys and validates the result against the schema.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return m, nil
}

// Parse decodes manifest text. Keys the text does not define keep their
// defaults, so an explicit zero stays zero.
func Parse(data []byte) (*Manifest, error) {
	m := Default()
	md, err := toml.Decode(string(data), m)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a quark.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// StorePath returns the snapshot database path, resolved against the
// manifest directory when relative.
func (m *Manifest) StorePath() string {
	if filepath.IsAbs(m.Store.Path) || m.Dir == "" {
		return m.Store.Path
	}
	return filepath.Join(m.Dir, m.Store.Path)
}

// LogFilePath returns the log file path, or nil to log to stderr.
func (m *Manifest) LogFilePath() *string {
	if m.Diagnostics.LogFile == "" {
		return nil
	}
	p := m.Diagnostics.LogFile
	if !filepath.IsAbs(p) && m.Dir != "" {
		p = filepath.Join(m.Dir, p)
	}
	return &p
}
