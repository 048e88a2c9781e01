// Package store keeps named vector snapshots in a SQLite database. Each
// snapshot holds the compressed wire encoding of one vector.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/quark/alloc"
	"github.com/chazu/quark/vector"
)

// ErrNotFound indicates the requested snapshot doesn't exist
var ErrNotFound = errors.New("snapshot not found")

var log = commonlog.GetLogger("quark.store")

// Entry describes a stored snapshot without its data.
type Entry struct {
	ID        uuid.UUID
	Name      string
	DType     string
	Count     int
	Size      int
	CreatedAt time.Time
}

// Store handles SQLite storage for vector snapshots
type Store struct {
	db     *sql.DB
	dbPath string
	alloc  alloc.Allocator
	mu     sync.Mutex
}

// Open opens or creates the snapshot database at dbPath. Parent
// directories are created as needed.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS vectors (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		dtype TEXT NOT NULL,
		count INTEGER NOT NULL,
		data BLOB NOT NULL,
		created_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// SetAllocator chooses the allocator loaded vectors are built through.
func (s *Store) SetAllocator(a alloc.Allocator) {
	s.alloc = a
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores v under name, replacing any previous snapshot of that name.
func (s *Store) Save(name string, v *vector.Vector) (uuid.UUID, error) {
	return s.SaveContext(context.Background(), name, v)
}

// SaveContext is Save with a context.
func (s *Store) SaveContext(ctx context.Context, name string, v *vector.Vector) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, errors.New("saving snapshot: empty name")
	}
	data, err := vector.Marshal(v, true)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding snapshot %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO vectors (id, name, dtype, count, data, created_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET id = excluded.id, dtype = excluded.dtype,
			count = excluded.count, data = excluded.data, created_at = excluded.created_at`,
		id.String(), name, v.DType().String(), v.Len(), data, time.Now().UnixNano(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("saving snapshot %q: %w", name, err)
	}
	log.Debugf("saved %s (%s, %d elements, %d bytes)", name, v.DType(), v.Len(), len(data))
	return id, nil
}

// Load retrieves the snapshot stored under name.
func (s *Store) Load(name string) (*vector.Vector, error) {
	return s.LoadContext(context.Background(), name)
}

// LoadContext is Load with a context.
func (s *Store) LoadContext(ctx context.Context, name string) (*vector.Vector, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM vectors WHERE name = ?", name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("querying snapshot %q: %w", name, err)
	}
	v, err := vector.Unmarshal(s.alloc, data)
	if err != nil {
		log.Errorf("snapshot %s does not decode: %s", name, err)
		return nil, fmt.Errorf("decoding snapshot %q: %w", name, err)
	}
	return v, nil
}

// List returns every snapshot ordered by name.
func (s *Store) List() ([]Entry, error) {
	return s.ListContext(context.Background())
}

// ListContext is List with a context.
func (s *Store) ListContext(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, dtype, count, length(data), created_at FROM vectors ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			id      string
			created int64
		)
		if err := rows.Scan(&id, &e.Name, &e.DType, &e.Count, &e.Size, &created); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("snapshot %q has bad id %q: %w", e.Name, id, err)
		}
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes the snapshot stored under name.
func (s *Store) Delete(name string) error {
	return s.DeleteContext(context.Background(), name)
}

// DeleteContext is Delete with a context.
func (s *Store) DeleteContext(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM vectors WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting snapshot %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return nil
}
