package state

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/codedoc/internal/foundation/errors"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

// Entry is the stored state of one converted source file.
type Entry struct {
	Path        string
	InputHash   string
	ConfigHash  string
	OutputPath  string
	Fingerprint string
	UpdatedAt   time.Time
}

// Store is a SQLite-backed state store. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Open opens or creates the database at path, creating parent directories.
// Use Memory for a throwaway store.
func Open(path string) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, stateErr(err, "create state directory", path)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, stateErr(err, "open state database", path)
	}
	// A single connection keeps :memory: databases shared and serializes
	// writers for file databases.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, stateErr(err, "initialize state schema", path)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		input_hash TEXT NOT NULL,
		config_hash TEXT NOT NULL,
		output_path TEXT NOT NULL,
		fingerprint TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_files_updated ON files(updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the entry for path. The boolean is false when none exists.
func (s *Store) Get(ctx context.Context, path string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e       Entry
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT path, input_hash, config_hash, output_path, fingerprint, updated_at FROM files WHERE path = ?",
		path,
	).Scan(&e.Path, &e.InputHash, &e.ConfigHash, &e.OutputPath, &e.Fingerprint, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, stateErr(err, "query state", path)
	}
	e.UpdatedAt = time.Unix(updated, 0).UTC()
	return e, true, nil
}

// Put inserts or replaces the entry for e.Path. A zero UpdatedAt is set to now.
func (s *Store) Put(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (path, input_hash, config_hash, output_path, fingerprint, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			input_hash = excluded.input_hash,
			config_hash = excluded.config_hash,
			output_path = excluded.output_path,
			fingerprint = excluded.fingerprint,
			updated_at = excluded.updated_at`,
		e.Path, e.InputHash, e.ConfigHash, e.OutputPath, e.Fingerprint, e.UpdatedAt.Unix(),
	)
	if err != nil {
		return stateErr(err, "store state", e.Path)
	}
	return nil
}

// Delete removes the entry for path. Deleting a missing entry is not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE path = ?", path); err != nil {
		return stateErr(err, "delete state", path)
	}
	return nil
}

// List returns every entry ordered by path.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, input_hash, config_hash, output_path, fingerprint, updated_at FROM files ORDER BY path")
	if err != nil {
		return nil, stateErr(err, "list state", "")
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			updated int64
		)
		if err := rows.Scan(&e.Path, &e.InputHash, &e.ConfigHash, &e.OutputPath, &e.Fingerprint, &updated); err != nil {
			return nil, stateErr(err, "scan state", "")
		}
		e.UpdatedAt = time.Unix(updated, 0).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, stateErr(err, "list state", "")
	}
	return entries, nil
}

// Unchanged reports whether path was last converted from the same bytes with
// the same configuration into the same output, and that output still exists.
// Stdout runs (empty output) are never skipped.
func (s *Store) Unchanged(ctx context.Context, path, inputHash, configHash, outputPath string) (bool, error) {
	if outputPath == "" {
		return false, nil
	}
	e, ok, err := s.Get(ctx, path)
	if err != nil || !ok {
		return false, err
	}
	if e.InputHash != inputHash || e.ConfigHash != configHash || e.OutputPath != outputPath {
		return false, nil
	}
	if _, err := os.Stat(outputPath); err != nil {
		return false, nil
	}
	return true, nil
}

// HashInput returns the hex sha256 of data.
func HashInput(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func stateErr(err error, msg, path string) error {
	b := ferrors.StateError(msg).WithCause(err)
	if path != "" {
		b = b.WithContext("path", path)
	}
	return b.Build()
}
