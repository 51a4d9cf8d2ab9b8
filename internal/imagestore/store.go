// Package imagestore persists saved core images in a SQLite catalog.
//
// The harness's persistence phase saves the live engine's core image here
// and reloads it into a fresh handle, so image round-trips go through real
// storage instead of an in-process buffer. Each row is tagged with the run
// ID that produced it and a content digest.
package imagestore

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed catalog of core images.
type Store struct {
	db *sql.DB
}

// Image is one catalog row, without the payload.
type Image struct {
	Name   string
	RunID  string
	Digest string
}

// Open creates or opens the catalog at the given path. Use ":memory:"
// for an ephemeral catalog in tests.
//
// The database is configured with WAL mode, NORMAL synchronous, a busy
// timeout, and a single-writer connection pool, matching SQLite's
// one-writer concurrency model.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to image catalog: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the catalog.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores a core image under name, replacing any previous image with
// the same name. The stored digest is the hex SHA-256 of the payload.
func (s *Store) Put(ctx context.Context, runID, name string, data []byte) error {
	digest := sha256.Sum256(data)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO images (name, run_id, digest, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			run_id = excluded.run_id,
			digest = excluded.digest,
			data   = excluded.data
	`, name, runID, hex.EncodeToString(digest[:]), data)
	if err != nil {
		return fmt.Errorf("failed to store image %q: %w", name, err)
	}
	return nil
}

// Get returns the payload of the named image.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM images WHERE name = ?`, name,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("image %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image %q: %w", name, err)
	}
	return data, nil
}

// List returns catalog metadata for every stored image, ordered by name.
func (s *Store) List(ctx context.Context) ([]Image, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, run_id, digest FROM images ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []Image
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.Name, &img.RunID, &img.Digest); err != nil {
			return nil, fmt.Errorf("failed to scan image row: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
