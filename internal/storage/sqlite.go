// Package storage caches arXiv metadata in SQLite so repeated runs skip the network.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matsen/citefill/internal/reference"
	_ "modernc.org/sqlite"
)

// Cache wraps a SQLite database of fetched arXiv entries.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates a cache database at the given path.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS arxiv_entries (
			arxiv_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors_json TEXT NOT NULL,
			pub_year TEXT NOT NULL,
			pub_month TEXT NOT NULL,
			abstract TEXT NOT NULL,
			fetched_at TEXT NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Get returns the cached entry for an arXiv ID, or nil if there is none.
func (c *Cache) Get(id string) (*reference.Reference, error) {
	row := c.db.QueryRow(`
		SELECT arxiv_id, title, authors_json, pub_year, pub_month, abstract
		FROM arxiv_entries WHERE arxiv_id = ?`, id)

	var ref reference.Reference
	var authorsJSON string
	err := row.Scan(&ref.ArXivID, &ref.Title, &authorsJSON,
		&ref.Published.Year, &ref.Published.Month, &ref.Abstract)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached entry %s: %w", id, err)
	}

	if err := json.Unmarshal([]byte(authorsJSON), &ref.Authors); err != nil {
		return nil, fmt.Errorf("parsing cached authors for %s: %w", id, err)
	}

	return &ref, nil
}

// Put stores an entry, replacing any previous version.
func (c *Cache) Put(ref reference.Reference) error {
	authorsJSON, err := json.Marshal(ref.Authors)
	if err != nil {
		return fmt.Errorf("marshaling authors for %s: %w", ref.ArXivID, err)
	}

	_, err = c.db.Exec(`
		INSERT OR REPLACE INTO arxiv_entries (
			arxiv_id, title, authors_json, pub_year, pub_month, abstract, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ref.ArXivID, ref.Title, string(authorsJSON),
		ref.Published.Year, ref.Published.Month, ref.Abstract,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("caching entry %s: %w", ref.ArXivID, err)
	}
	return nil
}

// Count returns the number of cached entries.
func (c *Cache) Count() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM arxiv_entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cached entries: %w", err)
	}
	return n, nil
}
