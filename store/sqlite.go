package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLite stores content in a single key-value table.
type SQLite struct {
	ns string
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path, namespace string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: sqlite: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: sqlite: open: %w", err)
	}
	for _, stmt := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		sqliteSchema,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: sqlite: %q: %w", stmt, err)
		}
	}
	return &SQLite{ns: namespace, db: db}, nil
}

func (s *SQLite) Available(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

func (s *SQLite) Load(ctx context.Context) (Content, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE key IN (?, ?)`,
		key(s.ns, KeyTitle), key(s.ns, KeyBody))
	if err != nil {
		return Content{}, false, fmt.Errorf("store: sqlite: load: %w", err)
	}
	defer rows.Close()

	var c Content
	found := false
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Content{}, false, fmt.Errorf("store: sqlite: scan: %w", err)
		}
		found = true
		switch k {
		case key(s.ns, KeyTitle):
			c.Title = v
		case key(s.ns, KeyBody):
			c.Body = v
		}
	}
	if err := rows.Err(); err != nil {
		return Content{}, false, fmt.Errorf("store: sqlite: load: %w", err)
	}
	return c, found, nil
}

func (s *SQLite) Save(ctx context.Context, c Content) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for _, kv := range [][2]string{
		{key(s.ns, KeyTitle), c.Title},
		{key(s.ns, KeyBody), c.Body},
	} {
		if _, err := tx.ExecContext(ctx, upsert, kv[0], kv[1]); err != nil {
			return fmt.Errorf("store: sqlite: save: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: sqlite: commit: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
