package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"

	"github.com/yoanbernabeu/keycount/keywords"
)

// SqliteStore keeps all records in a single SQLite database.
//
// Tables:
//
//	records(name)                       PRIMARY KEY (name)
//	record_counts(name, keyword, count) PRIMARY KEY (name, keyword)
//
// A row in records marks the record as present even when it has no
// counts, which is how a scan of an empty tree is stored.
type SqliteStore struct {
	db   *sql.DB
	path string
}

// NewSqliteStore opens or creates the database at dbPath and ensures the
// schema exists.
func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS records (
		name TEXT PRIMARY KEY
	)`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS record_counts (
		name TEXT NOT NULL,
		keyword TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (name, keyword)
	)`); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db, path: dbPath}, nil
}

// Location returns the database path and record name.
func (s *SqliteStore) Location(name string) string {
	return s.path + "#" + name
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) Exists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE name = ?", name).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SqliteStore) Read(ctx context.Context, name string) (keywords.Counts, error) {
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Location(name))
	}

	rows, err := s.db.QueryContext(ctx, "SELECT keyword, count FROM record_counts WHERE name = ?", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := keywords.Counts{}
	for rows.Next() {
		var kw string
		var n int
		if err := rows.Scan(&kw, &n); err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: %s: negative count for %q", ErrParse, s.Location(name), kw)
		}
		counts[kw] = n
	}
	return counts, rows.Err()
}

func (s *SqliteStore) Create(ctx context.Context, name string, vocab keywords.Vocabulary, counts keywords.Counts) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "INSERT INTO records (name) VALUES (?)", name); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %s", ErrExists, s.Location(name))
		}
		return err
	}
	for _, kw := range vocab.Words() {
		n := counts[kw]
		if n == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO record_counts (name, keyword, count) VALUES (?, ?, ?)", name, kw, n); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SqliteStore) Remove(ctx context.Context, name string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM records WHERE name = ?", name)
	if err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM record_counts WHERE name = ?", name); err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}
