package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "checklist.sqlite"

// SQLiteBackend keeps slots as rows of a single table in a SQLite file.
// A connection is opened per operation; the CLI and TUI are short-lived and
// another process may hold the file.
type SQLiteBackend struct {
	Path string
}

func (SQLiteBackend) Name() string { return BackendSQLite }

func (s SQLiteBackend) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	// WAL allows one writer + many readers; busy_timeout avoids "database is locked"
	// when the web UI and a CLI command touch the file at once.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSlots(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSlots(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (s SQLiteBackend) Read(ctx context.Context, ns string) ([]byte, error) {
	if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
		return nil, ErrSlotMissing
	}
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM slots WHERE k = ?`, ns).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotMissing
	}
	if err != nil {
		return nil, err
	}
	return []byte(v), nil
}

func (s SQLiteBackend) Write(ctx context.Context, ns string, b []byte) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx,
		`INSERT INTO slots(k, v, updated_at_unixms) VALUES(?, ?, ?)
		 ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at_unixms = excluded.updated_at_unixms`,
		ns, string(b), time.Now().UTC().UnixMilli())
	return err
}

func (s SQLiteBackend) Remove(ctx context.Context, ns string) error {
	if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `DELETE FROM slots WHERE k = ?`, ns)
	return err
}
