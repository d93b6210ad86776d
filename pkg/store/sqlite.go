package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS sortable_entries (
	type TEXT NOT NULL,
	id INTEGER NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	ord INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (type, id)
)`

// SQLite stores entries in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", p, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// List implements Store.
func (s *SQLite) List(ctx context.Context, typ string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, ord FROM sortable_entries WHERE type = ? ORDER BY ord, id`, typ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Order); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, unknownType(typ)
	}
	return out, nil
}

// Put implements Store.
func (s *SQLite) Put(ctx context.Context, typ string, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sortable_entries (type, id, name, ord) VALUES (?, ?, ?, ?)
		 ON CONFLICT(type, id) DO UPDATE SET name = excluded.name, ord = excluded.ord`,
		typ, e.ID, e.Name, e.Order)
	return err
}

// Reorder implements Store.
func (s *SQLite) Reorder(ctx context.Context, typ string, orders map[int]int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sortable_entries WHERE type = ?`, typ).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return unknownType(typ)
	}

	for id, order := range orders {
		res, err := tx.ExecContext(ctx,
			`UPDATE sortable_entries SET ord = ? WHERE type = ? AND id = ?`, order, typ, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %d in %q", ErrUnknownID, id, typ)
		}
	}
	return tx.Commit()
}

// Close implements Store.
func (s *SQLite) Close() error { return s.db.Close() }
