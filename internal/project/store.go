package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound is returned when a plan id is not in the index.
var ErrNotFound = errors.New("plan not found")

const schema = `
CREATE TABLE IF NOT EXISTS plans (
    id       TEXT PRIMARY KEY,
    name     TEXT NOT NULL,
    path     TEXT NOT NULL,
    created  TIMESTAMP NOT NULL,
    modified TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_plans_modified ON plans (modified DESC);
`

// Entry is one row of the plan index.
type Entry struct {
	ID       string
	Name     string
	Path     string
	Created  time.Time
	Modified time.Time
}

// Store is the SQLite-backed index of plan documents on disk. The documents
// themselves stay as JSON files; the index only serves listing and recents.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed creates) the plan index database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open plan index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate plan index: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add registers a plan document in the index.
func (s *Store) Add(ctx context.Context, f *File, path string) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO plans (id, name, path, created, modified)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (id) DO UPDATE SET name = excluded.name,
            path = excluded.path, modified = excluded.modified
    `, f.ID, f.Name, path, f.Created, f.Modified)
	if err != nil {
		return fmt.Errorf("index plan %s: %w", f.ID, err)
	}
	return nil
}

// List returns all indexed plans, most recently modified first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, path, created, modified
        FROM plans
        ORDER BY modified DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Path, &e.Created, &e.Modified); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get looks up a single plan by id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, path, created, modified
        FROM plans WHERE id = ?
    `, id)

	var e Entry
	if err := row.Scan(&e.ID, &e.Name, &e.Path, &e.Created, &e.Modified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("get plan %s: %w", id, err)
	}
	return e, nil
}

// Rename updates a plan's display name.
func (s *Store) Rename(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE plans SET name = ?, modified = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("rename plan %s: %w", id, err)
	}
	return checkAffected(res, id)
}

// Touch bumps a plan's modification time, keeping the recents order honest.
func (s *Store) Touch(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE plans SET modified = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch plan %s: %w", id, err)
	}
	return checkAffected(res, id)
}

// Delete removes a plan from the index. The document file is untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	return checkAffected(res, id)
}

func checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("plan %s: %w", id, ErrNotFound)
	}
	return nil
}
