package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store is the persistence contract for calculations. There is no update:
// records are only inserted, read and cleared all at once.
type Store interface {
	Insert(ctx context.Context, c Calculation) error
	Get(ctx context.Context, id string) (Calculation, error)
	// List returns every calculation, oldest first.
	List(ctx context.Context) ([]Calculation, error)
	Clear(ctx context.Context) error
}

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// Open migrates the database at path to the latest schema and opens it.
func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1) // sqlite
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Insert(ctx context.Context, c Calculation) error {
	if c.ID == "" {
		return errors.New("calculation id is empty")
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO calculations(id, expression, result, created_at) VALUES (?, ?, ?, ?)
	`, c.ID, c.Expression, c.Result, c.CreatedAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("insert calculation %s: %w", c.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Calculation, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT id, expression, result, created_at FROM calculations WHERE id = ?
	`, id)

	c, err := scanCalculation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Calculation{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Calculation{}, fmt.Errorf("get calculation %s: %w", id, err)
	}
	return c, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Calculation, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, expression, result, created_at FROM calculations ORDER BY created_at, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list calculations: %w", err)
	}
	defer rows.Close()

	out := []Calculation{}
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM calculations`); err != nil {
		return fmt.Errorf("clear calculations: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row scanner) (Calculation, error) {
	var (
		c       Calculation
		created int64
	)
	if err := row.Scan(&c.ID, &c.Expression, &c.Result, &created); err != nil {
		return Calculation{}, err
	}
	c.CreatedAt = time.Unix(0, created).UTC()
	return c, nil
}
