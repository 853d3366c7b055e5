// Package store keeps named packing results in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/piwi3910/CargoFit/internal/model"
)

// ErrNotFound is returned when no layout has the requested id.
var ErrNotFound = errors.New("layout not found")

// LayoutSummary is the listing view of a saved layout.
type LayoutSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Container    string    `json:"container"`
	FittedItems  int       `json:"fitted_items"`
	TotalItems   int       `json:"total_items"`
	Efficiency   float64   `json:"efficiency"`
	FittedWeight float64   `json:"fitted_weight"`
	CreatedAt    time.Time `json:"created_at"`
}

// Layout is a saved packing result.
type Layout struct {
	LayoutSummary
	Result model.PackResult `json:"result"`
}

// Store persists layouts. It is safe for concurrent use.
type Store struct {
	db      *sql.DB
	verbose bool
}

// Option configures a Store.
type Option func(*Store)

// WithVerbose makes migrations log every step.
func WithVerbose(v bool) Option {
	return func(s *Store) { s.verbose = v }
}

// Open opens or creates the database at path and applies pending migrations.
func Open(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps per-connection pragmas in force and serializes writers.
	db.SetMaxOpenConns(1)
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func applyPragmas(db *sql.DB) error {
	for _, p := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores result under name and returns the saved layout's summary.
func (s *Store) Save(ctx context.Context, name string, result model.PackResult) (LayoutSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LayoutSummary{}, fmt.Errorf("layout name must not be empty")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return LayoutSummary{}, fmt.Errorf("failed to encode layout: %w", err)
	}

	st := result.Stats()
	sum := LayoutSummary{
		ID:           uuid.New().String(),
		Name:         name,
		Container:    result.Container.Label,
		FittedItems:  st.FittedItems,
		TotalItems:   st.TotalItems,
		Efficiency:   st.VolumeEfficiency,
		FittedWeight: st.FittedWeight,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO layouts (id, name, container_label, fitted_items, total_items, efficiency, fitted_weight, created_at, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.Name, sum.Container, sum.FittedItems, sum.TotalItems,
		sum.Efficiency, sum.FittedWeight, sum.CreatedAt.Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return LayoutSummary{}, fmt.Errorf("failed to save layout %q: %w", name, err)
	}
	log.Printf("saved layout %s (%s): %d/%d units", sum.ID, sum.Name, sum.FittedItems, sum.TotalItems)
	return sum, nil
}

// Get returns the layout with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Layout, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, container_label, fitted_items, total_items, efficiency, fitted_weight, created_at, result_json
		FROM layouts WHERE id = ?`, id)

	var l Layout
	var created, data string
	err := row.Scan(&l.ID, &l.Name, &l.Container, &l.FittedItems, &l.TotalItems,
		&l.Efficiency, &l.FittedWeight, &created, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Layout{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Layout{}, err
	}
	if l.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Layout{}, fmt.Errorf("layout %s: bad created_at: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &l.Result); err != nil {
		return Layout{}, fmt.Errorf("layout %s: failed to decode result: %w", id, err)
	}
	return l, nil
}

// List returns all layout summaries, newest first.
func (s *Store) List(ctx context.Context) ([]LayoutSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, container_label, fitted_items, total_items, efficiency, fitted_weight, created_at
		FROM layouts ORDER BY rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []LayoutSummary{}
	for rows.Next() {
		var sum LayoutSummary
		var created string
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Container, &sum.FittedItems, &sum.TotalItems,
			&sum.Efficiency, &sum.FittedWeight, &created); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("layout %s: bad created_at: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the layout with the given id, or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM layouts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	log.Printf("deleted layout %s", id)
	return nil
}
