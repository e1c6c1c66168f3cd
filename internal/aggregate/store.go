package aggregate

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/crimetrends/internal/model"
)

// Filter decides whether an aggregated (borough, offence) group is dropped.
type Filter interface {
	Excluded(borough, offence string) bool
}

// Store is an in-memory SQLite table of raw offence rows.
type Store struct {
	db *sql.DB
}

// Open creates an empty in-memory store.
func Open(ctx context.Context) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, so the pool is
	// pinned to a single connection that is never recycled.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE offences (
		year INTEGER NOT NULL,
		borough TEXT NOT NULL,
		offence TEXT NOT NULL,
		count REAL NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Insert adds rows to the store in a single transaction.
func (s *Store) Insert(ctx context.Context, rows []model.RawRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO offences (year, borough, offence, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if math.IsNaN(r.Count) || math.IsInf(r.Count, 0) || r.Count < 0 {
			return fmt.Errorf("%w: %v for %d/%s/%s", ErrInvalidCount, r.Count, r.Year, r.Borough, r.Offence)
		}
		if _, err := stmt.ExecContext(ctx, r.Year, r.Borough, r.Offence, r.Count); err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rows: %w", err)
	}
	return nil
}

// Sum returns one record per (year, borough, offence) key with the summed
// count rounded to the nearest integer, ordered by borough, offence, year.
// Groups matched by filter are omitted; a nil filter keeps every group.
func (s *Store) Sum(ctx context.Context, filter Filter) ([]model.OffenceRecord, error) {
	query := `
	SELECT year, borough, offence, SUM(count)
	FROM offences
	GROUP BY year, borough, offence
	ORDER BY borough, offence, year
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to sum offences: %w", err)
	}
	defer rows.Close()

	records := make([]model.OffenceRecord, 0)
	for rows.Next() {
		var r model.OffenceRecord
		var total float64
		if err := rows.Scan(&r.Year, &r.Borough, &r.Offence, &total); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		if filter != nil && filter.Excluded(r.Borough, r.Offence) {
			continue
		}
		r.Count = int64(math.Round(total))
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregates: %w", err)
	}
	return records, nil
}

// Aggregate sums rows by (year, borough, offence) and drops the groups
// matched by filter. Aggregating the output again yields the same records.
func Aggregate(ctx context.Context, rows []model.RawRow, filter Filter) ([]model.OffenceRecord, error) {
	s, err := Open(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.Insert(ctx, rows); err != nil {
		return nil, err
	}
	return s.Sum(ctx, filter)
}
