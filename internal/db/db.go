// Package db provides optional PostgreSQL mirroring of verification
// evidence. Batch runs persist disagreements to disk first; the database
// is a queryable convenience mirror, and any failure here degrades to
// file-only persistence.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateRun records the start of a batch verification run and returns
// its ID.
func (db *DB) CreateRun(ctx context.Context, baseURL string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO verification_runs (index_url, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		baseURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a verification run as finished with the given
// attempted/flagged counts.
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, attempted, flagged int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE verification_runs
		 SET status = 'completed', attempted = $1, flagged = $2, completed_at = NOW()
		 WHERE id = $3`,
		attempted, flagged, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveProblem mirrors one disagreeing precinct's full page content as a
// JSONB row keyed by run and precinct.
func (db *DB) SaveProblem(ctx context.Context, runID uuid.UUID, precinctID string, content any) error {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal problem content: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO problems (run_id, precinct_id, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, precinct_id) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, precinctID, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save problem for %s: %w", precinctID, err)
	}
	return nil
}
