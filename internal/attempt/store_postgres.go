package attempt

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresStore persists attempt history in PostgreSQL.
// This store is pure I/O; windowing and exclusion policy belong to callers.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed attempt store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the attempts table if it does not exist. Demo-scale
// bootstrap; production deployments run migrations instead.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS attempts (
			id UUID PRIMARY KEY,
			visitor_id TEXT NOT NULL,
			action TEXT NOT NULL,
			outcome TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL,
			contact_hash TEXT NOT NULL DEFAULT '',
			meta TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_attempts_visitor_action_time
			ON attempts (visitor_id, action, occurred_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure attempts schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Record(ctx context.Context, record *Record) error {
	query := `
		INSERT INTO attempts (id, visitor_id, action, outcome, occurred_at, contact_hash, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.VisitorID,
		string(record.Action),
		string(record.Outcome),
		record.Timestamp,
		record.ContactHash,
		record.Meta,
	)
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountSince(ctx context.Context, visitorID string, action Action, since time.Time, excluded []Outcome) (int, error) {
	excludedStrings := make([]string, len(excluded))
	for i, outcome := range excluded {
		excludedStrings[i] = string(outcome)
	}

	query := `
		SELECT COUNT(*)
		FROM attempts
		WHERE visitor_id = $1
		  AND action = $2
		  AND occurred_at >= $3
		  AND outcome != ALL($4)
	`
	var count int
	err := s.db.QueryRowContext(ctx, query, visitorID, string(action), since, pq.Array(excludedStrings)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) MostRecent(ctx context.Context, visitorID string, action Action, excluded []Outcome) (*Record, error) {
	excludedStrings := make([]string, len(excluded))
	for i, outcome := range excluded {
		excludedStrings[i] = string(outcome)
	}

	query := `
		SELECT id, visitor_id, action, outcome, occurred_at, contact_hash, meta
		FROM attempts
		WHERE visitor_id = $1 AND action = $2 AND outcome != ALL($3)
		ORDER BY occurred_at DESC
		LIMIT 1
	`
	var record Record
	err := s.db.QueryRowContext(ctx, query, visitorID, string(action), pq.Array(excludedStrings)).Scan(
		&record.ID,
		&record.VisitorID,
		&record.Action,
		&record.Outcome,
		&record.Timestamp,
		&record.ContactHash,
		&record.Meta,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("most recent attempt: %w", err)
	}
	return &record, nil
}
