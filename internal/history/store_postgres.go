package history

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists search history in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed search history store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the search_history table if it does not exist.
// Demo-scale bootstrap; production deployments run migrations instead.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS search_history (
			id UUID PRIMARY KEY,
			visitor_id TEXT NOT NULL,
			query TEXT NOT NULL,
			occurred_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_search_history_visitor_time
			ON search_history (visitor_id, occurred_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure search history schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, term *SearchTerm) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO search_history (id, visitor_id, query, occurred_at)
		VALUES ($1, $2, $3, $4)
	`, term.ID, term.VisitorID, term.Query, term.Timestamp)
	if err != nil {
		return fmt.Errorf("save search term: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByVisitor(ctx context.Context, visitorID string) ([]*SearchTerm, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, visitor_id, query, occurred_at
		FROM search_history
		WHERE visitor_id = $1
		ORDER BY occurred_at DESC
	`, visitorID)
	if err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	defer rows.Close()

	var terms []*SearchTerm
	for rows.Next() {
		var term SearchTerm
		if err := rows.Scan(&term.ID, &term.VisitorID, &term.Query, &term.Timestamp); err != nil {
			return nil, fmt.Errorf("scan search term: %w", err)
		}
		terms = append(terms, &term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search history: %w", err)
	}
	return terms, nil
}
