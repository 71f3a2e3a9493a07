package history

import "context"

// Store is the search history repository.
type Store interface {
	// Save appends one search term.
	Save(ctx context.Context, term *SearchTerm) error

	// ListByVisitor returns the visitor's terms, most recent first.
	ListByVisitor(ctx context.Context, visitorID string) ([]*SearchTerm, error)
}
