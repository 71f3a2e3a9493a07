// Package history persists per-visitor search terms for personalization.
// Identification replaces cookies here, so history survives incognito mode
// and cache clearing.
package history

import (
	"time"

	"github.com/google/uuid"

	dErrors "fraudguard/pkg/domain-errors"
)

// SearchTerm is one recorded search query for a visitor.
type SearchTerm struct {
	ID        string    `json:"id"`
	VisitorID string    `json:"visitorId"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSearchTerm creates a search term record with invariant validation.
func NewSearchTerm(visitorID, query string, at time.Time) (*SearchTerm, error) {
	if visitorID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "visitor ID cannot be empty")
	}
	if query == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "query cannot be empty")
	}
	return &SearchTerm{
		ID:        uuid.NewString(),
		VisitorID: visitorID,
		Query:     query,
		Timestamp: at,
	}, nil
}
