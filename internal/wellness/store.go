package wellness

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// PublicPageSize bounds the public listing; there is no pagination
// cursor, the newest-updated page is all anyone sees.
const PublicPageSize = 50

// ErrNotFound covers both a missing record and a record owned by
// someone else. Callers must not be able to tell the two apart.
var ErrNotFound = errors.New("session not found")

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects a payload wholesale before any mutation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Store persists wellness sessions. Every owner-scoped operation
// takes the caller's user ID and answers ErrNotFound on a mismatch;
// existence is never leaked to non-owners. Updates are all-or-nothing
// single writes with no optimistic concurrency: concurrent writers
// race and the later write wins.
type Store interface {
	// Create assigns ID and timestamps (created_at == updated_at).
	Create(ctx context.Context, s *Session) error

	// Get returns the session only if ownerID matches its owner.
	Get(ctx context.Context, id, ownerID string) (*Session, error)

	// Update replaces the mutable fields and refreshes updated_at.
	Update(ctx context.Context, id, ownerID string, f Fields) (*Session, error)

	// ListPublic returns published sessions, updated_at descending,
	// bounded to limit, with Author populated.
	ListPublic(ctx context.Context, limit int) ([]Session, error)

	// ListOwned returns all of ownerID's sessions, any status,
	// updated_at descending, unbounded.
	ListOwned(ctx context.Context, ownerID string) ([]Session, error)

	// Delete permanently removes the record. No tombstone.
	Delete(ctx context.Context, id, ownerID string) error
}
