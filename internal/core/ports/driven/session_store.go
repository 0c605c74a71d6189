package driven

import (
	"context"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
)

// SessionStore reads platform sessions (Redis or PostgreSQL).
// Sessions are written by the marketplace login flow; Save and Delete exist
// for that flow and for tests.
type SessionStore interface {
	// Save stores a session with TTL based on ExpiresAt
	Save(ctx context.Context, session *domain.Session) error

	// Get retrieves a session by ID.
	// Returns domain.ErrNotFound if the session doesn't exist or expired.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete deletes a session
	Delete(ctx context.Context, id string) error
}
