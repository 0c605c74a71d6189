package driving

import (
	"context"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
)

// AuthService resolves platform sessions
type AuthService interface {
	// ValidateToken validates a JWT token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// IssueSession creates a session for a user and returns its signed token
	IssueSession(ctx context.Context, userID, email string, role domain.Role) (string, error)
}
