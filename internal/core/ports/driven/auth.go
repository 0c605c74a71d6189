package driven

import "github.com/custodia-labs/creator-bridge/internal/core/domain"

// AuthAdapter handles platform session token cryptography.
// This does NOT handle storage - use SessionStore for session persistence.
type AuthAdapter interface {
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
