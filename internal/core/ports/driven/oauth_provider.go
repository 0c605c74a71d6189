package driven

import (
	"context"
	"fmt"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
)

// OAuthToken is the token set returned by an authorization-code exchange.
// Lifetimes are nil when the provider omitted them.
type OAuthToken struct {
	AccessToken      string
	RefreshToken     string
	Scope            string
	OpenID           string
	ExpiresIn        *int64
	RefreshExpiresIn *int64
}

// TokenExchangeError is a rejected or failed token exchange.
type TokenExchangeError struct {
	Status      int
	Code        string
	Description string
}

func (e *TokenExchangeError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("token exchange failed (%d): %s: %s", e.Status, e.Code, e.Description)
	}
	return fmt.Sprintf("token exchange failed (%d): %s", e.Status, e.Code)
}

// OAuthProvider performs the provider side of the account linking flow.
type OAuthProvider interface {
	// Configured reports whether client credentials and redirect URI are set.
	Configured() bool

	// BuildAuthURL constructs the authorization URL for a PKCE flow.
	BuildAuthURL(state, codeChallenge string) string

	// ExchangeCode trades an authorization code for tokens in exactly one call.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*OAuthToken, error)

	// FetchProfile returns the account profile, or nil when it cannot be
	// fetched. It never returns an error to the caller.
	FetchProfile(ctx context.Context, accessToken, scope string) *domain.LinkedProfile
}
