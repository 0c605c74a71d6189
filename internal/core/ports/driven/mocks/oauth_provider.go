package mocks

import (
	"context"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
)

var _ driven.OAuthProvider = (*MockOAuthProvider)(nil)

// MockOAuthProvider is an OAuthProvider that counts every outbound call.
type MockOAuthProvider struct {
	NotConfigured bool

	ExchangeCodeFn func(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error)
	FetchProfileFn func(ctx context.Context, accessToken, scope string) *domain.LinkedProfile

	ExchangeCalls int
	ProfileCalls  int
}

// NewMockOAuthProvider returns a provider that issues a full token set and no profile.
func NewMockOAuthProvider() *MockOAuthProvider {
	return &MockOAuthProvider{}
}

// NetworkCalls is the total number of calls that would have left the process.
func (m *MockOAuthProvider) NetworkCalls() int {
	return m.ExchangeCalls + m.ProfileCalls
}

func (m *MockOAuthProvider) Configured() bool {
	return !m.NotConfigured
}

func (m *MockOAuthProvider) BuildAuthURL(state, codeChallenge string) string {
	return "https://www.tiktok.com/v2/auth/authorize/?state=" + state + "&code_challenge=" + codeChallenge
}

func (m *MockOAuthProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error) {
	m.ExchangeCalls++
	if m.ExchangeCodeFn != nil {
		return m.ExchangeCodeFn(ctx, code, codeVerifier)
	}
	expiresIn := int64(86400)
	refreshExpiresIn := int64(31536000)
	return &driven.OAuthToken{
		AccessToken:      "act.test",
		RefreshToken:     "rft.test",
		Scope:            "user.info.basic",
		OpenID:           "open-123",
		ExpiresIn:        &expiresIn,
		RefreshExpiresIn: &refreshExpiresIn,
	}, nil
}

func (m *MockOAuthProvider) FetchProfile(ctx context.Context, accessToken, scope string) *domain.LinkedProfile {
	m.ProfileCalls++
	if m.FetchProfileFn != nil {
		return m.FetchProfileFn(ctx, accessToken, scope)
	}
	return nil
}
