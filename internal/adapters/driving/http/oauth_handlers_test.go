package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driving"
	"github.com/custodia-labs/creator-bridge/internal/core/services"
)

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func requireRedirect(t *testing.T, rr *httptest.ResponseRecorder) *url.URL {
	t.Helper()
	require.Equal(t, http.StatusFound, rr.Code)
	u, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	return u
}

func requirePendingCleared(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	for _, name := range []string{stateCookieName, verifierCookieName} {
		c := findCookie(rr, name)
		require.NotNil(t, c, "expected clearing cookie for %s", name)
		assert.Empty(t, c.Value)
		assert.Less(t, c.MaxAge, 0)
	}
}

func callbackRequest(query string, cookies map[string]string, token string) *http.Request {
	req := httptest.NewRequest("GET", "/api/v1/oauth/tiktok/callback?"+query, nil)
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}
	return req
}

func TestHandleOAuthAuthorize(t *testing.T) {
	oauth := &mockOAuthService{
		authorizeFn: func(ctx context.Context) (*driving.AuthorizeResult, error) {
			return &driving.AuthorizeResult{
				AuthorizationURL: "https://www.tiktok.com/v2/auth/authorize/?state=st",
				Pending:          domain.PendingAuthorization{State: "st", CodeVerifier: "cv"},
			}, nil
		},
	}
	s := newTestServer(testServerOpts{oauth: oauth})

	rr := serve(s, httptest.NewRequest("GET", "/api/v1/oauth/tiktok/authorize", nil))

	u := requireRedirect(t, rr)
	assert.Equal(t, "www.tiktok.com", u.Host)

	state := findCookie(rr, stateCookieName)
	require.NotNil(t, state)
	assert.Equal(t, "st", state.Value)
	assert.True(t, state.HttpOnly)
	assert.True(t, state.Secure)
	assert.Equal(t, http.SameSiteLaxMode, state.SameSite)
	assert.Equal(t, "/", state.Path)
	assert.Equal(t, pendingMaxAge, state.MaxAge)

	verifier := findCookie(rr, verifierCookieName)
	require.NotNil(t, verifier)
	assert.Equal(t, "cv", verifier.Value)
}

func TestHandleOAuthAuthorize_NotConfigured(t *testing.T) {
	oauth := &mockOAuthService{
		authorizeFn: func(ctx context.Context) (*driving.AuthorizeResult, error) {
			return nil, driving.NewOAuthError(driving.ReasonServerConfiguration, nil)
		},
	}
	s := newTestServer(testServerOpts{oauth: oauth})

	rr := serve(s, httptest.NewRequest("GET", "/api/v1/oauth/tiktok/authorize", nil))

	u := requireRedirect(t, rr)
	assert.Equal(t, "app.example.com", u.Host)
	assert.Equal(t, "server_configuration", u.Query().Get(errorQueryParam))
	assert.Nil(t, findCookie(rr, stateCookieName))
}

func TestHandleOAuthCallback_PassesRequest(t *testing.T) {
	oauth := &mockOAuthService{
		callbackFn: func(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResult, error) {
			return nil, driving.NewOAuthError(driving.ReasonStateMismatch, nil)
		},
	}
	s := newTestServer(testServerOpts{oauth: oauth})

	req := callbackRequest("code=c1&state=s1&error=",
		map[string]string{stateCookieName: "s0", verifierCookieName: "v0"}, "creator-token")
	serve(s, req)

	got := oauth.lastRequest
	assert.Equal(t, "c1", got.Code)
	assert.Equal(t, "s1", got.State)
	assert.Empty(t, got.Error)
	assert.Equal(t, "s0", got.StoredState)
	assert.Equal(t, "v0", got.CodeVerifier)
	assert.Equal(t, "user-1", got.UserID)
}

func TestHandleOAuthCallback_NoSession(t *testing.T) {
	oauth := &mockOAuthService{
		callbackFn: func(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResult, error) {
			return nil, driving.NewOAuthError(driving.ReasonMissingSession, nil)
		},
	}
	s := newTestServer(testServerOpts{oauth: oauth})

	rr := serve(s, callbackRequest("code=c&state=s", nil, "bogus-token"))

	assert.Empty(t, oauth.lastRequest.UserID)
	u := requireRedirect(t, rr)
	assert.Equal(t, "missing_session", u.Query().Get(errorQueryParam))
}

func TestHandleOAuthCallback_ErrorReasons(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{"classified", driving.NewOAuthError(driving.ReasonMissingCode, nil), "missing_code"},
		{"provider description", driving.NewOAuthError("Authorization code is expired.", errors.New("exchange")), "Authorization code is expired."},
		{"unclassified", errors.New("surprise"), "unknown_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oauth := &mockOAuthService{
				callbackFn: func(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResult, error) {
					return nil, tt.err
				},
			}
			s := newTestServer(testServerOpts{oauth: oauth})

			rr := serve(s, callbackRequest("state=s", map[string]string{stateCookieName: "s"}, "creator-token"))

			u := requireRedirect(t, rr)
			assert.Equal(t, "/creator/settings", u.Path)
			assert.Equal(t, tt.reason, u.Query().Get(errorQueryParam))
			requirePendingCleared(t, rr)
			assert.Nil(t, findCookie(rr, accessTokenCookieName))
		})
	}
}

func TestHandleOAuthCallback_Panic(t *testing.T) {
	oauth := &mockOAuthService{
		callbackFn: func(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResult, error) {
			panic("boom")
		},
	}
	s := newTestServer(testServerOpts{oauth: oauth})

	rr := serve(s, callbackRequest("state=s", nil, "creator-token"))

	u := requireRedirect(t, rr)
	assert.Equal(t, "unknown_error", u.Query().Get(errorQueryParam))
	requirePendingCleared(t, rr)
}

func TestHandleOAuthCallback_Success(t *testing.T) {
	oauth := &mockOAuthService{
		callbackFn: func(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResult, error) {
			return &driving.CallbackResult{
				Account: &domain.LinkedAccount{
					UserID:       req.UserID,
					Provider:     domain.ProviderTikTok,
					ExternalID:   "open-123",
					AccessToken:  "act.abc",
					RefreshToken: "rft.def",
					Scope:        []string{"user.info.basic", "user.info.stats"},
				},
				AccessMaxAge:  86400,
				RefreshMaxAge: 31536000,
			}, nil
		},
	}
	s := newTestServer(testServerOpts{oauth: oauth})

	rr := serve(s, callbackRequest("code=c&state=s",
		map[string]string{stateCookieName: "s", verifierCookieName: "v"}, "creator-token"))

	u := requireRedirect(t, rr)
	assert.Equal(t, "/creator/settings", u.Path)
	assert.Equal(t, "tiktok", u.Query().Get("linked"))
	assert.Empty(t, u.Query().Get(errorQueryParam))
	requirePendingCleared(t, rr)

	tests := []struct {
		name   string
		value  string
		maxAge int
	}{
		{accessTokenCookieName, "act.abc", 86400},
		{refreshTokenCookieName, "rft.def", 31536000},
		{openIDCookieName, "open-123", 31536000},
		{scopeCookieName, "user.info.basic,user.info.stats", 31536000},
	}
	for _, tt := range tests {
		c := findCookie(rr, tt.name)
		require.NotNil(t, c, tt.name)
		assert.Equal(t, tt.value, c.Value, tt.name)
		assert.Equal(t, tt.maxAge, c.MaxAge, tt.name)
		assert.True(t, c.HttpOnly, tt.name)
		assert.True(t, c.Secure, tt.name)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite, tt.name)
		assert.Equal(t, "/", c.Path, tt.name)
	}
}

func TestCookieWriter_InsecureForLocalDev(t *testing.T) {
	rr := httptest.NewRecorder()
	CookieWriter{Secure: false}.SetPending(rr, domain.PendingAuthorization{State: "s", CodeVerifier: "v"})

	c := findCookie(rr, stateCookieName)
	require.NotNil(t, c)
	assert.False(t, c.Secure)
	assert.True(t, c.HttpOnly)
}

// newLinkingServer wires the real OAuth service to counting driven mocks.
func newLinkingServer(provider *mocks.MockOAuthProvider, store *mocks.MockLinkedAccountStore) *Server {
	oauth := services.NewOAuthService(services.OAuthServiceConfig{
		Provider:     provider,
		AccountStore: store,
		Now:          func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
	cfg := DefaultConfig()
	cfg.Redirects = RedirectConfig{AppBaseURL: "https://app.example.com", SuccessPath: "/ok", ErrorPath: "/err"}
	return NewServer(cfg, Services{
		Auth:     tokenAuth(),
		OAuth:    oauth,
		Sync:     &mockSyncService{},
		Accounts: &mockAccountService{},
	}, nil, nil)
}

func TestOAuthCallback_EndToEnd_StateMismatch(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	store := mocks.NewMockLinkedAccountStore()
	s := newLinkingServer(provider, store)

	rr := serve(s, callbackRequest("code=c&state=xyz",
		map[string]string{stateCookieName: "abc", verifierCookieName: "v"}, "creator-token"))

	u := requireRedirect(t, rr)
	assert.Equal(t, "/err", u.Path)
	assert.Equal(t, "state_mismatch", u.Query().Get(errorQueryParam))
	assert.Equal(t, 0, provider.NetworkCalls())
	assert.Equal(t, 0, store.Count())
}

func TestOAuthCallback_EndToEnd_MissingCookies(t *testing.T) {
	tests := []struct {
		name    string
		cookies map[string]string
		reason  string
	}{
		{"no state cookie", map[string]string{verifierCookieName: "v"}, "state_mismatch"},
		{"no verifier cookie", map[string]string{stateCookieName: "s"}, "missing_code_verifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := mocks.NewMockOAuthProvider()
			s := newLinkingServer(provider, mocks.NewMockLinkedAccountStore())

			rr := serve(s, callbackRequest("code=c&state=s", tt.cookies, "creator-token"))

			u := requireRedirect(t, rr)
			assert.Equal(t, tt.reason, u.Query().Get(errorQueryParam))
			assert.Equal(t, 0, provider.NetworkCalls())
		})
	}
}

func TestOAuthCallback_EndToEnd_Success(t *testing.T) {
	provider := mocks.NewMockOAuthProvider()
	store := mocks.NewMockLinkedAccountStore()
	s := newLinkingServer(provider, store)

	rr := serve(s, callbackRequest("code=c&state=s",
		map[string]string{stateCookieName: "s", verifierCookieName: "v"}, "creator-token"))

	u := requireRedirect(t, rr)
	assert.Equal(t, "/ok", u.Path)
	assert.Equal(t, 1, provider.ExchangeCalls)
	assert.Equal(t, 1, store.Count())

	access := findCookie(rr, accessTokenCookieName)
	require.NotNil(t, access)
	assert.Equal(t, "act.test", access.Value)
	assert.Equal(t, 86400, access.MaxAge)

	// Replaying the same redirect without the consumed cookies fails.
	rr = serve(s, callbackRequest("code=c&state=s", nil, "creator-token"))
	u = requireRedirect(t, rr)
	assert.Equal(t, "state_mismatch", u.Query().Get(errorQueryParam))
	assert.Equal(t, 1, provider.ExchangeCalls)
}
