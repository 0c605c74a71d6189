package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driving"
)

// Mock services for testing

type mockAuthService struct {
	validateTokenFn func(ctx context.Context, token string) (*domain.AuthContext, error)
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	return nil, domain.ErrTokenInvalid
}

func (m *mockAuthService) IssueSession(ctx context.Context, userID, email string, role domain.Role) (string, error) {
	return "", errors.New("not implemented")
}

type mockOAuthService struct {
	authorizeFn func(ctx context.Context) (*driving.AuthorizeResult, error)
	callbackFn  func(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResult, error)
	lastRequest driving.CallbackRequest
}

func (m *mockOAuthService) Authorize(ctx context.Context) (*driving.AuthorizeResult, error) {
	if m.authorizeFn != nil {
		return m.authorizeFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockOAuthService) Callback(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResult, error) {
	m.lastRequest = req
	if m.callbackFn != nil {
		return m.callbackFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

type mockSyncService struct {
	syncFn       func(ctx context.Context, handle string) (*domain.SyncResult, error)
	getCreatorFn func(ctx context.Context, handle string) (*domain.CreatorProfile, error)
}

func (m *mockSyncService) Sync(ctx context.Context, handle string) (*domain.SyncResult, error) {
	if m.syncFn != nil {
		return m.syncFn(ctx, handle)
	}
	return nil, errors.New("not implemented")
}

func (m *mockSyncService) GetCreator(ctx context.Context, handle string) (*domain.CreatorProfile, error) {
	if m.getCreatorFn != nil {
		return m.getCreatorFn(ctx, handle)
	}
	return nil, domain.ErrNotFound
}

type mockAccountService struct {
	getFn func(ctx context.Context, userID string, provider domain.ProviderType) (*domain.LinkedAccountSummary, error)
}

func (m *mockAccountService) GetLinkedAccount(ctx context.Context, userID string, provider domain.ProviderType) (*domain.LinkedAccountSummary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID, provider)
	}
	return nil, domain.ErrNotFound
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// tokenAuth accepts "admin-token" and "creator-token".
func tokenAuth() *mockAuthService {
	return &mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			switch token {
			case "admin-token":
				return &domain.AuthContext{UserID: "admin-1", Role: domain.RoleAdmin, SessionID: "s-1"}, nil
			case "creator-token":
				return &domain.AuthContext{UserID: "user-1", Role: domain.RoleCreator, SessionID: "s-2"}, nil
			case "expired-token":
				return nil, domain.ErrTokenExpired
			}
			return nil, domain.ErrTokenInvalid
		},
	}
}

type testServerOpts struct {
	oauth    *mockOAuthService
	sync     *mockSyncService
	accounts *mockAccountService
	db       Pinger
	redis    Pinger
}

func newTestServer(opts testServerOpts) *Server {
	if opts.oauth == nil {
		opts.oauth = &mockOAuthService{}
	}
	if opts.sync == nil {
		opts.sync = &mockSyncService{}
	}
	if opts.accounts == nil {
		opts.accounts = &mockAccountService{}
	}
	cfg := DefaultConfig()
	cfg.Version = "test-version"
	cfg.Redirects = RedirectConfig{
		AppBaseURL:  "https://app.example.com",
		SuccessPath: "/creator/settings?linked=tiktok",
		ErrorPath:   "/creator/settings",
	}
	return NewServer(cfg, Services{
		Auth:     tokenAuth(),
		OAuth:    opts.oauth,
		Sync:     opts.sync,
		Accounts: opts.accounts,
	}, opts.db, opts.redis)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(testServerOpts{})
	rr := serve(s, httptest.NewRequest("GET", "/health", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
}

func TestHandleVersion(t *testing.T) {
	s := newTestServer(testServerOpts{})
	rr := serve(s, httptest.NewRequest("GET", "/version", nil))

	var resp VersionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Version != "test-version" {
		t.Errorf("expected test-version, got %s", resp.Version)
	}
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		redis  Pinger
		status int
	}{
		{"no backends", nil, nil, http.StatusOK},
		{"all healthy", &mockPinger{}, &mockPinger{}, http.StatusOK},
		{"database down", &mockPinger{err: errors.New("down")}, nil, http.StatusServiceUnavailable},
		{"redis down", &mockPinger{}, &mockPinger{err: errors.New("down")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(testServerOpts{db: tt.db, redis: tt.redis})
			rr := serve(s, httptest.NewRequest("GET", "/ready", nil))
			if rr.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rr.Code)
			}
		})
	}
}

func TestHandleSwaggerDoc(t *testing.T) {
	s := newTestServer(testServerOpts{})
	rr := serve(s, httptest.NewRequest("GET", "/swagger/doc.json", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc is not JSON: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/creators/sync"]; !ok {
		t.Error("expected /creators/sync in doc")
	}
}

func TestHandleSyncCreators(t *testing.T) {
	var gotHandle string
	syncSvc := &mockSyncService{
		syncFn: func(ctx context.Context, handle string) (*domain.SyncResult, error) {
			gotHandle = handle
			r := domain.NewSyncResult()
			r.RecordSuccess()
			r.RecordError("bob", errors.New("partner error 40001: creator not found"))
			r.Success = true
			return r, nil
		},
	}
	s := newTestServer(testServerOpts{sync: syncSvc})

	req := httptest.NewRequest("POST", "/api/v1/creators/sync?handle=alice", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rr := serve(s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotHandle != "alice" {
		t.Errorf("expected handle alice, got %q", gotHandle)
	}

	var result domain.SyncResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Success || result.Synced != 1 || result.ErrorCount != 1 {
		t.Errorf("unexpected result %+v", result)
	}
	if len(result.Details) != 1 || result.Details[0].Handle != "bob" {
		t.Errorf("unexpected details %+v", result.Details)
	}
}

func TestHandleSyncCreators_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"in progress", domain.ErrSyncInProgress, http.StatusConflict},
		{"invalid handle", domain.ErrInvalidInput, http.StatusBadRequest},
		{"list failure", errors.New("list handles: db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(testServerOpts{sync: &mockSyncService{
				syncFn: func(ctx context.Context, handle string) (*domain.SyncResult, error) {
					return nil, tt.err
				},
			}})
			req := httptest.NewRequest("POST", "/api/v1/creators/sync", nil)
			req.Header.Set("Authorization", "Bearer admin-token")
			rr := serve(s, req)
			if rr.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rr.Code)
			}
		})
	}
}

func TestHandleSyncCreators_RequiresAdmin(t *testing.T) {
	s := newTestServer(testServerOpts{})

	rr := serve(s, httptest.NewRequest("POST", "/api/v1/creators/sync", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rr.Code)
	}

	req := httptest.NewRequest("POST", "/api/v1/creators/sync", nil)
	req.Header.Set("Authorization", "Bearer creator-token")
	rr = serve(s, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for creator, got %d", rr.Code)
	}
}

func TestHandleGetCreator(t *testing.T) {
	followers := int64(12346)
	s := newTestServer(testServerOpts{sync: &mockSyncService{
		getCreatorFn: func(ctx context.Context, handle string) (*domain.CreatorProfile, error) {
			if handle != "alice" {
				return nil, domain.ErrNotFound
			}
			return &domain.CreatorProfile{ID: "creator-1", Handle: "alice", Followers: &followers}, nil
		},
	}})

	req := httptest.NewRequest("GET", "/api/v1/creators/alice", nil)
	req.Header.Set("Authorization", "Bearer creator-token")
	rr := serve(s, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var profile domain.CreatorProfile
	if err := json.NewDecoder(rr.Body).Decode(&profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Handle != "alice" || profile.Followers == nil || *profile.Followers != 12346 {
		t.Errorf("unexpected profile %+v", profile)
	}

	req = httptest.NewRequest("GET", "/api/v1/creators/ghost", nil)
	req.Header.Set("Authorization", "Bearer creator-token")
	rr = serve(s, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != "creator not found" {
		t.Errorf("unexpected error %q", msg)
	}
}

func TestHandleGetLinkedAccount(t *testing.T) {
	var gotUser string
	s := newTestServer(testServerOpts{accounts: &mockAccountService{
		getFn: func(ctx context.Context, userID string, provider domain.ProviderType) (*domain.LinkedAccountSummary, error) {
			gotUser = userID
			if provider != domain.ProviderTikTok {
				t.Errorf("unexpected provider %s", provider)
			}
			return &domain.LinkedAccountSummary{Provider: provider, ExternalID: "open-123"}, nil
		},
	}})

	req := httptest.NewRequest("GET", "/api/v1/accounts/tiktok", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "creator-token"})
	rr := serve(s, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if gotUser != "user-1" {
		t.Errorf("expected user-1, got %q", gotUser)
	}
	if body := rr.Body.String(); strings.Contains(body, "access_token") || strings.Contains(body, "act.") {
		t.Errorf("summary must not carry tokens: %s", body)
	}
}

func TestHandleGetLinkedAccount_NotFound(t *testing.T) {
	s := newTestServer(testServerOpts{})

	req := httptest.NewRequest("GET", "/api/v1/accounts/tiktok", nil)
	req.Header.Set("Authorization", "Bearer creator-token")
	rr := serve(s, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestRecovery(t *testing.T) {
	s := newTestServer(testServerOpts{sync: &mockSyncService{
		getCreatorFn: func(ctx context.Context, handle string) (*domain.CreatorProfile, error) {
			panic("boom")
		},
	}})

	req := httptest.NewRequest("GET", "/api/v1/creators/alice", nil)
	req.Header.Set("Authorization", "Bearer creator-token")
	rr := serve(s, req)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}
}
