package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driving"
)

// Ensure oauthService implements OAuthService
var _ driving.OAuthService = (*oauthService)(nil)

// OAuthServiceConfig holds configuration for the OAuth service.
type OAuthServiceConfig struct {
	// Provider performs token exchange and profile lookups.
	Provider driven.OAuthProvider

	// AccountStore persists linked accounts.
	AccountStore driven.LinkedAccountStore

	Logger *zap.Logger

	// Now is the clock used for token expiries. Defaults to time.Now.
	Now func() time.Time
}

// oauthService implements the OAuthService interface.
type oauthService struct {
	provider     driven.OAuthProvider
	accountStore driven.LinkedAccountStore
	logger       *zap.Logger
	now          func() time.Time
}

// NewOAuthService creates a new OAuth service.
func NewOAuthService(cfg OAuthServiceConfig) driving.OAuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &oauthService{
		provider:     cfg.Provider,
		accountStore: cfg.AccountStore,
		logger:       logger.Named("oauth"),
		now:          now,
	}
}

// Authorize generates a state nonce and PKCE verifier and returns the
// provider authorization URL.
func (s *oauthService) Authorize(ctx context.Context) (*driving.AuthorizeResult, error) {
	if !s.provider.Configured() {
		return nil, driving.NewOAuthError(driving.ReasonServerConfiguration, nil)
	}

	state, err := generateRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	codeVerifier, err := generateRandomString(64)
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}

	return &driving.AuthorizeResult{
		AuthorizationURL: s.provider.BuildAuthURL(state, generateCodeChallenge(codeVerifier)),
		Pending: domain.PendingAuthorization{
			State:        state,
			CodeVerifier: codeVerifier,
		},
	}, nil
}

// Callback runs the callback state machine. Every check before the token
// exchange completes without a network call.
func (s *oauthService) Callback(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResult, error) {
	if req.State == "" {
		return nil, s.fail(driving.ReasonMissingState, nil)
	}
	if req.StoredState == "" || subtle.ConstantTimeCompare([]byte(req.StoredState), []byte(req.State)) != 1 {
		return nil, s.fail(driving.ReasonStateMismatch, nil)
	}
	if req.Error != "" {
		return nil, s.fail(req.Error, nil)
	}
	if req.Code == "" {
		return nil, s.fail(driving.ReasonMissingCode, nil)
	}
	if req.CodeVerifier == "" {
		return nil, s.fail(driving.ReasonMissingCodeVerifier, nil)
	}
	if req.UserID == "" {
		return nil, s.fail(driving.ReasonMissingSession, nil)
	}
	if !s.provider.Configured() {
		return nil, s.fail(driving.ReasonServerConfiguration, nil)
	}

	token, err := s.provider.ExchangeCode(ctx, req.Code, req.CodeVerifier)
	if err != nil {
		reason := driving.ReasonTokenExchangeFailed
		var exchangeErr *driven.TokenExchangeError
		if errors.As(err, &exchangeErr) && exchangeErr.Description != "" {
			reason = exchangeErr.Description
		}
		return nil, s.fail(reason, err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, s.fail(driving.ReasonTokenExchangeFailed, errors.New("response has no access_token"))
	}
	if strings.TrimSpace(token.OpenID) == "" {
		return nil, s.fail(driving.ReasonMissingOpenID, nil)
	}

	now := s.now()
	account := &domain.LinkedAccount{
		UserID:           req.UserID,
		Provider:         domain.ProviderTikTok,
		ExternalID:       token.OpenID,
		AccessToken:      token.AccessToken,
		RefreshToken:     token.RefreshToken,
		Scope:            domain.SplitScopes(token.Scope),
		ExpiresAt:        domain.ExpiryAt(now, token.ExpiresIn),
		RefreshExpiresAt: domain.ExpiryAt(now, token.RefreshExpiresIn),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := account.Validate(); err != nil {
		return nil, s.fail(driving.ReasonAccountPersistFailed, err)
	}
	if err := s.accountStore.Upsert(ctx, account); err != nil {
		return nil, s.fail(driving.ReasonAccountPersistFailed, fmt.Errorf("upsert linked account: %w", err))
	}

	s.enrich(ctx, account, token)

	s.logger.Info("linked account",
		zap.String("user_id", account.UserID),
		zap.String("open_id", account.ExternalID),
		zap.Strings("scope", account.Scope),
		zap.Time("expires_at", account.ExpiresAt),
	)

	return &driving.CallbackResult{
		Account:       account,
		AccessMaxAge:  domain.CookieMaxAge(token.ExpiresIn, domain.DefaultAccessCookieTTL),
		RefreshMaxAge: domain.CookieMaxAge(token.RefreshExpiresIn, domain.DefaultRefreshCookieTTL),
	}, nil
}

// enrich fetches the provider profile and stores it. Failures only degrade
// the result.
func (s *oauthService) enrich(ctx context.Context, account *domain.LinkedAccount, token *driven.OAuthToken) {
	profile := s.provider.FetchProfile(ctx, token.AccessToken, token.Scope)
	if profile == nil {
		s.logger.Warn("profile enrichment skipped", zap.String("user_id", account.UserID))
		return
	}

	if err := s.accountStore.UpdateProfile(ctx, account.UserID, account.Provider, profile); err != nil {
		s.logger.Warn("store profile enrichment",
			zap.String("user_id", account.UserID),
			zap.Error(err),
		)
		return
	}

	account.Handle = profile.Handle
	account.DisplayName = profile.DisplayName
	account.AvatarURL = profile.AvatarURL
	account.FollowerCount = profile.FollowerCount
	synced := s.now()
	account.LastSyncedAt = &synced
}

func (s *oauthService) fail(reason string, err error) *driving.OAuthError {
	fields := []zap.Field{zap.String("reason", reason)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	s.logger.Warn("oauth callback failed", fields...)
	return driving.NewOAuthError(reason, err)
}

// generateRandomString returns length URL-safe characters from a secure source.
func generateRandomString(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}

// generateCodeChallenge creates a PKCE code challenge from a verifier (S256 method).
func generateCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
