package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/custodia-labs/creator-bridge/internal/adapters/driven/connectors"
	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/creator-bridge/internal/logger"
)

// Verify interface compliance
var _ driven.OAuthProvider = (*OAuthClient)(nil)

// maxLoggedBody bounds response bodies written to logs.
const maxLoggedBody = 512

// profileFields is the minimal field list every Login Kit app may request.
var profileFields = []string{"open_id", "union_id", "avatar_url", "display_name"}

// OAuthClient implements the TikTok Login Kit v2 authorization-code flow.
type OAuthClient struct {
	cfg        OAuthConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOAuthClient creates a TikTok OAuth client. Empty endpoints fall back to
// the public TikTok URLs.
func NewOAuthClient(cfg OAuthConfig, log *zap.Logger) *OAuthClient {
	defaults := DefaultOAuthConfig()
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaults.AuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaults.TokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = defaults.UserInfoURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = defaults.Scopes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OAuthClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.Named("tiktok_oauth"),
	}
}

// Configured reports whether client key, secret and redirect URI are set.
func (c *OAuthClient) Configured() bool {
	return c.cfg.ClientKey != "" && c.cfg.ClientSecret != "" && c.cfg.RedirectURI != ""
}

// BuildAuthURL constructs the TikTok authorization URL.
func (c *OAuthClient) BuildAuthURL(state, codeChallenge string) string {
	params := url.Values{
		"client_key":            {c.cfg.ClientKey},
		"scope":                 {strings.Join(c.cfg.Scopes, ",")},
		"response_type":         {"code"},
		"redirect_uri":          {c.cfg.RedirectURI},
		"state":                 {state},
		"code_challenge":        {codeChallenge},
		"code_challenge_method": {"S256"},
	}
	return c.cfg.AuthURL + "?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for tokens. It makes exactly
// one request; rejections come back as *driven.TokenExchangeError.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (*driven.OAuthToken, error) {
	params := url.Values{
		"client_key":    {c.cfg.ClientKey},
		"client_secret": {c.cfg.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {c.cfg.RedirectURI},
		"code_verifier": {codeVerifier},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	f, ok := connectors.ParseFields(body)
	if !ok {
		c.logger.Warn("token response is not a JSON object",
			zap.Int("status", resp.StatusCode),
			zap.String("body", logger.Truncate(body, maxLoggedBody)))
		return nil, &driven.TokenExchangeError{Status: resp.StatusCode, Code: "invalid_response"}
	}

	errCode := f.String("error")
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (errCode != "" && errCode != "ok") {
		c.logger.Warn("token exchange rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("error", errCode),
			zap.String("log_id", f.String("log_id")))
		if errCode == "" {
			errCode = http.StatusText(resp.StatusCode)
		}
		return nil, &driven.TokenExchangeError{
			Status:      resp.StatusCode,
			Code:        errCode,
			Description: f.String("error_description"),
		}
	}

	return &driven.OAuthToken{
		AccessToken:      f.String("access_token"),
		RefreshToken:     f.String("refresh_token"),
		Scope:            f.String("scope"),
		OpenID:           f.String("open_id"),
		ExpiresIn:        f.Int("expires_in"),
		RefreshExpiresIn: f.Int("refresh_expires_in"),
	}, nil
}

// FetchProfile loads the account profile with a GET, falling back to one
// POST with a JSON field list when the GET fails. Returns nil when neither
// yields a recognisable profile.
func (c *OAuthClient) FetchProfile(ctx context.Context, accessToken, scope string) *domain.LinkedProfile {
	fields := profileFields
	if domain.HasScope(scope, ScopeUserInfoStats) {
		fields = append(append([]string{}, profileFields...), "follower_count")
	}

	body, ok := c.getProfile(ctx, accessToken, fields)
	if !ok {
		body, ok = c.postProfile(ctx, accessToken, fields)
	}
	if !ok {
		return nil
	}
	return parseProfile(body)
}

func (c *OAuthClient) getProfile(ctx context.Context, accessToken string, fields []string) ([]byte, bool) {
	u := c.cfg.UserInfoURL + "?" + url.Values{"fields": {strings.Join(fields, ",")}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.logger.Warn("create profile request", zap.Error(err))
		return nil, false
	}
	return c.doProfile(req, accessToken, fields)
}

func (c *OAuthClient) postProfile(ctx context.Context, accessToken string, fields []string) ([]byte, bool) {
	payload, err := json.Marshal(map[string][]string{"fields": fields})
	if err != nil {
		return nil, false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UserInfoURL, bytes.NewReader(payload))
	if err != nil {
		c.logger.Warn("create profile request", zap.Error(err))
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doProfile(req, accessToken, fields)
}

func (c *OAuthClient) doProfile(req *http.Request, accessToken string, fields []string) ([]byte, bool) {
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("profile request failed",
			zap.String("method", req.Method),
			zap.Strings("fields", fields),
			zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("read profile response", zap.String("method", req.Method), zap.Error(err))
		return nil, false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("profile request rejected",
			zap.String("method", req.Method),
			zap.Int("status", resp.StatusCode),
			zap.Strings("fields", fields),
			zap.String("body", logger.Truncate(body, maxLoggedBody)))
		return nil, false
	}
	return body, true
}

func parseProfile(body []byte) *domain.LinkedProfile {
	f, ok := connectors.ParseFields(body)
	if !ok || !f.Any("open_id", "union_id", "avatar_url", "display_name", "username", "follower_count") {
		return nil
	}
	return &domain.LinkedProfile{
		OpenID:        f.String("open_id"),
		Handle:        f.String("username"),
		DisplayName:   f.String("display_name"),
		AvatarURL:     f.String("avatar_url"),
		FollowerCount: f.Int("follower_count"),
	}
}
