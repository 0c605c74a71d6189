package tiktok

import "time"

// Default TikTok endpoints.
const (
	DefaultAuthURL     = "https://www.tiktok.com/v2/auth/authorize/"
	DefaultTokenURL    = "https://open.tiktokapis.com/v2/oauth/token/"
	DefaultUserInfoURL = "https://open.tiktokapis.com/v2/user/info/"
)

// ScopeUserInfoStats grants access to follower and like counts.
const ScopeUserInfoStats = "user.info.stats"

// OAuthConfig contains Login Kit credentials and endpoints.
type OAuthConfig struct {
	ClientKey    string
	ClientSecret string
	RedirectURI  string
	Scopes       []string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	// Timeout applies to the token exchange and profile calls.
	// Zero disables the client timeout.
	Timeout time.Duration
}

// DefaultOAuthConfig returns the public TikTok endpoints with basic scope.
func DefaultOAuthConfig() OAuthConfig {
	return OAuthConfig{
		Scopes:      []string{"user.info.basic"},
		AuthURL:     DefaultAuthURL,
		TokenURL:    DefaultTokenURL,
		UserInfoURL: DefaultUserInfoURL,
		Timeout:     30 * time.Second,
	}
}

// PartnerConfig contains Creator Marketplace API settings.
type PartnerConfig struct {
	// BaseURL is the full creator lookup endpoint.
	BaseURL     string
	AccessToken string
	AccountID   string

	// Zero disables the client timeout.
	Timeout time.Duration
}
