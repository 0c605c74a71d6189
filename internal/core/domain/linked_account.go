package domain

import (
	"math"
	"strings"
	"time"
)

// ProviderType identifies the external identity provider of a linked account
type ProviderType string

const (
	ProviderTikTok ProviderType = "tiktok"
)

// Default cookie lifetimes used when the provider omits token durations.
const (
	DefaultAccessCookieTTL  = 24 * time.Hour
	DefaultRefreshCookieTTL = 30 * 24 * time.Hour
)

// LinkedAccount is a creator's external social account bound to their platform identity.
// There is at most one LinkedAccount per (UserID, Provider).
type LinkedAccount struct {
	ID               string       `json:"id"`
	UserID           string       `json:"user_id"`
	Provider         ProviderType `json:"provider"`
	ExternalID       string       `json:"external_id"`
	AccessToken      string       `json:"-"`
	RefreshToken     string       `json:"-"`
	Scope            []string     `json:"scope"`
	ExpiresAt        time.Time    `json:"expires_at"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	Handle           string       `json:"handle,omitempty"`
	DisplayName      string       `json:"display_name,omitempty"`
	AvatarURL        string       `json:"avatar_url,omitempty"`
	FollowerCount    *int64       `json:"follower_count,omitempty"`
	LastSyncedAt     *time.Time   `json:"last_synced_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Validate checks the invariants every persisted LinkedAccount must hold.
func (a *LinkedAccount) Validate() error {
	if strings.TrimSpace(a.ExternalID) == "" {
		return ErrMissingExternalID
	}
	if a.UserID == "" || a.Provider == "" {
		return ErrInvalidInput
	}
	return nil
}

// AccessExpired reports whether the access token needs a refresh.
// Accounts stored with a degraded expiry (no expires_in from the provider) are
// immediately eligible.
func (a *LinkedAccount) AccessExpired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}

// ToSummary converts to a LinkedAccountSummary (no secrets)
func (a *LinkedAccount) ToSummary() *LinkedAccountSummary {
	return &LinkedAccountSummary{
		Provider:         a.Provider,
		ExternalID:       a.ExternalID,
		Scope:            a.Scope,
		ExpiresAt:        a.ExpiresAt,
		RefreshExpiresAt: a.RefreshExpiresAt,
		Handle:           a.Handle,
		DisplayName:      a.DisplayName,
		AvatarURL:        a.AvatarURL,
		FollowerCount:    a.FollowerCount,
		LastSyncedAt:     a.LastSyncedAt,
	}
}

// LinkedAccountSummary is the API view of a linked account
type LinkedAccountSummary struct {
	Provider         ProviderType `json:"provider"`
	ExternalID       string       `json:"external_id"`
	Scope            []string     `json:"scope"`
	ExpiresAt        time.Time    `json:"expires_at"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
	Handle           string       `json:"handle,omitempty"`
	DisplayName      string       `json:"display_name,omitempty"`
	AvatarURL        string       `json:"avatar_url,omitempty"`
	FollowerCount    *int64       `json:"follower_count,omitempty"`
	LastSyncedAt     *time.Time   `json:"last_synced_at,omitempty"`
}

// LinkedProfile is the normalized provider profile used to enrich a LinkedAccount.
type LinkedProfile struct {
	OpenID        string `json:"open_id"`
	Handle        string `json:"handle,omitempty"`
	DisplayName   string `json:"display_name"`
	AvatarURL     string `json:"avatar_url"`
	FollowerCount *int64 `json:"follower_count,omitempty"`
}

// PendingAuthorization is the cookie-carried state of an authorization in flight.
// It is consumed exactly once by the callback.
type PendingAuthorization struct {
	State        string
	CodeVerifier string
}

// ExpiryAt computes an absolute expiry from a provider-supplied lifetime in seconds.
// An absent or non-positive lifetime yields now: a degraded but non-null expiry
// that makes the token immediately eligible for refresh.
func ExpiryAt(now time.Time, seconds *int64) time.Time {
	if seconds == nil || *seconds <= 0 {
		return now
	}
	return now.Add(time.Duration(clampLifetime(*seconds)) * time.Second)
}

// CookieMaxAge converts a provider lifetime into a cookie max-age in seconds,
// falling back to the given default when the lifetime is absent.
func CookieMaxAge(seconds *int64, fallback time.Duration) int {
	if seconds == nil || *seconds <= 0 {
		return int(fallback / time.Second)
	}
	return int(min(*seconds, maxCookieMaxAge))
}

// maxLifetimeSeconds is the longest lifetime a time.Duration can hold.
const maxLifetimeSeconds = math.MaxInt64 / int64(time.Second)

// maxCookieMaxAge caps cookie lifetimes at 400 days, the limit browsers apply.
const maxCookieMaxAge = 400 * 24 * 60 * 60

func clampLifetime(seconds int64) int64 {
	return min(seconds, maxLifetimeSeconds)
}

// SplitScopes splits a provider scope string on commas and spaces.
func SplitScopes(scope string) []string {
	fields := strings.FieldsFunc(scope, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// HasScope reports whether a scope string grants the named scope.
func HasScope(scope, name string) bool {
	for _, s := range SplitScopes(scope) {
		if s == name {
			return true
		}
	}
	return false
}
