package http

import (
	"net/http"
	"strings"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
	"github.com/custodia-labs/creator-bridge/internal/core/ports/driving"
)

// Ephemeral cookies carrying a PendingAuthorization.
const (
	stateCookieName    = "tiktok_oauth_state"
	verifierCookieName = "tiktok_code_verifier"

	// pendingMaxAge bounds how long a user may spend on the consent screen.
	pendingMaxAge = 600
)

// Credential cookies issued after a successful link.
const (
	accessTokenCookieName  = "access_token"
	refreshTokenCookieName = "refresh_token"
	openIDCookieName       = "open_id"
	scopeCookieName        = "scope"
)

// CookieWriter sets the OAuth cookies. All cookies are HttpOnly, SameSite=Lax
// and scoped to path "/".
type CookieWriter struct {
	Secure bool
}

func (c CookieWriter) set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetPending stores the state nonce and PKCE verifier.
func (c CookieWriter) SetPending(w http.ResponseWriter, p domain.PendingAuthorization) {
	c.set(w, stateCookieName, p.State, pendingMaxAge)
	c.set(w, verifierCookieName, p.CodeVerifier, pendingMaxAge)
}

// ClearPending expires the state and verifier cookies.
func (c CookieWriter) ClearPending(w http.ResponseWriter) {
	c.set(w, stateCookieName, "", -1)
	c.set(w, verifierCookieName, "", -1)
}

// SetCredentials issues the linked account's token cookies. The open id and
// scope cookies live as long as the refresh token.
func (c CookieWriter) SetCredentials(w http.ResponseWriter, res *driving.CallbackResult) {
	a := res.Account
	c.set(w, accessTokenCookieName, a.AccessToken, res.AccessMaxAge)
	c.set(w, refreshTokenCookieName, a.RefreshToken, res.RefreshMaxAge)
	c.set(w, openIDCookieName, a.ExternalID, res.RefreshMaxAge)
	c.set(w, scopeCookieName, strings.Join(a.Scope, ","), res.RefreshMaxAge)
}

// ReadPending reads the pending authorization; missing cookies yield empty fields.
func ReadPending(r *http.Request) domain.PendingAuthorization {
	return domain.PendingAuthorization{
		State:        cookieValue(r, stateCookieName),
		CodeVerifier: cookieValue(r, verifierCookieName),
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
