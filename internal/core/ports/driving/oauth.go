package driving

import (
	"context"

	"github.com/custodia-labs/creator-bridge/internal/core/domain"
)

// OAuthService links a creator's external social account through the
// provider's authorization-code flow with PKCE.
type OAuthService interface {
	// Authorize starts a flow. The returned PendingAuthorization must be
	// carried to the callback by the caller (in cookies).
	Authorize(ctx context.Context) (*AuthorizeResult, error)

	// Callback consumes a PendingAuthorization and links the account.
	// Every failure is an *OAuthError carrying a redirect reason.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error)
}

// AuthorizeResult is the redirect target and the state to persist.
type AuthorizeResult struct {
	AuthorizationURL string
	Pending          domain.PendingAuthorization
}

// CallbackRequest carries the provider redirect parameters together with the
// stored PendingAuthorization and the authenticated subject.
type CallbackRequest struct {
	Code  string
	State string
	Error string

	// StoredState and CodeVerifier come from the ephemeral cookies; empty
	// when the cookie was absent.
	StoredState  string
	CodeVerifier string

	// UserID is the authenticated platform user; empty when there is no session.
	UserID string
}

// CallbackResult describes a linked account and the credential cookies to issue.
type CallbackResult struct {
	Account *domain.LinkedAccount

	// Cookie lifetimes in seconds.
	AccessMaxAge  int
	RefreshMaxAge int
}

// Callback failure reasons. A provider error or token error description is
// passed through as the reason verbatim.
const (
	ReasonMissingState         = "missing_state"
	ReasonStateMismatch        = "state_mismatch"
	ReasonMissingCode          = "missing_code"
	ReasonMissingCodeVerifier  = "missing_code_verifier"
	ReasonMissingSession       = "missing_session"
	ReasonServerConfiguration  = "server_configuration"
	ReasonTokenExchangeFailed  = "token_exchange_failed"
	ReasonMissingOpenID        = "missing_open_id"
	ReasonAccountPersistFailed = "account_persist_failed"
	ReasonUnknownError         = "unknown_error"
)

// OAuthError is a callback failure with a machine-readable reason.
type OAuthError struct {
	Reason string
	Err    error
}

func (e *OAuthError) Error() string {
	if e.Err != nil {
		return "oauth callback: " + e.Reason + ": " + e.Err.Error()
	}
	return "oauth callback: " + e.Reason
}

func (e *OAuthError) Unwrap() error {
	return e.Err
}

// NewOAuthError creates an OAuthError for a reason.
func NewOAuthError(reason string, err error) *OAuthError {
	return &OAuthError{Reason: reason, Err: err}
}
