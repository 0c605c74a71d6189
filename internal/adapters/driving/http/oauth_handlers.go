package http

import (
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/custodia-labs/creator-bridge/internal/core/ports/driving"
)

// errorQueryParam carries the failure reason to the frontend.
const errorQueryParam = "tiktok_error"

// handleOAuthAuthorize godoc
// @Summary      Start TikTok account linking
// @Description  Sets the state and PKCE verifier cookies and redirects to TikTok
// @Tags         OAuth
// @Success      302
// @Router       /oauth/tiktok/authorize [get]
func (s *Server) handleOAuthAuthorize(w http.ResponseWriter, r *http.Request) {
	res, err := s.oauthService.Authorize(r.Context())
	if err != nil {
		s.redirectOAuthError(w, r, reasonOf(err))
		return
	}

	s.cookies.SetPending(w, res.Pending)
	http.Redirect(w, r, res.AuthorizationURL, http.StatusFound)
}

// handleOAuthCallback godoc
// @Summary      TikTok OAuth callback
// @Description  Completes account linking and redirects to the app with credential cookies, or with ?tiktok_error=<reason>
// @Tags         OAuth
// @Param        code   query  string  false  "Authorization code"
// @Param        state  query  string  false  "State nonce"
// @Param        error  query  string  false  "Provider error"
// @Success      302
// @Router       /oauth/tiktok/callback [get]
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	pending := ReadPending(r)

	// The pending authorization is single use on every exit path.
	s.cookies.ClearPending(w)

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("oauth callback panic", zap.Any("panic", rec))
			s.redirectOAuthError(w, r, driving.ReasonUnknownError)
		}
	}()

	q := r.URL.Query()
	req := driving.CallbackRequest{
		Code:         q.Get("code"),
		State:        q.Get("state"),
		Error:        q.Get("error"),
		StoredState:  pending.State,
		CodeVerifier: pending.CodeVerifier,
	}
	if authCtx := GetAuthContext(r.Context()); authCtx != nil {
		req.UserID = authCtx.UserID
	}

	res, err := s.oauthService.Callback(r.Context(), req)
	if err != nil {
		s.redirectOAuthError(w, r, reasonOf(err))
		return
	}

	s.cookies.SetCredentials(w, res)
	http.Redirect(w, r, s.appURL(s.redirects.SuccessPath, nil), http.StatusFound)
}

func (s *Server) redirectOAuthError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, s.appURL(s.redirects.ErrorPath, url.Values{errorQueryParam: {reason}}), http.StatusFound)
}

// appURL joins the app base URL and path, merging extra query parameters.
func (s *Server) appURL(path string, extra url.Values) string {
	u, err := url.Parse(s.redirects.AppBaseURL + path)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	if len(extra) > 0 {
		q := u.Query()
		for k, vs := range extra {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// reasonOf maps a service error to its redirect reason.
func reasonOf(err error) string {
	var oauthErr *driving.OAuthError
	if errors.As(err, &oauthErr) && oauthErr.Reason != "" {
		return oauthErr.Reason
	}
	return driving.ReasonUnknownError
}
