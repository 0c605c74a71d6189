package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swaggo/swag"
	"go.uber.org/zap"

	_ "github.com/custodia-labs/creator-bridge/docs"
	"github.com/custodia-labs/creator-bridge/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"creator not found"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns ready when PostgreSQL and, if configured, Redis respond
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			s.logger.Warn("readiness: database unavailable", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			s.logger.Warn("readiness: redis unavailable", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "api documentation unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// Creator endpoints

// handleSyncCreators godoc
// @Summary      Sync creator statistics
// @Description  Pulls statistics from the partner API for one handle, or for every known handle when none is given
// @Tags         Creators
// @Produce      json
// @Security     BearerAuth
// @Param        handle  query     string  false  "Creator handle"
// @Success      200     {object}  domain.SyncResult
// @Failure      400     {object}  ErrorResponse  "Invalid handle"
// @Failure      409     {object}  ErrorResponse  "Sync already in progress"
// @Failure      500     {object}  ErrorResponse  "Internal server error"
// @Router       /creators/sync [post]
func (s *Server) handleSyncCreators(w http.ResponseWriter, r *http.Request) {
	result, err := s.syncService.Sync(r.Context(), r.URL.Query().Get("handle"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSyncInProgress):
			writeError(w, http.StatusConflict, "sync already in progress")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid handle")
		default:
			s.logger.Error("creator sync failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "sync failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetCreator godoc
// @Summary      Get creator profile
// @Description  Returns the stored external profile of a creator
// @Tags         Creators
// @Produce      json
// @Security     BearerAuth
// @Param        handle  path      string  true  "Creator handle"
// @Success      200     {object}  domain.CreatorProfile
// @Failure      404     {object}  ErrorResponse  "Creator not found"
// @Router       /creators/{handle} [get]
func (s *Server) handleGetCreator(w http.ResponseWriter, r *http.Request) {
	profile, err := s.syncService.GetCreator(r.Context(), r.PathValue("handle"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusNotFound, "creator not found")
		default:
			s.logger.Error("get creator failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to get creator")
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Linked account endpoints

// handleGetLinkedAccount godoc
// @Summary      Get linked TikTok account
// @Description  Returns the caller's linked TikTok account without credentials
// @Tags         Accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.LinkedAccountSummary
// @Failure      404  {object}  ErrorResponse  "No linked account"
// @Router       /accounts/tiktok [get]
func (s *Server) handleGetLinkedAccount(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := s.accountService.GetLinkedAccount(r.Context(), authCtx.UserID, domain.ProviderTikTok)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "no linked account")
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "unauthorized")
		default:
			s.logger.Error("get linked account failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to get linked account")
		}
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
