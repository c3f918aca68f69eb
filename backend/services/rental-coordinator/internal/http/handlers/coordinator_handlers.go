package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"playpoint/backend/services/rental-coordinator/internal/repository"
	"playpoint/backend/services/rental-coordinator/internal/service"
)

// NewActiveSessionsHandler returns GET /sessions/active handler exposing the
// read-only cache snapshot.
func NewActiveSessionsHandler(coord *service.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := coord.ActiveSessions()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"sessions": sessions,
			"count":    len(sessions),
		})
	}
}

// NewCacheRefreshHandler returns POST /internal/cache/refresh handler.
func NewCacheRefreshHandler(coord *service.Coordinator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := coord.RefreshCache(r.Context()); err != nil {
			logger.Warn("manual cache refresh failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "cache refresh failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
	}
}

// NewIdleSweepHandler returns POST /internal/idle-sweep handler running one
// sweep on demand.
func NewIdleSweepHandler(coord *service.Coordinator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := coord.RunIdleSweep(r.Context()); err != nil {
			logger.Warn("manual idle sweep failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "idle sweep failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "swept"})
	}
}

type sessionEndRequest struct {
	SessionID int64 `json:"session_id"`
}

// NewSessionEndHandler returns POST /internal/sessions/end handler for manual
// session termination.
func NewSessionEndHandler(coord *service.Coordinator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sessionEndRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionID == 0 {
			writeError(w, http.StatusBadRequest, "session_id required")
			return
		}

		err := coord.EndSession(r.Context(), req.SessionID)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]interface{}{"status": "completed", "session_id": req.SessionID})
		case errors.Is(err, repository.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, service.ErrSessionNotActive):
			writeError(w, http.StatusConflict, "session not active")
		default:
			logger.Warn("manual session end failed", zap.Int64("session_id", req.SessionID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "session end failed")
		}
	}
}

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
