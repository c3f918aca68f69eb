package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"playpoint/backend/services/rental-coordinator/internal/service"
)

// NewAuthorizedDeviceGetHandler returns GET /internal/billing/authorized-device
// handler reporting the designation and whether this instance holds it.
func NewAuthorizedDeviceGetHandler(arbiter *service.Arbiter, identity service.DeviceIdentity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorized, err := arbiter.AuthorizedDevice(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read designation")
			return
		}
		deviceID := identity.DeviceID()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"authorized_device_id": authorized,
			"device_id":            deviceID,
			"this_instance":        authorized != "" && authorized == deviceID,
		})
	}
}

type authorizedDeviceRequest struct {
	DeviceID string `json:"device_id"`
}

// NewAuthorizedDeviceSetHandler returns PUT /internal/billing/authorized-device
// handler. An empty device_id clears the designation.
func NewAuthorizedDeviceSetHandler(arbiter *service.Arbiter, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req authorizedDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		if err := arbiter.SetAuthorizedDevice(r.Context(), req.DeviceID); err != nil {
			logger.Warn("failed to persist authorized device", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to persist designation")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"authorized_device_id": req.DeviceID})
	}
}
