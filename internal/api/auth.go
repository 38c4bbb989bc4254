package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
)

// AuthHandler checks the admin password.
type AuthHandler struct {
	logger *observability.Logger
	secret func() string
}

// NewAuthHandler creates a login handler. secret is read on every request.
func NewAuthHandler(logger *observability.Logger, secret func() string) *AuthHandler {
	return &AuthHandler{logger: logger, secret: secret}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	secret := h.secret()
	if secret == "" {
		h.logger.WithContext(r.Context()).Error().Msg("ADMIN_PASSWORD is not set, refusing login")
		writeFailure(w, http.StatusInternalServerError, "Server misconfiguration")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(secret)) != 1 {
		h.logger.WithContext(r.Context()).Warn().Msg("login rejected")
		writeFailure(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
