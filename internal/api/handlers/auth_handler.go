package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/rmarin/portfolio-be/internal/auth"
	"github.com/rmarin/portfolio-be/internal/services"
)

// AuthHandler handles login requests.
type AuthHandler struct {
	profiles services.ProfileServiceProvider
	tokens   *auth.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(profiles services.ProfileServiceProvider, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{profiles: profiles, tokens: tokens}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates the admin and returns a token plus the sanitized
// profile.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profiles.Authenticate(payload.Username, payload.Password)
	if err != nil {
		log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Generate(profile)
	if err != nil {
		log.Error().Err(err).Str("profile_id", profile.ID).Msg("Failed to generate token")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  profile,
	})
}
