package http

import (
	"encoding/json"
	"net/http"

	"github.com/Saeid202/buyers/internal/auth"
)

type AuthHandler struct {
	sessions auth.SessionProvider
}

func NewAuthHandler(sessions auth.SessionProvider) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// SignInRequestDTO is a demo identity assertion. There is no password
// check yet; a real identity provider slots in behind SessionProvider.
type SignInRequestDTO struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type SignInResponseDTO struct {
	Token string        `json:"token"`
	User  auth.Identity `json:"user"`
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "invalid_user_id", "user_id is required")
		return
	}

	identity := auth.Identity{UserID: req.UserID, Email: req.Email, Name: req.Name}
	token, err := h.sessions.SignIn(r.Context(), identity)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, SignInResponseDTO{Token: token, User: identity})
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(r.Context(), bearerToken(r)); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "no active session")
		return
	}
	respondJSON(w, http.StatusOK, identity)
}
