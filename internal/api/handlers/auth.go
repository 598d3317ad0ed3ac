package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"Thrive/internal/api"
)

// AuthHandler issues access tokens for the development server.
// There is no password step: clients exchange a user profile for a
// signed token, which is enough to exercise the refresh and 401 paths.
type AuthHandler struct {
	users  api.UserStore
	secret []byte
	ttl    time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users api.UserStore, secret []byte, ttl time.Duration) *AuthHandler {
	return &AuthHandler{users: users, secret: secret, ttl: ttl}
}

type tokenRequest struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// HandleToken mints an access token for the given user
// POST /api/auth/token
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.UserID == "" {
		WriteError(w, http.StatusBadRequest, "InvalidRequest", "userId is required")
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.UserID
	}

	if err := h.users.Ensure(r.Context(), req.UserID, req.DisplayName, req.AvatarURL); err != nil {
		writeStoreError(w, err)
		return
	}

	now := time.Now().UTC()
	tok, err := jwt.NewBuilder().
		Subject(req.UserID).
		IssuedAt(now).
		Expiration(now.Add(h.ttl)).
		Build()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, h.secret))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": string(signed),
		"expiresIn":   int(h.ttl.Seconds()),
	})
}
