package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/Recoupable-com/founder-dashboard-api/internal/auth"
	"github.com/Recoupable-com/founder-dashboard-api/internal/db"
)

// AuthHandlers handles authentication requests. There is no self-service
// registration: dashboard users are bootstrapped at startup.
type AuthHandlers struct {
	queries *db.Queries
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(queries *db.Queries) *AuthHandlers {
	return &AuthHandlers{queries: queries}
}

// LoginRequest is the request to login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is the response for auth operations
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Login authenticates a dashboard operator and issues a JWT
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body"), nil)
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, r, http.StatusBadRequest, fmt.Errorf("username and password are required"), nil)
		return
	}

	user, err := h.queries.GetDashboardUserByUsername(r.Context(), req.Username)
	if err != nil {
		WriteError(w, r, http.StatusUnauthorized, fmt.Errorf("invalid credentials"), nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		WriteError(w, r, http.StatusUnauthorized, fmt.Errorf("invalid credentials"), nil)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, fmt.Errorf("failed to generate token"), nil)
		return
	}

	WriteSuccess(w, AuthResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}, http.StatusOK)
}

// GetCurrentUser returns the authenticated user from the JWT claims
func (h *AuthHandlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, r, http.StatusUnauthorized, fmt.Errorf("not authenticated"), nil)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"user_id":  claims.UserID,
		"username": claims.Username,
		"is_admin": claims.IsAdmin,
	}, http.StatusOK)
}
