package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avelar/chatvault-be/internal/auth"
	"github.com/avelar/chatvault-be/internal/models"
	"github.com/avelar/chatvault-be/internal/services"
)

// UserHandler handles HTTP requests for signup, login and session state.
type UserHandler struct {
	users   services.UserServiceProvider
	tokens  *auth.TokenManager
	cookies *auth.CookieManager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users services.UserServiceProvider, tokens *auth.TokenManager, cookies *auth.CookieManager) *UserHandler {
	return &UserHandler{users: users, tokens: tokens, cookies: cookies}
}

// SignupPayload defines the structure for signup requests.
type SignupPayload struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Signup handles new user registration and issues a session.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload SignupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if !checkPayload(w, payload) {
		return
	}

	user, err := h.users.Signup(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to sign up user")
		respondServiceError(w, err)
		return
	}

	if !h.issueSession(w, user) {
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "successfully registered",
		"name":    user.Name,
		"email":   user.Email,
	})
}

// Login handles user authentication and session issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if !checkPayload(w, payload) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		respondServiceError(w, err)
		return
	}

	if !h.issueSession(w, user) {
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "successfully logged in",
		"name":    user.Name,
		"email":   user.Email,
	})
}

// Logout clears the session cookie. The stored record is not mutated.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolvePrincipal(w, r)
	if !ok {
		return
	}

	h.cookies.Clear(w)

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "user verified",
		"name":    user.Name,
		"email":   user.Email,
	})
}

// AuthStatus reports whether the presented session resolves to a live
// account.
func (h *UserHandler) AuthStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.resolvePrincipal(w, r); !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"isAuthenticated": true})
}

// GetUserData returns the authenticated user's profile fields.
func (h *UserHandler) GetUserData(w http.ResponseWriter, r *http.Request) {
	user, ok := h.resolvePrincipal(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "OK",
		"email":   user.Email,
		"name":    user.Name,
	})
}

// GetAll returns every user record.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "OK", "users": users})
}

// issueSession deletes any existing session cookie and sets a fresh one for
// user. It writes the error response itself on failure.
func (h *UserHandler) issueSession(w http.ResponseWriter, user models.User) bool {
	token, err := h.tokens.Generate(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate session token")
		respondError(w, http.StatusInternalServerError, msgUpstreamFailure, err.Error())
		return false
	}
	h.cookies.Set(w, token)
	return true
}

// resolvePrincipal loads the record behind the request's verified principal
// and re-checks that the record is the principal's own. It writes the error
// response itself on failure.
func (h *UserHandler) resolvePrincipal(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, models.ErrNotRegistered.Error(), "")
		return models.User{}, false
	}

	user, err := h.users.GetUserByID(r.Context(), principal.ID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", principal.ID).Msg("Session principal not found")
		respondError(w, http.StatusUnauthorized, models.ErrNotRegistered.Error(), "")
		return models.User{}, false
	}

	if user.ID != principal.ID {
		respondServiceError(w, models.ErrPermissionsMismatch)
		return models.User{}, false
	}

	return user, true
}
