package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avelar/chatvault-be/internal/auth"
	"github.com/avelar/chatvault-be/internal/models"
	"github.com/avelar/chatvault-be/internal/services"
)

// ChatHandler handles HTTP requests for the chat log.
type ChatHandler struct {
	chats services.ChatServiceProvider
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chats services.ChatServiceProvider) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// MessagePayload defines the structure for new chat messages.
type MessagePayload struct {
	Message string `json:"message" validate:"required"`
}

// NewTurn runs one round-trip with the completion service and returns the
// updated chat log.
func (h *ChatHandler) NewTurn(w http.ResponseWriter, r *http.Request) {
	var payload MessagePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if !checkPayload(w, payload) {
		return
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, models.ErrNotRegistered.Error(), "")
		return
	}

	chats, err := h.chats.NewTurn(r.Context(), principal.ID, payload.Message)
	if err != nil {
		log.Error().Err(err).Str("user_id", principal.ID).Msg("Failed to generate chat completion")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

// ListTurns returns the caller's full chat log.
func (h *ChatHandler) ListTurns(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, models.ErrNotRegistered.Error(), "")
		return
	}

	chats, err := h.chats.ListTurns(r.Context(), principal.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", principal.ID).Msg("Failed to list chats")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"message": "OK", "chats": chats})
}

// DeleteTurns clears the caller's chat log.
func (h *ChatHandler) DeleteTurns(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, models.ErrNotRegistered.Error(), "")
		return
	}

	if err := h.chats.ClearTurns(r.Context(), principal.ID); err != nil {
		log.Error().Err(err).Str("user_id", principal.ID).Msg("Failed to clear chats")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}
