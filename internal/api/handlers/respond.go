package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelar/chatvault-be/internal/models"
)

const msgUpstreamFailure = "something went terribly wrong"

// respondJSON writes payload as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes the standard failure body. cause carries the original
// diagnostic for upstream failures; it is omitted when empty.
func respondError(w http.ResponseWriter, status int, message, cause string) {
	body := map[string]string{"message": message}
	if cause != "" {
		body["cause"] = cause
	}
	respondJSON(w, status, body)
}

// respondServiceError maps a service failure to its HTTP status. Known
// failure modes keep their own message; anything else is reported as a
// generic upstream failure with the original error attached as cause.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotRegistered):
		respondError(w, http.StatusUnauthorized, models.ErrNotRegistered.Error(), "")
	case errors.Is(err, models.ErrAlreadyRegistered):
		respondError(w, http.StatusConflict, models.ErrAlreadyRegistered.Error(), "")
	case errors.Is(err, models.ErrIncorrectPassword):
		respondError(w, http.StatusUnauthorized, models.ErrIncorrectPassword.Error(), "")
	case errors.Is(err, models.ErrPermissionsMismatch):
		respondError(w, http.StatusForbidden, models.ErrPermissionsMismatch.Error(), "")
	default:
		respondError(w, http.StatusInternalServerError, msgUpstreamFailure, err.Error())
	}
}
