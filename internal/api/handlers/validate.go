package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checkPayload runs the declarative field rules on a decoded request body.
// On failure it writes the 422 response and returns false, so handlers can
// bail out before touching any state.
func checkPayload(w http.ResponseWriter, payload any) bool {
	if err := validate.Struct(payload); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "validation failed", err.Error())
		return false
	}
	return true
}
