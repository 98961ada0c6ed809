package models

import "errors"

// Failure modes shared between the services and the HTTP layer. Handlers map
// these to status codes with errors.Is; anything else is reported as a
// generic upstream failure.
var (
	ErrNotRegistered       = errors.New("user not registered or token malfunction")
	ErrAlreadyRegistered   = errors.New("user already registered")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrPermissionsMismatch = errors.New("permissions didn't match")
)
