package domain

import "errors"

// Sentinel errors shared between the service layer and HTTP handlers.
// Unknown email and wrong password both surface as ErrInvalidCredentials, and
// missing, malformed and expired tokens all surface as ErrUnauthorized, so a
// caller cannot probe which part of a credential was wrong.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
)
