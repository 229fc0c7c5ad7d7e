package http

import "errors"

var (
	// ErrEmptyAuthorizationHeader is returned when the "Authorization"
	// header is absent from an authenticated request.
	ErrEmptyAuthorizationHeader = errors.New("empty Authorization header")

	// ErrInvalidAuthorizationHeader is returned when the header does not
	// follow the "Bearer <token>" form.
	ErrInvalidAuthorizationHeader = errors.New("invalid Authorization header")

	// ErrEmptyToken is returned when the bearer scheme is present but the
	// token itself is an empty string.
	ErrEmptyToken = errors.New("empty token in Authorization header")
)
