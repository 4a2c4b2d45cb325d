package server

import (
	"errors"
	"net/http"
)

// Sentinel errors returned by the auth service layer. Handlers map these
// onto HTTP status codes with httpStatus.
var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrJobNotFound        = errors.New("job not found")
	ErrResultNotReady     = errors.New("result not ready")
)

// httpStatus maps a service error to the status code the client should see.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrResultNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
