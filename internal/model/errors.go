package model

import (
	"errors"
	"net/http"

	"auth-fabric/pkg/apierror"
)

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session related errors
	ErrAlreadyLoggedIn = errors.New("user already logged in")
	ErrUserLoggedIn    = errors.New("user is currently logged in")

	// Token related errors
	ErrTokenInvalid  = errors.New("token invalid")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrSubjectMismatch = errors.New("token subject mismatch")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Cross-service errors
	ErrSyncFailed          = errors.New("registration sync failed")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)

func fieldError(field string, message string) error {
	return apierror.New("BAD_REQUEST", message, field, http.StatusBadRequest)
}
