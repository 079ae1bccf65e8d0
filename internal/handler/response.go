package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"auth-fabric/internal/model"
	"auth-fabric/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors onto the HTTP boundary. All authentication
// failures collapse to a single generic unauthorized body; which check
// failed is deliberately not revealed.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := &model.APIError{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Message = "User not found"
	case errors.Is(err, model.ErrUserAlreadyExists):
		status = http.StatusConflict
		body.Code = "ALREADY_EXISTS"
		body.Message = "Username already in use"
	case errors.Is(err, model.ErrAlreadyLoggedIn):
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "User already logged in"
	case errors.Is(err, model.ErrUserLoggedIn):
		status = http.StatusConflict
		body.Code = "CONFLICT"
		body.Message = "User is currently logged in"
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrTokenRevoked),
		errors.Is(err, model.ErrSubjectMismatch),
		errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		body.Code = "UNAUTHORIZED"
		body.Message = "Authentication failed"
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		body.Code = "FORBIDDEN"
		body.Message = "Access denied"
	case errors.Is(err, model.ErrSyncFailed), errors.Is(err, model.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
		body.Code = "UPSTREAM_ERROR"
		body.Message = "Dependent service failed"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "Invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, model.ErrorResponse{Error: body})
}
