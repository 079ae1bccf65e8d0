package model

// APIError is the client-facing error body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse wraps an error body.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// TokenResponse is the body of a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// ExistsResponse answers the username uniqueness check.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// MessageResponse carries a human-readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
