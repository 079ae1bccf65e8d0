package model

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Email       string   `json:"email"`
	Authorities []string `json:"authorities,omitempty"`
}

// SyncUserRequest is the sanitized record the identity service pushes to the
// resource service's /register endpoint. The password field carries the
// bcrypt hash, never the plaintext.
type SyncUserRequest struct {
	Username     string   `json:"username"`
	PasswordHash string   `json:"password_hash"`
	Email        string   `json:"email"`
	Authorities  []string `json:"authorities,omitempty"`
}

// ValidateUserRequest is the body of POST /validate-user.
type ValidateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RevokeTokenRequest is the body of POST /revoke-token.
type RevokeTokenRequest struct {
	Token string `json:"token"`
}
