package model

import (
	"net/mail"
	"strings"
)

const (
	MaxUsernameLength = 50
	MaxEmailLength    = 100
	MinPasswordLength = 8
)

// User is an identity record. PasswordHash always holds a bcrypt hash after
// creation, never the plaintext, and is excluded from JSON serialization.
type User struct {
	ID           int64    `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Email        string   `json:"email"`
	Authorities  []string `json:"authorities,omitempty"`
	Version      int64    `json:"version"`
}

// AuthClaims is the identity bound to a request after token verification.
type AuthClaims struct {
	Subject     string   `json:"sub"`
	Authorities []string `json:"authorities"`
}

// HasAuthority reports whether the claims carry the given role string.
func (c *AuthClaims) HasAuthority(authority string) bool {
	for _, a := range c.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// ValidateNewUser checks registration input: non-empty bounded username,
// minimum-length password and a parseable email address.
func ValidateNewUser(username string, password string, email string) error {
	if strings.TrimSpace(username) == "" {
		return fieldError("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return fieldError("username", "username cannot exceed 50 characters")
	}
	if len(password) < MinPasswordLength {
		return fieldError("password", "password must be at least 8 characters")
	}
	if strings.TrimSpace(email) == "" {
		return fieldError("email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return fieldError("email", "email cannot exceed 100 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fieldError("email", "email address is not valid")
	}
	return nil
}
