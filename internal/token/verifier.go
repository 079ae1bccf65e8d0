package token

import (
	"crypto/rsa"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"auth-fabric/internal/model"
)

// Claims is the verified content of an accepted token.
type Claims struct {
	Subject     string
	Authorities []string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Verifier validates incoming bearer tokens against the issuer's public key.
// The key is obtained out-of-band (JWKS fetch) at construction; the verifier
// itself never talks to the network.
//
// Gates run in order and short-circuit: signature, expiry, subject binding,
// revocation. A token that fails any gate is rejected outright.
type Verifier struct {
	public *rsa.PublicKey

	mu      sync.RWMutex
	revoked map[string]struct{}
}

func NewVerifier(public *rsa.PublicKey) *Verifier {
	return &Verifier{
		public:  public,
		revoked: map[string]struct{}{},
	}
}

// Verify parses and validates tokenString. When expectedUsername is
// non-empty the token subject must match it exactly; this defends against a
// valid token being replayed for a different account.
func (v *Verifier) Verify(tokenString string, expectedUsername string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, model.ErrTokenInvalid
		}
		return v.public, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, model.ErrTokenInvalid
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, model.ErrTokenInvalid
	}

	expiresAt, err := claimsMap.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return nil, model.ErrTokenInvalid
	}
	if !expiresAt.After(time.Now()) {
		return nil, model.ErrTokenExpired
	}

	subject, _ := claimsMap["sub"].(string)
	if subject == "" {
		return nil, model.ErrTokenInvalid
	}
	if expectedUsername != "" && subject != expectedUsername {
		return nil, model.ErrSubjectMismatch
	}

	if v.IsRevoked(tokenString) {
		return nil, model.ErrTokenRevoked
	}

	claims := &Claims{
		Subject:     subject,
		Authorities: extractAuthorities(claimsMap),
		ExpiresAt:   expiresAt.Time,
	}
	if issuedAt, err := claimsMap.GetIssuedAt(); err == nil && issuedAt != nil {
		claims.IssuedAt = issuedAt.Time
	}

	return claims, nil
}

// Revoke adds a token to the process-local revoked set. Revoked tokens fail
// verification even while otherwise valid; there is no way back.
func (v *Verifier) Revoke(tokenString string) {
	v.mu.Lock()
	v.revoked[tokenString] = struct{}{}
	v.mu.Unlock()
}

func (v *Verifier) IsRevoked(tokenString string) bool {
	v.mu.RLock()
	_, revoked := v.revoked[tokenString]
	v.mu.RUnlock()
	return revoked
}

// extractAuthorities reads the authorities claim, tolerating its absence.
// Role strings are re-normalized so a doubly-prefixed role coming off the
// wire still converges to a single ROLE_ prefix.
func extractAuthorities(claimsMap jwt.MapClaims) []string {
	raw, exists := claimsMap["authorities"]
	if !exists {
		return []string{}
	}

	entries, ok := raw.([]interface{})
	if !ok {
		return []string{}
	}

	roles := make([]string, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		if authority, ok := obj["authority"].(string); ok {
			roles = append(roles, authority)
		}
	}

	return NormalizeRoles(roles)
}
