package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"auth-fabric/internal/keys"
)

// DefaultTTL is the fixed token lifetime.
const DefaultTTL = time.Hour

// Issuer builds and signs self-contained JWTs. It holds the private half of
// the key pair and keeps no record of what it issued.
type Issuer struct {
	provider *keys.Provider
	ttl      time.Duration
	now      func() time.Time
}

func NewIssuer(provider *keys.Provider, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{provider: provider, ttl: ttl, now: time.Now}
}

// Issue signs a token for the subject carrying the normalized authorities.
// Claims: sub, iat = now, exp = now + TTL, authorities as a list of
// {"authority": "ROLE_X"} objects.
func (i *Issuer) Issue(subject string, authorities []string) (string, error) {
	now := i.now().UTC()

	authorityClaims := make([]map[string]string, 0, len(authorities))
	for _, role := range NormalizeRoles(authorities) {
		authorityClaims = append(authorityClaims, map[string]string{"authority": role})
	}

	claims := jwt.MapClaims{
		"sub":         subject,
		"iat":         now.Unix(),
		"exp":         now.Add(i.ttl).Unix(),
		"authorities": authorityClaims,
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = i.provider.KeyID()

	return tok.SignedString(i.provider.Private())
}
