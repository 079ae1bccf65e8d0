package keys

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
)

// JWK is the wire representation of a single public key.
type JWK struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKS is a JSON Web Key Set document.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWKS builds the key-set document fresh from the live public key. Modulus
// and exponent are base64url without padding, big-endian.
func (p *Provider) JWKS() JWKS {
	public := p.Public()
	return JWKS{
		Keys: []JWK{{
			Kty: "RSA",
			Alg: "RS256",
			Use: "sig",
			Kid: p.kid,
			N:   base64.RawURLEncoding.EncodeToString(public.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(public.E)).Bytes()),
		}},
	}
}

// PublicKeyFromJWKS reconstructs the verification key from a fetched key set.
// The first RSA signing key wins; rotation is out of scope so the set is
// expected to hold exactly one key.
func PublicKeyFromJWKS(doc JWKS) (*rsa.PublicKey, error) {
	if len(doc.Keys) == 0 {
		return nil, fmt.Errorf("JWKS document contains no keys")
	}

	for _, key := range doc.Keys {
		if key.Kty != "RSA" {
			continue
		}

		n, err := base64.RawURLEncoding.DecodeString(key.N)
		if err != nil {
			return nil, fmt.Errorf("decode JWK modulus: %w", err)
		}
		e, err := base64.RawURLEncoding.DecodeString(key.E)
		if err != nil {
			return nil, fmt.Errorf("decode JWK exponent: %w", err)
		}
		if len(n) == 0 || len(e) == 0 {
			return nil, fmt.Errorf("JWK modulus or exponent is empty")
		}

		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: int(new(big.Int).SetBytes(e).Int64()),
		}, nil
	}

	return nil, fmt.Errorf("JWKS document contains no RSA keys")
}
