package client

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"auth-fabric/internal/keys"
)

// FetchPublicKey retrieves the identity service's JWKS document and rebuilds
// the RSA verification key from it. The resource service calls this once at
// startup to bootstrap trust; a failure is fatal there, since serving
// protected endpoints without a verification key would mean failing open.
func FetchPublicKey(ctx context.Context, jwksURL string, timeout time.Duration) (*rsa.PublicKey, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build JWKS request: %w", err)
	}

	resp, err := (&http.Client{Timeout: timeout}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch JWKS: unexpected status %d", resp.StatusCode)
	}

	var doc keys.JWKS
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode JWKS document: %w", err)
	}

	public, err := keys.PublicKeyFromJWKS(doc)
	if err != nil {
		return nil, fmt.Errorf("reconstruct public key: %w", err)
	}

	return public, nil
}
