package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"github.com/google/uuid"
)

const MinModulusBits = 2048

// Provider owns the process-wide RSA signing key pair. The pair is generated
// once at construction and is read-only afterwards; only the public half ever
// leaves the process, via the JWKS document.
type Provider struct {
	private *rsa.PrivateKey
	kid     string
}

// NewProvider generates a fresh key pair. A generation failure is
// startup-fatal for the caller; there is no degraded mode.
func NewProvider(bits int) (*Provider, error) {
	if bits < MinModulusBits {
		bits = MinModulusBits
	}

	private, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate RSA key pair: %w", err)
	}

	return &Provider{
		private: private,
		kid:     uuid.NewString(),
	}, nil
}

func (p *Provider) Private() *rsa.PrivateKey {
	return p.private
}

func (p *Provider) Public() *rsa.PublicKey {
	return &p.private.PublicKey
}

// KeyID is the stable identifier assigned to this key-pair generation. It is
// published in the JWKS document and stamped into every token header.
func (p *Provider) KeyID() string {
	return p.kid
}
