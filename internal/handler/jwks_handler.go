package handler

import (
	"net/http"

	"auth-fabric/internal/keys"
)

// JWKSHandler publishes the identity service's public key. The endpoint is
// unauthenticated by definition and has no side effects; the document is
// rebuilt from the live key pair on every request.
type JWKSHandler struct {
	provider *keys.Provider
}

func NewJWKSHandler(provider *keys.Provider) *JWKSHandler {
	return &JWKSHandler{provider: provider}
}

func (h *JWKSHandler) KeySet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.JWKS())
}
