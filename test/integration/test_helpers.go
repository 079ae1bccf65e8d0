//go:build integration

package integration

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auth-fabric/internal/client"
	"auth-fabric/internal/config"
	"auth-fabric/internal/handler"
	"auth-fabric/internal/keys"
	"auth-fabric/internal/middleware"
	"auth-fabric/internal/password"
	"auth-fabric/internal/router"
	"auth-fabric/internal/service"
	"auth-fabric/internal/session"
	"auth-fabric/internal/store"
	"auth-fabric/internal/token"
)

// fabric is a fully wired identity/resource pair backed by in-memory stores.
type fabric struct {
	identity *httptest.Server
	resource *httptest.Server
	verifier *token.Verifier
}

// newFabric stands up both services. The resource service's verification key
// comes from the identity provider's JWKS document, exercising the same
// codec the startup fetch uses.
func newFabric(t *testing.T, tokenTTL time.Duration) *fabric {
	t.Helper()

	provider, err := keys.NewProvider(2048)
	require.NoError(t, err)

	public, err := keys.PublicKeyFromJWKS(provider.JWKS())
	require.NoError(t, err)

	hasher := password.NewHasher(4)
	verifier := token.NewVerifier(public)

	resourceCfg := &config.Resource{
		ServerPort:       "0",
		RequestTimeout:   10 * time.Second,
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}
	resourceService := service.NewResourceService(store.NewMemory(), hasher)
	authMiddleware := middleware.NewAuthMiddleware(verifier, resourceService)
	resourceHandler := handler.NewResourceHandler(resourceService, verifier)
	resourceServer := httptest.NewServer(router.NewResource(resourceCfg, authMiddleware, resourceHandler))
	t.Cleanup(resourceServer.Close)

	identityCfg := &config.Identity{
		ServerPort:       "0",
		RequestTimeout:   10 * time.Second,
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}
	identityService := service.NewIdentityService(
		store.NewMemory(),
		hasher,
		token.NewIssuer(provider, tokenTTL),
		session.NewTracker(),
		client.NewResourceClient(resourceServer.URL, 5*time.Second),
	)
	identityServer := httptest.NewServer(router.NewIdentity(
		identityCfg,
		handler.NewAuthHandler(identityService),
		handler.NewJWKSHandler(provider),
	))
	t.Cleanup(identityServer.Close)

	return &fabric{
		identity: identityServer,
		resource: resourceServer,
		verifier: verifier,
	}
}

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func mustNewRequest(t *testing.T, method string, url string, body io.Reader) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	return req
}

func doBearerRequest(t *testing.T, method string, url string, bearer string) *http.Response {
	t.Helper()

	req := mustNewRequest(t, method, url, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return doRequest(t, req)
}
