package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"auth-fabric/internal/client"
	"auth-fabric/internal/config"
	"auth-fabric/internal/handler"
	"auth-fabric/internal/middleware"
	"auth-fabric/internal/password"
	"auth-fabric/internal/router"
	"auth-fabric/internal/service"
	"auth-fabric/internal/store"
	"auth-fabric/internal/token"
)

// Resource is the resource service's composition root. Trust in the
// identity service is bootstrapped here: the JWKS fetch happens once at
// startup and its failure keeps the service from serving at all.
type Resource struct {
	server *http.Server
}

func NewResource() (*Resource, error) {
	cfg, err := config.LoadResource()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("fetching JWKS from identity service", "url", cfg.JWKSURL)
	public, err := client.FetchPublicKey(context.Background(), cfg.JWKSURL, cfg.JWKSFetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap verification key: %w", err)
	}
	slog.Info("verification key ready")

	users := store.NewMemory()
	hasher := password.NewHasher(cfg.BcryptCost)
	verifier := token.NewVerifier(public)

	resourceService := service.NewResourceService(users, hasher)
	authMiddleware := middleware.NewAuthMiddleware(verifier, resourceService)
	resourceHandler := handler.NewResourceHandler(resourceService, verifier)

	appRouter := router.NewResource(cfg, authMiddleware, resourceHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &Resource{server: server}, nil
}

func (a *Resource) Run() error {
	return runServer(a.server, nil)
}
