package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auth-fabric/internal/client"
	"auth-fabric/internal/config"
	"auth-fabric/internal/database"
	"auth-fabric/internal/handler"
	"auth-fabric/internal/keys"
	"auth-fabric/internal/password"
	"auth-fabric/internal/router"
	"auth-fabric/internal/service"
	"auth-fabric/internal/session"
	"auth-fabric/internal/store"
	"auth-fabric/internal/token"
)

// Identity is the identity service's composition root.
type Identity struct {
	server       *http.Server
	cleanupFuncs []func()
}

func NewIdentity() (*Identity, error) {
	cfg, err := config.LoadIdentity()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Key generation failure means the process must not serve.
	provider, err := keys.NewProvider(cfg.RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	slog.Info("signing key pair generated", "kid", provider.KeyID(), "bits", cfg.RSAKeyBits)

	var users store.Users
	var cleanup []func()
	if cfg.DatabaseURL != "" {
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ensure database schema: %w", err)
		}
		users = store.NewPostgres(db.Pool)
		cleanup = append(cleanup, db.Close)
	} else {
		slog.Info("DATABASE_URL not set; using in-memory credential store")
		users = store.NewMemory()
	}

	hasher := password.NewHasher(cfg.BcryptCost)
	issuer := token.NewIssuer(provider, cfg.TokenTTL)
	sessions := session.NewTracker()
	resourceClient := client.NewResourceClient(cfg.ResourceBaseURL, cfg.ClientTimeout)

	identityService := service.NewIdentityService(users, hasher, issuer, sessions, resourceClient)
	authHandler := handler.NewAuthHandler(identityService)
	jwksHandler := handler.NewJWKSHandler(provider)

	appRouter := router.NewIdentity(cfg, authHandler, jwksHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &Identity{server: server, cleanupFuncs: cleanup}, nil
}

func (a *Identity) Run() error {
	return runServer(a.server, a.cleanupFuncs)
}

func runServer(server *http.Server, cleanupFuncs []func()) error {
	go func() {
		slog.Info("server starting", "addr", server.Addr)
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range cleanupFuncs {
		cleanup()
	}

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
