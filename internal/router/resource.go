package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"auth-fabric/internal/config"
	"auth-fabric/internal/handler"
	"auth-fabric/internal/middleware"
)

// NewResource builds the resource service's route tree. The authentication
// middleware runs on every request; public handshake endpoints stay
// reachable without a token while the protected ones are gated by role.
func NewResource(
	cfg *config.Resource,
	authMiddleware *middleware.AuthMiddleware,
	resourceHandler *handler.ResourceHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM, []string{"/validate-user", "/register"})

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimit.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(authMiddleware.Authenticate)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/check-username", resourceHandler.CheckUsername)
	r.Post("/validate-user", resourceHandler.ValidateUser)
	r.Post("/register", resourceHandler.Register)

	r.With(authMiddleware.RequireAuth, authMiddleware.RequireAuthority("ROLE_USER", "ROLE_ADMIN")).
		Get("/user-endpoint", resourceHandler.UserEndpoint)
	r.With(authMiddleware.RequireAuth, authMiddleware.RequireAuthority("ROLE_ADMIN")).
		Get("/admin-endpoint", resourceHandler.AdminEndpoint)
	r.With(authMiddleware.RequireAuth, authMiddleware.RequireAuthority("ROLE_ADMIN")).
		Post("/revoke-token", resourceHandler.RevokeToken)

	return r
}
