package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"auth-fabric/internal/config"
	"auth-fabric/internal/handler"
	"auth-fabric/internal/middleware"
)

// NewIdentity builds the identity service's route tree.
func NewIdentity(
	cfg *config.Identity,
	authHandler *handler.AuthHandler,
	jwksHandler *handler.JWKSHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM, []string{"/auth/login", "/auth/register"})

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimit.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/oauth2/jwks", jwksHandler.KeySet)

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", authHandler.Register)
		auth.Post("/login", authHandler.Login)
		auth.Post("/logout", authHandler.Logout)
		auth.Get("/userinfo", authHandler.UserInfo)
		auth.Delete("/delete", authHandler.Delete)
	})

	return r
}
