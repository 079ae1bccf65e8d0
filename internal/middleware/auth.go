package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"auth-fabric/internal/model"
	"auth-fabric/internal/token"
)

type tokenVerifier interface {
	Verify(tokenString string, expectedUsername string) (*token.Claims, error)
}

type userMirror interface {
	FindUser(ctx context.Context, username string) (model.User, error)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

// AuthMiddleware authenticates requests on the resource service. A missing
// Authorization header lets the request through unauthenticated (public
// endpoints stay reachable; protected ones reject downstream via
// RequireAuth). A present-but-invalid token rejects immediately rather than
// degrading to anonymous.
type AuthMiddleware struct {
	verifier tokenVerifier
	mirror   userMirror
}

func NewAuthMiddleware(verifier tokenVerifier, mirror userMirror) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, mirror: mirror}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer, present := extractBearer(r)
		if !present {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.verifier.Verify(bearer, "")
		if err != nil {
			writeDenied(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		// The token must bind to a user the mirror knows about.
		user, err := m.mirror.FindUser(r.Context(), claims.Subject)
		if err != nil || user.Username != claims.Subject {
			writeDenied(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		authClaims := &model.AuthClaims{
			Subject:     claims.Subject,
			Authorities: claims.Authorities,
		}
		ctx := context.WithValue(r.Context(), authClaimsContextKey, authClaims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth gates a route on a successfully authenticated identity.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); !ok {
			writeDenied(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthority gates a route on one of the given role claims.
func (m *AuthMiddleware) RequireAuthority(authorities ...string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(authorities))
	for _, a := range authorities {
		allowed = append(allowed, token.NormalizeRole(a))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeDenied(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			for _, a := range allowed {
				if claims.HasAuthority(a) {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeDenied(w, http.StatusForbidden, "FORBIDDEN", "insufficient authorities")
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok
}

func extractBearer(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(header[7:]), true
}

func writeDenied(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: &model.APIError{Code: code, Message: message},
	})
}
