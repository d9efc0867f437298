package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/boardbank/boardbank/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ClaimsKey is the context key for storing the validated session claims.
const ClaimsKey contextKey = "claims"

// GetClaims extracts the session claims from the context.
// Returns nil if the request carried no valid token.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*auth.Claims)
	return claims
}

// errorFunc writes an error response; injected so the middleware does not
// depend on the API package's JSON helpers.
type errorFunc func(w http.ResponseWriter, status int, message string)

// RequireAdmin returns a middleware that validates the Bearer session
// token and requires the admin role. When the route carries a {code} path
// variable, the token must also belong to that room.
func RequireAdmin(jwtManager *auth.JWTManager, writeError errorFunc) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := validate(jwtManager, w, r, writeError)
			if !ok {
				return
			}

			if claims.Role != auth.RoleAdmin {
				writeError(w, http.StatusForbidden, "admin only")
				return
			}
			if code, ok := mux.Vars(r)["code"]; ok && code != claims.RoomCode {
				writeError(w, http.StatusForbidden, "token is for a different room")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession returns a middleware that validates the Bearer session
// token for any role, adding the claims to the request context.
func RequireSession(jwtManager *auth.JWTManager, writeError errorFunc) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := validate(jwtManager, w, r, writeError)
			if !ok {
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validate(jwtManager *auth.JWTManager, w http.ResponseWriter, r *http.Request, writeError errorFunc) (*auth.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		writeError(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
		return nil, false
	}

	claims, err := jwtManager.Validate(parts[1])
	if err != nil {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
		return nil, false
	}

	return claims, true
}
