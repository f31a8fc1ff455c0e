package auth

import (
	"encoding/json"
	"net/http"
	"time"
)

// HTTPMiddleware validates Bearer tokens and attaches the claims to the request context.
func HTTPMiddleware(jwtService *JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "missing authorization header")
				return
			}
			token, ok := bearerToken(header)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "invalid authorization format")
				return
			}
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireRoles rejects requests whose claims hold none of roles.
// It must run after HTTPMiddleware.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "authentication required")
				return
			}
			if !claims.HasAnyRole(roles...) {
				writeAuthError(w, http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{ //nolint:errcheck
		"error":     http.StatusText(status),
		"message":   message,
		"code":      code,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
