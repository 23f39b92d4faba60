package middleware

import (
	"net/http"
	"strings"

	"pet-tag-lookup/internal/ports/capabilities"
)

// RequireCapability corta con 401 si no hay claims y con 403 si el usuario no
// tiene la capability. Si resolver es nil nadie pasa.
func RequireCapability(resolver capabilities.Resolver, capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.UserID) == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if resolver == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			allowed, err := resolver.Has(r.Context(), claims.UserID, capability)
			if err != nil {
				http.Error(w, "capabilities unavailable", http.StatusServiceUnavailable)
				return
			}
			if !allowed {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
