package middleware

import (
	"context"
	"net/http"
	"strings"

	"pet-tag-lookup/internal/platform/logger"
	"pet-tag-lookup/internal/ports/auth"
)

type claimsKey struct{}

// debugUserHeader solo se acepta sin verifier (modo dev).
const debugUserHeader = "X-Debug-User-ID"

// AuthContext pone auth.Claims en el contexto cuando hay un usuario identificable.
// Nunca corta el request: las rutas públicas (/p/{id}, /lookup/{id}) no llevan
// usuario, y cada handler decide si exige uno (401) o un permiso (403).
//
// Con verifier == nil el usuario sale de X-Debug-User-ID; con verifier solo se
// acepta "Authorization: Bearer <token>" y el header de debug se ignora.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := identify(r, verifier)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func identify(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	if verifier == nil {
		uid := strings.TrimSpace(r.Header.Get(debugUserHeader))
		return auth.Claims{UserID: uid}, uid != ""
	}

	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return auth.Claims{}, false
	}

	claims, err := verifier.Verify(r.Context(), token)
	if err != nil || strings.TrimSpace(claims.UserID) == "" {
		logger.FromContext(r.Context(), logger.Nop()).Debug("bearer token rejected", map[string]any{"error": err})
		return auth.Claims{}, false
	}
	return claims, true
}

// withClaims guarda los claims y agrega user_id al logger del request.
func withClaims(ctx context.Context, c auth.Claims) context.Context {
	ctx = context.WithValue(ctx, claimsKey{}, c)
	log := logger.FromContext(ctx, logger.Nop()).With(map[string]any{"user_id": c.UserID})
	return logger.WithContext(ctx, log)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return c, ok
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
