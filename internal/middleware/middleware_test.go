package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-tag-lookup/internal/platform/logger"
	"pet-tag-lookup/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{}

func (stubVerifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if token == "good" {
		return auth.Claims{UserID: "uidA"}, nil
	}
	return auth.Claims{}, errors.New("bad token")
}

type stubCaps map[string]bool

func (s stubCaps) Has(ctx context.Context, userID, capability string) (bool, error) {
	if userID == "broken" {
		return false, errors.New("down")
	}
	return s[userID], nil
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	c, ok := GetClaims(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(c.UserID))
}

func TestAuthContext_DevHeader(t *testing.T) {
	h := AuthContext(nil)(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-User-ID", "uidA")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "uidA", rr.Body.String())

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", rr.Body.String())
}

func TestAuthContext_Verifier(t *testing.T) {
	h := AuthContext(stubVerifier{})(http.HandlerFunc(whoAmI))

	cases := map[string]string{
		"Bearer good": "uidA",
		"bearer good": "uidA",
		"Bearer bad":  "anonymous",
		"good":        "anonymous",
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		// con verifier el header de debug se ignora
		req.Header.Set("X-Debug-User-ID", "intruder")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, want, rr.Body.String(), header)
	}
}

func TestRequireCapability(t *testing.T) {
	caps := stubCaps{"admin": true}
	h := AuthContext(nil)(RequireCapability(caps, "tags:admin")(http.HandlerFunc(whoAmI)))

	cases := []struct {
		user   string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"someone", http.StatusForbidden},
		{"broken", http.StatusServiceUnavailable},
		{"admin", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/admin/tags", nil)
		if tc.user != "" {
			req.Header.Set("X-Debug-User-ID", tc.user)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, tc.status, rr.Code, tc.user)
	}
}

func TestRequireCapability_NilResolver(t *testing.T) {
	h := AuthContext(nil)(RequireCapability(nil, "tags:admin")(http.HandlerFunc(whoAmI)))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Debug-User-ID", "admin")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequestLoggerAndMetrics(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatText, Writer: &buf})

	r := chi.NewRouter()
	r.Use(RequestLogger(log))
	r.Use(Metrics)
	r.Get("/p/{id}", func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context(), logger.Nop()).Info("inside", nil)
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/p/PET-100", nil))
	require.Equal(t, http.StatusTeapot, rr.Code)

	out := buf.String()
	assert.Contains(t, out, "inside")
	assert.Contains(t, out, "status=418")
	assert.True(t, strings.Contains(out, "path=/p/PET-100"), out)
}

func TestAuthContext_AddsUserToRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatText, Writer: &buf})

	h := RequestLogger(log)(AuthContext(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context(), logger.Nop()).Info("activating", nil)
	})))

	req := httptest.NewRequest(http.MethodPost, "/tags/PET-100/activate", nil)
	req.Header.Set("X-Debug-User-ID", "uidA")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line string
	for _, l := range strings.Split(buf.String(), "\n") {
		if strings.Contains(l, "activating") {
			line = l
		}
	}
	require.NotEmpty(t, line, buf.String())
	assert.Contains(t, line, "user_id=uidA")
}
