package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Api-Key") != "secret" {
			http.Error(w, "bad api key", http.StatusForbidden)
			return
		}
		var body struct {
			Token string `json:"token"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		switch body.Token {
		case "good":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"user_id":" uidA ","email":"ana@example.com"}`))
		case "empty":
			_, _ = w.Write([]byte(`{"user_id":""}`))
		case "boom":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			http.Error(w, "nope", http.StatusUnauthorized)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifier_Verify(t *testing.T) {
	srv := newIdentityServer(t)
	v := NewVerifier(NewClient(Config{VerifyURL: srv.URL + "/verify", APIKey: "secret", Timeout: time.Second}))
	ctx := context.Background()

	claims, err := v.Verify(ctx, " good ")
	require.NoError(t, err)
	assert.Equal(t, "uidA", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)

	_, err = v.Verify(ctx, "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = v.Verify(ctx, "boom")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = v.Verify(ctx, "empty")
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = v.Verify(ctx, "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

func TestVerifier_WrongAPIKey(t *testing.T) {
	srv := newIdentityServer(t)
	v := NewVerifier(NewClient(Config{VerifyURL: srv.URL, APIKey: "other"}))

	_, err := v.Verify(context.Background(), "good")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifier_NotConfigured(t *testing.T) {
	v := NewVerifier(NewClient(Config{}))

	_, err := v.Verify(context.Background(), "good")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
