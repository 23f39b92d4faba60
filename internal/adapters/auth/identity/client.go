package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-tag-lookup/internal/platform/httpclient"
	"pet-tag-lookup/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("identity client not configured")
	ErrUnauthorized  = errors.New("identity unauthorized")
	ErrUpstream      = errors.New("identity upstream error")
)

// Config del cliente del proveedor de identidad.
// VerifyURL y APIKey vienen de config (AUTH_VERIFY_URL / AUTH_API_KEY).
type Config struct {
	VerifyURL string
	APIKey    string

	// Opcional: nombre del header donde se manda la API key.
	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	verifyURL string
	http      *httpclient.Client
}

func NewClient(cfg Config) *Client {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc := httpclient.New(cfg.Timeout)
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		hc.Headers = map[string]string{h: key}
	}

	return &Client{
		verifyURL: strings.TrimSpace(cfg.VerifyURL),
		http:      hc,
	}
}

// NewClientWithHTTP permite inyectar el httpclient (tests).
func NewClientWithHTTP(verifyURL string, hc *httpclient.Client) *Client {
	return &Client{verifyURL: strings.TrimSpace(verifyURL), http: hc}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.verifyURL != "" && c.http != nil
}

type verifyResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// VerifyToken manda el token al endpoint de verificación y devuelve los claims.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	var out verifyResponse
	err := c.http.DoJSON(ctx, http.MethodPost, c.verifyURL,
		map[string]string{"Authorization": "Bearer " + token},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrUpstream)
	}

	return auth.Claims{
		UserID: out.UserID,
		Email:  strings.TrimSpace(out.Email),
	}, nil
}
