package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-tag-lookup/internal/adapters/capabilities/static"
	"pet-tag-lookup/internal/router"
)

const (
	adminID = "admin-1"
	ownerA  = "owner-a"
	ownerB  = "owner-b"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	rt := router.NewRouter(router.Options{
		AuthVerifier:    nil, // modo dev: X-Debug-User-ID
		Capabilities:    static.NewResolver([]string{adminID}, false),
		PublicBaseURL:   "https://tags.example.com",
		LocationTimeout: time.Minute,
	})
	ts := httptest.NewServer(rt)
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.Close(ctx)
	})
	return ts
}

func TestHTTP_EndToEnd_TagLifecycle(t *testing.T) {
	ts := newServer(t)

	// 1) Admin crea el lote PET-100..PET-104
	{
		st, body := doReq(t, ts.URL, "POST", "/admin/tags/batch", adminID, map[string]any{
			"prefix": "PET-",
			"start":  100,
			"count":  5,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 batch, got %d body=%s", st, string(body))
		}
		var out struct {
			Created []struct {
				ID  string `json:"id"`
				URL string `json:"url"`
			} `json:"created"`
			Skipped []string `json:"skipped"`
		}
		mustJSON(t, body, &out)
		if len(out.Created) != 5 || out.Created[0].ID != "PET-100" {
			t.Fatalf("unexpected batch result: %s", string(body))
		}
		if out.Created[0].URL != "https://tags.example.com/p/PET-100" {
			t.Fatalf("unexpected public url %q", out.Created[0].URL)
		}
	}

	// 2) Tag sin activar => unclaimed
	{
		st, body := doReq(t, ts.URL, "GET", "/lookup/pet-101", "", nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"outcome":"unclaimed"`) {
			t.Fatalf("expected unclaimed, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/p/pet-101", "", nil)
		if st != http.StatusOK || !strings.Contains(string(body), "/tags/PET-101/activate") {
			t.Fatalf("expected activation prompt, got %d body=%s", st, string(body))
		}
	}

	// 3) Owner A activa PET-100 (en minúsculas)
	{
		st, body := doReq(t, ts.URL, "POST", "/tags/pet-100/activate", ownerA, rexPayload())
		if st != http.StatusCreated {
			t.Fatalf("expected 201 activate, got %d body=%s", st, string(body))
		}
		var out struct {
			Pet struct {
				ID      string `json:"id"`
				OwnerID string `json:"owner_id"`
			} `json:"pet"`
			Tag struct {
				Status string `json:"status"`
			} `json:"tag"`
		}
		mustJSON(t, body, &out)
		if out.Pet.ID != "PET-100" || out.Pet.OwnerID != ownerA || out.Tag.Status != "linked" {
			t.Fatalf("unexpected activation: %s", string(body))
		}
	}

	// 4) Owner B no puede reclamar el mismo tag
	{
		st, _ := doReq(t, ts.URL, "POST", "/tags/PET-100/activate", ownerB, rexPayload())
		if st != http.StatusConflict {
			t.Fatalf("expected 409 on linked tag, got %d", st)
		}
	}

	// 5) Perfil público: cualquier capitalización
	{
		st, body := doReq(t, ts.URL, "GET", "/p/pet-100", "", nil)
		if st != http.StatusOK || !strings.Contains(string(body), "Rex") {
			t.Fatalf("expected public profile, got %d body=%s", st, string(body))
		}
	}

	// 6) Carga JSON + reporte de ubicación
	{
		st, body := doReq(t, ts.URL, "GET", "/lookup/PET-100", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 lookup, got %d body=%s", st, string(body))
		}
		var out struct {
			Outcome   string `json:"outcome"`
			ScanToken string `json:"scan_token"`
			ScanURL   string `json:"scan_url"`
		}
		mustJSON(t, body, &out)
		if out.Outcome != "found" || out.ScanToken == "" {
			t.Fatalf("unexpected lookup: %s", string(body))
		}

		st, body = doReq(t, ts.URL, "POST", out.ScanURL, "", map[string]any{
			"status":   "obtained",
			"location": map[string]any{"lat": -33.45, "lng": -70.66},
		})
		if st != http.StatusAccepted {
			t.Fatalf("expected 202 scan, got %d body=%s", st, string(body))
		}
	}

	// 7) Historial de escaneos: solo el dueño
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/PET-100/scans", ownerB, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 scans for non-owner, got %d", st)
		}

		// la escritura es asíncrona
		var items []map[string]any
		deadline := time.Now().Add(2 * time.Second)
		for {
			st, body := doReq(t, ts.URL, "GET", "/pets/PET-100/scans", ownerA, nil)
			if st != http.StatusOK {
				t.Fatalf("expected 200 scans, got %d body=%s", st, string(body))
			}
			mustJSON(t, body, &items)
			if len(items) >= 1 || time.Now().After(deadline) {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		if len(items) != 1 || items[0]["location_status"] != "obtained" {
			t.Fatalf("expected exactly one obtained scan, got %v", items)
		}

		// mismo criterio de mayúsculas que el perfil público
		st, body := doReq(t, ts.URL, "GET", "/pets/pet-100/scans", ownerA, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 scans for lowercase id, got %d body=%s", st, string(body))
		}
		mustJSON(t, body, &items)
		if len(items) != 1 {
			t.Fatalf("expected the same scan for lowercase id, got %v", items)
		}
		if st, _ := doReq(t, ts.URL, "GET", "/pets/pet-100", ownerA, nil); st != http.StatusOK {
			t.Fatalf("expected 200 pet for lowercase id, got %d", st)
		}
	}

	// 8) ID inexistente => 404
	{
		st, _ := doReq(t, ts.URL, "GET", "/p/ZZZ-999", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 invalid tag, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/tags/ZZZ-999/activate", ownerA, rexPayload())
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 activating missing tag, got %d", st)
		}
	}

	// 9) Re-seed no pisa tags vinculados
	{
		st, body := doReq(t, ts.URL, "POST", "/admin/tags", adminID, map[string]any{"id": "pet-100"})
		if st != http.StatusCreated || !strings.Contains(string(body), `"skipped":["PET-100"]`) {
			t.Fatalf("expected PET-100 skipped, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/admin/tags/PET-100", adminID, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"status":"linked"`) {
			t.Fatalf("expected tag still linked, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_ActivationValidation(t *testing.T) {
	ts := newServer(t)

	if st, body := doReq(t, ts.URL, "POST", "/admin/tags", adminID, map[string]any{"id": "PET-200"}); st != http.StatusCreated {
		t.Fatalf("expected 201 create tag, got %d body=%s", st, string(body))
	}

	// sin usuario
	if st, _ := doReq(t, ts.URL, "POST", "/tags/PET-200/activate", "", rexPayload()); st != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", st)
	}

	// faltan campos requeridos
	if st, _ := doReq(t, ts.URL, "POST", "/tags/PET-200/activate", ownerA, map[string]any{"name": "Rex"}); st != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", st)
	}

	// el tag sigue disponible
	st, body := doReq(t, ts.URL, "GET", "/lookup/PET-200", "", nil)
	if st != http.StatusOK || !strings.Contains(string(body), `"outcome":"unclaimed"`) {
		t.Fatalf("expected unclaimed after failed activation, got %d body=%s", st, string(body))
	}
}

func TestHTTP_AdminRequiresCapability(t *testing.T) {
	ts := newServer(t)

	if st, _ := doReq(t, ts.URL, "POST", "/admin/tags/random", "", map[string]any{"count": 3}); st != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/admin/tags/random", ownerA, map[string]any{"count": 3}); st != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", st)
	}

	st, body := doReq(t, ts.URL, "POST", "/admin/tags/random", adminID, map[string]any{"count": 3})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}
	var out struct {
		Created []struct {
			ID string `json:"id"`
		} `json:"created"`
	}
	mustJSON(t, body, &out)
	if len(out.Created) != 3 || len(out.Created[0].ID) != 8 {
		t.Fatalf("unexpected random tags: %s", string(body))
	}

	if st, _ := doReq(t, ts.URL, "POST", "/admin/tags/batch", adminID, map[string]any{"prefix": "X", "count": 501}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized batch, got %d", st)
	}
}

func TestHTTP_OwnerConsole(t *testing.T) {
	ts := newServer(t)

	// Registro sin tag
	st, body := doReq(t, ts.URL, "POST", "/pets", ownerA, rexPayload())
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}
	var pet struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &pet)

	// el perfil público resuelve el ID tal cual
	if st, _ := doReq(t, ts.URL, "GET", "/p/"+pet.ID, "", nil); st != http.StatusOK {
		t.Fatalf("expected public profile for untagged pet, got %d", st)
	}

	if st, _ := doReq(t, ts.URL, "GET", "/pets/"+pet.ID, ownerB, nil); st != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "PATCH", "/pets/"+pet.ID, ownerB, map[string]any{"name": "Stolen"}); st != http.StatusForbidden {
		t.Fatalf("expected 403 patch by non-owner, got %d", st)
	}

	st, body = doReq(t, ts.URL, "PATCH", "/pets/"+pet.ID, ownerA, map[string]any{"notes": "Alérgico al pollo"})
	if st != http.StatusOK || !strings.Contains(string(body), "Alérgico") {
		t.Fatalf("expected 200 patch, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/pets", ownerA, nil)
	if st != http.StatusOK || !strings.Contains(string(body), pet.ID) {
		t.Fatalf("expected own pet listed, got %d body=%s", st, string(body))
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := newServer(t)

	if st, _ := doReq(t, ts.URL, "GET", "/health", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/metrics", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 metrics, got %d", st)
	}
}

func rexPayload() map[string]any {
	return map[string]any{
		"name":       "Rex",
		"owner_name": "Ana",
		"phone":      "+56 9 1234 5678",
		"address":    "Calle Falsa 123",
	}
}

func doReq(t *testing.T, baseURL, method, path, userID string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-Debug-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func mustJSON(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("invalid json: %v body=%s", err, string(b))
	}
}
