package scans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-tag-lookup/internal/middleware"
	"pet-tag-lookup/internal/ports/storage"

	"github.com/go-chi/chi/v5"
)

// PetOwnerLookup resuelve petID (sin distinguir mayúsculas) a su ID
// canónico y dueño.
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (id, ownerID string, err error)
}

func RegisterRoutes(r chi.Router, svc *Service, petOwners PetOwnerLookup) {
	// Historial de escaneos (solo dueño)
	r.Route("/pets/{petID}/scans", func(sr chi.Router) {
		sr.Get("/", listScansHandler(svc, petOwners))
	})
}

type scanResponse struct {
	ID             string         `json:"id"`
	PetID          string         `json:"pet_id"`
	Location       *Location      `json:"location"`
	LocationStatus LocationStatus `json:"location_status"`
	Timestamp      time.Time      `json:"timestamp"`
	UserAgent      string         `json:"user_agent"`
}

// listScansHandler godoc
// @Summary Historial de escaneos
// @Description Últimos escaneos del perfil público de la mascota, más reciente primero. Solo el dueño.
// @Tags scans
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de resultados (default 10, máx 100)"
// @Success 200 {array} scanResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID}/scans [get]
func listScansHandler(svc *Service, petOwners PetOwnerLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		petID, ownerID, err := petOwners.OwnerOf(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			if errors.Is(err, storage.ErrUnavailable) {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if ownerID != claims.UserID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		limit := 0
		if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		items, err := svc.ListByPet(r.Context(), petID, limit)
		if err != nil {
			if errors.Is(err, storage.ErrUnavailable) {
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]scanResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toScanResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toScanResponse(e ScanEvent) scanResponse {
	return scanResponse{
		ID:             e.ID,
		PetID:          e.PetID,
		Location:       e.Location,
		LocationStatus: e.LocationStatus,
		Timestamp:      e.Timestamp,
		UserAgent:      e.UserAgent,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
