package tags

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/middleware"
	"pet-tag-lookup/internal/ports/capabilities"
	"pet-tag-lookup/internal/ports/storage"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, caps capabilities.Resolver, publicBaseURL string) {
	// Activación (dueño autenticado). Único camino para reclamar un tag.
	r.Post("/tags/{tagID}/activate", activateHandler(svc))

	// Alta de tags (solo admin)
	r.Route("/admin/tags", func(ar chi.Router) {
		ar.Use(middleware.RequireCapability(caps, capabilities.TagsAdmin))

		ar.Post("/", createTagHandler(svc, publicBaseURL))
		ar.Post("/batch", createBatchHandler(svc, publicBaseURL))
		ar.Post("/random", createRandomHandler(svc, publicBaseURL))
		ar.Get("/{tagID}", getTagHandler(svc, publicBaseURL))
	})
}

type activateRequest struct {
	Name      string `json:"name"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Notes     string `json:"notes"`
}

type activationResponse struct {
	Pet pets.PetResponse `json:"pet"`
	Tag tagResponse      `json:"tag"`
}

type tagResponse struct {
	ID        string     `json:"id"`
	Status    Status     `json:"status"`
	PetID     string     `json:"pet_id,omitempty"`
	OwnerID   string     `json:"owner_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LinkedAt  *time.Time `json:"linked_at,omitempty"`
	URL       string     `json:"url"`
}

type createTagRequest struct {
	ID string `json:"id"`
}

type createRandomRequest struct {
	Count  int `json:"count"`
	Length int `json:"length"`
}

type createdTag struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type createResponse struct {
	Created []createdTag `json:"created"`
	// ya existían; no se tocaron
	Skipped []string `json:"skipped"`
}

// activateHandler godoc
// @Summary Activar tag
// @Description Crea la mascota con el ID del tag y lo marca como linked, en una sola operación atómica.
// @Tags tags
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param tagID path string true "ID del tag (no distingue mayúsculas)"
// @Param payload body activateRequest true "Datos de la mascota"
// @Success 201 {object} activationResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "tag not found"
// @Failure 409 {string} string "tag already linked"
// @Failure 503 {string} string "service unavailable"
// @Router /tags/{tagID}/activate [post]
func activateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req activateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Activate(r.Context(), chi.URLParam(r, "tagID"), pets.CreateInput(req), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, activationResponse{
			Pet: pets.ToResponse(a.Pet),
			Tag: toTagResponse(a.Tag, ""),
		})
	}
}

// createTagHandler godoc
// @Summary Crear tag
// @Description Da de alta un tag available con un ID elegido. Si ya existe no se modifica.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body createTagRequest true "ID del tag"
// @Success 201 {object} createResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/tags [post]
func createTagHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Create(r.Context(), req.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCreateResponse(res, baseURL))
	}
}

// createBatchHandler godoc
// @Summary Crear lote de tags
// @Description Da de alta {prefix}{start..start+count-1} con ceros a la izquierda (pad, default 3). Máximo 500.
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body SequenceInput true "Lote"
// @Success 201 {object} createResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/tags/batch [post]
func createBatchHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SequenceInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.CreateSequence(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCreateResponse(res, baseURL))
	}
}

// createRandomHandler godoc
// @Summary Crear tags aleatorios
// @Description Da de alta count tags con IDs aleatorios [0-9A-Z] (length default 8).
// @Tags admin
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body createRandomRequest true "Cantidad y largo"
// @Success 201 {object} createResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /admin/tags/random [post]
func createRandomHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRandomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.CreateRandom(r.Context(), req.Count, req.Length)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCreateResponse(res, baseURL))
	}
}

// getTagHandler godoc
// @Summary Ver tag
// @Tags admin
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param tagID path string true "ID del tag"
// @Success 200 {object} tagResponse
// @Failure 404 {string} string "tag not found"
// @Router /admin/tags/{tagID} [get]
func getTagHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Get(r.Context(), chi.URLParam(r, "tagID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toTagResponse(t, baseURL))
	}
}

func toTagResponse(t Tag, baseURL string) tagResponse {
	return tagResponse{
		ID:        t.ID,
		Status:    t.Status,
		PetID:     t.PetID,
		OwnerID:   t.OwnerID,
		CreatedAt: t.CreatedAt,
		LinkedAt:  t.LinkedAt,
		URL:       PublicURL(baseURL, t.ID),
	}
}

func toCreateResponse(res CreateResult, baseURL string) createResponse {
	out := createResponse{
		Created: make([]createdTag, 0, len(res.Created)),
		Skipped: res.Skipped,
	}
	for _, id := range res.Created {
		out.Created = append(out.Created, createdTag{ID: id, URL: PublicURL(baseURL, id)})
	}
	if out.Skipped == nil {
		out.Skipped = []string{}
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "tag not found", http.StatusNotFound)
	case errors.Is(err, ErrAlreadyLinked):
		http.Error(w, "tag already linked", http.StatusConflict)
	case errors.Is(err, storage.ErrUnavailable):
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
