package lookup

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"pet-tag-lookup/internal/domain/pets"
	"pet-tag-lookup/internal/domain/scans"
	"pet-tag-lookup/internal/domain/tags"
	"pet-tag-lookup/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func RegisterRoutes(r chi.Router, flow *Flow, log logger.Logger) {
	if log == nil {
		log = logger.Nop()
	}

	// Público: sin auth
	r.Get("/p/{id}", publicPageHandler(flow, log))
	r.Post("/p/{id}/scans/{token}", completeScanHandler(flow))
	r.Get("/lookup/{id}", lookupJSONHandler(flow, log))
}

// PublicPet es lo que ve cualquiera que escanea el tag.
type PublicPet struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerName string `json:"owner_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type lookupResponse struct {
	Outcome   tags.Outcome `json:"outcome"`
	Pet       *PublicPet   `json:"pet,omitempty"`
	TagID     string       `json:"tag_id,omitempty"`
	ScanToken string       `json:"scan_token,omitempty"`
	ScanURL   string       `json:"scan_url,omitempty"`
}

type completeScanRequest struct {
	Status   scans.LocationStatus `json:"status"`
	Location *scans.Location      `json:"location"`
}

type foundView struct {
	Title    string
	Pet      PublicPet
	PhoneURL template.URL
	ScanURL  string
}

type unclaimedView struct {
	Title        string
	TagID        string
	ActivatePath string
}

type messageView struct {
	Title string
}

func toPublicPet(p pets.Pet) PublicPet {
	return PublicPet{
		ID:        p.ID,
		Name:      p.Name,
		OwnerName: p.OwnerName,
		Phone:     p.Phone,
		Address:   p.Address,
		Notes:     p.Notes,
	}
}

// publicPageHandler godoc
// @Summary Perfil público
// @Description Página HTML del tag: perfil de la mascota, aviso de activación o "no encontrado". No distingue mayúsculas.
// @Tags public
// @Produce html
// @Param id path string true "ID del tag o de la mascota"
// @Success 200 {string} string "html"
// @Failure 404 {string} string "html"
// @Failure 503 {string} string "html"
// @Router /p/{id} [get]
func publicPageHandler(flow *Flow, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := flow.Lookup(r.Context(), chi.URLParam(r, "id"), Visit{UserAgent: r.UserAgent()})
		if err != nil {
			log.Error("lookup failed", map[string]any{"id": chi.URLParam(r, "id"), "error": err})
			render(w, log, http.StatusServiceUnavailable, "error.html", messageView{Title: "Unavailable"})
			return
		}

		switch page.Result.Outcome {
		case tags.OutcomeFound:
			p := page.Result.Pet
			render(w, log, http.StatusOK, "found.html", foundView{
				Title:    p.Name,
				Pet:      toPublicPet(p),
				PhoneURL: phoneURL(p.Phone),
				ScanURL:  scanURL(p.ID, page.ScanToken),
			})
		case tags.OutcomeUnclaimed:
			render(w, log, http.StatusOK, "unclaimed.html", unclaimedView{
				Title:        "New tag",
				TagID:        page.Result.TagID,
				ActivatePath: "/tags/" + url.PathEscape(page.Result.TagID) + "/activate",
			})
		default:
			render(w, log, http.StatusNotFound, "invalid.html", messageView{Title: "Not found"})
		}
	}
}

// lookupJSONHandler godoc
// @Summary Resolver ID (JSON)
// @Description Mismo flujo que /p/{id} pero en JSON. Si la mascota existe devuelve scan_token para reportar la ubicación.
// @Tags public
// @Produce json
// @Param id path string true "ID del tag o de la mascota"
// @Success 200 {object} lookupResponse
// @Failure 404 {object} lookupResponse
// @Failure 503 {string} string "service unavailable"
// @Router /lookup/{id} [get]
func lookupJSONHandler(flow *Flow, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := flow.Lookup(r.Context(), chi.URLParam(r, "id"), Visit{UserAgent: r.UserAgent()})
		if err != nil {
			log.Error("lookup failed", map[string]any{"id": chi.URLParam(r, "id"), "error": err})
			http.Error(w, "service unavailable", http.StatusServiceUnavailable)
			return
		}

		resp := lookupResponse{Outcome: page.Result.Outcome}
		status := http.StatusOK
		switch page.Result.Outcome {
		case tags.OutcomeFound:
			pp := toPublicPet(page.Result.Pet)
			resp.Pet = &pp
			resp.ScanToken = page.ScanToken
			resp.ScanURL = scanURL(pp.ID, page.ScanToken)
		case tags.OutcomeUnclaimed:
			resp.TagID = page.Result.TagID
		default:
			status = http.StatusNotFound
		}
		writeJSON(w, status, resp)
	}
}

// completeScanHandler godoc
// @Summary Reportar ubicación del escaneo
// @Description Cierra el escaneo pendiente con el resultado de geolocalización (obtained, denied, unavailable). Cada token sirve una vez.
// @Tags public
// @Accept json
// @Param id path string true "ID de la mascota"
// @Param token path string true "scan_token devuelto por la carga del perfil"
// @Param payload body completeScanRequest true "Resultado de geolocalización"
// @Success 202 {string} string "accepted"
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "unknown scan"
// @Router /p/{id}/scans/{token} [post]
func completeScanHandler(flow *Flow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req completeScanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		err := flow.Complete(chi.URLParam(r, "id"), chi.URLParam(r, "token"), req.Status, req.Location)
		switch {
		case err == nil:
			w.WriteHeader(http.StatusAccepted)
		case errors.Is(err, scans.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrUnknownScan):
			http.Error(w, "unknown scan", http.StatusNotFound)
		default:
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}
}

func scanURL(petID, token string) string {
	if token == "" {
		return ""
	}
	return "/p/" + url.PathEscape(petID) + "/scans/" + url.PathEscape(token)
}

// phoneURL arma un tel: con dígitos y '+' solamente.
func phoneURL(phone string) template.URL {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return template.URL("tel:" + b.String())
}

func render(w http.ResponseWriter, log logger.Logger, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		log.Error("render failed", map[string]any{"template": name, "error": err})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
