// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/paceline/internal/domain/model"
)

// RegistrantsHandler handles directory requests.
type RegistrantsHandler struct {
	deps Dependencies
}

// NewRegistrantsHandler creates a new registrants handler.
func NewRegistrantsHandler(deps Dependencies) *RegistrantsHandler {
	return &RegistrantsHandler{deps: deps}
}

// registrantRequest mirrors the registration form.
type registrantRequest struct {
	Bib       string `json:"bib"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Wave      string `json:"wave"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
}

// HandleRegistrants handles GET (directory view) and POST (upsert one)
// on /registrants.
func (h *RegistrantsHandler) HandleRegistrants(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		counts := h.deps.RegistrantWaveCounts(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"registrants": h.deps.Registrants(r.Context()),
			"wave_counts": map[string]int{
				string(model.WaveA): counts[model.WaveA],
				string(model.WaveB): counts[model.WaveB],
				string(model.WaveC): counts[model.WaveC],
			},
		})
	case http.MethodPost:
		var req registrantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		wave, err := model.ParseWave(req.Wave)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		dob := strings.TrimSpace(req.DOB)
		if dob == "" {
			dob = "1990-01-01"
		}
		reg := model.Registrant{
			Bib:       strings.TrimSpace(req.Bib),
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Wave:      wave,
			DOB:       dob,
			Gender:    model.ParseGender(req.Gender),
		}
		if err := h.deps.UpsertRegistrant(r.Context(), reg); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reg)
	default:
		http.NotFound(w, r)
	}
}

// HandleRegistrantByBib handles DELETE /registrants/{bib}.
func (h *RegistrantsHandler) HandleRegistrantByBib(w http.ResponseWriter, r *http.Request) {
	bib := strings.TrimPrefix(r.URL.Path, "/registrants/")
	if bib == "" || strings.Contains(bib, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet:
		reg, ok := h.deps.Registrant(r.Context(), bib)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		writeJSON(w, http.StatusOK, reg)
	case http.MethodDelete:
		if err := h.deps.DeleteRegistrant(r.Context(), bib); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"deleted": bib})
	default:
		http.NotFound(w, r)
	}
}

// HandleImport handles POST /registrants/import with a CSV body. The
// whole directory is replaced; the response carries the loaded count.
func (h *RegistrantsHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	loaded, err := h.deps.ImportRegistrants(r.Context(), r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"loaded": loaded})
}
