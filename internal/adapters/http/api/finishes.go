// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/paceline/internal/domain/model"
)

// FinishesHandler handles ledger requests.
type FinishesHandler struct {
	deps Dependencies
}

// NewFinishesHandler creates a new finishes handler.
func NewFinishesHandler(deps Dependencies) *FinishesHandler {
	return &FinishesHandler{deps: deps}
}

// recordRequest is the body of POST /finishes.
type recordRequest struct {
	Bib string `json:"bib"`
}

// editRequest is the body of PATCH /finishes/{id}.
type editRequest struct {
	Bib        string `json:"bib"`
	Wave       string `json:"wave"`
	FinishTime string `json:"finish_time"` // HH:MM:SS, date is preserved
}

// HandleFinishes handles GET (ledger view) and POST (record finish) on
// /finishes.
func (h *FinishesHandler) HandleFinishes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		entries := h.deps.Entries(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"entries": entryViews(entries, h.deps.Duplicates(r.Context())),
		})
	case http.MethodPost:
		var req recordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		entry, err := h.deps.RecordFinish(r.Context(), req.Bib)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	default:
		http.NotFound(w, r)
	}
}

// HandleUnknown handles POST /finishes/unknown: a rider crossed the
// line with no readable bib.
func (h *FinishesHandler) HandleUnknown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	entry, err := h.deps.RecordUnknown(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// HandleFinishByID handles PATCH (edit) and DELETE on /finishes/{id}.
// Deletion requires confirm=<entry bib> to match exactly; this guard is
// the presentation layer's, not the engine's.
func (h *FinishesHandler) HandleFinishByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/finishes/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var req editRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		wave, err := model.ParseWave(req.Wave)
		if err != nil || !wave.Valid() {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		entry, err := h.deps.EditEntry(r.Context(), id, req.Bib, wave, req.FinishTime)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entry)
	case http.MethodDelete:
		entry, ok := h.deps.Entry(r.Context(), id)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		if r.URL.Query().Get("confirm") != entry.Bib {
			writeError(w, http.StatusBadRequest, "confirmation_mismatch", ErrConfirmationMismatch)
			return
		}
		removed, err := h.deps.DeleteEntry(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, removed)
	default:
		http.NotFound(w, r)
	}
}
