// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/paceline/internal/domain/model"
	"github.com/okian/paceline/internal/domain/ranking"
)

// Default number of rows in a category leaderboard.
const defaultLeaderboardLimit = 10

// ResultsHandler handles ranking and export requests.
type ResultsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies, maxLimit int) *ResultsHandler {
	return &ResultsHandler{deps: deps, maxLimit: maxLimit}
}

// placedView adds the 1-based placement to an entry view.
type placedView struct {
	Place int `json:"place"`
	entryView
}

func placedViews(entries []model.Entry, dupes map[string]int) []placedView {
	views := entryViews(entries, dupes)
	out := make([]placedView, len(views))
	for i, v := range views {
		out[i] = placedView{Place: i + 1, entryView: v}
	}
	return out
}

// HandleOverall handles GET /results/overall. Unassigned entries are
// reported separately and never interleaved or placed.
func (h *ResultsHandler) HandleOverall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	dupes := h.deps.Duplicates(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"placed":     placedViews(h.deps.Overall(r.Context()), dupes),
		"unassigned": entryViews(h.deps.Unassigned(r.Context()), dupes),
	})
}

// HandleByWave handles GET /results/wave/{wave}.
func (h *ResultsHandler) HandleByWave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	waveStr := strings.TrimPrefix(r.URL.Path, "/results/wave/")
	wave, err := model.ParseWave(waveStr)
	if err != nil || !wave.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	dupes := h.deps.Duplicates(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"wave":   wave,
		"placed": placedViews(h.deps.ByWave(r.Context(), wave), dupes),
	})
}

// HandleCategories handles GET /results/categories?gender=&category=&limit=.
// Omitting a filter means no filter on that axis.
func (h *ResultsHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	gender := model.GenderNone
	if g := q.Get("gender"); g != "" {
		gender = model.ParseGender(g)
		if gender == model.GenderNone {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: gender %q", ErrBadRequest, g))
			return
		}
	}
	category := ranking.CategoryNone
	if c := q.Get("category"); c != "" {
		category = ranking.ParseCategory(c)
		if category == ranking.CategoryNone {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: category %q", ErrBadRequest, c))
			return
		}
	}
	limit := defaultLeaderboardLimit
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
			return
		}
		limit = n
	}

	entries := h.deps.Leaderboard(r.Context(), gender, category, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"gender":   gender,
		"category": category,
		"placed":   placedViews(entries, h.deps.Duplicates(r.Context())),
	})
}

// HandleDuplicates handles GET /results/duplicates.
func (h *ResultsHandler) HandleDuplicates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"duplicates": h.deps.Duplicates(r.Context())})
}

// HandleExportCSV handles GET /results/export: the downloadable results
// sheet.
func (h *ResultsHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	filename := fmt.Sprintf("results-%s.csv", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := h.deps.WriteResultsCSV(r.Context(), w); err != nil {
		// Headers are already out; the truncated body is the best we can do.
		return
	}
}
