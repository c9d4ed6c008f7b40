// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/okian/paceline/internal/domain/model"
)

// WavesHandler handles wave clock requests.
type WavesHandler struct {
	deps Dependencies
}

// NewWavesHandler creates a new waves handler.
func NewWavesHandler(deps Dependencies) *WavesHandler {
	return &WavesHandler{deps: deps}
}

// retimeRequest is the body of PUT /waves/{wave}.
type retimeRequest struct {
	StartTime string `json:"start_time"` // HH:MM:SS on the race day
}

// waveView is one wave's status row.
type waveView struct {
	Wave      model.Wave `json:"wave"`
	StartsAt  time.Time  `json:"starts_at"`
	StartTime string     `json:"start_time"`
	Finishers int        `json:"finishers"`
}

// HandleWaves handles GET /waves.
func (h *WavesHandler) HandleWaves(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	clock := h.deps.Clock(r.Context())
	views := make([]waveView, 0, 3)
	for _, wave := range model.Waves() {
		views = append(views, waveView{
			Wave:      wave,
			StartsAt:  clock.Start(wave),
			StartTime: model.TimeOfDay(clock.Start(wave)),
			Finishers: len(h.deps.ByWave(r.Context(), wave)),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"waves": views})
}

// HandleRetime handles PUT /waves/{wave}: correct a wave's start time
// and fan out the recompute. The response reports how many entries
// were recalculated.
func (h *WavesHandler) HandleRetime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.NotFound(w, r)
		return
	}
	waveStr := strings.TrimPrefix(r.URL.Path, "/waves/")
	wave, err := model.ParseWave(waveStr)
	if err != nil || !wave.Valid() {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	var req retimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	affected, err := h.deps.RetimeWave(r.Context(), wave, req.StartTime)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"wave":     wave,
		"affected": affected,
	})
}
