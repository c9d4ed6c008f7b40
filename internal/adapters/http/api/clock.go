// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/paceline/pkg/metrics"
)

// ClockHandler handles local clock verification requests.
type ClockHandler struct {
	checker ClockChecker
}

// NewClockHandler creates a new clock check handler.
func NewClockHandler(checker ClockChecker) *ClockHandler {
	return &ClockHandler{checker: checker}
}

// HandleCheck handles GET /clockcheck. The check never fails the
// request: an unreachable time service reports status "unknown".
func (h *ClockHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	res := h.checker.Check(r.Context())
	metrics.RecordClockCheck(string(res.Status))
	writeJSON(w, http.StatusOK, res)
}
