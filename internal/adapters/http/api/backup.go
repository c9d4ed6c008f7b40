// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"

	"github.com/okian/paceline/internal/adapters/export"
)

// Confirmation text required to wipe the race state.
const resetConfirmation = "RESET"

// BackupHandler handles backup export, restore, and reset requests.
type BackupHandler struct {
	deps Dependencies
}

// NewBackupHandler creates a new backup handler.
func NewBackupHandler(deps Dependencies) *BackupHandler {
	return &BackupHandler{deps: deps}
}

// HandleExport handles GET /backup: a downloadable snapshot of the
// whole race state.
func (h *BackupHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	b := h.deps.ExportBackup(r.Context())
	filename := fmt.Sprintf("backup-%s.json", b.ExportDate.Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteBackup(w, b); err != nil {
		return
	}
}

// HandleRestore handles POST /backup/restore. When the session already
// holds data, confirm=overwrite must be present; restoring into an
// empty session needs no confirmation.
func (h *BackupHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if h.deps.HasData(r.Context()) && r.URL.Query().Get("confirm") != "overwrite" {
		writeError(w, http.StatusBadRequest, "confirmation_mismatch", ErrConfirmationMismatch)
		return
	}
	b, err := export.ReadBackup(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := h.deps.RestoreBackup(r.Context(), b); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"restored":  true,
		"export_id": b.ExportID,
		"entries":   len(b.Entries),
	})
}

// HandleReset handles POST /reset?confirm=RESET. The confirmation text
// must match exactly; the engine reset itself is unconditional.
func (h *BackupHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if r.URL.Query().Get("confirm") != resetConfirmation {
		writeError(w, http.StatusBadRequest, "confirmation_mismatch", ErrConfirmationMismatch)
		return
	}
	if err := h.deps.Reset(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
