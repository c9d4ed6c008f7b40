// Package api declares HTTP contracts and route registration helpers.
// This is the presentation layer's contract with the session: it parses
// operator input, enforces the typed-confirmation guards on destructive
// operations, and renders engine output. Core operations themselves are
// unconditional once invoked.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/paceline/internal/adapters/export"
	"github.com/okian/paceline/internal/adapters/timecheck"
	"github.com/okian/paceline/internal/app"
	"github.com/okian/paceline/internal/domain/model"
	"github.com/okian/paceline/internal/domain/ranking"
	"github.com/okian/paceline/internal/domain/reconcile"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the session implementation.
type Dependencies interface {
	// Timing operations
	RecordFinish(ctx context.Context, bib string) (model.Entry, error)
	RecordUnknown(ctx context.Context) (model.Entry, error)
	EditEntry(ctx context.Context, id int64, bib string, wave model.Wave, timeOfDay string) (model.Entry, error)
	DeleteEntry(ctx context.Context, id int64) (model.Entry, error)
	RetimeWave(ctx context.Context, w model.Wave, timeOfDay string) (int, error)

	// Registration operations
	UpsertRegistrant(ctx context.Context, r model.Registrant) error
	DeleteRegistrant(ctx context.Context, bib string) error
	ImportRegistrants(ctx context.Context, r io.Reader) (int, error)

	// Views
	Entry(ctx context.Context, id int64) (model.Entry, bool)
	Entries(ctx context.Context) []model.Entry
	Registrant(ctx context.Context, bib string) (model.Registrant, bool)
	Registrants(ctx context.Context) []model.Registrant
	RegistrantWaveCounts(ctx context.Context) map[model.Wave]int
	Clock(ctx context.Context) model.WaveClock
	Overall(ctx context.Context) []model.Entry
	Unassigned(ctx context.Context) []model.Entry
	ByWave(ctx context.Context, w model.Wave) []model.Entry
	Leaderboard(ctx context.Context, gender model.Gender, category ranking.AgeCategory, n int) []model.Entry
	Duplicates(ctx context.Context) map[string]int
	WriteResultsCSV(ctx context.Context, w io.Writer) (int, error)

	// Backup and reset
	ExportBackup(ctx context.Context) *export.Backup
	RestoreBackup(ctx context.Context, b *export.Backup) error
	HasData(ctx context.Context) bool
	Reset(ctx context.Context) error
}

// ClockChecker verifies the local clock against a public time service.
type ClockChecker interface {
	Check(ctx context.Context) timecheck.Result
}

// Server wires HTTP routes for the timing API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	registrantsHandler *RegistrantsHandler
	finishesHandler    *FinishesHandler
	wavesHandler       *WavesHandler
	resultsHandler     *ResultsHandler
	backupHandler      *BackupHandler
	clockHandler       *ClockHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps
// the limit parameter of category leaderboard views.
func NewServer(deps Dependencies, statsProvider StatsProvider, checker ClockChecker, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		registrantsHandler: NewRegistrantsHandler(deps),
		finishesHandler:    NewFinishesHandler(deps),
		wavesHandler:       NewWavesHandler(deps),
		resultsHandler:     NewResultsHandler(deps, maxLimit),
		backupHandler:      NewBackupHandler(deps),
		clockHandler:       NewClockHandler(checker),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	_ = ctx
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/registrants", MetricsMiddleware(s.registrantsHandler.HandleRegistrants, "registrants"))
	mux.HandleFunc("/registrants/", MetricsMiddleware(s.registrantsHandler.HandleRegistrantByBib, "registrant"))
	mux.HandleFunc("/registrants/import", MetricsMiddleware(s.registrantsHandler.HandleImport, "registrants_import"))
	mux.HandleFunc("/finishes", MetricsMiddleware(s.finishesHandler.HandleFinishes, "finishes"))
	mux.HandleFunc("/finishes/unknown", MetricsMiddleware(s.finishesHandler.HandleUnknown, "finishes_unknown"))
	mux.HandleFunc("/finishes/", MetricsMiddleware(s.finishesHandler.HandleFinishByID, "finish"))
	mux.HandleFunc("/waves", MetricsMiddleware(s.wavesHandler.HandleWaves, "waves"))
	mux.HandleFunc("/waves/", MetricsMiddleware(s.wavesHandler.HandleRetime, "wave_retime"))
	mux.HandleFunc("/results/overall", MetricsMiddleware(s.resultsHandler.HandleOverall, "results_overall"))
	mux.HandleFunc("/results/wave/", MetricsMiddleware(s.resultsHandler.HandleByWave, "results_wave"))
	mux.HandleFunc("/results/categories", MetricsMiddleware(s.resultsHandler.HandleCategories, "results_categories"))
	mux.HandleFunc("/results/duplicates", MetricsMiddleware(s.resultsHandler.HandleDuplicates, "results_duplicates"))
	mux.HandleFunc("/results/export", MetricsMiddleware(s.resultsHandler.HandleExportCSV, "results_export"))
	mux.HandleFunc("/backup", MetricsMiddleware(s.backupHandler.HandleExport, "backup_export"))
	mux.HandleFunc("/backup/restore", MetricsMiddleware(s.backupHandler.HandleRestore, "backup_restore"))
	mux.HandleFunc("/reset", MetricsMiddleware(s.backupHandler.HandleReset, "reset"))
	mux.HandleFunc("/clockcheck", MetricsMiddleware(s.clockHandler.HandleCheck, "clockcheck"))
}

// entryView augments a ledger entry with display fields.
type entryView struct {
	model.Entry
	ElapsedDisplay string `json:"elapsed_display"`
	Duplicate      bool   `json:"duplicate,omitempty"`
}

// entryViews renders entries, flagging bibs that appear more than once
// in the full ledger.
func entryViews(entries []model.Entry, dupes map[string]int) []entryView {
	out := make([]entryView, len(entries))
	for i, e := range entries {
		out[i] = entryView{
			Entry:          e,
			ElapsedDisplay: e.FormatElapsed(),
			Duplicate:      dupes[e.Bib] > 1,
		}
	}
	return out
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates session errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrEntryNotFound), errors.Is(err, app.ErrRegistrantNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, app.ErrEmptyBib), errors.Is(err, app.ErrInvalidInput),
		errors.Is(err, app.ErrBibTaken), errors.Is(err, reconcile.ErrInvalidEdit):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
