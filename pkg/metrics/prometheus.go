// Package metrics provides Prometheus metrics for the race timing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the timing service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Timing Metrics - the race-day operations that matter
	finishesRecorded  prometheus.Counter
	unknownFinishes   prometheus.Counter
	entriesEdited     prometheus.Counter
	entriesDeleted    prometheus.Counter
	waveRetimes       prometheus.Counter
	entriesRecomputed prometheus.Counter

	// State Metrics - session scale
	registrantCount prometheus.Gauge
	entryCount      prometheus.Gauge
	duplicateBibs   prometheus.Gauge

	// Persistence Metrics - snapshot health
	snapshotsSaved    prometheus.Counter
	persistenceErrors prometheus.Counter
	backupsWritten    prometheus.Counter
	snapshotDuration  prometheus.Histogram
	snapshotLastUnix  prometheus.Gauge

	// Clock Check Metrics
	clockChecks *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "paceline",
		subsystem:        "timing",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.finishesRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "finishes_recorded_total",
		Help:      "Total number of finish-line crossings recorded",
	})
	m.unknownFinishes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unknown_finishes_total",
		Help:      "Total number of placeholder (UNK-) finishes recorded",
	})
	m.entriesEdited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entries_edited_total",
		Help:      "Total number of ledger entry edits",
	})
	m.entriesDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entries_deleted_total",
		Help:      "Total number of confirmed ledger entry deletions",
	})
	m.waveRetimes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "wave_retimes_total",
		Help:      "Total number of wave start-time corrections",
	})
	m.entriesRecomputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entries_recomputed_total",
		Help:      "Total number of entries whose elapsed time was recomputed by a retime",
	})

	m.registrantCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registrants",
		Help:      "Current number of registrants in the directory",
	})
	m.entryCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entries",
		Help:      "Current number of ledger entries",
	})
	m.duplicateBibs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_bibs",
		Help:      "Current number of bibs appearing on more than one entry",
	})

	m.snapshotsSaved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_saved_total",
		Help:      "Total number of session snapshots persisted",
	})
	m.persistenceErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "persistence_errors_total",
		Help:      "Total number of snapshot persistence failures (in-memory state retained)",
	})
	m.backupsWritten = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "backups_written_total",
		Help:      "Total number of auto-backup files written",
	})
	m.snapshotDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_duration_milliseconds",
		Help:      "Histogram of snapshot persistence duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix_seconds",
		Help:      "Unix timestamp of the last successful snapshot",
	})

	m.clockChecks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "clock_checks_total",
			Help:      "Total number of clock-sanity checks by outcome",
		},
		[]string{"status"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the custom registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers against the global manager.

// RecordFinish counts one recorded finish.
func RecordFinish() { globalManager.finishesRecorded.Inc() }

// RecordUnknownFinish counts one placeholder finish.
func RecordUnknownFinish() { globalManager.unknownFinishes.Inc() }

// RecordEntryEdit counts one entry edit.
func RecordEntryEdit() { globalManager.entriesEdited.Inc() }

// RecordEntryDelete counts one confirmed deletion.
func RecordEntryDelete() { globalManager.entriesDeleted.Inc() }

// RecordWaveRetime counts one retime and the entries it touched.
func RecordWaveRetime(affected int) {
	globalManager.waveRetimes.Inc()
	globalManager.entriesRecomputed.Add(float64(affected))
}

// UpdateRegistrantCount sets the directory size gauge.
func UpdateRegistrantCount(n int) { globalManager.registrantCount.Set(float64(n)) }

// UpdateEntryCount sets the ledger size gauge.
func UpdateEntryCount(n int) { globalManager.entryCount.Set(float64(n)) }

// UpdateDuplicateBibs sets the flagged-duplicates gauge.
func UpdateDuplicateBibs(n int) { globalManager.duplicateBibs.Set(float64(n)) }

// RecordSnapshot counts a successful persist and its duration.
func RecordSnapshot(durationMs float64, atUnix int64) {
	globalManager.snapshotsSaved.Inc()
	globalManager.snapshotDuration.Observe(durationMs)
	globalManager.snapshotLastUnix.Set(float64(atUnix))
}

// RecordPersistenceError counts a failed persist.
func RecordPersistenceError() { globalManager.persistenceErrors.Inc() }

// RecordBackupWritten counts one auto-backup file.
func RecordBackupWritten() { globalManager.backupsWritten.Inc() }

// RecordClockCheck counts one clock check by outcome.
func RecordClockCheck(status string) {
	globalManager.clockChecks.WithLabelValues(status).Inc()
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}
