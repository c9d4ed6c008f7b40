package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewManagerWithCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithRegistry(reg),
		WithNamespace("test"),
		WithSubsystem("timing"),
	)

	m.finishesRecorded.Inc()
	m.finishesRecorded.Inc()
	if got := testutil.ToFloat64(m.finishesRecorded); got != 2 {
		t.Errorf("expected 2 finishes recorded, got %v", got)
	}

	m.registrantCount.Set(42)
	if got := testutil.ToFloat64(m.registrantCount); got != 42 {
		t.Errorf("expected registrant gauge 42, got %v", got)
	}

	m.clockChecks.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(m.clockChecks.WithLabelValues("ok")); got != 1 {
		t.Errorf("expected 1 ok clock check, got %v", got)
	}

	names, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
	if len(names) == 0 {
		t.Error("expected metrics registered on the custom registry")
	}
}

func TestPackageHelpers(t *testing.T) {
	before := testutil.ToFloat64(globalManager.finishesRecorded)
	RecordFinish()
	if got := testutil.ToFloat64(globalManager.finishesRecorded); got != before+1 {
		t.Errorf("expected finishes to increment, got %v", got)
	}

	retimesBefore := testutil.ToFloat64(globalManager.waveRetimes)
	recomputedBefore := testutil.ToFloat64(globalManager.entriesRecomputed)
	RecordWaveRetime(7)
	if got := testutil.ToFloat64(globalManager.waveRetimes); got != retimesBefore+1 {
		t.Errorf("expected one retime, got %v", got)
	}
	if got := testutil.ToFloat64(globalManager.entriesRecomputed); got != recomputedBefore+7 {
		t.Errorf("expected 7 recomputed entries, got %v", got)
	}

	UpdateEntryCount(13)
	if got := testutil.ToFloat64(globalManager.entryCount); got != 13 {
		t.Errorf("expected entry gauge 13, got %v", got)
	}

	RecordClockCheck("unknown")
	RecordHTTPRequest("finishes", "POST", "201")
	RecordHTTPRequestDuration("finishes", "POST", "201", 3.5)
	RecordSnapshot(1.2, 1750000000)
	RecordPersistenceError()
	RecordBackupWritten()
}

func TestGetRegistry(t *testing.T) {
	if GetRegistry() == nil {
		t.Fatal("expected a registry")
	}
	if _, err := GetRegistry().Gather(); err != nil {
		t.Errorf("failed to gather from global registry: %v", err)
	}
}
