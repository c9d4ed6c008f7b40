// Package reconcile contains the finish-time reconciliation engine:
// pure functions that combine a bib, a finish instant, the wave clock,
// and the registrant directory into consistent ledger entries, and that
// re-derive entries when any of those inputs change.
package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/paceline/internal/domain/model"
	"github.com/okian/paceline/internal/domain/roster"
)

// Placeholder identity for entries whose bib never resolved.
const (
	UnknownFirstName = "Unknown"
	UnknownLastName  = "Rider"

	// UnknownBibPrefix marks placeholder bibs synthesized at the line.
	UnknownBibPrefix = "UNK-"
)

// RecordFinish materializes a ledger entry for bib crossing the line at
// finishedAt. A bib missing from the directory is not an error: the
// entry is recorded with placeholder identity and no wave, to be fixed
// later via edit. The caller assigns the entry id; this function stays
// free of mutable state.
func RecordFinish(bib string, finishedAt time.Time, dir *roster.Directory, clock model.WaveClock) model.Entry {
	bib = strings.TrimSpace(bib)
	e := model.Entry{
		Bib:        bib,
		FirstName:  UnknownFirstName,
		LastName:   UnknownLastName,
		Wave:       model.WaveNone,
		FinishedAt: finishedAt,
		RecordedAt: finishedAt,
	}
	if r, ok := dir.Lookup(bib); ok {
		e.FirstName = r.FirstName
		e.LastName = r.LastName
		e.Wave = r.Wave
		e.SetElapsed(finishedAt.Sub(clock.Start(r.Wave)))
	}
	return e
}

// RecordUnknown materializes a placeholder entry for a rider whose bib
// cannot be determined at all. The synthesized bib is UNK-<n> where n
// counts the UNK- entries still present in the ledger, plus one; a
// deleted UNK-2 means the next unknown reuses the count, not the max
// suffix.
func RecordUnknown(finishedAt time.Time, ledger []model.Entry) model.Entry {
	n := 1
	for _, e := range ledger {
		if strings.HasPrefix(e.Bib, UnknownBibPrefix) {
			n++
		}
	}
	return model.Entry{
		Bib:        fmt.Sprintf("%s%d", UnknownBibPrefix, n),
		FirstName:  UnknownFirstName,
		LastName:   UnknownLastName,
		Wave:       model.WaveNone,
		FinishedAt: finishedAt,
		RecordedAt: finishedAt,
	}
}

// Edit re-derives an entry from a corrected bib, wave, and time-of-day.
// Identity is re-resolved from the directory; when the new bib does not
// resolve, the previous name snapshot is preserved rather than being
// overwritten with placeholders. timeOfDay replaces only the wall-clock
// time of the finish: the original finish instant's calendar date and
// location are kept, so a time edit can never roll the entry onto a
// different day. ID and RecordedAt are immutable.
func Edit(e model.Entry, newBib string, newWave model.Wave, timeOfDay string, dir *roster.Directory, clock model.WaveClock) (model.Entry, error) {
	newBib = strings.TrimSpace(newBib)
	if newBib == "" {
		return model.Entry{}, fmt.Errorf("%w: empty bib", ErrInvalidEdit)
	}
	if !newWave.Valid() {
		return model.Entry{}, fmt.Errorf("%w: wave %q", ErrInvalidEdit, newWave)
	}
	finishedAt, err := model.AtTimeOfDay(e.FinishedAt, timeOfDay)
	if err != nil {
		return model.Entry{}, fmt.Errorf("%w: %v", ErrInvalidEdit, err)
	}

	out := e
	out.Bib = newBib
	out.Wave = newWave
	out.FinishedAt = finishedAt
	if r, ok := dir.Lookup(newBib); ok {
		out.FirstName = r.FirstName
		out.LastName = r.LastName
	}
	out.SetElapsed(finishedAt.Sub(clock.Start(newWave)))
	return out, nil
}

// Retime replaces a wave's start instant and recomputes the elapsed
// duration of every entry belonging to that wave. All other entries are
// returned bit-identical. The rewritten clock and ledger are fresh
// values so the caller can swap them in atomically; the affected count
// is returned for operator feedback. A finish that now precedes the
// corrected start yields a negative elapsed duration, which is valid,
// displayed data.
func Retime(w model.Wave, newStart time.Time, clock model.WaveClock, ledger []model.Entry) (model.WaveClock, []model.Entry, int) {
	clock.SetStart(w, newStart)
	out := make([]model.Entry, len(ledger))
	affected := 0
	for i, e := range ledger {
		if e.Wave == w {
			e.SetElapsed(e.FinishedAt.Sub(newStart))
			affected++
		}
		out[i] = e
	}
	return clock, out, affected
}
