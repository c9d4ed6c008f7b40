// Package ranking derives placements and category leaderboards from the
// current ledger and directory. Everything here is a pure, stateless
// transformation recomputed on demand; no rank is ever stored on an
// entry.
package ranking

import (
	"sort"

	"github.com/okian/paceline/internal/domain/model"
)

// byElapsed stable-sorts a copy of entries ascending by elapsed
// duration. Ties keep ledger order, so repeated calls on an unchanged
// ledger never reorder equal finishers.
func byElapsed(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].ElapsedMs < *out[j].ElapsedMs
	})
	return out
}

// Overall returns the ranked sequence of placed entries: every entry
// with a wave, elapsed-ascending. Overall placement is the 1-based
// index. Wave-less entries never appear here; see Unassigned.
func Overall(entries []model.Entry) []model.Entry {
	placed := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Wave.Valid() && e.ElapsedMs != nil {
			placed = append(placed, e)
		}
	}
	return byElapsed(placed)
}

// Unassigned returns the entries with no wave, in ledger order. They
// are reported separately and never given a placement number.
func Unassigned(entries []model.Entry) []model.Entry {
	out := make([]model.Entry, 0)
	for _, e := range entries {
		if !e.Wave.Valid() {
			out = append(out, e)
		}
	}
	return out
}

// ByWave returns the ranked sequence restricted to one wave. Wave
// placement is the 1-based index into this sequence, recomputed fresh
// on every call.
func ByWave(entries []model.Entry, w model.Wave) []model.Entry {
	subset := make([]model.Entry, 0)
	for _, e := range entries {
		if e.Wave == w && e.ElapsedMs != nil {
			subset = append(subset, e)
		}
	}
	return byElapsed(subset)
}

// WavePlace returns the 1-based placement of entry id within its own
// wave's ranked subset, or 0 when the entry is not placed.
func WavePlace(entries []model.Entry, w model.Wave, id int64) int {
	for i, e := range ByWave(entries, w) {
		if e.ID == id {
			return i + 1
		}
	}
	return 0
}

// TopN returns the first n placed entries of an already-ranked
// sequence.
func TopN(ranked []model.Entry, n int) []model.Entry {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// DuplicateBibs returns the bibs appearing on more than one ledger
// entry, with their occurrence counts. Re-scans and timing mistakes
// produce these in real races; they are flagged, never merged or
// blocked.
func DuplicateBibs(entries []model.Entry) map[string]int {
	counts := make(map[string]int, len(entries))
	for _, e := range entries {
		counts[e.Bib]++
	}
	dupes := make(map[string]int)
	for bib, n := range counts {
		if n > 1 {
			dupes[bib] = n
		}
	}
	return dupes
}
