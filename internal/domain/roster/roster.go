// Package roster maintains the registrant directory keyed by bib.
package roster

import (
	"sort"
	"strings"

	"github.com/okian/paceline/internal/domain/model"
)

// Directory maps bib numbers to registrants. Insertion order carries no
// meaning; views are bib-sorted for determinism. The directory never
// owns ledger entries: deleting a registrant only breaks the name/wave
// snapshot already copied into them.
type Directory struct {
	byBib map[string]model.Registrant
}

// New returns an empty directory.
func New() *Directory {
	return &Directory{byBib: make(map[string]model.Registrant)}
}

// Upsert inserts or replaces the registrant under its bib. Empty bibs
// are ignored.
func (d *Directory) Upsert(r model.Registrant) {
	r.Bib = strings.TrimSpace(r.Bib)
	if r.Bib == "" {
		return
	}
	d.byBib[r.Bib] = r
}

// Lookup returns the registrant for bib, if any.
func (d *Directory) Lookup(bib string) (model.Registrant, bool) {
	r, ok := d.byBib[strings.TrimSpace(bib)]
	return r, ok
}

// Remove deletes the registrant under bib. Existing ledger entries are
// untouched by design.
func (d *Directory) Remove(bib string) bool {
	bib = strings.TrimSpace(bib)
	if _, ok := d.byBib[bib]; !ok {
		return false
	}
	delete(d.byBib, bib)
	return true
}

// Rename moves a registrant to a new bib: delete-old-key plus
// insert-new-key, the canonical model for bib reassignment. It fails
// when the old bib is missing or the new bib is already taken.
func (d *Directory) Rename(oldBib, newBib string) bool {
	oldBib = strings.TrimSpace(oldBib)
	newBib = strings.TrimSpace(newBib)
	if newBib == "" || oldBib == newBib {
		return false
	}
	r, ok := d.byBib[oldBib]
	if !ok {
		return false
	}
	if _, taken := d.byBib[newBib]; taken {
		return false
	}
	delete(d.byBib, oldBib)
	r.Bib = newBib
	d.byBib[newBib] = r
	return true
}

// Len returns the number of registrants.
func (d *Directory) Len() int { return len(d.byBib) }

// All returns every registrant sorted by bib.
func (d *Directory) All() []model.Registrant {
	out := make([]model.Registrant, 0, len(d.byBib))
	for _, r := range d.byBib {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bib < out[j].Bib })
	return out
}

// WaveCounts returns the number of registrants per wave.
func (d *Directory) WaveCounts() map[model.Wave]int {
	counts := make(map[model.Wave]int, 3)
	for _, w := range model.Waves() {
		counts[w] = 0
	}
	for _, r := range d.byBib {
		counts[r.Wave]++
	}
	return counts
}

// Pairs returns the persisted (bib, registrant) representation, sorted
// by bib.
func (d *Directory) Pairs() []model.RegistrantPair {
	all := d.All()
	out := make([]model.RegistrantPair, 0, len(all))
	for _, r := range all {
		out = append(out, model.RegistrantPair{Bib: r.Bib, Registrant: r})
	}
	return out
}

// FromPairs rebuilds a directory from its persisted representation.
func FromPairs(pairs []model.RegistrantPair) *Directory {
	d := New()
	for _, p := range pairs {
		r := p.Registrant
		if r.Bib == "" {
			r.Bib = p.Bib
		}
		d.Upsert(r)
	}
	return d
}

// Clone returns an independent copy of the directory.
func (d *Directory) Clone() *Directory {
	c := New()
	for bib, r := range d.byBib {
		c.byBib[bib] = r
	}
	return c
}
