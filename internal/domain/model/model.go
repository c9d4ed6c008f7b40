// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Wave identifies one of the three start groups.
type Wave string

// Start waves. WaveNone marks a ledger entry whose bib never resolved
// to a registrant.
const (
	WaveNone Wave = ""
	WaveA    Wave = "A"
	WaveB    Wave = "B"
	WaveC    Wave = "C"
)

// Waves returns the start groups in start order.
func Waves() []Wave { return []Wave{WaveA, WaveB, WaveC} }

// ParseWave normalizes a wave label. The empty string maps to WaveNone.
func ParseWave(s string) (Wave, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return WaveNone, nil
	case "A":
		return WaveA, nil
	case "B":
		return WaveB, nil
	case "C":
		return WaveC, nil
	default:
		return WaveNone, fmt.Errorf("unknown wave %q", s)
	}
}

// Valid reports whether w is one of the three start groups.
func (w Wave) Valid() bool { return w == WaveA || w == WaveB || w == WaveC }

// Gender is the registrant's self-reported gender.
type Gender string

// Gender values. GenderNone matches the "n/a" column of the
// registration sheet.
const (
	GenderNone   Gender = "n/a"
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender normalizes a gender label; anything unrecognized becomes
// GenderNone, mirroring how registration sheets arrive in practice.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	default:
		return GenderNone
	}
}

// DOBLayout is the calendar-date format used for dates of birth.
const DOBLayout = "2006-01-02"

// Registrant is one rider in the directory, keyed by bib.
type Registrant struct {
	Bib       string `json:"bib"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Wave      Wave   `json:"wave"`
	DOB       string `json:"dob"` // YYYY-MM-DD
	Gender    Gender `json:"gender"`
}

// BirthDate parses the registrant's date of birth.
func (r Registrant) BirthDate() (time.Time, error) {
	t, err := time.Parse(DOBLayout, r.DOB)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid dob %q: %w", r.DOB, err)
	}
	return t, nil
}

// Entry is one recorded finish-line crossing. Identity fields are a
// snapshot taken at record time and may diverge from the directory.
// ElapsedMs is nil exactly when Wave is WaveNone; negative values are
// valid after a wave retime and are displayed, not rejected.
type Entry struct {
	ID         int64     `json:"id"`
	Bib        string    `json:"bib"`
	Wave       Wave      `json:"wave"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FinishedAt time.Time `json:"finished_at"`
	ElapsedMs  *int64    `json:"elapsed_ms"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Elapsed returns the elapsed duration and whether one is set.
func (e Entry) Elapsed() (time.Duration, bool) {
	if e.ElapsedMs == nil {
		return 0, false
	}
	return time.Duration(*e.ElapsedMs) * time.Millisecond, true
}

// SetElapsed stores d with millisecond precision.
func (e *Entry) SetElapsed(d time.Duration) {
	ms := d.Milliseconds()
	e.ElapsedMs = &ms
}

// ClearElapsed removes the elapsed duration.
func (e *Entry) ClearElapsed() { e.ElapsedMs = nil }

// FormatElapsed renders the elapsed duration as H:MM:SS, or "N/A" when
// the entry has no wave. A leading minus marks a finish that precedes
// its wave's (possibly corrected) start.
func (e Entry) FormatElapsed() string {
	d, ok := e.Elapsed()
	if !ok {
		return "N/A"
	}
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%s%d:%02d:%02d", sign, total/3600, (total%3600)/60, total%60)
}

// WaveClock holds the start instant of each wave. All three are defined
// once a race begins; each is independently editable mid-race.
type WaveClock struct {
	A time.Time `json:"A"`
	B time.Time `json:"B"`
	C time.Time `json:"C"`
}

// Start returns the start instant of w. Asking for WaveNone yields the
// zero time; callers guard with Wave.Valid.
func (c WaveClock) Start(w Wave) time.Time {
	switch w {
	case WaveA:
		return c.A
	case WaveB:
		return c.B
	case WaveC:
		return c.C
	default:
		return time.Time{}
	}
}

// SetStart replaces the start instant of w.
func (c *WaveClock) SetStart(w Wave, t time.Time) {
	switch w {
	case WaveA:
		c.A = t
	case WaveB:
		c.B = t
	case WaveC:
		c.C = t
	}
}

// RegistrantPair preserves the (bib, registrant) shape of the persisted
// directory.
type RegistrantPair struct {
	Bib        string     `json:"bib"`
	Registrant Registrant `json:"registrant"`
}

// Snapshot is the single persisted record of a timing session. Load
// replaces, never merges.
type Snapshot struct {
	WaveStarts   WaveClock        `json:"wave_start_times"`
	Registrants  []RegistrantPair `json:"registrants"`
	Entries      []Entry          `json:"entries"`
	EntryCounter int64            `json:"entry_counter"`
	LastSaved    time.Time        `json:"last_saved"`
}

// TimeOfDayLayout is the wall-clock format used for wave start edits
// and the setup config.
const TimeOfDayLayout = "15:04:05"

// SetupConfig remembers the last-used wave start times-of-day so a new
// race on a new calendar day can default sensibly.
type SetupConfig struct {
	WaveATime   string    `json:"wave_a_time"` // HH:MM:SS
	WaveBTime   string    `json:"wave_b_time"`
	WaveCTime   string    `json:"wave_c_time"`
	LastUpdated time.Time `json:"last_updated"`
}

// AtTimeOfDay combines day's calendar date with a HH:MM:SS wall-clock
// time in day's location.
func AtTimeOfDay(day time.Time, timeOfDay string) (time.Time, error) {
	tod, err := time.Parse(TimeOfDayLayout, timeOfDay)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q: %w", timeOfDay, err)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), 0, day.Location()), nil
}

// TimeOfDay renders t's wall-clock time as HH:MM:SS.
func TimeOfDay(t time.Time) string { return t.Format(TimeOfDayLayout) }
