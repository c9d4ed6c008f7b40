package reconcile_test

import (
	"testing"
	"time"

	model "github.com/okian/paceline/internal/domain/model"
	reconcile "github.com/okian/paceline/internal/domain/reconcile"
	roster "github.com/okian/paceline/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func raceDay() (time.Time, model.WaveClock) {
	day := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	clock := model.WaveClock{
		A: day.Add(9 * time.Hour),
		B: day.Add(9*time.Hour + 15*time.Minute),
		C: day.Add(9*time.Hour + 30*time.Minute),
	}
	return day, clock
}

func TestRecordFinish(t *testing.T) {
	Convey("Given a directory and a running wave clock", t, func() {
		day, clock := raceDay()
		dir := roster.New()
		dir.Upsert(model.Registrant{Bib: "101", FirstName: "Maya", LastName: "Chen", Wave: model.WaveB, DOB: "1990-01-01", Gender: model.GenderFemale})

		Convey("When a registered bib crosses the line", func() {
			finish := day.Add(9*time.Hour + 17*time.Minute + 5*time.Second)
			e := reconcile.RecordFinish("101", finish, dir, clock)

			Convey("Then identity and wave are copied from the directory", func() {
				So(e.Bib, ShouldEqual, "101")
				So(e.FirstName, ShouldEqual, "Maya")
				So(e.LastName, ShouldEqual, "Chen")
				So(e.Wave, ShouldEqual, model.WaveB)
			})

			Convey("Then elapsed is finish minus the wave start", func() {
				d, ok := e.Elapsed()
				So(ok, ShouldBeTrue)
				So(d, ShouldEqual, 125*time.Second)
				So(e.FormatElapsed(), ShouldEqual, "0:02:05")
			})
		})

		Convey("When the bib is not in the directory", func() {
			finish := day.Add(10 * time.Hour)
			e := reconcile.RecordFinish("999", finish, dir, clock)

			Convey("Then the entry is recorded with placeholder identity, not rejected", func() {
				So(e.Bib, ShouldEqual, "999")
				So(e.FirstName, ShouldEqual, reconcile.UnknownFirstName)
				So(e.LastName, ShouldEqual, reconcile.UnknownLastName)
			})

			Convey("Then it has no wave and no elapsed", func() {
				So(e.Wave, ShouldEqual, model.WaveNone)
				So(e.ElapsedMs, ShouldBeNil)
				So(e.FormatElapsed(), ShouldEqual, "N/A")
			})
		})

		Convey("When the bib carries surrounding whitespace", func() {
			finish := day.Add(10 * time.Hour)
			e := reconcile.RecordFinish("  101 ", finish, dir, clock)

			Convey("Then it still resolves", func() {
				So(e.Bib, ShouldEqual, "101")
				So(e.Wave, ShouldEqual, model.WaveB)
			})
		})
	})
}

func TestRecordUnknown(t *testing.T) {
	Convey("Given an empty ledger", t, func() {
		day, _ := raceDay()
		ledger := []model.Entry{}

		Convey("When unknown riders cross in sequence", func() {
			e1 := reconcile.RecordUnknown(day.Add(10*time.Hour), ledger)
			ledger = append(ledger, e1)
			e2 := reconcile.RecordUnknown(day.Add(10*time.Hour+time.Minute), ledger)
			ledger = append(ledger, e2)
			e3 := reconcile.RecordUnknown(day.Add(10*time.Hour+2*time.Minute), ledger)

			Convey("Then placeholder bibs count up", func() {
				So(e1.Bib, ShouldEqual, "UNK-1")
				So(e2.Bib, ShouldEqual, "UNK-2")
				So(e3.Bib, ShouldEqual, "UNK-3")
			})
		})

		Convey("When a placeholder entry was deleted", func() {
			ledger = append(ledger, reconcile.RecordUnknown(day.Add(10*time.Hour), ledger))
			ledger = append(ledger, reconcile.RecordUnknown(day.Add(10*time.Hour+time.Minute), ledger))
			// drop UNK-1; only UNK-2 remains
			ledger = ledger[1:]
			next := reconcile.RecordUnknown(day.Add(10*time.Hour+2*time.Minute), ledger)

			Convey("Then the suffix follows the live count, not the max", func() {
				So(next.Bib, ShouldEqual, "UNK-2")
			})
		})

		Convey("Then placeholder entries have no wave and no elapsed", func() {
			e := reconcile.RecordUnknown(day.Add(10*time.Hour), ledger)
			So(e.Wave, ShouldEqual, model.WaveNone)
			So(e.ElapsedMs, ShouldBeNil)
			So(e.FirstName, ShouldEqual, reconcile.UnknownFirstName)
			So(e.LastName, ShouldEqual, reconcile.UnknownLastName)
		})
	})
}

func TestEdit(t *testing.T) {
	Convey("Given a placeholder entry awaiting correction", t, func() {
		day, clock := raceDay()
		dir := roster.New()
		dir.Upsert(model.Registrant{Bib: "202", FirstName: "Owen", LastName: "Silva", Wave: model.WaveC, DOB: "1975-03-02", Gender: model.GenderMale})

		entry := reconcile.RecordUnknown(day.Add(10*time.Hour+30*time.Second), nil)
		entry.ID = 7

		Convey("When edited to a registered bib", func() {
			got, err := reconcile.Edit(entry, "202", model.WaveC, "10:00:30", dir, clock)
			So(err, ShouldBeNil)

			Convey("Then identity is re-resolved from the directory", func() {
				So(got.Bib, ShouldEqual, "202")
				So(got.FirstName, ShouldEqual, "Owen")
				So(got.LastName, ShouldEqual, "Silva")
				So(got.Wave, ShouldEqual, model.WaveC)
			})

			Convey("Then elapsed is derived against the assigned wave", func() {
				d, ok := got.Elapsed()
				So(ok, ShouldBeTrue)
				So(d, ShouldEqual, 30*time.Minute+30*time.Second)
			})

			Convey("Then ID and RecordedAt are untouched", func() {
				So(got.ID, ShouldEqual, entry.ID)
				So(got.RecordedAt, ShouldEqual, entry.RecordedAt)
			})
		})

		Convey("When edited to an unregistered bib", func() {
			entry.FirstName = "Maya"
			entry.LastName = "Chen"
			got, err := reconcile.Edit(entry, "888", model.WaveA, "10:00:30", dir, clock)
			So(err, ShouldBeNil)

			Convey("Then the previous name snapshot is preserved", func() {
				So(got.Bib, ShouldEqual, "888")
				So(got.FirstName, ShouldEqual, "Maya")
				So(got.LastName, ShouldEqual, "Chen")
			})

			Convey("And the entry still gets the assigned wave and an elapsed", func() {
				So(got.Wave, ShouldEqual, model.WaveA)
				So(got.ElapsedMs, ShouldNotBeNil)
			})
		})

		Convey("When the new finish time precedes the wave start", func() {
			got, err := reconcile.Edit(entry, "202", model.WaveC, "09:29:00", dir, clock)
			So(err, ShouldBeNil)

			Convey("Then the negative elapsed is kept and displayed", func() {
				d, ok := got.Elapsed()
				So(ok, ShouldBeTrue)
				So(d, ShouldEqual, -time.Minute)
				So(got.FormatElapsed(), ShouldEqual, "-0:01:00")
			})
		})

		Convey("When the edit crosses no calendar day", func() {
			got, err := reconcile.Edit(entry, "202", model.WaveC, "23:59:59", dir, clock)
			So(err, ShouldBeNil)

			Convey("Then the original date is preserved", func() {
				So(got.FinishedAt.Day(), ShouldEqual, entry.FinishedAt.Day())
				So(got.FinishedAt.Month(), ShouldEqual, entry.FinishedAt.Month())
			})
		})

		Convey("When the edit is invalid", func() {
			Convey("Then an empty bib is rejected", func() {
				_, err := reconcile.Edit(entry, "  ", model.WaveA, "10:00:30", dir, clock)
				So(err, ShouldNotBeNil)
			})

			Convey("Then a missing wave is rejected", func() {
				_, err := reconcile.Edit(entry, "202", model.WaveNone, "10:00:30", dir, clock)
				So(err, ShouldNotBeNil)
			})

			Convey("Then a malformed time of day is rejected", func() {
				_, err := reconcile.Edit(entry, "202", model.WaveA, "10am", dir, clock)
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRetime(t *testing.T) {
	Convey("Given a ledger with finishers across waves", t, func() {
		day, clock := raceDay()
		dir := roster.New()
		dir.Upsert(model.Registrant{Bib: "1", FirstName: "A", LastName: "One", Wave: model.WaveA, DOB: "1990-01-01"})
		dir.Upsert(model.Registrant{Bib: "2", FirstName: "B", LastName: "Two", Wave: model.WaveB, DOB: "1990-01-01"})
		dir.Upsert(model.Registrant{Bib: "3", FirstName: "C", LastName: "Three", Wave: model.WaveA, DOB: "1990-01-01"})

		ledger := []model.Entry{
			reconcile.RecordFinish("1", day.Add(9*time.Hour+40*time.Minute), dir, clock),
			reconcile.RecordFinish("2", day.Add(9*time.Hour+50*time.Minute), dir, clock),
			reconcile.RecordFinish("3", day.Add(9*time.Hour+45*time.Minute), dir, clock),
			reconcile.RecordUnknown(day.Add(9*time.Hour+55*time.Minute), nil),
		}

		Convey("When wave A's start is corrected forward by five minutes", func() {
			newStart := day.Add(9*time.Hour + 5*time.Minute)
			newClock, newLedger, affected := reconcile.Retime(model.WaveA, newStart, clock, ledger)

			Convey("Then only wave A entries are recomputed", func() {
				So(affected, ShouldEqual, 2)
				dA, _ := newLedger[0].Elapsed()
				So(dA, ShouldEqual, 35*time.Minute)
				dC, _ := newLedger[2].Elapsed()
				So(dC, ShouldEqual, 40*time.Minute)
			})

			Convey("Then other waves and placeholders are bit-identical", func() {
				So(newLedger[1], ShouldResemble, ledger[1])
				So(newLedger[3], ShouldResemble, ledger[3])
			})

			Convey("Then the clock carries the new start", func() {
				So(newClock.Start(model.WaveA), ShouldEqual, newStart)
				So(newClock.Start(model.WaveB), ShouldEqual, clock.Start(model.WaveB))
			})

			Convey("Then the input slice is not mutated", func() {
				d, _ := ledger[0].Elapsed()
				So(d, ShouldEqual, 40*time.Minute)
			})
		})

		Convey("When the corrected start postdates a finish", func() {
			newStart := day.Add(9*time.Hour + 42*time.Minute)
			_, newLedger, affected := reconcile.Retime(model.WaveA, newStart, clock, ledger)

			Convey("Then the finish keeps a negative elapsed", func() {
				So(affected, ShouldEqual, 2)
				d, ok := newLedger[0].Elapsed()
				So(ok, ShouldBeTrue)
				So(d, ShouldEqual, -2*time.Minute)
			})
		})
	})
}
