package model_test

import (
	"testing"
	"time"

	model "github.com/okian/paceline/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseWave(t *testing.T) {
	Convey("Given wave labels", t, func() {
		Convey("Then canonical labels parse", func() {
			for _, s := range []string{"A", "B", "C"} {
				w, err := model.ParseWave(s)
				So(err, ShouldBeNil)
				So(w.Valid(), ShouldBeTrue)
			}
		})

		Convey("Then case and whitespace are normalized", func() {
			w, err := model.ParseWave("  b ")
			So(err, ShouldBeNil)
			So(w, ShouldEqual, model.WaveB)
		})

		Convey("Then the empty string maps to WaveNone without error", func() {
			w, err := model.ParseWave("")
			So(err, ShouldBeNil)
			So(w, ShouldEqual, model.WaveNone)
			So(w.Valid(), ShouldBeFalse)
		})

		Convey("Then unknown labels fail", func() {
			_, err := model.ParseWave("D")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEntryElapsed(t *testing.T) {
	Convey("Given a ledger entry", t, func() {
		var e model.Entry

		Convey("When no elapsed is set", func() {
			Convey("Then Elapsed reports absent and display shows N/A", func() {
				_, ok := e.Elapsed()
				So(ok, ShouldBeFalse)
				So(e.FormatElapsed(), ShouldEqual, "N/A")
			})
		})

		Convey("When an elapsed duration is set", func() {
			e.SetElapsed(2*time.Minute + 5*time.Second)

			Convey("Then it round-trips through milliseconds", func() {
				d, ok := e.Elapsed()
				So(ok, ShouldBeTrue)
				So(d, ShouldEqual, 125*time.Second)
				So(*e.ElapsedMs, ShouldEqual, int64(125000))
			})

			Convey("Then it formats as H:MM:SS", func() {
				So(e.FormatElapsed(), ShouldEqual, "0:02:05")
			})

			Convey("And clearing removes it again", func() {
				e.ClearElapsed()
				So(e.ElapsedMs, ShouldBeNil)
				So(e.FormatElapsed(), ShouldEqual, "N/A")
			})
		})

		Convey("When the elapsed duration is over an hour", func() {
			e.SetElapsed(time.Hour + 23*time.Minute + 45*time.Second)
			So(e.FormatElapsed(), ShouldEqual, "1:23:45")
		})

		Convey("When the elapsed duration is negative", func() {
			e.SetElapsed(-(time.Minute + 30*time.Second))

			Convey("Then the display carries a leading minus", func() {
				So(e.FormatElapsed(), ShouldEqual, "-0:01:30")
			})
		})
	})
}

func TestWaveClock(t *testing.T) {
	Convey("Given a wave clock", t, func() {
		day := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
		clock := model.WaveClock{
			A: day.Add(9 * time.Hour),
			B: day.Add(9*time.Hour + 15*time.Minute),
			C: day.Add(9*time.Hour + 30*time.Minute),
		}

		Convey("Then each wave reads back its own start", func() {
			So(clock.Start(model.WaveA), ShouldEqual, clock.A)
			So(clock.Start(model.WaveB), ShouldEqual, clock.B)
			So(clock.Start(model.WaveC), ShouldEqual, clock.C)
		})

		Convey("Then WaveNone reads the zero time", func() {
			So(clock.Start(model.WaveNone).IsZero(), ShouldBeTrue)
		})

		Convey("When one wave is reset", func() {
			newStart := day.Add(9*time.Hour + 5*time.Minute)
			clock.SetStart(model.WaveB, newStart)

			Convey("Then only that wave changes", func() {
				So(clock.Start(model.WaveB), ShouldEqual, newStart)
				So(clock.Start(model.WaveA), ShouldEqual, day.Add(9*time.Hour))
				So(clock.Start(model.WaveC), ShouldEqual, day.Add(9*time.Hour+30*time.Minute))
			})
		})
	})
}

func TestAtTimeOfDay(t *testing.T) {
	Convey("Given a reference instant", t, func() {
		loc, err := time.LoadLocation("America/Los_Angeles")
		So(err, ShouldBeNil)
		day := time.Date(2026, 6, 14, 14, 30, 22, 0, loc)

		Convey("When combined with a wall-clock time", func() {
			got, err := model.AtTimeOfDay(day, "09:15:00")
			So(err, ShouldBeNil)

			Convey("Then the calendar date and location are preserved", func() {
				So(got.Year(), ShouldEqual, 2026)
				So(got.Month(), ShouldEqual, time.June)
				So(got.Day(), ShouldEqual, 14)
				So(got.Location(), ShouldEqual, loc)
				So(model.TimeOfDay(got), ShouldEqual, "09:15:00")
			})
		})

		Convey("When the wall-clock time is malformed", func() {
			_, err := model.AtTimeOfDay(day, "9:15")
			So(err, ShouldNotBeNil)
		})
	})
}
