package ranking

import (
	"time"

	"github.com/okian/paceline/internal/domain/model"
	"github.com/okian/paceline/internal/domain/roster"
)

// AgeCategory buckets riders by age at evaluation time.
type AgeCategory string

// Age categories.
const (
	CategoryNone    AgeCategory = ""
	CategoryJunior  AgeCategory = "junior"
	CategoryAdult   AgeCategory = "adult"
	CategoryMasters AgeCategory = "masters"
)

// Policy holds the age-category thresholds. The source event has run
// with both 18/55 and 19/50 boundaries over the years, so both bounds
// are operator configuration rather than constants.
type Policy struct {
	// JuniorAgeLimit: age < JuniorAgeLimit is a junior.
	JuniorAgeLimit int
	// MastersAgeMin: age >= MastersAgeMin is a master.
	MastersAgeMin int
}

// DefaultPolicy matches the most recent season's boundaries.
func DefaultPolicy() Policy {
	return Policy{JuniorAgeLimit: 19, MastersAgeMin: 50}
}

// Age computes full calendar years between birth and at.
func Age(birth, at time.Time) int {
	age := at.Year() - birth.Year()
	if at.Month() < birth.Month() ||
		(at.Month() == birth.Month() && at.Day() < birth.Day()) {
		age--
	}
	return age
}

// Category buckets a date of birth under p, evaluated at the given
// instant. An unparseable date of birth yields CategoryNone.
func (p Policy) Category(dob string, at time.Time) AgeCategory {
	birth, err := time.Parse(model.DOBLayout, dob)
	if err != nil {
		return CategoryNone
	}
	age := Age(birth, at)
	switch {
	case age < p.JuniorAgeLimit:
		return CategoryJunior
	case age >= p.MastersAgeMin:
		return CategoryMasters
	default:
		return CategoryAdult
	}
}

// ParseCategory normalizes a category label; anything unrecognized maps
// to CategoryNone (no filter).
func ParseCategory(s string) AgeCategory {
	switch AgeCategory(s) {
	case CategoryJunior, CategoryAdult, CategoryMasters:
		return AgeCategory(s)
	default:
		return CategoryNone
	}
}

// FilterByCategory joins each entry to its current registrant by bib
// and keeps the ones matching the gender and age-category filters.
// Filters AND-compose; GenderNone or CategoryNone mean no filter on
// that axis. Entries whose bib no longer resolves are excluded from
// every category view (they still appear in overall results).
func FilterByCategory(entries []model.Entry, dir *roster.Directory, gender model.Gender, category AgeCategory, p Policy, at time.Time) []model.Entry {
	out := make([]model.Entry, 0)
	for _, e := range entries {
		rider, ok := dir.Lookup(e.Bib)
		if !ok {
			continue
		}
		if gender != model.GenderNone && rider.Gender != gender {
			continue
		}
		if category != CategoryNone && p.Category(rider.DOB, at) != category {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Leaderboard is the composed category view: filter, rank, take n.
func Leaderboard(entries []model.Entry, dir *roster.Directory, gender model.Gender, category AgeCategory, p Policy, at time.Time, n int) []model.Entry {
	return TopN(Overall(FilterByCategory(entries, dir, gender, category, p, at)), n)
}
