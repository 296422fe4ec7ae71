package schools

import (
	"fmt"
	"slices"
	"strings"

	"mbaadvisor/internal/errors"
)

// ProgramLength buckets accepted by the length filter
const (
	LengthAny         = "any"
	LengthOneYear     = "1-year"
	LengthTwoYear     = "2-year"
	LengthAccelerated = "accelerated"
)

const (
	DefaultRankingMax = 100
	DefaultTuitionMax = 150000
)

// Filter narrows the catalog. Zero values mean "no constraint" except for
// RankingMax and TuitionMax, which fall back to their defaults.
type Filter struct {
	Name            string   `json:"name,omitempty"`     // case-insensitive substring of the school name
	Location        string   `json:"location,omitempty"` // matched against the school's country
	RankingMax      int      `json:"rankingMax,omitempty"`
	ProgramLength   string   `json:"programLength,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
	TuitionMax      int      `json:"tuitionMax,omitempty"`
}

// WithDefaults fills unset limits
func (f Filter) WithDefaults() Filter {
	if f.RankingMax <= 0 {
		f.RankingMax = DefaultRankingMax
	}
	if f.TuitionMax <= 0 {
		f.TuitionMax = DefaultTuitionMax
	}
	if f.ProgramLength == "" {
		f.ProgramLength = LengthAny
	}
	return f
}

// Validate rejects unknown program length buckets
func (f Filter) Validate() error {
	switch f.ProgramLength {
	case "", LengthAny, LengthOneYear, LengthTwoYear, LengthAccelerated:
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeInvalidFilter,
		fmt.Sprintf("unknown program length %q", f.ProgramLength), nil).
		WithContext("allowed", []string{LengthAny, LengthOneYear, LengthTwoYear, LengthAccelerated})
}

// Matches reports whether a school passes every constraint in the filter.
// The filter is expected to have defaults applied.
func (f Filter) Matches(s School) bool {
	if name := strings.TrimSpace(f.Name); name != "" &&
		!strings.Contains(strings.ToLower(s.Name), strings.ToLower(name)) {
		return false
	}
	if f.Location != "" && s.Country != f.Location {
		return false
	}
	if s.Ranking > f.RankingMax {
		return false
	}
	if !matchesLength(f.ProgramLength, s.ProgramLength) {
		return false
	}
	if len(f.Specializations) > 0 && !slices.ContainsFunc(f.Specializations, func(spec string) bool {
		return slices.Contains(s.Specializations, spec)
	}) {
		return false
	}
	return s.Tuition <= f.TuitionMax
}

func matchesLength(bucket string, months int) bool {
	switch bucket {
	case LengthOneYear:
		return months <= 12
	case LengthTwoYear:
		return months >= 18 && months <= 24
	case LengthAccelerated:
		return months < 18
	default:
		return true
	}
}

// Search returns the schools matching the filter, in catalog order, leaving
// out the excluded ids. Unknown ids are ignored.
func (c *Catalog) Search(f Filter, exclude []int) ([]School, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f = f.WithDefaults()

	results := make([]School, 0, len(c.schools))
	for _, s := range c.schools {
		if slices.Contains(exclude, s.ID) {
			continue
		}
		if f.Matches(s) {
			results = append(results, s)
		}
	}
	return results, nil
}

// Countries lists the distinct countries in catalog order
func (c *Catalog) Countries() []string {
	var countries []string
	for _, s := range c.schools {
		if !slices.Contains(countries, s.Country) {
			countries = append(countries, s.Country)
		}
	}
	return countries
}
