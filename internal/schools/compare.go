package schools

import (
	"fmt"
	"strconv"
	"strings"

	"mbaadvisor/internal/errors"
)

// Row is one compared attribute with a display value per selected school
type Row struct {
	Field  string   `json:"field"`
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Section groups related rows
type Section struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Comparison is a side-by-side view of the selected schools
type Comparison struct {
	Schools  []School  `json:"schools"`
	Sections []Section `json:"sections"`
}

type field struct {
	key    string
	label  string
	format func(School) string
}

var comparisonSections = []struct {
	name   string
	fields []field
}{
	{"Basics", []field{
		{"ranking", "Ranking", func(s School) string { return fmt.Sprintf("#%d (%s)", s.Ranking, s.RankingSource) }},
		{"location", "Location", func(s School) string { return s.Location }},
		{"country", "Country", func(s School) string { return s.Country }},
		{"campus", "Campus Setting", func(s School) string { return s.Campus }},
	}},
	{"Admissions", []field{
		{"acceptanceRate", "Acceptance Rate", func(s School) string { return percent(s.AcceptanceRate) }},
		{"avgGMAT", "Average GMAT", func(s School) string { return strconv.Itoa(s.AvgGMAT) }},
		{"avgGPA", "Average GPA", func(s School) string { return number(s.AvgGPA) }},
		{"avgWorkExp", "Average Work Experience", func(s School) string { return number(s.AvgWorkExp) + " years" }},
	}},
	{"Program", []field{
		{"programLength", "Program Length", func(s School) string { return fmt.Sprintf("%d months", s.ProgramLength) }},
		{"tuition", "Annual Tuition", func(s School) string { return dollars(s.Tuition) }},
		{"specializations", "Key Specializations", func(s School) string { return strings.Join(s.Specializations, ", ") }},
	}},
	{"Outcomes", []field{
		{"employmentRate", "Employment Rate", func(s School) string { return percent(s.EmploymentRate) }},
		{"avgSalary", "Average Starting Salary", func(s School) string { return dollars(s.AvgSalary) }},
		{"internationalStudents", "International Students", func(s School) string { return percent(s.InternationalStudents) }},
		{"scholarshipAvailability", "Scholarship Availability", func(s School) string { return s.ScholarshipAvailability }},
	}},
}

// Compare builds the comparison table for the selection, in selection order
func Compare(c *Catalog, sel Selection) (Comparison, error) {
	if sel.Len() == 0 {
		return Comparison{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"select at least one school to compare", nil)
	}

	selected := make([]School, 0, sel.Len())
	for _, id := range sel.ids {
		s, ok := c.Get(id)
		if !ok {
			return Comparison{}, errors.NewNotFoundError(errors.ErrCodeSchoolNotFound,
				fmt.Sprintf("school %d not found", id), nil).WithContext("school_id", id)
		}
		selected = append(selected, s)
	}

	sections := make([]Section, 0, len(comparisonSections))
	for _, cs := range comparisonSections {
		section := Section{Name: cs.name, Rows: make([]Row, 0, len(cs.fields))}
		for _, f := range cs.fields {
			row := Row{Field: f.key, Label: f.label, Values: make([]string, 0, len(selected))}
			for _, s := range selected {
				row.Values = append(row.Values, f.format(s))
			}
			section.Rows = append(section.Rows, row)
		}
		sections = append(sections, section)
	}

	return Comparison{Schools: selected, Sections: sections}, nil
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func percent(v float64) string {
	return number(v) + "%"
}

// dollars renders a whole dollar amount with thousands separators
func dollars(v int) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	digits := strconv.Itoa(v)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + "$" + b.String()
}
