package schools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbaadvisor/internal/errors"
)

func names(schools []School) []string {
	out := make([]string, len(schools))
	for i, s := range schools {
		out[i] = s.Name
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, 5, c.Len())

	insead, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "INSEAD", insead.Name)
	assert.Equal(t, 10, insead.ProgramLength)

	_, ok = c.Get(42)
	assert.False(t, ok)

	assert.Equal(t, []string{"USA", "France", "UK"}, c.Countries())
}

func TestSearch_Filters(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{
			name:   "no filter returns all in order",
			filter: Filter{},
			want:   []string{"Harvard Business School", "Stanford Graduate School of Business", "INSEAD", "London Business School", "Wharton School"},
		},
		{
			name:   "location matches country",
			filter: Filter{Location: "USA"},
			want:   []string{"Harvard Business School", "Stanford Graduate School of Business", "Wharton School"},
		},
		{
			name:   "ranking max",
			filter: Filter{RankingMax: 2},
			want:   []string{"Harvard Business School", "Stanford Graduate School of Business"},
		},
		{
			name:   "one year programs",
			filter: Filter{ProgramLength: LengthOneYear},
			want:   []string{"INSEAD"},
		},
		{
			name:   "two year programs",
			filter: Filter{ProgramLength: LengthTwoYear},
			want:   []string{"Harvard Business School", "Stanford Graduate School of Business", "London Business School", "Wharton School"},
		},
		{
			name:   "accelerated programs",
			filter: Filter{ProgramLength: LengthAccelerated},
			want:   []string{"INSEAD"},
		},
		{
			name:   "any specialization matches",
			filter: Filter{Specializations: []string{"Technology", "Consulting"}},
			want:   []string{"Stanford Graduate School of Business", "INSEAD"},
		},
		{
			name:   "tuition max",
			filter: Filter{TuitionMax: 80000},
			want:   []string{"Harvard Business School", "Stanford Graduate School of Business"},
		},
		{
			name:   "combined filters",
			filter: Filter{Location: "USA", Specializations: []string{"Finance"}, TuitionMax: 90000},
			want:   []string{"Harvard Business School", "Wharton School"},
		},
		{
			name:   "nothing matches",
			filter: Filter{Location: "Japan"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Search(tt.filter, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestSearch_ExcludesSelected(t *testing.T) {
	c := DefaultCatalog()
	sel, err := NewSelection(c, 1, 5)
	require.NoError(t, err)

	got, err := c.Search(Filter{Location: "USA"}, sel.IDs())
	require.NoError(t, err)
	assert.Equal(t, []string{"Stanford Graduate School of Business"}, names(got))
}

func TestSearch_ExcludesMoreThanASelection(t *testing.T) {
	got, err := DefaultCatalog().Search(Filter{}, []int{1, 2, 3, 5, 42})
	require.NoError(t, err)
	assert.Equal(t, []string{"London Business School"}, names(got))
}

func TestSearch_NameQuery(t *testing.T) {
	c := DefaultCatalog()
	tests := []struct {
		query string
		want  []string
	}{
		{"business school", []string{"Harvard Business School", "London Business School"}},
		{"  INSEAD ", []string{"INSEAD"}},
		{"wHaRtOn", []string{"Wharton School"}},
		{"Kellogg", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := c.Search(Filter{Name: tt.query}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}

	got, err := c.Search(Filter{Name: "school", Location: "USA"}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Stanford Graduate School of Business", "Wharton School"}, names(got))
}

func TestSearch_InvalidProgramLength(t *testing.T) {
	_, err := DefaultCatalog().Search(Filter{ProgramLength: "3-year"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestSelection(t *testing.T) {
	c := DefaultCatalog()

	sel, err := NewSelection(c, 2, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 1}, sel.IDs())
	assert.True(t, sel.Full())

	_, err = sel.Add(c, 3)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeSelectionFull, appErr.Code)

	smaller := sel.Remove(4)
	assert.Equal(t, []int{2, 1}, smaller.IDs())
	assert.Equal(t, []int{2, 4, 1}, sel.IDs(), "Remove must not modify the receiver")

	assert.Equal(t, smaller.IDs(), smaller.Remove(99).IDs())

	_, err = smaller.Add(c, 2)
	appErr, ok = errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAlreadySelected, appErr.Code)

	_, err = smaller.Add(c, 99)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestSelection_AddDoesNotShareBacking(t *testing.T) {
	c := DefaultCatalog()
	base, err := NewSelection(c, 1)
	require.NoError(t, err)

	a, err := base.Add(c, 2)
	require.NoError(t, err)
	b, err := base.Add(c, 3)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, a.IDs())
	assert.Equal(t, []int{1, 3}, b.IDs())
	assert.Equal(t, []int{1}, base.IDs())
}

func TestCompare(t *testing.T) {
	c := DefaultCatalog()
	sel, err := NewSelection(c, 3, 1)
	require.NoError(t, err)

	cmp, err := Compare(c, sel)
	require.NoError(t, err)

	assert.Equal(t, []string{"INSEAD", "Harvard Business School"}, names(cmp.Schools))
	require.Len(t, cmp.Sections, 4)

	sectionNames := make([]string, len(cmp.Sections))
	for i, s := range cmp.Sections {
		sectionNames[i] = s.Name
	}
	assert.Equal(t, []string{"Basics", "Admissions", "Program", "Outcomes"}, sectionNames)

	values := map[string][]string{}
	for _, s := range cmp.Sections {
		for _, r := range s.Rows {
			values[r.Field] = r.Values
		}
	}
	assert.Equal(t, []string{"#3 (Financial Times 2023)", "#1 (Financial Times 2023)"}, values["ranking"])
	assert.Equal(t, []string{"18%", "11%"}, values["acceptanceRate"])
	assert.Equal(t, []string{"3.6", "3.7"}, values["avgGPA"])
	assert.Equal(t, []string{"5.5 years", "4.7 years"}, values["avgWorkExp"])
	assert.Equal(t, []string{"10 months", "24 months"}, values["programLength"])
	assert.Equal(t, []string{"$95,000", "$78,000"}, values["tuition"])
	assert.Equal(t, []string{"$160,000", "$175,000"}, values["avgSalary"])
	assert.Equal(t, "International Business, Consulting, Finance, Entrepreneurship", values["specializations"][0])
	assert.Equal(t, []string{"Medium", "Medium"}, values["scholarshipAvailability"])
}

func TestCompare_EmptySelection(t *testing.T) {
	_, err := Compare(DefaultCatalog(), Selection{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestDollars(t *testing.T) {
	tests := map[int]string{
		0:       "$0",
		999:     "$999",
		1000:    "$1,000",
		78000:   "$78,000",
		1234567: "$1,234,567",
		-5000:   "-$5,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, dollars(in))
	}
}
