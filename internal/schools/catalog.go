package schools

import (
	"fmt"
	"os"
	"slices"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"mbaadvisor/internal/errors"
)

// School is a business school program in the comparison catalog
type School struct {
	ID                      int      `json:"id" yaml:"id"`
	Name                    string   `json:"name" yaml:"name"`
	Location                string   `json:"location" yaml:"location"`
	Country                 string   `json:"country" yaml:"country"`
	Ranking                 int      `json:"ranking" yaml:"ranking"`
	RankingSource           string   `json:"rankingSource" yaml:"rankingSource"`
	AcceptanceRate          float64  `json:"acceptanceRate" yaml:"acceptanceRate"` // percent
	AvgGMAT                 int      `json:"avgGMAT" yaml:"avgGMAT"`
	AvgGPA                  float64  `json:"avgGPA" yaml:"avgGPA"`
	AvgWorkExp              float64  `json:"avgWorkExp" yaml:"avgWorkExp"`       // years
	Tuition                 int      `json:"tuition" yaml:"tuition"`             // USD per program
	ProgramLength           int      `json:"programLength" yaml:"programLength"` // months
	Specializations         []string `json:"specializations" yaml:"specializations"`
	EmploymentRate          float64  `json:"employmentRate" yaml:"employmentRate"`
	AvgSalary               int      `json:"avgSalary" yaml:"avgSalary"`
	InternationalStudents   float64  `json:"internationalStudents" yaml:"internationalStudents"`
	ScholarshipAvailability string   `json:"scholarshipAvailability" yaml:"scholarshipAvailability"` // High, Medium or Low
	Campus                  string   `json:"campus" yaml:"campus"`                                   // Urban, Suburban or Rural
}

// Specializations is the list offered by the specialization filter
var Specializations = []string{
	"Finance",
	"Marketing",
	"Entrepreneurship",
	"Consulting",
	"Technology",
	"General Management",
	"Leadership",
	"Strategy",
	"International Business",
	"Social Innovation",
}

var (
	scholarshipLevels = []string{"High", "Medium", "Low"}
	campusTypes       = []string{"Urban", "Suburban", "Rural"}
)

// Catalog is an immutable, ordered set of schools
type Catalog struct {
	schools []School
	byID    map[int]int
}

// NewCatalog validates the schools and builds a catalog preserving their order
func NewCatalog(schools []School) (*Catalog, error) {
	c := &Catalog{
		schools: make([]School, 0, len(schools)),
		byID:    make(map[int]int, len(schools)),
	}
	for _, s := range schools {
		if err := validateSchool(s); err != nil {
			return nil, err
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidCatalog,
				fmt.Sprintf("duplicate school id %d", s.ID), nil)
		}
		s.Specializations = slices.Clone(s.Specializations)
		c.byID[s.ID] = len(c.schools)
		c.schools = append(c.schools, s)
	}
	return c, nil
}

func validateSchool(s School) error {
	var problem string
	switch {
	case s.Name == "":
		problem = "name is required"
	case s.ProgramLength <= 0:
		problem = "programLength must be positive"
	case s.Ranking <= 0:
		problem = "ranking must be positive"
	case s.ScholarshipAvailability != "" && !slices.Contains(scholarshipLevels, s.ScholarshipAvailability):
		problem = fmt.Sprintf("unknown scholarshipAvailability %q", s.ScholarshipAvailability)
	case s.Campus != "" && !slices.Contains(campusTypes, s.Campus):
		problem = fmt.Sprintf("unknown campus %q", s.Campus)
	default:
		return nil
	}
	return errors.NewValidationError(errors.ErrCodeInvalidCatalog,
		fmt.Sprintf("school %d: %s", s.ID, problem), nil).
		WithContext("school_id", s.ID)
}

// All returns a copy of the catalog's schools in order
func (c *Catalog) All() []School {
	return slices.Clone(c.schools)
}

// Len returns the number of schools
func (c *Catalog) Len() int {
	return len(c.schools)
}

// Get looks up a school by id
func (c *Catalog) Get(id int) (School, bool) {
	i, ok := c.byID[id]
	if !ok {
		return School{}, false
	}
	return c.schools[i], true
}

type catalogFile struct {
	Schools []School `yaml:"schools"`
}

// LoadCatalog reads a catalog from a YAML or JSON file with a top-level
// "schools" list.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "catalog file not found", err).
				WithContext("path", path)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read catalog file", err).
			WithContext("path", path)
	}
	return ParseCatalog(data)
}

// LoadCatalogOrDefault loads path, or returns the built-in catalog when path is empty
func LoadCatalogOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	return LoadCatalog(path)
}

// ParseCatalog decodes catalog file contents. JSON is accepted as YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidCatalog, "failed to parse catalog", err)
	}
	if len(file.Schools) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidCatalog, "catalog has no schools", nil)
	}
	return NewCatalog(file.Schools)
}

// Registry holds the active catalog and allows it to be swapped while
// readers hold the previous one.
type Registry struct {
	current atomic.Pointer[Catalog]
}

// NewRegistry creates a registry serving the given catalog
func NewRegistry(c *Catalog) *Registry {
	r := &Registry{}
	r.current.Store(c)
	return r
}

// Catalog returns the active catalog
func (r *Registry) Catalog() *Catalog {
	return r.current.Load()
}

// Replace swaps in a new catalog
func (r *Registry) Replace(c *Catalog) {
	r.current.Store(c)
}
