package profile

import "slices"

// TestType identifies the standardized admissions test a score belongs to
type TestType string

const (
	TestNone TestType = ""
	TestGMAT TestType = "GMAT"
	TestGRE  TestType = "GRE"
)

// Tier is the ranking band of the applicant's target schools
type Tier string

const (
	TierNone   Tier = ""
	TierTop10  Tier = "top 10"
	TierTop25  Tier = "top 25"
	TierTop50  Tier = "top 50"
	TierTop100 Tier = "top 100"
)

// Category names a scored section of the profile
type Category string

const (
	CategoryAcademics        Category = "academics"
	CategoryWorkExperience   Category = "workExperience"
	CategoryExtracurriculars Category = "extracurriculars"
	CategoryCareerGoals      Category = "careerGoals"
)

// Categories lists the scored sections in display order
var Categories = []Category{
	CategoryAcademics,
	CategoryWorkExperience,
	CategoryExtracurriculars,
	CategoryCareerGoals,
}

// TestScore is a standardized test result
type TestScore struct {
	Type  TestType `json:"type" yaml:"type"`
	Score int      `json:"score" yaml:"score"`
}

// Academics holds undergraduate record and test results
type Academics struct {
	GPA                      float64   `json:"gpa" yaml:"gpa"`
	GPAScale                 float64   `json:"gpaScale" yaml:"gpaScale"`
	TestScore                TestScore `json:"testScore" yaml:"testScore"`
	UndergraduateInstitution string    `json:"undergraduateInstitution" yaml:"undergraduateInstitution"`
	UndergraduateMajor       string    `json:"undergraduateMajor" yaml:"undergraduateMajor"`
	AdditionalDegrees        []string  `json:"additionalDegrees,omitempty" yaml:"additionalDegrees,omitempty"`
}

// WorkExperience holds professional history
type WorkExperience struct {
	Years         int      `json:"years" yaml:"years"`
	Industry      string   `json:"industry" yaml:"industry"`
	Function      string   `json:"function" yaml:"function"`
	Leadership    int      `json:"leadership" yaml:"leadership"` // 1-10 self assessment
	International bool     `json:"international" yaml:"international"`
	Companies     []string `json:"companies,omitempty" yaml:"companies,omitempty"`
	Roles         []string `json:"roles,omitempty" yaml:"roles,omitempty"`
}

// Extracurriculars holds activities outside work
type Extracurriculars struct {
	Activities []string `json:"activities" yaml:"activities"`
	Leadership bool     `json:"leadership" yaml:"leadership"`
	Continuity bool     `json:"continuity" yaml:"continuity"`
	Impact     int      `json:"impact" yaml:"impact"` // 1-10
}

// Career holds post-MBA goals and their self-assessed quality
type Career struct {
	Goals       string `json:"goals" yaml:"goals"`
	Clarity     int    `json:"clarity" yaml:"clarity"`
	Feasibility int    `json:"feasibility" yaml:"feasibility"`
	Fit         int    `json:"fit" yaml:"fit"`
}

// Demographics is informational only and never scored
type Demographics struct {
	Age              int    `json:"age,omitempty" yaml:"age,omitempty"`
	Gender           string `json:"gender,omitempty" yaml:"gender,omitempty"`
	Country          string `json:"country,omitempty" yaml:"country,omitempty"`
	Underrepresented bool   `json:"underrepresented,omitempty" yaml:"underrepresented,omitempty"`
}

// TargetSchools holds the applicant's school list
type TargetSchools struct {
	Tier   Tier     `json:"tier" yaml:"tier"`
	Reach  []string `json:"reach,omitempty" yaml:"reach,omitempty"`
	Target []string `json:"target,omitempty" yaml:"target,omitempty"`
	Safety []string `json:"safety,omitempty" yaml:"safety,omitempty"`
}

// Profile is an MBA applicant profile. It is a value type: edits produce a
// new Profile through Apply and never modify the original.
type Profile struct {
	Academics        Academics        `json:"academics" yaml:"academics"`
	WorkExperience   WorkExperience   `json:"workExperience" yaml:"workExperience"`
	Extracurriculars Extracurriculars `json:"extracurriculars" yaml:"extracurriculars"`
	Career           Career           `json:"career" yaml:"career"`
	Demographics     Demographics     `json:"demographics" yaml:"demographics"`
	TargetSchools    TargetSchools    `json:"targetSchools" yaml:"targetSchools"`
}

// DefaultProfile returns the starting profile presented to a new applicant
func DefaultProfile() Profile {
	return Profile{
		Academics: Academics{
			GPA:       3.5,
			GPAScale:  4.0,
			TestScore: TestScore{Type: TestGMAT, Score: 690},
		},
		WorkExperience: WorkExperience{
			Years:      4,
			Leadership: 6,
		},
		Extracurriculars: Extracurriculars{
			Impact: 5,
		},
		Career: Career{
			Clarity:     5,
			Feasibility: 5,
			Fit:         5,
		},
		Demographics: Demographics{
			Age: 28,
		},
	}
}

// Clone returns a deep copy so slice fields are never shared between values
func (p Profile) Clone() Profile {
	p.Academics.AdditionalDegrees = slices.Clone(p.Academics.AdditionalDegrees)
	p.WorkExperience.Companies = slices.Clone(p.WorkExperience.Companies)
	p.WorkExperience.Roles = slices.Clone(p.WorkExperience.Roles)
	p.Extracurriculars.Activities = slices.Clone(p.Extracurriculars.Activities)
	p.TargetSchools.Reach = slices.Clone(p.TargetSchools.Reach)
	p.TargetSchools.Target = slices.Clone(p.TargetSchools.Target)
	p.TargetSchools.Safety = slices.Clone(p.TargetSchools.Safety)
	return p
}
