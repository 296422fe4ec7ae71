package profile

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"

	"mbaadvisor/internal/errors"
)

// Update is a single typed edit to a profile. The set of implementations is
// closed to this package.
type Update interface {
	apply(p *Profile)
}

// Apply returns a copy of the profile with the updates applied in order.
// The receiver is never modified. A "none" test type or tier is stored as
// the unset value, the same as when decoding a document.
func (p Profile) Apply(updates ...Update) Profile {
	next := p.Clone()
	for _, u := range updates {
		if u != nil {
			u.apply(&next)
		}
	}
	return next.normalize()
}

// SetGPA sets the GPA together with the scale it is reported on
type SetGPA struct {
	GPA   float64 `json:"gpa"`
	Scale float64 `json:"gpaScale"`
}

func (u SetGPA) apply(p *Profile) {
	p.Academics.GPA = u.GPA
	p.Academics.GPAScale = u.Scale
}

// SetTestScore replaces the GMAT or GRE result
type SetTestScore TestScore

func (u SetTestScore) apply(p *Profile) { p.Academics.TestScore = TestScore(u) }

// SetInstitution sets the undergraduate institution
type SetInstitution string

func (u SetInstitution) apply(p *Profile) { p.Academics.UndergraduateInstitution = string(u) }

// SetMajor sets the undergraduate major
type SetMajor string

func (u SetMajor) apply(p *Profile) { p.Academics.UndergraduateMajor = string(u) }

// SetAdditionalDegrees replaces the list of other degrees
type SetAdditionalDegrees []string

func (u SetAdditionalDegrees) apply(p *Profile) {
	p.Academics.AdditionalDegrees = slices.Clone([]string(u))
}

// SetYears sets full-time work experience in years
type SetYears int

func (u SetYears) apply(p *Profile) { p.WorkExperience.Years = int(u) }

// SetIndustry sets the current industry
type SetIndustry string

func (u SetIndustry) apply(p *Profile) { p.WorkExperience.Industry = string(u) }

// SetFunction sets the job function
type SetFunction string

func (u SetFunction) apply(p *Profile) { p.WorkExperience.Function = string(u) }

// SetWorkLeadership sets the 1-10 professional leadership rating
type SetWorkLeadership int

func (u SetWorkLeadership) apply(p *Profile) { p.WorkExperience.Leadership = int(u) }

// SetInternational marks international work experience
type SetInternational bool

func (u SetInternational) apply(p *Profile) { p.WorkExperience.International = bool(u) }

// SetCompanies replaces the employer list
type SetCompanies []string

func (u SetCompanies) apply(p *Profile) { p.WorkExperience.Companies = slices.Clone([]string(u)) }

// SetRoles replaces the role list
type SetRoles []string

func (u SetRoles) apply(p *Profile) { p.WorkExperience.Roles = slices.Clone([]string(u)) }

// SetActivities replaces the activity list
type SetActivities []string

func (u SetActivities) apply(p *Profile) {
	p.Extracurriculars.Activities = slices.Clone([]string(u))
}

// AddActivity appends an activity. Empty names are ignored.
type AddActivity string

func (u AddActivity) apply(p *Profile) {
	if u == "" {
		return
	}
	p.Extracurriculars.Activities = append(p.Extracurriculars.Activities, string(u))
}

// RemoveActivity removes the activity at an index. Out of range is a no-op.
type RemoveActivity int

func (u RemoveActivity) apply(p *Profile) {
	i := int(u)
	if i < 0 || i >= len(p.Extracurriculars.Activities) {
		return
	}
	p.Extracurriculars.Activities = slices.Delete(p.Extracurriculars.Activities, i, i+1)
}

// SetActivityLeadership marks leadership in an activity
type SetActivityLeadership bool

func (u SetActivityLeadership) apply(p *Profile) { p.Extracurriculars.Leadership = bool(u) }

// SetContinuity marks long-term involvement
type SetContinuity bool

func (u SetContinuity) apply(p *Profile) { p.Extracurriculars.Continuity = bool(u) }

// SetImpact sets the 1-10 impact rating
type SetImpact int

func (u SetImpact) apply(p *Profile) { p.Extracurriculars.Impact = int(u) }

// SetGoals sets the post-MBA goal statement
type SetGoals string

func (u SetGoals) apply(p *Profile) { p.Career.Goals = string(u) }

// SetClarity, SetFeasibility and SetFit set the 1-10 career goal ratings
type SetClarity int

func (u SetClarity) apply(p *Profile) { p.Career.Clarity = int(u) }

type SetFeasibility int

func (u SetFeasibility) apply(p *Profile) { p.Career.Feasibility = int(u) }

type SetFit int

func (u SetFit) apply(p *Profile) { p.Career.Fit = int(u) }

// SetTier sets the target school tier. "none" clears it.
type SetTier Tier

func (u SetTier) apply(p *Profile) { p.TargetSchools.Tier = Tier(u) }

// SchoolList names one of the reach/target/safety lists
type SchoolList string

const (
	ListReach  SchoolList = "reach"
	ListTarget SchoolList = "target"
	ListSafety SchoolList = "safety"
)

// SetSchoolList replaces one of the reach, target or safety lists
type SetSchoolList struct {
	List    SchoolList `json:"list"`
	Schools []string   `json:"schools"`
}

func (u SetSchoolList) apply(p *Profile) {
	schools := slices.Clone(u.Schools)
	switch u.List {
	case ListReach:
		p.TargetSchools.Reach = schools
	case ListTarget:
		p.TargetSchools.Target = schools
	case ListSafety:
		p.TargetSchools.Safety = schools
	}
}

// SetDemographics replaces the demographic details
type SetDemographics Demographics

func (u SetDemographics) apply(p *Profile) { p.Demographics = Demographics(u) }

// decoders maps wire field names to typed updates. Only these names are
// accepted at the JSON boundary.
var decoders = map[string]func(json.RawMessage) (Update, error){
	"academics.gpa":                      decodeAs[SetGPA],
	"academics.testScore":                decodeAs[SetTestScore],
	"academics.undergraduateInstitution": decodeAs[SetInstitution],
	"academics.undergraduateMajor":       decodeAs[SetMajor],
	"academics.additionalDegrees":        decodeAs[SetAdditionalDegrees],
	"workExperience.years":               decodeAs[SetYears],
	"workExperience.industry":            decodeAs[SetIndustry],
	"workExperience.function":            decodeAs[SetFunction],
	"workExperience.leadership":          decodeAs[SetWorkLeadership],
	"workExperience.international":       decodeAs[SetInternational],
	"workExperience.companies":           decodeAs[SetCompanies],
	"workExperience.roles":               decodeAs[SetRoles],
	"extracurriculars.activities":        decodeAs[SetActivities],
	"extracurriculars.addActivity":       decodeAs[AddActivity],
	"extracurriculars.removeActivity":    decodeAs[RemoveActivity],
	"extracurriculars.leadership":        decodeAs[SetActivityLeadership],
	"extracurriculars.continuity":        decodeAs[SetContinuity],
	"extracurriculars.impact":            decodeAs[SetImpact],
	"career.goals":                       decodeAs[SetGoals],
	"career.clarity":                     decodeAs[SetClarity],
	"career.feasibility":                 decodeAs[SetFeasibility],
	"career.fit":                         decodeAs[SetFit],
	"targetSchools.tier":                 decodeAs[SetTier],
	"targetSchools.list":                 decodeAs[SetSchoolList],
	"demographics":                       decodeAs[SetDemographics],
}

func decodeAs[U Update](raw json.RawMessage) (Update, error) {
	var u U
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateFields lists the field names DecodeUpdate accepts, sorted
func UpdateFields() []string {
	fields := make([]string, 0, len(decoders))
	for f := range decoders {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// DecodeUpdate converts a wire field name and JSON value into a typed update
func DecodeUpdate(field string, raw json.RawMessage) (Update, error) {
	decode, ok := decoders[field]
	if !ok {
		return nil, errors.NewValidationError(errors.ErrCodeUnknownField,
			fmt.Sprintf("unknown profile field: %s", field), nil).
			WithContext("field", field)
	}
	u, err := decode(raw)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidProfile,
			fmt.Sprintf("invalid value for %s", field), err).
			WithContext("field", field)
	}
	return u, nil
}

// FieldUpdate is the wire form of an update
type FieldUpdate struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

// DecodeUpdates decodes a batch, failing on the first invalid entry
func DecodeUpdates(in []FieldUpdate) ([]Update, error) {
	out := make([]Update, 0, len(in))
	for _, fu := range in {
		u, err := DecodeUpdate(fu.Field, fu.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
