package profile

// Suggestion texts, in the order the rules are evaluated.
const (
	SuggestRetakeGMAT        = "Consider retaking the GMAT to aim for a score of 700+ for top programs."
	SuggestRetakeGRE         = "Consider retaking the GRE to improve your score for competitive programs."
	SuggestAddressGPA        = "Address your lower GPA in an optional essay and highlight academic achievements elsewhere."
	SuggestAddInstitution    = "Add your undergraduate institution details to complete your profile."
	SuggestMoreExperience    = "Most competitive MBA programs prefer candidates with 3+ years of work experience. Consider gaining more experience before applying."
	SuggestWorkLeadership    = "Seek opportunities to demonstrate leadership in your current role to strengthen your application."
	SuggestInternational     = "Consider gaining international exposure through global projects or assignments."
	SuggestActivityLeader    = "Take on leadership roles in community organizations or volunteer activities."
	SuggestMoreActivities    = "Engage in more extracurricular activities to demonstrate well-roundedness."
	SuggestMeasurableImpact  = "Focus on making measurable impact in your extracurricular involvement."
	SuggestCareerPlan        = "Develop a more specific post-MBA career plan to demonstrate clear direction."
	SuggestRealisticGoals    = "Ensure your career goals are realistic given your background and target MBA programs."
	SuggestResearchSchoolFit = "Research how your target schools specifically support your career goals and articulate this fit."
)

// Suggestions are rule-triggered recommendations grouped by category.
//
// The zero value has Evaluated set to false and means the profile has not
// been evaluated yet. An evaluated profile with an empty category list is
// strong in that category.
type Suggestions struct {
	Evaluated        bool     `json:"evaluated"`
	Academics        []string `json:"academics"`
	WorkExperience   []string `json:"workExperience"`
	Extracurriculars []string `json:"extracurriculars"`
	CareerGoals      []string `json:"careerGoals"`
}

// For returns the suggestions for a category
func (s Suggestions) For(c Category) []string {
	switch c {
	case CategoryAcademics:
		return s.Academics
	case CategoryWorkExperience:
		return s.WorkExperience
	case CategoryExtracurriculars:
		return s.Extracurriculars
	case CategoryCareerGoals:
		return s.CareerGoals
	}
	return nil
}

// Strong reports whether an evaluated profile triggered no rule in the category
func (s Suggestions) Strong(c Category) bool {
	return s.Evaluated && len(s.For(c)) == 0
}

// Total returns the number of suggestions across all categories
func (s Suggestions) Total() int {
	return len(s.Academics) + len(s.WorkExperience) + len(s.Extracurriculars) + len(s.CareerGoals)
}

// GenerateSuggestions evaluates the improvement rules against the profile's
// raw field values. Every matching rule is included, in rule order.
func GenerateSuggestions(p Profile) Suggestions {
	s := Suggestions{
		Evaluated:        true,
		Academics:        []string{},
		WorkExperience:   []string{},
		Extracurriculars: []string{},
		CareerGoals:      []string{},
	}

	a := p.Academics
	if a.TestScore.Type == TestGMAT && a.TestScore.Score < 700 {
		s.Academics = append(s.Academics, SuggestRetakeGMAT)
	}
	if a.TestScore.Type == TestGRE && a.TestScore.Score < 320 {
		s.Academics = append(s.Academics, SuggestRetakeGRE)
	}
	if a.GPA < 3.3 {
		s.Academics = append(s.Academics, SuggestAddressGPA)
	}
	if a.UndergraduateInstitution == "" {
		s.Academics = append(s.Academics, SuggestAddInstitution)
	}

	w := p.WorkExperience
	if w.Years < 3 {
		s.WorkExperience = append(s.WorkExperience, SuggestMoreExperience)
	}
	if w.Leadership < 7 {
		s.WorkExperience = append(s.WorkExperience, SuggestWorkLeadership)
	}
	if !w.International {
		s.WorkExperience = append(s.WorkExperience, SuggestInternational)
	}

	e := p.Extracurriculars
	if !e.Leadership {
		s.Extracurriculars = append(s.Extracurriculars, SuggestActivityLeader)
	}
	if len(e.Activities) < 2 {
		s.Extracurriculars = append(s.Extracurriculars, SuggestMoreActivities)
	}
	if e.Impact < 6 {
		s.Extracurriculars = append(s.Extracurriculars, SuggestMeasurableImpact)
	}

	c := p.Career
	if c.Clarity < 7 {
		s.CareerGoals = append(s.CareerGoals, SuggestCareerPlan)
	}
	if c.Feasibility < 6 {
		s.CareerGoals = append(s.CareerGoals, SuggestRealisticGoals)
	}
	if c.Fit < 6 {
		s.CareerGoals = append(s.CareerGoals, SuggestResearchSchoolFit)
	}

	return s
}

var strengthMessages = map[Category]string{
	CategoryAcademics:        "Your academic profile is strong! Continue to maintain this strength.",
	CategoryWorkExperience:   "Your work experience is a key strength in your profile!",
	CategoryExtracurriculars: "Your extracurricular activities complement your profile well!",
	CategoryCareerGoals:      "Your career goals are well-articulated and aligned with MBA programs!",
}

// StrengthMessage is the text shown for a category without suggestions
func StrengthMessage(c Category) string {
	return strengthMessages[c]
}
