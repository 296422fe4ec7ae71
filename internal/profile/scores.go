package profile

import "math"

// Category weights for the overall score. They sum to 1.0.
const (
	WeightAcademics        = 0.30
	WeightWorkExperience   = 0.40
	WeightExtracurriculars = 0.15
	WeightCareerGoals      = 0.15
)

const maxScore = 100

// Scores are the category and overall strength scores, each in [0, 100]
type Scores struct {
	Academics        int `json:"academics"`
	WorkExperience   int `json:"workExperience"`
	Extracurriculars int `json:"extracurriculars"`
	CareerGoals      int `json:"careerGoals"`
	Overall          int `json:"overall"`
}

// Get returns the score for a category
func (s Scores) Get(c Category) int {
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
	return 0
}

// ComputeScores scores every category of the profile and combines them into
// the weighted overall score. It is pure and total.
func ComputeScores(p Profile) Scores {
	s := Scores{
		Academics:        clampScore(academicsRaw(p)),
		WorkExperience:   clampScore(workExperienceRaw(p)),
		Extracurriculars: clampScore(extracurricularsRaw(p)),
		CareerGoals:      clampScore(careerGoalsRaw(p)),
	}
	s.Overall = OverallScore(s.Academics, s.WorkExperience, s.Extracurriculars, s.CareerGoals)
	return s
}

// OverallScore combines category scores with the fixed category weights
func OverallScore(academics, work, extracurriculars, career int) int {
	return roundHalfUp(float64(academics)*WeightAcademics +
		float64(work)*WeightWorkExperience +
		float64(extracurriculars)*WeightExtracurriculars +
		float64(career)*WeightCareerGoals)
}

func academicsRaw(p Profile) float64 {
	a := p.Academics
	var score float64

	switch a.TestScore.Type {
	case TestGMAT:
		score += gmatPoints(a.TestScore.Score)
	case TestGRE:
		score += grePoints(a.TestScore.Score)
	}

	score += gpaPoints(NormalizedGPA(a.GPA, a.GPAScale))

	if a.UndergraduateInstitution != "" {
		score += 10
	}
	if a.UndergraduateMajor != "" {
		score += 10
	}
	return score
}

func gmatPoints(score int) float64 {
	switch {
	case score >= 740:
		return 40
	case score >= 720:
		return 35
	case score >= 700:
		return 30
	case score >= 680:
		return 25
	case score >= 650:
		return 20
	default:
		return 15
	}
}

func grePoints(score int) float64 {
	switch {
	case score >= 330:
		return 40
	case score >= 325:
		return 35
	case score >= 320:
		return 30
	case score >= 315:
		return 25
	case score >= 310:
		return 20
	default:
		return 15
	}
}

// NormalizedGPA converts a GPA to the 4.0 scale. A non-positive scale yields 0.
func NormalizedGPA(gpa, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return gpa / scale * 4.0
}

func gpaPoints(gpa float64) float64 {
	switch {
	case gpa >= 3.7:
		return 40
	case gpa >= 3.5:
		return 35
	case gpa >= 3.3:
		return 30
	case gpa >= 3.0:
		return 25
	default:
		return 15
	}
}

func workExperienceRaw(p Profile) float64 {
	w := p.WorkExperience
	var score float64

	// 4-5 years outscores 6+ years
	switch {
	case w.Years >= 6:
		score += 25
	case w.Years >= 4:
		score += 30
	case w.Years >= 2:
		score += 25
	default:
		score += 15
	}

	score += float64(w.Leadership) * 3

	if w.International {
		score += 15
	}
	if w.Industry != "" || w.Function != "" {
		score += 10
	}
	return score
}

func extracurricularsRaw(p Profile) float64 {
	e := p.Extracurriculars
	score := float64(min(len(e.Activities)*15, 30))

	if e.Leadership {
		score += 25
	}
	if e.Continuity {
		score += 15
	}
	score += float64(e.Impact) * 3
	return score
}

func careerGoalsRaw(p Profile) float64 {
	c := p.Career
	var score float64

	if c.Goals != "" {
		score += 25
	}
	score += float64(c.Clarity)*2.5 + float64(c.Feasibility)*2.5 + float64(c.Fit)*2.5

	if p.TargetSchools.Tier != TierNone {
		score += 15
	}
	return score
}

// clampScore rounds a raw category score and bounds it to [0, 100]
func clampScore(raw float64) int {
	return max(min(roundHalfUp(raw), maxScore), 0)
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
