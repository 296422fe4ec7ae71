package profile

// StrengthLevel is a labeled score band
type StrengthLevel struct {
	Threshold int    `json:"threshold"`
	Label     string `json:"label"`
}

// StrengthLevels are ordered from highest threshold to lowest
var StrengthLevels = []StrengthLevel{
	{Threshold: 85, Label: "Exceptional"},
	{Threshold: 70, Label: "Strong"},
	{Threshold: 60, Label: "Competitive"},
	{Threshold: 50, Label: "Moderate"},
	{Threshold: 0, Label: "Needs Improvement"},
}

// LevelFor returns the first level whose threshold the score reaches
func LevelFor(score int) StrengthLevel {
	for _, level := range StrengthLevels {
		if score >= level.Threshold {
			return level
		}
	}
	return StrengthLevels[len(StrengthLevels)-1]
}

// CategoryResult is the score, level and suggestions for one category
type CategoryResult struct {
	Category    Category      `json:"category"`
	Score       int           `json:"score"`
	Level       StrengthLevel `json:"level"`
	Suggestions []string      `json:"suggestions"`
	Strength    string        `json:"strength,omitempty"` // set when the category has no suggestions
}

// Report is the combined result of scoring a profile and generating suggestions
type Report struct {
	Scores       Scores           `json:"scores"`
	OverallLevel StrengthLevel    `json:"overallLevel"`
	Suggestions  Suggestions      `json:"suggestions"`
	Categories   []CategoryResult `json:"categories"`
}

// Analyze scores the profile and generates its suggestions in one call
func Analyze(p Profile) Report {
	scores := ComputeScores(p)
	suggestions := GenerateSuggestions(p)

	categories := make([]CategoryResult, 0, len(Categories))
	for _, c := range Categories {
		result := CategoryResult{
			Category:    c,
			Score:       scores.Get(c),
			Level:       LevelFor(scores.Get(c)),
			Suggestions: suggestions.For(c),
		}
		if suggestions.Strong(c) {
			result.Strength = StrengthMessage(c)
		}
		categories = append(categories, result)
	}

	return Report{
		Scores:       scores,
		OverallLevel: LevelFor(scores.Overall),
		Suggestions:  suggestions,
		Categories:   categories,
	}
}
