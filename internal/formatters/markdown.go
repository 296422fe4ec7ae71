package formatters

import (
	"fmt"
	"strings"

	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/schools"
	"mbaadvisor/internal/types"
)

// ReportMarkdownFormatter handles markdown formatting for profile reports
type ReportMarkdownFormatter struct{}

func (f *ReportMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(profile.Report)
	if !ok {
		return "", fmt.Errorf("expected Report, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Profile Strength\n\n")
	fmt.Fprintf(&output, "**Overall:** %d/100 (%s)\n\n", report.Scores.Overall, report.OverallLevel.Label)

	output.WriteString("| Category | Score | Level |\n")
	output.WriteString("|----------|-------|-------|\n")
	for _, c := range report.Categories {
		fmt.Fprintf(&output, "| %s | %d | %s |\n", CategoryTitle(c.Category), c.Score, c.Level.Label)
	}

	for _, c := range report.Categories {
		fmt.Fprintf(&output, "\n## %s\n\n", CategoryTitle(c.Category))
		if c.Strength != "" {
			fmt.Fprintf(&output, "%s\n", c.Strength)
		}
		for _, s := range c.Suggestions {
			fmt.Fprintf(&output, "- %s\n", s)
		}
	}

	return output.String(), nil
}

func (f *ReportMarkdownFormatter) SupportedType() string { return TypeReport }

// SchoolListMarkdownFormatter handles markdown formatting for search results
type SchoolListMarkdownFormatter struct{}

func (f *SchoolListMarkdownFormatter) Format(data any) (string, error) {
	list, ok := data.([]schools.School)
	if !ok {
		return "", fmt.Errorf("expected SchoolList, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Schools\n\n")
	if len(list) == 0 {
		output.WriteString("_No schools match these filters._\n")
		return output.String(), nil
	}

	output.WriteString("| ID | Rank | School | Location | GMAT | Tuition | Length |\n")
	output.WriteString("|----|------|--------|----------|------|---------|--------|\n")
	for _, s := range list {
		fmt.Fprintf(&output, "| %d | %d | %s | %s | %d | $%d | %d months |\n",
			s.ID, s.Ranking, s.Name, s.Location, s.AvgGMAT, s.Tuition, s.ProgramLength)
	}
	return output.String(), nil
}

func (f *SchoolListMarkdownFormatter) SupportedType() string { return TypeSchoolList }

// ComparisonMarkdownFormatter handles markdown formatting for comparisons
type ComparisonMarkdownFormatter struct{}

func (f *ComparisonMarkdownFormatter) Format(data any) (string, error) {
	cmp, ok := data.(schools.Comparison)
	if !ok {
		return "", fmt.Errorf("expected Comparison, got %T", data)
	}

	names := make([]string, len(cmp.Schools))
	for i, s := range cmp.Schools {
		names[i] = s.Name
	}

	var output strings.Builder
	output.WriteString("# School Comparison\n")
	for _, section := range cmp.Sections {
		fmt.Fprintf(&output, "\n## %s\n\n", section.Name)
		fmt.Fprintf(&output, "| | %s |\n", strings.Join(names, " | "))
		fmt.Fprintf(&output, "|---|%s\n", strings.Repeat("---|", len(names)))
		for _, row := range section.Rows {
			fmt.Fprintf(&output, "| %s | %s |\n", row.Label, strings.Join(row.Values, " | "))
		}
	}
	return output.String(), nil
}

func (f *ComparisonMarkdownFormatter) SupportedType() string { return TypeComparison }

// AdviceMarkdownFormatter handles markdown formatting for profile advice
type AdviceMarkdownFormatter struct{}

func (f *AdviceMarkdownFormatter) Format(data any) (string, error) {
	advice, ok := data.(types.ProfileAdvice)
	if !ok {
		return "", fmt.Errorf("expected ProfileAdvice, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Advisor Notes\n\n")
	output.WriteString(advice.Summary)
	output.WriteString("\n\n## Priorities\n\n")
	for i, p := range advice.Priorities {
		fmt.Fprintf(&output, "%d. %s\n", i+1, p)
	}
	output.WriteString("\n## School Strategy\n\n")
	output.WriteString(advice.SchoolStrategy)
	output.WriteString("\n")
	return output.String(), nil
}

func (f *AdviceMarkdownFormatter) SupportedType() string { return TypeAdvice }
