package formatters

import (
	"fmt"
	"strings"

	"mbaadvisor/internal/chat"
	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/schools"
	"mbaadvisor/internal/types"
)

// ReportTextFormatter handles text formatting for profile reports
type ReportTextFormatter struct{}

func (f *ReportTextFormatter) Format(data any) (string, error) {
	report, ok := data.(profile.Report)
	if !ok {
		return "", fmt.Errorf("expected Report, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== PROFILE STRENGTH ===\n")
	fmt.Fprintf(&output, "Overall: %d/100 (%s)\n\n", report.Scores.Overall, report.OverallLevel.Label)

	for _, c := range report.Categories {
		fmt.Fprintf(&output, "%s: %d/100 (%s)\n", CategoryTitle(c.Category), c.Score, c.Level.Label)
		if c.Strength != "" {
			fmt.Fprintf(&output, "  + %s\n", c.Strength)
		}
		for _, s := range c.Suggestions {
			fmt.Fprintf(&output, "  - %s\n", s)
		}
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (f *ReportTextFormatter) SupportedType() string { return TypeReport }

// SchoolListTextFormatter handles text formatting for search results
type SchoolListTextFormatter struct{}

func (f *SchoolListTextFormatter) Format(data any) (string, error) {
	list, ok := data.([]schools.School)
	if !ok {
		return "", fmt.Errorf("expected SchoolList, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== SCHOOLS (%d) ===\n", len(list))
	if len(list) == 0 {
		output.WriteString("No schools match these filters.\n")
		return output.String(), nil
	}
	for _, s := range list {
		fmt.Fprintf(&output, "[%d] #%d %s (%s)\n", s.ID, s.Ranking, s.Name, s.Location)
		fmt.Fprintf(&output, "    GMAT %d | Tuition $%d | %d months | %s\n",
			s.AvgGMAT, s.Tuition, s.ProgramLength, strings.Join(s.Specializations, ", "))
	}
	return output.String(), nil
}

func (f *SchoolListTextFormatter) SupportedType() string { return TypeSchoolList }

// ComparisonTextFormatter handles text formatting for school comparisons
type ComparisonTextFormatter struct{}

func (f *ComparisonTextFormatter) Format(data any) (string, error) {
	cmp, ok := data.(schools.Comparison)
	if !ok {
		return "", fmt.Errorf("expected Comparison, got %T", data)
	}

	names := make([]string, len(cmp.Schools))
	for i, s := range cmp.Schools {
		names[i] = s.Name
	}

	var output strings.Builder
	fmt.Fprintf(&output, "=== COMPARISON: %s ===\n", strings.Join(names, " vs "))
	for _, section := range cmp.Sections {
		fmt.Fprintf(&output, "\n%s\n", strings.ToUpper(section.Name))
		for _, row := range section.Rows {
			fmt.Fprintf(&output, "  %s: %s\n", row.Label, strings.Join(row.Values, " | "))
		}
	}
	return output.String(), nil
}

func (f *ComparisonTextFormatter) SupportedType() string { return TypeComparison }

// AdviceTextFormatter handles text formatting for profile advice
type AdviceTextFormatter struct{}

func (f *AdviceTextFormatter) Format(data any) (string, error) {
	advice, ok := data.(types.ProfileAdvice)
	if !ok {
		return "", fmt.Errorf("expected ProfileAdvice, got %T", data)
	}

	var output strings.Builder
	output.WriteString("=== ADVISOR NOTES ===\n")
	output.WriteString(advice.Summary)
	output.WriteString("\n\nPriorities:\n")
	for i, p := range advice.Priorities {
		fmt.Fprintf(&output, "%d. %s\n", i+1, p)
	}
	output.WriteString("\nSchool strategy:\n")
	output.WriteString(advice.SchoolStrategy)
	output.WriteString("\n")
	return output.String(), nil
}

func (f *AdviceTextFormatter) SupportedType() string { return TypeAdvice }

// ChatReplyFormatter prints an assistant reply with its sources
type ChatReplyFormatter struct{}

func (f *ChatReplyFormatter) Format(data any) (string, error) {
	reply, ok := data.(chat.Reply)
	if !ok {
		return "", fmt.Errorf("expected ChatReply, got %T", data)
	}

	var output strings.Builder
	output.WriteString(reply.Message.Content)
	output.WriteString("\n")
	if len(reply.Message.Citations) > 0 {
		output.WriteString("\n")
		for _, c := range reply.Message.Citations {
			fmt.Fprintf(&output, "[%d] %s\n", c.Number, c.Source)
		}
	}
	return output.String(), nil
}

func (f *ChatReplyFormatter) SupportedType() string { return TypeChatReply }
