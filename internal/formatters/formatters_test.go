package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"mbaadvisor/internal/chat"
	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/schools"
	"mbaadvisor/internal/types"
)

func testComparison(t *testing.T) schools.Comparison {
	t.Helper()
	catalog := schools.DefaultCatalog()
	sel, err := schools.NewSelection(catalog, 1, 3)
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	cmp, err := schools.Compare(catalog, sel)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	return cmp
}

func TestGetSupportedFormats(t *testing.T) {
	got := GlobalRegistry.GetSupportedFormats()
	want := []string{"console", "json", "markdown", "text"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("GetSupportedFormats() = %v, want %v", got, want)
	}
}

func TestGetDataType(t *testing.T) {
	tests := []struct {
		data any
		want string
	}{
		{profile.Report{}, TypeReport},
		{[]schools.School{}, TypeSchoolList},
		{schools.Comparison{}, TypeComparison},
		{types.ProfileAdvice{}, TypeAdvice},
		{chat.Reply{}, TypeChatReply},
		{map[string]int{}, TypeAny},
	}
	for _, tt := range tests {
		if got := getDataType(tt.data); got != tt.want {
			t.Errorf("getDataType(%T) = %s, want %s", tt.data, got, tt.want)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	report := profile.Analyze(profile.DefaultProfile())

	out, err := GlobalRegistry.Format(report, "json")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	var decoded profile.Report
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Scores.Overall != report.Scores.Overall {
		t.Errorf("Overall = %d, want %d", decoded.Scores.Overall, report.Scores.Overall)
	}
}

func TestReportFormats(t *testing.T) {
	report := profile.Analyze(profile.DefaultProfile())

	for _, format := range []string{"text", "markdown", "console"} {
		t.Run(format, func(t *testing.T) {
			out, err := GlobalRegistry.Format(report, format)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			for _, want := range []string{"Academics", "Work Experience", "Extracurriculars", "Career Goals", report.OverallLevel.Label} {
				if !strings.Contains(out, want) {
					t.Errorf("%s output should contain %q", format, want)
				}
			}
		})
	}
}

func TestSchoolListFormats(t *testing.T) {
	list := schools.DefaultCatalog().All()

	for _, format := range []string{"text", "markdown", "console"} {
		t.Run(format, func(t *testing.T) {
			out, err := GlobalRegistry.Format(list, format)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			for _, s := range list {
				if !strings.Contains(out, s.Name) {
					t.Errorf("%s output should list %s", format, s.Name)
				}
			}
		})
	}

	out, err := GlobalRegistry.Format([]schools.School{}, "text")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, "No schools match") {
		t.Errorf("Empty result should say so, got %q", out)
	}
}

func TestComparisonFormats(t *testing.T) {
	cmp := testComparison(t)

	for _, format := range []string{"text", "markdown", "console"} {
		t.Run(format, func(t *testing.T) {
			out, err := GlobalRegistry.Format(cmp, format)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			for _, want := range []string{"Harvard Business School", "INSEAD", "Average GMAT", "Scholarship Availability"} {
				if !strings.Contains(out, want) {
					t.Errorf("%s output should contain %q", format, want)
				}
			}
		})
	}
}

func TestAdviceFormats(t *testing.T) {
	advice := types.ProfileAdvice{
		Summary:        "A solid academic base with room to grow leadership.",
		Priorities:     []string{"Lead a cross-functional project", "Retake the GMAT"},
		SchoolStrategy: "Apply Round 1 to two reach schools.",
	}

	out, err := GlobalRegistry.Format(advice, "markdown")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.Contains(out, "2. Retake the GMAT") {
		t.Errorf("Priorities should be numbered, got %q", out)
	}
	if !strings.Contains(out, "## School Strategy") {
		t.Error("Markdown advice should have a strategy heading")
	}
}

func TestChatReplyFormatter(t *testing.T) {
	reply := chat.Reply{
		SessionID: "abc",
		Message: types.Message{
			Role:    types.RoleAssistant,
			Content: "Round 1 deadlines fall in September.",
			Citations: []types.Citation{
				{Number: 1, Source: "Wharton admissions guide"},
			},
		},
	}

	out, err := GlobalRegistry.Format(reply, "text")
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if !strings.HasPrefix(out, "Round 1 deadlines") || !strings.Contains(out, "[1] Wharton admissions guide") {
		t.Errorf("Unexpected reply output %q", out)
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	if _, err := GlobalRegistry.Format(profile.Report{}, "yaml"); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}

func TestFormatterTypeMismatch(t *testing.T) {
	if _, err := (&ReportTextFormatter{}).Format("not a report"); err == nil {
		t.Error("Expected an error for the wrong data type")
	}
}

func TestScoreBarPlain(t *testing.T) {
	style := consoleStyle{}
	bar := style.scoreBar(50, "Moderate")
	if strings.Count(bar, "█") != 10 || strings.Count(bar, "░") != 10 {
		t.Errorf("Expected a half-filled bar, got %q", bar)
	}
	if full := style.scoreBar(150, "Exceptional"); strings.Contains(full, "░") {
		t.Errorf("Scores above 100 should fill the bar, got %q", full)
	}
}

func TestCategoryTitle(t *testing.T) {
	if got := CategoryTitle(profile.CategoryWorkExperience); got != "Work Experience" {
		t.Errorf("CategoryTitle() = %q", got)
	}
	if got := CategoryTitle(profile.Category("other")); got != "other" {
		t.Errorf("Unknown categories should fall back to the key, got %q", got)
	}
}
