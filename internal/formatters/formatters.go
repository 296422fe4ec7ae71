package formatters

import (
	"encoding/json"
	"fmt"
	"sort"

	"mbaadvisor/internal/chat"
	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/schools"
	"mbaadvisor/internal/types"
)

// Formatter renders one kind of result
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// Data type names used as registry keys
const (
	TypeAny        = "any"
	TypeReport     = "Report"
	TypeSchoolList = "SchoolList"
	TypeComparison = "Comparison"
	TypeAdvice     = "ProfileAdvice"
	TypeChatReply  = "ChatReply"
)

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry holds the default formatters
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", TypeAny, &JSONFormatter{})

	registry.RegisterFormatter("text", TypeReport, &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", TypeReport, &ReportMarkdownFormatter{})
	registry.RegisterFormatter("console", TypeReport, NewReportConsoleFormatter())

	registry.RegisterFormatter("text", TypeSchoolList, &SchoolListTextFormatter{})
	registry.RegisterFormatter("markdown", TypeSchoolList, &SchoolListMarkdownFormatter{})
	registry.RegisterFormatter("console", TypeSchoolList, NewSchoolListConsoleFormatter())

	registry.RegisterFormatter("text", TypeComparison, &ComparisonTextFormatter{})
	registry.RegisterFormatter("markdown", TypeComparison, &ComparisonMarkdownFormatter{})
	registry.RegisterFormatter("console", TypeComparison, NewComparisonConsoleFormatter())

	registry.RegisterFormatter("text", TypeAdvice, &AdviceTextFormatter{})
	registry.RegisterFormatter("markdown", TypeAdvice, &AdviceMarkdownFormatter{})
	registry.RegisterFormatter("console", TypeAdvice, &AdviceTextFormatter{})

	for _, format := range []string{"text", "markdown", "console"} {
		registry.RegisterFormatter(format, TypeChatReply, &ChatReplyFormatter{})
	}

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[TypeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case profile.Report:
		return TypeReport
	case []schools.School:
		return TypeSchoolList
	case schools.Comparison:
		return TypeComparison
	case types.ProfileAdvice:
		return TypeAdvice
	case chat.Reply:
		return TypeChatReply
	default:
		return TypeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return TypeAny
}

var categoryTitles = map[profile.Category]string{
	profile.CategoryAcademics:        "Academics",
	profile.CategoryWorkExperience:   "Work Experience",
	profile.CategoryExtracurriculars: "Extracurriculars",
	profile.CategoryCareerGoals:      "Career Goals",
}

// CategoryTitle returns the display name of a category
func CategoryTitle(c profile.Category) string {
	if title, ok := categoryTitles[c]; ok {
		return title
	}
	return string(c)
}
