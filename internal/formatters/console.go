package formatters

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mbaadvisor/internal/profile"
	"mbaadvisor/internal/schools"
)

const barWidth = 20

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))

	levelStyles = map[string]lipgloss.Style{
		"Exceptional":       lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		"Strong":            lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		"Competitive":       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"Moderate":          lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"Needs Improvement": lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

// consoleStyle renders through lipgloss only when colorize is set
type consoleStyle struct {
	colorize bool
}

func (c consoleStyle) render(style lipgloss.Style, s string) string {
	if !c.colorize {
		return s
	}
	return style.Render(s)
}

func (c consoleStyle) level(label string) string {
	style, ok := levelStyles[label]
	if !ok {
		return label
	}
	return c.render(style, label)
}

// scoreBar draws a fixed-width bar for a 0-100 score
func (c consoleStyle) scoreBar(score int, label string) string {
	filled := max(0, min(barWidth, score*barWidth/100))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	if style, ok := levelStyles[label]; ok {
		return c.render(style, bar)
	}
	return bar
}

// ReportConsoleFormatter prints a profile report for a terminal
type ReportConsoleFormatter struct {
	consoleStyle
}

// NewReportConsoleFormatter creates a colorized report formatter
func NewReportConsoleFormatter() *ReportConsoleFormatter {
	return &ReportConsoleFormatter{consoleStyle{colorize: true}}
}

func (f *ReportConsoleFormatter) Format(data any) (string, error) {
	report, ok := data.(profile.Report)
	if !ok {
		return "", fmt.Errorf("expected Report, got %T", data)
	}

	var output strings.Builder
	output.WriteString(f.render(headerStyle, "Profile Strength"))
	fmt.Fprintf(&output, "  %3d  %s\n\n", report.Scores.Overall, f.level(report.OverallLevel.Label))

	for _, c := range report.Categories {
		fmt.Fprintf(&output, "%-18s %s %3d  %s\n",
			CategoryTitle(c.Category), f.scoreBar(c.Score, c.Level.Label), c.Score, f.level(c.Level.Label))
		if c.Strength != "" {
			fmt.Fprintf(&output, "  %s %s\n", f.render(levelStyles["Strong"], "✓"), c.Strength)
		}
		for _, s := range c.Suggestions {
			fmt.Fprintf(&output, "  %s %s\n", f.render(mutedStyle, "•"), s)
		}
	}

	return output.String(), nil
}

func (f *ReportConsoleFormatter) SupportedType() string { return TypeReport }

// SchoolListConsoleFormatter prints search results for a terminal
type SchoolListConsoleFormatter struct {
	consoleStyle
}

// NewSchoolListConsoleFormatter creates a colorized school list formatter
func NewSchoolListConsoleFormatter() *SchoolListConsoleFormatter {
	return &SchoolListConsoleFormatter{consoleStyle{colorize: true}}
}

func (f *SchoolListConsoleFormatter) Format(data any) (string, error) {
	list, ok := data.([]schools.School)
	if !ok {
		return "", fmt.Errorf("expected SchoolList, got %T", data)
	}
	if len(list) == 0 {
		return f.render(levelStyles["Needs Improvement"], "✗") + " No schools match these filters.\n", nil
	}

	var output strings.Builder
	for _, s := range list {
		fmt.Fprintf(&output, "%s %s %s\n",
			f.render(mutedStyle, fmt.Sprintf("#%-3d", s.Ranking)),
			f.render(headerStyle, s.Name),
			f.render(mutedStyle, fmt.Sprintf("(id %d, %s)", s.ID, s.Location)))
		fmt.Fprintf(&output, "     GMAT %d · $%d · %d months · %s\n",
			s.AvgGMAT, s.Tuition, s.ProgramLength, strings.Join(s.Specializations, ", "))
	}
	return output.String(), nil
}

func (f *SchoolListConsoleFormatter) SupportedType() string { return TypeSchoolList }

// ComparisonConsoleFormatter prints a side-by-side comparison table
type ComparisonConsoleFormatter struct {
	consoleStyle
}

// NewComparisonConsoleFormatter creates a colorized comparison formatter
func NewComparisonConsoleFormatter() *ComparisonConsoleFormatter {
	return &ComparisonConsoleFormatter{consoleStyle{colorize: true}}
}

func (f *ComparisonConsoleFormatter) Format(data any) (string, error) {
	cmp, ok := data.(schools.Comparison)
	if !ok {
		return "", fmt.Errorf("expected Comparison, got %T", data)
	}

	labelWidth := 0
	for _, section := range cmp.Sections {
		for _, row := range section.Rows {
			labelWidth = max(labelWidth, len(row.Label))
		}
	}
	colWidths := make([]int, len(cmp.Schools))
	for i, s := range cmp.Schools {
		colWidths[i] = len(s.Name)
	}
	for _, section := range cmp.Sections {
		for _, row := range section.Rows {
			for i, v := range row.Values {
				if i < len(colWidths) {
					colWidths[i] = max(colWidths[i], len(v))
				}
			}
		}
	}

	var output strings.Builder
	output.WriteString(strings.Repeat(" ", labelWidth))
	for i, s := range cmp.Schools {
		output.WriteString("  ")
		output.WriteString(f.render(headerStyle, pad(s.Name, colWidths[i])))
	}
	output.WriteString("\n")

	for _, section := range cmp.Sections {
		fmt.Fprintf(&output, "\n%s\n", f.render(headerStyle, section.Name))
		for _, row := range section.Rows {
			output.WriteString(f.render(mutedStyle, pad(row.Label, labelWidth)))
			for i, v := range row.Values {
				output.WriteString("  ")
				if i < len(colWidths) {
					v = pad(v, colWidths[i])
				}
				output.WriteString(v)
			}
			output.WriteString("\n")
		}
	}
	return output.String(), nil
}

func (f *ComparisonConsoleFormatter) SupportedType() string { return TypeComparison }

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
