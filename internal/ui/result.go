package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	// ResultSuccess is a green box with a check mark
	ResultSuccess ResultType = iota
	// ResultFailure is a red box with an error and troubleshooting tips
	ResultFailure
	// ResultWarning is an orange box
	ResultWarning
)

// Detail is one key-value line of a result box
type Detail struct {
	Key   string
	Value string
}

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType // Success, failure, or warning
	Title           string     // e.g., "Discovery failed"
	Details         []Detail   // Key-value details in display order
	Error           error      // Error (for failure results)
	Troubleshooting []string   // Troubleshooting tips (for failure results)
	Width           int        // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Detail) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   MinTerminalWidth,
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           MinTerminalWidth,
	}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Detail) *Result {
	return &Result{
		Type:    ResultWarning,
		Title:   title,
		Details: details,
		Width:   MinTerminalWidth,
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail adds a detail key-value pair
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

// Render returns the result box styled with theme
func (r *Result) Render(theme Theme) string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var titleStyle lipgloss.Style
	var border lipgloss.TerminalColor
	var marker, label string

	switch r.Type {
	case ResultFailure:
		titleStyle, border, marker, label = theme.ErrorTitle, ErrorColor, FailureMarker, "FAILED"
	case ResultWarning:
		titleStyle, border, marker, label = theme.WarningTitle, WarningColor, WarningMarker, "WARNING"
	default:
		titleStyle, border, marker, label = theme.SuccessTitle, SuccessColor, SuccessMarker, "SUCCESS"
	}

	lines := []string{
		"",
		titleStyle.Render(fmt.Sprintf(" %s  %s  ─  %s", marker, label, r.Title)),
		"",
	}

	for _, d := range r.Details {
		lines = append(lines, theme.Key.Render(" "+d.Key+":")+" "+theme.Value.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Error != nil {
		lines = append(lines, theme.ErrorMessage.Render(" Error: "+r.Error.Error()), "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, theme.Muted.Bold(true).Render(" Troubleshooting:"))
		for _, tip := range r.Troubleshooting {
			lines = append(lines, theme.TroubleshootItem.Render("   • "+tip))
		}
		lines = append(lines, "")
	}

	return theme.Box.
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// RenderPlain returns the result as unstyled text for non-terminal output
func (r *Result) RenderPlain() string {
	var b strings.Builder

	label := "SUCCESS"
	switch r.Type {
	case ResultFailure:
		label = "FAILED"
	case ResultWarning:
		label = "WARNING"
	}
	fmt.Fprintf(&b, "%s: %s\n", label, r.Title)

	for _, d := range r.Details {
		fmt.Fprintf(&b, "  %s: %s\n", d.Key, d.Value)
	}
	if r.Error != nil {
		fmt.Fprintf(&b, "  Error: %v\n", r.Error)
	}
	if len(r.Troubleshooting) > 0 {
		b.WriteString("  Troubleshooting:\n")
		for _, tip := range r.Troubleshooting {
			fmt.Fprintf(&b, "    - %s\n", tip)
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}
