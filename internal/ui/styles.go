package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for diagnostics
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - borders, progress
	SuccessColor = lipgloss.Color("#43BF6D") // Green - summary marker
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, caret
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Status markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
	CaretMarker   = "^"
)

// Theme holds the styles bound to one output. Styles created from a
// renderer only emit colors its output supports.
type Theme struct {
	ErrorTitle       lipgloss.Style
	ErrorMessage     lipgloss.Style
	WarningTitle     lipgloss.Style
	SuccessTitle     lipgloss.Style
	Template         lipgloss.Style
	Caret            lipgloss.Style
	Muted            lipgloss.Style
	Key              lipgloss.Style
	Value            lipgloss.Style
	TroubleshootItem lipgloss.Style
	Box              lipgloss.Style
}

// NewTheme creates the styles for r
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		ErrorTitle:       r.NewStyle().Foreground(ErrorColor).Bold(true),
		ErrorMessage:     r.NewStyle().Foreground(ErrorColor),
		WarningTitle:     r.NewStyle().Foreground(WarningColor).Bold(true),
		SuccessTitle:     r.NewStyle().Foreground(SuccessColor).Bold(true),
		Template:         r.NewStyle().Foreground(TextColor),
		Caret:            r.NewStyle().Foreground(ErrorColor).Bold(true),
		Muted:            r.NewStyle().Foreground(MutedColor),
		Key:              r.NewStyle().Foreground(MutedColor).Width(15),
		Value:            r.NewStyle().Foreground(TextColor),
		TroubleshootItem: r.NewStyle().Foreground(MutedColor),
		Box:              r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	}
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of the terminal behind f, with fallback
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}
