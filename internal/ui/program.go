package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/muurk/upnpc/internal/format"
	"github.com/muurk/upnpc/internal/logging"
	"go.uber.org/zap"
)

// Printer writes diagnostics to one output. A styled printer renders
// boxes and colors; a plain printer writes the same information as text.
type Printer struct {
	out    io.Writer
	width  int
	styled bool
	theme  Theme
}

// NewPrinter creates a Printer for f, styled when f is a terminal
func NewPrinter(f *os.File) *Printer {
	if f == nil {
		f = os.Stderr
	}
	return &Printer{
		out:    f,
		width:  TerminalWidth(f),
		styled: IsTerminal(f),
		theme:  NewTheme(lipgloss.NewRenderer(f)),
	}
}

// NewPlainPrinter creates an unstyled Printer writing to w
func NewPlainPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.Ascii)
	return &Printer{
		out:   w,
		width: MinTerminalWidth,
		theme: NewTheme(r),
	}
}

// Styled reports whether the printer renders for a terminal
func (p *Printer) Styled() bool {
	return p.styled
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// PrintResult writes a result box, or its plain form when unstyled
func (p *Printer) PrintResult(r *Result) {
	if !p.styled {
		p.Println(r.RenderPlain())
		return
	}
	p.Println(r.SetWidth(p.width).Render(p.theme))
}

// PrintSuccess prints a success result
func (p *Printer) PrintSuccess(title string, details ...Detail) {
	p.PrintResult(NewSuccessResult(title, details...))
}

// PrintError prints a failure result with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	logging.Debug("Reporting failure", zap.String("title", title), zap.Error(err))
	p.PrintResult(NewFailureResult(title, err, troubleshooting))
}

// PrintFormatError reports a template error with a caret under the
// offending character:
//
//	Invalid format string at position 7: unknown placeholder "nme"
//	  {name} {nme}
//	         ^
func (p *Printer) PrintFormatError(template string, err *format.Error) {
	p.Println(p.RenderFormatError(template, err))
}

// RenderFormatError returns the report written by PrintFormatError
func (p *Printer) RenderFormatError(template string, err *format.Error) string {
	title := fmt.Sprintf("Invalid format string at position %d", err.Offset)
	detail := err.Message
	if err.Err != nil {
		detail = fmt.Sprintf("%s (%v)", detail, err.Err)
	}

	line, column := locate(template, err.Offset)
	caret := strings.Repeat(" ", column) + CaretMarker

	lines := []string{
		p.theme.ErrorTitle.Render(title+":") + " " + detail,
		"  " + p.theme.Template.Render(line),
		"  " + p.theme.Caret.Render(caret),
	}
	if tip := formatErrorTip(err); tip != "" {
		lines = append(lines, p.theme.Muted.Render("  "+tip))
	}
	return strings.Join(lines, "\n")
}

// CaretColumn returns the display column of the character at offset in
// template. Wide characters count for their terminal width.
func CaretColumn(template string, offset int) int {
	runes := []rune(template)
	if offset > len(runes) {
		offset = len(runes)
	}
	if offset < 0 {
		offset = 0
	}
	return lipgloss.Width(string(runes[:offset]))
}

// locate returns the template line holding the character at offset and
// the caret column within that line
func locate(template string, offset int) (string, int) {
	runes := []rune(template)
	if offset > len(runes) {
		offset = len(runes)
	}
	if offset < 0 {
		offset = 0
	}
	start := 0
	for i := 0; i < offset; i++ {
		if runes[i] == '\n' {
			start = i + 1
		}
	}
	end := start
	for end < len(runes) && runes[end] != '\n' {
		end++
	}
	line := string(runes[start:end])
	return line, CaretColumn(line, offset-start)
}

func formatErrorTip(err *format.Error) string {
	switch err.Type {
	case format.ErrTypeUnknownName:
		return "Run 'upnpc fields' to list the available placeholders."
	case format.ErrTypeUnsupported:
		return "Use {name} or {name:?}; numeric styles such as x, b and e do not apply to text."
	case format.ErrTypeSyntax:
		return "Write {{ and }} for literal braces."
	default:
		return ""
	}
}

// PrintSummary writes the closing line of a discovery run
func (p *Printer) PrintSummary(printed int, elapsed time.Duration) {
	noun := "devices"
	if printed == 1 {
		noun = "device"
	}
	text := fmt.Sprintf("%d %s in %s", printed, noun, elapsed.Round(100*time.Millisecond))

	marker := p.theme.SuccessTitle.Render(SuccessMarker)
	if printed == 0 {
		marker = p.theme.WarningTitle.Render(WarningMarker)
	}
	p.Println(marker + " " + p.theme.Muted.Render(text))
}
