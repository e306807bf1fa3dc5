package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
)

const scanTickInterval = 100 * time.Millisecond

type scanTickMsg time.Time

// DeviceFoundMsg tells the scan model that one more device was printed
type DeviceFoundMsg struct{}

// ScanDoneMsg ends the scan model
type ScanDoneMsg struct{}

// ScanModel is a Bubble Tea model showing how much of the search window
// has elapsed and how many devices were printed so far.
type ScanModel struct {
	label  string
	window time.Duration
	start  time.Time
	now    time.Time
	found  int
	done   bool
	bar    progress.Model
}

// NewScanModel creates a model for a search window of the given length
func NewScanModel(label string, window time.Duration, width int, opts ...progress.Option) ScanModel {
	opts = append([]progress.Option{
		progress.WithDefaultGradient(),
		progress.WithoutPercentage(),
		progress.WithWidth(barWidth(width)),
	}, opts...)

	now := time.Now()
	return ScanModel{
		label:  label,
		window: window,
		start:  now,
		now:    now,
		bar:    progress.New(opts...),
	}
}

func barWidth(termWidth int) int {
	w := termWidth - 40
	if w > 40 {
		return 40
	}
	if w < 10 {
		return 10
	}
	return w
}

func scanTick() tea.Cmd {
	return tea.Tick(scanTickInterval, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

// Init implements tea.Model
func (m ScanModel) Init() tea.Cmd {
	return scanTick()
}

// Update implements tea.Model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanTickMsg:
		if m.done {
			return m, nil
		}
		m.now = time.Time(msg)
		return m, scanTick()

	case DeviceFoundMsg:
		m.found++

	case ScanDoneMsg:
		m.done = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.bar.Width = barWidth(msg.Width)
	}
	return m, nil
}

// Percent returns the elapsed share of the search window
func (m ScanModel) Percent() float64 {
	if m.window <= 0 {
		return 1
	}
	p := float64(m.now.Sub(m.start)) / float64(m.window)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Found returns the number of devices reported so far
func (m ScanModel) Found() int {
	return m.found
}

// View implements tea.Model. The bar is cleared once the scan is done.
func (m ScanModel) View() string {
	if m.done {
		return ""
	}

	noun := "devices"
	if m.found == 1 {
		noun = "device"
	}

	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(m.label)
	b.WriteString(" ")
	b.WriteString(m.bar.ViewAs(m.Percent()))
	fmt.Fprintf(&b, "  %d %s", m.found, noun)
	return b.String()
}

// ScanProgress drives a ScanModel on a terminal while discovery runs
type ScanProgress struct {
	program *tea.Program
	done    chan struct{}
}

// StartScanProgress starts showing a progress bar on f. Input is not read
// and signals are left to the caller.
func StartScanProgress(f *os.File, label string, window time.Duration) *ScanProgress {
	profile := termenv.NewOutput(f).EnvColorProfile()
	model := NewScanModel(label, window, TerminalWidth(f), progress.WithColorProfile(profile))

	sp := &ScanProgress{
		program: tea.NewProgram(model,
			tea.WithOutput(f),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(sp.done)
		_, _ = sp.program.Run()
	}()
	return sp
}

// DeviceFound increments the device counter
func (sp *ScanProgress) DeviceFound() {
	sp.program.Send(DeviceFoundMsg{})
}

// Stop clears the bar and waits for the terminal to be restored
func (sp *ScanProgress) Stop() {
	sp.program.Send(ScanDoneMsg{})
	<-sp.done
}
