package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestScanModel_Progress(t *testing.T) {
	m := NewScanModel("Searching", 2*time.Second, 80)

	if got := m.Percent(); got != 0 {
		t.Errorf("initial Percent() = %v, want 0", got)
	}

	next, cmd := m.Update(scanTickMsg(m.start.Add(time.Second)))
	m = next.(ScanModel)
	if cmd == nil {
		t.Error("tick should schedule another tick")
	}
	if got := m.Percent(); got != 0.5 {
		t.Errorf("Percent() after 1s = %v, want 0.5", got)
	}

	next, _ = m.Update(scanTickMsg(m.start.Add(5 * time.Second)))
	m = next.(ScanModel)
	if got := m.Percent(); got != 1 {
		t.Errorf("Percent() past window = %v, want 1", got)
	}
}

func TestScanModel_CountsDevices(t *testing.T) {
	m := NewScanModel("Searching", time.Second, 80)

	next, _ := m.Update(DeviceFoundMsg{})
	m = next.(ScanModel)
	if !strings.Contains(m.View(), "1 device") {
		t.Errorf("View() = %q, want device count", m.View())
	}

	next, _ = m.Update(DeviceFoundMsg{})
	m = next.(ScanModel)
	if m.Found() != 2 || !strings.Contains(m.View(), "2 devices") {
		t.Errorf("Found() = %d, View() = %q", m.Found(), m.View())
	}
	if !strings.Contains(m.View(), "Searching") {
		t.Errorf("View() = %q, want label", m.View())
	}
}

func TestScanModel_Done(t *testing.T) {
	m := NewScanModel("Searching", time.Second, 80)

	next, cmd := m.Update(ScanDoneMsg{})
	m = next.(ScanModel)
	if cmd == nil {
		t.Fatal("done should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("done command returned %T, want tea.QuitMsg", cmd())
	}
	if m.View() != "" {
		t.Errorf("View() after done = %q, want empty", m.View())
	}

	if _, cmd := m.Update(scanTickMsg(time.Now())); cmd != nil {
		t.Error("ticks after done should not reschedule")
	}
}

func TestScanModel_ZeroWindow(t *testing.T) {
	m := NewScanModel("Searching", 0, 80)
	if got := m.Percent(); got != 1 {
		t.Errorf("Percent() = %v, want 1", got)
	}
}

func TestBarWidth(t *testing.T) {
	tests := []struct{ term, want int }{
		{term: 60, want: 20},
		{term: 100, want: 40},
		{term: 30, want: 10},
	}
	for _, tt := range tests {
		if got := barWidth(tt.term); got != tt.want {
			t.Errorf("barWidth(%d) = %d, want %d", tt.term, got, tt.want)
		}
	}
}
