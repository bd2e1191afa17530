package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loghound/loghound/internal/types"
)

// Run opens the results browser for a fresh report.
func Run(report types.AggregateReport, rescanFunc func() (types.AggregateReport, error)) error {
	m := NewModel(report, rescanFunc)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// RunCached opens the browser on a persisted report from an earlier scan.
func RunCached(report types.AggregateReport, rescanFunc func() (types.AggregateReport, error), timestamp time.Time) error {
	m := NewModel(report, rescanFunc)
	m.status = fmt.Sprintf("Viewing results from %s — press r to rescan", timestamp.Format("2006-01-02 15:04"))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
