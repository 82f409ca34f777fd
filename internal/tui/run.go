package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/complyscan/complyscan/internal/report"
	"github.com/complyscan/complyscan/internal/types"
)

// Run starts the interactive findings browser.
func Run(findings []types.Finding) error {
	m := NewModel(findings)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// RunWithBaseline starts the browser with baselined findings marked.
func RunWithBaseline(findings []types.Finding, baseline report.Baseline) error {
	m := NewModelWithBaseline(findings, baseline)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
