package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/complyscan/complyscan/internal/types"
)

// copyFinding places a human-readable summary of the finding on the system
// clipboard. Evidence is already redacted upstream, so the excerpt is safe
// to paste into tickets.
func copyFinding(f types.Finding) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s (%s %s)\n", strings.ToUpper(string(f.Severity)), f.RuleID, strings.ToUpper(string(f.Framework)), f.ControlID)
	fmt.Fprintf(&b, "%s:%d\n", f.Path, f.Line)
	if f.WhyItMatters != "" {
		fmt.Fprintf(&b, "Why it matters: %s\n", f.WhyItMatters)
	}
	if f.Remediation != "" {
		fmt.Fprintf(&b, "Remediation: %s\n", f.Remediation)
	}
	if f.Excerpt != "" {
		fmt.Fprintf(&b, "\n%s\n", f.Excerpt)
	}
	return clipboard.WriteAll(b.String())
}

// exportFindings writes the currently visible findings to a timestamped JSON
// file in the working directory and returns its path.
func exportFindings(findings []types.Finding) (string, error) {
	path := fmt.Sprintf("complyscan_findings_%s.json", time.Now().Format("20060102_150405"))
	b, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, b, 0600); err != nil {
		return "", err
	}
	return path, nil
}

type editorFinishedMsg struct{ err error }

// openInEditor launches $EDITOR at the finding's line. Virtual paths from
// registry images have no file on disk and cannot be opened.
func openInEditor(f types.Finding) tea.Cmd {
	if strings.Contains(f.Path, "::") {
		return func() tea.Msg {
			return editorFinishedMsg{err: fmt.Errorf("cannot open image content %s", f.Path)}
		}
	}
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	c := exec.Command(editor, fmt.Sprintf("+%d", f.Line), f.Path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}
