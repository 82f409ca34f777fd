package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/complyscan/complyscan/internal/report"
	"github.com/complyscan/complyscan/internal/types"
)

func sampleFindings() []types.Finding {
	return []types.Finding{
		{Path: "iam/policy.json", Line: 3, RuleID: "broad_iam_policy", Framework: types.FwSOC2, ControlID: "CC 6.2", Severity: types.SevCritical, Confidence: "high"},
		{Path: "config/app.yml", Line: 12, RuleID: "debug_enabled", Framework: types.FwSOC2, ControlID: "CC 7.1", Severity: types.SevMed, Confidence: "medium"},
		{Path: "docs/privacy.md", Line: 1, RuleID: "retention_unlimited", Framework: types.FwGDPR, ControlID: "Art. 5", Severity: types.SevMed, Confidence: "low"},
	}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

func TestNewModel_Rows(t *testing.T) {
	m := NewModel(sampleFindings())
	if len(m.table.Rows()) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(m.table.Rows()))
	}
	if m.showEmpty {
		t.Fatal("showEmpty should be false with findings present")
	}
	if got := m.table.Rows()[0][0]; got != "CRIT" {
		t.Fatalf("expected CRIT severity cell, got %q", got)
	}
}

func TestNewModel_Empty(t *testing.T) {
	m := NewModel(nil)
	if !m.showEmpty {
		t.Fatal("showEmpty should be true with no findings")
	}
}

func TestSeverityFilterCycle(t *testing.T) {
	m := sized(t, NewModel(sampleFindings()))

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = updated.(Model)
	if m.severityFilter != types.SevCritical {
		t.Fatalf("expected critical filter, got %q", m.severityFilter)
	}
	if len(m.visible()) != 1 {
		t.Fatalf("expected 1 critical finding, got %d", len(m.visible()))
	}

	// cycle through high, medium
	for i := 0; i < 2; i++ {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
		m = updated.(Model)
	}
	if m.severityFilter != types.SevMed {
		t.Fatalf("expected medium filter, got %q", m.severityFilter)
	}
	if len(m.visible()) != 2 {
		t.Fatalf("expected 2 medium findings, got %d", len(m.visible()))
	}
}

func TestFrameworkFilter(t *testing.T) {
	m := sized(t, NewModel(sampleFindings()))
	m.frameworkFilter = types.FwGDPR
	m.applyFilters()
	if len(m.visible()) != 1 || m.visible()[0].RuleID != "retention_unlimited" {
		t.Fatalf("expected the single gdpr finding, got %#v", m.visible())
	}
}

func TestSearchFiltersByRuleAndPath(t *testing.T) {
	m := sized(t, NewModel(sampleFindings()))
	m.searchQuery = "iam"
	m.applyFilters()
	if len(m.visible()) != 1 || m.visible()[0].Path != "iam/policy.json" {
		t.Fatalf("search did not narrow to iam finding: %#v", m.visible())
	}

	m.searchQuery = "cc 7.1"
	m.applyFilters()
	if len(m.visible()) != 1 || m.visible()[0].RuleID != "debug_enabled" {
		t.Fatalf("search by control failed: %#v", m.visible())
	}
}

func TestEscClearsFilters(t *testing.T) {
	m := sized(t, NewModel(sampleFindings()))
	m.severityFilter = types.SevMed
	m.searchQuery = "docs"
	m.applyFilters()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.severityFilter != "" || m.searchQuery != "" {
		t.Fatal("esc should clear filters")
	}
	if len(m.visible()) != 3 {
		t.Fatalf("expected all findings visible, got %d", len(m.visible()))
	}
}

func TestBaselinedMarkInDetail(t *testing.T) {
	findings := sampleFindings()
	base := report.Baseline{Items: map[string]bool{
		"iam/policy.json|broad_iam_policy": true,
	}}
	m := sized(t, NewModelWithBaseline(findings, base))
	detail := m.renderDetail(findings[0])
	if !strings.Contains(detail, "in baseline") {
		t.Fatalf("expected baseline marker in detail, got:\n%s", detail)
	}
	detail = m.renderDetail(findings[1])
	if strings.Contains(detail, "in baseline") {
		t.Fatal("non-baselined finding should not be marked")
	}
}

func TestDetailFallsBackToExcerptForVirtualPath(t *testing.T) {
	m := sized(t, NewModel(nil))
	f := types.Finding{
		Path:     "alpine:3.20::sha256:abc/etc/app.conf",
		Line:     2,
		Excerpt:  "debug = true",
		RuleID:   "debug_enabled",
		Severity: types.SevMed,
	}
	if got := m.sourceContext(f); got != "debug = true" {
		t.Fatalf("expected excerpt fallback for virtual path, got %q", got)
	}
}

func TestTitleShowsVisibleCount(t *testing.T) {
	m := sized(t, NewModel(sampleFindings()))
	if !strings.Contains(m.View(), "complyscan: 3 findings") {
		t.Fatal("title should show the visible finding count")
	}
}

func TestHelpOverlayToggles(t *testing.T) {
	m := sized(t, NewModel(sampleFindings()))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = updated.(Model)
	if !m.showHelp {
		t.Fatal("? should show help")
	}
	if !strings.Contains(m.View(), "key bindings") {
		t.Fatal("help view should render key bindings")
	}
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = updated.(Model)
	if m.showHelp {
		t.Fatal("any key should dismiss help")
	}
}
