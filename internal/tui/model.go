package tui

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/complyscan/complyscan/internal/report"
	"github.com/complyscan/complyscan/internal/types"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	sevCritStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	sevHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sevMedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	sevLowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// severityText returns plain text for severity (ANSI codes break table truncation).
func severityText(s types.Severity) string {
	switch s {
	case types.SevCritical:
		return "CRIT"
	case types.SevHigh:
		return "HIGH"
	case types.SevMed:
		return "MED"
	case types.SevLow:
		return "LOW"
	default:
		return string(s)
	}
}

func severityStyled(s types.Severity) string {
	switch s {
	case types.SevCritical:
		return sevCritStyle.Render("CRIT")
	case types.SevHigh:
		return sevHighStyle.Render("HIGH")
	case types.SevMed:
		return sevMedStyle.Render("MED")
	case types.SevLow:
		return sevLowStyle.Render("LOW")
	default:
		return string(s)
	}
}

// baselineKey mirrors the identity the baseline file uses: rule evaluation
// emits at most one finding per (path, rule), so the pair is stable.
func baselineKey(f types.Finding) string {
	return f.Path + "|" + f.RuleID
}

// severityCycle orders the severity filter rotation: all -> critical -> high
// -> medium -> low -> all.
var severityCycle = []types.Severity{"", types.SevCritical, types.SevHigh, types.SevMed, types.SevLow}

// Model is the interactive findings browser state.
type Model struct {
	table            table.Model
	viewport         viewport.Model
	findings         []types.Finding
	filteredFindings []types.Finding // nil means no filter is active
	filteredIndices  []int           // maps filtered index to original index
	baselinedSet     map[string]bool
	quitting         bool
	ready            bool
	height           int
	width            int
	statusMessage    string
	statusTimeout    *time.Time
	showEmpty        bool
	showHelp         bool
	showEvidence     bool

	searchMode      bool
	searchInput     textinput.Model
	searchQuery     string
	severityFilter  types.Severity
	frameworkFilter types.Framework
}

// NewModel initializes the findings browser.
func NewModel(findings []types.Finding) Model {
	columns := []table.Column{
		{Title: "Sev", Width: 6},
		{Title: "Rule", Width: 24},
		{Title: "Framework", Width: 10},
		{Title: "Control", Width: 10},
		{Title: "Path", Width: 44},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(findingRows(findings)),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "Search path, rule, or control..."
	ti.CharLimit = 100
	ti.Width = 50
	ti.Prompt = "/ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

	prefs := LoadPrefs()

	return Model{
		table:        t,
		findings:     findings,
		showEmpty:    len(findings) == 0,
		searchInput:  ti,
		showEvidence: prefs.ShowEvidence,
	}
}

// NewModelWithBaseline marks findings already accepted into the baseline.
func NewModelWithBaseline(findings []types.Finding, baseline report.Baseline) Model {
	m := NewModel(findings)
	m.baselinedSet = make(map[string]bool, len(baseline.Items))
	for k := range baseline.Items {
		m.baselinedSet[k] = true
	}
	return m
}

func findingRows(findings []types.Finding) []table.Row {
	rows := make([]table.Row, len(findings))
	for i, f := range findings {
		rows[i] = table.Row{
			severityText(f.Severity),
			f.RuleID,
			strings.ToUpper(string(f.Framework)),
			f.ControlID,
			fmt.Sprintf("%s:%d", f.Path, f.Line),
		}
	}
	return rows
}

func (m Model) Init() tea.Cmd {
	return nil
}

// visible returns the finding list currently shown in the table.
func (m Model) visible() []types.Finding {
	if m.filteredFindings != nil {
		return m.filteredFindings
	}
	return m.findings
}

func (m Model) selectedFinding() (types.Finding, bool) {
	vis := m.visible()
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(vis) {
		return types.Finding{}, false
	}
	return vis[idx], true
}

// applyFilters rebuilds the filtered list from the search query plus the
// severity and framework filters, then refreshes the table rows.
func (m *Model) applyFilters() {
	if m.searchQuery == "" && m.severityFilter == "" && m.frameworkFilter == "" {
		m.filteredFindings = nil
		m.filteredIndices = nil
		m.table.SetRows(findingRows(m.findings))
		m.table.SetCursor(0)
		return
	}
	q := strings.ToLower(m.searchQuery)
	var out []types.Finding
	var idx []int
	for i, f := range m.findings {
		if m.severityFilter != "" && f.Severity != m.severityFilter {
			continue
		}
		if m.frameworkFilter != "" && f.Framework != m.frameworkFilter {
			continue
		}
		if q != "" {
			hay := strings.ToLower(f.Path + " " + f.RuleID + " " + f.ControlID + " " + string(f.Framework))
			if !strings.Contains(hay, q) {
				continue
			}
		}
		out = append(out, f)
		idx = append(idx, i)
	}
	m.filteredFindings = out
	m.filteredIndices = idx
	m.table.SetRows(findingRows(out))
	m.table.SetCursor(0)
}

func (m *Model) setStatus(msg string) {
	m.statusMessage = msg
	t := time.Now().Add(3 * time.Second)
	m.statusTimeout = &t
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		tableHeight := m.height/2 - 4
		if tableHeight < 4 {
			tableHeight = 4
		}
		m.table.SetHeight(tableHeight)
		m.viewport = viewport.New(m.width-4, m.height-tableHeight-7)
		m.ready = true
		m.refreshDetail()
		return m, nil

	case tea.KeyMsg:
		if m.searchMode {
			switch msg.String() {
			case "enter":
				m.searchMode = false
				m.searchQuery = m.searchInput.Value()
				m.applyFilters()
				m.refreshDetail()
				return m, nil
			case "esc":
				m.searchMode = false
				m.searchInput.SetValue("")
				return m, nil
			default:
				var cmd tea.Cmd
				m.searchInput, cmd = m.searchInput.Update(msg)
				return m, cmd
			}
		}

		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			_ = SavePrefs(Prefs{ShowEvidence: m.showEvidence})
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "/":
			m.searchMode = true
			m.searchInput.Focus()
			return m, textinput.Blink
		case "esc":
			m.searchQuery = ""
			m.searchInput.SetValue("")
			m.severityFilter = ""
			m.frameworkFilter = ""
			m.applyFilters()
			m.refreshDetail()
			return m, nil
		case "s":
			m.severityFilter = nextSeverity(m.severityFilter)
			m.applyFilters()
			m.refreshDetail()
			return m, nil
		case "f":
			m.frameworkFilter = nextFramework(m.frameworkFilter)
			m.applyFilters()
			m.refreshDetail()
			return m, nil
		case "e":
			m.showEvidence = !m.showEvidence
			m.refreshDetail()
			return m, nil
		case "y":
			if f, ok := m.selectedFinding(); ok {
				if err := copyFinding(f); err != nil {
					m.setStatus("copy failed: " + err.Error())
				} else {
					m.setStatus("finding copied to clipboard")
				}
			}
			return m, nil
		case "x":
			path, err := exportFindings(m.visible())
			if err != nil {
				m.setStatus("export failed: " + err.Error())
			} else {
				m.setStatus("exported to " + path)
			}
			return m, nil
		case "o":
			if f, ok := m.selectedFinding(); ok {
				return m, openInEditor(f)
			}
			return m, nil
		}

	case editorFinishedMsg:
		if msg.err != nil {
			m.setStatus("editor failed: " + msg.err.Error())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	cmds = append(cmds, cmd)
	m.refreshDetail()

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func nextSeverity(cur types.Severity) types.Severity {
	for i, s := range severityCycle {
		if s == cur {
			return severityCycle[(i+1)%len(severityCycle)]
		}
	}
	return ""
}

func nextFramework(cur types.Framework) types.Framework {
	cycle := append([]types.Framework{""}, types.Frameworks()...)
	for i, fw := range cycle {
		if fw == cur {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return ""
}

// refreshDetail rebuilds the detail pane for the selected finding.
func (m *Model) refreshDetail() {
	if !m.ready {
		return
	}
	f, ok := m.selectedFinding()
	if !ok {
		m.viewport.SetContent(emptyTextStyle.Render("No finding selected."))
		return
	}
	m.viewport.SetContent(m.renderDetail(f))
}

func (m Model) renderDetail(f types.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", severityStyled(f.Severity), keyStyle.Render(f.RuleID))
	fmt.Fprintf(&b, "%s %s control %s\n", strings.ToUpper(string(f.Framework)), frameworkName(f.Framework), f.ControlID)
	fmt.Fprintf(&b, "%s:%d", f.Path, f.Line)
	if f.Occurrences > 1 {
		fmt.Fprintf(&b, "  (%d occurrences, first shown)", f.Occurrences)
	}
	b.WriteString("\n")
	if m.baselinedSet != nil && m.baselinedSet[baselineKey(f)] {
		b.WriteString(sevLowStyle.Render("in baseline") + "\n")
	}
	if f.NeedsReview {
		b.WriteString(sevMedStyle.Render("needs human review") + "\n")
	}
	if f.Confidence != "" {
		fmt.Fprintf(&b, "confidence: %s\n", f.Confidence)
	}
	b.WriteString("\n")
	if f.WhyItMatters != "" {
		b.WriteString(keyStyle.Render("Why it matters: ") + f.WhyItMatters + "\n")
	}
	if f.Remediation != "" {
		b.WriteString(keyStyle.Render("Remediation:    ") + f.Remediation + "\n")
	}
	if m.showEvidence {
		b.WriteString("\n" + m.sourceContext(f))
	} else {
		b.WriteString("\n" + emptyTextStyle.Render("evidence hidden (press e to show)"))
	}
	return b.String()
}

func frameworkName(fw types.Framework) string {
	switch fw {
	case types.FwISO27001:
		return "(ISO/IEC 27001)"
	case types.FwSOC2:
		return "(SOC 2 Trust Services)"
	case types.FwGDPR:
		return "(EU GDPR)"
	default:
		return ""
	}
}

const detailContextLines = 3

// sourceContext reads the finding's file and renders a highlighted snippet
// around the match. Falls back to the stored excerpt for virtual paths
// (registry image contents) or unreadable files.
func (m Model) sourceContext(f types.Finding) string {
	if strings.Contains(f.Path, "::") {
		return f.Excerpt
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return f.Excerpt
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	start := f.Line - 1 - detailContextLines
	if start < 0 {
		start = 0
	}
	end := f.Line + detailContextLines
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return f.Excerpt
	}
	snippet := strings.Join(lines[start:end], "\n")

	highlighted, err := highlightTerminal(f.Path, snippet)
	if err != nil {
		highlighted = snippet
	}

	var out strings.Builder
	for i, line := range strings.Split(highlighted, "\n") {
		n := start + i + 1
		marker := "  "
		if n == f.Line {
			marker = "> "
		}
		fmt.Fprintf(&out, "%s%4d  %s\n", marker, n, line)
	}
	return out.String()
}

func highlightTerminal(path, src string) (string, error) {
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, it); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.helpView()
	}

	title := titleStyle.Render(fmt.Sprintf("complyscan: %d findings", len(m.visible())))
	var filters []string
	if m.severityFilter != "" {
		filters = append(filters, "severity="+string(m.severityFilter))
	}
	if m.frameworkFilter != "" {
		filters = append(filters, "framework="+string(m.frameworkFilter))
	}
	if m.searchQuery != "" {
		filters = append(filters, "search="+m.searchQuery)
	}
	if len(filters) > 0 {
		title += "  " + emptyTextStyle.Render("["+strings.Join(filters, " ")+"]")
	}

	var body string
	if len(m.visible()) == 0 {
		body = tableBorderStyle.Width(m.width - 2).Render(
			emptyTextStyle.Width(m.width - 4).Render("\nNo findings match.\n"))
	} else {
		body = tableBorderStyle.Render(m.table.View())
	}

	detail := detailPaneBorderStyle.Render(m.viewport.View())

	var status string
	if m.searchMode {
		status = m.searchInput.View()
	} else if m.statusMessage != "" && (m.statusTimeout == nil || time.Now().Before(*m.statusTimeout)) {
		status = statusStyle.Render(" " + m.statusMessage + " ")
	} else {
		status = statusStyle.Render(" / search  s severity  f framework  e evidence  y copy  x export  o open  ? help  q quit ")
	}

	return title + "\n" + body + "\n" + detail + "\n" + status
}

func (m Model) helpView() string {
	help := strings.Join([]string{
		keyStyle.Render("complyscan key bindings"),
		"",
		"  up/down     move selection",
		"  /           search path, rule, or control",
		"  s           cycle severity filter",
		"  f           cycle framework filter",
		"  e           toggle evidence snippet",
		"  y           copy finding to clipboard",
		"  x           export visible findings to JSON",
		"  o           open finding in $EDITOR",
		"  esc         clear filters",
		"  q           quit",
		"",
		"press any key to close",
	}, "\n")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popupStyle.Render(help))
}
