package types

import "time"

// Severity is a coarse-grained risk level for a finding.
type Severity string

const (
	SevCritical Severity = "critical"
	SevHigh     Severity = "high"
	SevMed      Severity = "medium"
	SevLow      Severity = "low"
)

// Rank returns a numeric ordering for severities, highest first.
func (s Severity) Rank() int {
	switch s {
	case SevCritical:
		return 4
	case SevHigh:
		return 3
	case SevMed:
		return 2
	case SevLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity returns the Severity for a known name, or false.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SevCritical, SevHigh, SevMed, SevLow:
		return Severity(s), true
	}
	return "", false
}

// Framework identifies a compliance standard a rule maps to.
type Framework string

const (
	FwISO27001 Framework = "iso27001"
	FwSOC2     Framework = "soc2"
	FwGDPR     Framework = "gdpr"
)

// Frameworks lists all supported frameworks in display order.
func Frameworks() []Framework {
	return []Framework{FwISO27001, FwSOC2, FwGDPR}
}

// ParseFramework returns the Framework for a known name, or false.
func ParseFramework(s string) (Framework, bool) {
	switch Framework(s) {
	case FwISO27001, FwSOC2, FwGDPR:
		return Framework(s), true
	}
	return "", false
}

// Finding describes one detected compliance violation: which rule fired,
// which framework control it maps to, and where in the artifact it matched.
// The excerpt is redacted before the finding is created and the finding is
// never mutated afterwards.
type Finding struct {
	Path         string            `json:"path"`
	Line         int               `json:"line"`
	EndLine      int               `json:"end_line,omitempty"`
	RuleID       string            `json:"rule_id"`
	Framework    Framework         `json:"framework"`
	ControlID    string            `json:"control_id"`
	Severity     Severity          `json:"severity"`
	Excerpt      string            `json:"excerpt,omitempty"`
	WhyItMatters string            `json:"why_it_matters,omitempty"`
	Remediation  string            `json:"remediation,omitempty"`
	Confidence   string            `json:"confidence,omitempty"` // mapping confidence: high|medium|low
	NeedsReview  bool              `json:"needs_review,omitempty"`
	Occurrences  int               `json:"occurrences,omitempty"` // total matches in the artifact
	Metadata     map[string]string `json:"metadata,omitempty"`    // artifact-specific context
}

// Summary aggregates a run's findings by severity and framework.
type Summary struct {
	FilesScanned  int               `json:"total_files_scanned"`
	TotalFindings int               `json:"total_findings"`
	BySeverity    map[Severity]int  `json:"findings_by_severity"`
	ByFramework   map[Framework]int `json:"findings_by_framework"`
	Duration      time.Duration     `json:"-"`
	DurationSecs  float64           `json:"scan_duration_seconds"`
}

// Summarize builds a Summary from a finished run's findings.
func Summarize(findings []Finding, filesScanned int, d time.Duration) Summary {
	s := Summary{
		FilesScanned:  filesScanned,
		TotalFindings: len(findings),
		BySeverity:    map[Severity]int{SevCritical: 0, SevHigh: 0, SevMed: 0, SevLow: 0},
		ByFramework:   map[Framework]int{FwISO27001: 0, FwSOC2: 0, FwGDPR: 0},
		Duration:      d,
		DurationSecs:  d.Seconds(),
	}
	for _, f := range findings {
		s.BySeverity[f.Severity]++
		s.ByFramework[f.Framework]++
	}
	return s
}
