package report

import (
	"encoding/json"
	"os"

	"github.com/complyscan/complyscan/internal/types"
)

// Baseline records accepted findings so only new violations gate a build.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	_ = json.Unmarshal(f, &b)
	return b, nil
}

func SaveBaseline(path string, findings []types.Finding) error {
	b := Baseline{Items: map[string]bool{}}
	for _, f := range findings {
		b.Items[key(f)] = true
	}
	buf, _ := json.MarshalIndent(b, "", "  ")
	return os.WriteFile(path, buf, 0644)
}

func FilterNewFindings(findings []types.Finding, base Baseline) []types.Finding {
	var out []types.Finding
	for _, f := range findings {
		if !base.Items[key(f)] {
			out = append(out, f)
		}
	}
	return out
}

// key identifies a finding for baseline purposes. Rule evaluation emits at
// most one finding per (path, rule), so the path+rule pair is stable across
// line-number churn.
func key(f types.Finding) string {
	return f.Path + "|" + f.RuleID
}

// ShouldFail reports whether any finding is at or above the fail-on
// threshold (low|medium|high|critical; default medium).
func ShouldFail(findings []types.Finding, failOn string) bool {
	th := types.Severity(failOn).Rank()
	if th == 0 {
		th = types.SevMed.Rank()
	}
	for _, f := range findings {
		if f.Severity.Rank() >= th {
			return true
		}
	}
	return false
}
