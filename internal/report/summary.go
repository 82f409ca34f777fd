package report

import (
	"fmt"
	"strings"

	"github.com/complyscan/complyscan/internal/types"
)

// TopRisks returns up to n critical/high findings in result order.
func TopRisks(findings []types.Finding, n int) []types.Finding {
	out := []types.Finding{}
	for _, f := range findings {
		if f.Severity != types.SevCritical && f.Severity != types.SevHigh {
			continue
		}
		out = append(out, f)
		if len(out) == n {
			break
		}
	}
	return out
}

// Recommendations synthesizes up to five prioritized actions from the
// run's findings.
func Recommendations(findings []types.Finding) []string {
	var recs []string

	critical, high := 0, 0
	pii, secrets, socConfig := 0, 0, 0
	for _, f := range findings {
		switch f.Severity {
		case types.SevCritical:
			critical++
		case types.SevHigh:
			high++
		}
		id := strings.ToLower(f.RuleID)
		if strings.Contains(id, "pii") || strings.Contains(strings.ToLower(f.WhyItMatters), "personal") {
			pii++
		}
		if strings.Contains(id, "key") || strings.Contains(id, "password") || strings.Contains(id, "credential") || strings.Contains(id, "token") {
			secrets++
		}
		if f.Framework == types.FwSOC2 && (f.Severity == types.SevCritical || f.Severity == types.SevHigh) {
			socConfig++
		}
	}

	if critical > 0 {
		recs = append(recs, fmt.Sprintf("Address %d critical security issues immediately", critical))
	}
	if high > 0 {
		recs = append(recs, fmt.Sprintf("Review and remediate %d high-severity findings", high))
	}
	if pii > 3 {
		recs = append(recs, "Implement comprehensive PII handling and masking procedures")
	}
	if secrets > 2 {
		recs = append(recs, "Audit and rotate exposed credentials, implement secret management")
	}
	if socConfig > 2 {
		recs = append(recs, "Review system configurations against security baselines")
	}

	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}
