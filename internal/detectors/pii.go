package detectors

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"

	"github.com/complyscan/complyscan/internal/artifact"
	"github.com/complyscan/complyscan/internal/redact"
	"github.com/complyscan/complyscan/internal/types"
)

var (
	reCardCandidate = regexp.MustCompile(`\b\d{4}[- ]?\d{4}[- ]?\d{4}[- ]?\d{4}\b`)
	reEmailAddr     = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
)

// emailConcentrationThreshold is the number of distinct addresses in one
// file before it looks like a personal-data store rather than contact info.
const emailConcentrationThreshold = 5

// CardholderData reports Luhn-valid card numbers. The checksum keeps noise
// from order IDs and timestamps out of the results.
func CardholderData(a artifact.Artifact) []types.Finding {
	var out []types.Finding
	sc := bufio.NewScanner(bytes.NewReader(a.Data))
	line := 0
	total := 0
	first := types.Finding{}
	for sc.Scan() {
		line++
		for _, m := range reCardCandidate.FindAllString(sc.Text(), -1) {
			if !redact.LuhnValid(m) {
				continue
			}
			total++
			if total == 1 {
				first = types.Finding{
					Path:         a.Path,
					Line:         line,
					RuleID:       "pii_cardholder_data",
					Framework:    types.FwGDPR,
					ControlID:    "Article 32",
					Severity:     types.SevHigh,
					Excerpt:      redact.Excerpt(m),
					WhyItMatters: "Stored cardholder data is personal data requiring strong protection",
					Remediation:  "Remove card numbers from the repository; store only tokenized references",
					Confidence:   "high",
				}
			}
		}
	}
	if total > 0 {
		first.Occurrences = total
		out = append(out, first)
	}
	return out
}

// EmailConcentration flags files holding many distinct email addresses,
// a common shape for exported user lists committed by accident.
func EmailConcentration(a artifact.Artifact) []types.Finding {
	seen := map[string]bool{}
	firstLine := 0
	sc := bufio.NewScanner(bytes.NewReader(a.Data))
	line := 0
	for sc.Scan() {
		line++
		for _, m := range reEmailAddr.FindAllString(sc.Text(), -1) {
			if !seen[m] && firstLine == 0 {
				firstLine = line
			}
			seen[m] = true
		}
	}
	if len(seen) < emailConcentrationThreshold {
		return nil
	}
	return []types.Finding{{
		Path:         a.Path,
		Line:         firstLine,
		RuleID:       "pii_email_concentration",
		Framework:    types.FwGDPR,
		ControlID:    "Article 5",
		Severity:     types.SevMed,
		Excerpt:      fmt.Sprintf("%d distinct email addresses in one file", len(seen)),
		WhyItMatters: "Bulk personal contact data in a repository is an uncontrolled copy of user data",
		Remediation:  "Move user exports out of version control and minimize collected fields",
		Confidence:   "medium",
		NeedsReview:  true,
		Occurrences:  len(seen),
	}}
}
