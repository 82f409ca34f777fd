package engine

import (
	"strings"

	"github.com/complyscan/complyscan/internal/artifact"
	"github.com/complyscan/complyscan/internal/redact"
	"github.com/complyscan/complyscan/internal/rules"
	"github.com/complyscan/complyscan/internal/types"
)

// excerptContext is how many lines around a match are kept as evidence.
const excerptContext = 2

// EvaluateRule applies one rule to one artifact: a pure mapping to zero or
// one Finding. The finding records the first match's location and the total
// number of occurrences; the excerpt is redacted before the finding exists.
func EvaluateRule(a artifact.Artifact, r rules.Rule) (types.Finding, bool) {
	content := string(a.Data)
	locs := r.Pattern.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return types.Finding{}, false
	}
	start, end := locs[0][0], locs[0][1]
	line := 1 + strings.Count(content[:start], "\n")
	endLine := 1 + strings.Count(content[:end], "\n")

	return types.Finding{
		Path:         a.Path,
		Line:         line,
		EndLine:      endLine,
		RuleID:       r.ID,
		Framework:    r.Framework,
		ControlID:    r.ControlID,
		Severity:     r.Severity,
		Excerpt:      redact.Excerpt(excerpt(content, start, end)),
		WhyItMatters: r.WhyItMatters,
		Remediation:  r.Remediation,
		Confidence:   r.Confidence,
		NeedsReview:  r.NeedsReview,
		Occurrences:  len(locs),
		Metadata:     map[string]string{"kind": string(a.Kind)},
	}, true
}

// excerpt returns the matched lines plus surrounding context.
func excerpt(content string, start, end int) string {
	lines := strings.Split(content, "\n")
	startLine := strings.Count(content[:start], "\n")
	endLine := strings.Count(content[:end], "\n")

	from := startLine - excerptContext
	if from < 0 {
		from = 0
	}
	to := endLine + excerptContext + 1
	if to > len(lines) {
		to = len(lines)
	}
	return strings.Join(lines[from:to], "\n")
}
