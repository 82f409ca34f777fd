package detectors

import (
	"fmt"
	"strings"

	"github.com/complyscan/complyscan/internal/artifact"
	"github.com/complyscan/complyscan/internal/types"
)

// requiredSection names content a policy document must address for a
// framework control. Any of the keywords satisfies the requirement.
type requiredSection struct {
	framework types.Framework
	controlID string
	keywords  []string
}

func (s requiredSection) ruleID() string {
	id := strings.ToLower(s.controlID)
	id = strings.NewReplacer(".", "_", " ", "_").Replace(id)
	return fmt.Sprintf("doc_gap_%s_%s", s.framework, id)
}

var requiredSections = map[types.Framework][]requiredSection{
	types.FwGDPR: {
		{types.FwGDPR, "Article 5", []string{"data retention", "retention period"}},
		{types.FwGDPR, "Article 12", []string{"data subject rights", "individual rights"}},
		{types.FwGDPR, "Article 35", []string{"data protection impact", "dpia"}},
		{types.FwGDPR, "Article 33", []string{"data breach", "incident response"}},
	},
	types.FwISO27001: {
		{types.FwISO27001, "A.9", []string{"access control", "access management"}},
		{types.FwISO27001, "A.16", []string{"incident response", "incident management"}},
		{types.FwISO27001, "A.10", []string{"encryption", "cryptographic"}},
	},
	types.FwSOC2: {
		{types.FwSOC2, "CC 6.1", []string{"access control", "logical access"}},
		{types.FwSOC2, "CC 6.7", []string{"encryption", "data protection"}},
		{types.FwSOC2, "CC 7.1", []string{"monitoring", "system monitoring"}},
	},
}

var policyIndicators = []string{"policy", "procedure", "guideline", "standard", "privacy", "security"}

// DocumentGaps flags policy documents that never mention sections a
// framework requires. Only artifacts that look like policy documents are
// considered; absence of a match on anything else is not a gap.
func DocumentGaps(a artifact.Artifact) []types.Finding {
	if a.Kind != artifact.KindDocument {
		return nil
	}
	content := strings.ToLower(string(a.Data))
	if !isPolicyDocument(content) {
		return nil
	}

	var out []types.Finding
	for _, fw := range types.Frameworks() {
		for _, section := range requiredSections[fw] {
			if containsAny(content, section.keywords) {
				continue
			}
			out = append(out, types.Finding{
				Path:         a.Path,
				Line:         1,
				RuleID:       section.ruleID(),
				Framework:    section.framework,
				ControlID:    section.controlID,
				Severity:     types.SevMed,
				Excerpt:      "Missing section: " + strings.Join(section.keywords, ", "),
				WhyItMatters: fmt.Sprintf("Policy documents should address %s requirements for %s compliance", section.keywords[0], section.framework),
				Remediation:  fmt.Sprintf("Add a section covering %s to the policy document", strings.Join(section.keywords, ", ")),
				Confidence:   "medium",
				NeedsReview:  true,
			})
		}
	}
	return out
}

func isPolicyDocument(lowered string) bool {
	return containsAny(lowered, policyIndicators)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
