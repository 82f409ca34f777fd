package detectors

import (
	"github.com/complyscan/complyscan/internal/artifact"
	"github.com/complyscan/complyscan/internal/types"
)

// Detector is a heuristic check that cannot be expressed as a single catalog
// regex: absence of required content, checksum-validated matches, and other
// content-aware analyses. Detectors are pure functions of the artifact.
type Detector func(a artifact.Artifact) []types.Finding

var all = []Detector{
	DocumentGaps,
	CardholderData,
	EmailConcentration,
}

// RunAll applies every registered detector to the artifact.
func RunAll(a artifact.Artifact) []types.Finding {
	var out []types.Finding
	for _, d := range all {
		out = append(out, d(a)...)
	}
	return out
}

// IDs lists the rule IDs detectors can emit, for UI and filtering purposes.
func IDs() []string {
	ids := []string{
		"pii_cardholder_data",
		"pii_email_concentration",
	}
	for _, sections := range requiredSections {
		for _, s := range sections {
			ids = append(ids, s.ruleID())
		}
	}
	return ids
}
