package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/complyscan/complyscan/internal/types"
)

// Envelope is the JSON report document: one scan invocation with its
// summary, findings, top risks, and synthesized recommendations.
type Envelope struct {
	ScanID          string          `json:"scan_id"`
	Timestamp       time.Time       `json:"timestamp"`
	PathsScanned    []string        `json:"paths_scanned"`
	Summary         types.Summary   `json:"summary"`
	Findings        []types.Finding `json:"findings"`
	TopRisks        []types.Finding `json:"top_risks"`
	Recommendations []string        `json:"recommendations"`
}

// NewEnvelope assembles the report document for a finished run.
func NewEnvelope(paths []string, findings []types.Finding, summary types.Summary) Envelope {
	if findings == nil {
		findings = []types.Finding{} // no `null` in JSON
	}
	return Envelope{
		ScanID:          fmt.Sprintf("scan_%d", time.Now().UnixNano()),
		Timestamp:       time.Now(),
		PathsScanned:    paths,
		Summary:         summary,
		Findings:        findings,
		TopRisks:        TopRisks(findings, 10),
		Recommendations: Recommendations(findings),
	}
}

// WriteJSON writes the report document as indented JSON.
func WriteJSON(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
