package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/complyscan/complyscan/internal/types"
	"github.com/stretchr/testify/require"
)

func TestWriteSARIF(t *testing.T) {
	findings := []types.Finding{
		{Path: "net.tf", Line: 3, EndLine: 3, RuleID: "open_cidr_ingress", Severity: types.SevCritical, Framework: types.FwSOC2, ControlID: "CC 6.6", WhyItMatters: "Open ingress exposes the service"},
		{Path: "app.yml", Line: 8, RuleID: "audit_logging_disabled", Severity: types.SevMed, Framework: types.FwSOC2, ControlID: "CC 7.2"},
		{Path: "notes.md", Line: 1, RuleID: "doc_gap_gdpr_article_30", Severity: types.SevLow, Framework: types.FwGDPR, ControlID: "Article 30"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSARIF(&buf, findings))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, "2.1.0", doc["version"])

	runs := doc["runs"].([]any)
	require.Len(t, runs, 1)
	run := runs[0].(map[string]any)
	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	require.Equal(t, "complyscan", driver["name"])

	results := run["results"].([]any)
	require.Len(t, results, 3)

	first := results[0].(map[string]any)
	require.Equal(t, "open_cidr_ingress", first["ruleId"])
	require.Equal(t, "error", first["level"])
	require.Contains(t, first["message"].(map[string]any)["text"], "soc2 CC 6.6")
	loc := first["locations"].([]any)[0].(map[string]any)["physicalLocation"].(map[string]any)
	require.Equal(t, "net.tf", loc["artifactLocation"].(map[string]any)["uri"])
	require.Equal(t, float64(3), loc["region"].(map[string]any)["startLine"])

	require.Equal(t, "warning", results[1].(map[string]any)["level"])
	require.Equal(t, "note", results[2].(map[string]any)["level"])
	// findings without prose still carry a message
	require.Contains(t, results[1].(map[string]any)["message"].(map[string]any)["text"], "audit_logging_disabled detected")
}

func TestSevToLevel(t *testing.T) {
	require.Equal(t, "error", sevToLevel(types.SevCritical))
	require.Equal(t, "error", sevToLevel(types.SevHigh))
	require.Equal(t, "warning", sevToLevel(types.SevMed))
	require.Equal(t, "note", sevToLevel(types.SevLow))
}
