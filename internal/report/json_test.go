package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/complyscan/complyscan/internal/types"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	findings := []types.Finding{
		{Path: "a.tf", RuleID: "open_cidr_ingress", Severity: types.SevCritical, Framework: types.FwSOC2},
		{Path: "b.yml", RuleID: "disabled_tls", Severity: types.SevMed, Framework: types.FwISO27001},
	}
	sum := types.Summarize(findings, 7, 2*time.Second)
	env := NewEnvelope([]string{"."}, findings, sum)

	require.True(t, strings.HasPrefix(env.ScanID, "scan_"))
	require.False(t, env.Timestamp.IsZero())
	require.Equal(t, []string{"."}, env.PathsScanned)
	require.Len(t, env.Findings, 2)
	require.Len(t, env.TopRisks, 1)
	require.Equal(t, "open_cidr_ingress", env.TopRisks[0].RuleID)
	require.Equal(t, 2, env.Summary.TotalFindings)
}

func TestNewEnvelope_NilFindings(t *testing.T) {
	env := NewEnvelope([]string{"."}, nil, types.Summary{})
	require.NotNil(t, env.Findings)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, env))
	require.Contains(t, buf.String(), `"findings": []`)
	require.NotContains(t, buf.String(), `"findings": null`)
}

func TestWriteJSON_Shape(t *testing.T) {
	findings := []types.Finding{{
		Path:      "server.conf",
		Line:      4,
		RuleID:    "disabled_tls",
		Framework: types.FwISO27001,
		ControlID: "A.13",
		Severity:  types.SevHigh,
	}}
	env := NewEnvelope([]string{"."}, findings, types.Summarize(findings, 1, time.Second))

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, env))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	for _, k := range []string{"scan_id", "timestamp", "paths_scanned", "summary", "findings", "top_risks", "recommendations"} {
		require.Contains(t, doc, k)
	}
	first := doc["findings"].([]any)[0].(map[string]any)
	require.Equal(t, "disabled_tls", first["rule_id"])
	require.Equal(t, "iso27001", first["framework"])
	require.Equal(t, "A.13", first["control_id"])
	require.Equal(t, float64(4), first["line"])
}
