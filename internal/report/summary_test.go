package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/complyscan/complyscan/internal/types"
	"github.com/stretchr/testify/require"
)

func TestTopRisks(t *testing.T) {
	findings := []types.Finding{
		{RuleID: "a", Severity: types.SevLow},
		{RuleID: "b", Severity: types.SevCritical},
		{RuleID: "c", Severity: types.SevMed},
		{RuleID: "d", Severity: types.SevHigh},
	}
	top := TopRisks(findings, 10)
	require.Len(t, top, 2)
	require.Equal(t, "b", top[0].RuleID)
	require.Equal(t, "d", top[1].RuleID)

	require.Len(t, TopRisks(findings, 1), 1)
	require.Empty(t, TopRisks(nil, 10))
}

func TestRecommendations(t *testing.T) {
	var findings []types.Finding
	for i := 0; i < 3; i++ {
		findings = append(findings, types.Finding{RuleID: "hardcoded_password", Severity: types.SevCritical, Framework: types.FwISO27001})
	}
	for i := 0; i < 4; i++ {
		findings = append(findings, types.Finding{RuleID: "pii_email_concentration", Severity: types.SevMed, Framework: types.FwGDPR})
	}
	for i := 0; i < 3; i++ {
		findings = append(findings, types.Finding{RuleID: "broad_iam_policy", Severity: types.SevHigh, Framework: types.FwSOC2})
	}

	recs := Recommendations(findings)
	joined := strings.Join(recs, "\n")
	require.Contains(t, joined, "Address 3 critical security issues")
	require.Contains(t, joined, "remediate 3 high-severity findings")
	require.Contains(t, joined, "PII handling")
	require.Contains(t, joined, "rotate exposed credentials")
	require.Contains(t, joined, "security baselines")
	require.LessOrEqual(t, len(recs), 5)

	require.Empty(t, Recommendations(nil))
}

func TestWriteHTML(t *testing.T) {
	findings := []types.Finding{
		{Path: "server.conf", Line: 4, RuleID: "disabled_tls", Severity: types.SevHigh, Framework: types.FwISO27001, ControlID: "A.13",
			WhyItMatters: "Disabled encryption exposes data in transit", Remediation: "Enable TLS", Confidence: "high",
			Excerpt: "ssl = false"},
	}
	env := NewEnvelope([]string{"."}, findings, types.Summarize(findings, 3, time.Second))

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, env))
	out := buf.String()

	require.Contains(t, out, "<!DOCTYPE html>")
	require.Contains(t, out, env.ScanID)
	require.Contains(t, out, "disabled_tls")
	require.Contains(t, out, "ISO27001 A.13")
	require.Contains(t, out, "Disabled encryption exposes data in transit")
	require.Contains(t, out, "ssl")
}

func TestWriteHTML_EscapesEvidence(t *testing.T) {
	findings := []types.Finding{
		{Path: "page.weirdext", Line: 1, RuleID: "r", Severity: types.SevLow, Framework: types.FwGDPR,
			Excerpt: `<script>alert(1)</script>`},
	}
	env := NewEnvelope([]string{"."}, findings, types.Summary{})

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, env))
	require.NotContains(t, buf.String(), "<script>alert(1)</script>")
}
