package types

import (
	"testing"
	"time"
)

func TestSeverityRankOrdering(t *testing.T) {
	if !(SevCritical.Rank() > SevHigh.Rank() && SevHigh.Rank() > SevMed.Rank() && SevMed.Rank() > SevLow.Rank()) {
		t.Fatal("severity ranks out of order")
	}
	if Severity("bogus").Rank() != 0 {
		t.Fatal("unknown severity should rank 0")
	}
}

func TestParseSeverity(t *testing.T) {
	if s, ok := ParseSeverity("high"); !ok || s != SevHigh {
		t.Fatalf("ParseSeverity(high) = %q, %v", s, ok)
	}
	if _, ok := ParseSeverity("severe"); ok {
		t.Fatal("expected unknown severity to fail")
	}
}

func TestParseFramework(t *testing.T) {
	for _, fw := range Frameworks() {
		got, ok := ParseFramework(string(fw))
		if !ok || got != fw {
			t.Fatalf("ParseFramework(%q) failed", fw)
		}
	}
	if _, ok := ParseFramework("pci"); ok {
		t.Fatal("expected unsupported framework to fail")
	}
}

func TestSummarize(t *testing.T) {
	findings := []Finding{
		{Severity: SevCritical, Framework: FwSOC2},
		{Severity: SevHigh, Framework: FwISO27001},
		{Severity: SevHigh, Framework: FwGDPR},
		{Severity: SevLow, Framework: FwGDPR},
	}
	s := Summarize(findings, 12, 2*time.Second)
	if s.TotalFindings != 4 || s.FilesScanned != 12 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.BySeverity[SevHigh] != 2 || s.BySeverity[SevMed] != 0 {
		t.Fatalf("unexpected severity counts: %+v", s.BySeverity)
	}
	if s.ByFramework[FwGDPR] != 2 || s.ByFramework[FwSOC2] != 1 {
		t.Fatalf("unexpected framework counts: %+v", s.ByFramework)
	}
	if s.DurationSecs != 2 {
		t.Fatalf("unexpected duration seconds: %v", s.DurationSecs)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 0, 0)
	if s.TotalFindings != 0 {
		t.Fatal("expected zero findings")
	}
	// zero buckets are present so JSON consumers always see all keys
	if _, ok := s.BySeverity[SevCritical]; !ok {
		t.Fatal("expected all severity buckets present")
	}
}
