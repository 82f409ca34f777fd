package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/complyscan/complyscan/internal/types"
)

func writeCatalog(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

const goodCatalog = `rules:
  - id: custom_tls_check
    framework: iso27001
    control_id: "A.13"
    severity: high
    pattern: 'insecure_skip_verify\s*[:=]\s*true'
    file_globs: ["*.go", "*.yml"]
    why_it_matters: Skipping certificate verification defeats TLS
    remediation: Remove InsecureSkipVerify or pin the expected certificate
  - id: custom_low_check
    framework: gdpr
    control_id: "Article 5"
    severity: low
    pattern: 'todo.*privacy'
    needs_review: true
`

func TestLoadFile(t *testing.T) {
	p := writeCatalog(t, t.TempDir(), "custom.yaml", goodCatalog)
	c, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 rules, got %d", c.Len())
	}
	r, ok := c.ByID("custom_tls_check")
	if !ok {
		t.Fatal("custom_tls_check not loaded")
	}
	if r.Framework != types.FwISO27001 || r.Severity != types.SevHigh {
		t.Fatalf("unexpected rule: %+v", r)
	}
	// confidence defaults to high when omitted
	if r.Confidence != "high" {
		t.Fatalf("expected default confidence high, got %q", r.Confidence)
	}
	if !r.Pattern.MatchString("InsecureSkipVerify: TRUE") {
		t.Fatal("loaded pattern should be case-insensitive")
	}
	low, _ := c.ByID("custom_low_check")
	if !low.NeedsReview {
		t.Fatal("needs_review not carried through")
	}
}

func TestLoadFile_BadPatternFailsWholeFile(t *testing.T) {
	body := `rules:
  - id: fine
    framework: soc2
    control_id: "CC 6.1"
    severity: low
    pattern: 'ok'
  - id: broken
    framework: soc2
    control_id: "CC 6.1"
    severity: low
    pattern: '(unclosed'
`
	p := writeCatalog(t, t.TempDir(), "bad.yaml", body)
	_, err := LoadFile(p)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if le.RuleID != "broken" {
		t.Fatalf("error should name the bad rule, got %+v", le)
	}
}

func TestLoadFile_UnknownFrameworkAndSeverity(t *testing.T) {
	dir := t.TempDir()
	p := writeCatalog(t, dir, "fw.yaml", "rules:\n  - id: x\n    framework: hipaa\n    severity: low\n    pattern: a\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("unknown framework must fail the load")
	}
	p = writeCatalog(t, dir, "sev.yaml", "rules:\n  - id: x\n    framework: gdpr\n    severity: urgent\n    pattern: a\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("unknown severity must fail the load")
	}
	p = writeCatalog(t, dir, "id.yaml", "rules:\n  - framework: gdpr\n    severity: low\n    pattern: a\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("missing id must fail the load")
	}
}

func TestLoadDir_LexicalOrderAndMerge(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "b.yaml", "rules:\n  - id: rule_b\n    framework: soc2\n    control_id: \"CC 6.1\"\n    severity: low\n    pattern: b\n")
	writeCatalog(t, dir, "a.yml", "rules:\n  - id: rule_a\n    framework: gdpr\n    control_id: \"Article 5\"\n    severity: low\n    pattern: a\n")
	writeCatalog(t, dir, "ignored.txt", "not a catalog")

	c, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	ids := c.IDs()
	if len(ids) != 2 || ids[0] != "rule_a" || ids[1] != "rule_b" {
		t.Fatalf("expected lexical order [rule_a rule_b], got %v", ids)
	}
}

func TestLoadDir_DuplicateAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "a.yaml", "rules:\n  - id: same\n    framework: gdpr\n    severity: low\n    pattern: a\n")
	writeCatalog(t, dir, "b.yaml", "rules:\n  - id: same\n    framework: soc2\n    severity: low\n    pattern: b\n")
	if _, err := LoadDir(dir); err == nil {
		t.Fatal("duplicate rule IDs across files must fail")
	}
}

func TestShippedCatalogsLoad(t *testing.T) {
	// the sample catalogs shipped in rules/ must always stay loadable
	c, err := LoadDir(filepath.Join("..", "..", "rules"))
	if err != nil {
		t.Fatalf("shipped catalogs failed to load: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("expected shipped rules")
	}
	if _, err := Builtin().Merge(c); err != nil {
		t.Fatalf("shipped catalogs must not collide with builtin IDs: %v", err)
	}
}
