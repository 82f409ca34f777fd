package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/complyscan/complyscan/internal/types"
	"github.com/stretchr/testify/require"
)

func TestAuditLogPathSelection(t *testing.T) {
	bare := t.TempDir()
	require.Equal(t, filepath.Join(bare, ".complyscan_audit.jsonl"), NewAuditLog(bare).logPath)

	repo := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(repo, ".git"), 0755))
	require.Equal(t, filepath.Join(repo, ".git", "complyscan_audit.jsonl"), NewAuditLog(repo).logPath)
}

func TestLogScanAndLoadHistory(t *testing.T) {
	dir := t.TempDir()
	log := NewAuditLog(dir)

	for i := 1; i <= 3; i++ {
		rec := ScanRecord{
			ScanID:        "run_" + string(rune('0'+i)),
			Timestamp:     time.Now(),
			Root:          dir,
			TotalFindings: i,
		}
		require.NoError(t, log.LogScan(rec))
	}

	records, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, records, 3)
	// newest first
	require.Equal(t, "run_3", records[0].ScanID)
	require.Equal(t, "run_1", records[2].ScanID)

	info, err := os.Stat(filepath.Join(dir, ".complyscan_audit.jsonl"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLogScan_AssignsScanID(t *testing.T) {
	dir := t.TempDir()
	log := NewAuditLog(dir)
	require.NoError(t, log.LogScan(ScanRecord{Root: dir}))

	records, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotEmpty(t, records[0].ScanID)
}

func TestLoadHistory_Missing(t *testing.T) {
	log := NewAuditLog(t.TempDir())
	_, err := log.LoadHistory()
	require.Error(t, err)
}

func TestLoadHistory_SkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	log := NewAuditLog(dir)
	require.NoError(t, log.LogScan(ScanRecord{ScanID: "good", Root: dir}))
	f, err := os.OpenFile(log.logPath, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("{not valid json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	records, err := log.LoadHistory()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "good", records[0].ScanID)
}

func TestCreateScanRecord(t *testing.T) {
	all := []types.Finding{
		{Path: "a.conf", RuleID: "disabled_tls", Framework: types.FwISO27001, ControlID: "A.13", Severity: types.SevHigh, Line: 2, Excerpt: "ssl = false"},
		{Path: "b.tf", RuleID: "open_cidr_ingress", Framework: types.FwSOC2, ControlID: "CC 6.6", Severity: types.SevCritical, Line: 9},
		{Path: "c.yml", RuleID: "mfa_disabled", Framework: types.FwSOC2, ControlID: "CC 6.1", Severity: types.SevHigh, Line: 1},
	}
	fresh := all[:2]

	rec := CreateScanRecord("/repo", all, fresh, 42, 1500*time.Millisecond, "complyscan.baseline.json")
	require.Equal(t, 3, rec.TotalFindings)
	require.Equal(t, 2, rec.NewFindings)
	require.Equal(t, 1, rec.BaselinedCount)
	require.Equal(t, 42, rec.FilesScanned)
	require.Equal(t, "1.5s", rec.Duration)
	require.Equal(t, map[string]int{"high": 2, "critical": 1}, rec.SeverityCounts)
	require.Equal(t, map[string]int{"iso27001": 1, "soc2": 2}, rec.FrameworkCounts)
	require.Len(t, rec.TopFindings, 2)
	require.Equal(t, "disabled_tls", rec.TopFindings[0].RuleID)
	require.False(t, rec.Timestamp.IsZero())
}

// Evidence text never reaches the audit log, only locations and counts.
func TestCreateScanRecord_NoExcerpts(t *testing.T) {
	all := []types.Finding{{Path: "a.conf", RuleID: "r", Severity: types.SevLow, Excerpt: "secret evidence"}}
	rec := CreateScanRecord("/repo", all, all, 1, time.Second, "")
	require.Len(t, rec.TopFindings, 1)
	require.Equal(t, "a.conf", rec.TopFindings[0].Path)
}

func TestCreateScanRecord_TopFindingsCap(t *testing.T) {
	var fresh []types.Finding
	for i := 0; i < 15; i++ {
		fresh = append(fresh, types.Finding{Path: "f", RuleID: "r", Severity: types.SevLow})
	}
	rec := CreateScanRecord("/repo", fresh, fresh, 1, time.Second, "")
	require.Len(t, rec.TopFindings, 10)
}
