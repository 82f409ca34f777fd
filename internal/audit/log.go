package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/complyscan/complyscan/internal/types"
)

// ScanRecord is one line of the append-only scan history.
type ScanRecord struct {
	Timestamp       time.Time        `json:"timestamp"`
	ScanID          string           `json:"scan_id"`
	Root            string           `json:"root"`
	Repo            string           `json:"repo,omitempty"`
	Commit          string           `json:"commit,omitempty"`
	Branch          string           `json:"branch,omitempty"`
	TotalFindings   int              `json:"total_findings"`
	NewFindings     int              `json:"new_findings"`
	BaselinedCount  int              `json:"baselined_count"`
	SeverityCounts  map[string]int   `json:"severity_counts"`
	FrameworkCounts map[string]int   `json:"framework_counts"`
	FilesScanned    int              `json:"files_scanned"`
	Duration        string           `json:"duration"`
	BaselineFile    string           `json:"baseline_file,omitempty"`
	TopFindings     []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	Path      string `json:"path"`
	RuleID    string `json:"rule_id"`
	Framework string `json:"framework"`
	ControlID string `json:"control_id"`
	Severity  string `json:"severity"`
	Line      int    `json:"line"`
}

type AuditLog struct {
	logPath string
}

func NewAuditLog(root string) *AuditLog {
	gitDir := filepath.Join(root, ".git")
	logPath := filepath.Join(root, ".complyscan_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		logPath = filepath.Join(gitDir, "complyscan_audit.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

// LoadHistory returns recorded scans, newest first.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record ScanRecord
		if err := decoder.Decode(&record); err != nil {
			continue
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogScan(record ScanRecord) error {
	if record.ScanID == "" {
		record.ScanID = fmt.Sprintf("scan_%d", time.Now().Unix())
	}

	// Owner-only permissions: the log names files that failed compliance checks
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// CreateScanRecord summarizes a finished run for the audit log. Excerpts
// are already redacted by the engine and are not stored here at all.
func CreateScanRecord(
	root string,
	allFindings []types.Finding,
	newFindings []types.Finding,
	filesScanned int,
	duration time.Duration,
	baselineFile string,
) ScanRecord {
	severityCounts := make(map[string]int)
	frameworkCounts := make(map[string]int)
	for _, f := range allFindings {
		severityCounts[string(f.Severity)]++
		frameworkCounts[string(f.Framework)]++
	}

	topFindings := make([]FindingSummary, 0, 10)
	for i, f := range newFindings {
		if i >= 10 {
			break
		}
		topFindings = append(topFindings, FindingSummary{
			Path:      f.Path,
			RuleID:    f.RuleID,
			Framework: string(f.Framework),
			ControlID: f.ControlID,
			Severity:  string(f.Severity),
			Line:      f.Line,
		})
	}

	return ScanRecord{
		Timestamp:       time.Now(),
		Root:            root,
		TotalFindings:   len(allFindings),
		NewFindings:     len(newFindings),
		BaselinedCount:  len(allFindings) - len(newFindings),
		SeverityCounts:  severityCounts,
		FrameworkCounts: frameworkCounts,
		FilesScanned:    filesScanned,
		Duration:        duration.String(),
		BaselineFile:    baselineFile,
		TopFindings:     topFindings,
	}
}
