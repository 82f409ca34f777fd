package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/complyscan/complyscan/internal/types"
)

// ScanResults stores the findings and metadata from the last completed run,
// so the TUI and history views can show results without rescanning.
type ScanResults struct {
	Findings  []types.Finding `json:"findings"`
	Timestamp time.Time       `json:"timestamp"`
	Root      string          `json:"root"`
	Count     int             `json:"count"`
}

func resultsPath(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "complyscan_last_scan.json")
	}
	return filepath.Join(root, ".complyscan_last_scan.json")
}

// SaveResults persists the run's findings for later viewing.
func SaveResults(root string, findings []types.Finding) error {
	p := resultsPath(root)
	results := ScanResults{
		Findings:  findings,
		Timestamp: time.Now(),
		Root:      root,
		Count:     len(findings),
	}
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0644)
}

// LoadResults loads the last run's findings.
func LoadResults(root string) (ScanResults, error) {
	var results ScanResults
	p := resultsPath(root)
	f, err := os.ReadFile(p)
	if err != nil {
		return results, err
	}
	if err := json.Unmarshal(f, &results); err != nil {
		return results, err
	}
	return results, nil
}
