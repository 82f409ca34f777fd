package complyscan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/complyscan/complyscan/internal/audit"
	"github.com/spf13/cobra"
)

func init() {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded scans from the audit log",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			log := audit.NewAuditLog(abs)
			records, err := log.LoadHistory()
			if err != nil {
				return fmt.Errorf("no scan history yet: %w", err)
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			if flagJSON {
				return writeHistoryJSON(os.Stdout, records)
			}
			for _, r := range records {
				var sevs []string
				for _, sev := range []string{"critical", "high", "medium", "low"} {
					if n := r.SeverityCounts[sev]; n > 0 {
						sevs = append(sevs, fmt.Sprintf("%d %s", n, sev))
					}
				}
				line := "clean"
				if len(sevs) > 0 {
					line = strings.Join(sevs, ", ")
				}
				fmt.Fprintf(os.Stdout, "%s  %-14s %4d findings (%d new)  %s  [%s]\n",
					r.Timestamp.Format("2006-01-02 15:04"), r.ScanID, r.TotalFindings, r.NewFindings, line, r.Duration)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "show at most this many scans")
	rootCmd.AddCommand(cmd)
}

func writeHistoryJSON(w *os.File, records []audit.ScanRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
