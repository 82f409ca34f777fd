package complyscan

import (
	"fmt"
	"path/filepath"

	"github.com/complyscan/complyscan/internal/cache"
	"github.com/complyscan/complyscan/internal/report"
	"github.com/complyscan/complyscan/internal/tui"
	"github.com/spf13/cobra"
)

func init() {
	var path string
	var baselinePath string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the last scan's findings without rescanning",
		RunE: func(_ *cobra.Command, _ []string) error {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			results, err := cache.LoadResults(abs)
			if err != nil {
				return fmt.Errorf("no saved scan results for %s: run 'complyscan scan' first", abs)
			}
			baseline, _ := report.LoadBaseline(baselinePath)
			fmt.Printf("Showing %d findings from scan at %s\n", results.Count, results.Timestamp.Format("2006-01-02 15:04"))
			return tui.RunWithBaseline(results.Findings, baseline)
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", ".", "root the scan was run against")
	cmd.Flags().StringVar(&baselinePath, "baseline", "complyscan.baseline.json", "baseline file to mark accepted findings")
	rootCmd.AddCommand(cmd)
}
