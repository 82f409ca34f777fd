package complyscan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/complyscan/complyscan/internal/engine"
	"github.com/complyscan/complyscan/internal/report"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the accepted-findings baseline",
	}

	var out string
	update := &cobra.Command{
		Use:   "update",
		Short: "Accept all current findings into the baseline",
		RunE: func(cmd *cobra.Command, _ []string) error {
			abs, _ := filepath.Abs(".")
			cfg := engine.Config{Root: abs, Threads: flagThreads, DefaultExcludes: true}
			results, err := engine.Scan(cfg)
			if err != nil {
				return err
			}
			if err := report.SaveBaseline(out, results); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Baseline updated: %d findings accepted.\n", len(results))
			return nil
		},
	}
	update.Flags().StringVar(&out, "output", "complyscan.baseline.json", "baseline file to write")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
