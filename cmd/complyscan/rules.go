package complyscan

import (
	"fmt"
	"os"
	"strings"

	"github.com/complyscan/complyscan/internal/detectors"
	"github.com/complyscan/complyscan/internal/engine"
	"github.com/spf13/cobra"
)

func init() {
	var rulesDir string
	var frameworks string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rule catalog",
		RunE: func(_ *cobra.Command, _ []string) error {
			fws, err := parseFrameworks(frameworks)
			if err != nil {
				return err
			}
			catalog, err := engine.LoadCatalog(engine.Config{
				RulesDir:   rulesDir,
				Frameworks: fws,
			})
			if err != nil {
				return err
			}
			if quiet {
				for _, id := range catalog.IDs() {
					fmt.Println(id)
				}
				return nil
			}
			for _, r := range catalog.Rules() {
				fmt.Fprintf(os.Stdout, "%-28s %-9s %-10s %-8s %s\n",
					r.ID, r.Framework, r.ControlID, r.Severity, oneLine(r.WhyItMatters))
			}
			fmt.Fprintf(os.Stdout, "\n%d rules, %d detectors (%s)\n",
				catalog.Len(), len(detectors.IDs()), strings.Join(detectors.IDs(), ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&rulesDir, "rules-dir", "", "load extra rule catalogs from this directory")
	cmd.Flags().StringVar(&frameworks, "framework", "", "restrict to frameworks (comma-separated)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print rule IDs only")
	rootCmd.AddCommand(cmd)
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 70 {
		return s[:67] + "..."
	}
	return s
}
