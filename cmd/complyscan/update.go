package complyscan

import (
	"fmt"
	"os"

	"github.com/complyscan/complyscan/internal/update"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update complyscan to the latest release",
		RunE: func(_ *cobra.Command, _ []string) error {
			latest, newer, err := update.Check(version, false)
			if err == nil && !newer {
				fmt.Fprintf(os.Stdout, "complyscan v%s is up to date.\n", version)
				return nil
			}
			if latest != "" {
				fmt.Fprintf(os.Stderr, "updating to v%s...\n", latest)
			}
			if err := selfUpdate(); err != nil {
				return fmt.Errorf("self-update failed: %w", err)
			}
			fmt.Fprintln(os.Stdout, "updated to latest release.")
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
