package complyscan

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/complyscan/complyscan/internal/rules"
	"github.com/complyscan/complyscan/internal/types"
	"github.com/spf13/cobra"
)

// gendocs regenerates the rule catalog section in README.md between the
// markers <!-- BEGIN:RULES_CATALOG --> and <!-- END:RULES_CATALOG -->.
func init() {
	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Regenerate README rule catalog section",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := "README.md"
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			start := []byte("<!-- BEGIN:RULES_CATALOG -->")
			end := []byte("<!-- END:RULES_CATALOG -->")
			i := bytes.Index(b, start)
			j := bytes.Index(b, end)
			if i < 0 || j < 0 || j <= i {
				return fmt.Errorf("markers not found in README.md")
			}

			byFramework := map[types.Framework][]string{}
			for _, r := range rules.Builtin().Rules() {
				byFramework[r.Framework] = append(byFramework[r.Framework],
					fmt.Sprintf("`%s` (%s, %s)", r.ID, r.ControlID, r.Severity))
			}

			var out strings.Builder
			out.WriteString("\nBuilt-in rules by framework (run `complyscan rules` for the full, up-to-date list):\n\n")
			titles := map[types.Framework]string{
				types.FwISO27001: "ISO/IEC 27001",
				types.FwSOC2:     "SOC 2 Trust Services",
				types.FwGDPR:     "EU GDPR",
			}
			for _, fw := range types.Frameworks() {
				ids := byFramework[fw]
				if len(ids) == 0 {
					continue
				}
				sort.Strings(ids)
				out.WriteString("- " + titles[fw] + ":\n")
				out.WriteString("  - " + strings.Join(ids, ", ") + "\n")
			}

			var nb bytes.Buffer
			nb.Write(b[:i])
			nb.Write(start)
			nb.WriteString("\n")
			nb.WriteString(out.String())
			nb.Write(end)
			nb.Write(b[j+len(end):])
			return os.WriteFile(path, nb.Bytes(), 0644)
		},
	}
	rootCmd.AddCommand(cmd)
}
