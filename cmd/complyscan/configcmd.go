package complyscan

import (
	"fmt"
	"os"
	"strings"

	"github.com/complyscan/complyscan/internal/config"
	"github.com/complyscan/complyscan/internal/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	cfgFrameworks      string
	cfgOutput          string
	cfgRulesDir        string
	cfgFailOn          string
	cfgThreads         int
	cfgMaxBytes        int64
	cfgNoColor         bool
	cfgDefaultExcludes bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .complyscan.yml with selected frameworks and options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgFrameworks, "framework", "", "comma-separated frameworks to check (default: all)")
	initCmd.Flags().StringVar(&cfgOutput, "output", ".complyscan.yml", "output file path")
	initCmd.Flags().StringVar(&cfgRulesDir, "rules-dir", "", "directory with extra rule catalogs")
	initCmd.Flags().StringVar(&cfgFailOn, "fail-on", "medium", "gate threshold: low | medium | high | critical")
	initCmd.Flags().IntVar(&cfgThreads, "threads", 0, "worker threads (0=GOMAXPROCS)")
	initCmd.Flags().Int64Var(&cfgMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().BoolVar(&cfgDefaultExcludes, "default-excludes", true, "enable default ignore patterns")
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	frameworks := strings.TrimSpace(cfgFrameworks)
	if frameworks == "" {
		var all []string
		for _, fw := range types.Frameworks() {
			all = append(all, string(fw))
		}
		frameworks = strings.Join(all, ",")
	} else {
		if _, err := parseFrameworks(frameworks); err != nil {
			return err
		}
	}

	fc := config.FileConfig{
		Include:         nil,
		Exclude:         nil,
		MaxBytes:        int64Ptr(cfgMaxBytes),
		Threads:         intPtr(cfgThreads),
		RulesDir:        optStrPtr(cfgRulesDir),
		Frameworks:      strPtr(frameworks),
		FailOn:          strPtr(cfgFailOn),
		NoColor:         boolPtr(cfgNoColor),
		DefaultExcludes: boolPtr(cfgDefaultExcludes),
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Println("Wrote", cfgOutput)
	return nil
}

func strPtr(s string) *string { return &s }
func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func intPtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }
