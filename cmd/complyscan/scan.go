package complyscan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/complyscan/complyscan/internal/audit"
	"github.com/complyscan/complyscan/internal/cache"
	"github.com/complyscan/complyscan/internal/config"
	"github.com/complyscan/complyscan/internal/engine"
	"github.com/complyscan/complyscan/internal/git"
	"github.com/complyscan/complyscan/internal/report"
	"github.com/complyscan/complyscan/internal/tui"
	"github.com/complyscan/complyscan/internal/types"
	"github.com/complyscan/complyscan/internal/update"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagPath        string
	flagStaged      bool
	flagBase        string
	flagInclude     string
	flagExclude     string
	flagMaxBytes    int64
	flagRulesDir    string
	flagNoBuiltin   bool
	flagFrameworks  string
	flagEnable      string
	flagDisable     string
	flagNoDetectors bool
	flagBaseline    string
	flagTable       bool
	flagText        bool
	flagTUI         bool
	flagNoAudit     bool
	// registry image scanning
	flagImages            []string
	flagMaxImageFileBytes int64
	flagMaxImageEntries   int
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan files and images for compliance violations",
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagPath, "path", "p", ".", "path to scan")
	cmd.Flags().BoolVar(&flagStaged, "staged", false, "scan staged changes only")
	cmd.Flags().StringVar(&flagBase, "base", "", "scan diff vs base branch (e.g. main)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 1<<20, "skip files larger than this")
	cmd.Flags().StringVar(&flagRulesDir, "rules-dir", "", "load extra rule catalogs from this directory")
	cmd.Flags().BoolVar(&flagNoBuiltin, "no-builtin-rules", false, "do not load the built-in rule catalog")
	cmd.Flags().StringVar(&flagFrameworks, "framework", "", "restrict to frameworks (comma-separated: iso27001,soc2,gdpr)")
	cmd.Flags().StringVar(&flagEnable, "enable", "", "only run these rules (comma-separated IDs)")
	cmd.Flags().StringVar(&flagDisable, "disable", "", "disable these rules (comma-separated IDs)")
	cmd.Flags().BoolVar(&flagNoDetectors, "no-detectors", false, "disable cross-line detectors (document gaps, PII concentration)")
	cmd.Flags().StringVar(&flagBaseline, "baseline", "", "baseline file for accepted findings (default complyscan.baseline.json)")
	cmd.Flags().BoolVar(&flagTable, "table", false, "output in table format with borders (default)")
	cmd.Flags().BoolVar(&flagText, "text", false, "output in plain text columnar format")
	cmd.Flags().BoolVar(&flagTUI, "tui", false, "browse findings interactively")
	cmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "do not append a record to the audit log")
	cmd.Flags().StringSliceVar(&flagImages, "image", nil, "also scan an OCI image from a registry (repeatable)")
	cmd.Flags().Int64Var(&flagMaxImageFileBytes, "max-image-file-bytes", 0, "skip image layer files larger than this (0 = default)")
	cmd.Flags().IntVar(&flagMaxImageEntries, "max-image-entries", 0, "stop after this many files per image (0 = default)")
}

func parseFrameworks(s string) ([]types.Framework, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []types.Framework
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fw, ok := types.ParseFramework(part)
		if !ok {
			return nil, fmt.Errorf("unknown framework %q (supported: iso27001, soc2, gdpr)", part)
		}
		out = append(out, fw)
	}
	return out, nil
}

func runScan(cmd *cobra.Command, _ []string) error {
	abs, _ := filepath.Abs(flagPath)
	// Load configs: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	frameworks, err := parseFrameworks(pickString(flagFrameworks, lcfg.Frameworks, gcfg.Frameworks))
	if err != nil {
		return err
	}

	images := flagImages
	if len(images) == 0 {
		if len(lcfg.Images) > 0 {
			images = lcfg.Images
		} else {
			images = gcfg.Images
		}
	}

	cfg := engine.Config{
		Root:              abs,
		IncludeGlobs:      pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:      pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:          pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:           pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		RulesDir:          pickString(flagRulesDir, lcfg.RulesDir, gcfg.RulesDir),
		NoBuiltinRules:    pickBool(flagNoBuiltin, lcfg.NoBuiltinRules, gcfg.NoBuiltinRules),
		Frameworks:        frameworks,
		EnableRules:       pickString(flagEnable, lcfg.Enable, gcfg.Enable),
		DisableRules:      pickString(flagDisable, lcfg.Disable, gcfg.Disable),
		NoDetectors:       pickBool(flagNoDetectors, lcfg.NoDetectors, gcfg.NoDetectors),
		ScanStaged:        flagStaged,
		BaseBranch:        flagBase,
		Images:            images,
		MaxImageFileBytes: pickInt64(flagMaxImageFileBytes, lcfg.MaxImageFileBytes, gcfg.MaxImageFileBytes),
		MaxImageEntries:   pickInt(flagMaxImageEntries, lcfg.MaxImageEntries, gcfg.MaxImageEntries),
		DryRun:            flagDryRun,
		NoCache:           pickBool(flagNoCache, lcfg.NoCache, gcfg.NoCache),
		DefaultExcludes:   flagDefaultExcludes,
	}
	noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		noColor = true
	}
	baselinePath := pickString(flagBaseline, lcfg.Baseline, gcfg.Baseline)
	if baselinePath == "" {
		baselinePath = "complyscan.baseline.json"
	}
	failOn := pickString(flagFailOn, lcfg.FailOn, gcfg.FailOn)

	machineOutput := flagJSON || flagSARIF

	// Any malformed rule aborts before scanning starts.
	catalog, err := engine.LoadCatalog(cfg)
	if err != nil {
		return err
	}

	if !machineOutput {
		if !flagNoUpdateCheck {
			if latest, newer, _ := update.Check(version, false); newer && latest != "" {
				_, _ = fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'complyscan update' to upgrade\n", latest)
			}
		}
		if flagSelfUpdate {
			if err := selfUpdate(); err == nil {
				_, _ = fmt.Fprintln(os.Stderr, "updated to latest; re-run command")
				return nil
			}
		}
		_, _ = fmt.Fprintf(os.Stderr, "Scanning %s against %d rules...\n", abs, catalog.Len())
	}

	// Optional progress bar: simple textual bar
	total, _ := engine.CountTargets(cfg)
	progressed := 0
	if total > 0 && !machineOutput {
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				_, _ = fmt.Fprintf(os.Stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}

	res, err := engine.ScanWithStats(cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if total > 0 && !machineOutput {
		_, _ = fmt.Fprintln(os.Stderr)
	}

	// Unreadable artifacts are reported but never abort the run.
	for _, aerr := range res.ArtifactErrors {
		_, _ = fmt.Fprintln(os.Stderr, "warning:", aerr)
	}

	if flagDryRun {
		_, _ = fmt.Fprintf(os.Stderr, "dry run: %d files would be scanned\n", res.FilesScanned)
		return nil
	}

	// Keep the run around for `complyscan view`.
	if !cfg.NoCache {
		_ = cache.SaveResults(abs, res.Findings)
	}

	baseline, _ := report.LoadBaseline(baselinePath)
	newFindings := report.FilterNewFindings(res.Findings, baseline)
	if newFindings == nil {
		newFindings = []types.Finding{}
	} // no `null` in JSON

	if !flagNoAudit {
		log := audit.NewAuditLog(abs)
		rec := audit.CreateScanRecord(abs, res.Findings, newFindings, res.FilesScanned, res.Duration, baselinePath)
		rec.Repo, rec.Commit, rec.Branch = git.RepoMetadata(abs)
		if err := log.LogScan(rec); err != nil && !machineOutput {
			_, _ = fmt.Fprintln(os.Stderr, "audit warning:", err)
		}
	}

	if flagHTML != "" {
		f, err := os.Create(flagHTML)
		if err != nil {
			return err
		}
		env := report.NewEnvelope([]string{abs}, newFindings, res.Summary)
		werr := report.WriteHTML(f, env)
		_ = f.Close()
		if werr != nil {
			return fmt.Errorf("html error: %w", werr)
		}
		_, _ = fmt.Fprintln(os.Stderr, "wrote", flagHTML)
	}

	opts := report.PrintOptions{NoColor: noColor, Duration: res.Duration, FilesScanned: res.FilesScanned}
	switch {
	case flagSARIF:
		if err := report.WriteSARIF(os.Stdout, newFindings); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case flagJSON:
		env := report.NewEnvelope([]string{abs}, newFindings, res.Summary)
		if err := report.WriteJSON(os.Stdout, env); err != nil {
			return err
		}
	case flagTUI:
		if err := tui.RunWithBaseline(res.Findings, baseline); err != nil {
			return err
		}
	case flagText:
		report.PrintText(os.Stdout, newFindings, opts)
	default:
		report.PrintTable(os.Stdout, newFindings, opts)
	}

	if report.ShouldFail(newFindings, failOn) {
		os.Exit(1)
	}
	return nil
}
