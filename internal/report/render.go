package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/complyscan/complyscan/internal/types"
	"github.com/olekukonko/tablewriter"
)

type PrintOptions struct {
	NoColor      bool
	Duration     time.Duration
	FilesScanned int
}

// PrintText writes findings in a plain columnar format.
func PrintText(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No compliance issues found ✅")
	} else {
		maxRule := 8
		for _, f := range findings {
			if l := len(f.RuleID); l > maxRule {
				maxRule = l
			}
		}
		for _, f := range findings {
			sev := string(f.Severity)
			if !opts.NoColor {
				sev = colorSeverity(f.Severity)
			}
			fmt.Fprintf(w, "%-8s %-*s %-9s %-11s %s:%d\n", sev, maxRule, f.RuleID, f.Framework, f.ControlID, f.Path, f.Line)
		}
	}
	printFooter(w, findings, opts)
}

// PrintTable writes findings as a bordered table grouped by severity order.
func PrintTable(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No compliance issues found ✅")
		printFooter(w, findings, opts)
		return
	}
	table := tablewriter.NewWriter(w)
	table.Header("Severity", "Rule", "Framework", "Control", "Location", "Review")
	for _, f := range findings {
		review := ""
		if f.NeedsReview {
			review = "yes"
		}
		_ = table.Append([]string{
			string(f.Severity),
			f.RuleID,
			string(f.Framework),
			f.ControlID,
			f.Path + ":" + strconv.Itoa(f.Line),
			review,
		})
	}
	_ = table.Render()
	printFooter(w, findings, opts)
}

func printFooter(w io.Writer, findings []types.Finding, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	sum := types.Summarize(findings, opts.FilesScanned, opts.Duration)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (critical: %d, high: %d, medium: %d, low: %d)\n",
		sum.TotalFindings,
		sum.BySeverity[types.SevCritical],
		sum.BySeverity[types.SevHigh],
		sum.BySeverity[types.SevMed],
		sum.BySeverity[types.SevLow])
	fmt.Fprintf(w, "By framework: iso27001: %d, soc2: %d, gdpr: %d\n",
		sum.ByFramework[types.FwISO27001],
		sum.ByFramework[types.FwSOC2],
		sum.ByFramework[types.FwGDPR])
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
}

func colorSeverity(s types.Severity) string {
	switch s {
	case types.SevCritical:
		return "\x1b[35mcritical\x1b[0m" // magenta
	case types.SevHigh:
		return "\x1b[31mhigh\x1b[0m" // red
	case types.SevMed:
		return "\x1b[33mmedium\x1b[0m" // yellow
	default:
		return "\x1b[36mlow\x1b[0m" // cyan
	}
}
