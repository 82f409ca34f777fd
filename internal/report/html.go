package report

import (
	"bytes"
	"html/template"
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	htmlfmt "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/complyscan/complyscan/internal/types"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Compliance Scan Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; background: #f5f5f5; }
.container { max-width: 1100px; margin: 0 auto; background: white; padding: 20px; border-radius: 8px; }
.header { border-bottom: 3px solid #2c3e50; padding-bottom: 16px; margin-bottom: 24px; }
.summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(160px, 1fr)); gap: 16px; margin-bottom: 24px; }
.card { background: #ecf0f1; padding: 16px; border-radius: 6px; text-align: center; }
.card .number { font-size: 1.8em; font-weight: bold; color: #3498db; }
.sev-critical { color: #c0392b; }
.sev-high { color: #e74c3c; }
.sev-medium { color: #f39c12; }
.sev-low { color: #27ae60; }
.finding { border: 1px solid #ddd; border-radius: 6px; margin-bottom: 16px; }
.finding-header { padding: 12px; background: #34495e; color: white; }
.finding-body { padding: 16px; }
.evidence { background: #f8f9fa; border: 1px solid #dee2e6; border-radius: 4px; padding: 12px; margin: 8px 0; font-family: monospace; overflow-x: auto; }
.recommendations { background: #e8f5e8; border-left: 4px solid #27ae60; padding: 16px; margin: 16px 0; }
.risks { background: #ffe6e6; border-left: 4px solid #e74c3c; padding: 16px; margin: 16px 0; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>Compliance &amp; Security Scan Report</h1>
<p><strong>Scan ID:</strong> {{.ScanID}}</p>
<p><strong>Timestamp:</strong> {{.Timestamp.Format "2006-01-02 15:04:05"}}</p>
<p><strong>Paths:</strong> {{join .PathsScanned ", "}}</p>
</div>
<div class="summary">
<div class="card"><h3>Files Scanned</h3><div class="number">{{.Summary.FilesScanned}}</div></div>
<div class="card"><h3>Total Findings</h3><div class="number">{{.Summary.TotalFindings}}</div></div>
<div class="card"><h3>Critical</h3><div class="number sev-critical">{{sevCount .Summary "critical"}}</div></div>
<div class="card"><h3>High</h3><div class="number sev-high">{{sevCount .Summary "high"}}</div></div>
<div class="card"><h3>Duration</h3><div class="number">{{printf "%.2fs" .Summary.DurationSecs}}</div></div>
</div>
{{if .Recommendations}}
<div class="recommendations">
<h2>Priority Recommendations</h2>
<ul>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>
</div>
{{end}}
{{if .TopRisks}}
<div class="risks">
<h2>Top Risks</h2>
<ul>{{range .TopRisks}}<li><strong>{{.Path}}</strong>: {{.WhyItMatters}}</li>{{end}}</ul>
</div>
{{end}}
<h2>Findings ({{len .Findings}})</h2>
{{range .Findings}}
<div class="finding">
<div class="finding-header">
<span class="sev-{{.Severity}}">{{upper .Severity}}</span>
&mdash; {{upper .Framework}} {{.ControlID}} &mdash; {{.Path}}:{{.Line}}
{{if .NeedsReview}}<span style="color:#f39c12"> [NEEDS REVIEW]</span>{{end}}
</div>
<div class="finding-body">
<p><strong>Rule:</strong> {{.RuleID}}</p>
<p><strong>Why it matters:</strong> {{.WhyItMatters}}</p>
<p><strong>Remediation:</strong> {{.Remediation}}</p>
<p><strong>Mapping confidence:</strong> {{.Confidence}}</p>
<div class="evidence">{{highlight .Excerpt .Path}}</div>
</div>
</div>
{{end}}
</div>
</body>
</html>
`

// WriteHTML renders the report document as a standalone HTML page with
// syntax-highlighted evidence snippets.
func WriteHTML(w io.Writer, env Envelope) error {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"join": strings.Join,
		"upper": func(v interface{}) string {
			switch t := v.(type) {
			case types.Severity:
				return strings.ToUpper(string(t))
			case types.Framework:
				return strings.ToUpper(string(t))
			case string:
				return strings.ToUpper(t)
			}
			return ""
		},
		"highlight": highlightHTML,
		"sevCount": func(s types.Summary, sev string) int {
			return s.BySeverity[types.Severity(sev)]
		},
	}).Parse(htmlTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, env)
}

// highlightHTML renders an evidence snippet with chroma, falling back to
// escaped plain text for unknown file types.
func highlightHTML(code, filename string) template.HTML {
	lexer := lexers.Match(filepath.Base(filename))
	if lexer == nil {
		ext := filepath.Ext(filename)
		if ext != "" {
			lexer = lexers.Match("file" + ext)
		}
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}
	formatter := htmlfmt.New(htmlfmt.WithClasses(false))

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(code))
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return template.HTML(template.HTMLEscapeString(code))
	}
	return template.HTML(buf.String())
}
