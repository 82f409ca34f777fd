package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/complyscan/complyscan/internal/types"
	"gopkg.in/yaml.v3"
)

// yamlCatalog is the on-disk shape of a rule catalog file.
type yamlCatalog struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	ID           string   `yaml:"id"`
	Framework    string   `yaml:"framework"`
	ControlID    string   `yaml:"control_id"`
	Severity     string   `yaml:"severity"`
	Pattern      string   `yaml:"pattern"`
	FileGlobs    []string `yaml:"file_globs"`
	WhyItMatters string   `yaml:"why_it_matters"`
	Remediation  string   `yaml:"remediation"`
	Confidence   string   `yaml:"confidence"`
	NeedsReview  bool     `yaml:"needs_review"`
}

// LoadFile parses one YAML catalog file. Any malformed rule fails the whole
// load: rules must be valid before a scan starts.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}
	var doc yamlCatalog
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, &LoadError{File: path, Err: err}
	}
	rs := make([]Rule, 0, len(doc.Rules))
	for _, yr := range doc.Rules {
		r, err := yr.compile(path)
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	c, err := NewCatalog(rs)
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}
	return c, nil
}

// LoadDir loads every *.yml / *.yaml catalog in dir, in lexical order.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{File: dir, Err: err}
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yml" || ext == ".yaml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	out, err := NewCatalog(nil)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		c, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		out, err = out.Merge(c)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (yr yamlRule) compile(file string) (Rule, error) {
	if yr.ID == "" {
		return Rule{}, &LoadError{File: file, Err: fmt.Errorf("missing rule id")}
	}
	fw, ok := types.ParseFramework(yr.Framework)
	if !ok {
		return Rule{}, &LoadError{File: file, RuleID: yr.ID, Err: fmt.Errorf("unknown framework %q", yr.Framework)}
	}
	sev, ok := types.ParseSeverity(yr.Severity)
	if !ok {
		return Rule{}, &LoadError{File: file, RuleID: yr.ID, Err: fmt.Errorf("unknown severity %q", yr.Severity)}
	}
	re, err := compilePattern(yr.Pattern)
	if err != nil {
		return Rule{}, &LoadError{File: file, RuleID: yr.ID, Err: fmt.Errorf("invalid pattern: %w", err)}
	}
	conf := yr.Confidence
	if conf == "" {
		conf = "high"
	}
	return Rule{
		ID:           yr.ID,
		Framework:    fw,
		ControlID:    yr.ControlID,
		Severity:     sev,
		Pattern:      re,
		FileGlobs:    yr.FileGlobs,
		WhyItMatters: yr.WhyItMatters,
		Remediation:  yr.Remediation,
		Confidence:   conf,
		NeedsReview:  yr.NeedsReview,
	}, nil
}
