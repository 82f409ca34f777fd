package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/complyscan/complyscan/internal/types"
)

// Rule is one compiled compliance check: a regex pattern tied to a framework
// control, with remediation guidance. Rules are immutable once loaded.
type Rule struct {
	ID           string
	Framework    types.Framework
	ControlID    string
	Severity     types.Severity
	Pattern      *regexp.Regexp
	FileGlobs    []string
	WhyItMatters string
	Remediation  string
	Confidence   string
	NeedsReview  bool
}

// AppliesTo reports whether the rule's file globs select the given path.
// An empty glob list applies to every path. Globs match the full relative
// path and, as a convenience, the basename.
func (r Rule) AppliesTo(path string) bool {
	if len(r.FileGlobs) == 0 {
		return true
	}
	rp := strings.ReplaceAll(path, "\\", "/")
	for _, g := range r.FileGlobs {
		if ok, _ := doublestar.Match(g, rp); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(rp)); ok {
			return true
		}
	}
	return false
}

// LoadError reports a malformed rule definition. Rule loading is fatal and
// happens before any artifact is scanned.
type LoadError struct {
	File   string
	RuleID string
	Err    error
}

func (e *LoadError) Error() string {
	src := e.File
	if src == "" {
		src = "builtin"
	}
	if e.RuleID != "" {
		return fmt.Sprintf("rule %s (%s): %v", e.RuleID, src, e.Err)
	}
	return fmt.Sprintf("rule catalog %s: %v", src, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Catalog is an ordered, immutable collection of rules with unique IDs.
type Catalog struct {
	rules []Rule
	byID  map[string]int
}

// NewCatalog validates and assembles rules into a catalog. Duplicate IDs
// are rejected.
func NewCatalog(rs []Rule) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(rs))}
	for _, r := range rs {
		if _, dup := c.byID[r.ID]; dup {
			return nil, &LoadError{RuleID: r.ID, Err: fmt.Errorf("duplicate rule id")}
		}
		c.byID[r.ID] = len(c.rules)
		c.rules = append(c.rules, r)
	}
	return c, nil
}

// Rules returns the catalog's rules in load order.
func (c *Catalog) Rules() []Rule { return c.rules }

// Len returns the number of rules in the catalog.
func (c *Catalog) Len() int { return len(c.rules) }

// ByID looks up a rule by its identifier.
func (c *Catalog) ByID(id string) (Rule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// IDs returns all rule identifiers in load order.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.rules))
	for _, r := range c.rules {
		out = append(out, r.ID)
	}
	return out
}

// Merge appends other's rules after c's, preserving order. A rule ID present
// in both catalogs is rejected.
func (c *Catalog) Merge(other *Catalog) (*Catalog, error) {
	merged := make([]Rule, 0, len(c.rules)+len(other.rules))
	merged = append(merged, c.rules...)
	merged = append(merged, other.rules...)
	return NewCatalog(merged)
}

// ForFrameworks returns a catalog restricted to the given frameworks.
// An empty filter returns the catalog unchanged.
func (c *Catalog) ForFrameworks(fws []types.Framework) *Catalog {
	if len(fws) == 0 {
		return c
	}
	want := map[types.Framework]bool{}
	for _, fw := range fws {
		want[fw] = true
	}
	out := &Catalog{byID: map[string]int{}}
	for _, r := range c.rules {
		if want[r.Framework] {
			out.byID[r.ID] = len(out.rules)
			out.rules = append(out.rules, r)
		}
	}
	return out
}

// Filter returns a catalog keeping only enabled IDs (when enable is
// non-empty) and dropping disabled IDs. Both are comma-separated lists.
func (c *Catalog) Filter(enable, disable string) *Catalog {
	if enable == "" && disable == "" {
		return c
	}
	allowed := splitIDs(enable)
	blocked := splitIDs(disable)
	out := &Catalog{byID: map[string]int{}}
	for _, r := range c.rules {
		if len(allowed) > 0 && !allowed[r.ID] {
			continue
		}
		if blocked[r.ID] {
			continue
		}
		out.byID[r.ID] = len(out.rules)
		out.rules = append(out.rules, r)
	}
	return out
}

func splitIDs(s string) map[string]bool {
	out := map[string]bool{}
	if s == "" {
		return out
	}
	for _, id := range strings.Split(s, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			out[id] = true
		}
	}
	return out
}

// compilePattern compiles a rule pattern with the catalog's default flags
// (case-insensitive, multiline), matching the historical rule syntax.
func compilePattern(p string) (*regexp.Regexp, error) {
	if strings.TrimSpace(p) == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	return regexp.Compile("(?im)" + p)
}
