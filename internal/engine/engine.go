package engine

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/complyscan/complyscan/internal/artifact"
	"github.com/complyscan/complyscan/internal/cache"
	"github.com/complyscan/complyscan/internal/detectors"
	"github.com/complyscan/complyscan/internal/git"
	"github.com/complyscan/complyscan/internal/registry"
	"github.com/complyscan/complyscan/internal/rules"
	"github.com/complyscan/complyscan/internal/types"
)

// Config controls scanning behavior including scope, rule selection, and
// performance.
type Config struct {
	Root         string
	IncludeGlobs string
	ExcludeGlobs string
	MaxBytes     int64
	Threads      int

	// Rule selection
	RulesDir       string
	NoBuiltinRules bool
	Frameworks     []types.Framework
	EnableRules    string
	DisableRules   string
	NoDetectors    bool

	// Alternate scan sources
	ScanStaged bool
	BaseBranch string
	Images     []string

	// Image limits
	MaxImageFileBytes int64
	MaxImageEntries   int

	DryRun          bool
	NoCache         bool
	DefaultExcludes bool
	Progress        func()
}

// Result contains findings plus run statistics. Merging worker outputs
// into Result is the run's sole synchronization point.
type Result struct {
	Findings       []types.Finding
	Summary        types.Summary
	FilesScanned   int
	Duration       time.Duration
	ArtifactErrors []error
	ImageStats     registry.Stats
}

type pending struct {
	path string
	data []byte
}

// LoadCatalog assembles the active rule catalog for the config. Any
// malformed rule is fatal before scanning starts.
func LoadCatalog(cfg Config) (*rules.Catalog, error) {
	catalog, err := rules.NewCatalog(nil)
	if err != nil {
		return nil, err
	}
	if !cfg.NoBuiltinRules {
		catalog = rules.Builtin()
	}
	if cfg.RulesDir != "" {
		extra, err := rules.LoadDir(cfg.RulesDir)
		if err != nil {
			return nil, err
		}
		catalog, err = catalog.Merge(extra)
		if err != nil {
			return nil, err
		}
	}
	catalog = catalog.ForFrameworks(cfg.Frameworks)
	catalog = catalog.Filter(cfg.EnableRules, cfg.DisableRules)
	return catalog, nil
}

// RuleIDs returns the rule IDs active for a default config, including
// detector-emitted IDs.
func RuleIDs() []string {
	ids := rules.Builtin().IDs()
	ids = append(ids, detectors.IDs()...)
	return ids
}

// Scan runs a scan and returns only findings (without stats).
func Scan(cfg Config) ([]types.Finding, error) {
	res, err := ScanWithStats(cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

// ScanWithStats runs a full scan: load rules (fatal on malformed rules),
// gather artifacts, evaluate rules and detectors in parallel, and merge.
func ScanWithStats(cfg Config) (Result, error) {
	var result Result

	catalog, err := LoadCatalog(cfg)
	if err != nil {
		return result, fmt.Errorf("failed to load rules: %w", err)
	}

	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root)
	} else {
		db.Entries = map[string]string{}
	}

	started := time.Now()
	queue, updated, err := collect(cfg, db, &result)
	if err != nil {
		return result, err
	}

	if !cfg.DryRun {
		result.Findings = evaluateAll(cfg, catalog, queue, &result)
	}
	result.FilesScanned += len(queue)
	if cfg.Progress != nil {
		for range queue {
			cfg.Progress()
		}
	}

	sortFindings(result.Findings)
	result.Duration = time.Since(started)
	result.Summary = types.Summarize(result.Findings, result.FilesScanned, result.Duration)

	if !cfg.NoCache && len(updated) > 0 {
		if db.Entries == nil {
			db.Entries = map[string]string{}
		}
		for k, v := range updated {
			db.Entries[k] = v
		}
		_ = cache.Save(cfg.Root, db)
	}
	return result, nil
}

// collect gathers the artifacts to evaluate from the configured sources.
func collect(cfg Config, db cache.DB, result *Result) ([]pending, map[string]string, error) {
	var queue []pending
	updated := map[string]string{}

	add := func(p string, data []byte) {
		h := fastHash(data)
		if !cfg.NoCache && db.Entries != nil && db.Entries[p] == h {
			return
		}
		queue = append(queue, pending{path: p, data: data})
		if !cfg.NoCache {
			updated[p] = h
		}
	}

	switch {
	case cfg.ScanStaged:
		files, data, err := git.StagedFiles(cfg.Root)
		if err != nil {
			return nil, nil, err
		}
		for i, p := range files {
			if keepGitFile(cfg, p, data[i]) {
				add(p, data[i])
			}
		}
	case cfg.BaseBranch != "":
		files, data, err := git.ChangedAgainst(cfg.Root, cfg.BaseBranch)
		if err != nil {
			return nil, nil, err
		}
		for i, p := range files {
			if keepGitFile(cfg, p, data[i]) {
				add(p, data[i])
			}
		}
	default:
		if err := Walk(cfg, add); err != nil {
			return nil, nil, err
		}
	}

	for _, img := range cfg.Images {
		lim := registry.DefaultLimits()
		if cfg.MaxImageFileBytes > 0 {
			lim.MaxFileBytes = cfg.MaxImageFileBytes
		}
		if cfg.MaxImageEntries > 0 {
			lim.MaxEntries = cfg.MaxImageEntries
		}
		if err := registry.ScanImage(img, lim, func(p string, b []byte) {
			queue = append(queue, pending{path: p, data: b})
		}, &result.ImageStats); err != nil {
			result.ArtifactErrors = append(result.ArtifactErrors, err)
		}
	}
	return queue, updated, nil
}

func keepGitFile(cfg Config, p string, data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if cfg.MaxBytes > 0 && int64(len(data)) > cfg.MaxBytes {
		return false
	}
	return allowedByGlobs(p, cfg)
}

// evaluateAll fans artifacts out to a worker pool. Each worker owns its
// slice of partial findings; merging after the pool drains is the only
// synchronization.
func evaluateAll(cfg Config, catalog *rules.Catalog, queue []pending, result *Result) []types.Finding {
	workers := cfg.Threads
	if workers > len(queue) {
		workers = len(queue)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan pending)
	partials := make([][]types.Finding, workers)
	loadErrs := make([][]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for job := range jobs {
				a, err := artifact.FromBytes(job.path, job.data)
				if err != nil {
					loadErrs[idx] = append(loadErrs[idx], err)
					continue
				}
				partials[idx] = append(partials[idx], EvaluateArtifact(a, catalog, !cfg.NoDetectors, cfg.Frameworks)...)
			}
		}(w)
	}
	for _, job := range queue {
		jobs <- job
	}
	close(jobs)
	wg.Wait()

	var out []types.Finding
	for w := 0; w < workers; w++ {
		out = append(out, partials[w]...)
		result.ArtifactErrors = append(result.ArtifactErrors, loadErrs[w]...)
	}
	return out
}

// EvaluateArtifact applies every applicable rule and, optionally, the
// heuristic detectors to one artifact. It is side-effect-free. The framework
// restriction covers detector output too; the catalog arrives pre-filtered.
func EvaluateArtifact(a artifact.Artifact, catalog *rules.Catalog, withDetectors bool, frameworks []types.Framework) []types.Finding {
	var out []types.Finding
	for _, r := range catalog.Rules() {
		if !r.AppliesTo(a.Path) {
			continue
		}
		if f, ok := EvaluateRule(a, r); ok {
			out = append(out, f)
		}
	}
	if withDetectors {
		for _, f := range detectors.RunAll(a) {
			if frameworkAllowed(f.Framework, frameworks) {
				out = append(out, f)
			}
		}
	}
	return out
}

func frameworkAllowed(fw types.Framework, fws []types.Framework) bool {
	if len(fws) == 0 {
		return true
	}
	for _, f := range fws {
		if f == fw {
			return true
		}
	}
	return false
}

func sortFindings(fs []types.Finding) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Severity.Rank() != fs[j].Severity.Rank() {
			return fs[i].Severity.Rank() > fs[j].Severity.Rank()
		}
		if fs[i].Path != fs[j].Path {
			return fs[i].Path < fs[j].Path
		}
		if fs[i].Line != fs[j].Line {
			return fs[i].Line < fs[j].Line
		}
		return fs[i].RuleID < fs[j].RuleID
	})
}

func fastHash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

// allowedByGlobs returns true if the given path is allowed by the
// include/exclude glob configuration. Include globs are comma-separated
// and, if provided, act as a positive filter. Exclude globs are
// subtracted last.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := strings.ReplaceAll(relPath, "\\", "/")
	includes := parseGlobsList(cfg.IncludeGlobs)
	excludes := parseGlobsList(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}
