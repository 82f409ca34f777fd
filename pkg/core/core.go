package core

import (
	"github.com/complyscan/complyscan/internal/engine"
	"github.com/complyscan/complyscan/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type Config = engine.Config
type Result = engine.Result
type Finding = types.Finding
type Summary = types.Summary
type Severity = types.Severity
type Framework = types.Framework

// Scan is the stable entrypoint for other programs.
func Scan(cfg Config) ([]Finding, error) {
	return engine.Scan(cfg)
}

// ScanWithStats runs a scan and returns findings plus run statistics.
func ScanWithStats(cfg Config) (Result, error) {
	return engine.ScanWithStats(cfg)
}

// RuleIDs returns the IDs of all built-in rules and detectors.
// This is exposed for convenience to avoid importing internals directly.
func RuleIDs() []string { return engine.RuleIDs() }
