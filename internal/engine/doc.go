// Package engine implements the compliance scan pipeline: artifact
// collection, parallel rule evaluation, and result aggregation.
//
// Evaluation is a pure mapping from (artifact, rule) to zero or one
// finding, applied exhaustively. Artifacts are independent, so the pool
// evaluates them in parallel with no shared mutable state; merging the
// workers' partial finding sets into the Result is the sole
// synchronization point. A single unreadable artifact is recorded as an
// error on the Result and never aborts the run, while a malformed rule
// aborts before any artifact is scanned.
package engine
