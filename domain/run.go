package domain

import (
	"sync/atomic"
	"time"
)

// AbortState records whether the user asked to stop the current run.
// It starts false and can be set exactly once.
type AbortState struct {
	aborting atomic.Bool
}

// Request marks the run as aborting. It returns true only for the call
// that performed the transition.
func (s *AbortState) Request() bool {
	return s.aborting.CompareAndSwap(false, true)
}

// Requested reports whether an abort has been requested
func (s *AbortState) Requested() bool {
	return s.aborting.Load()
}

// ToolOutcome classifies a finished tool invocation
type ToolOutcome string

const (
	// ToolOutcomeClean means the tool completed and reported nothing
	ToolOutcomeClean ToolOutcome = "clean"

	// ToolOutcomeFindings means the tool completed and reported issues
	ToolOutcomeFindings ToolOutcome = "findings"

	// ToolOutcomeFailed means the tool could not run or exited abnormally
	ToolOutcomeFailed ToolOutcome = "failed"
)

// ToolResult is the record of one tool invocation
type ToolResult struct {
	Tool     string        `json:"tool"`
	Targets  []string      `json:"targets"`
	Outcome  ToolOutcome   `json:"outcome"`
	ExitCode int           `json:"exit_code"`
	Score    *float64      `json:"score,omitempty"`
	Output   string        `json:"output"`
	Allowed  bool          `json:"allowed,omitempty"` // findings tolerated by configuration
	Duration time.Duration `json:"-"`
}

// Failing reports whether this result makes the run fail
func (r ToolResult) Failing() bool {
	switch r.Outcome {
	case ToolOutcomeFailed:
		return true
	case ToolOutcomeFindings:
		return !r.Allowed
	default:
		return false
	}
}

// RunReport is the machine-readable summary of a run
type RunReport struct {
	Version     string       `json:"version"`
	Commit      string       `json:"commit"`
	GeneratedAt string       `json:"generated_at"`
	DurationMs  int64        `json:"duration_ms"`
	Passed      bool         `json:"passed"`
	Aborted     bool         `json:"aborted"`
	ExitCode    int          `json:"exit_code"`
	Tools       []ToolResult `json:"tools"`
	Errors      []string     `json:"errors"`
}
