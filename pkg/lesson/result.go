package lesson

import "time"

// Status constants for lesson run outcomes.
const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusPassed   = "passed"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
	StatusTimedOut = "timed_out"
	StatusErrored  = "errored"
)

// CapturedLine is one line of output recorded during a run.
// Lines are append-only and strictly ordered: both Sequence
// and Offset increase monotonically within a run.
type CapturedLine struct {
	// LessonID identifies the run the line belongs to.
	LessonID ID `json:"lesson_id"`

	// Sequence is the zero-based emission index within the
	// run.
	Sequence int `json:"sequence"`

	// Text is the emitted line, without trailing newline.
	Text string `json:"text"`

	// Offset is the time since run start at which the line
	// was emitted. Reports show offsets, never wall-clock
	// times.
	Offset time.Duration `json:"offset"`
}

// CheckResult is the outcome of a single Assert step.
type CheckResult struct {
	// Description is the assert step's description.
	Description string `json:"description"`

	// Passed indicates whether the predicate held.
	Passed bool `json:"passed"`
}

// RunResult captures the complete outcome of one lesson run.
// It is created once per run and never mutated afterwards.
type RunResult struct {
	// LessonID is the unique identifier of the lesson.
	LessonID ID `json:"lesson_id"`

	// Title is the lesson's human-readable title.
	Title string `json:"title"`

	// Category is the lesson's category, carried so reports
	// can group results without a registry lookup.
	Category string `json:"category"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	// StartTime is when execution began.
	StartTime time.Time `json:"start_time"`

	// Duration is the wall-clock execution time.
	Duration time.Duration `json:"duration"`

	// Lines holds the output captured during the run, in
	// emission order.
	Lines []CapturedLine `json:"lines"`

	// Checks holds the outcome of each Assert step, in
	// declared order.
	Checks []CheckResult `json:"checks,omitempty"`

	// FailureReason explains a non-passed status. Empty for
	// passed runs.
	FailureReason string `json:"failure_reason,omitempty"`
}

// Passed reports whether the run ended in StatusPassed.
func (r *RunResult) Passed() bool {
	return r.Status == StatusPassed
}

// IsFinal reports whether the status is a terminal state.
func (r *RunResult) IsFinal() bool {
	switch r.Status {
	case StatusPassed, StatusFailed, StatusSkipped,
		StatusTimedOut, StatusErrored:
		return true
	}
	return false
}

// ChecksPassed returns how many Assert steps passed.
func (r *RunResult) ChecksPassed() int {
	n := 0
	for _, c := range r.Checks {
		if c.Passed {
			n++
		}
	}
	return n
}
