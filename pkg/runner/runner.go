// Package runner provides the lesson execution engine. It
// interprets a lesson's steps in declared order under a
// capture scope and a timeout budget, and supports sequential,
// prerequisite-ordered, and parallel execution.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"digital.vasic.lessons/pkg/capture"
	"digital.vasic.lessons/pkg/catalog"
	"digital.vasic.lessons/pkg/lesson"
	"digital.vasic.lessons/pkg/logging"
	"digital.vasic.lessons/pkg/metrics"
	"digital.vasic.lessons/pkg/monitor"
)

// Runner executes lessons. Independent lessons may be run
// concurrently; each run owns its own capture scope, so no
// state is shared between concurrent runs.
type Runner struct {
	registry       *catalog.Registry
	logger         logging.Logger
	metrics        metrics.LessonMetrics
	collector      *monitor.EventCollector
	capture        *capture.Capture
	defaultTimeout time.Duration
	stopOnFailure  bool
}

// New creates a Runner with the supplied options.
func New(opts ...Option) *Runner {
	r := &Runner{
		logger:         logging.NullLogger{},
		metrics:        metrics.NoopMetrics{},
		capture:        capture.New(),
		defaultTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one lesson and returns its result. It never
// returns an error: every failure mode of the lesson's content
// is captured in the result's status and failure reason.
//
// The run ends with StatusTimedOut when the cumulative
// execution time (including Delay steps) exceeds the lesson's
// timeout, or when ctx is cancelled externally; in the latter
// case the failure reason is "cancelled". The capture scope is
// released on every exit path.
func (r *Runner) Run(
	ctx context.Context,
	l *lesson.Lesson,
) *lesson.RunResult {
	result := &lesson.RunResult{
		LessonID: l.ID,
		Title:    l.Title,
		Category: l.Category,
		Status:   lesson.StatusRunning,
	}

	timeout := l.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	handle := r.capture.Begin(l.ID)
	ended := false
	defer func() {
		// Scoped-resource guarantee: the handle is always
		// finalized, even if step interpretation panics.
		if !ended {
			_, _ = r.capture.End(handle)
		}
	}()

	r.logEvent("lesson_started", l.ID, nil)
	if r.collector != nil {
		r.collector.EmitStarted(l.ID, l.Title, l.Category)
	}

	start := time.Now()
	result.StartTime = start

	sink := capture.NewWriter(handle)
	outcome := r.interpret(runCtx, l, handle, sink)
	sink.Flush()
	ctxErr := runCtx.Err()

	result.Duration = time.Since(start)

	lines, endErr := r.capture.End(handle)
	ended = true
	if endErr == nil {
		result.Lines = lines
	}
	result.Checks = outcome.checks

	var failures []string
	for _, c := range outcome.checks {
		if !c.Passed {
			failures = append(failures, c.Description)
		}
	}

	switch {
	case ctxErr != nil && errors.Is(ctxErr, context.Canceled):
		result.Status = lesson.StatusTimedOut
		result.FailureReason = "cancelled"

	case ctxErr != nil:
		result.Status = lesson.StatusTimedOut
		result.FailureReason = fmt.Sprintf(
			"timed out after %v", timeout,
		)

	case outcome.erroredReason != "":
		result.Status = lesson.StatusErrored
		result.FailureReason = outcome.erroredReason

	case outcome.pendingRaise != "":
		result.Status = lesson.StatusErrored
		result.FailureReason = fmt.Sprintf(
			"uncaught error: %s", outcome.pendingRaise,
		)

	case len(failures) > 0:
		result.Status = lesson.StatusFailed
		result.FailureReason = strings.Join(failures, "; ")

	default:
		result.Status = lesson.StatusPassed
	}

	r.metrics.RecordRun(
		string(l.ID), result.Status, result.Duration,
	)
	r.logEvent("lesson_completed", l.ID, map[string]any{
		"status":           result.Status,
		"duration_seconds": result.Duration.Seconds(),
	})
	if r.collector != nil {
		r.collector.EmitFinished(
			l.ID, l.Title, result.Status,
			result.Duration, result.FailureReason,
		)
	}

	return result
}

// runOutcome is what step interpretation produces: the kind of
// a still-pending raised error, a reason for an immediate
// errored outcome, and every Assert step's result in declared
// order.
type runOutcome struct {
	pendingRaise  string
	erroredReason string
	checks        []lesson.CheckResult
}

// interpret executes the lesson's steps in declared order.
// Log output streams through sink, so a message holding
// embedded newlines is captured as one line per newline.
//
// A raised error propagates the way an exception would: while
// one is pending, every step except Catch is skipped. A Catch
// of the matching kind clears it and execution resumes; a
// mismatched Catch leaves it pending. An error still pending
// when the steps are exhausted makes the run errored.
func (r *Runner) interpret(
	ctx context.Context,
	l *lesson.Lesson,
	handle *capture.Handle,
	sink *capture.Writer,
) runOutcome {
	var out runOutcome

	for _, step := range l.Steps {
		if ctx.Err() != nil {
			return out
		}

		if out.pendingRaise != "" &&
			step.Kind != lesson.KindCatch {
			continue
		}

		r.metrics.RecordStep(string(l.ID), step.Kind.String())

		switch step.Kind {
		case lesson.KindLog:
			fmt.Fprintln(sink, step.Message)

		case lesson.KindAssert:
			ok := r.evaluate(step, handle)
			r.metrics.RecordCheck(string(l.ID), ok)
			out.checks = append(out.checks, lesson.CheckResult{
				Description: step.Description,
				Passed:      ok,
			})
			if !ok && r.stopOnFailure {
				return out
			}

		case lesson.KindDelay:
			// Cooperative suspension: only this run's
			// goroutine parks; concurrent runs proceed.
			timer := time.NewTimer(step.Duration)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return out
			}

		case lesson.KindRaise:
			out.pendingRaise = step.ErrorKind

		case lesson.KindCatch:
			if out.pendingRaise == "" {
				out.erroredReason = fmt.Sprintf(
					"no error to catch: %s", step.ErrorKind,
				)
				return out
			}
			if out.pendingRaise == step.ErrorKind {
				out.pendingRaise = ""
			}
			// A mismatched catch leaves the error pending,
			// like an exception propagating past the wrong
			// handler.
		}
	}

	return out
}

// evaluate runs an Assert step's predicate, converting a
// panicking predicate into a failed check rather than tearing
// down the run.
func (r *Runner) evaluate(
	step lesson.Step,
	handle *capture.Handle,
) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error(
				"assert_panicked",
				logging.F("description", step.Description),
				logging.F("panic", rec),
			)
			ok = false
		}
	}()
	return step.Predicate(handle.Texts())
}

// logEvent emits a structured log entry.
func (r *Runner) logEvent(
	event string,
	id lesson.ID,
	data map[string]any,
) {
	fields := make([]logging.Field, 0, len(data)+1)
	fields = append(fields, logging.F("lesson_id", id))
	for k, v := range data {
		fields = append(fields, logging.F(k, v))
	}
	r.logger.Info(event, fields...)
}
