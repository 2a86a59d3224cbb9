// Package metrics defines the metrics surface of the lesson
// runner and an in-memory collector for it.
package metrics

import "time"

// LessonMetrics defines the interface for recording run
// metrics.
type LessonMetrics interface {
	// RecordRun records a completed lesson run.
	RecordRun(lessonID, status string, duration time.Duration)
	// RecordStep records an executed step of the given kind.
	RecordStep(lessonID, kind string)
	// RecordCheck records an Assert step evaluation.
	RecordCheck(lessonID string, passed bool)
	// SetActiveRuns sets the gauge of in-flight runs.
	SetActiveRuns(count int)
}

// NoopMetrics is a no-op implementation of LessonMetrics,
// useful for testing or when metrics collection is disabled.
type NoopMetrics struct{}

func (NoopMetrics) RecordRun(_, _ string, _ time.Duration) {}
func (NoopMetrics) RecordStep(_, _ string)                 {}
func (NoopMetrics) RecordCheck(_ string, _ bool)           {}
func (NoopMetrics) SetActiveRuns(_ int)                    {}
