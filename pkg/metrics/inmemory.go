package metrics

import (
	"sync"
	"time"
)

// InMemoryMetrics implements LessonMetrics with mutex-guarded
// in-memory counters. It is safe for concurrent use by
// parallel runs.
type InMemoryMetrics struct {
	mu        sync.Mutex
	runs      map[string]int
	steps     map[string]int
	checks    map[string]int
	durations map[string][]time.Duration
	active    int
}

// NewInMemoryMetrics creates an empty InMemoryMetrics.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		runs:      make(map[string]int),
		steps:     make(map[string]int),
		checks:    make(map[string]int),
		durations: make(map[string][]time.Duration),
	}
}

// RecordRun records a completed lesson run.
func (m *InMemoryMetrics) RecordRun(
	lessonID, status string,
	duration time.Duration,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs[lessonID+":"+status]++
	m.durations[lessonID] = append(
		m.durations[lessonID], duration,
	)
}

// RecordStep records an executed step of the given kind.
func (m *InMemoryMetrics) RecordStep(lessonID, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.steps[lessonID+":"+kind]++
}

// RecordCheck records an Assert step evaluation.
func (m *InMemoryMetrics) RecordCheck(
	lessonID string,
	passed bool,
) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := "failed"
	if passed {
		status = "passed"
	}
	m.checks[lessonID+":"+status]++
}

// SetActiveRuns sets the gauge of in-flight runs.
func (m *InMemoryMetrics) SetActiveRuns(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = count
}

// RunCount returns the count for a lesson+status combination.
func (m *InMemoryMetrics) RunCount(
	lessonID, status string,
) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs[lessonID+":"+status]
}

// StepCount returns the count for a lesson+kind combination.
func (m *InMemoryMetrics) StepCount(
	lessonID, kind string,
) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps[lessonID+":"+kind]
}

// CheckCount returns the count of passed or failed checks for
// a lesson.
func (m *InMemoryMetrics) CheckCount(
	lessonID string,
	passed bool,
) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := "failed"
	if passed {
		status = "passed"
	}
	return m.checks[lessonID+":"+status]
}

// ActiveRuns returns the current in-flight runs gauge.
func (m *InMemoryMetrics) ActiveRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Durations returns the recorded durations for a lesson.
func (m *InMemoryMetrics) Durations(
	lessonID string,
) []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]time.Duration, len(m.durations[lessonID]))
	copy(out, m.durations[lessonID])
	return out
}
