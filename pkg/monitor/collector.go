package monitor

import (
	"sync"
	"time"

	"digital.vasic.lessons/pkg/lesson"
)

// EventCollector captures lesson events and aggregate timing
// data. It is safe for concurrent use by parallel runs.
type EventCollector struct {
	mu       sync.RWMutex
	events   []LessonEvent
	handlers []func(LessonEvent)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics for a run session.
type CollectorStats struct {
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	TimedOut  int           `json:"timed_out"`
	Errored   int           `json:"errored"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]LessonEvent, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler called for each emitted event.
func (c *EventCollector) OnEvent(handler func(LessonEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(event LessonEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	switch event.Type {
	case EventPassed:
		c.stats.Total++
		c.stats.Passed++
	case EventFailed:
		c.stats.Total++
		c.stats.Failed++
	case EventSkipped:
		c.stats.Total++
		c.stats.Skipped++
	case EventTimedOut:
		c.stats.Total++
		c.stats.TimedOut++
	case EventErrored:
		c.stats.Total++
		c.stats.Errored++
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(LessonEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitStarted emits a lesson started event.
func (c *EventCollector) EmitStarted(
	id lesson.ID,
	title, category string,
) {
	c.Emit(LessonEvent{
		Type:     EventStarted,
		LessonID: id,
		Title:    title,
		Category: category,
	})
}

// EmitFinished emits the terminal event for a run, derived
// from its status.
func (c *EventCollector) EmitFinished(
	id lesson.ID,
	title, status string,
	duration time.Duration,
	message string,
) {
	c.Emit(LessonEvent{
		Type:     eventTypeFor(status),
		LessonID: id,
		Title:    title,
		Message:  message,
		Duration: duration,
	})
}

// EmitSkipped emits a lesson skipped event.
func (c *EventCollector) EmitSkipped(
	id lesson.ID,
	title, reason string,
) {
	c.Emit(LessonEvent{
		Type:     EventSkipped,
		LessonID: id,
		Title:    title,
		Message:  reason,
	})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []LessonEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]LessonEvent, len(c.events))
	copy(out, c.events)
	return out
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}
