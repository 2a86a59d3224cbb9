// Package monitor provides live observation of catalog runs:
// an event collector that aggregates lesson lifecycle events
// and a WebSocket server that streams them to connected
// dashboards.
package monitor

import (
	"time"

	"digital.vasic.lessons/pkg/lesson"
)

// EventType represents the type of lesson event.
type EventType string

const (
	EventStarted  EventType = "started"
	EventPassed   EventType = "passed"
	EventFailed   EventType = "failed"
	EventSkipped  EventType = "skipped"
	EventTimedOut EventType = "timed_out"
	EventErrored  EventType = "errored"
)

// LessonEvent represents one lifecycle event during a catalog
// run.
type LessonEvent struct {
	Type      EventType     `json:"type"`
	LessonID  lesson.ID     `json:"lesson_id"`
	Title     string        `json:"title"`
	Category  string        `json:"category,omitempty"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// eventTypeFor maps a terminal run status to its event type.
func eventTypeFor(status string) EventType {
	switch status {
	case lesson.StatusPassed:
		return EventPassed
	case lesson.StatusFailed:
		return EventFailed
	case lesson.StatusSkipped:
		return EventSkipped
	case lesson.StatusTimedOut:
		return EventTimedOut
	default:
		return EventErrored
	}
}
