// Package lesson defines the data model for the catalog: a
// lesson is one self-contained, runnable demonstration made of
// an ordered sequence of steps. Lessons are immutable once
// registered; the runner interprets their steps and reports an
// outcome without ever mutating the lesson itself.
package lesson

import (
	"fmt"
	"time"
)

// ID uniquely identifies a lesson within a catalog.
type ID string

// Lesson is one self-contained demonstration unit. It carries
// everything needed to execute and judge a run: identity,
// grouping, the ordered steps, and a timeout budget covering
// the whole run including Delay steps.
type Lesson struct {
	// ID is the unique identifier for this lesson.
	ID ID

	// Category groups related lessons (e.g. "language",
	// "hooks", "testing").
	Category string

	// Title is the human-readable lesson title.
	Title string

	// Requires lists lessons that must have passed before
	// this lesson is eligible to run in a full catalog run.
	Requires []ID

	// Steps is the ordered sequence of actions executed by
	// the runner. Order is significant.
	Steps []Step

	// Timeout is the cumulative execution budget. It must be
	// positive; runs exceeding it end with StatusTimedOut.
	Timeout time.Duration
}

// Validate checks that the lesson is structurally sound. It is
// called by the registry before registration.
func (l *Lesson) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("lesson ID is required")
	}
	if l.Title == "" {
		return fmt.Errorf(
			"lesson %s: title is required", l.ID,
		)
	}
	if l.Timeout <= 0 {
		return fmt.Errorf(
			"lesson %s: timeout must be positive", l.ID,
		)
	}
	for i, s := range l.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf(
				"lesson %s: step %d: %w", l.ID, i, err,
			)
		}
	}
	return nil
}

// Clone returns a deep copy of the lesson. The registry stores
// clones so that callers cannot mutate registered lessons.
func (l *Lesson) Clone() *Lesson {
	out := &Lesson{
		ID:       l.ID,
		Category: l.Category,
		Title:    l.Title,
		Timeout:  l.Timeout,
	}
	if len(l.Requires) > 0 {
		out.Requires = make([]ID, len(l.Requires))
		copy(out.Requires, l.Requires)
	}
	if len(l.Steps) > 0 {
		out.Steps = make([]Step, len(l.Steps))
		copy(out.Steps, l.Steps)
	}
	return out
}
