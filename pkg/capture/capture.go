// Package capture records a lesson run's output into an
// in-memory buffer scoped to that run. Each run owns its own
// handle; nothing is written to a process-wide sink, so
// concurrent runs never see each other's lines.
package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"digital.vasic.lessons/pkg/lesson"
)

// ErrInvalidHandle is returned when a handle is finalized more
// than once. It indicates a programming defect in the caller.
var ErrInvalidHandle = errors.New("capture: invalid handle")

// Capture creates and finalizes per-run capture scopes.
// It is safe for concurrent use; every handle it hands out is
// independent.
type Capture struct {
	// now is swappable for deterministic tests.
	now func() time.Time
}

// New creates a Capture.
func New() *Capture {
	return &Capture{now: time.Now}
}

// Handle is one run's capture scope. Lines appended while the
// handle is active are recorded into this handle's buffer only.
type Handle struct {
	mu       sync.Mutex
	lessonID lesson.ID
	start    time.Time
	now      func() time.Time
	lines    []lesson.CapturedLine
	done     bool
}

// Begin opens a capture scope for the given lesson. The
// returned handle must be finalized exactly once with End.
func (c *Capture) Begin(id lesson.ID) *Handle {
	return &Handle{
		lessonID: id,
		start:    c.now(),
		now:      c.now,
	}
}

// End finalizes the handle and returns the ordered captured
// lines. Calling End twice on the same handle fails with
// ErrInvalidHandle.
func (c *Capture) End(h *Handle) ([]lesson.CapturedLine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done {
		return nil, fmt.Errorf(
			"%w: handle for lesson %s already ended",
			ErrInvalidHandle, h.lessonID,
		)
	}
	h.done = true

	out := h.lines
	h.lines = nil
	return out, nil
}

// Append records one line of output. Appends after End are
// silently dropped; the scope is closed.
func (h *Handle) Append(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done {
		return
	}
	h.lines = append(h.lines, lesson.CapturedLine{
		LessonID: h.lessonID,
		Sequence: len(h.lines),
		Text:     text,
		Offset:   h.now().Sub(h.start),
	})
}

// Len returns the number of lines captured so far.
func (h *Handle) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lines)
}

// Texts returns the text of every line captured so far, in
// emission order. Assert predicates receive this snapshot.
func (h *Handle) Texts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]string, len(h.lines))
	for i, l := range h.lines {
		out[i] = l.Text
	}
	return out
}
