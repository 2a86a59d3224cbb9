// Package catalog provides lesson registration, discovery,
// stable listing, and prerequisite-ordered retrieval, plus
// loading of declarative lesson banks from JSON or YAML files.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"digital.vasic.lessons/pkg/lesson"
)

// Error taxonomy for the catalog API. Lookup and registration
// failures wrap these sentinels so callers can classify them
// with errors.Is.
var (
	// ErrDuplicateID is returned when registering a lesson
	// whose ID is already present. The first registration
	// wins.
	ErrDuplicateID = errors.New("catalog: duplicate lesson id")

	// ErrNotFound is returned when looking up an absent
	// lesson.
	ErrNotFound = errors.New("catalog: lesson not found")

	// ErrCycle is returned when lesson prerequisites form a
	// cycle.
	ErrCycle = errors.New("catalog: prerequisite cycle")
)

// Registry holds the full set of lessons and exposes
// deterministic retrieval. It is safe for concurrent reads;
// registration is expected to finish before any run phase
// begins. Construct with NewRegistry and discard at shutdown;
// there is no implicit global instance.
type Registry struct {
	mu      sync.RWMutex
	lessons map[lesson.ID]*lesson.Lesson
	order   []lesson.ID
}

// NewRegistry creates a new, empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		lessons: make(map[lesson.ID]*lesson.Lesson),
	}
}

// Register validates the lesson and adds a copy of it to the
// registry. Returns an error wrapping ErrDuplicateID if a
// lesson with the same ID is already registered; the existing
// lesson is retained.
func (r *Registry) Register(l *lesson.Lesson) error {
	if l == nil {
		return fmt.Errorf("catalog: lesson must not be nil")
	}
	if err := l.Validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lessons[l.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, l.ID)
	}

	r.lessons[l.ID] = l.Clone()
	r.order = append(r.order, l.ID)
	return nil
}

// Get retrieves a lesson by ID. Returns an error wrapping
// ErrNotFound if absent. Callers must not mutate the returned
// lesson.
func (r *Registry) Get(id lesson.ID) (*lesson.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, exists := r.lessons[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l, nil
}

// List returns lessons in registration order, with ID as the
// tiebreak for a stable total order. An empty category returns
// every lesson; otherwise only lessons of that category are
// included. Each call returns a fresh slice, so iteration is
// restartable.
func (r *Registry) List(category string) []*lesson.Lesson {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type entry struct {
		pos int
		l   *lesson.Lesson
	}
	entries := make([]entry, 0, len(r.order))
	for i, id := range r.order {
		l := r.lessons[id]
		if category != "" && l.Category != category {
			continue
		}
		entries = append(entries, entry{pos: i, l: l})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pos != entries[j].pos {
			return entries[i].pos < entries[j].pos
		}
		return entries[i].l.ID < entries[j].l.ID
	})

	out := make([]*lesson.Lesson, len(entries))
	for i, e := range entries {
		out[i] = e.l
	}
	return out
}

// Categories returns the distinct categories of all registered
// lessons, sorted alphabetically.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, l := range r.lessons {
		seen[l.Category] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of registered lessons.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lessons)
}

// Clear removes all lessons. It is the registry's explicit
// teardown; a cleared registry can be reused.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lessons = make(map[lesson.ID]*lesson.Lesson)
	r.order = nil
}

// ValidateRequires checks that every prerequisite referenced
// by a registered lesson is also registered. Returns the first
// missing prerequisite found.
func (r *Registry) ValidateRequires() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		for _, req := range r.lessons[id].Requires {
			if _, exists := r.lessons[req]; !exists {
				return fmt.Errorf(
					"catalog: lesson %s requires "+
						"unregistered lesson %s",
					id, req,
				)
			}
		}
	}
	return nil
}

// RequireOrder returns all lessons in prerequisite
// (topological) order. Returns an error wrapping ErrCycle if
// prerequisites form a cycle.
func (r *Registry) RequireOrder() ([]*lesson.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return topologicalSort(r.lessons)
}
