package runner

import (
	"context"
	"fmt"

	"digital.vasic.lessons/pkg/lesson"
)

// RunByIDs executes the given lessons sequentially, in the
// given order. Lookup failures abort the batch and return the
// results gathered so far; lesson-content failures never do.
func (r *Runner) RunByIDs(
	ctx context.Context,
	ids []lesson.ID,
) ([]*lesson.RunResult, error) {
	if r.registry == nil {
		return nil, fmt.Errorf("runner: no registry configured")
	}

	results := make([]*lesson.RunResult, 0, len(ids))
	for _, id := range ids {
		l, err := r.registry.Get(id)
		if err != nil {
			return results, err
		}
		results = append(results, r.Run(ctx, l))
	}
	return results, nil
}

// RunCategory executes every lesson of the given category in
// the registry's stable listing order. An empty category runs
// every lesson.
func (r *Runner) RunCategory(
	ctx context.Context,
	category string,
) ([]*lesson.RunResult, error) {
	if r.registry == nil {
		return nil, fmt.Errorf("runner: no registry configured")
	}

	lessons := r.registry.List(category)
	results := make([]*lesson.RunResult, 0, len(lessons))
	for _, l := range lessons {
		results = append(results, r.Run(ctx, l))
	}
	return results, nil
}

// RunAll executes every registered lesson in prerequisite
// order. A lesson whose prerequisite did not pass is skipped
// with StatusSkipped rather than run. Returns an error only
// for infrastructure problems (missing registry, prerequisite
// cycle).
func (r *Runner) RunAll(
	ctx context.Context,
) ([]*lesson.RunResult, error) {
	if r.registry == nil {
		return nil, fmt.Errorf("runner: no registry configured")
	}
	if err := r.registry.ValidateRequires(); err != nil {
		return nil, err
	}

	ordered, err := r.registry.RequireOrder()
	if err != nil {
		return nil, err
	}

	passed := make(map[lesson.ID]bool, len(ordered))
	results := make([]*lesson.RunResult, 0, len(ordered))

	for _, l := range ordered {
		if unmet := firstUnmet(l, passed); unmet != "" {
			res := &lesson.RunResult{
				LessonID: l.ID,
				Title:    l.Title,
				Category: l.Category,
				Status:   lesson.StatusSkipped,
				FailureReason: fmt.Sprintf(
					"prerequisite %s did not pass", unmet,
				),
			}
			results = append(results, res)
			r.logEvent("lesson_skipped", l.ID, map[string]any{
				"reason": res.FailureReason,
			})
			if r.collector != nil {
				r.collector.EmitSkipped(
					l.ID, l.Title, res.FailureReason,
				)
			}
			continue
		}

		res := r.Run(ctx, l)
		results = append(results, res)
		if res.Passed() {
			passed[l.ID] = true
		}
	}

	return results, nil
}

// firstUnmet returns the first prerequisite of l that has not
// passed, or "" when all are met.
func firstUnmet(
	l *lesson.Lesson,
	passed map[lesson.ID]bool,
) lesson.ID {
	for _, req := range l.Requires {
		if !passed[req] {
			return req
		}
	}
	return ""
}
