package catalog

import (
	"fmt"
	"sort"
	"strings"

	"digital.vasic.lessons/pkg/lesson"
)

// topologicalSort orders lessons by their prerequisites using
// Kahn's algorithm. The output is deterministic: ties are
// broken by lesson ID. Returns an error wrapping ErrCycle if a
// cycle is detected.
func topologicalSort(
	lessons map[lesson.ID]*lesson.Lesson,
) ([]*lesson.Lesson, error) {
	inDegree := make(map[lesson.ID]int, len(lessons))
	dependents := make(
		map[lesson.ID][]lesson.ID, len(lessons),
	)

	for id, l := range lessons {
		if _, exists := inDegree[id]; !exists {
			inDegree[id] = 0
		}
		for _, req := range l.Requires {
			inDegree[id]++
			dependents[req] = append(dependents[req], id)
		}
	}

	// Seed the queue with zero-degree nodes, sorted for
	// deterministic output.
	var queue []lesson.ID
	for id, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, id)
		}
	}
	sort.Slice(queue, func(i, j int) bool {
		return queue[i] < queue[j]
	})

	ordered := make([]*lesson.Lesson, 0, len(lessons))

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if l, exists := lessons[id]; exists {
			ordered = append(ordered, l)
		}

		// Collect and sort neighbours for determinism.
		neighbours := dependents[id]
		sort.Slice(neighbours, func(i, j int) bool {
			return neighbours[i] < neighbours[j]
		})

		for _, dep := range neighbours {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(ordered) != len(lessons) {
		cycle := detectCycle(lessons)
		return nil, fmt.Errorf("%w: %s", ErrCycle, cycle)
	}

	return ordered, nil
}

// detectCycle returns a human-readable description of a
// prerequisite cycle in the lesson graph. It uses iterative
// DFS with three colouring states.
func detectCycle(
	lessons map[lesson.ID]*lesson.Lesson,
) string {
	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // finished
	)

	colour := make(map[lesson.ID]int, len(lessons))

	// Sort IDs for deterministic cycle detection.
	ids := make([]lesson.ID, 0, len(lessons))
	for id := range lessons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})

	for _, startID := range ids {
		if colour[startID] != white {
			continue
		}

		type frame struct {
			id    lesson.ID
			reqs  []lesson.ID
			index int
		}

		stack := []frame{
			{id: startID, reqs: getRequires(lessons, startID)},
		}
		colour[startID] = gray

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.index >= len(top.reqs) {
				colour[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			req := top.reqs[top.index]
			top.index++

			if colour[req] == gray {
				// Found a cycle, reconstruct the path.
				path := []string{string(req)}
				for _, f := range stack {
					path = append(path, string(f.id))
					if f.id == req {
						break
					}
				}
				return strings.Join(path, " -> ")
			}

			if colour[req] == white {
				colour[req] = gray
				stack = append(stack, frame{
					id:   req,
					reqs: getRequires(lessons, req),
				})
			}
		}
	}

	return "unknown cycle"
}

// getRequires returns the sorted prerequisite IDs for a
// lesson.
func getRequires(
	lessons map[lesson.ID]*lesson.Lesson,
	id lesson.ID,
) []lesson.ID {
	l, ok := lessons[id]
	if !ok {
		return nil
	}
	reqs := make([]lesson.ID, len(l.Requires))
	copy(reqs, l.Requires)
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i] < reqs[j]
	})
	return reqs
}
