// Package report turns run results into human- and
// machine-readable summaries: a deterministic text formatter,
// JSON and HTML reporters, and a JSON Lines history log.
package report

import (
	"fmt"
	"sort"
	"strings"

	"digital.vasic.lessons/pkg/lesson"
)

// Formatter renders a plain-text summary of a set of run
// results. Its output is deterministic: the same results
// sequence always yields byte-identical text. Captured output
// is shown only for non-passed runs, and line timestamps are
// offsets from run start, never wall-clock times.
type Formatter struct{}

// NewFormatter creates a Formatter.
func NewFormatter() *Formatter {
	return &Formatter{}
}

// statusTag maps a status to its fixed-width report tag.
func statusTag(status string) string {
	switch status {
	case lesson.StatusPassed:
		return "PASS"
	case lesson.StatusFailed:
		return "FAIL"
	case lesson.StatusTimedOut:
		return "TIME"
	case lesson.StatusErrored:
		return "ERR "
	case lesson.StatusSkipped:
		return "SKIP"
	default:
		return "??? "
	}
}

// Summarize renders the results grouped by category, with
// per-category and overall counts. Categories are sorted;
// results within a category keep their input order.
func (f *Formatter) Summarize(
	results []*lesson.RunResult,
) string {
	var sb strings.Builder

	sb.WriteString("Catalog Run Summary\n")
	sb.WriteString("===================\n")

	byCategory := make(map[string][]*lesson.RunResult)
	var categories []string
	for _, r := range results {
		if _, seen := byCategory[r.Category]; !seen {
			categories = append(categories, r.Category)
		}
		byCategory[r.Category] = append(
			byCategory[r.Category], r,
		)
	}
	sort.Strings(categories)

	var totals struct {
		passed, failed, timedOut, errored, skipped int
	}

	for _, cat := range categories {
		group := byCategory[cat]

		name := cat
		if name == "" {
			name = "(uncategorized)"
		}

		counts := make(map[string]int)
		for _, r := range group {
			counts[r.Status]++
		}

		sb.WriteString(fmt.Sprintf(
			"\n%s (%d lessons: %d passed, %d failed, "+
				"%d timed out, %d errored, %d skipped)\n",
			name, len(group),
			counts[lesson.StatusPassed],
			counts[lesson.StatusFailed],
			counts[lesson.StatusTimedOut],
			counts[lesson.StatusErrored],
			counts[lesson.StatusSkipped],
		))

		for _, r := range group {
			f.writeResult(&sb, r)
		}

		totals.passed += counts[lesson.StatusPassed]
		totals.failed += counts[lesson.StatusFailed]
		totals.timedOut += counts[lesson.StatusTimedOut]
		totals.errored += counts[lesson.StatusErrored]
		totals.skipped += counts[lesson.StatusSkipped]
	}

	sb.WriteString(fmt.Sprintf(
		"\nTotals: %d lessons, %d passed, %d failed, "+
			"%d timed out, %d errored, %d skipped\n",
		len(results),
		totals.passed, totals.failed,
		totals.timedOut, totals.errored, totals.skipped,
	))

	return sb.String()
}

// writeResult renders one result line, plus failure details
// and captured output for non-passed runs.
func (f *Formatter) writeResult(
	sb *strings.Builder,
	r *lesson.RunResult,
) {
	sb.WriteString(fmt.Sprintf(
		"  [%s] %-24s %s\n",
		statusTag(r.Status), r.LessonID, r.Title,
	))

	if r.Passed() {
		return
	}

	if r.FailureReason != "" {
		sb.WriteString(fmt.Sprintf(
			"         reason: %s\n", r.FailureReason,
		))
	}

	if len(r.Lines) > 0 {
		sb.WriteString("         output:\n")
		for _, line := range r.Lines {
			sb.WriteString(fmt.Sprintf(
				"           %3d +%-10s | %s\n",
				line.Sequence,
				line.Offset.String(),
				line.Text,
			))
		}
	}
}
