package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"digital.vasic.lessons/pkg/lesson"
)

// Reporter defines the interface for generating run reports.
type Reporter interface {
	// GenerateReport creates a report for a single run
	// result.
	GenerateReport(result *lesson.RunResult) ([]byte, error)

	// GenerateMasterSummary creates a summary of all run
	// results.
	GenerateMasterSummary(
		results []*lesson.RunResult,
	) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, result *lesson.RunResult) error
}

// JSONReporter generates JSON reports from run results.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

// GenerateReport creates a JSON report for a single run
// result.
func (r *JSONReporter) GenerateReport(
	result *lesson.RunResult,
) ([]byte, error) {
	if r.pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}

// MasterSummary is the JSON structure aggregating a full
// catalog run.
type MasterSummary struct {
	RunID        string              `json:"run_id"`
	GeneratedAt  time.Time           `json:"generated_at"`
	TotalLessons int                 `json:"total_lessons"`
	Passed       int                 `json:"passed"`
	Failed       int                 `json:"failed"`
	TimedOut     int                 `json:"timed_out"`
	Errored      int                 `json:"errored"`
	Skipped      int                 `json:"skipped"`
	Duration     time.Duration       `json:"duration"`
	Results      []*lesson.RunResult `json:"results"`
}

// BuildMasterSummary aggregates run results into a summary
// with a fresh run ID.
func BuildMasterSummary(
	results []*lesson.RunResult,
) *MasterSummary {
	summary := &MasterSummary{
		RunID:        uuid.New().String(),
		GeneratedAt:  time.Now(),
		TotalLessons: len(results),
		Results:      results,
	}

	for _, res := range results {
		switch res.Status {
		case lesson.StatusPassed:
			summary.Passed++
		case lesson.StatusFailed:
			summary.Failed++
		case lesson.StatusTimedOut:
			summary.TimedOut++
		case lesson.StatusErrored:
			summary.Errored++
		case lesson.StatusSkipped:
			summary.Skipped++
		}
		summary.Duration += res.Duration
	}

	return summary
}

// GenerateMasterSummary creates a JSON summary of all run
// results.
func (r *JSONReporter) GenerateMasterSummary(
	results []*lesson.RunResult,
) ([]byte, error) {
	return r.RenderMasterSummary(BuildMasterSummary(results))
}

// RenderMasterSummary serializes an already-built summary, so
// one run ID can be shared between report files and the
// history log.
func (r *JSONReporter) RenderMasterSummary(
	summary *MasterSummary,
) ([]byte, error) {
	if r.pretty {
		return json.MarshalIndent(summary, "", "  ")
	}
	return json.Marshal(summary)
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	result *lesson.RunResult,
) error {
	data, err := r.GenerateReport(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
