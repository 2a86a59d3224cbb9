package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"digital.vasic.lessons/pkg/lesson"
)

// HistoricalEntry represents a single lesson run in the
// historical log. Entries accumulate across catalog runs so
// pass-rate trends can be tracked over time.
type HistoricalEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id"`
	LessonID     string    `json:"lesson_id"`
	Status       string    `json:"status"`
	Duration     string    `json:"duration"`
	ChecksPassed int       `json:"checks_passed"`
	ChecksTotal  int       `json:"checks_total"`
}

// AppendToHistory adds one entry per result to the JSON Lines
// log at historyPath, tagged with the given run ID.
func AppendToHistory(
	historyPath string,
	runID string,
	results []*lesson.RunResult,
) error {
	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	for _, result := range results {
		entry := HistoricalEntry{
			Timestamp:    result.StartTime,
			RunID:        runID,
			LessonID:     string(result.LessonID),
			Status:       result.Status,
			Duration:     result.Duration.String(),
			ChecksPassed: result.ChecksPassed(),
			ChecksTotal:  len(result.Checks),
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf(
				"failed to marshal history entry: %w", err,
			)
		}
		if _, err := fmt.Fprintln(file, string(data)); err != nil {
			return err
		}
	}

	return nil
}

// ReadHistory reads all entries from the JSON Lines log at
// historyPath. A missing file yields an empty slice.
func ReadHistory(
	historyPath string,
) ([]HistoricalEntry, error) {
	file, err := os.Open(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	var entries []HistoricalEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry HistoricalEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return entries, fmt.Errorf(
				"failed to parse history entry: %w", err,
			)
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}
