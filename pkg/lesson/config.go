package lesson

import "time"

// RunConfig holds runtime configuration shared by lesson runs.
type RunConfig struct {
	// ReportDir is the directory where report files are
	// written. Empty disables file output.
	ReportDir string `json:"report_dir"`

	// DefaultTimeout is used for lessons whose own Timeout
	// is zero. A zero value falls back to the runner default.
	DefaultTimeout time.Duration `json:"default_timeout"`

	// StopOnFailure aborts a run at the first failed Assert
	// step instead of recording all failures.
	StopOnFailure bool `json:"stop_on_failure"`

	// Verbose enables debug-level logging output.
	Verbose bool `json:"verbose"`
}

// NewRunConfig creates a RunConfig with sensible defaults.
func NewRunConfig() *RunConfig {
	return &RunConfig{
		DefaultTimeout: 30 * time.Second,
	}
}
