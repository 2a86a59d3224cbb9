package runner

import (
	"time"

	"digital.vasic.lessons/pkg/catalog"
	"digital.vasic.lessons/pkg/lesson"
	"digital.vasic.lessons/pkg/logging"
	"digital.vasic.lessons/pkg/metrics"
	"digital.vasic.lessons/pkg/monitor"
)

// Option configures a Runner.
type Option func(*Runner)

// WithRegistry sets the catalog registry used by batch runs.
func WithRegistry(reg *catalog.Registry) Option {
	return func(r *Runner) {
		r.registry = reg
	}
}

// WithLogger sets the logger used by the runner.
func WithLogger(logger logging.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics sink used by the runner.
func WithMetrics(m metrics.LessonMetrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithCollector sets an event collector that receives lesson
// lifecycle events, e.g. for the live monitor.
func WithCollector(c *monitor.EventCollector) Option {
	return func(r *Runner) {
		r.collector = c
	}
}

// WithDefaultTimeout sets the timeout applied to lessons whose
// own timeout is zero.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.defaultTimeout = timeout
	}
}

// WithStopOnFailure aborts a run at the first failed Assert
// step. The default is to continue and report the union of
// all assertion failures.
func WithStopOnFailure(stop bool) Option {
	return func(r *Runner) {
		r.stopOnFailure = stop
	}
}

// WithRunConfig applies the shared run configuration. A nil
// config leaves the defaults untouched.
func WithRunConfig(cfg *lesson.RunConfig) Option {
	return func(r *Runner) {
		if cfg == nil {
			return
		}
		if cfg.DefaultTimeout > 0 {
			r.defaultTimeout = cfg.DefaultTimeout
		}
		r.stopOnFailure = cfg.StopOnFailure
	}
}
