package lesson

import (
	"fmt"
	"time"
)

// Kind discriminates the step variants. The set is closed so
// the runner can handle every variant exhaustively.
type Kind int

const (
	// KindLog emits one line of output.
	KindLog Kind = iota

	// KindAssert evaluates a predicate against the output
	// captured so far.
	KindAssert

	// KindDelay suspends the current run cooperatively for a
	// fixed duration.
	KindDelay

	// KindRaise raises a simulated error of a named kind.
	KindRaise

	// KindCatch catches a pending raised error of the same
	// kind, allowing execution to resume.
	KindCatch
)

// String returns the lowercase name of the step kind.
func (k Kind) String() string {
	switch k {
	case KindLog:
		return "log"
	case KindAssert:
		return "assert"
	case KindDelay:
		return "delay"
	case KindRaise:
		return "raise"
	case KindCatch:
		return "catch"
	default:
		return "unknown"
	}
}

// Predicate judges an Assert step. It receives the text of all
// lines captured so far in the current run, in emission order.
// Predicates built from external assertion libraries may ignore
// the argument entirely.
type Predicate func(lines []string) bool

// Step is one demonstrable action within a lesson. Exactly one
// variant's fields are meaningful, selected by Kind.
type Step struct {
	// Kind selects the variant.
	Kind Kind

	// Message is the line emitted by a Log step. A message
	// holding embedded newlines is captured as one line per
	// newline.
	Message string

	// Predicate is evaluated by an Assert step.
	Predicate Predicate

	// Description explains what an Assert step checks. It is
	// reported verbatim on failure.
	Description string

	// Duration is how long a Delay step suspends the run.
	Duration time.Duration

	// ErrorKind names the error raised or caught by Raise
	// and Catch steps.
	ErrorKind string
}

// Log creates a step that emits one line of output.
func Log(message string) Step {
	return Step{Kind: KindLog, Message: message}
}

// Assert creates a step that evaluates pred against the lines
// captured so far. description is reported on failure.
func Assert(pred Predicate, description string) Step {
	return Step{
		Kind:        KindAssert,
		Predicate:   pred,
		Description: description,
	}
}

// Delay creates a step that suspends the run for d. The delay
// counts against the lesson's timeout budget.
func Delay(d time.Duration) Step {
	return Step{Kind: KindDelay, Duration: d}
}

// Raise creates a step that raises a simulated error of the
// given kind. An uncaught raise ends the run as errored.
func Raise(kind string) Step {
	return Step{Kind: KindRaise, ErrorKind: kind}
}

// Catch creates a step that catches a pending raised error of
// the given kind.
func Catch(kind string) Step {
	return Step{Kind: KindCatch, ErrorKind: kind}
}

// validate checks variant-specific requirements.
func (s Step) validate() error {
	switch s.Kind {
	case KindLog:
		// Empty log lines are allowed as blank separators.
		return nil
	case KindAssert:
		if s.Predicate == nil {
			return fmt.Errorf("assert step requires a predicate")
		}
		if s.Description == "" {
			return fmt.Errorf("assert step requires a description")
		}
		return nil
	case KindDelay:
		if s.Duration <= 0 {
			return fmt.Errorf("delay step requires a positive duration")
		}
		return nil
	case KindRaise, KindCatch:
		if s.ErrorKind == "" {
			return fmt.Errorf(
				"%s step requires an error kind", s.Kind,
			)
		}
		return nil
	default:
		return fmt.Errorf("unknown step kind: %d", s.Kind)
	}
}
