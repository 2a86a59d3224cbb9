// Package assertion provides an extensible evaluation engine
// for declarative checks over a lesson run's captured output.
// It ships with built-in evaluator types and supports custom
// evaluator registration, so catalog bank files can express
// expectations without Go code.
package assertion

import "strings"

// Output is the value assertions are evaluated against: the
// lines a lesson has emitted so far, in emission order.
type Output struct {
	// Lines holds the captured line texts.
	Lines []string
}

// Joined returns the output as a single newline-joined string.
func (o Output) Joined() string {
	return strings.Join(o.Lines, "\n")
}

// Definition describes a single assertion to evaluate against
// the captured output.
type Definition struct {
	// Type is the evaluator type (e.g., "contains",
	// "equals", "regex", "line_count").
	Type string `json:"type" yaml:"type"`

	// Value is the expected value for single-value
	// assertions.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Values holds expected values for multi-value
	// assertions (e.g., "one_of", "contains_any").
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	// Message is a human-readable description shown on
	// failure.
	Message string `json:"message" yaml:"message"`
}

// Result captures the outcome of evaluating one assertion.
type Result struct {
	// Type is the assertion type that was evaluated.
	Type string `json:"type"`

	// Expected is the value the assertion expected.
	Expected any `json:"expected"`

	// Passed indicates whether the assertion succeeded.
	Passed bool `json:"passed"`

	// Message is a human-readable description of the
	// outcome.
	Message string `json:"message"`
}
