package assertion

import (
	"fmt"
	"sync"
)

// Evaluator evaluates a single assertion type against the
// captured output. It returns whether the assertion passed and
// a human-readable explanation.
type Evaluator func(def Definition, out Output) (bool, string)

// Engine defines the interface for assertion evaluation
// engines.
type Engine interface {
	// Evaluate checks a single assertion against the output.
	Evaluate(def Definition, out Output) Result

	// EvaluateAll checks multiple assertions against the
	// same output, in order.
	EvaluateAll(defs []Definition, out Output) []Result

	// Register adds a custom evaluator for the given
	// assertion type. Returns an error if the type is
	// already registered.
	Register(assertionType string, evaluator Evaluator) error
}

// DefaultEngine is the standard Engine implementation. It is
// safe for concurrent use.
type DefaultEngine struct {
	mu         sync.RWMutex
	evaluators map[string]Evaluator
}

// NewEngine creates a DefaultEngine with all built-in
// evaluators pre-registered.
func NewEngine() *DefaultEngine {
	e := &DefaultEngine{
		evaluators: make(map[string]Evaluator),
	}
	e.registerDefaults()
	return e
}

// registerDefaults registers the built-in evaluators.
func (e *DefaultEngine) registerDefaults() {
	e.evaluators["not_empty"] = evaluateNotEmpty
	e.evaluators["contains"] = evaluateContains
	e.evaluators["not_contains"] = evaluateNotContains
	e.evaluators["contains_any"] = evaluateContainsAny
	e.evaluators["equals"] = evaluateEquals
	e.evaluators["prefix"] = evaluatePrefix
	e.evaluators["regex"] = evaluateRegex
	e.evaluators["line_count"] = evaluateLineCount
	e.evaluators["min_lines"] = evaluateMinLines
	e.evaluators["one_of"] = evaluateOneOf
}

// Register adds a custom evaluator for the given assertion
// type. Returns an error if the type is already registered.
func (e *DefaultEngine) Register(
	assertionType string,
	evaluator Evaluator,
) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.evaluators[assertionType]; exists {
		return fmt.Errorf(
			"assertion type already registered: %s",
			assertionType,
		)
	}

	e.evaluators[assertionType] = evaluator
	return nil
}

// HasEvaluator reports whether an evaluator is registered for
// the given assertion type.
func (e *DefaultEngine) HasEvaluator(
	assertionType string,
) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, exists := e.evaluators[assertionType]
	return exists
}

// Evaluate runs a single assertion against the output.
func (e *DefaultEngine) Evaluate(
	def Definition,
	out Output,
) Result {
	e.mu.RLock()
	evaluator, exists := e.evaluators[def.Type]
	e.mu.RUnlock()

	if !exists {
		return Result{
			Type:   def.Type,
			Passed: false,
			Message: fmt.Sprintf(
				"unknown assertion type: %s", def.Type,
			),
		}
	}

	passed, message := evaluator(def, out)

	return Result{
		Type:     def.Type,
		Expected: def.Value,
		Passed:   passed,
		Message:  message,
	}
}

// EvaluateAll runs multiple assertions against the same output,
// in declared order.
func (e *DefaultEngine) EvaluateAll(
	defs []Definition,
	out Output,
) []Result {
	results := make([]Result, 0, len(defs))
	for _, d := range defs {
		results = append(results, e.Evaluate(d, out))
	}
	return results
}
