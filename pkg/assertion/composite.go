package assertion

import "fmt"

// AllOf returns an Evaluator that runs a fixed set of
// sub-assertions against the output and requires every one to
// pass. Register it under a custom type name to build compound
// checks in bank files.
func AllOf(
	engine Engine,
	subs []Definition,
) Evaluator {
	return func(_ Definition, out Output) (bool, string) {
		for _, sub := range subs {
			r := engine.Evaluate(sub, out)
			if !r.Passed {
				return false, fmt.Sprintf(
					"sub-assertion '%s' failed: %s",
					r.Type, r.Message,
				)
			}
		}
		return true, fmt.Sprintf(
			"all %d sub-assertions passed", len(subs),
		)
	}
}

// AnyOf returns an Evaluator that runs a fixed set of
// sub-assertions and requires at least one to pass.
func AnyOf(
	engine Engine,
	subs []Definition,
) Evaluator {
	return func(_ Definition, out Output) (bool, string) {
		for _, sub := range subs {
			r := engine.Evaluate(sub, out)
			if r.Passed {
				return true, fmt.Sprintf(
					"sub-assertion '%s' passed", r.Type,
				)
			}
		}
		return false, fmt.Sprintf(
			"none of %d sub-assertions passed", len(subs),
		)
	}
}

// Not returns an Evaluator that inverts a sub-assertion.
func Not(
	engine Engine,
	sub Definition,
) Evaluator {
	return func(_ Definition, out Output) (bool, string) {
		r := engine.Evaluate(sub, out)
		if r.Passed {
			return false, fmt.Sprintf(
				"sub-assertion '%s' unexpectedly passed",
				r.Type,
			)
		}
		return true, fmt.Sprintf(
			"sub-assertion '%s' did not pass", r.Type,
		)
	}
}
