package lesson

// Definition describes a lesson declaratively. It captures all
// metadata needed to build a Lesson from a catalog bank file
// without requiring Go code. Assert steps in a definition are
// expressed as named assertion types evaluated against the
// captured output; the catalog loader compiles them into
// predicates.
type Definition struct {
	ID        ID        `json:"id"         yaml:"id"`
	Category  string    `json:"category"   yaml:"category"`
	Title     string    `json:"title"      yaml:"title"`
	Requires  []ID      `json:"requires,omitempty" yaml:"requires,omitempty"`
	TimeoutMs int64     `json:"timeout_ms" yaml:"timeout_ms"`
	Steps     []StepDef `json:"steps"      yaml:"steps"`
}

// StepDef is the serializable form of a Step. Exactly one
// field must be set per step.
type StepDef struct {
	// Log emits the given line.
	Log *string `json:"log,omitempty" yaml:"log,omitempty"`

	// Assert evaluates a declarative assertion against the
	// output captured so far.
	Assert *AssertDef `json:"assert,omitempty" yaml:"assert,omitempty"`

	// DelayMs suspends the run for the given milliseconds.
	DelayMs *int64 `json:"delay_ms,omitempty" yaml:"delay_ms,omitempty"`

	// Raise raises a simulated error of the named kind.
	Raise *string `json:"raise,omitempty" yaml:"raise,omitempty"`

	// Catch catches a pending error of the named kind.
	Catch *string `json:"catch,omitempty" yaml:"catch,omitempty"`
}

// AssertDef defines a declarative assertion over the captured
// output.
type AssertDef struct {
	// Type is the assertion type (e.g. "contains", "equals",
	// "regex", "line_count").
	Type string `json:"type" yaml:"type"`

	// Value is the expected value for single-value
	// assertions.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Values holds expected values for multi-value
	// assertions (e.g. "one_of").
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	// Message is a human-readable description shown on
	// failure.
	Message string `json:"message" yaml:"message"`
}

// VariantCount returns how many variant fields are set on the
// step definition. The catalog validator requires exactly one.
func (s *StepDef) VariantCount() int {
	n := 0
	if s.Log != nil {
		n++
	}
	if s.Assert != nil {
		n++
	}
	if s.DelayMs != nil {
		n++
	}
	if s.Raise != nil {
		n++
	}
	if s.Catch != nil {
		n++
	}
	return n
}
