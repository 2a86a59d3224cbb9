package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"digital.vasic.lessons/pkg/assertion"
	"digital.vasic.lessons/pkg/lesson"
)

// bankFile is the on-disk structure for a lesson bank.
type bankFile struct {
	Version string              `json:"version" yaml:"version"`
	Lessons []lesson.Definition `json:"lessons" yaml:"lessons"`
}

// Loader reads lesson bank files and registers the compiled
// lessons into a registry. Declarative assert steps are
// compiled into predicates backed by the given assertion
// engine.
type Loader struct {
	registry *Registry
	engine   assertion.Engine
}

// NewLoader creates a Loader targeting the given registry.
// If engine is nil, a default engine with the built-in
// evaluators is used.
func NewLoader(
	reg *Registry,
	engine assertion.Engine,
) *Loader {
	if engine == nil {
		engine = assertion.NewEngine()
	}
	return &Loader{registry: reg, engine: engine}
}

// LoadFile reads a JSON or YAML bank file and registers each
// lesson it contains. The format is chosen by file extension;
// anything that is not .yaml/.yml is parsed as JSON.
func (ld *Loader) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(
			"failed to read bank file %s: %w", path, err,
		)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return ld.LoadBytes(data, ext == ".yaml" || ext == ".yml", path)
}

// LoadDir loads all .json and .yaml/.yml bank files from a
// directory. It does not recurse into subdirectories.
func (ld *Loader) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf(
			"failed to read directory %s: %w", dir, err,
		)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		p := filepath.Join(dir, entry.Name())
		if err := ld.LoadFile(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}

	return nil
}

// LoadBytes parses a bank from raw bytes and registers its
// lessons. source names the origin for error messages.
func (ld *Loader) LoadBytes(
	data []byte,
	isYAML bool,
	source string,
) error {
	var bank bankFile
	var err error
	if isYAML {
		err = yaml.Unmarshal(data, &bank)
	} else {
		err = json.Unmarshal(data, &bank)
	}
	if err != nil {
		return fmt.Errorf(
			"failed to parse bank from %s: %w", source, err,
		)
	}

	for i := range bank.Lessons {
		def := &bank.Lessons[i]
		l, err := ld.Compile(def)
		if err != nil {
			return fmt.Errorf(
				"lesson %s from %s: %w", def.ID, source, err,
			)
		}
		if err := ld.registry.Register(l); err != nil {
			return fmt.Errorf(
				"lesson %s from %s: %w", def.ID, source, err,
			)
		}
	}

	return nil
}

// Compile turns a declarative definition into a runnable
// lesson. Assert definitions become predicates that evaluate
// the declarative assertion against the output captured so
// far.
func (ld *Loader) Compile(
	def *lesson.Definition,
) (*lesson.Lesson, error) {
	l := &lesson.Lesson{
		ID:       def.ID,
		Category: def.Category,
		Title:    def.Title,
		Timeout:  time.Duration(def.TimeoutMs) * time.Millisecond,
	}
	if len(def.Requires) > 0 {
		l.Requires = make([]lesson.ID, len(def.Requires))
		copy(l.Requires, def.Requires)
	}

	for i, sd := range def.Steps {
		step, err := ld.compileStep(sd)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		l.Steps = append(l.Steps, step)
	}

	return l, nil
}

// compileStep converts one step definition into a Step.
func (ld *Loader) compileStep(
	sd lesson.StepDef,
) (lesson.Step, error) {
	if n := sd.VariantCount(); n != 1 {
		return lesson.Step{}, fmt.Errorf(
			"step must set exactly one variant, got %d", n,
		)
	}

	switch {
	case sd.Log != nil:
		return lesson.Log(*sd.Log), nil

	case sd.DelayMs != nil:
		return lesson.Delay(
			time.Duration(*sd.DelayMs) * time.Millisecond,
		), nil

	case sd.Raise != nil:
		return lesson.Raise(*sd.Raise), nil

	case sd.Catch != nil:
		return lesson.Catch(*sd.Catch), nil

	case sd.Assert != nil:
		adef := assertion.Definition{
			Type:    sd.Assert.Type,
			Value:   sd.Assert.Value,
			Values:  sd.Assert.Values,
			Message: sd.Assert.Message,
		}
		engine := ld.engine
		pred := func(lines []string) bool {
			r := engine.Evaluate(
				adef,
				assertion.Output{Lines: lines},
			)
			return r.Passed
		}
		desc := adef.Message
		if desc == "" {
			desc = adef.Type
		}
		return lesson.Assert(pred, desc), nil
	}

	// Unreachable given the variant count check.
	return lesson.Step{}, fmt.Errorf("empty step definition")
}
