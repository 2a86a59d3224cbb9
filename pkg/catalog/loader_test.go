package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.lessons/pkg/lesson"
)

const jsonBank = `{
	"version": "1",
	"lessons": [
		{
			"id": "js-hoisting",
			"category": "language",
			"title": "Variable hoisting",
			"timeout_ms": 5000,
			"steps": [
				{"log": "var x is undefined before assignment"},
				{"assert": {
					"type": "contains",
					"value": "undefined",
					"message": "hoisted var reads as undefined"
				}}
			]
		},
		{
			"id": "js-closures",
			"category": "language",
			"title": "Closures capture variables",
			"requires": ["js-hoisting"],
			"timeout_ms": 5000,
			"steps": [
				{"log": "counter: 1"},
				{"log": "counter: 2"},
				{"assert": {
					"type": "line_count",
					"value": 2,
					"message": "both increments logged"
				}}
			]
		}
	]
}`

const yamlBank = `
version: "1"
lessons:
  - id: hooks-cleanup
    category: hooks
    title: Effect cleanup ordering
    timeout_ms: 3000
    steps:
      - log: mount
      - delay_ms: 10
      - log: cleanup
      - assert:
          type: prefix
          value: mount
          message: mount logged first
`

func writeBank(
	t *testing.T,
	name string,
	content string,
) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_LoadFile_JSON(t *testing.T) {
	reg := NewRegistry()
	ld := NewLoader(reg, nil)

	path := writeBank(t, "bank.json", jsonBank)
	require.NoError(t, ld.LoadFile(path))

	assert.Equal(t, 2, reg.Count())

	l, err := reg.Get("js-closures")
	require.NoError(t, err)
	assert.Equal(t, []lesson.ID{"js-hoisting"}, l.Requires)
	assert.Equal(t, 5*time.Second, l.Timeout)
	require.Len(t, l.Steps, 3)
	assert.Equal(t, lesson.KindAssert, l.Steps[2].Kind)
	assert.Equal(
		t, "both increments logged", l.Steps[2].Description,
	)
}

func TestLoader_LoadFile_YAML(t *testing.T) {
	reg := NewRegistry()
	ld := NewLoader(reg, nil)

	path := writeBank(t, "bank.yaml", yamlBank)
	require.NoError(t, ld.LoadFile(path))

	l, err := reg.Get("hooks-cleanup")
	require.NoError(t, err)
	require.Len(t, l.Steps, 4)
	assert.Equal(t, lesson.KindDelay, l.Steps[1].Kind)
	assert.Equal(
		t, 10*time.Millisecond, l.Steps[1].Duration,
	)
}

func TestLoader_LoadFile_Missing(t *testing.T) {
	ld := NewLoader(NewRegistry(), nil)

	err := ld.LoadFile("/nonexistent/bank.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestLoader_LoadBytes_ParseError(t *testing.T) {
	ld := NewLoader(NewRegistry(), nil)

	err := ld.LoadBytes([]byte("{not json"), false, "inline")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "inline")
}

func TestLoader_LoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "a.json"),
		[]byte(jsonBank), 0644,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "b.yaml"),
		[]byte(yamlBank), 0644,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "notes.txt"),
		[]byte("ignored"), 0644,
	))

	reg := NewRegistry()
	ld := NewLoader(reg, nil)

	require.NoError(t, ld.LoadDir(dir))
	assert.Equal(t, 3, reg.Count())
}

func TestLoader_Compile_AssertPredicate(t *testing.T) {
	ld := NewLoader(NewRegistry(), nil)
	msg := "output says hello"

	l, err := ld.Compile(&lesson.Definition{
		ID:        "x",
		Title:     "X",
		TimeoutMs: 1000,
		Steps: []lesson.StepDef{{
			Assert: &lesson.AssertDef{
				Type:    "contains",
				Value:   "hello",
				Message: msg,
			},
		}},
	})
	require.NoError(t, err)
	require.Len(t, l.Steps, 1)

	step := l.Steps[0]
	assert.Equal(t, msg, step.Description)
	assert.True(t, step.Predicate([]string{"hello world"}))
	assert.False(t, step.Predicate([]string{"goodbye"}))
}

func TestLoader_Compile_DescriptionFallsBackToType(t *testing.T) {
	ld := NewLoader(NewRegistry(), nil)

	l, err := ld.Compile(&lesson.Definition{
		ID:        "x",
		Title:     "X",
		TimeoutMs: 1000,
		Steps: []lesson.StepDef{{
			Assert: &lesson.AssertDef{Type: "not_empty"},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, "not_empty", l.Steps[0].Description)
}

func TestLoader_Compile_RejectsMultiVariantStep(t *testing.T) {
	ld := NewLoader(NewRegistry(), nil)
	msg := "hello"

	_, err := ld.Compile(&lesson.Definition{
		ID:        "x",
		Title:     "X",
		TimeoutMs: 1000,
		Steps: []lesson.StepDef{{
			Log:   &msg,
			Raise: &msg,
		}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one variant")
}
