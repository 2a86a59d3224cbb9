package lesson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStepDef_VariantCount(t *testing.T) {
	msg := "hello"
	var ms int64 = 100

	tests := []struct {
		name string
		def  StepDef
		want int
	}{
		{"empty", StepDef{}, 0},
		{"log only", StepDef{Log: &msg}, 1},
		{"delay only", StepDef{DelayMs: &ms}, 1},
		{
			"log and raise",
			StepDef{Log: &msg, Raise: &msg}, 2,
		},
		{
			"assert only",
			StepDef{Assert: &AssertDef{Type: "not_empty"}}, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.def.VariantCount())
		})
	}
}

func TestDefinition_UnmarshalJSON(t *testing.T) {
	data := `{
		"id": "js-hoisting",
		"category": "language",
		"title": "Variable hoisting",
		"requires": ["js-basics"],
		"timeout_ms": 5000,
		"steps": [
			{"log": "step one"},
			{"assert": {"type": "contains", "value": "one", "message": "logged"}},
			{"delay_ms": 50},
			{"raise": "network"},
			{"catch": "network"}
		]
	}`

	var def Definition
	require.NoError(t, json.Unmarshal([]byte(data), &def))

	assert.Equal(t, ID("js-hoisting"), def.ID)
	assert.Equal(t, []ID{"js-basics"}, def.Requires)
	assert.Equal(t, int64(5000), def.TimeoutMs)
	require.Len(t, def.Steps, 5)

	assert.Equal(t, "step one", *def.Steps[0].Log)
	assert.Equal(t, "contains", def.Steps[1].Assert.Type)
	assert.Equal(t, int64(50), *def.Steps[2].DelayMs)
	assert.Equal(t, "network", *def.Steps[3].Raise)
	assert.Equal(t, "network", *def.Steps[4].Catch)

	for _, s := range def.Steps {
		assert.Equal(t, 1, s.VariantCount())
	}
}

func TestDefinition_UnmarshalYAML(t *testing.T) {
	data := `
id: hooks-cleanup
category: hooks
title: Effect cleanup ordering
timeout_ms: 3000
steps:
  - log: "mount"
  - delay_ms: 25
  - log: "cleanup"
  - assert:
      type: equals
      value: "mount\ncleanup"
      message: cleanup follows mount
`

	var def Definition
	require.NoError(t, yaml.Unmarshal([]byte(data), &def))

	assert.Equal(t, ID("hooks-cleanup"), def.ID)
	require.Len(t, def.Steps, 4)
	assert.Equal(t, "equals", def.Steps[3].Assert.Type)
	assert.Equal(
		t, "mount\ncleanup", def.Steps[3].Assert.Value,
	)
}
