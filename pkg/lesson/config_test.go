package lesson

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRunConfig_Defaults(t *testing.T) {
	cfg := NewRunConfig()

	assert.Equal(t, 30*time.Second, cfg.DefaultTimeout)
	assert.Empty(t, cfg.ReportDir)
	assert.False(t, cfg.StopOnFailure)
	assert.False(t, cfg.Verbose)
}
