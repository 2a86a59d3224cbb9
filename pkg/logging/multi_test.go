package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures calls for assertions.
type recordingLogger struct {
	messages []string
	fields   []Field
	closed   bool
}

func (r *recordingLogger) Info(msg string, fields ...Field) {
	r.messages = append(r.messages, "INFO:"+msg)
	r.fields = append(r.fields, fields...)
}

func (r *recordingLogger) Warn(msg string, fields ...Field) {
	r.messages = append(r.messages, "WARN:"+msg)
}

func (r *recordingLogger) Error(msg string, fields ...Field) {
	r.messages = append(r.messages, "ERROR:"+msg)
}

func (r *recordingLogger) Debug(msg string, fields ...Field) {
	r.messages = append(r.messages, "DEBUG:"+msg)
}

func (r *recordingLogger) WithFields(fields ...Field) Logger {
	r.fields = append(r.fields, fields...)
	return r
}

func (r *recordingLogger) Close() error {
	r.closed = true
	return nil
}

func TestMultiLogger_FansOut(t *testing.T) {
	a := &recordingLogger{}
	b := &recordingLogger{}
	m := NewMultiLogger(a, b)

	m.Info("one")
	m.Warn("two")
	m.Error("three")
	m.Debug("four")

	want := []string{
		"INFO:one", "WARN:two", "ERROR:three", "DEBUG:four",
	}
	assert.Equal(t, want, a.messages)
	assert.Equal(t, want, b.messages)
}

func TestMultiLogger_WithFields(t *testing.T) {
	a := &recordingLogger{}
	m := NewMultiLogger(a)

	m.WithFields(F("run_id", "r-1")).Info("tagged")

	require.Len(t, a.fields, 1)
	assert.Equal(t, "run_id", a.fields[0].Key)
}

func TestMultiLogger_Close(t *testing.T) {
	a := &recordingLogger{}
	b := &recordingLogger{}
	m := NewMultiLogger(a, b)

	require.NoError(t, m.Close())

	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestNullLogger_Discards(t *testing.T) {
	var l Logger = NullLogger{}

	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l.Debug("x")
	assert.NoError(t, l.Close())
	assert.NotNil(t, l.WithFields(F("k", "v")))
}
