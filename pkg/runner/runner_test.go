package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.lessons/pkg/catalog"
	"digital.vasic.lessons/pkg/lesson"
	"digital.vasic.lessons/pkg/metrics"
)

func passingLesson(id lesson.ID) *lesson.Lesson {
	return &lesson.Lesson{
		ID:       id,
		Category: "language",
		Title:    "Lesson " + string(id),
		Steps: []lesson.Step{
			lesson.Log("a"),
			lesson.Log("b"),
			lesson.Assert(func(lines []string) bool {
				return len(lines) == 2
			}, "two lines captured"),
		},
		Timeout: 5 * time.Second,
	}
}

func TestRunner_Run_Passes(t *testing.T) {
	r := New()

	res := r.Run(context.Background(), passingLesson("basic"))

	assert.Equal(t, lesson.StatusPassed, res.Status)
	assert.True(t, res.Passed())
	assert.Empty(t, res.FailureReason)

	require.Len(t, res.Lines, 2)
	assert.Equal(t, 0, res.Lines[0].Sequence)
	assert.Equal(t, "a", res.Lines[0].Text)
	assert.Equal(t, 1, res.Lines[1].Sequence)
	assert.Equal(t, "b", res.Lines[1].Text)

	require.Len(t, res.Checks, 1)
	assert.True(t, res.Checks[0].Passed)
}

func TestRunner_Run_FailedAssert(t *testing.T) {
	r := New()
	l := &lesson.Lesson{
		ID:    "failing",
		Title: "Failing",
		Steps: []lesson.Step{
			lesson.Log("only line"),
			lesson.Assert(func([]string) bool {
				return false
			}, "this check never holds"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusFailed, res.Status)
	assert.Contains(
		t, res.FailureReason, "this check never holds",
	)
	require.Len(t, res.Checks, 1)
	assert.False(t, res.Checks[0].Passed)
}

func TestRunner_Run_MultipleFailuresJoined(t *testing.T) {
	r := New()
	never := func([]string) bool { return false }
	l := &lesson.Lesson{
		ID:    "multi",
		Title: "Multi",
		Steps: []lesson.Step{
			lesson.Assert(never, "first check"),
			lesson.Assert(never, "second check"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusFailed, res.Status)
	assert.Equal(
		t,
		"first check; second check",
		res.FailureReason,
	)
	assert.Len(t, res.Checks, 2)
}

func TestRunner_Run_StopOnFailure(t *testing.T) {
	r := New(WithStopOnFailure(true))
	never := func([]string) bool { return false }
	l := &lesson.Lesson{
		ID:    "stop",
		Title: "Stop",
		Steps: []lesson.Step{
			lesson.Assert(never, "first check"),
			lesson.Assert(never, "second check"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusFailed, res.Status)
	require.Len(t, res.Checks, 1)
	assert.Equal(t, "first check", res.FailureReason)
}

func TestRunner_Run_AssertSeesPriorLinesOnly(t *testing.T) {
	r := New()
	var seen []string
	l := &lesson.Lesson{
		ID:    "ordering",
		Title: "Ordering",
		Steps: []lesson.Step{
			lesson.Log("before"),
			lesson.Assert(func(lines []string) bool {
				seen = append([]string(nil), lines...)
				return true
			}, "snapshot"),
			lesson.Log("after"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusPassed, res.Status)
	assert.Equal(t, []string{"before"}, seen)
	assert.Len(t, res.Lines, 2)
}

func TestRunner_Run_Timeout(t *testing.T) {
	r := New()
	l := &lesson.Lesson{
		ID:    "slow",
		Title: "Slow",
		Steps: []lesson.Step{
			lesson.Log("started"),
			lesson.Delay(2 * time.Second),
			lesson.Log("never reached"),
		},
		Timeout: 100 * time.Millisecond,
	}

	start := time.Now()
	res := r.Run(context.Background(), l)
	elapsed := time.Since(start)

	assert.Equal(t, lesson.StatusTimedOut, res.Status)
	assert.Contains(t, res.FailureReason, "timed out after")
	assert.Less(t, elapsed, time.Second,
		"delay must be interrupted by the timeout")

	// Output captured before the timeout is preserved.
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "started", res.Lines[0].Text)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	r := New()
	l := &lesson.Lesson{
		ID:    "cancelled",
		Title: "Cancelled",
		Steps: []lesson.Step{
			lesson.Delay(5 * time.Second),
		},
		Timeout: 30 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	res := r.Run(ctx, l)

	assert.Equal(t, lesson.StatusTimedOut, res.Status)
	assert.Equal(t, "cancelled", res.FailureReason)
}

func TestRunner_Run_DefaultTimeoutApplied(t *testing.T) {
	r := New(WithDefaultTimeout(80 * time.Millisecond))
	l := &lesson.Lesson{
		ID:    "no-timeout",
		Title: "No timeout of its own",
		Steps: []lesson.Step{
			lesson.Delay(time.Second),
		},
		// Zero timeout falls back to the runner default. The
		// lesson skips registry validation on purpose.
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusTimedOut, res.Status)
}

func TestRunner_Run_UncaughtRaise(t *testing.T) {
	r := New()
	l := &lesson.Lesson{
		ID:    "raise",
		Title: "Raise",
		Steps: []lesson.Step{
			lesson.Log("before error"),
			lesson.Raise("network"),
			lesson.Log("unreachable"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusErrored, res.Status)
	assert.Equal(
		t, "uncaught error: network", res.FailureReason,
	)
	// Steps after the raise are skipped.
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "before error", res.Lines[0].Text)
}

func TestRunner_Run_RaiseCaught(t *testing.T) {
	r := New()
	l := &lesson.Lesson{
		ID:    "catch",
		Title: "Catch",
		Steps: []lesson.Step{
			lesson.Raise("network"),
			lesson.Log("skipped while pending"),
			lesson.Catch("network"),
			lesson.Log("resumed"),
			lesson.Assert(func(lines []string) bool {
				return len(lines) == 1 &&
					lines[0] == "resumed"
			}, "execution resumed after catch"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusPassed, res.Status)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, "resumed", res.Lines[0].Text)
}

func TestRunner_Run_MismatchedCatch(t *testing.T) {
	r := New()
	l := &lesson.Lesson{
		ID:    "mismatch",
		Title: "Mismatch",
		Steps: []lesson.Step{
			lesson.Raise("network"),
			lesson.Catch("disk"),
			lesson.Log("still skipped"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusErrored, res.Status)
	assert.Equal(
		t, "uncaught error: network", res.FailureReason,
	)
	assert.Empty(t, res.Lines)
}

func TestRunner_Run_CatchWithoutRaise(t *testing.T) {
	r := New()
	l := &lesson.Lesson{
		ID:    "lonely-catch",
		Title: "Lonely catch",
		Steps: []lesson.Step{
			lesson.Catch("network"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusErrored, res.Status)
	assert.Equal(
		t, "no error to catch: network", res.FailureReason,
	)
}

func TestRunner_Run_PanickingPredicate(t *testing.T) {
	r := New()
	l := &lesson.Lesson{
		ID:    "panicky",
		Title: "Panicky",
		Steps: []lesson.Step{
			lesson.Assert(func([]string) bool {
				panic("predicate exploded")
			}, "panicking check"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusFailed, res.Status)
	require.Len(t, res.Checks, 1)
	assert.False(t, res.Checks[0].Passed)
}

func TestRunner_Run_RecordsMetrics(t *testing.T) {
	mem := metrics.NewInMemoryMetrics()
	r := New(WithMetrics(mem))

	r.Run(context.Background(), passingLesson("metered"))

	assert.Equal(
		t, 1, mem.RunCount("metered", lesson.StatusPassed),
	)
	assert.Equal(t, 2, mem.StepCount("metered", "log"))
	assert.Equal(t, 1, mem.StepCount("metered", "assert"))
	assert.Equal(t, 1, mem.CheckCount("metered", true))
}

func newRegistryWith(
	t *testing.T,
	lessons ...*lesson.Lesson,
) *catalog.Registry {
	t.Helper()
	reg := catalog.NewRegistry()
	for _, l := range lessons {
		require.NoError(t, reg.Register(l))
	}
	return reg
}

func TestRunner_Run_MultiLineLogSplit(t *testing.T) {
	r := New()
	l := &lesson.Lesson{
		ID:    "stream",
		Title: "Stream",
		Steps: []lesson.Step{
			lesson.Log("first\nsecond"),
			lesson.Log("third"),
			lesson.Assert(func(lines []string) bool {
				return len(lines) == 3
			}, "three lines captured"),
		},
		Timeout: 5 * time.Second,
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusPassed, res.Status)
	require.Len(t, res.Lines, 3)
	assert.Equal(t, "first", res.Lines[0].Text)
	assert.Equal(t, "second", res.Lines[1].Text)
	assert.Equal(t, "third", res.Lines[2].Text)
	assert.Equal(t, 2, res.Lines[2].Sequence)
}

func TestRunner_WithRunConfig(t *testing.T) {
	cfg := lesson.NewRunConfig()
	cfg.DefaultTimeout = 100 * time.Millisecond
	cfg.StopOnFailure = true
	r := New(WithRunConfig(cfg))

	never := func([]string) bool { return false }
	l := &lesson.Lesson{
		ID:    "configured",
		Title: "Configured",
		Steps: []lesson.Step{
			lesson.Assert(never, "first check"),
			lesson.Assert(never, "second check"),
		},
	}

	res := r.Run(context.Background(), l)

	assert.Equal(t, lesson.StatusFailed, res.Status)
	require.Len(t, res.Checks, 1)

	slow := &lesson.Lesson{
		ID:    "slow",
		Title: "Slow",
		Steps: []lesson.Step{lesson.Delay(time.Second)},
	}

	res = r.Run(context.Background(), slow)

	assert.Equal(t, lesson.StatusTimedOut, res.Status)
	assert.Contains(
		t, res.FailureReason, "timed out after 100ms",
	)
}
