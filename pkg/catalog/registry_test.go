package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.lessons/pkg/lesson"
)

func newLesson(
	id lesson.ID,
	category string,
	requires ...lesson.ID,
) *lesson.Lesson {
	return &lesson.Lesson{
		ID:       id,
		Category: category,
		Title:    "Lesson " + string(id),
		Requires: requires,
		Steps:    []lesson.Step{lesson.Log("hello")},
		Timeout:  5 * time.Second,
	}
}

func TestRegistry_Register_Success(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(newLesson("a", "language")))
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()
	first := newLesson("a", "language")
	first.Title = "the original"
	require.NoError(t, r.Register(first))

	dup := newLesson("a", "hooks")
	err := r.Register(dup)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Contains(t, err.Error(), "a")

	// First registration wins.
	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "the original", got.Title)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_Register_Invalid(t *testing.T) {
	r := NewRegistry()

	err := r.Register(&lesson.Lesson{ID: "x"})
	require.Error(t, err)

	err = r.Register(nil)
	require.Error(t, err)
}

func TestRegistry_Register_StoresClone(t *testing.T) {
	r := NewRegistry()
	l := newLesson("a", "language")
	require.NoError(t, r.Register(l))

	l.Title = "mutated after registration"

	got, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "Lesson a", got.Title)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("missing")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "missing")
}

func TestRegistry_List_RegistrationOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newLesson("c", "language")))
	require.NoError(t, r.Register(newLesson("a", "hooks")))
	require.NoError(t, r.Register(newLesson("b", "language")))

	all := r.List("")
	require.Len(t, all, 3)
	assert.Equal(t, lesson.ID("c"), all[0].ID)
	assert.Equal(t, lesson.ID("a"), all[1].ID)
	assert.Equal(t, lesson.ID("b"), all[2].ID)
}

func TestRegistry_List_ByCategory(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newLesson("c", "language")))
	require.NoError(t, r.Register(newLesson("a", "hooks")))
	require.NoError(t, r.Register(newLesson("b", "language")))

	langs := r.List("language")
	require.Len(t, langs, 2)
	assert.Equal(t, lesson.ID("c"), langs[0].ID)
	assert.Equal(t, lesson.ID("b"), langs[1].ID)

	assert.Empty(t, r.List("nonexistent"))
}

func TestRegistry_List_FreshSlice(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newLesson("a", "language")))

	first := r.List("")
	first[0] = nil
	second := r.List("")

	require.Len(t, second, 1)
	assert.NotNil(t, second[0])
}

func TestRegistry_Categories(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newLesson("a", "language")))
	require.NoError(t, r.Register(newLesson("b", "hooks")))
	require.NoError(t, r.Register(newLesson("c", "language")))

	assert.Equal(
		t, []string{"hooks", "language"}, r.Categories(),
	)
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newLesson("a", "language")))

	r.Clear()

	assert.Equal(t, 0, r.Count())
	require.NoError(t, r.Register(newLesson("a", "language")))
}

func TestRegistry_ValidateRequires(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newLesson("a", "language")))
	require.NoError(t, r.Register(
		newLesson("b", "language", "a"),
	))

	require.NoError(t, r.ValidateRequires())

	require.NoError(t, r.Register(
		newLesson("c", "language", "ghost"),
	))
	err := r.ValidateRequires()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestRegistry_RequireOrder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(
		newLesson("c", "language", "b"),
	))
	require.NoError(t, r.Register(
		newLesson("b", "language", "a"),
	))
	require.NoError(t, r.Register(newLesson("a", "language")))

	ordered, err := r.RequireOrder()
	require.NoError(t, err)
	require.Len(t, ordered, 3)

	pos := make(map[lesson.ID]int)
	for i, l := range ordered {
		pos[l.ID] = i
	}
	assert.Less(t, pos["a"], pos["b"])
	assert.Less(t, pos["b"], pos["c"])
}

func TestRegistry_RequireOrder_Cycle(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(
		newLesson("a", "language", "b"),
	))
	require.NoError(t, r.Register(
		newLesson("b", "language", "a"),
	))

	_, err := r.RequireOrder()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycle))
	assert.Contains(t, err.Error(), " -> ")
}

func TestRegistry_RequireOrder_Deterministic(t *testing.T) {
	r := NewRegistry()
	for _, id := range []lesson.ID{"e", "d", "c", "b", "a"} {
		require.NoError(t, r.Register(
			newLesson(id, "language"),
		))
	}

	first, err := r.RequireOrder()
	require.NoError(t, err)
	second, err := r.RequireOrder()
	require.NoError(t, err)

	require.Len(t, first, 5)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	// Independent lessons come out sorted by ID.
	assert.Equal(t, lesson.ID("a"), first[0].ID)
	assert.Equal(t, lesson.ID("e"), first[4].ID)
}
