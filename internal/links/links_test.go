package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/lapa-nations/internal/models"
)

func TestNoteTemplate(t *testing.T) {
	assert.Equal(t, "# Lapa\n\nEnter your notes here...", NoteTemplate("Lapa", "https://x"))
	assert.Equal(t, "# https://x\n\nEnter your notes here...", NoteTemplate("", "https://x"))
}

func TestBoard_AddListDeleteUpdate(t *testing.T) {
	b := NewBoard()

	first := b.Add(models.LinkItem{URL: "https://a"})
	second := b.Add(models.LinkItem{URL: "https://b"})
	third := b.Add(models.LinkItem{URL: "https://c"})
	require.NotEmpty(t, first.ID)
	require.False(t, first.CreatedAt.IsZero())

	list := b.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	// Изменение копии не затрагивает доску.
	list[0].Notes = "mutated"
	assert.Empty(t, b.List()[0].Notes)

	require.NoError(t, b.Delete(second.ID))
	list = b.List()
	require.Len(t, list, 2)
	assert.Equal(t, third.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	require.ErrorIs(t, b.Delete(second.ID), ErrNotFound)

	updated, err := b.UpdateNotes(first.ID, "# new")
	require.NoError(t, err)
	assert.Equal(t, "# new", updated.Notes)
	assert.Equal(t, "# new", b.List()[1].Notes)

	_, err = b.UpdateNotes("nope", "x")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegistry_PerSessionAndEviction(t *testing.T) {
	_, err := NewRegistry(0)
	require.Error(t, err)

	r, err := NewRegistry(2)
	require.NoError(t, err)

	a := r.Board("a")
	a.Add(models.LinkItem{URL: "https://a"})
	require.Same(t, a, r.Board("a"))
	assert.Empty(t, r.Board("b").List())

	// "a" использовалась позже "b", вытесняется "b".
	r.Board("a")
	r.Board("c")
	assert.Equal(t, 2, r.Len())
	assert.Len(t, r.Board("a").List(), 1)
}
