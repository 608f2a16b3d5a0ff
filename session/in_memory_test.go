package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ying-Kai-Liao/hot-seat/core"
	"github.com/Ying-Kai-Liao/hot-seat/internal/testutil"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_SaveGetCopies(t *testing.T) {
	store := NewInMemoryStore()
	st := testutil.NewStateBuilder("a todo app").Advisors("A").Entry("A", 1, "hi").Build()
	require.NoError(t, store.Save(st))

	st.Transcript.Append(testutil.Entry("A", 2, "later"))

	got, err := store.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Transcript.Len(), "store must keep its own copy")

	got.Transcript.Append(testutil.Entry("A", 2, "mutated"))
	again, err := store.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Transcript.Len())
}

func TestInMemoryStore_NotFoundAndDelete(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	st := testutil.NewStateBuilder("x").Build()
	require.NoError(t, store.Save(st))
	require.NoError(t, store.Delete(st.ID))
	_, err = store.Get(st.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete("missing"))
}

func TestInMemoryStore_List(t *testing.T) {
	store := NewInMemoryStore()
	older := testutil.NewStateBuilder("old").Build()
	older.Created = time.Now().Add(-time.Hour)
	newer := testutil.NewStateBuilder("new").Build()
	require.NoError(t, store.Save(older))
	require.NoError(t, store.Save(newer))

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Idea)
	assert.Equal(t, "old", list[1].Idea)
}

func TestInMemoryStore_RejectsMissingID(t *testing.T) {
	assert.Error(t, NewInMemoryStore().Save(&core.SessionState{}))
}
