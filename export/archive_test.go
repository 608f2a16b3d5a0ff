package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Ying-Kai-Liao/hot-seat/artifact"
	"github.com/Ying-Kai-Liao/hot-seat/core"
)

func TestArchive(t *testing.T) {
	store := artifact.NewInMemoryStore()
	st := finished()
	require.NoError(t, Archive(store, st, stamp))

	names, err := store.List(st.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"hotseat-session.json", "hotseat-session.md"}, names)

	data, ok, err := Archived(store, st.ID, FormatJSON)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2025-03-01T12:00:00Z", gjson.GetBytes(data, "timestamp").String())

	md, ok, err := Archived(store, st.ID, FormatMarkdown)
	require.NoError(t, err)
	require.True(t, ok)
	want, err := Render(st, FormatMarkdown, stamp)
	require.NoError(t, err)
	assert.Equal(t, want, md)
}

func TestArchive_Empty(t *testing.T) {
	store := artifact.NewInMemoryStore()
	st := core.NewSessionState("idea", core.TaskCritique, nil)
	assert.ErrorIs(t, Archive(store, st, stamp), ErrEmpty)

	_, ok, err := Archived(store, st.ID, FormatJSON)
	require.NoError(t, err)
	assert.False(t, ok)
}
