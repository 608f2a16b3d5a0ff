package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir, err := NewDirStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{"memory": NewInMemoryStore(), "dir": dir}
}

func TestStore_SaveGetIsolation(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			data := []byte("hello")
			require.NoError(t, store.Save("s1", "a.md", data))
			data[0] = 'H'

			out, err := store.Get("s1", "a.md")
			require.NoError(t, err)
			assert.Equal(t, "hello", string(out))

			out[0] = 'x'
			again, err := store.Get("s1", "a.md")
			require.NoError(t, err)
			assert.Equal(t, "hello", string(again))
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save("s1", "a.md", []byte("one")))
			require.NoError(t, store.Save("s1", "a.md", []byte("two")))
			out, err := store.Get("s1", "a.md")
			require.NoError(t, err)
			assert.Equal(t, "two", string(out))
		})
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Save("s1", "b.json", []byte("1")))
			require.NoError(t, store.Save("s1", "a.md", []byte("2")))
			require.NoError(t, store.Save("s2", "c.md", []byte("3")))

			names, err := store.List("s1")
			require.NoError(t, err)
			assert.Equal(t, []string{"a.md", "b.json"}, names)

			require.NoError(t, store.Delete("s1", "a.md"))
			assert.ErrorIs(t, store.Delete("s1", "a.md"), ErrNotFound)

			names, err = store.List("s1")
			require.NoError(t, err)
			assert.Equal(t, []string{"b.json"}, names)

			empty, err := store.List("unknown")
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("s1", "missing.md")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, store.Delete("nope", "missing.md"), ErrNotFound)
		})
	}
}

func TestStore_RejectsPathNames(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "..", "../x", "a/b", `a\b`} {
				assert.ErrorIs(t, store.Save("s1", bad, nil), ErrInvalidName, bad)
			}
		})
	}
}
