package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_Resolve(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	t.Run("resolves inside root", func(t *testing.T) {
		resolved, err := store.Resolve("albums/3/photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(store.RootAbs(), "albums", "3", "photo.jpg"), resolved)
	})

	t.Run("rejects parent traversal", func(t *testing.T) {
		_, err := store.Resolve("../outside.jpg")
		assert.Error(t, err)

		_, err = store.Resolve("albums/../../outside.jpg")
		assert.Error(t, err)
	})

	t.Run("rejects null bytes and control characters", func(t *testing.T) {
		_, err := store.Resolve("a\x00b.jpg")
		assert.Error(t, err)

		_, err = store.Resolve("a\x07b.jpg")
		assert.Error(t, err)
	})

	t.Run("empty path resolves to root", func(t *testing.T) {
		resolved, err := store.Resolve("")
		require.NoError(t, err)
		assert.Equal(t, store.RootAbs(), resolved)
	})
}

func TestStorage_WriteReadRemove(t *testing.T) {
	t.Parallel()

	store, err := New(t.TempDir())
	require.NoError(t, err)

	file, err := store.OpenForWrite("albums/1/test.jpg")
	require.NoError(t, err)
	_, err = file.WriteString("payload")
	require.NoError(t, err)
	require.NoError(t, file.Close())

	info, err := store.Stat("albums/1/test.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(len("payload")), info.Size())

	reader, err := store.OpenForRead("albums/1/test.jpg")
	require.NoError(t, err)
	require.NoError(t, reader.Close())

	require.NoError(t, store.Remove("albums/1/test.jpg"))
	_, err = store.Stat("albums/1/test.jpg")
	assert.True(t, os.IsNotExist(err))

	// Removing a missing file is not an error.
	require.NoError(t, store.Remove("albums/1/test.jpg"))
}
