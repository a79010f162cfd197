package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutAndGet(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	data := []byte("video bytes")
	location, err := store.Put(context.Background(), "video_20240101_000000_abcd1234.mp4", data)
	require.NoError(t, err)
	assert.Equal(t, "video_20240101_000000_abcd1234.mp4", location)

	onDisk, err := os.ReadFile(filepath.Join(root, location))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)

	fetched, err := store.Get(context.Background(), location)
	require.NoError(t, err)
	assert.Equal(t, data, fetched)
}

func TestLocalStoreGetMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope.mp4")
	assert.Error(t, err)
}

func TestLocalStoreCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "videos")

	_, err := NewLocalStore(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
