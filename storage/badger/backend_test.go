package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/newsflow/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := OpenBackend(file, false)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())

	archive := NewArchiveRepository(backend)
	_, err = archive.CountByDateRange(context.Background(), testTime(0), testTime(10))
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestNewMemoryRepositories(t *testing.T) {
	archive, checkpoints, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	assert.NotNil(t, archive)
	assert.NotNil(t, checkpoints)

	cp, err := checkpoints.LoadCheckpoint(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, cp)

	msgs, err := archive.GetRawArticlesByDateRange(context.Background(), testTime(0), testTime(1), 0, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
