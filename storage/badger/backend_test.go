package badger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v4"
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
	tmpDir := filepath.Join(t.TempDir(), "nested", "entries.badger")
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.DirExists(t, tmpDir)
}

func TestOpenBackend_FilePath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0o644))

	_, err := OpenBackend(tmpFile, false)
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestWithTransaction(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()
	ctx := context.Background()

	t.Run("commit on success", func(t *testing.T) {
		err := backend.WithTransaction(ctx, func(ctx context.Context, tx *badger.Txn) error {
			return tx.Set([]byte("k"), []byte("v"))
		})
		require.NoError(t, err)

		err = backend.WithTx(func(tx *badger.Txn) error {
			_, err := tx.Get([]byte("k"))
			return err
		}, false)
		assert.NoError(t, err)
	})

	t.Run("discard on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := backend.WithTransaction(ctx, func(ctx context.Context, tx *badger.Txn) error {
			if err := tx.Set([]byte("other"), []byte("v")); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		err = backend.WithTx(func(tx *badger.Txn) error {
			_, err := tx.Get([]byte("other"))
			return err
		}, false)
		assert.ErrorIs(t, err, badger.ErrKeyNotFound)
	})
}

func TestEntryKeys(t *testing.T) {
	for _, id := range []int{0, 1, 255, 1 << 20} {
		got, ok := parseEntryKey(makeEntryKey(id))
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}
	_, ok := parseEntryKey([]byte(snapshotMetadataKey))
	assert.False(t, ok)
}
