package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

func TestEntries(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestStore(t)

	require.NoError(t, s.PutEntry(ctx, 0, json.RawMessage(`{"name":"Alice"}`)))
	assert.FileExists(t, filepath.Join(dir, EntryDir, "entry_0.json"))

	got, err := s.GetEntry(ctx, 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Alice"}`, string(got))

	_, err = s.GetEntry(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.DeleteEntries(ctx, 0, 7))
	_, err = s.GetEntry(ctx, 0)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCompactEntries(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for id := 0; id < 6; id++ {
		payload, _ := json.Marshal(map[string]int{"id": id})
		require.NoError(t, s.PutEntry(ctx, id, payload))
	}
	// id 3 has no payload on disk
	require.NoError(t, s.DeleteEntries(ctx, 3))

	require.NoError(t, s.CompactEntries(ctx, []int{1, 3, 4}))

	got, err := s.GetEntry(ctx, 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(got))

	_, err = s.GetEntry(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err = s.GetEntry(ctx, 2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4}`, string(got))

	ids, err := s.entryIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 2}, ids)
}

// cancelAfter reports cancellation once Err has been called more than n times.
type cancelAfter struct {
	context.Context
	calls, n int
}

func (c *cancelAfter) Err() error {
	c.calls++
	if c.calls > c.n {
		return context.Canceled
	}
	return nil
}

func TestCompactEntriesRestoresOnFailure(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	for id := 0; id < 5; id++ {
		payload, _ := json.Marshal(map[string]int{"id": id})
		require.NoError(t, s.PutEntry(ctx, id, payload))
	}

	// Two renames succeed, the third sees a cancelled context.
	err := s.CompactEntries(&cancelAfter{Context: ctx, n: 2}, []int{1, 2, 4})
	require.ErrorIs(t, err, context.Canceled)

	for _, id := range []int{1, 2, 4} {
		got, err := s.GetEntry(ctx, id)
		require.NoError(t, err)
		assert.JSONEq(t, fmt.Sprintf(`{"id":%d}`, id), string(got))
	}
	ids, err := s.entryIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 4}, ids)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, dir := newTestStore(t)

	_, err := s.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	snap := &storage.Snapshot{
		Texts: []string{"a", "b"},
		Meta: []core.EntryMeta{
			{Category: core.CategorySkills, ProfileName: "p", Timestamp: time.Unix(100, 0).UTC()},
			{Category: core.CategoryInterests, ProfileName: "p", Timestamp: time.Unix(100, 0).UTC()},
		},
		Tombstones: []int{0},
		Dimension:  2,
		Vectors:    [][]float32{{1, 0}, {0, 1}},
	}
	require.NoError(t, s.SaveSnapshot(ctx, snap))
	assert.FileExists(t, filepath.Join(dir, MetadataFile))
	assert.FileExists(t, filepath.Join(dir, VectorFile))

	loaded, err := s.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Texts, loaded.Texts)
	assert.Equal(t, snap.Meta, loaded.Meta)
	assert.Equal(t, snap.Tombstones, loaded.Tombstones)
	assert.Equal(t, 2, loaded.Dimension)
	assert.Equal(t, snap.Vectors, loaded.Vectors)

	t.Run("no vectors removes blob", func(t *testing.T) {
		snap.Vectors = nil
		snap.Dimension = 0
		require.NoError(t, s.SaveSnapshot(ctx, snap))
		assert.NoFileExists(t, filepath.Join(dir, VectorFile))

		loaded, err := s.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Nil(t, loaded.Vectors)
	})
}

func TestLoadSnapshotCorruption(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt metadata", func(t *testing.T) {
		s, dir := newTestStore(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte("{oops"), 0o644))
		_, err := s.LoadSnapshot(ctx)
		assert.ErrorIs(t, err, storage.ErrSerializationFailed)
	})

	t.Run("corrupt blob is ignored", func(t *testing.T) {
		s, dir := newTestStore(t)
		require.NoError(t, s.SaveSnapshot(ctx, &storage.Snapshot{
			Texts:     []string{"a"},
			Meta:      []core.EntryMeta{{Category: core.CategorySkills, ProfileName: "p", Timestamp: time.Unix(1, 0).UTC()}},
			Dimension: 1,
			Vectors:   [][]float32{{1}},
		}))
		require.NoError(t, os.WriteFile(filepath.Join(dir, VectorFile), []byte{1, 2, 3}, 0o644))

		loaded, err := s.LoadSnapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, loaded.Texts, 1)
		assert.Nil(t, loaded.Vectors)
	})
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.PutEntry(ctx, 0, json.RawMessage(`{}`)), storage.ErrStorageClosed)
	_, err := s.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
