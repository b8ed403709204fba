package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/poiesic/profiledb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSyncer implements Syncer for testing
type recordingSyncer struct {
	mu       sync.Mutex
	names    []string
	profiles map[string]*core.Profile
	failOn   string
}

func newRecordingSyncer() *recordingSyncer {
	return &recordingSyncer{profiles: make(map[string]*core.Profile)}
}

func (s *recordingSyncer) SyncProfile(ctx context.Context, name string, p *core.Profile) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == s.failOn {
		return nil, errors.New("sync error")
	}
	s.names = append(s.names, name)
	s.profiles[name] = p
	ids := make([]int, len(p.Sections()))
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}

const aliceJSON = `{
	"personal_info": {"name": "Alice"},
	"work_experience": [{"company": "Acme", "responsibilities": ["Python data pipeline"]}]
}`

const bobJSON = `{
	"work_experience": [{"company": "Beta", "duration": {"start": "2020-01", "end": "현재"}}],
	"education": [{"university": "KAIST", "gpa": 3.8}]
}`

func writeProfile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNewPipeline(t *testing.T) {
	t.Run("requires syncer", func(t *testing.T) {
		_, err := NewPipeline(nil)
		assert.ErrorIs(t, err, ErrSyncerRequired)
	})

	t.Run("with options", func(t *testing.T) {
		p, err := NewPipeline(newRecordingSyncer(), WithPoolSize(0), WithLogger(nil))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 1, p.pool.Cap())
		assert.NotNil(t, p.logger)
	})
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	syncer := newRecordingSyncer()
	p, err := NewPipeline(syncer, WithPoolSize(4))
	require.NoError(t, err)
	defer p.Release()

	docs := []Document{
		{Name: "Alice", Data: []byte(aliceJSON)},
		{Name: "Broken", Data: []byte(`{"work_experience": [`)},
		{Name: "Bob", Data: []byte(bobJSON)},
		{Name: "Nameless", Data: []byte(`{"projects": [{"type": "side"}]}`)},
		{Name: "Empty"},
	}

	results, err := p.Ingest(ctx, docs)
	require.NoError(t, err)
	require.Len(t, results, len(docs))

	assert.Equal(t, []string{"Alice", "Bob"}, syncer.names, "valid profiles are synced in input order")

	assert.NoError(t, results[0].Err)
	assert.Equal(t, []int{0, 1}, results[0].EntryIDs)

	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].EntryIDs)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, "3.8", syncer.profiles["Bob"].Education[0].GPA.String())

	assert.ErrorIs(t, results[3].Err, core.ErrInvalidProfile)
	assert.ErrorIs(t, results[4].Err, ErrEmptyDocument)
}

func TestIngestSyncFailure(t *testing.T) {
	syncer := newRecordingSyncer()
	syncer.failOn = "Alice"
	p, err := NewPipeline(syncer)
	require.NoError(t, err)
	defer p.Release()

	results, err := p.Ingest(context.Background(), []Document{
		{Name: "Alice", Data: []byte(aliceJSON)},
		{Name: "Bob", Data: []byte(bobJSON)},
	})
	require.NoError(t, err)
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, []string{"Bob"}, syncer.names)
}

func TestIngestCancelled(t *testing.T) {
	syncer := newRecordingSyncer()
	p, err := NewPipeline(syncer)
	require.NoError(t, err)
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.Ingest(ctx, []Document{{Name: "Alice", Data: []byte(aliceJSON)}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, syncer.names)
}

func TestIngestFiles(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "bob.json", bobJSON)
	writeProfile(t, dir, "alice.json", aliceJSON)
	writeProfile(t, dir, "notes.txt", "not a profile")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	paths, err := FindProfiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "alice.json"), filepath.Join(dir, "bob.json")}, paths)

	syncer := newRecordingSyncer()
	p, err := NewPipeline(syncer)
	require.NoError(t, err)
	defer p.Release()

	results, err := p.IngestFiles(context.Background(), append(paths, filepath.Join(dir, "missing.json"))...)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"alice", "bob"}, syncer.names)
	assert.ErrorIs(t, results[2].Err, os.ErrNotExist)
	assert.Equal(t, "missing", results[2].Name)

	_, err = FindProfiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestProfileName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/profiles/alice.json", "alice"},
		{"bob.JSON", "bob"},
		{"holly.kim.json", "holly.kim"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ProfileName(tt.path))
		})
	}
}
