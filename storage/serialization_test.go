package storage

import (
	"testing"
	"time"

	"github.com/poiesic/profiledb/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalVectors(t *testing.T) {
	tests := []struct {
		name string
		dim  int
		rows [][]float32
	}{
		{"empty", 0, [][]float32{}},
		{"single row", 3, [][]float32{{0.1, -0.2, 0.3}}},
		{"several rows", 2, [][]float32{{1, 0}, {0, 1}, {0.5, 0.5}}},
		{"wide row", 300, [][]float32{make([]float32, 300)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalVectors(tt.dim, tt.rows)
			require.NotEmpty(t, data)

			dim, rows, err := UnmarshalVectors(data)
			require.NoError(t, err)
			assert.Equal(t, tt.dim, dim)
			assert.Equal(t, tt.rows, rows)
		})
	}
}

func TestUnmarshalVectors_Invalid(t *testing.T) {
	valid := MarshalVectors(2, [][]float32{{1, 2}, {3, 4}})

	t.Run("empty data", func(t *testing.T) {
		_, _, err := UnmarshalVectors([]byte{})
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("truncated body", func(t *testing.T) {
		_, _, err := UnmarshalVectors(valid[:len(valid)-5])
		assert.ErrorIs(t, err, ErrTruncatedData)
	})

	t.Run("corrupted value", func(t *testing.T) {
		corrupt := append([]byte(nil), valid...)
		corrupt[4] ^= 0xff
		_, _, err := UnmarshalVectors(corrupt)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestMarshalUnmarshalMetadata(t *testing.T) {
	idx := 0
	ts := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	snap := &Snapshot{
		Texts: []string{"이름: Alice", "회사: Acme"},
		Meta: []core.EntryMeta{
			{Category: core.CategoryPersonalInfo, ProfileName: "alice", Timestamp: ts},
			{Category: core.CategoryWorkExperience, ProfileName: "alice", Timestamp: ts, Index: &idx},
		},
		Tombstones: []int{1},
	}

	data, err := MarshalMetadata(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data_entries"`)
	assert.Contains(t, string(data), `"type": "work_experience"`)
	assert.Contains(t, string(data), `"index": null`)

	decoded, err := UnmarshalMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, snap.Texts, decoded.Texts)
	assert.Equal(t, snap.Meta, decoded.Meta)
	assert.Equal(t, snap.Tombstones, decoded.Tombstones)
	assert.Nil(t, decoded.Vectors)
}

func TestMarshalMetadata_EmptyArrays(t *testing.T) {
	data, err := MarshalMetadata(&Snapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data_entries":[],"metadata":[],"tombstones":[]}`, string(data))
}

func TestMetadata_Inconsistent(t *testing.T) {
	_, err := MarshalMetadata(&Snapshot{Texts: []string{"a"}})
	assert.ErrorIs(t, err, ErrInconsistentSnapshot)

	_, err = UnmarshalMetadata([]byte(`{"data_entries":["a"],"metadata":[]}`))
	assert.ErrorIs(t, err, ErrInconsistentSnapshot)

	_, err = UnmarshalMetadata([]byte(`{"data_entries":[],"metadata":[],"tombstones":[3]}`))
	assert.ErrorIs(t, err, ErrInconsistentSnapshot)

	_, err = UnmarshalMetadata([]byte(`{"data_entries":["a"],"metadata":[{"type":"skills","profile_name":"","timestamp":"2025-01-01T00:00:00Z","index":null}]}`))
	assert.ErrorIs(t, err, ErrInconsistentSnapshot)
	assert.ErrorIs(t, err, core.ErrEmptyProfileName)

	_, err = UnmarshalMetadata([]byte(`{"data_entries":["a"],"metadata":[{"profile_name":"x","timestamp":"2025-01-01T00:00:00Z","index":null}]}`))
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	_, err = UnmarshalMetadata([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrSerializationFailed)

	_, err = UnmarshalMetadata([]byte(`{"data_entries":["a"],"metadata":[{"type":"hobby","profile_name":"x","timestamp":"2025-01-01T00:00:00Z","index":null}]}`))
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
