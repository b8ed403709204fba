// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"encoding/json"

	"github.com/poiesic/profiledb/core"
)

// EntryStore holds the full JSON payload of each entry, keyed by entry id.
type EntryStore interface {
	// PutEntry stores data under id, replacing any previous payload.
	PutEntry(ctx context.Context, id int, data json.RawMessage) error

	// GetEntry retrieves the payload for id.
	// Returns ErrNotFound if no payload exists.
	GetEntry(ctx context.Context, id int) (json.RawMessage, error)

	// DeleteEntries removes payloads. Missing ids are ignored.
	DeleteEntries(ctx context.Context, ids ...int) error

	// CompactEntries renumbers payloads so that survivors[i] becomes i.
	// survivors must be ascending. Payloads not listed are removed.
	CompactEntries(ctx context.Context, survivors []int) error
}

// SnapshotStore persists the in-memory index state between runs.
type SnapshotStore interface {
	// SaveSnapshot atomically replaces the stored snapshot.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// LoadSnapshot returns the stored snapshot.
	// Returns ErrNotFound if nothing was saved yet.
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
}

// Store is a complete persistence backend.
type Store interface {
	EntryStore
	SnapshotStore

	// Close closes the storage backend and releases resources.
	Close() error
}

// Snapshot is the persisted form of the engine's parallel arrays.
type Snapshot struct {
	Texts      []string
	Meta       []core.EntryMeta
	Tombstones []int

	// Dimension and Vectors are zero when no vector blob exists or it could
	// not be read. Callers re-embed in that case.
	Dimension int
	Vectors   [][]float32
}
