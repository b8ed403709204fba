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

package profiledb

import (
	"context"
	"errors"

	"github.com/poiesic/profiledb/index/vector"
	"github.com/poiesic/profiledb/storage"
)

// Save persists texts, metadata, tombstones and vectors. Entry payloads are
// written when entries are added.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked(ctx)
}

func (e *Engine) saveLocked(ctx context.Context) error {
	if err := e.store.SaveSnapshot(ctx, e.corpus.snapshot()); err != nil {
		e.logger.Error("error saving index", "err", err)
		return err
	}
	return nil
}

// Load replaces the in-memory state with the saved snapshot. A missing or
// unreadable snapshot starts an empty index. Vectors that are missing or do
// not match the metadata are re-embedded when an embedder is configured.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.store.LoadSnapshot(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		e.logger.Debug("no saved index, starting empty")
		e.corpus.restore(&storage.Snapshot{}, e.newVectorStore())
		return nil
	case errors.Is(err, storage.ErrStorageClosed):
		return err
	case err != nil:
		e.logger.Warn("could not load saved index, starting empty", "err", err)
		e.corpus.restore(&storage.Snapshot{}, e.newVectorStore())
		return nil
	}

	if e.embedder == nil {
		e.corpus.restore(snap, vector.NewNullWithRows(len(snap.Texts)))
		e.logger.Info("loaded index", "entries", len(snap.Texts), "vectors", false)
		return nil
	}

	flat := vector.NewFlat(0)
	restored := snap.Vectors != nil && len(snap.Vectors) == len(snap.Texts)
	if restored {
		if err := flat.Restore(snap.Dimension, snap.Vectors); err != nil {
			e.logger.Warn("saved vectors unusable", "err", err)
			restored = false
		}
	}
	e.corpus.restore(snap, flat)
	e.cache.Purge()

	if !restored {
		e.logger.Warn("saved vectors do not match metadata, re-embedding",
			"entries", len(snap.Texts), "vectors", len(snap.Vectors))
		if err := e.reindexLocked(ctx); err != nil {
			return err
		}
		if e.autoSave {
			if err := e.saveLocked(ctx); err != nil {
				return err
			}
		}
	}
	e.logger.Info("loaded index", "entries", len(snap.Texts), "tombstones", len(snap.Tombstones))
	return nil
}
