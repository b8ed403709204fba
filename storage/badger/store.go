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

package badger

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/profiledb/storage"
)

// Store implements storage.Store on BadgerDB.
type Store struct {
	backend *Backend
}

var _ storage.Store = (*Store)(nil)

// NewStore opens (or creates) a BadgerDB store in dir.
func NewStore(dir string) (storage.Store, error) {
	backend, err := OpenBackend(dir, false)
	if err != nil {
		return nil, err
	}
	return newStore(backend), nil
}

// newStore wraps an already opened backend. Closing the store closes the
// backend.
func newStore(backend *Backend) *Store {
	return &Store{backend: backend}
}

func (s *Store) checkOpen() error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// PutEntry stores the payload for id.
func (s *Store) PutEntry(ctx context.Context, id int, data json.RawMessage) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.backend.WithTransaction(ctx, func(ctx context.Context, tx *badger.Txn) error {
		return tx.Set(makeEntryKey(id), data)
	})
}

// GetEntry retrieves the payload for id.
func (s *Store) GetEntry(ctx context.Context, id int) (json.RawMessage, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var data json.RawMessage
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEntryKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	}, false)
	return data, err
}

// DeleteEntries removes payloads. Missing ids are ignored.
func (s *Store) DeleteEntries(ctx context.Context, ids ...int) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return s.backend.WithTransaction(ctx, func(ctx context.Context, tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeEntryKey(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// CompactEntries renumbers payloads in a single transaction: survivors are
// read first, every entry key is deleted, then survivors are written back
// under their new ids.
func (s *Store) CompactEntries(ctx context.Context, survivors []int) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	newID := make(map[int]int, len(survivors))
	for i, id := range survivors {
		newID[id] = i
	}

	return s.backend.WithTransaction(ctx, func(ctx context.Context, tx *badger.Txn) error {
		type moved struct {
			id   int
			data []byte
		}
		var keep []moved
		var existing [][]byte

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			id, ok := parseEntryKey(item.Key())
			if !ok {
				continue
			}
			existing = append(existing, item.KeyCopy(nil))
			target, survives := newID[id]
			if !survives {
				continue
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				iter.Close()
				return err
			}
			keep = append(keep, moved{id: target, data: data})
		}
		iter.Close()

		for _, key := range existing {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		for _, m := range keep {
			if err := tx.Set(makeEntryKey(m.id), m.data); err != nil {
				return err
			}
		}
		s.backend.logger.Debug("compacted entry payloads", "kept", len(keep), "found", len(existing))
		return nil
	})
}

// SaveSnapshot writes the metadata document and vector blob in one transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snap *storage.Snapshot) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	meta, err := storage.MarshalMetadata(snap)
	if err != nil {
		return err
	}
	return s.backend.WithTransaction(ctx, func(ctx context.Context, tx *badger.Txn) error {
		if err := tx.Set([]byte(snapshotMetadataKey), meta); err != nil {
			return err
		}
		if snap.Vectors == nil {
			return tx.Delete([]byte(snapshotVectorsKey))
		}
		return tx.Set([]byte(snapshotVectorsKey), storage.MarshalVectors(snap.Dimension, snap.Vectors))
	})
}

// LoadSnapshot reads the snapshot. A corrupt vector blob is logged and
// treated as absent.
func (s *Store) LoadSnapshot(ctx context.Context) (*storage.Snapshot, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var snap *storage.Snapshot
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(snapshotMetadataKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		err = item.Value(func(val []byte) error {
			var unmarshalErr error
			snap, unmarshalErr = storage.UnmarshalMetadata(val)
			return unmarshalErr
		})
		if err != nil {
			return err
		}

		item, err = tx.Get([]byte(snapshotVectorsKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			dim, rows, err := storage.UnmarshalVectors(val)
			if err != nil {
				s.backend.logger.Warn("ignoring corrupt vector blob", "err", err)
				return nil
			}
			snap.Dimension = dim
			snap.Vectors = rows
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.backend.IsClosed() {
		return nil
	}
	return s.backend.Close()
}
