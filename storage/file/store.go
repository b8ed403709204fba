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

// Package file implements storage.Store on a plain directory.
//
// Layout under the root directory:
//
//	unified_metadata.json       texts, metadata and tombstones
//	unified_faiss_index.bin     embedding rows (see storage.MarshalVectors)
//	entry_data/entry_{id}.json  one payload per entry
//
// Every file is written to a temporary sibling and renamed into place.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/poiesic/profiledb/storage"
)

const (
	MetadataFile = "unified_metadata.json"
	VectorFile   = "unified_faiss_index.bin"
	EntryDir     = "entry_data"
)

// Store is a directory-backed storage.Store.
type Store struct {
	root   string
	mu     sync.Mutex
	closed bool
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

// Open prepares root (creating it and its entry directory when missing).
func Open(root string) (storage.Store, error) {
	return open(root)
}

func open(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("file store: root path is required")
	}
	if err := os.MkdirAll(filepath.Join(root, EntryDir), 0o755); err != nil {
		return nil, fmt.Errorf("file store: %w", err)
	}
	return &Store{
		root:   root,
		logger: slog.Default().With("component", "file-store"),
	}, nil
}

func (s *Store) entryPath(id int) string {
	return filepath.Join(s.root, EntryDir, "entry_"+strconv.Itoa(id)+".json")
}

func (s *Store) PutEntry(ctx context.Context, id int, data json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}
	return writeFileAtomic(s.entryPath(id), data)
}

func (s *Store) GetEntry(ctx context.Context, id int) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}
	data, err := os.ReadFile(s.entryPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Store) DeleteEntries(ctx context.Context, ids ...int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}
	for _, id := range ids {
		if err := os.Remove(s.entryPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// CompactEntries removes payloads that are not listed, then renames the
// survivors in ascending order. A survivor's new id never exceeds its old
// one, so every rename target has already been vacated.
func (s *Store) CompactEntries(ctx context.Context, survivors []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}

	keep := make(map[int]bool, len(survivors))
	for _, id := range survivors {
		keep[id] = true
	}
	existing, err := s.entryIDs()
	if err != nil {
		return err
	}
	for _, id := range existing {
		if keep[id] {
			continue
		}
		if err := os.Remove(s.entryPath(id)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	// Survivors ascend, so every rename target is free by the time it is used.
	var moved [][2]int
	for newID, oldID := range survivors {
		if newID == oldID {
			continue
		}
		if err := ctx.Err(); err != nil {
			s.undoRenames(moved)
			return err
		}
		err := os.Rename(s.entryPath(oldID), s.entryPath(newID))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			s.undoRenames(moved)
			return fmt.Errorf("file store: renumber entry %d to %d: %w", oldID, newID, err)
		}
		moved = append(moved, [2]int{oldID, newID})
	}
	s.logger.Debug("compacted entry payloads", "kept", len(survivors), "found", len(existing))
	return nil
}

// undoRenames moves renumbered payloads back, newest first.
func (s *Store) undoRenames(moved [][2]int) {
	for i := len(moved) - 1; i >= 0; i-- {
		oldID, newID := moved[i][0], moved[i][1]
		if err := os.Rename(s.entryPath(newID), s.entryPath(oldID)); err != nil {
			s.logger.Error("could not restore entry payload", "id", oldID, "err", err)
		}
	}
}

// entryIDs lists the ids of payload files present on disk.
func (s *Store) entryIDs() ([]int, error) {
	dirEntries, err := os.ReadDir(filepath.Join(s.root, EntryDir))
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, "entry_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "entry_"), ".json"))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snap *storage.Snapshot) error {
	meta, err := storage.MarshalMetadata(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrStorageClosed
	}

	// The metadata document is written last; a crash in between leaves a
	// stale blob that fails the row count check and gets re-embedded.
	vecPath := filepath.Join(s.root, VectorFile)
	if snap.Vectors != nil {
		if err := writeFileAtomic(vecPath, storage.MarshalVectors(snap.Dimension, snap.Vectors)); err != nil {
			return err
		}
	} else if err := os.Remove(vecPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return writeFileAtomic(filepath.Join(s.root, MetadataFile), meta)
}

func (s *Store) LoadSnapshot(ctx context.Context) (*storage.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, storage.ErrStorageClosed
	}

	data, err := os.ReadFile(filepath.Join(s.root, MetadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	snap, err := storage.UnmarshalMetadata(data)
	if err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(filepath.Join(s.root, VectorFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return snap, nil
	case err != nil:
		s.logger.Warn("could not read vector blob", "err", err)
		return snap, nil
	}
	dim, rows, err := storage.UnmarshalVectors(blob)
	if err != nil {
		s.logger.Warn("ignoring corrupt vector blob", "err", err)
		return snap, nil
	}
	snap.Dimension = dim
	snap.Vectors = rows
	return snap, nil
}

// Close marks the store closed. Later calls fail with storage.ErrStorageClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
