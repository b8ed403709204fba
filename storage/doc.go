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

// Package storage provides the persistence abstraction layer for profiledb.
//
// Two concerns are covered:
//
//   - EntryStore: the full JSON payload of each entry, keyed by entry id
//   - SnapshotStore: texts, metadata, tombstones and embedding rows of the index
//
// Backends implement both through Store:
//
//   - storage/file: the directory layout unified_metadata.json,
//     unified_faiss_index.bin and entry_data/entry_{id}.json
//   - storage/badger: a BadgerDB keyspace holding the same documents
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.Store interface:
//
//	store, err := file.Open("/path/to/db") // returns storage.Store
//
// # Encoding
//
// The vector blob is a mus-go encoding of the row width, the row count, the
// float32 values in row order and a trailing BLAKE2b checksum. The metadata
// document is JSON so it stays readable and diffable.
//
// # Thread Safety
//
// Store implementations must be safe for concurrent use. The engine
// additionally serializes writers.
package storage
