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
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/profiledb/core"
)

// MarshalVectors encodes rows of width dim as
// varint(dim) varint(rows) float32... uint64(checksum).
func MarshalVectors(dim int, rows [][]float32) []byte {
	size := varint.Int.Size(dim) + varint.Int.Size(len(rows)) + len(rows)*dim*4 + 8
	buf := make([]byte, size)

	n := varint.Int.Marshal(dim, buf)
	n += varint.Int.Marshal(len(rows), buf[n:])
	for _, row := range rows {
		for _, v := range row {
			n += raw.Float32.Marshal(v, buf[n:])
		}
	}
	raw.Uint64.Marshal(core.Checksum(buf[:n]), buf[n:])
	return buf
}

// UnmarshalVectors decodes data produced by MarshalVectors.
func UnmarshalVectors(data []byte) (int, [][]float32, error) {
	dim, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: dimension: %w", ErrTruncatedData, err)
	}
	count, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: row count: %w", ErrTruncatedData, err)
	}
	n += m

	if dim < 0 || count < 0 || (count > 0 && dim == 0) {
		return 0, nil, fmt.Errorf("%w: bad header dim=%d rows=%d", ErrSerializationFailed, dim, count)
	}
	body := len(data) - n - 8
	if body < 0 || (count > 0 && dim > body/4/count) || count*dim*4 != body {
		return 0, nil, fmt.Errorf("%w: want %d rows of %d floats", ErrTruncatedData, count, dim)
	}

	rows := make([][]float32, count)
	for i := range rows {
		row := make([]float32, dim)
		for j := range row {
			row[j], m, err = raw.Float32.Unmarshal(data[n:])
			if err != nil {
				return 0, nil, fmt.Errorf("%w: %w", ErrTruncatedData, err)
			}
			n += m
		}
		rows[i] = row
	}

	sum, _, err := raw.Uint64.Unmarshal(data[n:])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: checksum: %w", ErrTruncatedData, err)
	}
	if sum != core.Checksum(data[:n]) {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", ErrSerializationFailed)
	}
	return dim, rows, nil
}

// metadataDocument is the JSON layout of unified_metadata.json.
type metadataDocument struct {
	DataEntries []string         `json:"data_entries"`
	Metadata    []core.EntryMeta `json:"metadata"`
	Tombstones  []int            `json:"tombstones"`
}

// MarshalMetadata encodes the text, metadata and tombstone parts of snap.
func MarshalMetadata(snap *Snapshot) ([]byte, error) {
	if len(snap.Texts) != len(snap.Meta) {
		return nil, fmt.Errorf("%w: %d texts, %d metadata", ErrInconsistentSnapshot, len(snap.Texts), len(snap.Meta))
	}
	doc := metadataDocument{
		DataEntries: snap.Texts,
		Metadata:    snap.Meta,
		Tombstones:  slices.Sorted(slices.Values(snap.Tombstones)),
	}
	if doc.DataEntries == nil {
		doc.DataEntries = []string{}
	}
	if doc.Metadata == nil {
		doc.Metadata = []core.EntryMeta{}
	}
	if doc.Tombstones == nil {
		doc.Tombstones = []int{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// UnmarshalMetadata decodes a metadata document into a Snapshot without vectors.
func UnmarshalMetadata(data []byte) (*Snapshot, error) {
	var doc metadataDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if len(doc.DataEntries) != len(doc.Metadata) {
		return nil, fmt.Errorf("%w: %d texts, %d metadata", ErrInconsistentSnapshot, len(doc.DataEntries), len(doc.Metadata))
	}
	for i, meta := range doc.Metadata {
		if err := core.ValidateEntryMeta(meta); err != nil {
			return nil, fmt.Errorf("%w: metadata %d: %w", ErrInconsistentSnapshot, i, err)
		}
	}
	for _, id := range doc.Tombstones {
		if id < 0 || id >= len(doc.Metadata) {
			return nil, fmt.Errorf("%w: tombstone %d out of range", ErrInconsistentSnapshot, id)
		}
	}
	return &Snapshot{
		Texts:      doc.DataEntries,
		Meta:       doc.Metadata,
		Tombstones: doc.Tombstones,
	}, nil
}
