package profiledb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/storage"
)

var emptyPayload = json.RawMessage("{}")

// GetEntryWithData returns a live entry with its stored payload. A missing
// or unreadable payload is reported as an empty object.
func (e *Engine) GetEntryWithData(ctx context.Context, id int) (*core.EntryWithData, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	meta, text, ok := e.corpus.Entry(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	return &core.EntryWithData{
		ID:   id,
		Meta: meta,
		Text: text,
		Data: e.payload(ctx, id),
	}, nil
}

// payload reads an entry payload, falling back to {}.
func (e *Engine) payload(ctx context.Context, id int) json.RawMessage {
	data, err := e.store.GetEntry(ctx, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return emptyPayload
	case err != nil:
		e.logger.Warn("could not read entry payload", "id", id, "err", err)
		return emptyPayload
	case !json.Valid(data):
		e.logger.Warn("corrupt entry payload", "id", id)
		return emptyPayload
	}
	return data
}

// Stats summarizes the live entries.
func (e *Engine) Stats() core.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := core.Stats{
		TotalEntries:         e.corpus.LiveCount(),
		TypeCounts:           make(map[string]int),
		ProfileCounts:        make(map[string]int),
		IndexSize:            e.corpus.vectors.Len(),
		Tombstones:           len(e.corpus.tombstones),
		VectorStoreAvailable: e.corpus.vectors.Available(),
	}
	for _, id := range e.corpus.liveIDs() {
		m := e.corpus.meta[id]
		stats.TypeCounts[m.Category.String()]++
		stats.ProfileCounts[m.ProfileName]++
	}
	return stats
}

// ProfileNames lists the profiles with live entries, sorted.
func (e *Engine) ProfileNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, id := range e.corpus.liveIDs() {
		seen[e.corpus.meta[id].ProfileName] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ProfileSummary describes the live entries of one profile.
func (e *Engine) ProfileSummary(ctx context.Context, name string) (*core.ProfileSummary, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.corpus.profileIDs(name)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	summary := &core.ProfileSummary{
		ProfileName:  name,
		PersonalInfo: emptyPayload,
		TypeCounts:   make(map[string]int),
		TotalEntries: len(ids),
	}
	for _, id := range ids {
		m := e.corpus.meta[id]
		summary.TypeCounts[m.Category.String()]++
		if m.Timestamp.After(summary.LastUpdated) {
			summary.LastUpdated = m.Timestamp
		}
		if m.Category == core.CategoryPersonalInfo {
			summary.PersonalInfo = e.payload(ctx, id)
		}
	}
	return summary, nil
}
