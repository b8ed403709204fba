package profiledb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/index/vector"
)

// SyncProfile replaces every entry of profile name with the sections of p
// and returns the new entry ids. Embedding happens first; if it fails the
// previous entries stay untouched.
func (e *Engine) SyncProfile(ctx context.Context, name string, p *core.Profile) ([]int, error) {
	if err := core.ValidateProfileName(name); err != nil {
		return nil, err
	}
	if err := core.ValidateProfile(p); err != nil {
		return nil, err
	}

	sections := p.Sections()
	texts := make([]string, len(sections))
	payloads := make([]json.RawMessage, len(sections))
	for i, s := range sections {
		texts[i] = s.Section.Text()
		data, err := s.Payload()
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", s.Section.Category(), err)
		}
		payloads[i] = data
	}

	var vectors [][]float32
	if e.embedder != nil && len(texts) > 0 {
		var err error
		vectors, err = e.embedTexts(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding profile %q: %w", name, err)
		}
	} else {
		vectors = make([][]float32, len(texts))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkDimension(vectors); err != nil {
		return nil, err
	}

	now := e.now()
	meta := make([]core.EntryMeta, len(sections))
	for i, s := range sections {
		meta[i] = core.EntryMeta{
			Category:    s.Section.Category(),
			ProfileName: name,
			Timestamp:   now,
			Index:       s.Index,
		}
	}

	// New payloads go to slots past the end, so nothing the saved snapshot
	// references is touched until the whole batch is stored.
	base := e.corpus.Len()
	for i, data := range payloads {
		if err := e.store.PutEntry(ctx, base+i, data); err != nil {
			e.discardPayloads(ctx, base, i)
			return nil, fmt.Errorf("storing entry payload: %w", err)
		}
	}
	if _, err := e.corpus.vectors.Add(vectors...); err != nil {
		e.discardPayloads(ctx, base, len(payloads))
		return nil, err
	}

	old := e.corpus.profileIDs(name)
	compact := e.shouldCompact(len(old))
	ids := e.corpus.append(texts, meta)
	e.tombstoneLocked(ctx, name, old)

	saved := false
	if compact {
		if err := e.compactLocked(ctx); err != nil {
			// The corpus stays consistent uncompacted; the next removal retries.
			e.logger.Warn("compaction after sync failed", "profile", name, "err", err)
		} else {
			saved = true
		}
		if len(e.corpus.tombstones) == 0 {
			live := e.corpus.LiveCount()
			for i := range ids {
				ids[i] = live - len(ids) + i
			}
		}
	}

	e.logger.Info("synced profile", "profile", name, "entries", len(ids))
	if e.autoSave && !saved {
		if err := e.saveLocked(ctx); err != nil {
			return ids, err
		}
	}
	return ids, nil
}

// discardPayloads deletes the n payloads written from id base onwards.
func (e *Engine) discardPayloads(ctx context.Context, base, n int) {
	if n == 0 {
		return
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = base + i
	}
	if err := e.store.DeleteEntries(ctx, ids...); err != nil {
		e.logger.Warn("could not delete unused entry payloads", "from", base, "count", n, "err", err)
	}
}

// checkDimension rejects vectors that do not fit the existing index before
// anything is mutated.
func (e *Engine) checkDimension(vectors [][]float32) error {
	vs := e.corpus.vectors
	if !vs.Available() || vs.Dimension() == 0 || len(vectors) == 0 {
		return nil
	}
	if got := len(vectors[0]); got != vs.Dimension() {
		return fmt.Errorf("%w: embedder returned %d, index has %d", vector.ErrDimensionMismatch, got, vs.Dimension())
	}
	return nil
}

// RemoveProfile tombstones every entry of profile name and returns how many
// were removed.
func (e *Engine) RemoveProfile(ctx context.Context, name string) (int, error) {
	if err := core.ValidateProfileName(name); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ids := e.corpus.profileIDs(name)
	if len(ids) == 0 {
		return 0, nil
	}
	compact := e.shouldCompact(len(ids))
	e.tombstoneLocked(ctx, name, ids)
	e.logger.Info("removed profile", "profile", name, "entries", len(ids))
	if compact {
		if err := e.compactLocked(ctx); err != nil {
			return len(ids), err
		}
		return len(ids), nil
	}
	if e.autoSave {
		if err := e.saveLocked(ctx); err != nil {
			return len(ids), err
		}
	}
	return len(ids), nil
}

// shouldCompact reports whether tombstoning n more entries brings the
// tombstone ratio to the compaction threshold.
func (e *Engine) shouldCompact(n int) bool {
	total := e.corpus.Len()
	if n == 0 || total == 0 {
		return false
	}
	ratio := float64(len(e.corpus.tombstones)+n) / float64(total)
	return ratio >= e.compactionThreshold
}

// tombstoneLocked marks ids deleted and drops their payloads.
func (e *Engine) tombstoneLocked(ctx context.Context, name string, ids []int) {
	if len(ids) == 0 {
		return
	}
	e.corpus.tombstone(ids)
	if err := e.store.DeleteEntries(ctx, ids...); err != nil {
		e.logger.Warn("could not delete entry payloads", "profile", name, "err", err)
	}
}

// Compact physically drops tombstoned entries and renumbers the survivors.
// Vectors are kept; nothing is re-embedded.
func (e *Engine) Compact(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.corpus.tombstones) == 0 {
		return nil
	}
	return e.compactLocked(ctx)
}

// compactLocked renumbers payloads and the corpus, then saves the snapshot
// regardless of auto-save: the payloads on disk already use the new ids.
func (e *Engine) compactLocked(ctx context.Context) error {
	dropped := len(e.corpus.tombstones)
	if dropped == 0 {
		return nil
	}
	survivors := e.corpus.liveIDs()
	if err := e.store.CompactEntries(ctx, survivors); err != nil {
		return fmt.Errorf("compacting entry payloads: %w", err)
	}
	e.corpus.compact(survivors)
	e.logger.Info("compacted index", "dropped", dropped, "entries", len(survivors))
	return e.saveLocked(ctx)
}

// Reindex re-embeds every entry with the configured embedder, e.g. after
// the embedding model changed. The index is swapped only on success.
func (e *Engine) Reindex(ctx context.Context) error {
	if e.embedder == nil {
		return ErrEmbedderRequired
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.reindexLocked(ctx); err != nil {
		return err
	}
	if e.autoSave {
		return e.saveLocked(ctx)
	}
	return nil
}

func (e *Engine) reindexLocked(ctx context.Context) error {
	vectors, err := e.embedTexts(ctx, e.corpus.texts)
	if err != nil {
		return fmt.Errorf("re-embedding %d entries: %w", len(e.corpus.texts), err)
	}
	flat := vector.NewFlat(0)
	if len(vectors) > 0 {
		if err := flat.Restore(len(vectors[0]), vectors); err != nil {
			return err
		}
	}
	e.corpus.vectors = flat
	e.cache.Purge()
	e.logger.Info("reindexed", "entries", len(vectors))
	return nil
}
