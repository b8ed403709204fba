package profiledb

import (
	"slices"

	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/index/keyword"
	"github.com/poiesic/profiledb/index/vector"
	"github.com/poiesic/profiledb/search"
	"github.com/poiesic/profiledb/storage"
)

// corpus holds the parallel per-entry state. Entry id i addresses texts[i],
// meta[i], vector row i and keyword document i. Callers synchronize access.
type corpus struct {
	texts      []string
	meta       []core.EntryMeta
	tombstones map[int]struct{}
	vectors    vector.Store
	keywords   *keyword.Index
}

var _ search.Corpus = (*corpus)(nil)

func newCorpus(vectors vector.Store) *corpus {
	return &corpus{
		tombstones: make(map[int]struct{}),
		vectors:    vectors,
		keywords:   keyword.New(),
	}
}

func (c *corpus) Len() int { return len(c.texts) }

func (c *corpus) LiveCount() int { return len(c.texts) - len(c.tombstones) }

func (c *corpus) Vectors() vector.Store { return c.vectors }

func (c *corpus) Keywords() *keyword.Index { return c.keywords }

func (c *corpus) live(id int) bool {
	if id < 0 || id >= len(c.texts) {
		return false
	}
	_, dead := c.tombstones[id]
	return !dead
}

func (c *corpus) Entry(id int) (core.EntryMeta, string, bool) {
	if !c.live(id) {
		return core.EntryMeta{}, "", false
	}
	return c.meta[id], c.texts[id], true
}

// liveIDs returns the ids of live entries, ascending.
func (c *corpus) liveIDs() []int {
	ids := make([]int, 0, c.LiveCount())
	for id := range c.texts {
		if c.live(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// profileIDs returns the live entry ids of one profile, ascending.
func (c *corpus) profileIDs(name string) []int {
	var ids []int
	for id, m := range c.meta {
		if m.ProfileName == name && c.live(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// tombstone marks ids deleted and drops them from keyword scoring.
func (c *corpus) tombstone(ids []int) {
	for _, id := range ids {
		c.tombstones[id] = struct{}{}
		c.keywords.Delete(id)
	}
}

// tombstoneRatio is the share of entry slots that are tombstoned.
func (c *corpus) tombstoneRatio() float64 {
	if len(c.texts) == 0 {
		return 0
	}
	return float64(len(c.tombstones)) / float64(len(c.texts))
}

// append adds entries whose vectors were already added to c.vectors.
func (c *corpus) append(texts []string, meta []core.EntryMeta) []int {
	ids := make([]int, len(texts))
	for i, text := range texts {
		id := len(c.texts)
		_ = c.keywords.Add(id, text) // id is always the next slot
		c.texts = append(c.texts, text)
		c.meta = append(c.meta, meta[i])
		ids[i] = id
	}
	return ids
}

// compact keeps only survivors (ascending), renumbered 0..len-1.
func (c *corpus) compact(survivors []int) {
	texts := make([]string, len(survivors))
	meta := make([]core.EntryMeta, len(survivors))
	for i, id := range survivors {
		texts[i] = c.texts[id]
		meta[i] = c.meta[id]
	}
	c.vectors.Compact(survivors)
	c.texts = texts
	c.meta = meta
	c.tombstones = make(map[int]struct{})
	c.keywords.Rebuild(texts)
}

// restore replaces the whole state from a snapshot. vectors must already
// hold one row per text.
func (c *corpus) restore(snap *storage.Snapshot, vectors vector.Store) {
	c.texts = snap.Texts
	c.meta = snap.Meta
	c.vectors = vectors
	c.tombstones = make(map[int]struct{}, len(snap.Tombstones))
	c.keywords.Rebuild(snap.Texts)
	c.tombstone(snap.Tombstones)
}

// snapshot captures the state for persistence. Slices are shared, so the
// snapshot must be written before the corpus changes again.
func (c *corpus) snapshot() *storage.Snapshot {
	tombstones := make([]int, 0, len(c.tombstones))
	for id := range c.tombstones {
		tombstones = append(tombstones, id)
	}
	slices.Sort(tombstones)

	snap := &storage.Snapshot{
		Texts:      c.texts,
		Meta:       c.meta,
		Tombstones: tombstones,
	}
	if c.vectors.Available() {
		snap.Dimension = c.vectors.Dimension()
		snap.Vectors = c.vectors.Vectors()
		if snap.Vectors == nil {
			snap.Vectors = [][]float32{}
		}
	}
	return snap
}
