package search

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/poiesic/profiledb/ai"
	"github.com/poiesic/profiledb/core"
	"github.com/poiesic/profiledb/index/keyword"
	"github.com/poiesic/profiledb/index/vector"
)

// Defaults applied to requests.
const (
	DefaultTopK     = 5
	DefaultMinScore = 0.1
)

// Hybrid combination weights and per-path threshold factors.
const (
	semanticWeight    = 0.7
	keywordWeight     = 0.3
	semanticMinFactor = 0.7
	keywordMinFactor  = 0.5
	semanticOverfetch = 3
	hybridOverfetch   = 2
)

// Corpus is the read-only view of the indexed entries a Searcher runs on.
// Callers hold whatever lock protects it for the duration of a search.
type Corpus interface {
	// LiveCount is the number of entries that are not tombstoned.
	LiveCount() int
	// Entry returns the metadata and text of a live entry.
	Entry(id int) (core.EntryMeta, string, bool)
	Vectors() vector.Store
	Keywords() *keyword.Index
}

// Request describes one search.
type Request struct {
	Query       string
	ProfileName string          // empty matches every profile
	Categories  []core.Category // empty matches every category
	TopK        int
	MinScore    float64
	Mode        core.SearchMode
}

// Searcher runs semantic, keyword and hybrid searches over a Corpus.
type Searcher struct {
	corpus    Corpus
	embedder  ai.Embedder
	suggester ai.TermSuggester
	expander  *Expander
	cache     *QueryCache
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithEmbedder sets the query embedder. Without one, semantic search
// returns nothing.
func WithEmbedder(embedder ai.Embedder) Option {
	return func(s *Searcher) error {
		s.embedder = embedder
		return nil
	}
}

// WithTermSuggester adds model-suggested terms after static expansion.
func WithTermSuggester(suggester ai.TermSuggester) Option {
	return func(s *Searcher) error {
		s.suggester = suggester
		return nil
	}
}

// WithQueryCache replaces the default query embedding cache.
func WithQueryCache(cache *QueryCache) Option {
	return func(s *Searcher) error {
		s.cache = cache
		return nil
	}
}

// NewSearcher creates a new searcher over corpus.
func NewSearcher(corpus Corpus, opts ...Option) (*Searcher, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}
	s := &Searcher{
		corpus:   corpus,
		expander: NewExpander(),
		logger:   slog.Default().With("component", "searcher"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.cache == nil {
		cache, err := NewQueryCache(DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		s.cache = cache
	}
	return s, nil
}

// Cache returns the query embedding cache.
func (s *Searcher) Cache() *QueryCache {
	return s.cache
}

// Search runs req and returns up to req.TopK results, best first.
func (s *Searcher) Search(ctx context.Context, req Request) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor is Search with stage callbacks.
func (s *Searcher) SearchWithMonitor(ctx context.Context, req Request, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if s.corpus.LiveCount() == 0 {
		return s.Run(&Query{Request: req}, monitor)
	}
	vectors := s.corpus.Vectors()
	q, err := s.prepare(ctx, req, vectors.Available() && vectors.Len() > 0)
	if err != nil {
		return nil, err
	}
	return s.Run(q, monitor)
}

// Query is a request with its expansion and query embedding resolved.
type Query struct {
	Request
	Expanded string
	// Embedding is nil for keyword searches and when there is no embedder.
	Embedding []float32
}

// Prepare expands req and embeds the expanded query. It calls the term
// suggester and the embedder but never reads the corpus, so callers can run
// it outside their corpus lock.
func (s *Searcher) Prepare(ctx context.Context, req Request) (*Query, error) {
	return s.prepare(ctx, req, true)
}

func (s *Searcher) prepare(ctx context.Context, req Request, embed bool) (*Query, error) {
	req = normalize(req)
	q := &Query{Request: req, Expanded: s.expand(ctx, req.Query)}
	if !embed || req.Mode == core.SearchModeKeyword || s.embedder == nil {
		return q, nil
	}
	embedding, err := s.cache.Embed(ctx, q.Expanded, s.embedder.EmbedText)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}
	q.Embedding = embedding
	return q, nil
}

// Run scores a prepared query against the corpus. An empty corpus yields an
// empty list whether or not q was prepared.
func (s *Searcher) Run(q *Query, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	req := normalize(q.Request)
	monitor.Start(req)

	if s.corpus.LiveCount() == 0 {
		monitor.Finish(nil)
		return []*core.SearchResult{}, nil
	}
	monitor.AfterExpansion(q.Expanded)

	var (
		results []*core.SearchResult
		err     error
	)
	switch req.Mode {
	case core.SearchModeSemantic:
		results, err = s.semantic(q, req, req.TopK, req.MinScore)
		monitor.AfterSemanticSearch(resultIDs(results))
	case core.SearchModeKeyword:
		results = s.keyword(q.Expanded, req, req.TopK, req.MinScore)
		monitor.AfterKeywordSearch(resultIDs(results))
	default:
		results, err = s.hybrid(q, req, monitor)
	}
	if err != nil {
		return nil, err
	}

	monitor.Finish(results)
	s.logger.Debug("search finished", "query", req.Query, "mode", req.Mode, "results", len(results))
	return results, nil
}

func normalize(req Request) Request {
	if req.TopK <= 0 {
		req.TopK = DefaultTopK
	}
	req.Mode = req.Mode.Normalize()
	return req
}

// expand applies static expansion and, when configured, model suggestions.
// Suggester failures only cost the extra terms.
func (s *Searcher) expand(ctx context.Context, query string) string {
	terms := s.expander.Terms(query)
	if s.suggester != nil {
		extra, err := s.suggester.SuggestTerms(ctx, query)
		if err != nil {
			s.logger.Warn("term suggestion failed", "query", query, "err", err)
		} else {
			terms = Merge(query, terms, extra)
		}
	}
	return Join(query, terms)
}

// keep builds the candidate predicate: live, and matching the filters.
func (s *Searcher) keep(req Request) func(id int) bool {
	return func(id int) bool {
		meta, _, ok := s.corpus.Entry(id)
		if !ok {
			return false
		}
		if req.ProfileName != "" && meta.ProfileName != req.ProfileName {
			return false
		}
		if len(req.Categories) > 0 && !slices.Contains(req.Categories, meta.Category) {
			return false
		}
		return true
	}
}

func (s *Searcher) semantic(q *Query, req Request, k int, minScore float64) ([]*core.SearchResult, error) {
	vectors := s.corpus.Vectors()
	if q.Embedding == nil || !vectors.Available() || vectors.Len() == 0 {
		return nil, nil
	}

	matches, err := vectors.Search(q.Embedding, k*semanticOverfetch, s.keep(req))
	if err != nil {
		return nil, err
	}

	results := make([]*core.SearchResult, 0, len(matches))
	for _, m := range matches {
		if m.Score < minScore {
			continue
		}
		meta, text, _ := s.corpus.Entry(m.ID)
		weight := CategoryWeight(meta.Category)
		bonus := KeywordBonus(text)
		score := m.Score * weight * BonusFactor(bonus)
		results = append(results, &core.SearchResult{
			ID:            m.ID,
			Meta:          meta,
			Text:          text,
			Score:         score,
			SemanticScore: score,
			OriginalScore: m.Score,
			TypeWeight:    weight,
			KeywordBonus:  bonus,
			SearchMethod:  core.MethodSemantic,
		})
	}
	sortResults(results)
	return truncate(results, k), nil
}

func (s *Searcher) keyword(expanded string, req Request, k int, minScore float64) []*core.SearchResult {
	matches := s.corpus.Keywords().Search(expanded, k, minScore, s.keep(req))
	results := make([]*core.SearchResult, 0, len(matches))
	for _, m := range matches {
		meta, text, _ := s.corpus.Entry(m.ID)
		results = append(results, &core.SearchResult{
			ID:           m.ID,
			Meta:         meta,
			Text:         text,
			Score:        m.Score,
			KeywordScore: m.Score,
			SearchMethod: core.MethodKeyword,
		})
	}
	return results
}

func (s *Searcher) hybrid(q *Query, req Request, monitor SearchMonitor) ([]*core.SearchResult, error) {
	k := req.TopK * hybridOverfetch

	semantic, err := s.semantic(q, req, k, req.MinScore*semanticMinFactor)
	if err != nil {
		return nil, err
	}
	monitor.AfterSemanticSearch(resultIDs(semantic))

	keyword := s.keyword(q.Expanded, req, k, req.MinScore*keywordMinFactor)
	monitor.AfterKeywordSearch(resultIDs(keyword))

	merged := make(map[int]*core.SearchResult, len(semantic)+len(keyword))
	for _, r := range semantic {
		merged[r.ID] = r
	}
	for _, r := range keyword {
		if existing, ok := merged[r.ID]; ok {
			existing.KeywordScore = r.KeywordScore
			continue
		}
		merged[r.ID] = r
	}

	results := make([]*core.SearchResult, 0, len(merged))
	for _, r := range merged {
		r.Score = semanticWeight*r.SemanticScore + keywordWeight*r.KeywordScore
		r.SearchMethod = core.MethodHybrid
		if r.Score < req.MinScore {
			continue
		}
		results = append(results, r)
	}
	sortResults(results)
	return truncate(results, req.TopK), nil
}

// sortResults orders by score descending, then id ascending.
func sortResults(results []*core.SearchResult) {
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func truncate(results []*core.SearchResult, k int) []*core.SearchResult {
	if len(results) > k {
		return results[:k]
	}
	return results
}

func resultIDs(results []*core.SearchResult) []int {
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}
