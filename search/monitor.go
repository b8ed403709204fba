package search

import "github.com/poiesic/profiledb/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(req Request)
	AfterExpansion(expanded string)
	AfterSemanticSearch(ids []int)
	AfterKeywordSearch(ids []int)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Request)               {}
func (n *noopMonitor) AfterExpansion(_ string)       {}
func (n *noopMonitor) AfterSemanticSearch(_ []int)   {}
func (n *noopMonitor) AfterKeywordSearch(_ []int)    {}
func (n *noopMonitor) Finish(_ []*core.SearchResult) {}
