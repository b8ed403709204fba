// Package reembed embeds corpus texts in batches with a configured embedder.
//
// Batches run concurrently on an ants worker pool. Each batch is retried with
// exponential backoff, checked for count and dimension consistency, and
// normalized to unit length. Run returns only after every batch finished, so
// callers see a synchronous, all-or-nothing operation.
//
// The engine uses it to rebuild the vector index after a model change and to
// recover when the persisted vectors no longer match the metadata.
package reembed
