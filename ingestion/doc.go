// Package ingestion loads candidate profiles from JSON files into an index.
//
// The Pipeline reads and decodes files concurrently using a worker pool,
// then applies every valid profile to a Syncer one at a time, in input order.
// A file that cannot be read, decoded or validated is reported in its Result
// and does not stop the others.
package ingestion
