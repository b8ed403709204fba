package ingestion

import "errors"

var (
	// ErrSyncerRequired is returned when a syncer is not provided.
	ErrSyncerRequired = errors.New("syncer required")

	// ErrEmptyDocument is returned for a document with neither data nor a source path.
	ErrEmptyDocument = errors.New("document has no data")
)
