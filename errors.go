package profiledb

import "errors"

var (
	// ErrEntryNotFound is returned for unknown or removed entry ids.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrProfileNotFound is returned when no live entry belongs to a profile.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrEmbedderRequired is returned by operations that need an embedder
	// on an engine opened without one.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrUnknownEntryBackend is returned for an entry store backend other
	// than "file" or "badger".
	ErrUnknownEntryBackend = errors.New("unknown entry store backend")
)
