package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	entryPrefix         = "entry:"
	snapshotMetadataKey = "snapshot:metadata"
	snapshotVectorsKey  = "snapshot:vectors"
)

// makeEntryKey generates a key for an entry payload by ID.
// Format: prefix + 8 byte BigEndian id, so iteration follows id order.
func makeEntryKey(id int) []byte {
	buf := make([]byte, len(entryPrefix)+8)
	offset := copy(buf, entryPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// parseEntryKey extracts the id from an entry key.
func parseEntryKey(key []byte) (int, bool) {
	if len(key) != len(entryPrefix)+8 || string(key[:len(entryPrefix)]) != entryPrefix {
		return 0, false
	}
	return int(binary.BigEndian.Uint64(key[len(entryPrefix):])), true
}
