package docpack

// packStorage represents the key-value backend a pack is written to (Bolt on
// disk, or in-memory for tests).
type packStorage interface {
	// Update runs f inside a writable transaction. Mutations made by f become
	// visible atomically when Update returns nil, and not at all otherwise.
	Update(f func(b packBucket) error) error

	// View runs f inside a read-only transaction.
	View(f func(b packBucket) error) error

	// Compact rewrites the storage over its full key range to reclaim space.
	// No-op when the storage holds no keys.
	Compact() error

	// Close releases the storage handle. Safe to call after a failed Compact.
	Close() error
}

// packBucket is the single sorted key-value collection holding pack entries.
type packBucket interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(key []byte) []byte

	// Put stores a key-value pair.
	Put(key, value []byte) error

	// Delete removes a key.
	Delete(key []byte) error

	// Cursor returns a cursor positioned before the first key.
	Cursor() packCursor
}

// packCursor iterates the bucket in ascending key order.
type packCursor interface {
	// First moves to the first key-value pair. Returns nil keys when empty.
	First() (key, value []byte)

	// Next moves to the next key-value pair. Returns nil keys when done.
	Next() (key, value []byte)
}
