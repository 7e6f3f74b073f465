package backend

import (
	"context"

	"github.com/mwantia/shardstore/data"
)

// MetadataBackend stores per-key records in an ordered index.
// This is the "fast index" layer - optimized for single-key reads and
// ordered key scans, not for bulk payloads.
type MetadataBackend interface {
	Backend

	// GetMeta returns the record stored under key, or data.ErrNotExist.
	// A stored value that fails to decode returns data.ErrMalformedRecord.
	GetMeta(ctx context.Context, key string) (data.Record, error)

	// PutMeta stores the record under key. The write is durable before
	// PutMeta returns: a successful put survives a crash.
	PutMeta(ctx context.Context, key string, rec data.Record) error

	// DeleteMeta removes the record stored under key.
	DeleteMeta(ctx context.Context, key string) error

	// EstimateSize returns the approximate on-disk byte size of all records
	// whose keys fall in [start, end). An empty start/end covers the whole
	// key space.
	EstimateSize(ctx context.Context, start, end string) (int64, error)

	// Keys opens a lazy, ordered iterator over all logical keys. The
	// iterator is finite per snapshot; callers re-issue Keys for a fresh
	// snapshot.
	Keys(ctx context.Context) (KeyIterator, error)
}

// KeyIterator walks an ordered snapshot of logical keys.
//
//	it, _ := meta.Keys(ctx)
//	defer it.Release()
//	for it.Next() {
//		_ = it.Key()
//	}
//	err := it.Err()
type KeyIterator interface {
	// Next advances the iterator and reports whether a key is available.
	Next() bool
	// Key returns the current key. Only valid after a true Next.
	Key() string
	// Err returns the first error hit during iteration, if any.
	Err() error
	// Release frees the underlying snapshot. Safe to call more than once.
	Release()
}
