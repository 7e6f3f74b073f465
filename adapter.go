package shardstore

import (
	"context"

	"github.com/mwantia/shardstore/backend"
	"github.com/mwantia/shardstore/data"
)

// Adapter is the capability set a shard storage adapter exposes. Argument
// validation, event emission and other shared orchestration belong to
// wrappers composed around an Adapter, not to its implementations.
type Adapter interface {
	// Get returns the record stored under key together with a shard handle:
	// read-mode when the shard file exists, write-mode when it was just
	// materialized and the caller must supply the payload.
	Get(ctx context.Context, key string) (data.Record, *data.Shard, error)

	// Peek returns the record stored under key without touching the shard
	// tier.
	Peek(ctx context.Context, key string) (data.Record, error)

	// Put durably stores the record under key. Metadata only; no shard file
	// is created.
	Put(ctx context.Context, key string, rec data.Record) error

	// Del removes the record and its shard file. A shard file that is
	// already gone does not fail the deletion.
	Del(ctx context.Context, key string) error

	// Flush is a no-op for stores whose puts are durable on return.
	Flush(ctx context.Context) error

	// Size reports the byte usage of both tiers: the shard file (or the
	// whole data directory when key is empty) and the approximate metadata
	// index size.
	Size(ctx context.Context, key string) (fileSize, metaSize int64, err error)

	// Keys opens a lazy, ordered iterator over all logical keys.
	Keys(ctx context.Context) (backend.KeyIterator, error)

	// Open and Close are idempotent lifecycle transitions.
	Open(ctx context.Context) error
	Close(ctx context.Context) error
}

var _ Adapter = (*Store)(nil)
