package backend

import (
	"context"
	"io"
)

// ShardBackend streams bulk shard payloads keyed by their derived filesystem
// name. It is a pure handle factory and performs no metadata bookkeeping.
type ShardBackend interface {
	Backend

	// OpenRead opens the shard named fskey for reading, or fails with
	// data.ErrNotExist when no such shard is stored.
	OpenRead(ctx context.Context, fskey string) (io.ReadCloser, error)

	// OpenWrite opens the shard named fskey for writing, creating it if
	// absent and truncating it if present.
	OpenWrite(ctx context.Context, fskey string) (io.WriteCloser, error)

	// Remove deletes the shard named fskey, or fails with data.ErrNotExist
	// when no such shard is stored.
	Remove(ctx context.Context, fskey string) error

	// StatSize returns the stored byte length of the shard named fskey.
	StatSize(ctx context.Context, fskey string) (int64, error)

	// TotalSize returns the aggregate byte length of all stored shards.
	TotalSize(ctx context.Context) (int64, error)
}
