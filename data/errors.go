package data

import "errors"

// Standard shardstore errors that backend implementations should use.
var (
	// Lookup errors
	ErrNotExist        = errors.New("shardstore: record does not exist")
	ErrMalformedRecord = errors.New("shardstore: stored record is malformed")

	// Lifecycle errors
	ErrClosed      = errors.New("shardstore: store is closed")
	ErrInvalidRoot = errors.New("shardstore: root path is not a directory")

	// Backend errors
	ErrBackendUnsupported = errors.New("shardstore: backend capability unsupported")
	ErrPermission         = errors.New("shardstore: permission denied")
	ErrShardTooLarge      = errors.New("shardstore: shard exceeds backend size limit")
)
