package shardstore

import (
	"github.com/mwantia/shardstore/backend"
	"github.com/mwantia/shardstore/log"
)

type StoreOptions struct {
	Metadata  backend.MetadataBackend
	Shards    backend.ShardBackend
	Logger    *log.Logger
	DigestKey []byte
}

type StoreOption func(*StoreOptions) error

func newDefaultStoreOptions() *StoreOptions {
	return &StoreOptions{}
}

// WithMetadata replaces the default embedded LevelDB metadata tier.
func WithMetadata(meta backend.MetadataBackend) StoreOption {
	return func(so *StoreOptions) error {
		so.Metadata = meta
		return nil
	}
}

// WithShards replaces the default local-directory shard tier.
func WithShards(shards backend.ShardBackend) StoreOption {
	return func(so *StoreOptions) error {
		so.Shards = shards
		return nil
	}
}

// WithLogger replaces the default warn-level terminal logger.
func WithLogger(logger *log.Logger) StoreOption {
	return func(so *StoreOptions) error {
		so.Logger = logger
		return nil
	}
}

// WithDigestKey namespaces derived shard filenames. Stores with different
// digest keys derive different filenames for the same logical keys.
func WithDigestKey(key []byte) StoreOption {
	return func(so *StoreOptions) error {
		so.DigestKey = key
		return nil
	}
}
