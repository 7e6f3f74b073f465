// Package leveldb provides the default embedded metadata tier.
//
// LevelDB matches the contract this store needs exactly: lexicographically
// ordered keys, point-in-time key iterators, approximate byte-range size
// accounting and a bounded open-file-descriptor cache. Reads skip the block
// cache (record reads are single-shot or full scans) and writes are
// force-synced, so a successful put survives a crash.
package leveldb

import (
	"context"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/mwantia/shardstore/backend"
)

// maxOpenFiles bounds the descriptor cache of the embedded store.
const maxOpenFiles = 1000

type LevelBackend struct {
	mu   sync.RWMutex
	path string
	db   *leveldb.DB

	readOpts  *opt.ReadOptions
	writeOpts *opt.WriteOptions
}

// NewLevelBackend creates a metadata backend persisted at path. The database
// is opened by Open, not here.
func NewLevelBackend(path string) *LevelBackend {
	return &LevelBackend{
		path:      path,
		readOpts:  &opt.ReadOptions{DontFillCache: true},
		writeOpts: &opt.WriteOptions{Sync: true},
	}
}

// Returns the identifier name defined for this backend
func (*LevelBackend) Name() string {
	return "leveldb"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (lb *LevelBackend) Open(ctx context.Context) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.db != nil {
		return nil
	}

	db, err := leveldb.OpenFile(lb.path, &opt.Options{
		OpenFilesCacheCapacity: maxOpenFiles,
	})
	if err != nil {
		return err
	}

	lb.db = db
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (lb *LevelBackend) Close(ctx context.Context) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.db == nil {
		return nil
	}

	err := lb.db.Close()
	lb.db = nil
	return err
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (lb *LevelBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityMetadata,
			backend.CapabilityDurable,
		},
	}
}
