package local

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mwantia/shardstore/backend"
	"github.com/mwantia/shardstore/data"
)

// LocalBackend stores shards as a flat directory of digest-named files.
type LocalBackend struct {
	mu   sync.RWMutex
	path string
}

func NewLocalBackend(path string) *LocalBackend {
	return &LocalBackend{
		path: filepath.Clean(path),
	}
}

// Returns the identifier name defined for this backend
func (*LocalBackend) Name() string {
	return "local"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
// The data directory is created if absent; opening over an existing
// directory must not fail.
func (lb *LocalBackend) Open(ctx context.Context) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if err := os.MkdirAll(lb.path, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return data.ErrPermission
		}
		return err
	}

	info, err := os.Stat(lb.path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return data.ErrInvalidRoot
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (lb *LocalBackend) Close(ctx context.Context) error {
	// The underlying filesystem persists independently
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (lb *LocalBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityShardStorage,
			backend.CapabilityStreaming,
		},
	}
}

// resolvePath joins the data directory with a shard filename. Filenames are
// hex digests, but Base guards against anything path-like slipping through.
func (lb *LocalBackend) resolvePath(fskey string) string {
	return filepath.Join(lb.path, filepath.Base(fskey))
}
