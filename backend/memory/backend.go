// Package memory provides an ephemeral btree-backed metadata tier, mainly
// used by tests and short-lived tooling.
package memory

import (
	"context"
	"sync"

	"github.com/tidwall/btree"

	"github.com/mwantia/shardstore/backend"
)

type MemoryBackend struct {
	mu      sync.RWMutex
	records *btree.Map[string, []byte]

	// Lifecycle call counters, readable by tests
	Opened int
	Closed int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		records: btree.NewMap[string, []byte](0),
	}
}

// Returns the identifier name defined for this backend
func (*MemoryBackend) Name() string {
	return "memory"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
func (mb *MemoryBackend) Open(ctx context.Context) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.Opened++
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (mb *MemoryBackend) Close(ctx context.Context) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.Closed++
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (mb *MemoryBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityMetadata,
		},
	}
}
