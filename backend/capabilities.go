package backend

import "slices"

// BackendCapability represents a capability that a backend can provide

type BackendCapability string

const (
	// Core capabilities by backend
	CapabilityMetadata     BackendCapability = "metadata"
	CapabilityShardStorage BackendCapability = "shard_storage"

	// Extension capabilities per tier
	CapabilityDurable   BackendCapability = "durable"
	CapabilityStreaming BackendCapability = "streaming"
	CapabilityRemote    BackendCapability = "remote"
)

// BackendCapabilities describes what a backend supports
type BackendCapabilities struct {
	Capabilities []BackendCapability `json:"capabilities"`

	// MaxShardSize caps the bytes accepted through a write handle; zero
	// means unlimited. Enforced by the store facade on materialization.
	MaxShardSize int64 `json:"max_shard_size"`
}

// Contains checks if a capability is supported
func (bc *BackendCapabilities) Contains(cap BackendCapability) bool {
	return slices.Contains(bc.Capabilities, cap)
}
