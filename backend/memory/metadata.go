package memory

import (
	"context"

	"github.com/mwantia/shardstore/backend"
	"github.com/mwantia/shardstore/data"
)

func (mb *MemoryBackend) GetMeta(ctx context.Context, key string) (data.Record, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	raw, exists := mb.records.Get(key)
	if !exists {
		return nil, data.ErrNotExist
	}

	return data.DecodeRecord(raw)
}

func (mb *MemoryBackend) PutMeta(ctx context.Context, key string, rec data.Record) error {
	raw, err := data.EncodeRecord(rec)
	if err != nil {
		return err
	}

	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.records.Set(key, raw)
	return nil
}

func (mb *MemoryBackend) DeleteMeta(ctx context.Context, key string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	mb.records.Delete(key)
	return nil
}

func (mb *MemoryBackend) EstimateSize(ctx context.Context, start, end string) (int64, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	var total int64
	mb.records.Ascend(start, func(key string, raw []byte) bool {
		if end != "" && key >= end {
			return false
		}

		total += int64(len(key) + len(raw))
		return true
	})

	return total, nil
}

func (mb *MemoryBackend) Keys(ctx context.Context) (backend.KeyIterator, error) {
	mb.mu.RLock()
	defer mb.mu.RUnlock()

	// Copy is O(1); the iterator walks a snapshot unaffected by later writes
	return &memoryKeyIterator{snapshot: mb.records.Copy().Keys()}, nil
}

type memoryKeyIterator struct {
	snapshot []string
	pos      int
	key      string
}

func (ki *memoryKeyIterator) Next() bool {
	if ki.pos >= len(ki.snapshot) {
		return false
	}

	ki.key = ki.snapshot[ki.pos]
	ki.pos++
	return true
}

func (ki *memoryKeyIterator) Key() string {
	return ki.key
}

func (ki *memoryKeyIterator) Err() error {
	return nil
}

func (ki *memoryKeyIterator) Release() {
	ki.snapshot = nil
}
