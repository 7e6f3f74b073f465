package leveldb

import (
	"context"
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/mwantia/shardstore/backend"
	"github.com/mwantia/shardstore/data"
)

func (lb *LevelBackend) GetMeta(ctx context.Context, key string) (data.Record, error) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	if lb.db == nil {
		return nil, data.ErrClosed
	}

	raw, err := lb.db.Get([]byte(key), lb.readOpts)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, data.ErrNotExist
		}

		return nil, err
	}

	return data.DecodeRecord(raw)
}

func (lb *LevelBackend) PutMeta(ctx context.Context, key string, rec data.Record) error {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	if lb.db == nil {
		return data.ErrClosed
	}

	raw, err := data.EncodeRecord(rec)
	if err != nil {
		return err
	}

	// Sync write: the record is durable before PutMeta returns
	return lb.db.Put([]byte(key), raw, lb.writeOpts)
}

func (lb *LevelBackend) DeleteMeta(ctx context.Context, key string) error {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	if lb.db == nil {
		return data.ErrClosed
	}

	return lb.db.Delete([]byte(key), lb.writeOpts)
}

func (lb *LevelBackend) EstimateSize(ctx context.Context, start, end string) (int64, error) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	if lb.db == nil {
		return 0, data.ErrClosed
	}

	r := util.Range{}
	if start != "" {
		r.Start = []byte(start)
	}
	if end != "" {
		r.Limit = []byte(end)
	}

	sizes, err := lb.db.SizeOf([]util.Range{r})
	if err != nil {
		return 0, err
	}

	return sizes.Sum(), nil
}

func (lb *LevelBackend) Keys(ctx context.Context) (backend.KeyIterator, error) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	if lb.db == nil {
		return nil, data.ErrClosed
	}

	return &levelKeyIterator{
		it: lb.db.NewIterator(nil, lb.readOpts),
	}, nil
}

// levelKeyIterator adapts the native leveldb iterator to the backend
// contract without buffering the key set.
type levelKeyIterator struct {
	it  iterator.Iterator
	key string
}

func (ki *levelKeyIterator) Next() bool {
	if !ki.it.Next() {
		return false
	}

	// The iterator reuses its key buffer between calls
	ki.key = string(ki.it.Key())
	return true
}

func (ki *levelKeyIterator) Key() string {
	return ki.key
}

func (ki *levelKeyIterator) Err() error {
	return ki.it.Error()
}

func (ki *levelKeyIterator) Release() {
	ki.it.Release()
}
