package shardstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/mwantia/shardstore/backend"
	"github.com/mwantia/shardstore/backend/leveldb"
	"github.com/mwantia/shardstore/backend/local"
	"github.com/mwantia/shardstore/data"
	"github.com/mwantia/shardstore/digest"
	"github.com/mwantia/shardstore/log"
)

// StoreState is the explicit lifecycle state of a Store.
type StoreState int

const (
	StateClosed StoreState = iota
	StateOpen
)

// Store composes a metadata tier and a shard tier into the Adapter
// capability set. It owns no persistent state of its own, only the
// open/closed lifecycle of the two backends.
type Store struct {
	mu    sync.Mutex
	state StoreState

	id       string
	root     string
	meta     backend.MetadataBackend
	shards   backend.ShardBackend
	maxShard int64
	digester *digest.Digester
	logger   *log.Logger
	creating *keyLock
}

// NewStore creates an adapter rooted at the given directory. The root is
// created recursively if absent; a root that resolves to anything but a
// directory fails with data.ErrInvalidRoot. Defaults: an embedded LevelDB
// index at <root>/contracts.db and shard files under <root>/data.
func NewStore(root string, opts ...StoreOption) (*Store, error) {
	options := newDefaultStoreOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, data.ErrInvalidRoot
	}

	meta := options.Metadata
	if meta == nil {
		meta = leveldb.NewLevelBackend(filepath.Join(root, "contracts.db"))
	}
	if !meta.GetCapabilities().Contains(backend.CapabilityMetadata) {
		return nil, data.ErrBackendUnsupported
	}

	shards := options.Shards
	if shards == nil {
		shards = local.NewLocalBackend(filepath.Join(root, "data"))
	}
	shardCaps := shards.GetCapabilities()
	if !shardCaps.Contains(backend.CapabilityShardStorage) {
		return nil, data.ErrBackendUnsupported
	}

	logger := options.Logger
	if logger == nil {
		logger = log.Default("shardstore")
	}

	return &Store{
		id:       uuid.Must(uuid.NewV7()).String(),
		root:     root,
		meta:     meta,
		shards:   shards,
		maxShard: shardCaps.MaxShardSize,
		digester: digest.New(options.DigestKey),
		logger:   logger,
		creating: newKeyLock(),
	}, nil
}

// Open transitions the store and both backends to the open state. Calling
// Open on an already-open store is a no-op.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateOpen {
		return nil
	}

	if err := s.meta.Open(ctx); err != nil {
		return err
	}
	if err := s.shards.Open(ctx); err != nil {
		s.meta.Close(ctx)
		return err
	}

	s.state = StateOpen
	s.logger.Debug("store %s opened at %s (%s/%s)", s.id, s.root, s.meta.Name(), s.shards.Name())
	return nil
}

// Close transitions the store and both backends to the closed state.
// Calling Close on an already-closed store is a no-op.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}

	err := errors.Join(s.shards.Close(ctx), s.meta.Close(ctx))
	s.state = StateClosed
	s.logger.Debug("store %s closed", s.id)
	return err
}

func (s *Store) ensureOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOpen {
		return data.ErrClosed
	}
	return nil
}

// Put stores the record under key in the metadata tier. Any payload under
// the shard field is stripped and the derived filesystem name is assigned;
// the shard file itself is not created until the first Get.
func (s *Store) Put(ctx context.Context, key string, rec data.Record) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}

	stored := rec.StripShard()
	stored.SetFileKey(s.digester.FileKey(key))

	return s.meta.PutMeta(ctx, key, stored)
}

// Peek returns the record stored under key. Metadata only; the shard tier
// is never touched.
func (s *Store) Peek(ctx context.Context, key string) (data.Record, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	return s.meta.GetMeta(ctx, key)
}

// Get returns the record stored under key with its shard handle attached.
//
// When the shard file exists the handle is read-mode. When it does not —
// first access after a bare Put, or external shard loss — the file is
// materialized and the handle is write-mode: the caller must supply the
// payload bytes. Materialization is serialized per key, so concurrent Gets
// on one unmaterialized key yield exactly one write-mode handle.
func (s *Store) Get(ctx context.Context, key string) (data.Record, *data.Shard, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, nil, err
	}

	rec, err := s.meta.GetMeta(ctx, key)
	if err != nil {
		return nil, nil, err
	}

	// Records written through Put carry the digest; legacy records without
	// one are located by their raw key.
	fskey := rec.FileKey()
	if fskey == "" {
		fskey = key
	}

	reader, err := s.shards.OpenRead(ctx, fskey)
	if err == nil {
		return rec, &data.Shard{Mode: data.ShardRead, FileKey: fskey, Reader: reader}, nil
	}
	if !errors.Is(err, data.ErrNotExist) {
		return nil, nil, err
	}

	return s.materialize(ctx, key, rec)
}

// materialize creates the shard file for a record whose file does not exist
// yet and hands back the write-mode handle.
func (s *Store) materialize(ctx context.Context, key string, rec data.Record) (data.Record, *data.Shard, error) {
	unlock := s.creating.Lock(key)
	defer unlock()

	fskey := s.digester.FileKey(key)

	// Re-check under the lock: a concurrent Get may have won the race and
	// already created the file.
	reader, err := s.shards.OpenRead(ctx, fskey)
	if err == nil {
		rec.SetFileKey(fskey)
		return rec, &data.Shard{Mode: data.ShardRead, FileKey: fskey, Reader: reader}, nil
	}
	if !errors.Is(err, data.ErrNotExist) {
		return nil, nil, err
	}

	// Complete legacy records: persist the derived name so later lookups
	// resolve the file through the record.
	if rec.FileKey() != fskey {
		rec.SetFileKey(fskey)
		if err := s.meta.PutMeta(ctx, key, rec.StripShard()); err != nil {
			return nil, nil, err
		}
	}

	writer, err := s.shards.OpenWrite(ctx, fskey)
	if err != nil {
		return nil, nil, err
	}
	if s.maxShard > 0 {
		writer = &limitWriter{w: writer, remaining: s.maxShard}
	}

	s.logger.Debug("store %s materialized shard %s for key %q", s.id, fskey, key)
	return rec, &data.Shard{Mode: data.ShardWrite, FileKey: fskey, Writer: writer}, nil
}

// limitWriter fails writes that would push a shard past the backend's
// advertised size limit.
type limitWriter struct {
	w         io.WriteCloser
	remaining int64
}

func (lw *limitWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > lw.remaining {
		return 0, data.ErrShardTooLarge
	}

	n, err := lw.w.Write(p)
	lw.remaining -= int64(n)
	return n, err
}

func (lw *limitWriter) Close() error {
	return lw.w.Close()
}

// Del removes the record and its shard file. The index entry goes first, so
// a crash mid-deletion never leaves an entry pointing at a missing file
// silently. A shard file that is already gone counts as success.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}

	fskey := key
	if rec, err := s.meta.GetMeta(ctx, key); err == nil {
		if fk := rec.FileKey(); fk != "" {
			fskey = fk
		}
	}

	if err := s.meta.DeleteMeta(ctx, key); err != nil {
		return err
	}

	if err := s.shards.Remove(ctx, fskey); err != nil && !errors.Is(err, data.ErrNotExist) {
		return err
	}

	return nil
}

// Flush is a no-op: puts are force-synced, so there is nothing buffered to
// flush.
func (s *Store) Flush(ctx context.Context) error {
	return s.ensureOpen()
}

// Size reports byte usage across both tiers. The metadata size is always
// the approximate index size over the full key space. With a non-empty key
// the file size is that key's shard file; otherwise the whole data
// directory.
//
// The shard filename is recomputed from the key rather than read from the
// stored record, unlike Get and Del. A record whose fskey was assigned by a
// different scheme therefore reports a zero file size here while Get and
// Del still resolve its real file.
func (s *Store) Size(ctx context.Context, key string) (int64, int64, error) {
	if err := s.ensureOpen(); err != nil {
		return 0, 0, err
	}

	metaSize, err := s.meta.EstimateSize(ctx, "", "")
	if err != nil {
		return 0, 0, err
	}

	var fileSize int64
	if key != "" {
		fileSize, err = s.shards.StatSize(ctx, s.digester.FileKey(key))
		if errors.Is(err, data.ErrNotExist) {
			fileSize, err = 0, nil
		}
	} else {
		fileSize, err = s.shards.TotalSize(ctx)
	}
	if err != nil {
		return 0, 0, err
	}

	return fileSize, metaSize, nil
}

// Keys opens a lazy, ordered iterator over all logical keys. Each call
// observes a fresh snapshot of the metadata tier.
func (s *Store) Keys(ctx context.Context) (backend.KeyIterator, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	return s.meta.Keys(ctx)
}
