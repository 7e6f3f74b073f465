package backend_test

import (
	"errors"
	"testing"

	"github.com/mwantia/shardstore/backend"
	"github.com/mwantia/shardstore/backend/leveldb"
	"github.com/mwantia/shardstore/backend/memory"
	"github.com/mwantia/shardstore/backend/sqlite"
	"github.com/mwantia/shardstore/data"
)

// TestBackendFactory creates a new metadata backend instance for testing.
type TestBackendFactory func(t *testing.T) (backend.MetadataBackend, error)

// GetTestBackendFactories returns all in-process metadata backends to test.
func GetTestBackendFactories() map[string]TestBackendFactory {
	return map[string]TestBackendFactory{
		"leveldb": func(t *testing.T) (backend.MetadataBackend, error) {
			return leveldb.NewLevelBackend(t.TempDir()), nil
		},
		"sqlite": func(t *testing.T) (backend.MetadataBackend, error) {
			return sqlite.NewSQLiteBackend(":memory:")
		},
		"memory": func(t *testing.T) (backend.MetadataBackend, error) {
			return memory.NewMemoryBackend(), nil
		},
	}
}

// TestAllBackends_RecordOperations verifies basic record put, get, and
// delete operations across all metadata backend implementations.
func TestAllBackends_RecordOperations(t *testing.T) {
	factories := GetTestBackendFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()

			meta, err := factory(tst)
			if err != nil {
				tst.Fatalf("Backend init failed: %v", err)
			}

			if err := meta.Open(ctx); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			defer meta.Close(ctx)

			if !meta.GetCapabilities().Contains(backend.CapabilityMetadata) {
				tst.Fatal("Backend does not advertise the metadata capability")
			}

			if _, err := meta.GetMeta(ctx, "k1"); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist, got %v", err)
			}

			rec := data.Record{"contract": "c-1", "fskey": "abcd"}
			if err := meta.PutMeta(ctx, "k1", rec); err != nil {
				tst.Fatalf("PutMeta failed: %v", err)
			}

			got, err := meta.GetMeta(ctx, "k1")
			if err != nil {
				tst.Fatalf("GetMeta failed: %v", err)
			}
			if got["contract"] != "c-1" || got.FileKey() != "abcd" {
				tst.Errorf("Record fields lost: %v", got)
			}

			// Overwrite replaces the record
			if err := meta.PutMeta(ctx, "k1", data.Record{"contract": "c-2"}); err != nil {
				tst.Fatalf("PutMeta overwrite failed: %v", err)
			}
			got, err = meta.GetMeta(ctx, "k1")
			if err != nil {
				tst.Fatalf("GetMeta failed: %v", err)
			}
			if got["contract"] != "c-2" {
				tst.Errorf("Expected overwritten record, got %v", got)
			}

			if err := meta.DeleteMeta(ctx, "k1"); err != nil {
				tst.Fatalf("DeleteMeta failed: %v", err)
			}
			if _, err := meta.GetMeta(ctx, "k1"); !errors.Is(err, data.ErrNotExist) {
				tst.Errorf("Expected ErrNotExist after delete, got %v", err)
			}

			// Deleting an absent key is not an error
			if err := meta.DeleteMeta(ctx, "k1"); err != nil {
				tst.Errorf("DeleteMeta on absent key failed: %v", err)
			}
		})
	}
}

// TestAllBackends_KeyIteration verifies ordered, exactly-once key delivery
// across all metadata backend implementations.
func TestAllBackends_KeyIteration(t *testing.T) {
	factories := GetTestBackendFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()

			meta, err := factory(tst)
			if err != nil {
				tst.Fatalf("Backend init failed: %v", err)
			}

			if err := meta.Open(ctx); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			defer meta.Close(ctx)

			// Insertion order must not matter
			for _, key := range []string{"b", "c", "a"} {
				if err := meta.PutMeta(ctx, key, data.Record{"k": key}); err != nil {
					tst.Fatalf("PutMeta failed: %v", err)
				}
			}

			it, err := meta.Keys(ctx)
			if err != nil {
				tst.Fatalf("Keys failed: %v", err)
			}
			defer it.Release()

			var keys []string
			for it.Next() {
				keys = append(keys, it.Key())
			}
			if err := it.Err(); err != nil {
				tst.Fatalf("Iterator failed: %v", err)
			}

			expected := []string{"a", "b", "c"}
			if len(keys) != len(expected) {
				tst.Fatalf("Expected keys %v, got %v", expected, keys)
			}
			for i, key := range expected {
				if keys[i] != key {
					tst.Errorf("Expected key %q at %d, got %q", key, i, keys[i])
				}
			}
		})
	}
}

// TestAllBackends_EstimateSize verifies the approximate byte accounting
// across all metadata backend implementations.
func TestAllBackends_EstimateSize(t *testing.T) {
	factories := GetTestBackendFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()

			meta, err := factory(tst)
			if err != nil {
				tst.Fatalf("Backend init failed: %v", err)
			}

			if err := meta.Open(ctx); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			defer meta.Close(ctx)

			empty, err := meta.EstimateSize(ctx, "", "")
			if err != nil {
				tst.Fatalf("EstimateSize failed: %v", err)
			}
			if empty < 0 {
				tst.Errorf("Negative size estimate %d", empty)
			}

			for _, key := range []string{"a", "b", "c"} {
				if err := meta.PutMeta(ctx, key, data.Record{"k": key}); err != nil {
					tst.Fatalf("PutMeta failed: %v", err)
				}
			}

			full, err := meta.EstimateSize(ctx, "", "")
			if err != nil {
				tst.Fatalf("EstimateSize failed: %v", err)
			}
			if full < 0 {
				tst.Errorf("Negative size estimate %d", full)
			}
		})
	}
}

// TestAllBackends_Reopen verifies that Open and Close are idempotent
// transitions.
func TestAllBackends_Reopen(t *testing.T) {
	factories := GetTestBackendFactories()

	for name, factory := range factories {
		t.Run(name, func(tst *testing.T) {
			ctx := tst.Context()

			meta, err := factory(tst)
			if err != nil {
				tst.Fatalf("Backend init failed: %v", err)
			}

			if err := meta.Open(ctx); err != nil {
				tst.Fatalf("Open failed: %v", err)
			}
			if err := meta.Open(ctx); err != nil {
				tst.Fatalf("Second Open failed: %v", err)
			}

			if err := meta.Close(ctx); err != nil {
				tst.Fatalf("Close failed: %v", err)
			}
			if err := meta.Close(ctx); err != nil {
				tst.Fatalf("Second Close failed: %v", err)
			}

			// A closed backend must come back up and serve records
			if err := meta.Open(ctx); err != nil {
				tst.Fatalf("Open after Close failed: %v", err)
			}
			defer meta.Close(ctx)

			if err := meta.PutMeta(ctx, "k1", data.Record{"x": 1}); err != nil {
				tst.Fatalf("PutMeta after reopen failed: %v", err)
			}
			if _, err := meta.GetMeta(ctx, "k1"); err != nil {
				tst.Fatalf("GetMeta after reopen failed: %v", err)
			}
		})
	}
}
