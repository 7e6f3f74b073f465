package local

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/shardstore/data"
)

func newTestBackend(t *testing.T) (*LocalBackend, string) {
	path := filepath.Join(t.TempDir(), "data")

	lb := NewLocalBackend(path)
	if err := lb.Open(t.Context()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	return lb, path
}

func TestLocalBackend_WriteRead(t *testing.T) {
	ctx := t.Context()
	lb, path := newTestBackend(t)

	w, err := lb.OpenWrite(ctx, "abcd")
	if err != nil {
		t.Fatalf("OpenWrite failed: %v", err)
	}

	payload := []byte("shard bytes")
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// The shard lives as a flat file named by its fskey
	if _, err := os.Stat(filepath.Join(path, "abcd")); err != nil {
		t.Fatalf("Shard file not on disk: %v", err)
	}

	r, err := lb.OpenRead(ctx, "abcd")
	if err != nil {
		t.Fatalf("OpenRead failed: %v", err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Expected %q, got %q", payload, got)
	}
}

func TestLocalBackend_OpenWriteTruncates(t *testing.T) {
	ctx := t.Context()
	lb, _ := newTestBackend(t)

	w, _ := lb.OpenWrite(ctx, "abcd")
	w.Write([]byte("long first payload"))
	w.Close()

	w, err := lb.OpenWrite(ctx, "abcd")
	if err != nil {
		t.Fatalf("Reopen for write failed: %v", err)
	}
	w.Write([]byte("short"))
	w.Close()

	size, err := lb.StatSize(ctx, "abcd")
	if err != nil {
		t.Fatalf("StatSize failed: %v", err)
	}
	if size != int64(len("short")) {
		t.Errorf("Expected truncated size %d, got %d", len("short"), size)
	}
}

func TestLocalBackend_NotExist(t *testing.T) {
	ctx := t.Context()
	lb, _ := newTestBackend(t)

	if _, err := lb.OpenRead(ctx, "missing"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("OpenRead: expected ErrNotExist, got %v", err)
	}
	if err := lb.Remove(ctx, "missing"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("Remove: expected ErrNotExist, got %v", err)
	}
	if _, err := lb.StatSize(ctx, "missing"); !errors.Is(err, data.ErrNotExist) {
		t.Errorf("StatSize: expected ErrNotExist, got %v", err)
	}
}

func TestLocalBackend_TotalSize(t *testing.T) {
	ctx := t.Context()
	lb, _ := newTestBackend(t)

	total, err := lb.TotalSize(ctx)
	if err != nil {
		t.Fatalf("TotalSize failed: %v", err)
	}
	if total != 0 {
		t.Errorf("Expected empty directory size 0, got %d", total)
	}

	for fskey, payload := range map[string]string{"a1": "12345", "b2": "678"} {
		w, _ := lb.OpenWrite(ctx, fskey)
		w.Write([]byte(payload))
		w.Close()
	}

	total, err = lb.TotalSize(ctx)
	if err != nil {
		t.Fatalf("TotalSize failed: %v", err)
	}
	if total != 8 {
		t.Errorf("Expected aggregate size 8, got %d", total)
	}
}

// TestLocalBackend_OpenCreatesDirectory verifies that repeated construction
// over an existing directory succeeds.
func TestLocalBackend_OpenCreatesDirectory(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "data")

	lb := NewLocalBackend(path)
	if err := lb.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Second backend over the same directory
	lb = NewLocalBackend(path)
	if err := lb.Open(ctx); err != nil {
		t.Fatalf("Open over existing directory failed: %v", err)
	}
}

func TestLocalBackend_ResolveConfinesPaths(t *testing.T) {
	ctx := t.Context()
	lb, path := newTestBackend(t)

	w, err := lb.OpenWrite(ctx, "../escape")
	if err != nil {
		t.Fatalf("OpenWrite failed: %v", err)
	}
	w.Close()

	// The file must land inside the data directory
	if _, err := os.Stat(filepath.Join(path, "escape")); err != nil {
		t.Errorf("Expected confined file, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "escape")); !os.IsNotExist(err) {
		t.Error("Shard file escaped the data directory")
	}
}
