package local

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/mwantia/shardstore/data"
)

func (lb *LocalBackend) OpenRead(ctx context.Context, fskey string) (io.ReadCloser, error) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	file, err := os.Open(lb.resolvePath(fskey))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, data.ErrNotExist
		}
		if errors.Is(err, fs.ErrPermission) {
			return nil, data.ErrPermission
		}

		return nil, err
	}

	return file, nil
}

func (lb *LocalBackend) OpenWrite(ctx context.Context, fskey string) (io.WriteCloser, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Create if absent, truncate if present
	file, err := os.OpenFile(lb.resolvePath(fskey), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, data.ErrPermission
		}

		return nil, err
	}

	return file, nil
}

func (lb *LocalBackend) Remove(ctx context.Context, fskey string) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if err := os.Remove(lb.resolvePath(fskey)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return data.ErrNotExist
		}
		if errors.Is(err, fs.ErrPermission) {
			return data.ErrPermission
		}

		return err
	}

	return nil
}

func (lb *LocalBackend) StatSize(ctx context.Context, fskey string) (int64, error) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	info, err := os.Stat(lb.resolvePath(fskey))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, data.ErrNotExist
		}

		return 0, err
	}

	return info.Size(), nil
}

func (lb *LocalBackend) TotalSize(ctx context.Context) (int64, error) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	entries, err := os.ReadDir(lb.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}

		return 0, err
	}

	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				// Removed between readdir and stat
				continue
			}
			return 0, err
		}

		total += info.Size()
	}

	return total, nil
}
