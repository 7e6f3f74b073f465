package s3

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/mwantia/shardstore/data"
)

func (sb *S3Backend) OpenRead(ctx context.Context, fskey string) (io.ReadCloser, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	// GetObject defers errors to the first read; stat first so absence is
	// reported on open, matching the local tier.
	if _, err := sb.client.StatObject(ctx, sb.bucketName, fskey, minio.StatObjectOptions{}); err != nil {
		if isNotExist(err) {
			return nil, data.ErrNotExist
		}
		return nil, err
	}

	obj, err := sb.client.GetObject(ctx, sb.bucketName, fskey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	return obj, nil
}

func (sb *S3Backend) OpenWrite(ctx context.Context, fskey string) (io.WriteCloser, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	pr, pw := io.Pipe()

	w := &s3Writer{pw: pw, done: make(chan struct{})}
	go func() {
		defer close(w.done)

		_, err := sb.client.PutObject(ctx, sb.bucketName, fskey, pr, -1, minio.PutObjectOptions{})
		// Fail pending writes instead of blocking them on a dead upload
		pr.CloseWithError(err)
		w.err = err
	}()

	return w, nil
}

// s3Writer bridges the stream contract onto PutObject. The upload completes
// when Close returns.
type s3Writer struct {
	pw   *io.PipeWriter
	done chan struct{}
	err  error
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *s3Writer) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}

	<-w.done
	return w.err
}

func (sb *S3Backend) Remove(ctx context.Context, fskey string) error {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	// RemoveObject succeeds on absent keys; stat first so the caller can
	// distinguish idempotent cleanup from a real delete.
	if _, err := sb.client.StatObject(ctx, sb.bucketName, fskey, minio.StatObjectOptions{}); err != nil {
		if isNotExist(err) {
			return data.ErrNotExist
		}
		return err
	}

	return sb.client.RemoveObject(ctx, sb.bucketName, fskey, minio.RemoveObjectOptions{})
}

func (sb *S3Backend) StatSize(ctx context.Context, fskey string) (int64, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	info, err := sb.client.StatObject(ctx, sb.bucketName, fskey, minio.StatObjectOptions{})
	if err != nil {
		if isNotExist(err) {
			return 0, data.ErrNotExist
		}
		return 0, err
	}

	return info.Size, nil
}

func (sb *S3Backend) TotalSize(ctx context.Context) (int64, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var total int64
	for obj := range sb.client.ListObjects(ctx, sb.bucketName, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return 0, obj.Err
		}

		total += obj.Size
	}

	return total, nil
}
