package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mwantia/shardstore/backend"
	"github.com/mwantia/shardstore/data"
)

func (sb *SQLiteBackend) GetMeta(ctx context.Context, key string) (data.Record, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if sb.db == nil {
		return nil, data.ErrClosed
	}

	var raw string
	err := sb.db.QueryRowContext(ctx, `
		SELECT record FROM store_records WHERE key = ?
	`, key).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, data.ErrNotExist
	}
	if err != nil {
		return nil, err
	}

	return data.DecodeRecord([]byte(raw))
}

func (sb *SQLiteBackend) PutMeta(ctx context.Context, key string, rec data.Record) error {
	raw, err := data.EncodeRecord(rec)
	if err != nil {
		return err
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.db == nil {
		return data.ErrClosed
	}

	_, err = sb.db.ExecContext(ctx, `
		INSERT INTO store_records (key, record) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET record = excluded.record
	`, key, string(raw))
	if err != nil {
		return err
	}

	sb.keys.Set(key, struct{}{})
	return nil
}

func (sb *SQLiteBackend) DeleteMeta(ctx context.Context, key string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.db == nil {
		return data.ErrClosed
	}

	if _, err := sb.db.ExecContext(ctx, `
		DELETE FROM store_records WHERE key = ?
	`, key); err != nil {
		return err
	}

	sb.keys.Delete(key)
	return nil
}

func (sb *SQLiteBackend) EstimateSize(ctx context.Context, start, end string) (int64, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if sb.db == nil {
		return 0, data.ErrClosed
	}

	query := `SELECT COALESCE(SUM(LENGTH(key) + LENGTH(record)), 0) FROM store_records WHERE key >= ?`
	args := []any{start}
	if end != "" {
		query += ` AND key < ?`
		args = append(args, end)
	}

	var total int64
	if err := sb.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (sb *SQLiteBackend) Keys(ctx context.Context) (backend.KeyIterator, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if sb.db == nil {
		return nil, data.ErrClosed
	}

	// The copied B-tree holds a point-in-time snapshot of the key column
	return &sqliteKeyIterator{snapshot: sb.keys.Copy().Keys()}, nil
}

type sqliteKeyIterator struct {
	snapshot []string
	pos      int
	key      string
}

func (ki *sqliteKeyIterator) Next() bool {
	if ki.pos >= len(ki.snapshot) {
		return false
	}

	ki.key = ki.snapshot[ki.pos]
	ki.pos++
	return true
}

func (ki *sqliteKeyIterator) Key() string {
	return ki.key
}

func (ki *sqliteKeyIterator) Err() error {
	return nil
}

func (ki *sqliteKeyIterator) Release() {
	ki.snapshot = nil
}
