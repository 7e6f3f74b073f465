package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mwantia/shardstore/backend"
	"github.com/mwantia/shardstore/data"
)

func (pb *PostgresBackend) GetMeta(ctx context.Context, key string) (data.Record, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	if pb.pool == nil {
		return nil, data.ErrClosed
	}

	var raw []byte
	err := pb.pool.QueryRow(ctx, `
		SELECT record FROM store_records WHERE key = $1
	`, key).Scan(&raw)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, data.ErrNotExist
	}
	if err != nil {
		return nil, err
	}

	return data.DecodeRecord(raw)
}

func (pb *PostgresBackend) PutMeta(ctx context.Context, key string, rec data.Record) error {
	raw, err := data.EncodeRecord(rec)
	if err != nil {
		return err
	}

	pb.mu.RLock()
	defer pb.mu.RUnlock()

	if pb.pool == nil {
		return data.ErrClosed
	}

	_, err = pb.pool.Exec(ctx, `
		INSERT INTO store_records (key, record) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET record = EXCLUDED.record
	`, key, raw)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}

	return nil
}

func (pb *PostgresBackend) DeleteMeta(ctx context.Context, key string) error {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	if pb.pool == nil {
		return data.ErrClosed
	}

	if _, err := pb.pool.Exec(ctx, `
		DELETE FROM store_records WHERE key = $1
	`, key); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	return nil
}

func (pb *PostgresBackend) EstimateSize(ctx context.Context, start, end string) (int64, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	if pb.pool == nil {
		return 0, data.ErrClosed
	}

	query := `SELECT COALESCE(SUM(OCTET_LENGTH(key) + OCTET_LENGTH(record::text)), 0) FROM store_records WHERE key >= $1`
	args := []any{start}
	if end != "" {
		query += ` AND key < $2`
		args = append(args, end)
	}

	var total int64
	if err := pb.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (pb *PostgresBackend) Keys(ctx context.Context) (backend.KeyIterator, error) {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	if pb.pool == nil {
		return nil, data.ErrClosed
	}

	rows, err := pb.pool.Query(ctx, `SELECT key FROM store_records ORDER BY key`)
	if err != nil {
		return nil, err
	}

	return &pgKeyIterator{rows: rows}, nil
}

// pgKeyIterator streams the ordered key column without buffering it.
type pgKeyIterator struct {
	rows pgx.Rows
	key  string
	err  error
}

func (ki *pgKeyIterator) Next() bool {
	if ki.err != nil || !ki.rows.Next() {
		return false
	}

	if err := ki.rows.Scan(&ki.key); err != nil {
		ki.err = err
		return false
	}

	return true
}

func (ki *pgKeyIterator) Key() string {
	return ki.key
}

func (ki *pgKeyIterator) Err() error {
	if ki.err != nil {
		return ki.err
	}
	return ki.rows.Err()
}

func (ki *pgKeyIterator) Release() {
	ki.rows.Close()
}
