package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mwantia/shardstore/backend"
)

// SQLiteBackend provides an embedded metadata tier using SQLite with a
// two-layer architecture:
//
// Layer 1: In-memory B-tree for ordered key iteration (keys index)
// Layer 2: SQLite record table (store_records) for the persisted documents
//
// The B-tree mirrors the table's key column so ordered scans never touch
// the database.
type SQLiteBackend struct {
	mu     sync.RWMutex
	db     *sql.DB
	dbPath string

	// In-memory B-tree for ordered key lookups
	keys *btree.Map[string, struct{}]
}

// NewSQLiteBackend creates a new SQLite-backed metadata backend.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, err
	}

	return &SQLiteBackend{
		db:     db,
		dbPath: dbPath,
		keys:   btree.NewMap[string, struct{}](0),
	}, nil
}

// openDatabase opens the database file and prepares the schema.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// A single connection: ":memory:" databases exist per connection, so a
	// pooled second connection would see an empty store
	db.SetMaxOpenConns(1)

	// Force-synced commits so a successful put survives a crash
	if _, err := db.Exec("PRAGMA synchronous = FULL"); err != nil {
		db.Close()
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS store_records (
		key TEXT PRIMARY KEY,
		record TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Returns the identifier name defined for this backend
func (*SQLiteBackend) Name() string {
	return "sqlite"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend.
// A backend that was closed is reopened from its path; the in-memory key
// index is rebuilt from the record table either way.
func (sb *SQLiteBackend) Open(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.db == nil {
		db, err := openDatabase(sb.dbPath)
		if err != nil {
			return err
		}
		sb.db = db
	}

	keys := btree.NewMap[string, struct{}](0)

	rows, err := sb.db.QueryContext(ctx, `SELECT key FROM store_records`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return err
		}
		keys.Set(key, struct{}{})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sb.keys = keys
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (sb *SQLiteBackend) Close(ctx context.Context) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.db == nil {
		return nil
	}

	err := sb.db.Close()
	sb.db = nil
	return err
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (sb *SQLiteBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityMetadata,
			backend.CapabilityDurable,
		},
	}
}
