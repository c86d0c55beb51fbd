// Package sqlstore implements store.IStore on top of SQLite (modernc.org/sqlite).
//
// A file path gives a native store that survives process restarts and is used
// for the local kind. The special path ":memory:" gives a store bound to the
// lifetime of the process, used for the session kind.
//
// All items live in a single table:
//
//	CREATE TABLE items (key TEXT PRIMARY KEY, value BLOB)
//
// The store uses a single connection: SQLite serializes writers anyway and an
// in-memory database exists per connection.
package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/ValentinKolb/storagefor/lib/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
)

const schema = `CREATE TABLE IF NOT EXISTS items (
	key   TEXT PRIMARY KEY,
	value BLOB
)`

type storeImpl struct {
	db     *sql.DB
	path   string
	closed atomic.Bool
}

// Open opens (and creates if needed) a SQLite store at path.
func Open(path string) (store.IStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := common.InMemoryPath
	if path != common.InMemoryPath {
		cleanPath := filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		dsn = cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &storeImpl{db: sqlDB, path: path}, nil
}

// Factory returns a store.Factory opening the store at path.
func Factory(path string) store.Factory {
	return func() (store.IStore, error) {
		return Open(path)
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) SetItem(key string, value []byte) error {
	if s.closed.Load() {
		return store.NewError(store.RetCClosed, "store is closed")
	}
	_, err := s.db.Exec(
		`INSERT INTO items (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return s.wrap("set item", err)
	}
	return nil
}

func (s *storeImpl) GetItem(key string) ([]byte, bool, error) {
	if s.closed.Load() {
		return nil, false, store.NewError(store.RetCClosed, "store is closed")
	}
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM items WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, s.wrap("get item", err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

func (s *storeImpl) RemoveItem(key string) error {
	if s.closed.Load() {
		return store.NewError(store.RetCClosed, "store is closed")
	}
	if _, err := s.db.Exec(`DELETE FROM items WHERE key = ?`, key); err != nil {
		return s.wrap("remove item", err)
	}
	return nil
}

func (s *storeImpl) Keys() ([]string, error) {
	if s.closed.Load() {
		return nil, store.NewError(store.RetCClosed, "store is closed")
	}
	rows, err := s.db.Query(`SELECT key FROM items ORDER BY key`)
	if err != nil {
		return nil, s.wrap("list keys", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, s.wrap("scan key", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrap("list keys", err)
	}
	return keys, nil
}

func (s *storeImpl) Clear() error {
	if s.closed.Load() {
		return store.NewError(store.RetCClosed, "store is closed")
	}
	if _, err := s.db.Exec(`DELETE FROM items`); err != nil {
		return s.wrap("clear", err)
	}
	return nil
}

func (s *storeImpl) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// wrap converts a driver error to a store error.
func (s *storeImpl) wrap(op string, err error) error {
	return store.NewError(classify(err), fmt.Sprintf("%s (%s): %v", op, s.path, err))
}

// classify maps the primary SQLite result code of err to a store return code.
// SQLITE_FULL is reported as a quota error. A database that cannot be written
// right now is unavailable.
func classify(err error) store.RetCode {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return store.RetCInternalError
	}
	switch sqliteErr.Code() & 0xff {
	case sqlite3.SQLITE_FULL:
		return store.RetCQuotaExceeded
	case sqlite3.SQLITE_READONLY, sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN:
		return store.RetCUnavailable
	default:
		return store.RetCInternalError
	}
}
