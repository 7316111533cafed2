// Package store owns the durable catalog state: the four record
// collections (products, categories, brands, units) plus the auth tables,
// a versioned schema, and transactional read/write scopes.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrUnavailable marks failures to open or reach the backing storage.
// Dependent operations must treat it as fatal, not retry silently.
var ErrUnavailable = errors.New("catalog store unavailable")

// Store is a handle to the catalog database. Construct it with New and
// call Open before use; the composition root owns its lifecycle.
type Store struct {
	dsn    string
	logger *zap.Logger

	mu     sync.Mutex
	db     *sql.DB
	opened bool
}

// New creates an unopened store handle for the given DSN
func New(dsn string, logger *zap.Logger) *Store {
	return &Store{dsn: dsn, logger: logger}
}

// Open connects, verifies the connection and brings the schema up to the
// current version. It is idempotent and safe for concurrent callers: the
// mutex serializes the upgrade sequence and later callers return once the
// first one has finished. Open failures surface as ErrUnavailable.
func (s *Store) Open(ctx context.Context, migrationsDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opened {
		return nil
	}

	db, err := sql.Open("pgx", s.dsn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if err := runMigrations(db, migrationsDir, s.logger); err != nil {
		db.Close()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.db = db
	s.opened = true
	return nil
}

// DB exposes the underlying handle for callers that manage their own
// statements, such as the auth repositories
func (s *Store) DB() *sql.DB {
	db, _ := s.handle()
	return db
}

// handle snapshots the connection and opened flag under the mutex so
// scopes racing Open or Close observe a consistent pair.
func (s *Store) handle() (*sql.DB, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db, s.opened
}

// Close releases the underlying connections
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.opened {
		return nil
	}
	s.opened = false
	return s.db.Close()
}

// View runs fn inside a read-only scope. Any error from fn aborts the
// scope and propagates to the caller.
func (s *Store) View(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return s.run(ctx, true, fn)
}

// Update runs fn inside a read-write scope. The writes commit together or
// not at all: an error from fn rolls everything back.
func (s *Store) Update(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return s.run(ctx, false, fn)
}

func (s *Store) run(ctx context.Context, readOnly bool, fn func(tx *sql.Tx) error) error {
	db, opened := s.handle()
	if !opened {
		return ErrUnavailable
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return fmt.Errorf("failed to begin scope: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			s.logger.Error("Failed to roll back scope", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scope: %w", err)
	}
	return nil
}

// Clear empties all four catalog collections in one scope. Data loss is
// irreversible; intended for tests and explicit resets only.
func (s *Store) Clear(ctx context.Context) error {
	return s.Update(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `TRUNCATE products, categories, brands, units`)
		if err != nil {
			return fmt.Errorf("failed to clear catalog collections: %w", err)
		}
		return nil
	})
}

// Health reports connectivity and pool statistics for the health endpoint
func (s *Store) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	db, opened := s.handle()
	if !opened {
		stats["status"] = "down"
		stats["error"] = "store not opened"
		return stats
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	dbStats := db.Stats()
	stats["status"] = "up"
	stats["open_connections"] = strconv.Itoa(dbStats.OpenConnections)
	stats["in_use"] = strconv.Itoa(dbStats.InUse)
	stats["idle"] = strconv.Itoa(dbStats.Idle)
	return stats
}
