// Copyright (c) 2025-2026 TechConf MCP Authors and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package store owns the SQLite database handle: opening, schema
// migration, and the read/write access discipline over it.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	// Driver is the database/sql driver name.
	Driver = "sqlite"

	memoryDSN = ":memory:"
)

// Store wraps the database handle with a reader-concurrency,
// writer-exclusive discipline.  Reads run in parallel; writes (the seed
// import is the only one) hold the lock exclusively for their duration.
type Store struct {
	mu sync.RWMutex
	db *sqlx.DB
}

// Open opens (creating if necessary) the database file at path, enables
// foreign key enforcement, and brings the schema up to date.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	return open(ctx, path)
}

// OpenMemory opens a transient in-memory database, used by tests.
func OpenMemory(ctx context.Context) (*Store, error) {
	return open(ctx, memoryDSN)
}

func open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open(Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", dsn, err)
	}
	// A single connection keeps the in-memory database alive and sidesteps
	// SQLITE_BUSY on concurrent writers; reader concurrency is handled by
	// the RWMutex above the handle.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if err := Migrate(ctx, db.DB); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Read runs fn under the shared lock.  fn must not retain conn.
func (s *Store) Read(ctx context.Context, fn func(conn sqlx.ExtContext) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.db)
}

// Write runs fn inside a transaction under the exclusive lock.  The
// transaction is rolled back if fn returns an error.
func (s *Store) Write(ctx context.Context, fn func(conn sqlx.ExtContext) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("store: rollback after %w: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}
