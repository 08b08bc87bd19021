// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/tomtom215/flowengine/internal/logging"
	"github.com/tomtom215/flowengine/internal/metrics"
)

// BadgerStore implements Store on BadgerDB.
//
// Update holds a per-key mutex around a single badger read-write
// transaction, so a read-modify-write on one key never races another on the
// same key and never hits badger's optimistic-concurrency ErrConflict.
type BadgerStore struct {
	db    *badger.DB
	locks *keyLocks

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) a BadgerDB according to cfg.
func Open(cfg *Config) (*BadgerStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	if cfg.Compression {
		opts.Compression = options.Snappy
	} else {
		opts.Compression = options.None
	}
	if cfg.MemTableSize > 0 {
		opts.MemTableSize = cfg.MemTableSize
	}
	if cfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = cfg.ValueLogFileSize
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("key-value store opened")

	return NewBadgerStore(db), nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db, locks: newKeyLocks()}
}

// DB exposes the underlying database for maintenance (value-log GC).
func (s *BadgerStore) DB() *badger.DB {
	return s.db
}

// Get returns the value for key.
func (s *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.guard(ctx, key); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	start := time.Now()
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		v, err := readValue(txn, key)
		value = v
		return err
	})
	metrics.RecordStoreOp("get", key, time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set overwrites the value for key.
func (s *BadgerStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.guard(ctx, key); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	unlock := s.locks.lock(key)
	defer unlock()

	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	metrics.RecordStoreOp("set", key, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Update performs an atomic read-modify-write on key.
func (s *BadgerStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := s.guard(ctx, key); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	unlock := s.locks.lock(key)
	defer unlock()

	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		current, err := readValue(txn, key)
		found := err == nil
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}
		return txn.Set([]byte(key), next)
	})
	metrics.RecordStoreOp("update", key, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := s.guard(ctx, key); err != nil {
		return err
	}
	defer s.mu.RUnlock()

	unlock := s.locks.lock(key)
	defer unlock()

	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	metrics.RecordStoreOp("delete", key, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// RunGC runs value-log garbage collection until nothing is left to rewrite.
// It returns the number of files rewritten.
func (s *BadgerStore) RunGC(ratio float64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	rewritten := 0
	for {
		err := s.db.RunValueLogGC(ratio)
		switch {
		case err == nil:
			rewritten++
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return rewritten, nil
		default:
			return rewritten, err
		}
	}
}

// Close closes the database. It is safe to call more than once.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}

// guard validates arguments and takes the read lock that keeps Close from
// running underneath an operation. On success the caller must RUnlock.
func (s *BadgerStore) guard(ctx context.Context, key string) error {
	if err := checkArgs(ctx, key); err != nil {
		return err
	}
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrClosed
	}
	return nil
}

func readValue(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return item.ValueCopy(nil)
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
