// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package kvstore

import (
	"context"
	"sync"
)

// MemoryStore is a map-backed Store. It is not persistent and is intended
// for tests and previews. FailNext lets tests inject an I/O failure.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	locks  *keyLocks
	closed bool

	failMu   sync.Mutex
	failNext map[string]error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string][]byte),
		locks:    newKeyLocks(),
		failNext: make(map[string]error),
	}
}

// FailNext makes the next operation on key return err.
func (s *MemoryStore) FailNext(key string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.failNext[key] = err
}

func (s *MemoryStore) injected(key string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	err := s.failNext[key]
	delete(s.failNext, key)
	return err
}

// Get returns a copy of the value for key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.check(ctx, key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set overwrites the value for key.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	unlock := s.locks.lock(key)
	defer unlock()
	s.put(key, value)
	return nil
}

// Update performs an atomic read-modify-write on key.
func (s *MemoryStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	unlock := s.locks.lock(key)
	defer unlock()

	s.mu.RLock()
	current, found := s.data[key]
	s.mu.RUnlock()

	next, err := fn(append([]byte(nil), current...), found)
	if err != nil {
		return err
	}
	s.put(key, next)
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Keys returns the number of stored keys.
func (s *MemoryStore) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
}

func (s *MemoryStore) check(ctx context.Context, key string) error {
	if err := checkArgs(ctx, key); err != nil {
		return err
	}
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	return s.injected(key)
}
