// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

// Package kvstore is the durable string-keyed store behind the interest model.
//
// Each logical record (topic scores, channel affinities, keyword scores, the
// personality model) lives under a single key as an opaque JSON document.
// Update gives callers an atomic read -> transform -> write cycle scoped to
// one key: concurrent updates to the same key are serialized, updates to
// different keys proceed in parallel.
package kvstore

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned by Get when the key has never been written.
	ErrNotFound = errors.New("kvstore: key not found")

	// ErrClosed is returned for operations on a closed store.
	ErrClosed = errors.New("kvstore: store closed")

	// ErrEmptyKey is returned when an operation is given an empty key.
	ErrEmptyKey = errors.New("kvstore: empty key")
)

// UpdateFunc transforms the current value of a key into its next value.
// found is false when the key does not exist yet. Returning an error aborts
// the update and leaves the stored value untouched.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Store is the key-value abstraction consumed by the interest engine and the
// personality model.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Update performs an atomic read-modify-write on a single key.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// keyLocks hands out one mutex per key so read-modify-write cycles on the
// same key never interleave. The key space is a handful of fixed names, so
// mutexes are never reclaimed.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLocks) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func checkArgs(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return ctx.Err()
}
