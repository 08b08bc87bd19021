// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package kvstore

import (
	"errors"
	"fmt"
	"time"
)

// Config holds store configuration.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory (tests, ephemeral sessions).
	InMemory bool

	// SyncWrites forces fsync after every write.
	SyncWrites bool

	// Compression enables Snappy compression of stored documents.
	Compression bool

	// MemTableSize is the size of each memtable in bytes (0 = badger default).
	MemTableSize int64

	// ValueLogFileSize is the size of each value log file in bytes (0 = badger default).
	ValueLogFileSize int64

	// GCInterval is the time between value-log GC passes. Zero disables GC.
	GCInterval time.Duration

	// GCRatio is the discard ratio passed to RunValueLogGC.
	GCRatio float64

	// Breaker configures the circuit breaker around store I/O.
	Breaker BreakerConfig
}

// BreakerConfig configures the store circuit breaker.
type BreakerConfig struct {
	// Enabled wraps the store in a circuit breaker.
	Enabled bool

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration

	// HalfOpenRequests is the number of probe requests allowed while half-open.
	HalfOpenRequests uint32
}

// DefaultConfig returns defaults suitable for an on-device store.
func DefaultConfig() Config {
	return Config{
		Path:        "data/flow",
		SyncWrites:  true,
		Compression: true,
		GCInterval:  30 * time.Minute,
		GCRatio:     0.5,
		Breaker: BreakerConfig{
			Enabled:          true,
			FailureThreshold: 5,
			OpenTimeout:      30 * time.Second,
			HalfOpenRequests: 1,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("store path is required unless in_memory is set")
	}
	if c.GCInterval < 0 {
		return fmt.Errorf("gc interval must be non-negative, got %v", c.GCInterval)
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		return fmt.Errorf("gc ratio must be in (0, 1), got %f", c.GCRatio)
	}
	if c.Breaker.Enabled {
		if c.Breaker.FailureThreshold == 0 {
			return errors.New("breaker failure threshold must be positive")
		}
		if c.Breaker.OpenTimeout <= 0 {
			return fmt.Errorf("breaker open timeout must be positive, got %v", c.Breaker.OpenTimeout)
		}
	}
	return nil
}
