// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package recorder

import (
	"fmt"
	"time"
)

// Config holds recorder queue and worker settings.
type Config struct {
	// QueueSize is the number of events buffered before new ones are dropped.
	QueueSize int `json:"queue_size"`

	// Workers is the number of goroutines applying events.
	Workers int `json:"workers"`

	// EventsPerSecond throttles event application; 0 disables throttling.
	EventsPerSecond float64 `json:"events_per_second"`

	// Burst is the limiter burst when throttling is enabled.
	Burst int `json:"burst"`

	// DrainTimeout bounds how long queued events are applied after shutdown.
	DrainTimeout time.Duration `json:"drain_timeout"`

	// TaskTimeout bounds a single event application.
	TaskTimeout time.Duration `json:"task_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		QueueSize:       256,
		Workers:         2,
		EventsPerSecond: 50,
		Burst:           10,
		DrainTimeout:    5 * time.Second,
		TaskTimeout:     10 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.QueueSize < 1 {
		return fmt.Errorf("queue_size must be positive, got %d", c.QueueSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.EventsPerSecond < 0 {
		return fmt.Errorf("events_per_second must not be negative, got %f", c.EventsPerSecond)
	}
	if c.EventsPerSecond > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be positive when throttling, got %d", c.Burst)
	}
	if c.DrainTimeout <= 0 {
		return fmt.Errorf("drain_timeout must be positive, got %s", c.DrainTimeout)
	}
	if c.TaskTimeout <= 0 {
		return fmt.Errorf("task_timeout must be positive, got %s", c.TaskTimeout)
	}
	return nil
}
