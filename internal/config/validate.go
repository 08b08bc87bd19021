// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package config

import (
	"fmt"

	"github.com/tomtom215/flowengine/internal/validation"
)

// Validate checks field constraints declared in struct tags and the
// cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	validators := []func() error{
		c.validateBoosts,
		c.validateRecorder,
		c.validateShutdown,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

// validateBoosts requires watch boosts to grow with the watched fraction.
func (c *Config) validateBoosts() error {
	b := c.Interest.Boosts
	if b.WatchGlance > b.WatchPartial || b.WatchPartial > b.WatchMost || b.WatchMost > b.WatchComplete {
		return fmt.Errorf("interest.boosts: watch boosts must be non-decreasing (glance %.2f, partial %.2f, most %.2f, complete %.2f)",
			b.WatchGlance, b.WatchPartial, b.WatchMost, b.WatchComplete)
	}
	return nil
}

func (c *Config) validateRecorder() error {
	if c.Recorder.EventsPerSecond > 0 && c.Recorder.Burst < 1 {
		return fmt.Errorf("recorder.burst must be positive when events_per_second is set, got %d", c.Recorder.Burst)
	}
	return nil
}

// validateShutdown keeps the supervisor from abandoning the recorder drain.
func (c *Config) validateShutdown() error {
	if c.Supervisor.ShutdownTimeout <= c.Recorder.DrainTimeout {
		return fmt.Errorf("supervisor.shutdown_timeout (%s) must exceed recorder.drain_timeout (%s)",
			c.Supervisor.ShutdownTimeout, c.Recorder.DrainTimeout)
	}
	return nil
}
