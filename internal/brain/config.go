// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package brain

import (
	"fmt"
)

// Config contains the personality model tunables.
type Config struct {
	// Alpha is the EMA learning rate.
	Alpha float64 `json:"alpha"`

	// MaxTopics bounds each vector's topic map; the weakest topics are dropped.
	MaxTopics int `json:"max_topics"`

	// ChannelScoreLimit bounds channel sentiment to [-limit, limit].
	ChannelScoreLimit float64 `json:"channel_score_limit"`

	// Personas are the interaction thresholds for each tier above Initiate.
	Personas PersonaThresholds `json:"personas"`

	// Seed is the random seed for discovery sampling.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// PersonaThresholds are the minimum interaction counts per tier.
type PersonaThresholds struct {
	Explorer    int `json:"explorer"`
	Enthusiast  int `json:"enthusiast"`
	Connoisseur int `json:"connoisseur"`
	Sage        int `json:"sage"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Alpha:             0.1,
		MaxTopics:         200,
		ChannelScoreLimit: 100,
		Personas: PersonaThresholds{
			Explorer:    10,
			Enthusiast:  50,
			Connoisseur: 200,
			Sage:        500,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha must be in (0, 1], got %f", c.Alpha)
	}
	if c.MaxTopics < 1 {
		return fmt.Errorf("max_topics must be positive, got %d", c.MaxTopics)
	}
	if c.ChannelScoreLimit <= 0 {
		return fmt.Errorf("channel_score_limit must be positive, got %f", c.ChannelScoreLimit)
	}
	p := c.Personas
	if p.Explorer < 1 || p.Enthusiast <= p.Explorer || p.Connoisseur <= p.Enthusiast || p.Sage <= p.Connoisseur {
		return fmt.Errorf("persona thresholds must be positive and strictly increasing, got %+v", p)
	}
	return nil
}
