// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package interest

import (
	"errors"
	"fmt"
)

// Config contains all tunables for the interest engine.
type Config struct {
	// DecayFactor is the per-day multiplicative attenuation of topic scores.
	DecayFactor float64 `json:"decay_factor"`

	// MaxScore is the ceiling for a single topic score.
	MaxScore float64 `json:"max_score"`

	// MaxTopics is the number of topics retained after each update.
	MaxTopics int `json:"max_topics"`

	// MaxKeywords is the number of keywords retained after each update.
	MaxKeywords int `json:"max_keywords"`

	// ScoringTopicLimit is the size of the top-topic lookup used by scoring.
	ScoringTopicLimit int `json:"scoring_topic_limit"`

	// KeywordWeight multiplies each matched keyword's stored score.
	KeywordWeight float64 `json:"keyword_weight"`

	// Boosts are the topic score increments per event type.
	Boosts BoostConfig `json:"boosts"`

	// Affinity holds the channel affinity increments.
	Affinity AffinityConfig `json:"affinity"`

	// Discovery controls query generation.
	Discovery DiscoveryConfig `json:"discovery"`

	// ExtractionCacheSize bounds the memoized topic extraction results.
	// Zero disables memoization.
	ExtractionCacheSize int `json:"extraction_cache_size"`

	// Seed is the random seed for discovery shuffling.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// BoostConfig holds topic boosts by event type.
type BoostConfig struct {
	// WatchComplete applies when at least 80% of the content was watched.
	WatchComplete float64 `json:"watch_complete"`

	// WatchMost applies from 50%.
	WatchMost float64 `json:"watch_most"`

	// WatchPartial applies from 25%.
	WatchPartial float64 `json:"watch_partial"`

	// WatchGlance applies below 25%.
	WatchGlance float64 `json:"watch_glance"`

	Like      float64 `json:"like"`
	Subscribe float64 `json:"subscribe"`
	Search    float64 `json:"search"`
}

// Watch returns the boost for a watch ratio (watched / total).
func (b BoostConfig) Watch(ratio float64) float64 {
	switch {
	case ratio >= 0.8:
		return b.WatchComplete
	case ratio >= 0.5:
		return b.WatchMost
	case ratio >= 0.25:
		return b.WatchPartial
	default:
		return b.WatchGlance
	}
}

// AffinityConfig holds channel affinity increments.
type AffinityConfig struct {
	Like      float64 `json:"like"`
	Subscribe float64 `json:"subscribe"`
}

// DiscoveryConfig controls discovery query generation.
type DiscoveryConfig struct {
	// GenreLimit is how many top genres are sampled.
	GenreLimit int `json:"genre_limit"`

	// TopicLimit is how many top topics are sampled.
	TopicLimit int `json:"topic_limit"`

	// Modifiers are prefixed to genre queries.
	Modifiers []string `json:"modifiers"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DecayFactor:       0.95,
		MaxScore:          100.0,
		MaxTopics:         100,
		MaxKeywords:       200,
		ScoringTopicLimit: 50,
		KeywordWeight:     0.5,
		Boosts: BoostConfig{
			WatchComplete: 1.0,
			WatchMost:     0.6,
			WatchPartial:  0.3,
			WatchGlance:   0.1,
			Like:          1.5,
			Subscribe:     2.0,
			Search:        0.8,
		},
		Affinity: AffinityConfig{
			Like:      5.0,
			Subscribe: 20.0,
		},
		Discovery: DiscoveryConfig{
			GenreLimit: 10,
			TopicLimit: 20,
			Modifiers: []string{
				"best", "new", "top", "2024", "2025", "popular", "trending", "amazing", "must watch",
			},
		},
		ExtractionCacheSize: 4096,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DecayFactor <= 0 || c.DecayFactor > 1 {
		return fmt.Errorf("decay_factor must be in (0, 1], got %f", c.DecayFactor)
	}
	if c.MaxScore <= 0 {
		return fmt.Errorf("max_score must be positive, got %f", c.MaxScore)
	}
	if c.MaxTopics < 1 {
		return fmt.Errorf("max_topics must be positive, got %d", c.MaxTopics)
	}
	if c.MaxKeywords < 1 {
		return fmt.Errorf("max_keywords must be positive, got %d", c.MaxKeywords)
	}
	if c.ScoringTopicLimit < 1 {
		return fmt.Errorf("scoring_topic_limit must be positive, got %d", c.ScoringTopicLimit)
	}
	if c.KeywordWeight < 0 {
		return fmt.Errorf("keyword_weight must be non-negative, got %f", c.KeywordWeight)
	}

	b := c.Boosts
	for name, v := range map[string]float64{
		"watch_complete": b.WatchComplete, "watch_most": b.WatchMost,
		"watch_partial": b.WatchPartial, "watch_glance": b.WatchGlance,
		"like": b.Like, "subscribe": b.Subscribe, "search": b.Search,
	} {
		if v < 0 {
			return fmt.Errorf("boosts.%s must be non-negative, got %f", name, v)
		}
	}

	if c.Affinity.Like < 0 || c.Affinity.Subscribe < 0 {
		return errors.New("affinity increments must be non-negative")
	}
	if c.Discovery.GenreLimit < 0 || c.Discovery.TopicLimit < 0 {
		return errors.New("discovery limits must be non-negative")
	}
	if len(c.Discovery.Modifiers) == 0 {
		return errors.New("discovery.modifiers must not be empty")
	}
	if c.ExtractionCacheSize < 0 {
		return fmt.Errorf("extraction_cache_size must be non-negative, got %d", c.ExtractionCacheSize)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Discovery.Modifiers = append([]string(nil), c.Discovery.Modifiers...)
	return &clone
}
