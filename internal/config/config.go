// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package config

import (
	"time"

	"github.com/tomtom215/flowengine/internal/brain"
	"github.com/tomtom215/flowengine/internal/interest"
	"github.com/tomtom215/flowengine/internal/kvstore"
	"github.com/tomtom215/flowengine/internal/logging"
	"github.com/tomtom215/flowengine/internal/recorder"
	"github.com/tomtom215/flowengine/internal/supervisor"
	"github.com/tomtom215/flowengine/internal/supervisor/services"
)

// Config holds all application configuration.
type Config struct {
	Store      StoreConfig      `koanf:"store"`
	Interest   InterestConfig   `koanf:"interest"`
	Brain      BrainConfig      `koanf:"brain"`
	Recorder   RecorderConfig   `koanf:"recorder"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// StoreConfig holds key-value store settings.
type StoreConfig struct {
	Path             string        `koanf:"path" validate:"required_without=InMemory"`
	InMemory         bool          `koanf:"in_memory"`
	SyncWrites       bool          `koanf:"sync_writes"`
	Compression      bool          `koanf:"compression"`
	MemTableSize     int64         `koanf:"memtable_size" validate:"gte=0"`
	ValueLogFileSize int64         `koanf:"value_log_file_size" validate:"gte=0"`
	GCInterval       time.Duration `koanf:"gc_interval" validate:"gte=0"` // 0 disables the GC service
	GCRatio          float64       `koanf:"gc_ratio" validate:"gt=0,lt=1"`
	Breaker          BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds the store circuit breaker settings.
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"required_if=Enabled true"`
	OpenTimeout      time.Duration `koanf:"open_timeout" validate:"required_if=Enabled true,gte=0"`
	HalfOpenRequests uint32        `koanf:"half_open_requests"`
}

// InterestConfig holds topic, keyword and channel scoring settings.
type InterestConfig struct {
	DecayFactor         float64         `koanf:"decay_factor" validate:"gt=0,lte=1"`
	MaxScore            float64         `koanf:"max_score" validate:"gt=0"`
	MaxTopics           int             `koanf:"max_topics" validate:"min=1"`
	MaxKeywords         int             `koanf:"max_keywords" validate:"min=1"`
	ScoringTopicLimit   int             `koanf:"scoring_topic_limit" validate:"min=1"`
	KeywordWeight       float64         `koanf:"keyword_weight" validate:"gte=0"`
	Boosts              BoostsConfig    `koanf:"boosts"`
	Affinity            AffinityConfig  `koanf:"affinity"`
	Discovery           DiscoveryConfig `koanf:"discovery"`
	ExtractionCacheSize int             `koanf:"extraction_cache_size" validate:"gte=0"`
	Seed                int64           `koanf:"seed"`

	// CompactInterval is the time between decay/eviction passes. 0 disables them.
	CompactInterval  time.Duration `koanf:"compact_interval" validate:"gte=0"`
	CompactOnStartup bool          `koanf:"compact_on_startup"`
}

// BoostsConfig holds topic score increments per event.
type BoostsConfig struct {
	WatchComplete float64 `koanf:"watch_complete" validate:"gte=0"`
	WatchMost     float64 `koanf:"watch_most" validate:"gte=0"`
	WatchPartial  float64 `koanf:"watch_partial" validate:"gte=0"`
	WatchGlance   float64 `koanf:"watch_glance" validate:"gte=0"`
	Like          float64 `koanf:"like" validate:"gte=0"`
	Subscribe     float64 `koanf:"subscribe" validate:"gte=0"`
	Search        float64 `koanf:"search" validate:"gte=0"`
}

// AffinityConfig holds channel affinity increments.
type AffinityConfig struct {
	Like      float64 `koanf:"like" validate:"gte=0"`
	Subscribe float64 `koanf:"subscribe" validate:"gte=0"`
}

// DiscoveryConfig holds discovery query settings.
type DiscoveryConfig struct {
	GenreLimit int      `koanf:"genre_limit" validate:"gte=0"`
	TopicLimit int      `koanf:"topic_limit" validate:"gte=0"`
	Modifiers  []string `koanf:"modifiers" validate:"min=1,dive,notblank"`
}

// BrainConfig holds personality model settings.
type BrainConfig struct {
	Alpha             float64        `koanf:"alpha" validate:"gt=0,lte=1"`
	MaxTopics         int            `koanf:"max_topics" validate:"min=1"`
	ChannelScoreLimit float64        `koanf:"channel_score_limit" validate:"gt=0"`
	Personas          PersonasConfig `koanf:"personas"`
	Seed              int64          `koanf:"seed"`
}

// PersonasConfig holds the interaction thresholds for each persona tier.
type PersonasConfig struct {
	Explorer    int `koanf:"explorer" validate:"min=1"`
	Enthusiast  int `koanf:"enthusiast" validate:"gtfield=Explorer"`
	Connoisseur int `koanf:"connoisseur" validate:"gtfield=Enthusiast"`
	Sage        int `koanf:"sage" validate:"gtfield=Connoisseur"`
}

// RecorderConfig holds signal queue settings.
type RecorderConfig struct {
	QueueSize       int           `koanf:"queue_size" validate:"min=1"`
	Workers         int           `koanf:"workers" validate:"min=1,max=64"`
	EventsPerSecond float64       `koanf:"events_per_second" validate:"gte=0"`
	Burst           int           `koanf:"burst" validate:"gte=0"`
	DrainTimeout    time.Duration `koanf:"drain_timeout" validate:"gt=0"`
	TaskTimeout     time.Duration `koanf:"task_timeout" validate:"gt=0"`
}

// SupervisorConfig holds suture tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold" validate:"gte=0"`
	FailureDecay     float64       `koanf:"failure_decay" validate:"gte=0"`
	FailureBackoff   time.Duration `koanf:"failure_backoff" validate:"gte=0"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level     string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format    string `koanf:"format" validate:"oneof=json console"`
	Caller    bool   `koanf:"caller"`
	Timestamp bool   `koanf:"timestamp"`
}

// KVStore returns the key-value store configuration.
func (c *Config) KVStore() kvstore.Config {
	return kvstore.Config{
		Path:             c.Store.Path,
		InMemory:         c.Store.InMemory,
		SyncWrites:       c.Store.SyncWrites,
		Compression:      c.Store.Compression,
		MemTableSize:     c.Store.MemTableSize,
		ValueLogFileSize: c.Store.ValueLogFileSize,
		GCInterval:       c.Store.GCInterval,
		GCRatio:          c.Store.GCRatio,
		Breaker: kvstore.BreakerConfig{
			Enabled:          c.Store.Breaker.Enabled,
			FailureThreshold: c.Store.Breaker.FailureThreshold,
			OpenTimeout:      c.Store.Breaker.OpenTimeout,
			HalfOpenRequests: c.Store.Breaker.HalfOpenRequests,
		},
	}
}

// InterestEngine returns the interest engine configuration.
func (c *Config) InterestEngine() *interest.Config {
	i := c.Interest
	return &interest.Config{
		DecayFactor:       i.DecayFactor,
		MaxScore:          i.MaxScore,
		MaxTopics:         i.MaxTopics,
		MaxKeywords:       i.MaxKeywords,
		ScoringTopicLimit: i.ScoringTopicLimit,
		KeywordWeight:     i.KeywordWeight,
		Boosts: interest.BoostConfig{
			WatchComplete: i.Boosts.WatchComplete,
			WatchMost:     i.Boosts.WatchMost,
			WatchPartial:  i.Boosts.WatchPartial,
			WatchGlance:   i.Boosts.WatchGlance,
			Like:          i.Boosts.Like,
			Subscribe:     i.Boosts.Subscribe,
			Search:        i.Boosts.Search,
		},
		Affinity: interest.AffinityConfig{
			Like:      i.Affinity.Like,
			Subscribe: i.Affinity.Subscribe,
		},
		Discovery: interest.DiscoveryConfig{
			GenreLimit: i.Discovery.GenreLimit,
			TopicLimit: i.Discovery.TopicLimit,
			Modifiers:  append([]string(nil), i.Discovery.Modifiers...),
		},
		ExtractionCacheSize: i.ExtractionCacheSize,
		Seed:                i.Seed,
	}
}

// BrainModel returns the personality model configuration.
func (c *Config) BrainModel() *brain.Config {
	return &brain.Config{
		Alpha:             c.Brain.Alpha,
		MaxTopics:         c.Brain.MaxTopics,
		ChannelScoreLimit: c.Brain.ChannelScoreLimit,
		Personas: brain.PersonaThresholds{
			Explorer:    c.Brain.Personas.Explorer,
			Enthusiast:  c.Brain.Personas.Enthusiast,
			Connoisseur: c.Brain.Personas.Connoisseur,
			Sage:        c.Brain.Personas.Sage,
		},
		Seed: c.Brain.Seed,
	}
}

// SignalRecorder returns the recorder configuration.
func (c *Config) SignalRecorder() *recorder.Config {
	return &recorder.Config{
		QueueSize:       c.Recorder.QueueSize,
		Workers:         c.Recorder.Workers,
		EventsPerSecond: c.Recorder.EventsPerSecond,
		Burst:           c.Recorder.Burst,
		DrainTimeout:    c.Recorder.DrainTimeout,
		TaskTimeout:     c.Recorder.TaskTimeout,
	}
}

// Tree returns the supervisor tree configuration.
func (c *Config) Tree() supervisor.TreeConfig {
	return supervisor.TreeConfig{
		FailureThreshold: c.Supervisor.FailureThreshold,
		FailureDecay:     c.Supervisor.FailureDecay,
		FailureBackoff:   c.Supervisor.FailureBackoff,
		ShutdownTimeout:  c.Supervisor.ShutdownTimeout,
	}
}

// GCService returns the store GC service configuration.
func (c *Config) GCService() services.GCServiceConfig {
	return services.GCServiceConfig{
		Interval: c.Store.GCInterval,
		Ratio:    c.Store.GCRatio,
	}
}

// CompactService returns the interest compaction service configuration.
func (c *Config) CompactService() services.CompactServiceConfig {
	return services.CompactServiceConfig{
		CompactOnStartup: c.Interest.CompactOnStartup,
		Interval:         c.Interest.CompactInterval,
	}
}

// Log returns the logging configuration.
func (c *Config) Log() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Logging.Level
	lc.Format = c.Logging.Format
	lc.Caller = c.Logging.Caller
	lc.Timestamp = c.Logging.Timestamp
	return lc
}
