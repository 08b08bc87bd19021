// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/flowengine/internal/brain"
	"github.com/tomtom215/flowengine/internal/interest"
	"github.com/tomtom215/flowengine/internal/kvstore"
	"github.com/tomtom215/flowengine/internal/recorder"
	"github.com/tomtom215/flowengine/internal/supervisor"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"flow.yaml",
	"flow.yml",
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix is the prefix of environment variables read into the configuration.
const EnvPrefix = "FLOW_"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
// Component defaults are the source of truth; this only copies them.
func defaultConfig() *Config {
	st := kvstore.DefaultConfig()
	in := interest.DefaultConfig()
	br := brain.DefaultConfig()
	rc := recorder.DefaultConfig()
	tr := supervisor.DefaultTreeConfig()

	return &Config{
		Store: StoreConfig{
			Path:             st.Path,
			InMemory:         st.InMemory,
			SyncWrites:       st.SyncWrites,
			Compression:      st.Compression,
			MemTableSize:     st.MemTableSize,
			ValueLogFileSize: st.ValueLogFileSize,
			GCInterval:       st.GCInterval,
			GCRatio:          st.GCRatio,
			Breaker: BreakerConfig{
				Enabled:          st.Breaker.Enabled,
				FailureThreshold: st.Breaker.FailureThreshold,
				OpenTimeout:      st.Breaker.OpenTimeout,
				HalfOpenRequests: st.Breaker.HalfOpenRequests,
			},
		},
		Interest: InterestConfig{
			DecayFactor:       in.DecayFactor,
			MaxScore:          in.MaxScore,
			MaxTopics:         in.MaxTopics,
			MaxKeywords:       in.MaxKeywords,
			ScoringTopicLimit: in.ScoringTopicLimit,
			KeywordWeight:     in.KeywordWeight,
			Boosts: BoostsConfig{
				WatchComplete: in.Boosts.WatchComplete,
				WatchMost:     in.Boosts.WatchMost,
				WatchPartial:  in.Boosts.WatchPartial,
				WatchGlance:   in.Boosts.WatchGlance,
				Like:          in.Boosts.Like,
				Subscribe:     in.Boosts.Subscribe,
				Search:        in.Boosts.Search,
			},
			Affinity: AffinityConfig{
				Like:      in.Affinity.Like,
				Subscribe: in.Affinity.Subscribe,
			},
			Discovery: DiscoveryConfig{
				GenreLimit: in.Discovery.GenreLimit,
				TopicLimit: in.Discovery.TopicLimit,
				Modifiers:  in.Discovery.Modifiers,
			},
			ExtractionCacheSize: in.ExtractionCacheSize,
			CompactInterval:     6 * time.Hour,
			CompactOnStartup:    true,
		},
		Brain: BrainConfig{
			Alpha:             br.Alpha,
			MaxTopics:         br.MaxTopics,
			ChannelScoreLimit: br.ChannelScoreLimit,
			Personas: PersonasConfig{
				Explorer:    br.Personas.Explorer,
				Enthusiast:  br.Personas.Enthusiast,
				Connoisseur: br.Personas.Connoisseur,
				Sage:        br.Personas.Sage,
			},
		},
		Recorder: RecorderConfig{
			QueueSize:       rc.QueueSize,
			Workers:         rc.Workers,
			EventsPerSecond: rc.EventsPerSecond,
			Burst:           rc.Burst,
			DrainTimeout:    rc.DrainTimeout,
			TaskTimeout:     rc.TaskTimeout,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: tr.FailureThreshold,
			FailureDecay:     tr.FailureDecay,
			FailureBackoff:   tr.FailureBackoff,
			ShutdownTimeout:  tr.ShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Caller:    false,
			Timestamp: true,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config File: path, or the first of CONFIG_PATH and DefaultConfigPaths that exists
//  3. Environment Variables: FLOW_-prefixed overrides
//
// Precedence is ENV > File > Defaults. The result is validated.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional unless named explicitly)
	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// FLOW_STORE_PATH -> store.path
	// FLOW_STORE_BREAKER_ENABLED -> store.breaker.enabled
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"interest.discovery.modifiers",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// sections are the top-level config keys. nested lists the sub-sections
// whose fields are addressed with one more level.
var (
	sections = []string{"store", "interest", "brain", "recorder", "supervisor", "logging"}
	nested   = map[string][]string{
		"store":    {"breaker"},
		"interest": {"boosts", "affinity", "discovery"},
		"brain":    {"personas"},
	}
)

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - FLOW_STORE_PATH -> store.path
//   - FLOW_STORE_IN_MEMORY -> store.in_memory
//   - FLOW_INTEREST_BOOSTS_LIKE -> interest.boosts.like
//   - FLOW_LOGGING_LEVEL -> logging.level
//
// Unknown sections map to "" and are skipped so unrelated FLOW_ variables
// do not pollute the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	for _, section := range sections {
		rest, ok := strings.CutPrefix(key, section+"_")
		if !ok || rest == "" {
			continue
		}
		for _, sub := range nested[section] {
			if field, ok := strings.CutPrefix(rest, sub+"_"); ok && field != "" {
				return section + "." + sub + "." + field
			}
		}
		return section + "." + rest
	}
	return ""
}
