// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Compactor defines the interface for the interest engine's maintenance
// pass. This allows the service to work with the engine without circular
// imports.
type Compactor interface {
	// Compact applies pending decay and eviction to the topic store.
	Compact(ctx context.Context) error
}

// CompactServiceConfig holds configuration for the compaction service.
type CompactServiceConfig struct {
	// CompactOnStartup runs a pass when the service starts.
	CompactOnStartup bool

	// Interval is how often to compact.
	Interval time.Duration

	// Timeout bounds a single pass.
	Timeout time.Duration
}

// CompactService wraps interest-store compaction for Suture supervision.
// Decay is otherwise applied only when a signal arrives, so an idle device
// would keep stale scores until the next interaction.
type CompactService struct {
	engine Compactor
	config CompactServiceConfig
	logger zerolog.Logger
	name   string
}

// NewCompactService creates a new compaction service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCompactService(engine Compactor, cfg CompactServiceConfig, logger zerolog.Logger) *CompactService {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	return &CompactService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "interest-compact").Logger(),
		name:   "interest-compact-service",
	}
}

// Serve implements the suture.Service interface.
func (s *CompactService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("compact_on_startup", s.config.CompactOnStartup).
		Dur("interval", s.config.Interval).
		Msg("compaction service starting")

	if s.config.CompactOnStartup {
		if err := s.compact(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("initial compaction failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("compaction service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.compact(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled compaction failed")
			}
		}
	}
}

func (s *CompactService) compact(ctx context.Context) error {
	compactCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.engine.Compact(compactCtx); err != nil {
		return err
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("interest stores compacted")
	return nil
}

// String returns the service name for logging.
func (s *CompactService) String() string {
	return s.name
}
