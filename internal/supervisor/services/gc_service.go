// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flowengine/internal/metrics"
)

// GarbageCollector is implemented by stores that support value-log GC.
type GarbageCollector interface {
	// RunGC rewrites value-log files and returns how many were rewritten.
	RunGC(ratio float64) (int, error)
}

// GCServiceConfig holds configuration for the GC service.
type GCServiceConfig struct {
	// Interval is the time between GC passes.
	Interval time.Duration

	// Ratio is the discard ratio passed to the store.
	Ratio float64
}

// GCService periodically reclaims space in the key-value store. Every
// signal rewrites a whole document, so the value log grows quickly.
type GCService struct {
	store  GarbageCollector
	config GCServiceConfig
	logger zerolog.Logger
	name   string
}

// NewGCService creates a new GC service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewGCService(store GarbageCollector, cfg GCServiceConfig, logger zerolog.Logger) *GCService {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	if cfg.Ratio <= 0 || cfg.Ratio >= 1 {
		cfg.Ratio = 0.5
	}
	return &GCService{
		store:  store,
		config: cfg,
		logger: logger.With().Str("service", "store-gc").Logger(),
		name:   "store-gc-service",
	}
}

// Serve implements the suture.Service interface.
func (s *GCService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Float64("ratio", s.config.Ratio).
		Msg("store GC service starting")

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("store GC service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce performs a single GC pass. Failures are logged, not returned:
// a failed pass is retried on the next tick.
func (s *GCService) RunOnce() {
	start := time.Now()
	rewritten, err := s.store.RunGC(s.config.Ratio)
	switch {
	case err != nil:
		metrics.StoreGCRuns.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("value log GC failed")
	case rewritten > 0:
		metrics.StoreGCRuns.WithLabelValues("rewritten").Inc()
		s.logger.Info().
			Int("files_rewritten", rewritten).
			Dur("duration", time.Since(start)).
			Msg("value log GC complete")
	default:
		metrics.StoreGCRuns.WithLabelValues("noop").Inc()
		s.logger.Debug().Msg("value log GC found nothing to rewrite")
	}
}

// String returns the service name for logging.
func (s *GCService) String() string {
	return s.name
}
