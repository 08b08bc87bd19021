// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

// Package brain is the multi-dimensional personality model: a global taste
// vector plus one vector per time-of-day segment, channel sentiment and an
// interaction count from which a persona tier is derived.
//
// The model is independent of the interest package's topic store; both
// learn from the same events but persist and reset separately.
package brain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/flowengine/internal/kvstore"
	"github.com/tomtom215/flowengine/internal/metrics"
	"github.com/tomtom215/flowengine/internal/signals"
)

const schemaVersion = 1

type brainDoc struct {
	Version int        `json:"version"`
	Brain   *UserBrain `json:"brain"`
}

// Brain owns the persisted UserBrain. It starts uninitialized and becomes
// active on Initialize or on first use. It is safe for concurrent use.
type Brain struct {
	store     kvstore.Store
	config    *Config
	logger    zerolog.Logger
	extractor *signals.Extractor

	// mu serializes mutations so the cached state matches the store.
	mu    sync.Mutex
	state *UserBrain // nil until initialized

	rng   *rand.Rand
	rngMu sync.Mutex
}

// Option customizes a Brain.
type Option func(*Brain)

// WithRand overrides the random source used by discovery.
func WithRand(rng *rand.Rand) Option {
	return func(b *Brain) { b.rng = rng }
}

// WithExtractor overrides the signal extractor used by VectorFor.
func WithExtractor(x *signals.Extractor) Option {
	return func(b *Brain) { b.extractor = x }
}

// New creates a brain over store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(store kvstore.Store, cfg *Config, logger zerolog.Logger, opts ...Option) (*Brain, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	cfgCopy := *cfg
	b := &Brain{
		store:  store,
		config: &cfgCopy,
		logger: logger.With().Str("component", "brain").Logger(),
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for discovery sampling
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.extractor == nil {
		b.extractor = signals.NewExtractor(0)
	}
	return b, nil
}

// Initialize loads the persisted brain, or the zero brain when none exists.
// Calling it again is a no-op.
func (b *Brain) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ensureLocked(ctx)
}

// Active reports whether the brain has been initialized.
func (b *Brain) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state != nil
}

func (b *Brain) ensureLocked(ctx context.Context) error {
	if b.state != nil {
		return nil
	}

	raw, err := b.store.Get(ctx, KeyBrain)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		b.state = NewUserBrain()
		b.logger.Debug().Msg("no stored brain, starting from zero")
		return nil
	case err != nil:
		return fmt.Errorf("load brain: %w", err)
	}

	b.state = b.decode(raw)
	b.logger.Debug().Int("total_interactions", b.state.TotalInteractions).Msg("brain loaded")
	return nil
}

// mutate applies fn to a copy of the brain inside one store update and
// swaps the cache only after the write succeeded.
func (b *Brain) mutate(ctx context.Context, fn func(*UserBrain) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ensureLocked(ctx); err != nil {
		return err
	}

	var next *UserBrain
	err := b.store.Update(ctx, KeyBrain, func(current []byte, found bool) ([]byte, error) {
		next = b.state.Clone()
		if found {
			next = b.decode(current)
		}
		if err := fn(next); err != nil {
			return nil, err
		}
		return json.Marshal(brainDoc{Version: schemaVersion, Brain: next})
	})
	if err != nil {
		return fmt.Errorf("update brain: %w", err)
	}
	b.state = next
	return nil
}

// decode returns the brain in raw, or the zero brain when raw is unusable.
func (b *Brain) decode(raw []byte) *UserBrain {
	var doc brainDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		metrics.DecodeFallbacks.WithLabelValues(KeyBrain).Inc()
		b.logger.Warn().Err(err).Msg("corrupt brain document, starting from zero")
		return NewUserBrain()
	}
	if doc.Version != schemaVersion || doc.Brain == nil {
		metrics.DecodeFallbacks.WithLabelValues(KeyBrain).Inc()
		b.logger.Warn().Int("version", doc.Version).Msg("unknown brain document version, starting from zero")
		return NewUserBrain()
	}
	doc.Brain.normalize()
	return doc.Brain
}

// RecordInteraction blends vec into the global vector and into the segment
// vector for hour, then persists.
func (b *Brain) RecordInteraction(ctx context.Context, vec ContentVector, weight float64, hour int) error { //nolint:gocritic // vec is read-only
	segment, err := SegmentForHour(hour)
	if err != nil {
		return err
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("brain: weight must be finite, got %v", weight)
	}

	err = b.mutate(ctx, func(ub *UserBrain) error {
		blend(&ub.Global, &vec, b.config.Alpha, weight)
		blend(ub.Vector(segment), &vec, b.config.Alpha, weight)
		prune(&ub.Global, b.config.MaxTopics)
		prune(ub.Vector(segment), b.config.MaxTopics)
		ub.TotalInteractions++
		return nil
	})
	if err != nil {
		return err
	}

	metrics.BrainInteractions.WithLabelValues(string(segment)).Inc()
	return nil
}

// RecordChannelSentiment adds delta to a channel's sentiment, clamped to
// [-ChannelScoreLimit, ChannelScoreLimit].
func (b *Brain) RecordChannelSentiment(ctx context.Context, channelID string, delta float64) error {
	if channelID == "" {
		return errors.New("brain: channel id is required")
	}
	limit := b.config.ChannelScoreLimit
	return b.mutate(ctx, func(ub *UserBrain) error {
		v := ub.ChannelScores[channelID] + delta
		ub.ChannelScores[channelID] = math.Max(-limit, math.Min(limit, v))
		return nil
	})
}

// Snapshot returns a deep copy of the current brain.
func (b *Brain) Snapshot(ctx context.Context) (*UserBrain, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.ensureLocked(ctx); err != nil {
		return nil, err
	}
	return b.state.Clone(), nil
}

// Persona returns the current persona tier.
func (b *Brain) Persona(ctx context.Context) (Persona, error) {
	ub, err := b.Snapshot(ctx)
	if err != nil {
		return PersonaInitiate, err
	}
	return PersonaFor(ub.TotalInteractions, b.config.Personas), nil
}

// Profile returns a display projection of the brain.
func (b *Brain) Profile(ctx context.Context) (Profile, error) {
	ub, err := b.Snapshot(ctx)
	if err != nil {
		return Profile{}, err
	}
	return buildProfile(ub, b.config.Personas, 5), nil
}

// Reset overwrites the persisted brain with the zero brain. It does not
// touch the interest package's stores.
func (b *Brain) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	zero := NewUserBrain()
	raw, err := json.Marshal(brainDoc{Version: schemaVersion, Brain: zero})
	if err != nil {
		return fmt.Errorf("encode brain: %w", err)
	}
	if err := b.store.Set(ctx, KeyBrain, raw); err != nil {
		return fmt.Errorf("reset brain: %w", err)
	}
	b.state = zero

	metrics.BrainResets.Inc()
	b.logger.Info().Msg("brain reset")
	return nil
}

// VectorFor fingerprints content for RecordInteraction and Affinity.
func (b *Brain) VectorFor(c Content) ContentVector { //nolint:gocritic // Content is small
	return vectorFor(b.extractor, c)
}

// Affinity scores a candidate vector against the taste for hour: the segment
// vector mixed with the global vector. The zero brain scores everything 0.
func (b *Brain) Affinity(ctx context.Context, vec ContentVector, hour int) (float64, error) { //nolint:gocritic // vec is read-only
	segment, err := SegmentForHour(hour)
	if err != nil {
		return 0, err
	}
	ub, err := b.Snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if ub.TotalInteractions == 0 {
		return 0, nil
	}
	t := taste(ub, segment)
	return affinity(&t, &vec), nil
}
