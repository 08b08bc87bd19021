// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package interest

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/flowengine/internal/kvstore"
	"github.com/tomtom215/flowengine/internal/metrics"
	"github.com/tomtom215/flowengine/internal/signals"
)

// ErrMissingChannel is returned when a channel signal has no channel ID.
var ErrMissingChannel = errors.New("interest: channel id is required")

// Engine maintains the topic, keyword and channel stores and answers scoring
// and discovery queries over them. It is safe for concurrent use; every
// mutation is a read-modify-write on a single store key.
type Engine struct {
	store     kvstore.Store
	config    *Config
	logger    zerolog.Logger
	extractor *signals.Extractor
	now       func() time.Time

	// Random source for discovery (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand overrides the random source used by discovery.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithExtractor overrides the signal extractor.
func WithExtractor(x *signals.Extractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// NewEngine creates an interest engine over store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store kvstore.Store, cfg *Config, logger zerolog.Logger, opts ...Option) (*Engine, error) {
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

	e := &Engine{
		store:  store,
		config: cfg.Clone(),
		logger: logger.With().Str("component", "interest").Logger(),
		now:    time.Now,
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for discovery shuffling
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.extractor == nil {
		e.extractor = signals.NewExtractor(cfg.ExtractionCacheSize)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Extractor returns the signal extractor used by the engine.
func (e *Engine) Extractor() *signals.Extractor {
	return e.extractor
}

// RecordWatch applies a watch of watchSeconds out of totalSeconds.
// The boost grows with the watched fraction and is shared by the title's
// topics and the channel affinity.
func (e *Engine) RecordWatch(ctx context.Context, title, channelID, channelName string, watchSeconds, totalSeconds int) error {
	ratio := 0.0
	if totalSeconds > 0 {
		ratio = float64(watchSeconds) / float64(totalSeconds)
	}
	boost := e.config.Boosts.Watch(ratio)

	errs := []error{
		e.UpdateTopicScores(ctx, e.extractor.ExtractTopics(title, channelName), boost),
		e.UpdateKeywordScores(ctx, signals.Keywords(title)),
	}
	if channelID != "" {
		errs = append(errs, e.UpdateChannelAffinity(ctx, ChannelSignal{
			ChannelID:     channelID,
			ChannelName:   channelName,
			WatchInterest: boost,
			Watched:       true,
		}))
	}

	err := errors.Join(errs...)
	metrics.RecordSignal("watch", err)
	e.logger.Debug().
		Str("channel_id", channelID).
		Float64("ratio", ratio).
		Float64("boost", boost).
		Err(err).
		Msg("watch recorded")
	return err
}

// RecordLike applies a like.
func (e *Engine) RecordLike(ctx context.Context, title, channelID, channelName string) error {
	errs := []error{
		e.UpdateTopicScores(ctx, e.extractor.ExtractTopics(title, channelName), e.config.Boosts.Like),
		e.UpdateKeywordScores(ctx, signals.Keywords(title)),
	}
	if channelID != "" {
		errs = append(errs, e.UpdateChannelAffinity(ctx, ChannelSignal{
			ChannelID:   channelID,
			ChannelName: channelName,
			Liked:       true,
		}))
	}

	err := errors.Join(errs...)
	metrics.RecordSignal("like", err)
	e.logger.Debug().Str("channel_id", channelID).Err(err).Msg("like recorded")
	return err
}

// RecordSubscription applies a subscription. Topics come from the channel
// name alone.
func (e *Engine) RecordSubscription(ctx context.Context, channelID, channelName string) error {
	if channelID == "" {
		metrics.RecordSignal("subscribe", ErrMissingChannel)
		return ErrMissingChannel
	}

	err := errors.Join(
		e.UpdateTopicScores(ctx, e.extractor.ExtractTopics(channelName, ""), e.config.Boosts.Subscribe),
		e.UpdateChannelAffinity(ctx, ChannelSignal{
			ChannelID:   channelID,
			ChannelName: channelName,
			Subscribed:  true,
		}),
	)
	metrics.RecordSignal("subscribe", err)
	e.logger.Debug().Str("channel_id", channelID).Err(err).Msg("subscription recorded")
	return err
}

// RecordSearch applies a search query.
func (e *Engine) RecordSearch(ctx context.Context, query string) error {
	err := errors.Join(
		e.UpdateTopicScores(ctx, e.extractor.ExtractTopics(query, ""), e.config.Boosts.Search),
		e.UpdateKeywordScores(ctx, signals.Keywords(query)),
	)
	metrics.RecordSignal("search", err)
	e.logger.Debug().Err(err).Msg("search recorded")
	return err
}

// Reset clears the topic, keyword and channel stores.
func (e *Engine) Reset(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyTopicScores, KeyKeywordScores, KeyChannelAffinity} {
		if err := e.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("reset %s: %w", key, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}
	e.logger.Info().Msg("interest stores reset")
	return nil
}

// load returns the raw document for key, treating a missing key as empty.
func (e *Engine) load(ctx context.Context, key string) ([]byte, error) {
	raw, err := e.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return raw, nil
}
