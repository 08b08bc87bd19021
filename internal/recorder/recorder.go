// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

// Package recorder provides fire-and-forget signal recording.
//
// Callers hand events to a Recorder, which queues them and applies them to
// the interest engine (and optionally the personality model) on worker
// goroutines. A full queue drops the event; failures are logged and counted
// and never reach the caller. The Recorder is a suture service: on shutdown
// it stops accepting events and drains the queue within a bounded time.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/flowengine/internal/brain"
	"github.com/tomtom215/flowengine/internal/logging"
	"github.com/tomtom215/flowengine/internal/metrics"
)

// Sentinel errors returned by Enqueue.
var (
	ErrQueueFull = errors.New("recorder: queue full")
	ErrStopped   = errors.New("recorder: stopped")
)

// Channel sentiment applied to the personality model.
const (
	likeSentiment      = 5.0
	subscribeSentiment = 20.0
	likeWeight         = 1.0
)

// Tracker is the fire-and-forget recording surface used by UI code.
type Tracker interface {
	RecordWatch(title, channelID, channelName string, watchSeconds, totalSeconds int)
	RecordLike(title, channelID, channelName string)
	RecordSubscription(channelID, channelName string)
	RecordSearch(query string)
}

// InterestSink applies signals to the topic, keyword and channel stores.
type InterestSink interface {
	RecordWatch(ctx context.Context, title, channelID, channelName string, watchSeconds, totalSeconds int) error
	RecordLike(ctx context.Context, title, channelID, channelName string) error
	RecordSubscription(ctx context.Context, channelID, channelName string) error
	RecordSearch(ctx context.Context, query string) error
}

// BrainSink applies signals to the personality model.
type BrainSink interface {
	VectorFor(c brain.Content) brain.ContentVector
	RecordInteraction(ctx context.Context, vec brain.ContentVector, weight float64, hour int) error
	RecordChannelSentiment(ctx context.Context, channelID string, delta float64) error
}

// Stats holds runtime counters.
type Stats struct {
	Enqueued  int64 `json:"enqueued"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
	Dropped   int64 `json:"dropped"`
	Queued    int   `json:"queued"`
}

// Recorder queues events and applies them on worker goroutines.
type Recorder struct {
	interest InterestSink
	brain    BrainSink
	config   *Config
	logger   zerolog.Logger
	limiter  *rate.Limiter
	now      func() time.Time

	queue chan Event

	// mu guards stopped against concurrent enqueues. done is closed first
	// so blocked EnqueueWait calls release mu.
	mu       sync.RWMutex
	stopped  bool
	done     chan struct{}
	stopOnce sync.Once

	enqueued  atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

var _ Tracker = (*Recorder)(nil)

// Option customizes a Recorder.
type Option func(*Recorder)

// WithBrain also feeds events to the personality model.
func WithBrain(b BrainSink) Option {
	return func(r *Recorder) { r.brain = b }
}

// WithClock overrides the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// New creates a Recorder applying events to sink.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(sink InterestSink, cfg *Config, logger zerolog.Logger, opts ...Option) (*Recorder, error) {
	if sink == nil {
		return nil, errors.New("interest sink is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	limit := rate.Inf
	if cfg.EventsPerSecond > 0 {
		limit = rate.Limit(cfg.EventsPerSecond)
	}

	cfgCopy := *cfg
	r := &Recorder{
		interest: sink,
		config:   &cfgCopy,
		logger:   logger.With().Str("service", "signal-recorder").Logger(),
		limiter:  rate.NewLimiter(limit, cfg.Burst),
		now:      time.Now,
		queue:    make(chan Event, cfg.QueueSize),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RecordWatch queues a watch event.
func (r *Recorder) RecordWatch(title, channelID, channelName string, watchSeconds, totalSeconds int) {
	r.submit(Event{
		Kind:         KindWatch,
		Title:        title,
		ChannelID:    channelID,
		ChannelName:  channelName,
		WatchSeconds: watchSeconds,
		TotalSeconds: totalSeconds,
	})
}

// RecordLike queues a like event.
func (r *Recorder) RecordLike(title, channelID, channelName string) {
	r.submit(Event{Kind: KindLike, Title: title, ChannelID: channelID, ChannelName: channelName})
}

// RecordSubscription queues a subscription event.
func (r *Recorder) RecordSubscription(channelID, channelName string) {
	r.submit(Event{Kind: KindSubscribe, ChannelID: channelID, ChannelName: channelName})
}

// RecordSearch queues a search event.
func (r *Recorder) RecordSearch(query string) {
	r.submit(Event{Kind: KindSearch, Query: query})
}

// submit enqueues and logs refusals; callers never see the error.
func (r *Recorder) submit(ev Event) { //nolint:gocritic // Event is copied into the queue anyway
	if err := r.Enqueue(ev); err != nil {
		r.logger.Debug().Err(err).Str("event", string(ev.Kind)).Msg("signal not queued")
	}
}

// Enqueue validates ev, stamps it and queues it without blocking.
// It returns ErrQueueFull when the queue is full and ErrStopped after shutdown.
func (r *Recorder) Enqueue(ev Event) error { //nolint:gocritic // Event is copied into the queue anyway
	ev.stamp(r.now())
	if err := ev.Validate(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return ErrStopped
	}

	select {
	case r.queue <- ev:
		r.enqueued.Add(1)
		metrics.RecorderQueueDepth.Set(float64(len(r.queue)))
		return nil
	default:
		r.dropped.Add(1)
		metrics.RecorderDropped.WithLabelValues(string(ev.Kind)).Inc()
		return ErrQueueFull
	}
}

// EnqueueWait is Enqueue that waits for queue space until ctx is done.
// Replay uses it so bulk ingestion is never dropped.
func (r *Recorder) EnqueueWait(ctx context.Context, ev Event) error { //nolint:gocritic // Event is copied into the queue anyway
	ev.stamp(r.now())
	if err := ev.Validate(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.stopped {
		return ErrStopped
	}

	select {
	case r.queue <- ev:
		r.enqueued.Add(1)
		metrics.RecorderQueueDepth.Set(float64(len(r.queue)))
		return nil
	case <-r.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Serve runs the workers until ctx is cancelled, then drains the queue.
// Implements suture.Service.
func (r *Recorder) Serve(ctx context.Context) error {
	r.logger.Info().
		Int("workers", r.config.Workers).
		Int("queue_size", r.config.QueueSize).
		Msg("Signal recorder started")

	var wg sync.WaitGroup
	for i := 0; i < r.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.work(ctx)
		}()
	}
	wg.Wait()

	r.drain(ctx)
	r.logger.Info().Int64("processed", r.processed.Load()).Msg("Signal recorder stopped")
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (r *Recorder) String() string {
	return "signal-recorder"
}

func (r *Recorder) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-r.queue:
			metrics.RecorderQueueDepth.Set(float64(len(r.queue)))
			// A cancelled wait means shutdown; the event in hand is still applied.
			_ = r.limiter.Wait(ctx)
			r.apply(ctx, ev)
		}
	}
}

// drain stops intake and applies what is left until the drain timeout,
// dropping the remainder.
func (r *Recorder) drain(ctx context.Context) {
	r.stopOnce.Do(func() { close(r.done) })
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.DrainTimeout)
	defer cancel()

	drained, lost := 0, 0
	for {
		select {
		case ev := <-r.queue:
			if dctx.Err() != nil {
				lost++
				r.dropped.Add(1)
				metrics.RecorderDropped.WithLabelValues(string(ev.Kind)).Inc()
				continue
			}
			r.apply(dctx, ev)
			drained++
		default:
			metrics.RecorderQueueDepth.Set(0)
			if drained > 0 || lost > 0 {
				r.logger.Info().Int("drained", drained).Int("dropped", lost).Msg("recorder queue drained")
			}
			return
		}
	}
}

// apply runs one event detached from the caller's cancellation.
func (r *Recorder) apply(ctx context.Context, ev Event) { //nolint:gocritic // Event is small
	tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.TaskTimeout)
	defer cancel()
	tctx = logging.ContextWithEventID(tctx, ev.ID)

	defer func() {
		if p := recover(); p != nil {
			r.failed.Add(1)
			r.logger.Error().Interface("panic", p).Str("event_id", ev.ID).Msg("panic applying signal")
		}
	}()

	if err := r.Dispatch(tctx, ev); err != nil {
		r.failed.Add(1)
		logging.Ctx(tctx).Warn().Err(err).Str("event", string(ev.Kind)).Msg("signal failed")
		return
	}
	r.processed.Add(1)
}

// Dispatch applies ev synchronously to the interest engine and, when
// configured, the personality model. Errors from each sink are joined.
func (r *Recorder) Dispatch(ctx context.Context, ev Event) error { //nolint:gocritic // Event is small
	ev.stamp(r.now())
	if err := ev.Validate(); err != nil {
		return err
	}
	hour := ev.At.Hour()

	var errs []error
	switch ev.Kind {
	case KindWatch:
		errs = append(errs, r.interest.RecordWatch(ctx, ev.Title, ev.ChannelID, ev.ChannelName, ev.WatchSeconds, ev.TotalSeconds))
		if r.brain != nil {
			vec := r.brain.VectorFor(brain.Content{
				Title:           ev.Title,
				ChannelName:     ev.ChannelName,
				DurationSeconds: ev.TotalSeconds,
				IsLive:          ev.IsLive,
			})
			errs = append(errs, r.brain.RecordInteraction(ctx, vec, ev.Ratio(), hour))
		}

	case KindLike:
		errs = append(errs, r.interest.RecordLike(ctx, ev.Title, ev.ChannelID, ev.ChannelName))
		if r.brain != nil {
			vec := r.brain.VectorFor(brain.Content{
				Title:           ev.Title,
				ChannelName:     ev.ChannelName,
				DurationSeconds: ev.TotalSeconds,
				IsLive:          ev.IsLive,
			})
			errs = append(errs, r.brain.RecordInteraction(ctx, vec, likeWeight, hour))
			if ev.ChannelID != "" {
				errs = append(errs, r.brain.RecordChannelSentiment(ctx, ev.ChannelID, likeSentiment))
			}
		}

	case KindSubscribe:
		errs = append(errs, r.interest.RecordSubscription(ctx, ev.ChannelID, ev.ChannelName))
		if r.brain != nil {
			errs = append(errs, r.brain.RecordChannelSentiment(ctx, ev.ChannelID, subscribeSentiment))
		}

	case KindSearch:
		errs = append(errs, r.interest.RecordSearch(ctx, ev.Query))
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot of the runtime counters.
func (r *Recorder) Stats() Stats {
	return Stats{
		Enqueued:  r.enqueued.Load(),
		Processed: r.processed.Load(),
		Failed:    r.failed.Load(),
		Dropped:   r.dropped.Load(),
		Queued:    len(r.queue),
	}
}
