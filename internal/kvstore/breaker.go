// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package kvstore

import (
	"context"
	"errors"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/flowengine/internal/logging"
	"github.com/tomtom215/flowengine/internal/metrics"
)

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("kvstore: store unavailable (circuit open)")

// BreakerStore wraps a Store in a circuit breaker so a failing disk fails
// fast instead of queuing every signal behind a slow error.
//
// Missing keys, cancelled contexts and errors returned by an UpdateFunc are
// not counted as failures; only store I/O errors trip the breaker.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker[[]byte]
}

// abortError carries an UpdateFunc error through the breaker untouched.
type abortError struct{ err error }

func (e *abortError) Error() string { return e.err.Error() }
func (e *abortError) Unwrap() error { return e.err }

// NewBreakerStore wraps inner according to cfg.
func NewBreakerStore(inner Store, cfg BreakerConfig) *BreakerStore {
	logger := logging.WithComponent("kvstore")

	settings := gobreaker.Settings{
		Name:        "kvstore",
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.StoreBreakerState.Set(float64(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("store circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var abort *abortError
			return errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded) ||
				errors.As(err, &abort)
		},
	}

	return &BreakerStore{
		inner: inner,
		cb:    gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// State reports the breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

// Get implements Store.
func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	return b.execute(func() ([]byte, error) {
		return b.inner.Get(ctx, key)
	})
}

// Set implements Store.
func (b *BreakerStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := b.execute(func() ([]byte, error) {
		return nil, b.inner.Set(ctx, key, value)
	})
	return err
}

// Update implements Store.
func (b *BreakerStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	_, err := b.execute(func() ([]byte, error) {
		return nil, b.inner.Update(ctx, key, func(current []byte, found bool) ([]byte, error) {
			next, err := fn(current, found)
			if err != nil {
				return nil, &abortError{err: err}
			}
			return next, nil
		})
	})

	var abort *abortError
	if errors.As(err, &abort) {
		return abort.err
	}
	return err
}

// Delete implements Store.
func (b *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := b.execute(func() ([]byte, error) {
		return nil, b.inner.Delete(ctx, key)
	})
	return err
}

// Close closes the wrapped store. It bypasses the breaker.
func (b *BreakerStore) Close() error {
	return b.inner.Close()
}

func (b *BreakerStore) execute(op func() ([]byte, error)) ([]byte, error) {
	v, err := b.cb.Execute(op)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return v, err
}
