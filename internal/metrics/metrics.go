// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

// Package metrics holds the Prometheus collectors for the interest engine:
// signal ingestion, key-value store operations, the recorder queue, scoring
// latency and the personality model.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Signal ingestion

	SignalsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_signals_recorded_total",
			Help: "Total number of interest signals applied, by event type",
		},
		[]string{"event"}, // "watch", "like", "subscribe", "search"
	)

	SignalsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_signals_failed_total",
			Help: "Total number of interest signals that failed to persist, by event type",
		},
		[]string{"event"},
	)

	// Key-value store

	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flow_store_op_duration_seconds",
			Help:    "Duration of key-value store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
		[]string{"op", "key"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_store_op_errors_total",
			Help: "Total number of failed key-value store operations",
		},
		[]string{"op", "key"},
	)

	StoreBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flow_store_breaker_state",
			Help: "Store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_store_gc_runs_total",
			Help: "Total number of value-log GC passes, by result",
		},
		[]string{"result"}, // "rewritten", "noop", "error"
	)

	DecodeFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_decode_fallbacks_total",
			Help: "Stored documents that could not be decoded and were replaced by an empty default",
		},
		[]string{"key"},
	)

	Evictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_evictions_total",
			Help: "Entries dropped by top-N eviction, by collection",
		},
		[]string{"collection"}, // "topics", "keywords"
	)

	// Recorder

	RecorderQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "flow_recorder_queue_depth",
			Help: "Number of recording tasks waiting in the queue",
		},
	)

	RecorderDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_recorder_dropped_total",
			Help: "Recording tasks dropped because the queue was full or closed",
		},
		[]string{"event"},
	)

	// Scoring and discovery

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flow_scoring_duration_seconds",
			Help:    "Duration of interest scoring calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ItemsScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flow_items_scored_total",
			Help: "Total number of candidate items scored",
		},
	)

	DiscoveryQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_discovery_queries_total",
			Help: "Discovery queries generated, by source model",
		},
		[]string{"source"}, // "interest", "brain"
	)

	// Personality model

	BrainInteractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_brain_interactions_total",
			Help: "Interactions blended into the personality model, by time segment",
		},
		[]string{"segment"},
	)

	BrainResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flow_brain_resets_total",
			Help: "Total number of personality model resets",
		},
	)
)

// RecordSignal counts a signal by event type, splitting success and failure.
func RecordSignal(event string, err error) {
	if err != nil {
		SignalsFailed.WithLabelValues(event).Inc()
		return
	}
	SignalsRecorded.WithLabelValues(event).Inc()
}

// RecordStoreOp records the duration and outcome of a store operation.
func RecordStoreOp(op, key string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(op, key).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(op, key).Inc()
	}
}

// RecordScoring records one scoring pass over n candidates.
func RecordScoring(duration time.Duration, n int) {
	ScoringDuration.Observe(duration.Seconds())
	ItemsScored.Add(float64(n))
}

// RecordEvictions adds n evicted entries for a collection; zero is ignored.
func RecordEvictions(collection string, n int) {
	if n > 0 {
		Evictions.WithLabelValues(collection).Add(float64(n))
	}
}
