// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package brain

import (
	"context"

	"github.com/tomtom215/flowengine/internal/metrics"
)

// Shape hints appended to brain discovery queries.
const (
	HintShorts      = "shorts"
	HintDocumentary = "full documentary"
	HintLive        = "live"

	pacingHintThreshold   = 0.7
	durationHintThreshold = 0.5
	liveHintThreshold     = 0.5

	// hintProbability is the share of queries that get a hint.
	hintProbability = 0.5
)

// DiscoveryQueries samples up to count topics from the vector for hour
// (falling back to the global vector when that segment has no topics),
// weighted by strength and without replacement. Some queries get a shape
// hint when the vector leans strongly toward fast, long or live content.
func (b *Brain) DiscoveryQueries(ctx context.Context, count, hour int) ([]string, error) {
	segment, err := SegmentForHour(hour)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return []string{}, nil
	}

	ub, err := b.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	vec := ub.Vector(segment)
	pool := rankTopics(vec.Topics, -1)
	if len(pool) == 0 {
		vec = &ub.Global
		pool = rankTopics(vec.Topics, -1)
	}
	hint := shapeHint(vec)

	b.rngMu.Lock()
	defer b.rngMu.Unlock()

	queries := make([]string, 0, count)
	for len(queries) < count && len(pool) > 0 {
		i := b.weightedPick(pool)
		q := pool[i].Topic
		pool = append(pool[:i], pool[i+1:]...)

		if hint != "" && b.rng.Float64() < hintProbability {
			q += " " + hint
		}
		queries = append(queries, q)
	}

	metrics.DiscoveryQueries.WithLabelValues("brain").Add(float64(len(queries)))
	return queries, nil
}

// weightedPick returns an index into pool chosen with probability
// proportional to weight. Caller holds rngMu.
func (b *Brain) weightedPick(pool []TopicWeight) int {
	total := 0.0
	for _, tw := range pool {
		total += tw.Weight
	}
	r := b.rng.Float64() * total
	for i, tw := range pool {
		r -= tw.Weight
		if r < 0 {
			return i
		}
	}
	return len(pool) - 1
}

// shapeHint picks the hint for a vector. The axes are EMA values, so a hint
// only appears after sustained behavior in one direction.
func shapeHint(v *ContentVector) string {
	switch {
	case v.IsLive >= liveHintThreshold:
		return HintLive
	case v.Duration >= durationHintThreshold:
		return HintDocumentary
	case v.Pacing >= pacingHintThreshold:
		return HintShorts
	default:
		return ""
	}
}
