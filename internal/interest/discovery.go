// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package interest

import (
	"context"

	"github.com/tomtom215/flowengine/internal/metrics"
	"github.com/tomtom215/flowengine/internal/signals"
)

// GenerateDiscoveryQueries builds up to count search queries from the top
// genres (each prefixed with a random modifier) and the top non-genre
// topics, shuffled together. The output varies between calls.
func (e *Engine) GenerateDiscoveryQueries(ctx context.Context, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}

	genres, err := e.TopGenres(ctx, e.config.Discovery.GenreLimit)
	if err != nil {
		return nil, err
	}
	topics, err := e.TopTopics(ctx, e.config.Discovery.TopicLimit)
	if err != nil {
		return nil, err
	}

	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	e.rng.Shuffle(len(genres), func(i, j int) { genres[i], genres[j] = genres[j], genres[i] })
	e.rng.Shuffle(len(topics), func(i, j int) { topics[i], topics[j] = topics[j], topics[i] })

	modifiers := e.config.Discovery.Modifiers
	queries := make([]string, 0, 2*count)
	for _, g := range topN(genres, count) {
		modifier := modifiers[e.rng.Intn(len(modifiers))]
		queries = append(queries, modifier+" "+g.Genre)
	}

	added := 0
	for _, ts := range topics {
		if added == count {
			break
		}
		if signals.IsGenre(ts.Topic) {
			continue
		}
		queries = append(queries, ts.Topic)
		added++
	}

	e.rng.Shuffle(len(queries), func(i, j int) { queries[i], queries[j] = queries[j], queries[i] })
	queries = topN(queries, count)

	metrics.DiscoveryQueries.WithLabelValues("interest").Add(float64(len(queries)))
	return queries, nil
}
