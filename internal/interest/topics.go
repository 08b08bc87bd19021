// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package interest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/flowengine/internal/metrics"
	"github.com/tomtom215/flowengine/internal/signals"
)

// UpdateTopicScores decays every stored topic, adds boost to each of topics,
// and keeps the top MaxTopics. The whole cycle is one read-modify-write.
func (e *Engine) UpdateTopicScores(ctx context.Context, topics []string, boost float64) error {
	now := e.now()
	evicted := 0

	err := e.store.Update(ctx, KeyTopicScores, func(current []byte, _ bool) ([]byte, error) {
		scores := decodeTopics(&e.logger, current)
		e.decay(scores, now)

		for _, topic := range topics {
			if topic == "" {
				continue
			}
			if existing, ok := scores[topic]; ok {
				existing.Score = math.Min(existing.Score+boost, e.config.MaxScore)
				existing.InteractionCount++
				existing.LastUpdated = now
				scores[topic] = existing
				continue
			}
			scores[topic] = TopicScore{
				Topic:            topic,
				Score:            math.Min(boost, e.config.MaxScore),
				LastUpdated:      now,
				DecayedAt:        now,
				InteractionCount: 1,
			}
		}

		scores, evicted = e.evictTopics(scores)
		return encodeTopics(scores)
	})
	if err != nil {
		return fmt.Errorf("update topic scores: %w", err)
	}

	metrics.RecordEvictions("topics", evicted)
	return nil
}

// Compact applies pending decay and eviction without adding any signal.
func (e *Engine) Compact(ctx context.Context) error {
	return e.UpdateTopicScores(ctx, nil, 0)
}

// decay attenuates every score by DecayFactor^days since it was last decayed.
func (e *Engine) decay(scores map[string]TopicScore, now time.Time) {
	for topic, ts := range scores {
		days := now.Sub(ts.decayBase()).Hours() / 24
		if days <= 0 {
			continue
		}
		ts.Score *= math.Pow(e.config.DecayFactor, days)
		ts.DecayedAt = now
		scores[topic] = ts
	}
}

// evictTopics keeps the MaxTopics highest scores and reports how many were dropped.
func (e *Engine) evictTopics(scores map[string]TopicScore) (map[string]TopicScore, int) {
	if len(scores) <= e.config.MaxTopics {
		return scores, 0
	}

	ranked := sortTopics(scores)
	kept := make(map[string]TopicScore, e.config.MaxTopics)
	for _, ts := range ranked[:e.config.MaxTopics] {
		kept[ts.Topic] = ts
	}
	return kept, len(scores) - len(kept)
}

// sortTopics returns the scores ordered by score descending, topic ascending.
func sortTopics(scores map[string]TopicScore) []TopicScore {
	ranked := make([]TopicScore, 0, len(scores))
	for topic, ts := range scores {
		ts.Topic = topic
		ranked = append(ranked, ts)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Topic < ranked[j].Topic
	})
	return ranked
}

// TopTopics returns up to limit topics by score descending.
func (e *Engine) TopTopics(ctx context.Context, limit int) ([]TopicScore, error) {
	raw, err := e.load(ctx, KeyTopicScores)
	if err != nil {
		return nil, err
	}
	return topN(sortTopics(decodeTopics(&e.logger, raw)), limit), nil
}

// TopGenres aggregates topic scores into genre buckets and returns up to
// limit genres by summed score descending.
func (e *Engine) TopGenres(ctx context.Context, limit int) ([]GenreScore, error) {
	raw, err := e.load(ctx, KeyTopicScores)
	if err != nil {
		return nil, err
	}
	return topN(aggregateGenres(decodeTopics(&e.logger, raw)), limit), nil
}

func aggregateGenres(scores map[string]TopicScore) []GenreScore {
	sums := make(map[string]float64)
	for topic, ts := range scores {
		for _, genre := range signals.GenresOf(topic) {
			sums[genre] += ts.Score
		}
	}

	out := make([]GenreScore, 0, len(sums))
	for genre, score := range sums {
		out = append(out, GenreScore{Genre: genre, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Genre < out[j].Genre
	})
	return out
}

func topN[T any](items []T, limit int) []T {
	if limit < 0 {
		limit = 0
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
