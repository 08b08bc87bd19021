// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package interest

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/flowengine/internal/cache"
	"github.com/tomtom215/flowengine/internal/metrics"
)

// snapshot is a read-only view of the three stores used for scoring.
type snapshot struct {
	topics   map[string]float64 // top ScoringTopicLimit only
	keywords map[string]float64
	matcher  *cache.KeywordMatcher
	channels map[string]ChannelAffinity
}

func (e *Engine) loadSnapshot(ctx context.Context) (*snapshot, error) {
	top, err := e.TopTopics(ctx, e.config.ScoringTopicLimit)
	if err != nil {
		return nil, err
	}
	keywords, err := e.KeywordScores(ctx)
	if err != nil {
		return nil, err
	}
	channels, err := e.ChannelAffinities(ctx)
	if err != nil {
		return nil, err
	}

	s := &snapshot{
		topics:   make(map[string]float64, len(top)),
		keywords: keywords,
		matcher:  cache.NewKeywordMatcher(),
		channels: channels,
	}
	for _, ts := range top {
		s.topics[ts.Topic] = ts.Score
	}
	for kw := range keywords {
		s.matcher.Add(kw, kw)
	}
	s.matcher.Build()
	return s, nil
}

// score computes the breakdown for one candidate against the snapshot.
func (e *Engine) score(s *snapshot, c *Candidate) InterestScore {
	result := InterestScore{
		MatchedTopics: []string{},
		ContentFormat: e.extractor.DetectFormat(c.Title, c.DurationSeconds),
	}

	for _, topic := range e.extractor.ExtractTopics(c.Title, c.ChannelName) {
		if v, ok := s.topics[topic]; ok {
			result.TopicScore += v
			result.MatchedTopics = append(result.MatchedTopics, topic)
		}
	}

	// Each stored keyword counts once if it occurs anywhere in the title.
	for kw := range s.matcher.Labels(strings.ToLower(c.Title)) {
		result.KeywordScore += s.keywords[kw] * e.config.KeywordWeight
	}

	if ca, ok := s.channels[c.ChannelID]; ok {
		result.ChannelScore = ca.AffinityScore
	}

	result.TotalScore = result.TopicScore + result.KeywordScore + result.ChannelScore
	return result
}

// ScoreVideoInterest scores one candidate. It never mutates the stores.
func (e *Engine) ScoreVideoInterest(ctx context.Context, title, channelID, channelName string, durationSeconds int) (InterestScore, error) {
	start := time.Now()
	s, err := e.loadSnapshot(ctx)
	if err != nil {
		return InterestScore{}, err
	}

	result := e.score(s, &Candidate{
		Title:           title,
		ChannelID:       channelID,
		ChannelName:     channelName,
		DurationSeconds: durationSeconds,
	})
	metrics.RecordScoring(time.Since(start), 1)
	return result, nil
}

// ScoreBatch scores many candidates against a single load of the stores.
// Results are in candidate order.
func (e *Engine) ScoreBatch(ctx context.Context, candidates []Candidate) ([]InterestScore, error) {
	start := time.Now()
	s, err := e.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]InterestScore, len(candidates))
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = e.score(s, &candidates[i])
	}

	metrics.RecordScoring(time.Since(start), len(candidates))
	e.logger.Debug().
		Int("candidates", len(candidates)).
		Dur("duration", time.Since(start)).
		Msg("batch scored")
	return results, nil
}
