// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package interest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/flowengine/internal/metrics"
	"github.com/tomtom215/flowengine/internal/signals"
)

// KeywordScore is a keyword with its cumulative count.
type KeywordScore struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// UpdateKeywordScores adds one per occurrence of each keyword (three or more
// characters) and keeps the top MaxKeywords. Keyword scores never decay.
func (e *Engine) UpdateKeywordScores(ctx context.Context, keywords []string) error {
	filtered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if utf8.RuneCountInString(kw) >= signals.MinTokenLength {
			filtered = append(filtered, kw)
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	evicted := 0
	err := e.store.Update(ctx, KeyKeywordScores, func(current []byte, _ bool) ([]byte, error) {
		scores := decodeKeywords(&e.logger, current)
		for _, kw := range filtered {
			scores[kw]++
		}
		scores, evicted = e.evictKeywords(scores)
		return encodeKeywords(scores)
	})
	if err != nil {
		return fmt.Errorf("update keyword scores: %w", err)
	}

	metrics.RecordEvictions("keywords", evicted)
	return nil
}

func (e *Engine) evictKeywords(scores map[string]float64) (map[string]float64, int) {
	if len(scores) <= e.config.MaxKeywords {
		return scores, 0
	}

	ranked := sortKeywords(scores)
	kept := make(map[string]float64, e.config.MaxKeywords)
	for _, ks := range ranked[:e.config.MaxKeywords] {
		kept[ks.Keyword] = ks.Score
	}
	return kept, len(scores) - len(kept)
}

func sortKeywords(scores map[string]float64) []KeywordScore {
	ranked := make([]KeywordScore, 0, len(scores))
	for kw, s := range scores {
		ranked = append(ranked, KeywordScore{Keyword: kw, Score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	return ranked
}

// KeywordScores returns the full keyword map.
func (e *Engine) KeywordScores(ctx context.Context) (map[string]float64, error) {
	raw, err := e.load(ctx, KeyKeywordScores)
	if err != nil {
		return nil, err
	}
	return decodeKeywords(&e.logger, raw), nil
}

// TopKeywords returns up to limit keywords by score descending.
func (e *Engine) TopKeywords(ctx context.Context, limit int) ([]KeywordScore, error) {
	scores, err := e.KeywordScores(ctx)
	if err != nil {
		return nil, err
	}
	return topN(sortKeywords(scores), limit), nil
}
