// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package signals

import (
	"strings"

	"github.com/tomtom215/flowengine/internal/cache"
)

type topicKey struct {
	title   string
	channel string
}

// Extractor performs topic and format extraction with prebuilt keyword
// automata. When created with a positive cache size it also memoizes topic
// sets per (title, channel) pair; feed scoring sees the same titles often.
//
// An Extractor is safe for concurrent use.
type Extractor struct {
	genres  *cache.KeywordMatcher
	formats *cache.KeywordMatcher
	topics  *cache.LRU[topicKey, []string]
}

// NewExtractor builds the genre and format automata. cacheSize <= 0
// disables memoization.
func NewExtractor(cacheSize int) *Extractor {
	e := &Extractor{
		genres:  cache.NewKeywordMatcher(),
		formats: cache.NewKeywordMatcher(),
	}
	for _, g := range genres {
		e.genres.AddAll(g.Keywords, g.Name)
	}
	e.genres.Build()
	for _, f := range formats {
		e.formats.AddAll(f.Keywords, f.Name)
	}
	e.formats.Build()

	if cacheSize > 0 {
		e.topics = cache.NewLRU[topicKey, []string](cacheSize, 0)
	}
	return e
}

// ExtractTopics returns the topic set for a title and channel name.
// The returned slice is owned by the caller.
func (e *Extractor) ExtractTopics(title, channelName string) []string {
	key := topicKey{title: title, channel: channelName}
	if e.topics != nil {
		if cached, ok := e.topics.Get(key); ok {
			return append([]string(nil), cached...)
		}
	}

	topics := e.extract(title, channelName)
	if e.topics != nil {
		e.topics.Add(key, append([]string(nil), topics...))
	}
	return topics
}

func (e *Extractor) extract(title, channelName string) []string {
	combined := strings.ToLower(title + " " + channelName)

	topics := e.MatchGenres(combined)
	seen := make(map[string]struct{}, len(topics)+maxTitleTopics)
	for _, t := range topics {
		seen[t] = struct{}{}
	}

	added := 0
	for _, tok := range Tokenize(title) {
		if added == maxTitleTopics {
			break
		}
		if !Significant(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		topics = append(topics, tok)
		added++
	}
	return topics
}

// MatchGenres returns the genres with a keyword in text, in dictionary order.
func (e *Extractor) MatchGenres(text string) []string {
	labels := e.genres.Labels(text)
	out := make([]string, 0, len(labels))
	for _, g := range genres {
		if _, ok := labels[g.Name]; ok {
			out = append(out, g.Name)
		}
	}
	return out
}

// DetectFormat classifies content: under two minutes is short, over thirty
// minutes is long form, otherwise the first format whose keywords occur in
// the title, otherwise standard.
func (e *Extractor) DetectFormat(title string, durationSeconds int) string {
	switch {
	case durationSeconds < shortMaxSeconds:
		return FormatShort
	case durationSeconds > longFormMinSeconds:
		return FormatLongForm
	}

	labels := e.formats.Labels(title)
	for _, f := range formats {
		if _, ok := labels[f.Name]; ok {
			return f.Name
		}
	}
	return FormatStandard
}

// CacheStats reports memoization hits and misses.
func (e *Extractor) CacheStats() (hits, misses int64, size int) {
	if e.topics == nil {
		return 0, 0, 0
	}
	return e.topics.Stats()
}
