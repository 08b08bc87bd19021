// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package interest

import (
	"time"
)

// Store keys. Each holds one versioned JSON document.
const (
	KeyTopicScores     = "topic_scores"
	KeyChannelAffinity = "channel_affinity"
	KeyKeywordScores   = "keyword_scores"
)

// TopicScore is the decaying interest in one topic.
type TopicScore struct {
	// Topic is the genre name or title token.
	Topic string `json:"topic"`

	// Score is in [0, MaxScore].
	Score float64 `json:"score"`

	// LastUpdated is the last time a signal touched this topic.
	LastUpdated time.Time `json:"last_updated"`

	// DecayedAt is the point up to which decay has been applied. Zero means
	// LastUpdated.
	DecayedAt time.Time `json:"decayed_at"`

	// InteractionCount is the number of signals that touched this topic.
	InteractionCount int `json:"interaction_count"`
}

// decayBase returns the time decay is measured from.
func (t *TopicScore) decayBase() time.Time {
	if t.DecayedAt.IsZero() {
		return t.LastUpdated
	}
	return t.DecayedAt
}

// ChannelAffinity is the cumulative, decay-free affinity toward one channel.
type ChannelAffinity struct {
	ChannelID       string    `json:"channel_id"`
	ChannelName     string    `json:"channel_name"`
	AffinityScore   float64   `json:"affinity_score"`
	WatchCount      int       `json:"watch_count"`
	LikeCount       int       `json:"like_count"`
	LastInteraction time.Time `json:"last_interaction"`
}

// ChannelSignal is one interaction with a channel.
type ChannelSignal struct {
	ChannelID   string
	ChannelName string

	// WatchInterest is added to the affinity as is.
	WatchInterest float64

	// Watched marks a signal carrying a watch; only these bump WatchCount.
	Watched bool

	Liked      bool
	Subscribed bool
}

// InterestScore is the per-component breakdown of a candidate's score.
// It is computed on demand and never persisted.
type InterestScore struct {
	TotalScore    float64  `json:"total_score"`
	TopicScore    float64  `json:"topic_score"`
	KeywordScore  float64  `json:"keyword_score"`
	ChannelScore  float64  `json:"channel_score"`
	MatchedTopics []string `json:"matched_topics"`
	ContentFormat string   `json:"content_format"`
}

// Candidate is a content item to score.
type Candidate struct {
	Title           string `json:"title"`
	ChannelID       string `json:"channel_id"`
	ChannelName     string `json:"channel_name"`
	DurationSeconds int    `json:"duration_seconds"`
}

// GenreScore is a genre with the summed score of its topics.
type GenreScore struct {
	Genre string  `json:"genre"`
	Score float64 `json:"score"`
}
