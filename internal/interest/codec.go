// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package interest

import (
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/flowengine/internal/metrics"
)

// schemaVersion is the document version written by this package.
const schemaVersion = 1

type topicDoc struct {
	Version int                   `json:"version"`
	Topics  map[string]TopicScore `json:"topics"`
}

type channelDoc struct {
	Version  int                        `json:"version"`
	Channels map[string]ChannelAffinity `json:"channels"`
}

type keywordDoc struct {
	Version  int                `json:"version"`
	Keywords map[string]float64 `json:"keywords"`
}

func (d *topicDoc) version() int   { return d.Version }
func (d *channelDoc) version() int { return d.Version }
func (d *keywordDoc) version() int { return d.Version }

type versioned interface {
	version() int
}

// decodeTopics decodes a topic document. A missing, corrupt or
// unknown-version document yields an empty map.
func decodeTopics(logger *zerolog.Logger, raw []byte) map[string]TopicScore {
	var doc topicDoc
	if !decodeDoc(logger, KeyTopicScores, raw, &doc) || doc.Topics == nil {
		return make(map[string]TopicScore)
	}
	return doc.Topics
}

func decodeChannels(logger *zerolog.Logger, raw []byte) map[string]ChannelAffinity {
	var doc channelDoc
	if !decodeDoc(logger, KeyChannelAffinity, raw, &doc) || doc.Channels == nil {
		return make(map[string]ChannelAffinity)
	}
	return doc.Channels
}

func decodeKeywords(logger *zerolog.Logger, raw []byte) map[string]float64 {
	var doc keywordDoc
	if !decodeDoc(logger, KeyKeywordScores, raw, &doc) || doc.Keywords == nil {
		return make(map[string]float64)
	}
	return doc.Keywords
}

func encodeTopics(topics map[string]TopicScore) ([]byte, error) {
	return json.Marshal(topicDoc{Version: schemaVersion, Topics: topics})
}

func encodeChannels(channels map[string]ChannelAffinity) ([]byte, error) {
	return json.Marshal(channelDoc{Version: schemaVersion, Channels: channels})
}

func encodeKeywords(keywords map[string]float64) ([]byte, error) {
	return json.Marshal(keywordDoc{Version: schemaVersion, Keywords: keywords})
}

// decodeDoc unmarshals raw into doc and reports whether the result is usable.
// Failures are logged and counted, never returned.
func decodeDoc(logger *zerolog.Logger, key string, raw []byte, doc versioned) bool {
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		metrics.DecodeFallbacks.WithLabelValues(key).Inc()
		logger.Warn().Err(err).Str("key", key).Msg("corrupt document, starting from empty")
		return false
	}
	if v := doc.version(); v != schemaVersion {
		metrics.DecodeFallbacks.WithLabelValues(key).Inc()
		logger.Warn().Int("version", v).Str("key", key).Msg("unknown document version, starting from empty")
		return false
	}
	return true
}
