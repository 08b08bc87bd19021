// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

// Package signals turns raw text (video titles, channel names, search
// queries) into topic tags, keyword tokens and a content-format
// classification. Every function in this package is pure.
package signals

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

const (
	// MinTokenLength is the minimum rune length of a topic or keyword token.
	MinTokenLength = 3

	// maxTitleTopics caps the title tokens added to a topic set.
	maxTitleTopics = 5
)

var (
	defaultOnce      sync.Once
	defaultExtractor *Extractor
)

func defaultExt() *Extractor {
	defaultOnce.Do(func() {
		defaultExtractor = NewExtractor(0)
	})
	return defaultExtractor
}

// ExtractTopics returns the topic set for a title and channel name: every
// genre whose keywords occur in the combined text (dictionary order), then up
// to five distinct significant title tokens (appearance order).
func ExtractTopics(title, channelName string) []string {
	return defaultExt().ExtractTopics(title, channelName)
}

// DetectFormat classifies content by duration first and title keywords second.
func DetectFormat(title string, durationSeconds int) string {
	return defaultExt().DetectFormat(title, durationSeconds)
}

// MatchGenres returns the names of genres with a keyword in text.
func MatchGenres(text string) []string {
	return defaultExt().MatchGenres(text)
}

// Tokenize lowercases text and splits it on non-alphanumeric boundaries.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Significant reports whether a lowercased token can serve as a topic or
// keyword: long enough and not a stop word.
func Significant(token string) bool {
	if utf8.RuneCountInString(token) < MinTokenLength {
		return false
	}
	_, stop := stopWords[token]
	return !stop
}

// Keywords returns every significant token in text, duplicates included, in
// appearance order.
func Keywords(text string) []string {
	tokens := Tokenize(text)
	out := tokens[:0]
	for _, tok := range tokens {
		if Significant(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// Genres returns a copy of the genre dictionary.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	for i, g := range genres {
		out[i] = Genre{Name: g.Name, Keywords: append([]string(nil), g.Keywords...)}
	}
	return out
}

// GenreNames returns the genre names in dictionary order.
func GenreNames() []string {
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return names
}

// IsGenre reports whether name is one of the dictionary genres.
func IsGenre(name string) bool {
	for _, g := range genres {
		if g.Name == name {
			return true
		}
	}
	return false
}

// GenresOf returns every genre (dictionary order) a topic belongs to: the
// topic is the genre name, contains one of its keywords, or is contained in
// one of them. A topic may count toward several genres.
func GenresOf(topic string) []string {
	topic = strings.ToLower(topic)
	if topic == "" {
		return nil
	}

	var out []string
	for _, g := range genres {
		if topic == g.Name {
			out = append(out, g.Name)
			continue
		}
		for _, kw := range g.Keywords {
			if strings.Contains(topic, kw) || strings.Contains(kw, topic) {
				out = append(out, g.Name)
				break
			}
		}
	}
	return out
}
