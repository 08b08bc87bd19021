// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package signals

import (
	"reflect"
	"testing"
)

func TestExtractTopics(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		channel string
		want    []string
	}{
		{
			name:  "genre then title tokens",
			title: "Piano Sonata",
			want:  []string{"music", "piano", "sonata"},
		},
		{
			name:  "stop words and short tokens dropped",
			title: "The Cat and a Dog",
			want:  []string{"pets", "cat", "dog"},
		},
		{
			name:  "title tokens capped at five",
			title: "alpha bravo charlie delta echo foxtrot golf",
			want:  []string{"alpha", "bravo", "charlie", "delta", "echo"},
		},
		{
			name:  "duplicates collapse",
			title: "music music music",
			want:  []string{"music"},
		},
		{
			name:    "channel name contributes genres only",
			title:   "Sonata",
			channel: "Piano Hub",
			want:    []string{"music", "sonata"},
		},
		{
			name: "empty input",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractTopics(tt.title, tt.channel)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTopics(%q, %q) = %v, want %v", tt.title, tt.channel, got, tt.want)
			}
		})
	}
}

func TestExtractTopics_Idempotent(t *testing.T) {
	inputs := [][2]string{
		{"Minecraft Speedrun World Record", "GamerChannel"},
		{"Lo-fi beats to study to", "Chillhop"},
		{"", ""},
		{"日本 旅行 vlog", "Travel"},
	}
	for _, in := range inputs {
		first := ExtractTopics(in[0], in[1])
		second := ExtractTopics(in[0], in[1])
		if !reflect.DeepEqual(first, second) {
			t.Errorf("ExtractTopics(%q, %q) not idempotent: %v vs %v", in[0], in[1], first, second)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		title    string
		duration int
		want     string
	}{
		{"Full Documentary Movie", 2400, FormatLongForm},
		{"Check this #shorts clip", 300, FormatShort},
		{"anything at all", 60, FormatShort},
		{"Season 2 Episode 4", 900, FormatSeries},
		{"Live Coding Session", 600, FormatLive},
		{"Funniest Fails Compilation", 600, FormatCompilation},
		{"Quiet morning", 600, FormatStandard},
		{"Quiet morning", 120, FormatStandard},
		{"Quiet morning", 1800, FormatStandard},
		{"Documentary about whales", 1801, FormatLongForm},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := DetectFormat(tt.title, tt.duration); got != tt.want {
				t.Errorf("DetectFormat(%q, %d) = %q, want %q", tt.title, tt.duration, got, tt.want)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("How to Bake Sourdough Bread at Home, bread!")
	want := []string{"bake", "sourdough", "bread", "home", "bread"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestGenresOf(t *testing.T) {
	tests := []struct {
		topic string
		want  []string
	}{
		{"gaming", []string{"gaming"}},
		// "minecraft" also contains the art keyword "craft"; cross-genre hits are expected.
		{"minecraft", []string{"gaming", "art"}},
		{"piano", []string{"music"}},
		{"art", []string{"tech", "art"}},
		{"xyzzy", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			if got := GenresOf(tt.topic); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GenresOf(%q) = %v, want %v", tt.topic, got, tt.want)
			}
		})
	}
}

func TestGenreDictionaryShape(t *testing.T) {
	g := Genres()
	if len(g) != 17 {
		t.Fatalf("len(Genres()) = %d, want 17", len(g))
	}
	for _, genre := range g {
		if n := len(genre.Keywords); n < 10 || n > 16 {
			t.Errorf("genre %s has %d keywords, want 10-16", genre.Name, n)
		}
		if !IsGenre(genre.Name) {
			t.Errorf("IsGenre(%q) = false", genre.Name)
		}
	}

	// Genres returns a copy.
	g[0].Keywords[0] = "mutated"
	if Genres()[0].Keywords[0] == "mutated" {
		t.Error("Genres() exposes the internal dictionary")
	}
}

func TestExtractor_Memoizes(t *testing.T) {
	e := NewExtractor(8)

	first := e.ExtractTopics("Piano Sonata", "")
	first[0] = "mutated"

	second := e.ExtractTopics("Piano Sonata", "")
	if second[0] != "music" {
		t.Errorf("cached result was mutated through a returned slice: %v", second)
	}

	hits, misses, size := e.CacheStats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Errorf("CacheStats() = (%d, %d, %d), want (1, 1, 1)", hits, misses, size)
	}
}

func TestExtractor_NoCache(t *testing.T) {
	e := NewExtractor(0)
	_ = e.ExtractTopics("Piano Sonata", "")
	if hits, misses, size := e.CacheStats(); hits != 0 || misses != 0 || size != 0 {
		t.Errorf("CacheStats() = (%d, %d, %d), want zeros", hits, misses, size)
	}
}
