// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package cache

import (
	"strings"
	"sync"
	"testing"
)

func TestKeywordMatcher_OverlappingKeywords(t *testing.T) {
	t.Parallel()

	m := NewKeywordMatcher()
	m.Add("he", "a")
	m.Add("she", "b")
	m.Add("his", "c")
	m.Add("hers", "d")
	m.Build()

	matches := m.Search("ushers")

	found := make(map[string]int)
	for _, match := range matches {
		found[match.Keyword] = match.Position
	}
	want := map[string]int{"she": 1, "he": 2, "hers": 2}
	for kw, pos := range want {
		got, ok := found[kw]
		if !ok {
			t.Errorf("expected to find %q", kw)
			continue
		}
		if got != pos {
			t.Errorf("%q position = %d, want %d", kw, got, pos)
		}
	}
	if _, ok := found["his"]; ok {
		t.Error("did not expect to find 'his'")
	}
}

func TestKeywordMatcher_CaseInsensitive(t *testing.T) {
	t.Parallel()

	m := NewKeywordMatcher()
	m.Add("Minecraft", "gaming")
	m.Build()

	if !m.Contains("MINECRAFT survival") {
		t.Error("expected case-insensitive match")
	}
	if m.Contains("mine craft") {
		t.Error("did not expect a match across a space")
	}
}

func TestKeywordMatcher_Labels(t *testing.T) {
	t.Parallel()

	m := NewKeywordMatcher()
	m.AddAll([]string{"minecraft", "gameplay", "fortnite"}, "gaming")
	m.AddAll([]string{"guitar", "cover"}, "music")
	m.AddAll([]string{"recipe"}, "food")
	m.Build()

	labels := m.Labels("Minecraft gameplay with guitar cover")
	if len(labels) != 2 {
		t.Fatalf("labels = %v, want gaming and music", labels)
	}
	for _, want := range []string{"gaming", "music"} {
		if _, ok := labels[want]; !ok {
			t.Errorf("missing label %q", want)
		}
	}
}

// Every keyword reported must agree with a naive strings.Contains scan.
func TestKeywordMatcher_AgreesWithContains(t *testing.T) {
	t.Parallel()

	keywords := []string{"art", "artist", "painting", "tin", "paint", "ting", "drawing", "raw"}
	m := NewKeywordMatcher()
	for _, kw := range keywords {
		m.Add(kw, kw)
	}
	m.Build()

	texts := []string{"oil painting for artists", "drawing raw sketches", "nothing here", "tintin"}
	for _, text := range texts {
		labels := m.Labels(text)
		for _, kw := range keywords {
			_, got := labels[kw]
			want := strings.Contains(text, kw)
			if got != want {
				t.Errorf("text %q keyword %q: matcher=%v contains=%v", text, kw, got, want)
			}
		}
	}
}

func TestKeywordMatcher_EmptyAndUnbuilt(t *testing.T) {
	t.Parallel()

	m := NewKeywordMatcher()
	if m.Contains("anything") {
		t.Error("empty matcher should not match")
	}

	m.Add("", "ignored")
	m.Add("cat", "pets")
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
	if m.Contains("cat video") {
		t.Error("unbuilt matcher should not match")
	}
	m.Build()
	if !m.Contains("cat video") {
		t.Error("built matcher should match")
	}
}

func TestKeywordMatcher_ConcurrentSearch(t *testing.T) {
	t.Parallel()

	m := NewKeywordMatcher()
	m.AddAll([]string{"news", "politics"}, "news")
	m.Build()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !m.Contains("breaking news tonight") {
				t.Error("expected match")
			}
		}()
	}
	wg.Wait()
}
