// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

// Package cache provides the in-memory data structures behind signal
// extraction: a multi-keyword matcher and a bounded LRU for memoized results.
package cache

import (
	"strings"
	"sync"
)

// KeywordMatcher is an Aho-Corasick automaton over keyword -> label pairs.
// It finds every keyword occurring as a substring of a text in
// O(n + m + z) time (text length, total keyword length, matches), which is
// equivalent to calling strings.Contains once per keyword.
//
// Matching is case-insensitive.
//
//	m := NewKeywordMatcher()
//	m.Add("minecraft", "gaming")
//	m.Add("guitar", "music")
//	m.Build()
//	m.Labels("Minecraft guitar cover") // {"gaming", "music"}
type KeywordMatcher struct {
	mu       sync.RWMutex
	root     *acNode
	keywords []keyword
	built    bool
}

type keyword struct {
	text  string
	label string
}

type acNode struct {
	children map[rune]*acNode
	failure  *acNode
	output   []int // indices into keywords ending at this node
}

// Match is a keyword hit in a text.
type Match struct {
	Keyword  string
	Label    string
	Position int // byte offset of the keyword start in the lowercased text
}

// NewKeywordMatcher creates an empty matcher.
func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{root: newACNode()}
}

func newACNode() *acNode {
	return &acNode{children: make(map[rune]*acNode)}
}

// Add registers a keyword under a label. Build must be called again before searching.
func (m *KeywordMatcher) Add(kw, label string) {
	kw = strings.ToLower(kw)
	if kw == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.keywords = append(m.keywords, keyword{text: kw, label: label})
	m.built = false
}

// AddAll registers every keyword under the same label.
func (m *KeywordMatcher) AddAll(keywords []string, label string) {
	for _, kw := range keywords {
		m.Add(kw, label)
	}
}

// Build constructs the trie and failure links.
func (m *KeywordMatcher) Build() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.built {
		return
	}

	m.root = newACNode()
	for i, kw := range m.keywords {
		node := m.root
		for _, ch := range kw.text {
			next := node.children[ch]
			if next == nil {
				next = newACNode()
				node.children[ch] = next
			}
			node = next
		}
		node.output = append(node.output, i)
	}

	// BFS over the trie; each node fails to the longest proper suffix in the trie.
	queue := make([]*acNode, 0, len(m.root.children))
	for _, child := range m.root.children {
		child.failure = m.root
		queue = append(queue, child)
	}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for ch, child := range current.children {
			queue = append(queue, child)

			fail := current.failure
			for fail != nil && fail.children[ch] == nil {
				fail = fail.failure
			}
			if fail == nil {
				child.failure = m.root
				continue
			}
			child.failure = fail.children[ch]
			child.output = append(child.output, child.failure.output...)
		}
	}

	m.built = true
}

// Search returns every keyword occurrence in text, in text order.
func (m *KeywordMatcher) Search(text string) []Match {
	var matches []Match
	m.scan(text, func(kw keyword, end int) bool {
		matches = append(matches, Match{Keyword: kw.text, Label: kw.label, Position: end - len(kw.text) + 1})
		return true
	})
	return matches
}

// Labels returns the set of labels with at least one keyword in text.
func (m *KeywordMatcher) Labels(text string) map[string]struct{} {
	labels := make(map[string]struct{})
	m.scan(text, func(kw keyword, _ int) bool {
		labels[kw.label] = struct{}{}
		return true
	})
	return labels
}

// Contains reports whether any keyword occurs in text.
func (m *KeywordMatcher) Contains(text string) bool {
	found := false
	m.scan(text, func(keyword, int) bool {
		found = true
		return false
	})
	return found
}

// Len returns the number of registered keywords.
func (m *KeywordMatcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keywords)
}

// scan walks the automaton over the lowercased text and calls visit for every
// hit with the byte index of the hit's last rune; visit returns false to stop.
func (m *KeywordMatcher) scan(text string, visit func(kw keyword, end int) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.built || len(m.keywords) == 0 {
		return
	}

	node := m.root
	for i, ch := range strings.ToLower(text) {
		for node != nil && node.children[ch] == nil {
			node = node.failure
		}
		if node == nil {
			node = m.root
			continue
		}
		node = node.children[ch]

		for _, idx := range node.output {
			kw := m.keywords[idx]
			// i is the start of the last rune; report the last byte.
			end := i + len(string(ch)) - 1
			if !visit(kw, end) {
				return
			}
		}
	}
}
