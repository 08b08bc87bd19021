// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package recorder

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/tomtom215/flowengine/internal/logging"
	"github.com/tomtom215/flowengine/internal/validation"
)

// Kind names a user signal.
type Kind string

// Signal kinds. The values double as metric labels.
const (
	KindWatch     Kind = "watch"
	KindLike      Kind = "like"
	KindSubscribe Kind = "subscribe"
	KindSearch    Kind = "search"
)

// Event is one user signal. It is also the line format of replay files.
type Event struct {
	ID           string    `json:"id,omitempty"`
	Kind         Kind      `json:"kind" validate:"required,oneof=watch like subscribe search"`
	Title        string    `json:"title,omitempty" validate:"max=500"`
	ChannelID    string    `json:"channel_id,omitempty" validate:"required_if=Kind subscribe,max=128"`
	ChannelName  string    `json:"channel_name,omitempty" validate:"max=200"`
	Query        string    `json:"query,omitempty" validate:"max=500"`
	WatchSeconds int       `json:"watch_seconds,omitempty" validate:"gte=0"`
	TotalSeconds int       `json:"total_seconds,omitempty" validate:"gte=0"`
	IsLive       bool      `json:"is_live,omitempty"`
	At           time.Time `json:"at,omitempty"`
}

// Validate checks field constraints and the fields each kind needs.
func (e *Event) Validate() error {
	if err := validation.ValidateStruct(e); err != nil {
		return fmt.Errorf("invalid %s event: %w", e.Kind, err)
	}
	switch e.Kind {
	case KindWatch, KindLike:
		if strings.TrimSpace(e.Title) == "" {
			return fmt.Errorf("%s event requires a title", e.Kind)
		}
	case KindSearch:
		if strings.TrimSpace(e.Query) == "" {
			return errors.New("search event requires a query")
		}
	}
	return nil
}

// Ratio is the watched fraction clamped to [0, 1]; 0 when the total is unknown.
func (e *Event) Ratio() float64 {
	if e.TotalSeconds <= 0 || e.WatchSeconds <= 0 {
		return 0
	}
	r := float64(e.WatchSeconds) / float64(e.TotalSeconds)
	if r > 1 {
		return 1
	}
	return r
}

// Free-text limits. clip enforces them before validation.
const (
	maxTitleRunes       = 500
	maxChannelNameRunes = 200
	maxQueryRunes       = 500
)

// clip shortens free-text fields to their limits so an oversized title is
// recorded truncated rather than rejected.
func (e *Event) clip() {
	e.Title = clipRunes(e.Title, maxTitleRunes)
	e.ChannelName = clipRunes(e.ChannelName, maxChannelNameRunes)
	e.Query = clipRunes(e.Query, maxQueryRunes)
}

func clipRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// stamp fills the ID and timestamp when missing and clips free text.
func (e *Event) stamp(now time.Time) {
	e.clip()
	if e.ID == "" {
		e.ID = logging.GenerateEventID()
	}
	if e.At.IsZero() {
		e.At = now
	}
}

// maxLineBytes bounds a single replay line.
const maxLineBytes = 1 << 20

// DecodeEvents reads newline-delimited JSON events from r and calls fn for
// each valid one. Blank lines and lines starting with '#' are skipped.
// Decoding stops at the first malformed line or the first error from fn.
func DecodeEvents(r io.Reader, fn func(Event) error) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line, n := 0, 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		ev.clip()
		if err := ev.Validate(); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if err := fn(ev); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("read events: %w", err)
	}
	return n, nil
}
