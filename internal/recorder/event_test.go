// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package recorder

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{"watch", Event{Kind: KindWatch, Title: "t", WatchSeconds: 10, TotalSeconds: 20}, false},
		{"watch without title", Event{Kind: KindWatch, Title: "  "}, true},
		{"negative seconds", Event{Kind: KindWatch, Title: "t", WatchSeconds: -1}, true},
		{"like", Event{Kind: KindLike, Title: "t"}, false},
		{"subscribe", Event{Kind: KindSubscribe, ChannelID: "UC1"}, false},
		{"subscribe without channel", Event{Kind: KindSubscribe, ChannelName: "name"}, true},
		{"search", Event{Kind: KindSearch, Query: "q"}, false},
		{"empty search", Event{Kind: KindSearch}, true},
		{"unknown kind", Event{Kind: "share", Title: "t"}, true},
		{"missing kind", Event{Title: "t"}, true},
		{"title too long", Event{Kind: KindLike, Title: strings.Repeat("x", 501)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.event.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEvent_Ratio(t *testing.T) {
	tests := []struct {
		watch, total int
		want         float64
	}{
		{30, 120, 0.25},
		{120, 120, 1},
		{500, 120, 1},
		{30, 0, 0},
		{0, 120, 0},
	}
	for _, tt := range tests {
		ev := Event{WatchSeconds: tt.watch, TotalSeconds: tt.total}
		if got := ev.Ratio(); got != tt.want {
			t.Errorf("Ratio(%d/%d) = %v, want %v", tt.watch, tt.total, got, tt.want)
		}
	}
}

func TestEvent_Stamp(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	ev := Event{Kind: KindSearch, Query: "q"}
	ev.stamp(now)
	if ev.ID == "" || !ev.At.Equal(now) {
		t.Errorf("stamp() = %+v", ev)
	}

	at := now.Add(-time.Hour)
	kept := Event{ID: "fixed", At: at}
	kept.stamp(now)
	if kept.ID != "fixed" || !kept.At.Equal(at) {
		t.Errorf("stamp() overwrote existing fields: %+v", kept)
	}
}

func TestEvent_Clip(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		n         int
		wantRunes int
	}{
		{"short", "Piano Sonata", maxTitleRunes, 12},
		{"exact", strings.Repeat("x", maxTitleRunes), maxTitleRunes, maxTitleRunes},
		{"huge ascii", strings.Repeat("x", 400_000), maxTitleRunes, maxTitleRunes},
		{"multibyte", strings.Repeat("ピ", 600), maxTitleRunes, maxTitleRunes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clipRunes(tt.in, tt.n)
			if n := utf8.RuneCountInString(got); n != tt.wantRunes {
				t.Errorf("clipRunes() = %d runes, want %d", n, tt.wantRunes)
			}
			if !utf8.ValidString(got) {
				t.Error("clipRunes() split a rune")
			}
		})
	}

	ev := Event{
		Kind:        KindWatch,
		Title:       strings.Repeat("t", 400_000),
		ChannelID:   "UC1",
		ChannelName: strings.Repeat("c", 1_000),
	}
	ev.stamp(time.Now())
	if err := ev.Validate(); err != nil {
		t.Errorf("Validate() after stamp error = %v", err)
	}
	if len(ev.Title) != maxTitleRunes || len(ev.ChannelName) != maxChannelNameRunes {
		t.Errorf("clipped lengths = %d/%d", len(ev.Title), len(ev.ChannelName))
	}
}

func TestDecodeEvents(t *testing.T) {
	input := `# replay fixture
{"kind":"watch","title":"Piano Sonata","channel_id":"UC1","watch_seconds":60,"total_seconds":120}

{"kind":"like","title":"Piano Sonata","channel_id":"UC1","at":"2026-03-01T20:15:00Z"}
{"kind":"search","query":"chess openings"}
`
	var got []Event
	n, err := DecodeEvents(strings.NewReader(input), func(ev Event) error {
		got = append(got, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("DecodeEvents() error = %v", err)
	}
	if n != 3 || len(got) != 3 {
		t.Fatalf("decoded %d events, want 3", n)
	}
	if got[0].Kind != KindWatch || got[0].WatchSeconds != 60 {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1].At.Hour() != 20 {
		t.Errorf("second event hour = %d, want 20", got[1].At.Hour())
	}

	long := `{"kind":"search","query":"` + strings.Repeat("q", 2_000) + `"}`
	n, err = DecodeEvents(strings.NewReader(long), func(ev Event) error {
		if len(ev.Query) != maxQueryRunes {
			t.Errorf("query length = %d, want %d", len(ev.Query), maxQueryRunes)
		}
		return nil
	})
	if err != nil || n != 1 {
		t.Errorf("DecodeEvents(long query) = %d, %v", n, err)
	}
}

func TestDecodeEvents_Errors(t *testing.T) {
	errStop := errors.New("stop")

	tests := []struct {
		name     string
		input    string
		fn       func(Event) error
		wantLine string
		wantN    int
	}{
		{
			name:     "malformed json",
			input:    "{\"kind\":\"search\",\"query\":\"a\"}\n{not json}\n",
			wantLine: "line 2",
			wantN:    1,
		},
		{
			name:     "invalid event",
			input:    "\n{\"kind\":\"watch\"}\n",
			wantLine: "line 2",
		},
		{
			name:     "callback error",
			input:    "{\"kind\":\"search\",\"query\":\"a\"}\n",
			fn:       func(Event) error { return errStop },
			wantLine: "line 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := tt.fn
			if fn == nil {
				fn = func(Event) error { return nil }
			}
			n, err := DecodeEvents(strings.NewReader(tt.input), fn)
			if err == nil || !strings.Contains(err.Error(), tt.wantLine) {
				t.Errorf("DecodeEvents() error = %v, want mention of %q", err, tt.wantLine)
			}
			if n != tt.wantN {
				t.Errorf("DecodeEvents() n = %d, want %d", n, tt.wantN)
			}
		})
	}
}
