// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package recorder

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/flowengine/internal/brain"
	"github.com/tomtom215/flowengine/internal/metrics"
)

type call struct {
	kind      string
	arg       string
	weight    float64
	hour      int
	cancelled bool
}

// fakeInterest records calls and optionally fails or stalls.
type fakeInterest struct {
	mu    sync.Mutex
	calls []call
	err   error
	delay time.Duration
}

func (f *fakeInterest) record(ctx context.Context, kind, arg string) error {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind: kind, arg: arg, cancelled: ctx.Err() != nil})
	return f.err
}

func (f *fakeInterest) RecordWatch(ctx context.Context, title, _, _ string, _, _ int) error {
	return f.record(ctx, "watch", title)
}

func (f *fakeInterest) RecordLike(ctx context.Context, title, _, _ string) error {
	return f.record(ctx, "like", title)
}

func (f *fakeInterest) RecordSubscription(ctx context.Context, channelID, _ string) error {
	return f.record(ctx, "subscribe", channelID)
}

func (f *fakeInterest) RecordSearch(ctx context.Context, query string) error {
	return f.record(ctx, "search", query)
}

func (f *fakeInterest) snapshot() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

type fakeBrain struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (f *fakeBrain) VectorFor(c brain.Content) brain.ContentVector {
	v := brain.NewContentVector()
	v.Topics[c.Title] = 1
	return v
}

func (f *fakeBrain) RecordInteraction(_ context.Context, _ brain.ContentVector, weight float64, hour int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind: "interaction", weight: weight, hour: hour})
	return f.err
}

func (f *fakeBrain) RecordChannelSentiment(_ context.Context, channelID string, delta float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind: "sentiment", arg: channelID, weight: delta})
	return f.err
}

var fixedNow = time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC)

func newTestRecorder(t *testing.T, sink InterestSink, cfg *Config, opts ...Option) *Recorder {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
		cfg.EventsPerSecond = 0
	}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	r, err := New(sink, cfg, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, nil, zerolog.Nop()); err == nil {
		t.Error("nil sink accepted")
	}
	cfg := DefaultConfig()
	cfg.Workers = 0
	if _, err := New(&fakeInterest{}, cfg, zerolog.Nop()); err == nil {
		t.Error("zero workers accepted")
	}
}

func TestDispatch_Routing(t *testing.T) {
	tests := []struct {
		name         string
		event        Event
		wantInterest string
		wantBrain    []call
	}{
		{
			name:         "watch",
			event:        Event{Kind: KindWatch, Title: "Piano Sonata", ChannelID: "UC1", WatchSeconds: 30, TotalSeconds: 120},
			wantInterest: "watch",
			wantBrain:    []call{{kind: "interaction", weight: 0.25, hour: 21}},
		},
		{
			name:         "like with channel",
			event:        Event{Kind: KindLike, Title: "Piano Sonata", ChannelID: "UC1"},
			wantInterest: "like",
			wantBrain: []call{
				{kind: "interaction", weight: 1, hour: 21},
				{kind: "sentiment", arg: "UC1", weight: 5},
			},
		},
		{
			name:         "like without channel",
			event:        Event{Kind: KindLike, Title: "Piano Sonata"},
			wantInterest: "like",
			wantBrain:    []call{{kind: "interaction", weight: 1, hour: 21}},
		},
		{
			name:         "subscribe",
			event:        Event{Kind: KindSubscribe, ChannelID: "UC9", ChannelName: "Chess Club"},
			wantInterest: "subscribe",
			wantBrain:    []call{{kind: "sentiment", arg: "UC9", weight: 20}},
		},
		{
			name:         "search",
			event:        Event{Kind: KindSearch, Query: "sourdough"},
			wantInterest: "search",
		},
		{
			name:         "event time sets the hour",
			event:        Event{Kind: KindWatch, Title: "x", At: time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC)},
			wantInterest: "watch",
			wantBrain:    []call{{kind: "interaction", weight: 0, hour: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink, b := &fakeInterest{}, &fakeBrain{}
			r := newTestRecorder(t, sink, nil, WithBrain(b))

			if err := r.Dispatch(context.Background(), tt.event); err != nil {
				t.Fatalf("Dispatch() error = %v", err)
			}

			got := sink.snapshot()
			if len(got) != 1 || got[0].kind != tt.wantInterest {
				t.Errorf("interest calls = %+v, want one %s", got, tt.wantInterest)
			}
			if len(b.calls) != len(tt.wantBrain) {
				t.Fatalf("brain calls = %+v, want %+v", b.calls, tt.wantBrain)
			}
			for i, want := range tt.wantBrain {
				if b.calls[i] != want {
					t.Errorf("brain call %d = %+v, want %+v", i, b.calls[i], want)
				}
			}
		})
	}
}

func TestDispatch_JoinsErrors(t *testing.T) {
	errInterest := errors.New("interest down")
	errBrain := errors.New("brain down")
	r := newTestRecorder(t, &fakeInterest{err: errInterest}, nil, WithBrain(&fakeBrain{err: errBrain}))

	err := r.Dispatch(context.Background(), Event{Kind: KindLike, Title: "t", ChannelID: "UC1"})
	if !errors.Is(err, errInterest) || !errors.Is(err, errBrain) {
		t.Errorf("Dispatch() error = %v, want both sink errors", err)
	}
}

func TestDispatch_LongTitleRecordedTruncated(t *testing.T) {
	sink := &fakeInterest{}
	r := newTestRecorder(t, sink, nil)

	title := strings.Repeat("Piano ", 100_000)
	if err := r.Dispatch(context.Background(), Event{Kind: KindWatch, Title: title}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	calls := sink.snapshot()
	if len(calls) != 1 || calls[0].arg != title[:maxTitleRunes] {
		t.Errorf("sink calls = %d, want one truncated watch", len(calls))
	}
	if err := r.Enqueue(Event{Kind: KindLike, Title: title}); err != nil {
		t.Errorf("Enqueue() error = %v", err)
	}
}

func TestDispatch_InvalidEvent(t *testing.T) {
	sink := &fakeInterest{}
	r := newTestRecorder(t, sink, nil)

	if err := r.Dispatch(context.Background(), Event{Kind: KindWatch}); err == nil {
		t.Error("watch without title accepted")
	}
	if len(sink.snapshot()) != 0 {
		t.Error("invalid event reached the sink")
	}
}

func TestEnqueue_QueueFull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueSize = 1
	r := newTestRecorder(t, &fakeInterest{}, cfg)

	before := testutil.ToFloat64(metrics.RecorderDropped.WithLabelValues("search"))

	if err := r.Enqueue(Event{Kind: KindSearch, Query: "one"}); err != nil {
		t.Fatalf("first Enqueue() error = %v", err)
	}
	if err := r.Enqueue(Event{Kind: KindSearch, Query: "two"}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("second Enqueue() error = %v, want ErrQueueFull", err)
	}
	r.RecordSearch("three")

	if got := testutil.ToFloat64(metrics.RecorderDropped.WithLabelValues("search")) - before; got != 2 {
		t.Errorf("dropped metric delta = %v, want 2", got)
	}
	stats := r.Stats()
	if stats.Enqueued != 1 || stats.Dropped != 2 || stats.Queued != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestEnqueueWait_ContextDeadline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QueueSize = 1
	r := newTestRecorder(t, &fakeInterest{}, cfg)

	if err := r.Enqueue(Event{Kind: KindSearch, Query: "fill"}); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.EnqueueWait(ctx, Event{Kind: KindSearch, Query: "wait"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("EnqueueWait() error = %v, want DeadlineExceeded", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServe_ProcessesAndStops(t *testing.T) {
	sink := &fakeInterest{}
	r := newTestRecorder(t, sink, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Serve(ctx) }()

	r.RecordWatch("Piano Sonata", "UC1", "Piano Hub", 60, 120)
	r.RecordLike("Piano Sonata", "UC1", "Piano Hub")
	r.RecordSubscription("UC1", "Piano Hub")
	r.RecordSearch("chess openings")

	waitFor(t, func() bool { return r.Stats().Processed == 4 })

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if err := r.Enqueue(Event{Kind: KindSearch, Query: "late"}); !errors.Is(err, ErrStopped) {
		t.Errorf("Enqueue() after stop = %v, want ErrStopped", err)
	}
	if err := r.EnqueueWait(context.Background(), Event{Kind: KindSearch, Query: "late"}); !errors.Is(err, ErrStopped) {
		t.Errorf("EnqueueWait() after stop = %v, want ErrStopped", err)
	}
}

func TestServe_DrainsDetachedFromCancellation(t *testing.T) {
	sink := &fakeInterest{}
	r := newTestRecorder(t, sink, nil)

	for i := 0; i < 10; i++ {
		r.RecordSearch("query")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}

	calls := sink.snapshot()
	if len(calls) != 10 {
		t.Fatalf("applied %d events, want 10", len(calls))
	}
	for _, c := range calls {
		if c.cancelled {
			t.Error("event applied with a cancelled context")
		}
	}
	if s := r.Stats(); s.Processed != 10 || s.Queued != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestServe_DrainTimeoutDrops(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EventsPerSecond = 0
	cfg.Workers = 1
	cfg.DrainTimeout = 50 * time.Millisecond
	sink := &fakeInterest{delay: 30 * time.Millisecond}
	r := newTestRecorder(t, sink, cfg)

	for i := 0; i < 10; i++ {
		r.RecordSearch("slow")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = r.Serve(ctx)

	s := r.Stats()
	if s.Dropped == 0 {
		t.Errorf("Stats() = %+v, want drops after the drain timeout", s)
	}
	if s.Processed+s.Dropped != 10 {
		t.Errorf("processed %d + dropped %d != 10", s.Processed, s.Dropped)
	}
}

func TestServe_FailuresCounted(t *testing.T) {
	sink := &fakeInterest{err: errors.New("disk full")}
	r := newTestRecorder(t, sink, nil)

	r.RecordSearch("a")
	r.RecordSearch("b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = r.Serve(ctx)

	if s := r.Stats(); s.Failed != 2 || s.Processed != 0 {
		t.Errorf("Stats() = %+v, want 2 failures", s)
	}
}

func TestRecorder_String(t *testing.T) {
	r := newTestRecorder(t, &fakeInterest{}, nil)
	if r.String() != "signal-recorder" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "unthrottled", modify: func(c *Config) { c.EventsPerSecond = 0; c.Burst = 0 }},
		{name: "zero queue", modify: func(c *Config) { c.QueueSize = 0 }, wantErr: true},
		{name: "negative rate", modify: func(c *Config) { c.EventsPerSecond = -1 }, wantErr: true},
		{name: "zero burst", modify: func(c *Config) { c.Burst = 0 }, wantErr: true},
		{name: "zero drain", modify: func(c *Config) { c.DrainTimeout = 0 }, wantErr: true},
		{name: "zero task timeout", modify: func(c *Config) { c.TaskTimeout = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
