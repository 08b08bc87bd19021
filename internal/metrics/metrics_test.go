// Flowengine - Local Interest Engine for Streaming Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flowengine

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSignal(t *testing.T) {
	beforeOK := testutil.ToFloat64(SignalsRecorded.WithLabelValues("like"))
	beforeFail := testutil.ToFloat64(SignalsFailed.WithLabelValues("like"))

	RecordSignal("like", nil)
	RecordSignal("like", nil)
	RecordSignal("like", errors.New("disk full"))

	if got := testutil.ToFloat64(SignalsRecorded.WithLabelValues("like")) - beforeOK; got != 2 {
		t.Errorf("recorded delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(SignalsFailed.WithLabelValues("like")) - beforeFail; got != 1 {
		t.Errorf("failed delta = %v, want 1", got)
	}
}

func TestRecordStoreOp(t *testing.T) {
	tests := []struct {
		name      string
		op        string
		key       string
		duration  time.Duration
		err       error
		wantError float64
	}{
		{name: "successful update", op: "update", key: "topic_scores", duration: time.Millisecond},
		{name: "fast get", op: "get", key: "keyword_scores", duration: 50 * time.Microsecond},
		{name: "failed set", op: "set", key: "flow_neuro_brain", duration: 2 * time.Millisecond, err: errors.New("io"), wantError: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(StoreOpErrors.WithLabelValues(tt.op, tt.key))
			RecordStoreOp(tt.op, tt.key, tt.duration, tt.err)
			after := testutil.ToFloat64(StoreOpErrors.WithLabelValues(tt.op, tt.key))
			if after-before != tt.wantError {
				t.Errorf("error delta = %v, want %v", after-before, tt.wantError)
			}
		})
	}
}

func TestRecordScoring(t *testing.T) {
	before := testutil.ToFloat64(ItemsScored)
	RecordScoring(3*time.Millisecond, 25)
	if got := testutil.ToFloat64(ItemsScored) - before; got != 25 {
		t.Errorf("items scored delta = %v, want 25", got)
	}
}

func TestRecordEvictions(t *testing.T) {
	before := testutil.ToFloat64(Evictions.WithLabelValues("topics"))
	RecordEvictions("topics", 0)
	RecordEvictions("topics", 7)
	if got := testutil.ToFloat64(Evictions.WithLabelValues("topics")) - before; got != 7 {
		t.Errorf("evictions delta = %v, want 7", got)
	}
}
