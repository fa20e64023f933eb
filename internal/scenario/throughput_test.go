package scenario

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"firestore-probe/internal/chaos"
	"firestore-probe/internal/store"
	"firestore-probe/internal/store/memory"
)

func TestThroughputConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		config   ThroughputConfig
		hasError bool
	}{
		{"default", DefaultThroughput(), false},
		{"zero duration", ThroughputConfig{Collection: ThroughputCollection}, false},
		{"empty collection", ThroughputConfig{Duration: time.Second}, true},
		{"negative duration", ThroughputConfig{Collection: ThroughputCollection, Duration: -time.Second}, true},
		{"negative cleanup", ThroughputConfig{Collection: ThroughputCollection, CleanupLimit: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.hasError && err == nil {
				t.Error("expected validation error")
			}
			if !tt.hasError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestThroughputZeroDuration(t *testing.T) {
	s := memory.New()
	rc, _ := newTestRunContext(s, TestThroughput)

	cfg := ThroughputConfig{Collection: ThroughputCollection, Duration: 0, CleanupLimit: 1000}
	result, err := RunThroughput(context.Background(), rc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Units != 0 {
		t.Errorf("expected 0 data points, got %d", result.Units)
	}
	if rate, ok := result.Rate(); ok || rate != 0 {
		t.Errorf("expected no rate, got %f (ok=%v)", rate, ok)
	}
	if !strings.Contains(result.Report(), "Test duration too short.") {
		t.Errorf("unexpected report:\n%s", result.Report())
	}
	if s.Size(ThroughputCollection) != 0 {
		t.Errorf("expected no writes, got %d", s.Size(ThroughputCollection))
	}
}

func TestThroughputMeasures(t *testing.T) {
	s := memory.New()
	rc, _ := newTestRunContext(s, TestThroughput)

	cfg := ThroughputConfig{Collection: ThroughputCollection, Duration: 50 * time.Millisecond}
	result, err := RunThroughput(context.Background(), rc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Units == 0 {
		t.Fatal("expected some data points")
	}
	if result.Elapsed < cfg.Duration {
		t.Errorf("expected elapsed >= %v, got %v", cfg.Duration, result.Elapsed)
	}
	rate, ok := result.Rate()
	if !ok || rate <= 0 {
		t.Errorf("expected positive rate, got %f", rate)
	}
	if uint64(s.Size(ThroughputCollection)) != result.Units {
		t.Errorf("expected %d documents, got %d", result.Units, s.Size(ThroughputCollection))
	}
	if !strings.Contains(result.Report(), "Throughput (data points/second):") {
		t.Errorf("unexpected report:\n%s", result.Report())
	}
}

func TestThroughputCleanupBounded(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	for i := range 15 {
		if _, err := s.Write(ctx, ThroughputCollection, fmt.Sprintf("old-%02d", i), store.Record{}); err != nil {
			t.Fatalf("seed write failed: %v", err)
		}
	}

	rc, buf := newTestRunContext(s, TestThroughput)
	cfg := ThroughputConfig{Collection: ThroughputCollection, Duration: 0, CleanupLimit: 10}

	result, err := RunThroughput(ctx, rc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Cleaned != 10 {
		t.Errorf("expected 10 documents cleaned, got %d", result.Cleaned)
	}
	// 上限を超えた分は残る
	if s.Size(ThroughputCollection) != 5 {
		t.Errorf("expected 5 leftovers, got %d", s.Size(ThroughputCollection))
	}
	if !strings.Contains(buf.String(), "10 old documents deleted.") {
		t.Errorf("expected cleanup message, got:\n%s", buf.String())
	}
}

func TestThroughputCleanupDisabled(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	if _, err := s.Write(ctx, ThroughputCollection, "old", store.Record{}); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}

	rc, _ := newTestRunContext(s, TestThroughput)
	result, err := RunThroughput(ctx, rc, ThroughputConfig{Collection: ThroughputCollection})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Cleaned != 0 || s.Size(ThroughputCollection) != 1 {
		t.Errorf("expected cleanup to be skipped, cleaned %d", result.Cleaned)
	}
}

func TestThroughputCountsFailures(t *testing.T) {
	inj := chaos.New(memory.New(), chaos.Config{FailureRate: 1, Seed: 9})
	rc, _ := newTestRunContext(inj, TestThroughput)

	cfg := ThroughputConfig{Collection: ThroughputCollection, Duration: 20 * time.Millisecond}
	result, err := RunThroughput(context.Background(), rc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Units != 0 {
		t.Errorf("expected 0 units, got %d", result.Units)
	}
	if result.Failures == 0 {
		t.Error("expected failures to be counted")
	}
	rate, ok := result.Rate()
	if !ok || rate != 0 {
		t.Errorf("expected rate 0 with positive elapsed, got %f (ok=%v)", rate, ok)
	}
}

func TestThroughputInterrupted(t *testing.T) {
	rc, _ := newTestRunContext(memory.New(), TestThroughput)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, err := RunThroughput(ctx, rc, ThroughputConfig{Collection: ThroughputCollection, Duration: time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Interrupted {
		t.Error("expected interrupted result")
	}
	if time.Since(start) > time.Second {
		t.Errorf("expected prompt stop, took %v", time.Since(start))
	}
}
