package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveOperation("packetloss", "write", true, 10*time.Millisecond)
	c.ObserveOperation("packetloss", "write", true, 20*time.Millisecond)
	c.ObserveOperation("packetloss", "write", false, 30*time.Millisecond)

	if got := testutil.ToFloat64(c.operations.WithLabelValues("packetloss", "write", OutcomeSuccess)); got != 2 {
		t.Fatalf("expected 2 successful writes, got %f", got)
	}
	if got := testutil.ToFloat64(c.operations.WithLabelValues("packetloss", "write", OutcomeFailure)); got != 1 {
		t.Fatalf("expected 1 failed write, got %f", got)
	}
	if samples := testutil.CollectAndCount(c.latency); samples != 1 {
		t.Fatalf("expected 1 latency series, got %d", samples)
	}
}

func TestCollectorSetResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SetResult("availability", "availability_pct", 99.5)

	if got := testutil.ToFloat64(c.results.WithLabelValues("availability", "availability_pct")); got != 99.5 {
		t.Fatalf("expected 99.5, got %f", got)
	}
}

func TestCollectorDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewCollector(reg)
}
