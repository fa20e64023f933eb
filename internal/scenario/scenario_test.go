package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"firestore-probe/internal/chaos"
	"firestore-probe/internal/events"
	"firestore-probe/internal/metrics"
	"firestore-probe/internal/probe"
	"firestore-probe/internal/store"
	"firestore-probe/internal/store/memory"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestRunContext(s store.Store, test string) (*RunContext, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	rc := NewRunContext(probe.New(s, test))
	rc.Out = buf
	return rc, buf
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateIdle, "idle"},
		{StateScheduled, "scheduled"},
		{StateRunning, "running"},
		{StateFinished, "finished"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.expected)
		}
	}
}

func TestNewRunContext(t *testing.T) {
	rc := NewRunContext(probe.New(memory.New(), TestPacketLoss))

	if rc.State() != StateIdle {
		t.Errorf("expected idle state, got %s", rc.State())
	}
	status := rc.Status()
	if status.Test != TestPacketLoss {
		t.Errorf("expected test %s, got %s", TestPacketLoss, status.Test)
	}
	if status.Counters.Attempts != 0 {
		t.Errorf("expected 0 attempts, got %d", status.Counters.Attempts)
	}
}

func TestStatusStartedOmittedUntilRunning(t *testing.T) {
	rc, _ := newTestRunContext(memory.New(), TestPacketLoss)

	before, err := json.Marshal(rc.Status())
	if err != nil {
		t.Fatalf("failed to marshal status: %v", err)
	}
	if strings.Contains(string(before), "started") {
		t.Errorf("expected no started field before running, got %s", before)
	}

	cfg := PacketLossConfig{Collection: PacketLossCollection, Count: 1}
	if _, err := RunPacketLoss(context.Background(), rc, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status := rc.Status()
	if status.Started == nil || status.Started.IsZero() {
		t.Fatal("expected start time after running")
	}
	after, err := json.Marshal(status)
	if err != nil {
		t.Fatalf("failed to marshal status: %v", err)
	}
	if !strings.Contains(string(after), `"started"`) {
		t.Errorf("expected started field after running, got %s", after)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range ListPresets() {
		if _, ok := AvailabilityPreset(name); !ok {
			t.Errorf("missing availability preset %s", name)
		}
		if _, ok := PacketLossPreset(name); !ok {
			t.Errorf("missing packet loss preset %s", name)
		}
		if _, ok := ThroughputPreset(name); !ok {
			t.Errorf("missing throughput preset %s", name)
		}
	}

	if _, ok := AvailabilityPreset("unknown"); ok {
		t.Error("expected unknown preset to be rejected")
	}

	a := DefaultAvailability()
	if a.HeartbeatInterval != 60*time.Second || a.ReportInterval != time.Hour || a.Duration != 24*time.Hour {
		t.Errorf("unexpected default availability config: %+v", a)
	}
	p := DefaultPacketLoss()
	if p.Count != 1000 || p.WriteDelay != 100*time.Millisecond || p.VerifyDelay != 50*time.Millisecond {
		t.Errorf("unexpected default packet loss config: %+v", p)
	}
	th := DefaultThroughput()
	if th.Duration != 1000*time.Second || th.CleanupLimit != 1000 {
		t.Errorf("unexpected default throughput config: %+v", th)
	}
}

func TestRunContextPublishesPhases(t *testing.T) {
	bus := events.NewBus()
	ch := bus.Subscribe()

	rc, _ := newTestRunContext(memory.New(), TestPacketLoss)
	rc.Bus = bus

	cfg := PacketLossConfig{Collection: PacketLossCollection, Count: 1}
	if _, err := RunPacketLoss(context.Background(), rc, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var phases []string
	var finished bool
	timeout := time.After(time.Second)
	for !finished {
		select {
		case ev := <-ch:
			switch ev.Type {
			case events.EventPhase:
				phases = append(phases, ev.Data.Phase)
			case events.EventFinished:
				finished = true
			}
		case <-timeout:
			t.Fatal("timeout waiting for finished event")
		}
	}

	if strings.Join(phases, ",") != "write,verify" {
		t.Errorf("expected phases write,verify, got %v", phases)
	}
}

func TestRunContextSetsCollectorResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	rc, _ := newTestRunContext(memory.New(), TestPacketLoss)
	rc.Collector = collector

	cfg := PacketLossConfig{Collection: PacketLossCollection, Count: 2}
	if _, err := RunPacketLoss(context.Background(), rc, cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n, err := testutil.GatherAndCount(reg, "firestore_probe_result"); err != nil || n == 0 {
		t.Error("expected collector to expose the loss result")
	}
}

func TestFailureInjectionCounts(t *testing.T) {
	inj := chaos.New(memory.New(), chaos.Config{FailureRate: 1, Seed: 3})
	rc, buf := newTestRunContext(inj, TestPacketLoss)

	cfg := PacketLossConfig{Collection: PacketLossCollection, Count: 4}
	result, err := RunPacketLoss(context.Background(), rc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Sent != 0 || result.Verified != 0 {
		t.Errorf("expected nothing sent, got %+v", result)
	}
	if rc.Counters.Failures() != 4 {
		t.Errorf("expected 4 failures, got %d", rc.Counters.Failures())
	}
	if !strings.Contains(result.Report(), "100.00%") {
		t.Errorf("expected 100%% loss in report, got:\n%s", result.Report())
	}
	if !strings.Contains(buf.String(), "Verifying documents") {
		t.Error("expected verify phase banner in output")
	}
}
