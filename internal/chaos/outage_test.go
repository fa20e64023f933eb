package chaos

import (
	"context"
	"testing"
	"time"

	"firestore-probe/internal/store/memory"
)

func TestOutageConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		config   OutageConfig
		enabled  bool
		hasError bool
	}{
		{"disabled", OutageConfig{}, false, false},
		{"valid", OutageConfig{Every: time.Second, For: 100 * time.Millisecond}, true, false},
		{"only every", OutageConfig{Every: time.Second}, false, false},
		{"too long", OutageConfig{Every: time.Second, For: time.Second}, true, true},
		{"negative", OutageConfig{Every: -time.Second}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.Enabled(); got != tt.enabled {
				t.Errorf("Enabled() = %v, want %v", got, tt.enabled)
			}
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

func TestOutagesKillAndRevive(t *testing.T) {
	inj := New(memory.New(), Config{})
	o := NewOutages(inj, OutageConfig{Every: 20 * time.Millisecond, For: 10 * time.Millisecond})

	o.Start(context.Background())

	sawKilled := false
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && !sawKilled {
		sawKilled = inj.IsKilled()
		time.Sleep(time.Millisecond)
	}

	o.Stop()

	if !sawKilled {
		t.Fatal("expected the store to be killed at least once")
	}
	if inj.IsKilled() {
		t.Error("expected the store to be revived after Stop")
	}

	stats := o.Stats()
	if stats.Outages == 0 {
		t.Error("expected outage count > 0")
	}
	if stats.Outages != stats.Recovered {
		t.Errorf("expected every outage to be recovered, got %d/%d", stats.Recovered, stats.Outages)
	}
}

func TestOutagesDisabledDoesNothing(t *testing.T) {
	inj := New(memory.New(), Config{})
	o := NewOutages(inj, OutageConfig{})

	o.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	o.Stop()

	if o.Stats().Outages != 0 {
		t.Error("expected no outages when disabled")
	}
}

func TestOutagesStopOnContextCancel(t *testing.T) {
	inj := New(memory.New(), Config{})
	o := NewOutages(inj, OutageConfig{Every: 5 * time.Millisecond, For: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	o.Start(ctx)

	deadline := time.Now().Add(time.Second)
	for !inj.IsKilled() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	done := make(chan struct{})
	go func() {
		o.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after cancel")
	}
	if inj.IsKilled() {
		t.Error("expected revive after cancellation")
	}
}
