package scenario

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"firestore-probe/internal/events"
	"firestore-probe/internal/metrics"
	"firestore-probe/internal/probe"
)

// テスト名
const (
	TestAvailability = "availability"
	TestPacketLoss   = "packetloss"
	TestThroughput   = "throughput"
)

// コレクション名
const (
	AvailabilityCollection = "firebase_availability_test"
	PacketLossCollection   = "firebase_packetloss_test"
	ThroughputCollection   = "firebase_throughput_test"
)

// State はドライバの状態を表す
type State int

const (
	StateIdle State = iota
	StateScheduled
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// RunContext は1回の計測に必要な状態をまとめる
type RunContext struct {
	Exec      *probe.Executor
	Counters  *metrics.Counters
	Collector *metrics.Collector // nil可
	Bus       *events.Bus        // nil可
	Out       io.Writer          // レポート出力先

	mu      sync.RWMutex
	state   State
	phase   string
	started time.Time
}

// NewRunContext は新しいRunContextを作成する
func NewRunContext(exec *probe.Executor) *RunContext {
	return &RunContext{
		Exec:     exec,
		Counters: metrics.New(),
		Out:      os.Stdout,
	}
}

// Status は実行中ドライバの状態
type Status struct {
	Test     string           `json:"test"`
	State    string           `json:"state"`
	Phase    string           `json:"phase,omitempty"`
	Started  *time.Time       `json:"started,omitempty"` // 実行開始前は nil
	Counters metrics.Snapshot `json:"counters"`
}

// Status は現在の状態を返す
func (rc *RunContext) Status() Status {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	status := Status{
		Test:     rc.Exec.Test(),
		State:    rc.state.String(),
		Phase:    rc.phase,
		Counters: rc.Counters.Snapshot(),
	}
	if !rc.started.IsZero() {
		started := rc.started
		status.Started = &started
	}
	return status
}

// State は現在の状態を返す
func (rc *RunContext) State() State {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.state
}

func (rc *RunContext) setState(s State) {
	rc.mu.Lock()
	rc.state = s
	if s == StateRunning && rc.started.IsZero() {
		rc.started = time.Now()
	}
	rc.mu.Unlock()
}

func (rc *RunContext) setPhase(phase string) {
	rc.mu.Lock()
	rc.phase = phase
	rc.mu.Unlock()

	rc.Bus.Publish(events.NewPhaseEvent(rc.Exec.Test(), phase))
}

func (rc *RunContext) record(out probe.Outcome) {
	if out.OK {
		rc.Counters.RecordSuccess(out.Latency)
	} else {
		rc.Counters.RecordFailure(out.Latency)
	}
}

func (rc *RunContext) setResult(stat string, v float64) {
	if rc.Collector != nil {
		rc.Collector.SetResult(rc.Exec.Test(), stat, v)
	}
}

func (rc *RunContext) finish(value float64) {
	rc.setState(StateFinished)
	rc.Bus.Publish(events.NewFinishedEvent(rc.Exec.Test(), value))
}

// sleep は ctx がキャンセルされるまで最大 d 待機する
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
