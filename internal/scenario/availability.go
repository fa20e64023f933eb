package scenario

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firestore-probe/internal/events"
	"firestore-probe/internal/logger"
	"firestore-probe/internal/metrics"
	"firestore-probe/internal/schedule"
	"firestore-probe/internal/store"
)

// AvailabilityConfig は可用性テストの設定
type AvailabilityConfig struct {
	Collection        string        // 書き込み先コレクション
	HeartbeatInterval time.Duration // ハートビート間隔
	ReportInterval    time.Duration // 途中集計の表示間隔
	Duration          time.Duration // 総実行時間
	Tick              time.Duration // スケジューラのポーリング間隔
}

// Validate は設定を検証する
func (c AvailabilityConfig) Validate() error {
	if c.Collection == "" {
		return errors.New("collection must not be empty")
	}
	if c.HeartbeatInterval <= 0 {
		return errors.New("heartbeat interval must be positive")
	}
	if c.ReportInterval <= 0 {
		return errors.New("report interval must be positive")
	}
	if c.Duration < 0 {
		return errors.New("duration must be non-negative")
	}
	if c.Tick <= 0 {
		return errors.New("tick must be positive")
	}
	return nil
}

// AvailabilityResult は可用性テストの結果
type AvailabilityResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Elapsed     time.Duration
	Successes   uint64
	Failures    uint64
	Interrupted bool
}

// Attempts は総試行数を返す
func (r *AvailabilityResult) Attempts() uint64 {
	return r.Successes + r.Failures
}

// Availability は可用性（%）を返す。試行0件なら0
func (r *AvailabilityResult) Availability() float64 {
	pct, _ := metrics.Availability(r.Successes, r.Failures)
	return pct
}

// Report は結果をフォーマットして返す
func (r *AvailabilityResult) Report() string {
	return formatAvailability(r.Successes, r.Failures, r.Elapsed)
}

// RunAvailability は可用性テストを実行する
// ctx のキャンセルは中断として扱い、エラーにはしない
func RunAvailability(ctx context.Context, rc *RunContext, cfg AvailabilityConfig) (*AvailabilityResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid availability config: %w", err)
	}

	rc.setState(StateScheduled)

	_, _ = fmt.Fprintln(rc.Out, "Starting Firestore availability test")
	_, _ = fmt.Fprintf(rc.Out, "Heartbeat will be sent every %v.\n", cfg.HeartbeatInterval)

	result := &AvailabilityResult{StartTime: time.Now()}

	sched := schedule.New()
	if _, err := sched.Every(cfg.HeartbeatInterval, "heartbeat", func(ctx context.Context) {
		sendHeartbeat(ctx, rc, cfg.Collection)
	}); err != nil {
		return nil, err
	}
	if _, err := sched.Every(cfg.ReportInterval, "report", func(context.Context) {
		printAvailability(rc, result.StartTime)
	}); err != nil {
		return nil, err
	}

	rc.setState(StateRunning)
	rc.setPhase("heartbeat")

	err := sched.Run(ctx, cfg.Tick, result.StartTime.Add(cfg.Duration))
	if err != nil {
		if ctx.Err() == nil {
			return nil, err
		}
		result.Interrupted = true
		_, _ = fmt.Fprintln(rc.Out, "\nTest stopped manually.")
	}

	result.EndTime = time.Now()
	result.Elapsed = result.EndTime.Sub(result.StartTime)
	result.Successes = rc.Counters.Successes()
	result.Failures = rc.Counters.Failures()

	_, _ = fmt.Fprintln(rc.Out, "\nFirestore availability test finished.")

	rc.setResult("availability_pct", result.Availability())
	rc.finish(result.Availability())

	logger.Info(TestAvailability, "Finished after %v (%d attempts, interrupted: %v)",
		result.Elapsed.Round(time.Second), result.Attempts(), result.Interrupted)
	return result, nil
}

// sendHeartbeat はハートビートを1回書き込んで集計する
func sendHeartbeat(ctx context.Context, rc *RunContext, collection string) {
	now := time.Now()
	rec := store.Record{
		store.FieldClientTimestamp: store.UnixSeconds(now),
		"status":                   "alive",
	}
	id := fmt.Sprintf("heartbeat_%d", now.Unix())

	out := rc.Exec.Write(ctx, collection, rec, id)
	if !out.OK && ctx.Err() != nil {
		// 中断で打ち切られた書き込みは集計しない
		return
	}
	rc.record(out)

	if out.OK {
		logger.Info(TestAvailability, "Heartbeat to Firestore succeeded (%s)", id)
	} else {
		logger.Warn(TestAvailability, "FAILED to send heartbeat to Firestore")
	}
}

// printAvailability は途中集計を出力する
func printAvailability(rc *RunContext, start time.Time) {
	successes := rc.Counters.Successes()
	failures := rc.Counters.Failures()
	pct, _ := metrics.Availability(successes, failures)

	_, _ = fmt.Fprintln(rc.Out, formatAvailability(successes, failures, time.Since(start)))
	rc.setResult("availability_pct", pct)
	rc.Bus.Publish(events.NewSnapshotEvent(TestAvailability, successes, failures, pct))
}

func formatAvailability(successes, failures uint64, elapsed time.Duration) string {
	pct, _ := metrics.Availability(successes, failures)

	var b strings.Builder
	b.WriteString("\n--- Firestore Availability Statistics ---\n")
	fmt.Fprintf(&b, "Total heartbeat attempts: %d\n", successes+failures)
	fmt.Fprintf(&b, "Successful: %d\n", successes)
	fmt.Fprintf(&b, "Failed: %d\n", failures)
	fmt.Fprintf(&b, "Availability: %.3f%%\n", pct)
	fmt.Fprintf(&b, "Elapsed: %.2f hours", elapsed.Hours())
	return b.String()
}
