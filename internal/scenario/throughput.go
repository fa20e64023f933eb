package scenario

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"firestore-probe/internal/logger"
	"firestore-probe/internal/metrics"
	"firestore-probe/internal/store"
)

// ThroughputConfig はスループットテストの設定
type ThroughputConfig struct {
	Collection   string        // 書き込み先コレクション
	Duration     time.Duration // 計測時間
	CleanupLimit int           // 事前削除する残存ドキュメントの上限（0で削除しない）
}

// Validate は設定を検証する
func (c ThroughputConfig) Validate() error {
	if c.Collection == "" {
		return errors.New("collection must not be empty")
	}
	if c.Duration < 0 {
		return errors.New("duration must be non-negative")
	}
	if c.CleanupLimit < 0 {
		return errors.New("cleanup limit must be non-negative")
	}
	return nil
}

// ThroughputResult はスループットテストの結果
type ThroughputResult struct {
	Elapsed     time.Duration // 実際の計測時間
	Units       uint64        // 成功したデータポイント数
	Failures    uint64
	Cleaned     int // 事前削除したドキュメント数
	Interrupted bool
}

// Rate は秒間データポイント数と、計測時間が0より大きかったかを返す
func (r *ThroughputResult) Rate() (float64, bool) {
	return metrics.Throughput(r.Units, r.Elapsed)
}

// Report は結果をフォーマットして返す
func (r *ThroughputResult) Report() string {
	var b strings.Builder
	b.WriteString("\n--- Throughput Results (Firestore) ---\n")
	fmt.Fprintf(&b, "Actual test duration: %.2f seconds\n", r.Elapsed.Seconds())
	fmt.Fprintf(&b, "Total data points sent successfully: %d\n", r.Units)

	if rate, ok := r.Rate(); ok {
		fmt.Fprintf(&b, "Throughput (data points/second): %.2f", rate)
	} else {
		b.WriteString("Test duration too short.")
	}
	return b.String()
}

// RunThroughput はスループットテストを実行する
func RunThroughput(ctx context.Context, rc *RunContext, cfg ThroughputConfig) (*ThroughputResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid throughput config: %w", err)
	}

	rc.setState(StateRunning)
	_, _ = fmt.Fprintf(rc.Out, "Starting Firestore throughput test for %v...\n", cfg.Duration)

	result := &ThroughputResult{}
	result.Cleaned = cleanupLeftovers(ctx, rc, cfg)

	if cfg.Duration > 0 {
		rc.setPhase("measure")
		units, failures, elapsed := measureWrites(ctx, rc, cfg)
		result.Units = units
		result.Failures = failures
		result.Elapsed = elapsed
	}
	result.Interrupted = ctx.Err() != nil

	rate, _ := result.Rate()
	rc.setResult("throughput_per_second", rate)
	rc.finish(rate)

	logger.Info(TestThroughput, "Finished (units: %d, failures: %d, elapsed: %v)",
		result.Units, result.Failures, result.Elapsed.Round(time.Millisecond))
	return result, nil
}

// cleanupLeftovers は前回の残存ドキュメントを最大 CleanupLimit 件削除する
// 上限を超える残存分はそのまま残る
func cleanupLeftovers(ctx context.Context, rc *RunContext, cfg ThroughputConfig) int {
	if cfg.CleanupLimit == 0 {
		return 0
	}
	rc.setPhase("cleanup")

	_, _ = fmt.Fprintf(rc.Out, "Cleaning test collection: %s (if any)...\n", cfg.Collection)

	ids := rc.Exec.List(ctx, cfg.Collection, cfg.CleanupLimit)
	deleted := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if rc.Exec.Delete(ctx, cfg.Collection, id) {
			deleted++
		}
	}

	if deleted > 0 {
		_, _ = fmt.Fprintf(rc.Out, "%d old documents deleted.\n", deleted)
	}
	if len(ids) >= cfg.CleanupLimit {
		logger.Warn(TestThroughput, "Cleanup limit of %d reached, older documents may remain in %s",
			cfg.CleanupLimit, cfg.Collection)
	}
	return deleted
}

// measureWrites は Duration が経過するまで遅延なしで書き込む
func measureWrites(ctx context.Context, rc *RunContext, cfg ThroughputConfig) (units, failures uint64, elapsed time.Duration) {
	start := time.Now()

	for time.Since(start) < cfg.Duration {
		if ctx.Err() != nil {
			break
		}

		now := time.Now()
		ts := store.UnixSeconds(now)
		rec := store.Record{
			"value":                    math.Mod(ts, 100),
			store.FieldClientTimestamp: ts,
		}

		out := rc.Exec.Write(ctx, cfg.Collection, rec, "")
		if !out.OK && ctx.Err() != nil {
			break
		}
		rc.record(out)
		if out.OK {
			units++
		} else {
			failures++
		}
	}

	return units, failures, time.Since(start)
}
