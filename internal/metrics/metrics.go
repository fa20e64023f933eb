package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Config はCountersの設定
type Config struct {
	MaxLatencySamples int // P99計算に保持するサンプル数
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{MaxLatencySamples: 1000}
}

// Counters は1回の計測セッションのカウンタ
type Counters struct {
	successes      atomic.Uint64
	failures       atomic.Uint64
	verified       atomic.Uint64
	totalLatencyNs atomic.Uint64

	mu                sync.RWMutex
	startTime         time.Time
	latencies         []time.Duration
	maxLatencySamples int
}

// New は新しいカウンタを作成する
func New() *Counters {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig は設定を指定してカウンタを作成する
func NewWithConfig(config Config) *Counters {
	maxSamples := config.MaxLatencySamples
	if maxSamples <= 0 {
		maxSamples = DefaultConfig().MaxLatencySamples
	}
	return &Counters{
		startTime:         time.Now(),
		latencies:         make([]time.Duration, 0, maxSamples),
		maxLatencySamples: maxSamples,
	}
}

// RecordSuccess は成功した操作を記録する
func (c *Counters) RecordSuccess(latency time.Duration) {
	c.successes.Add(1)
	c.observe(latency)
}

// RecordFailure は失敗した操作を記録する
func (c *Counters) RecordFailure(latency time.Duration) {
	c.failures.Add(1)
	c.observe(latency)
}

// RecordVerified は存在確認できたドキュメントを記録する
func (c *Counters) RecordVerified() {
	c.verified.Add(1)
}

func (c *Counters) observe(latency time.Duration) {
	c.totalLatencyNs.Add(uint64(latency.Nanoseconds()))

	c.mu.Lock()
	if len(c.latencies) < c.maxLatencySamples {
		c.latencies = append(c.latencies, latency)
	}
	c.mu.Unlock()
}

// Successes は成功数を返す
func (c *Counters) Successes() uint64 {
	return c.successes.Load()
}

// Failures は失敗数を返す
func (c *Counters) Failures() uint64 {
	return c.failures.Load()
}

// Verified は検証済み数を返す
func (c *Counters) Verified() uint64 {
	return c.verified.Load()
}

// Attempts は試行数（成功+失敗）を返す
func (c *Counters) Attempts() uint64 {
	return c.successes.Load() + c.failures.Load()
}

// AverageLatency は平均レイテンシを返す
func (c *Counters) AverageLatency() time.Duration {
	total := c.Attempts()
	if total == 0 {
		return 0
	}
	return time.Duration(c.totalLatencyNs.Load() / total)
}

// P99Latency はP99レイテンシを返す（サンプルベース）
func (c *Counters) P99Latency() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.latencies) == 0 {
		return 0
	}

	sorted := make([]time.Duration, len(c.latencies))
	copy(sorted, c.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	idx := int(float64(len(sorted)) * 0.99)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// StartTime はカウンタ作成時刻を返す
func (c *Counters) StartTime() time.Time {
	return c.startTime
}

// Snapshot はカウンタのスナップショット
type Snapshot struct {
	Successes      uint64        `json:"successes"`
	Failures       uint64        `json:"failures"`
	Verified       uint64        `json:"verified"`
	Attempts       uint64        `json:"attempts"`
	Availability   float64       `json:"availability_pct"`
	AverageLatency time.Duration `json:"avg_latency_ns"`
	P99Latency     time.Duration `json:"p99_latency_ns"`
	Elapsed        time.Duration `json:"elapsed_ns"`
}

// Snapshot は現在のカウンタのスナップショットを返す
func (c *Counters) Snapshot() Snapshot {
	successes := c.Successes()
	failures := c.Failures()
	availability, _ := Availability(successes, failures)

	return Snapshot{
		Successes:      successes,
		Failures:       failures,
		Verified:       c.Verified(),
		Attempts:       successes + failures,
		Availability:   availability,
		AverageLatency: c.AverageLatency(),
		P99Latency:     c.P99Latency(),
		Elapsed:        time.Since(c.startTime),
	}
}
