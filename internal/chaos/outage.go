package chaos

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"firestore-probe/internal/logger"
)

// OutageConfig は周期的な停止の設定
type OutageConfig struct {
	Every time.Duration // 停止を開始する間隔
	For   time.Duration // 1回の停止時間
}

// Enabled は周期停止が設定されているかを返す
func (c OutageConfig) Enabled() bool {
	return c.Every > 0 && c.For > 0
}

// Validate は設定を検証する
func (c OutageConfig) Validate() error {
	if c.Every < 0 || c.For < 0 {
		return errors.New("outage durations must be non-negative")
	}
	if c.Enabled() && c.For >= c.Every {
		return errors.New("outage length must be shorter than its interval")
	}
	return nil
}

// OutageStats は周期停止の統計
type OutageStats struct {
	Outages   uint64        `json:"outages"`
	Recovered uint64        `json:"recovered"`
	Downtime  time.Duration `json:"downtime_ns"`
}

// Outages は Injector を周期的に停止・復旧させる
type Outages struct {
	injector *Injector
	config   OutageConfig

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu    sync.Mutex
	stats OutageStats
}

// NewOutages は新しいOutagesを作成する
func NewOutages(injector *Injector, config OutageConfig) *Outages {
	return &Outages{
		injector: injector,
		config:   config,
	}
}

// Start は周期停止を開始する。ctx のキャンセルか Stop で終了する
func (o *Outages) Start(ctx context.Context) {
	if !o.config.Enabled() || o.running.Swap(true) {
		return
	}

	ctx, o.cancel = context.WithCancel(ctx)

	o.wg.Add(1)
	go o.loop(ctx)

	logger.Info("chaos", "Outages started (every: %v, for: %v)", o.config.Every, o.config.For)
}

// Stop は周期停止を終了し、停止中なら復旧させる
func (o *Outages) Stop() {
	if !o.running.Swap(false) {
		return
	}

	o.cancel()
	o.wg.Wait()

	stats := o.Stats()
	logger.Info("chaos", "Outages stopped (%d outages, downtime: %v)", stats.Outages, stats.Downtime)
}

// Stats は統計を返す
func (o *Outages) Stats() OutageStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

func (o *Outages) loop(ctx context.Context) {
	defer o.wg.Done()

	ticker := time.NewTicker(o.config.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.outage(ctx)
		}
	}
}

// outage は1回分の停止を行う。キャンセル時も必ず復旧させる
func (o *Outages) outage(ctx context.Context) {
	start := time.Now()
	o.injector.Kill()

	o.mu.Lock()
	o.stats.Outages++
	o.mu.Unlock()

	timer := time.NewTimer(o.config.For)
	select {
	case <-ctx.Done():
		timer.Stop()
	case <-timer.C:
	}

	o.injector.Revive()

	o.mu.Lock()
	o.stats.Recovered++
	o.stats.Downtime += time.Since(start)
	o.mu.Unlock()
}
