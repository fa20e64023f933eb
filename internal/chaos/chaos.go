package chaos

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"firestore-probe/internal/logger"
	"firestore-probe/internal/store"
)

// ErrInjected は注入された障害を表す
var ErrInjected = errors.New("injected fault")

// FaultType は障害の種類を表す
type FaultType int

const (
	FaultError FaultType = iota
	FaultDelay
	FaultOutage
)

func (f FaultType) String() string {
	switch f {
	case FaultError:
		return "error"
	case FaultDelay:
		return "delay"
	case FaultOutage:
		return "outage"
	default:
		return "unknown"
	}
}

// Config はInjectorの設定
type Config struct {
	FailureRate float64       // 失敗させる確率（0.0〜1.0）
	Delay       time.Duration // 各操作に加える遅延
	Seed        uint64        // 乱数シード（0で時刻ベース）
	Outage      OutageConfig  // 周期的な停止
}

// Enabled は何らかの障害が設定されているかを返す
func (c Config) Enabled() bool {
	return c.FailureRate > 0 || c.Delay > 0 || c.Outage.Enabled()
}

// Stats は注入した障害の統計
type Stats struct {
	TotalFaults uint64            `json:"total_faults"`
	ByType      map[string]uint64 `json:"faults_by_type"`
}

// Ensure Injector implements store.Store
var _ store.Store = (*Injector)(nil)

// Injector は障害を注入するstore.Storeのラッパー
type Injector struct {
	inner  store.Store
	config Config
	killed atomic.Bool

	mu          sync.Mutex
	rng         *rand.Rand
	faultByType map[FaultType]uint64
}

// New は新しいInjectorを作成する
func New(inner store.Store, config Config) *Injector {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Injector{
		inner:       inner,
		config:      config,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		faultByType: make(map[FaultType]uint64),
	}
}

// Kill はストアを停止状態にする。以降の操作はすべて失敗する
func (i *Injector) Kill() {
	if !i.killed.Swap(true) {
		logger.Warn("chaos", "store killed")
	}
}

// Revive は停止状態を解除する
func (i *Injector) Revive() {
	if i.killed.Swap(false) {
		logger.Info("chaos", "store revived")
	}
}

// IsKilled は停止状態かどうかを返す
func (i *Injector) IsKilled() bool {
	return i.killed.Load()
}

// inject は操作前に障害を評価する
func (i *Injector) inject(ctx context.Context, op string) error {
	if i.killed.Load() {
		i.record(FaultOutage)
		return fmt.Errorf("%s: %w: %w", op, ErrInjected, store.ErrUnavailable)
	}

	if i.config.Delay > 0 {
		i.record(FaultDelay)
		timer := time.NewTimer(i.config.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if i.config.FailureRate > 0 {
		i.mu.Lock()
		fail := i.rng.Float64() < i.config.FailureRate
		i.mu.Unlock()
		if fail {
			i.record(FaultError)
			return fmt.Errorf("%s: %w", op, ErrInjected)
		}
	}
	return nil
}

func (i *Injector) record(f FaultType) {
	i.mu.Lock()
	i.faultByType[f]++
	i.mu.Unlock()
}

// Write は障害評価後に書き込みを委譲する
func (i *Injector) Write(ctx context.Context, collection, id string, rec store.Record) (string, error) {
	if err := i.inject(ctx, "write"); err != nil {
		return "", err
	}
	return i.inner.Write(ctx, collection, id, rec)
}

// Get は障害評価後に取得を委譲する
func (i *Injector) Get(ctx context.Context, collection, id string) (store.Record, error) {
	if err := i.inject(ctx, "get"); err != nil {
		return nil, err
	}
	return i.inner.Get(ctx, collection, id)
}

// Delete は障害評価後に削除を委譲する
func (i *Injector) Delete(ctx context.Context, collection, id string) error {
	if err := i.inject(ctx, "delete"); err != nil {
		return err
	}
	return i.inner.Delete(ctx, collection, id)
}

// List は障害評価後に一覧取得を委譲する
func (i *Injector) List(ctx context.Context, collection string, limit int) ([]string, error) {
	if err := i.inject(ctx, "list"); err != nil {
		return nil, err
	}
	return i.inner.List(ctx, collection, limit)
}

// Close は内側のストアを閉じる
func (i *Injector) Close() error {
	return i.inner.Close()
}

// Stats は障害統計を返す。遅延は TotalFaults に含めない
func (i *Injector) Stats() Stats {
	i.mu.Lock()
	defer i.mu.Unlock()

	byType := make(map[string]uint64)
	var total uint64
	for t, count := range i.faultByType {
		byType[t.String()] = count
		if t != FaultDelay {
			total += count
		}
	}

	return Stats{
		TotalFaults: total,
		ByType:      byType,
	}
}
