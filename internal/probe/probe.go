package probe

import (
	"context"
	"errors"
	"time"

	"firestore-probe/internal/events"
	"firestore-probe/internal/logger"
	"firestore-probe/internal/store"
)

// 操作名（メトリクスのラベルにも使う）
const (
	OpWrite  = "write"
	OpVerify = "verify"
	OpDelete = "delete"
	OpList   = "list"
)

// Observer は操作結果を受け取る
type Observer interface {
	ObserveOperation(test, op string, ok bool, latency time.Duration)
}

// Outcome は書き込み1回の結果
type Outcome struct {
	OK      bool
	ID      string
	Latency time.Duration
}

// Executor はストア操作を1回ずつ実行する
type Executor struct {
	store    store.Store
	test     string
	observer Observer
	bus      *events.Bus
	timeout  time.Duration
	verbose  bool
}

// Option はExecutorのオプション
type Option func(*Executor)

// WithObserver は操作結果の通知先を設定する
func WithObserver(o Observer) Option {
	return func(e *Executor) { e.observer = o }
}

// WithEventBus はイベントバスを設定する
func WithEventBus(bus *events.Bus) Option {
	return func(e *Executor) { e.bus = bus }
}

// WithTimeout は1操作あたりのタイムアウトを設定する（0で無制限）
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

// WithVerbose は成功した操作もINFOで出力する
func WithVerbose(v bool) Option {
	return func(e *Executor) { e.verbose = v }
}

// New は新しいExecutorを作成する
func New(s store.Store, test string, opts ...Option) *Executor {
	e := &Executor{
		store: s,
		test:  test,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Test はテスト名を返す
func (e *Executor) Test() string {
	return e.test
}

// Write はレコードを書き込む。id が空ならストアが採番する
func (e *Executor) Write(ctx context.Context, collection string, rec store.Record, id string) Outcome {
	opCtx, cancel := e.opContext(ctx)
	defer cancel()

	start := time.Now()
	assigned, err := e.store.Write(opCtx, collection, id, rec)
	latency := time.Since(start)
	e.observe(OpWrite, assigned, latency, err)

	if err != nil {
		logger.Error(e.test, "Failed to write to %s: %v", collection, err)
		return Outcome{OK: false, Latency: latency}
	}

	e.success("Document written to %s (id: %s)", collection, assigned)
	return Outcome{OK: true, ID: assigned, Latency: latency}
}

// ReadVerify はドキュメントの存在を確認する
// 存在しない場合もエラーの場合も false を返す
func (e *Executor) ReadVerify(ctx context.Context, collection, id string) bool {
	opCtx, cancel := e.opContext(ctx)
	defer cancel()

	start := time.Now()
	doc, err := e.store.Get(opCtx, collection, id)
	latency := time.Since(start)

	switch {
	case err == nil:
		e.observe(OpVerify, id, latency, nil)
		e.success("Document %s found: %v", id, doc)
		return true
	case errors.Is(err, store.ErrNotFound):
		// 不在は操作としては成功
		e.observe(OpVerify, id, latency, nil)
		logger.Info(e.test, "Document %s not found", id)
		return false
	default:
		e.observe(OpVerify, id, latency, err)
		logger.Error(e.test, "Error verifying document %s: %v", id, err)
		return false
	}
}

// Delete はドキュメントを削除する。失敗はログに残して false を返す
func (e *Executor) Delete(ctx context.Context, collection, id string) bool {
	opCtx, cancel := e.opContext(ctx)
	defer cancel()

	start := time.Now()
	err := e.store.Delete(opCtx, collection, id)
	latency := time.Since(start)
	e.observe(OpDelete, id, latency, err)

	if err != nil {
		logger.Warn(e.test, "Failed to delete document %s: %v", id, err)
		return false
	}
	e.success("Document %s deleted from %s", id, collection)
	return true
}

// List はコレクションのドキュメントIDを最大 limit 件取得する
// エラー時はログを出して取得できた分だけ返す
func (e *Executor) List(ctx context.Context, collection string, limit int) []string {
	opCtx, cancel := e.opContext(ctx)
	defer cancel()

	start := time.Now()
	ids, err := e.store.List(opCtx, collection, limit)
	latency := time.Since(start)
	e.observe(OpList, "", latency, err)

	if err != nil {
		logger.Warn(e.test, "Failed to list %s: %v", collection, err)
	}
	return ids
}

func (e *Executor) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return context.WithCancel(ctx)
}

func (e *Executor) observe(op, docID string, latency time.Duration, err error) {
	if e.observer != nil {
		e.observer.ObserveOperation(e.test, op, err == nil, latency)
	}
	e.bus.Publish(events.NewOperationEvent(e.test, op, docID, latency, err))
}

func (e *Executor) success(format string, args ...any) {
	if e.verbose {
		logger.Info(e.test, format, args...)
	} else {
		logger.Debug(e.test, format, args...)
	}
}
