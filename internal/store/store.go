package store

import (
	"context"
	"errors"
	"maps"
	"time"
)

// ErrNotFound はドキュメントが存在しないことを表す
var ErrNotFound = errors.New("document not found")

// ErrUnavailable はストアが応答できない状態を表す
var ErrUnavailable = errors.New("store unavailable")

// Record フィールド名
const (
	FieldClientTimestamp = "client_timestamp"
	FieldServerTimestamp = "server_timestamp"
)

// Record はストアに送る1件の計測レコード
type Record map[string]any

// Clone はレコードのシャローコピーを返す
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	return maps.Clone(r)
}

// UnixSeconds は時刻を小数秒のエポック値に変換する
func UnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// Store はドキュメントストアの基本操作を定義するインターフェース
type Store interface {
	// Write はレコードを書き込み、確定したドキュメントIDを返す
	// id が空の場合はストアがIDを採番する
	// サーバータイムスタンプの付与は実装側で行う
	Write(ctx context.Context, collection, id string, rec Record) (string, error)

	// Get はドキュメントを取得する。存在しない場合は ErrNotFound
	Get(ctx context.Context, collection, id string) (Record, error)

	// Delete はドキュメントを削除する
	Delete(ctx context.Context, collection, id string) error

	// List はコレクション内のドキュメントIDを最大 limit 件返す
	List(ctx context.Context, collection string, limit int) ([]string, error)

	// Close はクライアントを解放する
	Close() error
}
