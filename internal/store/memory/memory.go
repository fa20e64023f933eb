package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"firestore-probe/internal/logger"
	"firestore-probe/internal/store"

	"github.com/google/uuid"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store はインメモリのドキュメントストア
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Record
	delay       time.Duration
	closed      bool
}

// New は新しいインメモリストアを作成する
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]store.Record),
	}
}

// SetDelay はレスポンス遅延を設定する
func (s *Store) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	if d > 0 {
		logger.Debug("memory", "Delay set to %v", d)
	}
}

// Delay は現在の遅延設定を返す
func (s *Store) Delay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delay
}

// applyDelay は設定された遅延を適用する
func (s *Store) applyDelay(ctx context.Context) error {
	d := s.Delay()
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Write はレコードを書き込む
func (s *Store) Write(ctx context.Context, collection, id string, rec store.Record) (string, error) {
	if err := s.applyDelay(ctx); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", fmt.Errorf("write %s: %w", collection, store.ErrUnavailable)
	}

	if id == "" {
		id = uuid.NewString()
	}

	doc := rec.Clone()
	doc[store.FieldServerTimestamp] = time.Now()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]store.Record)
		s.collections[collection] = docs
	}
	docs[id] = doc
	return id, nil
}

// Get はドキュメントを取得する
func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	if err := s.applyDelay(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, store.ErrUnavailable)
	}

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, store.ErrNotFound)
	}
	return doc.Clone(), nil
}

// Delete はドキュメントを削除する
// 存在しないIDの削除はエラーにしない（Firestoreと同じ挙動）
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := s.applyDelay(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("delete %s/%s: %w", collection, id, store.ErrUnavailable)
	}

	delete(s.collections[collection], id)
	return nil
}

// List はドキュメントIDをID順に最大 limit 件返す
func (s *Store) List(ctx context.Context, collection string, limit int) ([]string, error) {
	if err := s.applyDelay(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("list %s: %w", collection, store.ErrUnavailable)
	}

	docs := s.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// Size はコレクション内のドキュメント数を返す
func (s *Store) Size(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Close はストアを閉じる。以降の操作は ErrUnavailable になる
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
