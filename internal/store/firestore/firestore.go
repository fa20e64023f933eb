package firestore

import (
	"context"
	"errors"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"firestore-probe/internal/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store はFirestoreクライアントをstore.Storeとして扱うアダプタ
type Store struct {
	client *gfs.Client
}

func newStore(client *gfs.Client) *Store {
	return &Store{client: client}
}

// Write はサーバータイムスタンプを付与してドキュメントを書き込む
func (s *Store) Write(ctx context.Context, collection, id string, rec store.Record) (string, error) {
	col := s.client.Collection(collection)

	var ref *gfs.DocumentRef
	if id == "" {
		ref = col.NewDoc()
	} else {
		ref = col.Doc(id)
	}

	data := map[string]any(rec.Clone())
	data[store.FieldServerTimestamp] = gfs.ServerTimestamp

	if _, err := ref.Set(ctx, data); err != nil {
		return "", fmt.Errorf("set %s/%s: %w", collection, ref.ID, err)
	}
	return ref.ID, nil
}

// Get はドキュメントを取得する
func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("get %s/%s: %w", collection, id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	if !snap.Exists() {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, store.ErrNotFound)
	}
	return store.Record(snap.Data()), nil
}

// Delete はドキュメントを削除する
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// List はコレクションのドキュメントIDを最大 limit 件返す
func (s *Store) List(ctx context.Context, collection string, limit int) ([]string, error) {
	q := s.client.Collection(collection).Query
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var ids []string
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return ids, fmt.Errorf("list %s: %w", collection, err)
		}
		ids = append(ids, doc.Ref.ID)
	}
	return ids, nil
}

// Close はクライアントを閉じる
func (s *Store) Close() error {
	return s.client.Close()
}

// isNotFound はgRPCのNotFoundかどうかを判定する
func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
