package kvstore

import (
	"context"
	"errors"
	"log/slog"
)

// ItemStorage binds a Store to one namespace with the GetItem/SetItem shape
// of browser local storage.
type ItemStorage struct {
	ctx       context.Context
	store     Store
	namespace string
}

func NewItemStorage(ctx context.Context, store Store, namespace string) *ItemStorage {
	return &ItemStorage{ctx: ctx, store: store, namespace: namespace}
}

func (s *ItemStorage) GetItem(key string) (string, bool) {
	v, err := s.store.Get(s.ctx, s.namespace, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("storage read failed", "namespace", s.namespace, "key", key, "error", err)
		}
		return "", false
	}
	return v, true
}

// SetItem logs write failures; callers treat storage as reliable.
func (s *ItemStorage) SetItem(key, value string) {
	if err := s.store.Set(s.ctx, s.namespace, key, value); err != nil {
		slog.Error("storage write failed", "namespace", s.namespace, "key", key, "error", err)
	}
}
