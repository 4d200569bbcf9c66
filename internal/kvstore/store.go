// Package kvstore persists small string values per client namespace.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/spherecast/spherecast/internal/metrics"
	"github.com/spherecast/spherecast/internal/validate"
)

var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
)

// MaxValueBytes bounds a single stored value.
const MaxValueBytes = validate.MaxStorageValueBytes

var keyPattern = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z0-9._-]{1,%d}$`, validate.MaxStorageKeyLength))

// Store is implemented by every backend. Get returns ErrNotFound for a
// missing key; Delete of a missing key succeeds.
type Store interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string) error
	Delete(ctx context.Context, namespace, key string) error
}

func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

func checkScope(namespace, key string) error {
	if namespace == "" || !ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Memory is a process-local Store.
type Memory struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, namespace, key string) (string, error) {
	if err := checkScope(namespace, key); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[namespace][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, namespace, key, value string) error {
	if err := checkScope(namespace, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.items[namespace]
	if !ok {
		ns = make(map[string]string)
		m.items[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, namespace, key string) error {
	if err := checkScope(namespace, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items[namespace], key)
	return nil
}

// Instrument records every call on s in the storage metrics under backend.
func Instrument(s Store, backend string) Store {
	return &instrumented{next: s, backend: backend}
}

type instrumented struct {
	next    Store
	backend string
}

func (i *instrumented) Get(ctx context.Context, namespace, key string) (string, error) {
	v, err := i.next.Get(ctx, namespace, key)
	i.observe("get", err)
	return v, err
}

func (i *instrumented) Set(ctx context.Context, namespace, key, value string) error {
	err := i.next.Set(ctx, namespace, key, value)
	i.observe("set", err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, namespace, key string) error {
	err := i.next.Delete(ctx, namespace, key)
	i.observe("delete", err)
	return err
}

func (i *instrumented) observe(op string, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.ObserveStorage(i.backend, op, err)
}
