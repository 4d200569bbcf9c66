package kvsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ItemStore is the synchronous GetItem/SetItem shape of browser local storage.
type ItemStore interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
}

// Remote is the server side of a Mirror.
type Remote interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
}

// Reconcile applies a pulled value to local storage and reports whether the
// local value changed. It must run on the goroutine that writes the key.
type Reconcile func() bool

// Mirror serves reads from a local ItemStore and copies every write to a
// Remote in the background. Pushes for a key go out one at a time and only
// the latest pending value is sent, so the server ends on the last write.
type Mirror struct {
	ctx    context.Context
	local  ItemStore
	remote Remote

	mu       sync.Mutex
	idle     *sync.Cond
	pending  map[string]string
	queue    []string
	versions map[string]uint64
	pushing  bool
}

func NewMirror(ctx context.Context, local ItemStore, remote Remote) *Mirror {
	m := &Mirror{
		ctx:      ctx,
		local:    local,
		remote:   remote,
		pending:  make(map[string]string),
		versions: make(map[string]uint64),
	}
	m.idle = sync.NewCond(&m.mu)
	return m
}

func (m *Mirror) GetItem(key string) (string, bool) {
	return m.local.GetItem(key)
}

func (m *Mirror) SetItem(key, value string) {
	m.local.SetItem(key, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[key]++
	m.enqueue(key, value)
}

// enqueue must be called with mu held.
func (m *Mirror) enqueue(key, value string) {
	if _, queued := m.pending[key]; !queued {
		m.queue = append(m.queue, key)
	}
	m.pending[key] = value
	if !m.pushing {
		m.pushing = true
		go m.push()
	}
}

func (m *Mirror) push() {
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.pushing = false
			m.idle.Broadcast()
			m.mu.Unlock()
			return
		}
		key := m.queue[0]
		m.queue = m.queue[1:]
		value := m.pending[key]
		delete(m.pending, key)
		m.mu.Unlock()

		if err := m.remote.Put(m.ctx, key, value); err != nil {
			slog.Warn("storage sync failed", "key", key, "error", err)
		}
	}
}

// Pull fetches key from the server. The returned step brings local storage
// up to date: a server value replaces the local one and a key only known
// locally is pushed. A local write made after Pull started wins over the
// fetched value.
func (m *Mirror) Pull(key string) (Reconcile, error) {
	m.mu.Lock()
	version := m.versions[key]
	m.mu.Unlock()

	remote, err := m.remote.Get(m.ctx, key)
	found := true
	switch {
	case errors.Is(err, ErrNotFound):
		found = false
	case err != nil:
		return nil, fmt.Errorf("pull %s: %w", key, err)
	}

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.versions[key] != version {
			return false
		}

		local, hasLocal := m.local.GetItem(key)
		if !found {
			if hasLocal {
				m.enqueue(key, local)
			}
			return false
		}
		if hasLocal && local == remote {
			return false
		}
		m.local.SetItem(key, remote)
		return true
	}, nil
}

// Wait blocks until background writes have finished.
func (m *Mirror) Wait() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.pushing {
		m.idle.Wait()
	}
}
