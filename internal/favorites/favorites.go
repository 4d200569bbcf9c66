// Package favorites keeps the ordered list of saved stream URLs.
package favorites

import (
	"encoding/json"
	"log/slog"

	"github.com/samber/lo"
)

const StorageKey = "favorites"

const (
	NoticeAdded     = "Added to favorites!"
	NoticeDuplicate = "Already in favorites!"
	NoticeNoStream  = "No stream loaded!"
	NoticeRemoved   = "Removed from favorites!"
	NoticeCleared   = "All favorites cleared!"

	EmptyMessage  = "No favorites yet. Add streams using the 'Add to Favorites' button."
	ConfirmPrompt = "Are you sure you want to clear all favorites?"
)

// Storage is a string key-value store such as browser local storage.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string)
}

// View renders the list and shows short-lived notices.
type View interface {
	Render(urls []string)
	Notify(message string)
}

type Confirmer interface {
	Confirm(prompt string) bool
}

// Store reads the list from storage on every operation and writes it back
// after every mutation, so several stores over one storage stay consistent.
type Store struct {
	storage Storage
	view    View
	confirm Confirmer
}

func New(storage Storage, view View, confirm Confirmer) *Store {
	return &Store{storage: storage, view: view, confirm: confirm}
}

// List returns the stored URLs. A missing or malformed entry is empty.
func (s *Store) List() []string {
	raw, ok := s.storage.GetItem(StorageKey)
	if !ok || raw == "" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		slog.Warn("discarding malformed favorites", "error", err)
		return []string{}
	}
	if urls == nil {
		return []string{}
	}
	return urls
}

// Load renders the stored list.
func (s *Store) Load() {
	s.view.Render(s.List())
}

// Add appends url unless it is empty or already present.
func (s *Store) Add(url string) bool {
	list := s.List()
	switch {
	case url == "":
		s.view.Notify(NoticeNoStream)
		return false
	case lo.Contains(list, url):
		s.view.Notify(NoticeDuplicate)
		return false
	}

	s.save(append(list, url))
	s.view.Notify(NoticeAdded)
	return true
}

// Remove deletes the entry at index. Out of range indexes are ignored.
func (s *Store) Remove(index int) bool {
	list := s.List()
	if index < 0 || index >= len(list) {
		return false
	}

	s.save(append(list[:index], list[index+1:]...))
	s.view.Notify(NoticeRemoved)
	return true
}

// ClearAll empties the list after confirmation.
func (s *Store) ClearAll() bool {
	if s.confirm != nil && !s.confirm.Confirm(ConfirmPrompt) {
		return false
	}
	s.save([]string{})
	s.view.Notify(NoticeCleared)
	return true
}

// Select returns the URL at index.
func (s *Store) Select(index int) (string, bool) {
	list := s.List()
	if index < 0 || index >= len(list) {
		return "", false
	}
	return list[index], true
}

func (s *Store) save(list []string) {
	raw, err := json.Marshal(list)
	if err != nil {
		slog.Error("failed to encode favorites", "error", err)
		return
	}
	s.storage.SetItem(StorageKey, string(raw))
	s.view.Render(list)
}

// MapStorage is an in-memory Storage.
type MapStorage map[string]string

func (m MapStorage) GetItem(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapStorage) SetItem(key, value string) { m[key] = value }
