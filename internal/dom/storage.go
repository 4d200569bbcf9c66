//go:build js && wasm

package dom

import (
	"errors"
	"log/slog"
	"syscall/js"
)

// LocalStorage is window.localStorage.
type LocalStorage struct {
	ls js.Value
}

// NewLocalStorage fails when storage is disabled, as in some private
// browsing modes where merely reading window.localStorage throws.
func NewLocalStorage() (s *LocalStorage, err error) {
	defer catch(&err)
	ls := window.Get("localStorage")
	if ls.Type() != js.TypeObject {
		return nil, errors.New("local storage unavailable")
	}
	return &LocalStorage{ls: ls}, nil
}

func (s *LocalStorage) GetItem(key string) (string, bool) {
	v := s.ls.Call("getItem", key)
	if v.Type() != js.TypeString {
		return "", false
	}
	return v.String(), true
}

func (s *LocalStorage) SetItem(key, value string) {
	var err error
	defer func() {
		if err != nil {
			slog.Error("local storage write failed", "key", key, "error", err)
		}
	}()
	defer catch(&err)
	s.ls.Call("setItem", key, value)
}
