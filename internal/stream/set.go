// Package stream holds the resolve wire types shared by the server, the
// player and the CLI.
package stream

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	QualityBest  = "best"
	QualityWorst = "worst"
)

// Response is the JSON body of GET /api/resolve. Error is set instead of the
// other fields when resolution failed.
type Response struct {
	Input          string `json:"input,omitempty"`
	Title          string `json:"title,omitempty"`
	DefaultQuality string `json:"default_quality,omitempty"`
	Streams        Set    `json:"streams"`
	Error          string `json:"error,omitempty"`
}

// Stream is one quality variant.
type Stream struct {
	Quality string
	URL     string
}

// Set maps quality labels to URLs and remembers insertion order. It is
// immutable once built; the JSON form is an object in that order.
type Set struct {
	streams []Stream
	index   map[string]int
}

// NewSet builds a set from streams in order. A repeated quality keeps
// its first position and takes the later URL.
func NewSet(streams ...Stream) Set {
	var s Set
	for _, st := range streams {
		s.add(st.Quality, st.URL)
	}
	return s
}

func (s *Set) add(quality, url string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[quality]; ok {
		s.streams[i].URL = url
		return
	}
	s.index[quality] = len(s.streams)
	s.streams = append(s.streams, Stream{Quality: quality, URL: url})
}

func (s Set) Len() int { return len(s.streams) }

// Qualities returns the labels in insertion order.
func (s Set) Qualities() []string {
	out := make([]string, len(s.streams))
	for i, st := range s.streams {
		out[i] = st.Quality
	}
	return out
}

// Streams returns a copy of the variants in insertion order.
func (s Set) Streams() []Stream {
	return append([]Stream(nil), s.streams...)
}

func (s Set) URL(quality string) (string, bool) {
	i, ok := s.index[quality]
	if !ok {
		return "", false
	}
	return s.streams[i].URL, true
}

func (s Set) Has(quality string) bool {
	_, ok := s.index[quality]
	return ok
}

// DefaultQuality picks preferred when the set has it, then "best", then the
// first quality. It returns "" for an empty set.
func (s Set) DefaultQuality(preferred string) string {
	if preferred != "" && s.Has(preferred) {
		return preferred
	}
	if s.Has(QualityBest) {
		return QualityBest
	}
	if len(s.streams) == 0 {
		return ""
	}
	return s.streams[0].Quality
}

func (s Set) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, st := range s.streams {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(st.Quality)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(st.URL)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Set) UnmarshalJSON(data []byte) error {
	*s = Set{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("streams: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		quality, ok := tok.(string)
		if !ok {
			return fmt.Errorf("streams: expected key, got %v", tok)
		}
		var url string
		if err := dec.Decode(&url); err != nil {
			return fmt.Errorf("streams: quality %q: %w", quality, err)
		}
		s.add(quality, url)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
