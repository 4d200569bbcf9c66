// Package loader resolves a user-supplied URL and hands the chosen quality to
// the player.
package loader

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/spherecast/spherecast/internal/stream"
)

const (
	fallbackTitle = "Stream"
	failedTitle   = "Failed to load stream"
)

// QualitySelector is the quality dropdown.
type QualitySelector interface {
	SetOptions(qualities []string, selected string)
}

type TitleView interface {
	SetTitle(title string)
}

type Playback interface {
	LoadSource(url string)
}

type Config struct {
	Resolver Resolver
	Quality  QualitySelector
	Title    TitleView
	Player   Playback
}

// Loader owns the last resolved stream set. Apply and SwitchQuality must run
// on the player loop; Fetch may run anywhere.
type Loader struct {
	resolver Resolver
	quality  QualitySelector
	title    TitleView
	player   Playback

	input    string
	streams  stream.Set
	selected string
}

func New(cfg Config) *Loader {
	return &Loader{
		resolver: cfg.Resolver,
		quality:  cfg.Quality,
		title:    cfg.Title,
		player:   cfg.Player,
	}
}

// Load resolves source and applies the result.
func (l *Loader) Load(ctx context.Context, source string) {
	resp, err := l.Fetch(ctx, source)
	l.Apply(source, resp, err)
}

// Fetch performs the blocking resolve call.
func (l *Loader) Fetch(ctx context.Context, source string) (*stream.Response, error) {
	return l.resolver.Resolve(ctx, source)
}

// Apply shows the outcome of a resolve call. Responses apply in the order
// Apply is called, so a slower earlier request overwrites a later one.
func (l *Loader) Apply(source string, resp *stream.Response, err error) {
	l.input = source

	if err != nil {
		slog.Error("stream resolve failed", "url", source, "error", err)
		l.title.SetTitle(failedTitle)
		return
	}
	if resp == nil {
		slog.Error("stream resolve returned no response", "url", source)
		l.title.SetTitle(failedTitle)
		return
	}
	if resp.Error != "" {
		l.title.SetTitle(resp.Error)
		return
	}

	l.title.SetTitle(lo.Ternary(resp.Title == "", fallbackTitle, resp.Title))

	l.streams = resp.Streams
	l.selected = resp.Streams.DefaultQuality(resp.DefaultQuality)
	l.quality.SetOptions(resp.Streams.Qualities(), l.selected)

	if l.selected == "" {
		slog.Warn("resolved stream has no qualities", "url", source)
		return
	}
	streamURL, _ := l.streams.URL(l.selected)
	l.player.LoadSource(streamURL)
}

// SwitchQuality replays the current stream set at quality. Unknown qualities
// are ignored.
func (l *Loader) SwitchQuality(quality string) {
	streamURL, ok := l.streams.URL(quality)
	if !ok {
		return
	}
	l.selected = quality
	l.player.LoadSource(streamURL)
}

// Input is the URL last passed to Apply.
func (l *Loader) Input() string { return l.input }

func (l *Loader) Selected() string { return l.selected }

// CurrentURL is the media URL of the selected quality.
func (l *Loader) CurrentURL() string {
	u, _ := l.streams.URL(l.selected)
	return u
}
