// Package resolve turns user-supplied URLs into playable quality variants.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/spherecast/spherecast/internal/metrics"
	"github.com/spherecast/spherecast/internal/stream"
)

const (
	defaultTitle      = "Stream"
	unknownPageTitle  = "Unknown Stream Title"
	defaultExtractFor = 30 * time.Second
)

var (
	ErrMissingURL = errors.New("missing url")
	ErrNoStreams  = errors.New("no playable streams found")
	// ErrUnsupported is returned by an extractor that does not handle a source.
	ErrUnsupported = errors.New("unsupported source")
)

// ExtractionError wraps the failure of every applicable extractor.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return "extraction failed: " + e.Err.Error() }
func (e *ExtractionError) Unwrap() error { return e.Err }

// Extraction is what an extractor found for a page.
type Extraction struct {
	Title   string
	Streams stream.Set
}

type Extractor interface {
	Name() string
	Extract(ctx context.Context, source string) (*Extraction, error)
}

type TitleFetcher interface {
	FetchTitle(ctx context.Context, pageURL string) string
}

type Config struct {
	Extractors []Extractor
	Titles     TitleFetcher
	// Timeout bounds the whole extractor chain for one request.
	Timeout time.Duration
	// ExpandHLS lists the variants of direct HLS master playlists instead
	// of returning the manifest as the only stream.
	ExpandHLS *HLSExtractor
}

type Service struct {
	extractors []Extractor
	titles     TitleFetcher
	timeout    time.Duration
	expandHLS  *HLSExtractor
}

func NewService(cfg Config) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultExtractFor
	}
	return &Service{
		extractors: cfg.Extractors,
		titles:     cfg.Titles,
		timeout:    timeout,
		expandHLS:  cfg.ExpandHLS,
	}
}

// Resolve returns the playable streams for source. Direct media links are
// returned as-is under "best"; anything else goes through the extractors.
func (s *Service) Resolve(ctx context.Context, source string) (*stream.Response, error) {
	start := time.Now()
	resp, result, err := s.resolve(ctx, strings.TrimSpace(source))
	metrics.ObserveResolve(result, time.Since(start))
	return resp, err
}

func (s *Service) resolve(ctx context.Context, source string) (*stream.Response, string, error) {
	if source == "" {
		return nil, "invalid", ErrMissingURL
	}

	if IsDirectMedia(source) {
		return s.resolveDirect(ctx, source), "direct", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var lastErr error
	for _, e := range s.extractors {
		found, err := e.Extract(ctx, source)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		if err != nil {
			slog.Warn("extractor failed", "extractor", e.Name(), "source", source, "error", err)
			lastErr = fmt.Errorf("%s: %w", e.Name(), err)
			continue
		}
		if found == nil || found.Streams.Len() == 0 {
			continue
		}

		title := found.Title
		if title == "" {
			title = s.pageTitle(ctx, source)
		}
		return &stream.Response{
			Input:          source,
			Title:          title,
			DefaultQuality: found.Streams.DefaultQuality(""),
			Streams:        found.Streams,
		}, "extracted", nil
	}

	if lastErr != nil {
		return nil, "failed", &ExtractionError{Err: lastErr}
	}
	return nil, "no_streams", ErrNoStreams
}

func (s *Service) resolveDirect(ctx context.Context, source string) *stream.Response {
	resp := &stream.Response{
		Input:          source,
		Title:          TitleFromURL(source),
		DefaultQuality: stream.QualityBest,
		Streams:        stream.NewSet(stream.Stream{Quality: stream.QualityBest, URL: source}),
	}
	if s.expandHLS == nil || !strings.Contains(strings.ToLower(source), ".m3u8") {
		return resp
	}

	found, err := s.expandHLS.Extract(ctx, source)
	if err != nil {
		slog.Debug("hls variant expansion skipped", "source", source, "error", err)
		return resp
	}
	if found.Streams.Len() > 1 {
		resp.Streams = found.Streams
		resp.DefaultQuality = found.Streams.DefaultQuality(stream.QualityBest)
	}
	return resp
}

func (s *Service) pageTitle(ctx context.Context, source string) string {
	if s.titles == nil {
		return unknownPageTitle
	}
	return s.titles.FetchTitle(ctx, source)
}

var videoExtPattern = regexp.MustCompile(`\.(mp4|webm|ogv|mov|m4v)($|[?#])`)

// IsDirectMedia reports whether source can be handed to the player without
// extraction: any HLS manifest, or a link to a common video container.
func IsDirectMedia(source string) bool {
	lower := strings.ToLower(source)
	if strings.Contains(lower, ".m3u8") {
		return true
	}
	return videoExtPattern.MatchString(lower)
}

// TitleFromURL names a direct link after its last path segment, falling back
// to the host.
func TitleFromURL(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return defaultTitle
	}
	path := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if path != "" {
		return path
	}
	if u.Host != "" {
		return u.Host
	}
	return defaultTitle
}
