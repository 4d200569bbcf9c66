package resolve

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spherecast/spherecast/internal/stream"
)

type stubExtractor struct {
	name   string
	result *Extraction
	err    error
	calls  int
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Extract(_ context.Context, _ string) (*Extraction, error) {
	s.calls++
	return s.result, s.err
}

type stubTitles struct {
	title string
}

func (s stubTitles) FetchTitle(_ context.Context, _ string) string { return s.title }

func TestResolve_MissingURL(t *testing.T) {
	svc := NewService(Config{})

	for _, source := range []string{"", "   "} {
		_, err := svc.Resolve(context.Background(), source)
		if !errors.Is(err, ErrMissingURL) {
			t.Errorf("expected ErrMissingURL for %q, got %v", source, err)
		}
	}
}

func TestResolve_DirectMediaSkipsExtractors(t *testing.T) {
	ext := &stubExtractor{name: "stub", err: errors.New("should not run")}
	svc := NewService(Config{Extractors: []Extractor{ext}})

	resp, err := svc.Resolve(context.Background(), "https://cdn.example.com/videos/pano.mp4?sig=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.calls != 0 {
		t.Errorf("expected extractor not to run, ran %d times", ext.calls)
	}
	if resp.Title != "pano.mp4" {
		t.Errorf("expected title %q, got %q", "pano.mp4", resp.Title)
	}
	if resp.DefaultQuality != stream.QualityBest {
		t.Errorf("expected default quality %q, got %q", stream.QualityBest, resp.DefaultQuality)
	}
	if url, _ := resp.Streams.URL(stream.QualityBest); url != "https://cdn.example.com/videos/pano.mp4?sig=1" {
		t.Errorf("unexpected best url %q", url)
	}
}

func TestResolve_UsesFirstExtractorWithStreams(t *testing.T) {
	skip := &stubExtractor{name: "skip", err: ErrUnsupported}
	empty := &stubExtractor{name: "empty", result: &Extraction{}}
	hit := &stubExtractor{name: "hit", result: &Extraction{
		Streams: stream.NewSet(
			stream.Stream{Quality: "480p", URL: "https://x/480.m3u8"},
			stream.Stream{Quality: "best", URL: "https://x/1080.m3u8"},
		),
	}}
	after := &stubExtractor{name: "after"}

	svc := NewService(Config{
		Extractors: []Extractor{skip, empty, hit, after},
		Titles:     stubTitles{title: "Live Pano"},
	})

	resp, err := svc.Resolve(context.Background(), "https://example.com/watch?v=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.calls != 0 {
		t.Error("expected chain to stop at first hit")
	}
	if resp.Title != "Live Pano" {
		t.Errorf("expected title %q, got %q", "Live Pano", resp.Title)
	}
	if resp.DefaultQuality != "best" {
		t.Errorf("expected default quality best, got %q", resp.DefaultQuality)
	}
	if diff := cmp.Diff([]string{"480p", "best"}, resp.Streams.Qualities()); diff != "" {
		t.Errorf("qualities mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_ExtractorTitleWins(t *testing.T) {
	hit := &stubExtractor{name: "hit", result: &Extraction{
		Title:   "From Extractor",
		Streams: stream.NewSet(stream.Stream{Quality: "720p", URL: "https://x/720"}),
	}}
	svc := NewService(Config{Extractors: []Extractor{hit}, Titles: stubTitles{title: "From Page"}})

	resp, err := svc.Resolve(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "From Extractor" {
		t.Errorf("expected extractor title, got %q", resp.Title)
	}
	if resp.DefaultQuality != "720p" {
		t.Errorf("expected first quality as default, got %q", resp.DefaultQuality)
	}
}

func TestResolve_NoStreams(t *testing.T) {
	svc := NewService(Config{Extractors: []Extractor{&stubExtractor{name: "skip", err: ErrUnsupported}}})

	_, err := svc.Resolve(context.Background(), "https://example.com/page")
	if !errors.Is(err, ErrNoStreams) {
		t.Errorf("expected ErrNoStreams, got %v", err)
	}
}

func TestResolve_ExtractionFailure(t *testing.T) {
	svc := NewService(Config{Extractors: []Extractor{&stubExtractor{name: "boom", err: errors.New("geo blocked")}}})

	_, err := svc.Resolve(context.Background(), "https://example.com/page")
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if extractErr.Err.Error() != "boom: geo blocked" {
		t.Errorf("unexpected cause %q", extractErr.Err.Error())
	}
}

func TestResolve_MissingTitleFetcher(t *testing.T) {
	hit := &stubExtractor{name: "hit", result: &Extraction{
		Streams: stream.NewSet(stream.Stream{Quality: "best", URL: "https://x/a"}),
	}}
	svc := NewService(Config{Extractors: []Extractor{hit}})

	resp, err := svc.Resolve(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "Unknown Stream Title" {
		t.Errorf("expected fallback title, got %q", resp.Title)
	}
}

func TestIsDirectMedia(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://x/live/master.m3u8", true},
		{"https://x/live/MASTER.M3U8?token=1", true},
		{"https://x/a.mp4", true},
		{"https://x/a.webm#t=10", true},
		{"https://x/a.MOV", true},
		{"https://x/a.m4v?x=1", true},
		{"https://x/watch?v=abc", false},
		{"https://x/a.mp4.html", false},
		{"https://x/a.mkv", false},
	}

	for _, tt := range tests {
		if got := IsDirectMedia(tt.source); got != tt.want {
			t.Errorf("IsDirectMedia(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestTitleFromURL(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"https://x/videos/pano.mp4", "pano.mp4"},
		{"https://x/videos/live/", "live"},
		{"https://cdn.example.com", "cdn.example.com"},
		{"::not a url", "Stream"},
	}

	for _, tt := range tests {
		if got := TitleFromURL(tt.source); got != tt.want {
			t.Errorf("TitleFromURL(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

const masterPlaylist = `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=2500000,RESOLUTION=1280x720
hd/720.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=854x480
sd/480.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=900000,RESOLUTION=854x480
sd/480-hi.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=128000
audio.m3u8
#EXT-X-I-FRAME-STREAM-INF:BANDWIDTH=90000,RESOLUTION=1280x720,URI="iframe.m3u8"
`

const mediaPlaylist = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:6
#EXTINF:6.0,
seg0.ts
#EXT-X-ENDLIST
`

func newPlaylistServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/live/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(masterPlaylist))
	})
	mux.HandleFunc("/live/media.m3u8", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(mediaPlaylist))
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>  Harbour \n Cam </title></head></html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHLSExtractor_MasterPlaylist(t *testing.T) {
	srv := newPlaylistServer(t)
	h := NewHLSExtractor(srv.Client())

	found, err := h.Extract(context.Background(), srv.URL+"/live/master.m3u8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []stream.Stream{
		{Quality: "128k", URL: srv.URL + "/live/audio.m3u8"},
		{Quality: "480p", URL: srv.URL + "/live/sd/480-hi.m3u8"},
		{Quality: "720p", URL: srv.URL + "/live/hd/720.m3u8"},
		{Quality: "worst", URL: srv.URL + "/live/audio.m3u8"},
		{Quality: "best", URL: srv.URL + "/live/hd/720.m3u8"},
	}
	if diff := cmp.Diff(want, found.Streams.Streams()); diff != "" {
		t.Errorf("streams mismatch (-want +got):\n%s", diff)
	}
}

func TestHLSExtractor_MediaPlaylist(t *testing.T) {
	srv := newPlaylistServer(t)
	h := NewHLSExtractor(srv.Client())

	source := srv.URL + "/live/media.m3u8"
	found, err := h.Extract(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []stream.Stream{{Quality: "best", URL: source}}
	if diff := cmp.Diff(want, found.Streams.Streams()); diff != "" {
		t.Errorf("streams mismatch (-want +got):\n%s", diff)
	}
}

func TestHLSExtractor_Unsupported(t *testing.T) {
	srv := newPlaylistServer(t)
	h := NewHLSExtractor(srv.Client())

	for _, source := range []string{"ftp://x/a.m3u8", srv.URL + "/page"} {
		if _, err := h.Extract(context.Background(), source); !errors.Is(err, ErrUnsupported) {
			t.Errorf("expected ErrUnsupported for %q, got %v", source, err)
		}
	}
}

func TestResolve_ExpandsDirectMasterPlaylist(t *testing.T) {
	srv := newPlaylistServer(t)
	svc := NewService(Config{ExpandHLS: NewHLSExtractor(srv.Client())})

	resp, err := svc.Resolve(context.Background(), srv.URL+"/live/master.m3u8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Title != "master.m3u8" {
		t.Errorf("expected title master.m3u8, got %q", resp.Title)
	}
	if resp.DefaultQuality != "best" {
		t.Errorf("expected default best, got %q", resp.DefaultQuality)
	}
	if resp.Streams.Len() != 5 {
		t.Errorf("expected 5 streams, got %d", resp.Streams.Len())
	}
}

func TestResolve_DirectMediaPlaylistStaysSingle(t *testing.T) {
	srv := newPlaylistServer(t)
	svc := NewService(Config{ExpandHLS: NewHLSExtractor(srv.Client())})

	source := srv.URL + "/live/media.m3u8"
	resp, err := svc.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"best"}, resp.Streams.Qualities()); diff != "" {
		t.Errorf("qualities mismatch (-want +got):\n%s", diff)
	}
}

func TestPageTitles(t *testing.T) {
	srv := newPlaylistServer(t)
	titles := NewPageTitles(srv.Client())

	if got := titles.FetchTitle(context.Background(), srv.URL+"/page"); got != "Harbour Cam" {
		t.Errorf("expected %q, got %q", "Harbour Cam", got)
	}
	if got := titles.FetchTitle(context.Background(), srv.URL+"/missing"); got != "Unknown Stream Title" {
		t.Errorf("expected fallback title, got %q", got)
	}
}

func TestParseYTDLPInfo(t *testing.T) {
	raw := []byte(`{"title":"Alps 360","formats":[
		{"format_id":"sb0","url":"https://x/sb","vcodec":"none","acodec":"none"},
		{"format_id":"hls-480","url":"https://x/480.m3u8","height":480,"protocol":"m3u8_native"},
		{"format_id":"18","url":"https://x/360.mp4","height":360,"vcodec":"avc1","acodec":"mp4a"},
		{"format_id":"137","url":"https://x/1080v.mp4","height":1080,"vcodec":"avc1","acodec":"none"},
		{"format_id":"hls-1080","url":"https://x/1080.m3u8","height":1080,"protocol":"m3u8_native"}
	]}
{"title":"second entry ignored"}`)

	found, err := parseYTDLPInfo(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Title != "Alps 360" {
		t.Errorf("expected title %q, got %q", "Alps 360", found.Title)
	}
	want := []stream.Stream{
		{Quality: "480p", URL: "https://x/480.m3u8"},
		{Quality: "360p", URL: "https://x/360.mp4"},
		{Quality: "1080p", URL: "https://x/1080.m3u8"},
		{Quality: "worst", URL: "https://x/480.m3u8"},
		{Quality: "best", URL: "https://x/1080.m3u8"},
	}
	if diff := cmp.Diff(want, found.Streams.Streams()); diff != "" {
		t.Errorf("streams mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYTDLPInfo_DirectURL(t *testing.T) {
	found, err := parseYTDLPInfo([]byte(`{"title":"clip","url":"https://x/clip.mp4"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url, _ := found.Streams.URL("best"); url != "https://x/clip.mp4" {
		t.Errorf("unexpected best url %q", url)
	}
}

func TestYTDLPExtractor_RunFailure(t *testing.T) {
	y := &YTDLPExtractor{run: func(context.Context, string) (string, error) {
		return "", errors.New("exit status 1")
	}}

	if _, err := y.Extract(context.Background(), "https://example.com/v"); err == nil {
		t.Error("expected error")
	}
	if _, err := y.Extract(context.Background(), "magnet:?xt=1"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
