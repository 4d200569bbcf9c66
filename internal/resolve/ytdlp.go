package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/spherecast/spherecast/internal/stream"
)

// YTDLPExtractor asks yt-dlp for the formats of a page.
type YTDLPExtractor struct {
	run func(ctx context.Context, source string) (string, error)
}

func NewYTDLPExtractor() *YTDLPExtractor {
	return &YTDLPExtractor{run: runYTDLP}
}

func (y *YTDLPExtractor) Name() string { return "yt-dlp" }

func (y *YTDLPExtractor) Extract(ctx context.Context, source string) (*Extraction, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return nil, ErrUnsupported
	}

	out, err := y.run(ctx, source)
	if err != nil {
		return nil, err
	}
	return parseYTDLPInfo([]byte(out))
}

func runYTDLP(ctx context.Context, source string) (string, error) {
	res, err := ytdlp.New().
		DumpJSON().
		NoPlaylist().
		NoWarnings().
		Run(ctx, source)
	if err != nil {
		return "", fmt.Errorf("run yt-dlp: %w", err)
	}
	return res.Stdout, nil
}

type ytdlpInfo struct {
	Title   string        `json:"title"`
	URL     string        `json:"url"`
	Formats []ytdlpFormat `json:"formats"`
}

type ytdlpFormat struct {
	FormatID string  `json:"format_id"`
	URL      string  `json:"url"`
	Height   int     `json:"height"`
	TBR      float64 `json:"tbr"`
	VCodec   string  `json:"vcodec"`
	ACodec   string  `json:"acodec"`
	Protocol string  `json:"protocol"`
}

// playable reports whether the browser can play the format on its own:
// progressive files carrying both tracks, or HLS manifests.
func (f ytdlpFormat) playable() bool {
	if f.URL == "" {
		return false
	}
	if strings.HasPrefix(f.Protocol, "m3u8") {
		return true
	}
	return f.VCodec != "" && f.VCodec != "none" && f.ACodec != "" && f.ACodec != "none"
}

func parseYTDLPInfo(raw []byte) (*Extraction, error) {
	// --dump-json prints one object per entry; only the first is used.
	var info ytdlpInfo
	if err := json.NewDecoder(bytes.NewReader(raw)).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}

	var picked []stream.Stream
	for _, f := range info.Formats {
		if !f.playable() {
			continue
		}
		name := f.FormatID
		if f.Height > 0 {
			name = fmt.Sprintf("%dp", f.Height)
		}
		picked = append(picked, stream.Stream{Quality: name, URL: f.URL})
	}
	if len(picked) == 0 && info.URL != "" {
		picked = append(picked, stream.Stream{Quality: stream.QualityBest, URL: info.URL})
	}
	if len(picked) == 0 {
		return &Extraction{Title: info.Title}, nil
	}

	// yt-dlp lists formats worst first.
	if _, ok := lookup(picked, stream.QualityBest); !ok {
		picked = append(picked,
			stream.Stream{Quality: stream.QualityWorst, URL: picked[0].URL},
			stream.Stream{Quality: stream.QualityBest, URL: picked[len(picked)-1].URL},
		)
	}
	return &Extraction{Title: info.Title, Streams: stream.NewSet(picked...)}, nil
}

func lookup(streams []stream.Stream, quality string) (string, bool) {
	for _, s := range streams {
		if s.Quality == quality {
			return s.URL, true
		}
	}
	return "", false
}
