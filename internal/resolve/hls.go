package resolve

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/spherecast/spherecast/internal/stream"
)

const maxPlaylistBytes = 2 << 20

// HLSExtractor lists the variants of an HLS master playlist.
type HLSExtractor struct {
	client    *http.Client
	userAgent string
}

func NewHLSExtractor(client *http.Client) *HLSExtractor {
	if client == nil {
		client = http.DefaultClient
	}
	return &HLSExtractor{client: client, userAgent: browserUserAgent}
}

func (h *HLSExtractor) Name() string { return "hls" }

// Extract fetches source and, when it is an HLS playlist, names each variant
// by its height ("720p") or, lacking a resolution, its bandwidth ("1500k").
// Variants are listed from lowest to highest bandwidth, followed by the
// "worst" and "best" aliases. A media playlist yields a single "best" stream.
func (h *HLSExtractor) Extract(ctx context.Context, source string) (*Extraction, error) {
	base, err := url.Parse(source)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, ErrUnsupported
	}

	body, err := h.fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("#EXTM3U")) {
		return nil, ErrUnsupported
	}

	pl, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), false)
	if err != nil {
		return nil, fmt.Errorf("decode playlist: %w", err)
	}

	if listType != m3u8.MASTER {
		return &Extraction{Streams: stream.NewSet(stream.Stream{Quality: stream.QualityBest, URL: source})}, nil
	}

	master, ok := pl.(*m3u8.MasterPlaylist)
	if !ok {
		return nil, fmt.Errorf("unexpected playlist type %T", pl)
	}
	return &Extraction{Streams: variantStreams(base, master.Variants)}, nil
}

func (h *HLSExtractor) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch playlist: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPlaylistBytes))
	if err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}
	return body, nil
}

func variantStreams(base *url.URL, variants []*m3u8.Variant) stream.Set {
	usable := make([]*m3u8.Variant, 0, len(variants))
	for _, v := range variants {
		if v == nil || v.Iframe || v.URI == "" {
			continue
		}
		usable = append(usable, v)
	}
	if len(usable) == 0 {
		return stream.Set{}
	}

	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].Bandwidth < usable[j].Bandwidth
	})

	// Walk from the top so a repeated name keeps its highest-bandwidth URL.
	named := make(map[string]string, len(usable))
	var order []string
	for i := len(usable) - 1; i >= 0; i-- {
		v := usable[i]
		name := variantName(v)
		if _, seen := named[name]; seen {
			continue
		}
		named[name] = resolveReference(base, v.URI)
		order = append(order, name)
	}

	streams := make([]stream.Stream, 0, len(order)+2)
	for i := len(order) - 1; i >= 0; i-- {
		streams = append(streams, stream.Stream{Quality: order[i], URL: named[order[i]]})
	}
	streams = append(streams,
		stream.Stream{Quality: stream.QualityWorst, URL: streams[0].URL},
		stream.Stream{Quality: stream.QualityBest, URL: streams[len(streams)-1].URL},
	)
	return stream.NewSet(streams...)
}

func variantName(v *m3u8.Variant) string {
	if _, height, ok := strings.Cut(v.Resolution, "x"); ok && height != "" {
		return height + "p"
	}
	if v.Bandwidth > 0 {
		return fmt.Sprintf("%dk", v.Bandwidth/1000)
	}
	return "unknown"
}

func resolveReference(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
