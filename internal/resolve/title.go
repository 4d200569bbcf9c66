package resolve

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	titleTimeout     = 5 * time.Second
	maxPageBytes     = 1 << 20
)

// PageTitles reads the <title> of an HTML page.
type PageTitles struct {
	client *http.Client
}

func NewPageTitles(client *http.Client) *PageTitles {
	if client == nil {
		client = http.DefaultClient
	}
	return &PageTitles{client: client}
}

// FetchTitle never fails; pages that cannot be read are "Unknown Stream Title".
func (p *PageTitles) FetchTitle(ctx context.Context, pageURL string) string {
	ctx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return unknownPageTitle
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Debug("page title fetch failed", "url", pageURL, "error", err)
		return unknownPageTitle
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unknownPageTitle
	}

	title := extractTitle(io.LimitReader(resp.Body, maxPageBytes))
	if title == "" {
		return unknownPageTitle
	}
	return title
}

func extractTitle(r io.Reader) string {
	z := html.NewTokenizer(r)
	inTitle := false
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				return strings.Join(strings.Fields(b.String()), " ")
			}
		case html.TextToken:
			if inTitle {
				b.Write(z.Text())
			}
		}
	}
}
