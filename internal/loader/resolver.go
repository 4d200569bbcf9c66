package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spherecast/spherecast/internal/stream"
)

const resolvePath = "/api/resolve"

// Resolver looks up the playable streams of a URL. A non-nil response with
// Error set is a resolution failure reported by the backend.
type Resolver interface {
	Resolve(ctx context.Context, source string) (*stream.Response, error)
}

// HTTPResolver calls the resolve endpoint of a spherecast server.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver returns a resolver for the server at baseURL, such as the
// page origin in the browser.
func NewHTTPResolver(baseURL string, client *http.Client) *HTTPResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPResolver{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (r *HTTPResolver) Resolve(ctx context.Context, source string) (*stream.Response, error) {
	endpoint := r.baseURL + resolvePath + "?url=" + url.QueryEscape(source)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build resolve request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolve request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read resolve response: %w", err)
	}

	var out stream.Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode resolve response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK && out.Error == "" {
		return nil, fmt.Errorf("resolve request: status %d", resp.StatusCode)
	}
	return &out, nil
}
