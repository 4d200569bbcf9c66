// Package kvsync keeps browser-side items in step with the /api/storage
// endpoints of a spherecast server.
package kvsync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const storagePath = "/api/storage/"

// ErrNotFound is returned by Get when the server has no value for a key.
var ErrNotFound = errors.New("item not found")

type valueBody struct {
	Value string `json:"value"`
}

// Client talks to the /api/storage endpoints of a spherecast server. The
// server scopes every key to the session cookie, so the client has no
// namespace of its own.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *Client) endpoint(key string) string {
	return c.baseURL + storagePath + url.PathEscape(key)
}

func (c *Client) Get(ctx context.Context, key string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(key), nil)
	if err != nil {
		return "", fmt.Errorf("build storage request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage get: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("storage get: status %d", resp.StatusCode)
	}

	var body valueBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode storage response: %w", err)
	}
	return body.Value, nil
}

func (c *Client) Put(ctx context.Context, key, value string) error {
	payload, err := json.Marshal(valueBody{Value: value})
	if err != nil {
		return fmt.Errorf("encode storage value: %w", err)
	}
	return c.send(ctx, http.MethodPut, key, payload)
}

func (c *Client) Delete(ctx context.Context, key string) error {
	return c.send(ctx, http.MethodDelete, key, nil)
}

func (c *Client) send(ctx context.Context, method, key string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(key), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build storage request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("storage %s: %w", strings.ToLower(method), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storage %s: status %d", strings.ToLower(method), resp.StatusCode)
	}
	return nil
}
