// Package ctl implements the thalamusctl admin CLI: a small typed client
// for the daemon's HTTP API plus the cobra command tree around it.
package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"thalamusd/pkg/types"
)

// Client talks to a running daemon. Transient transport errors retry a
// couple of times; HTTP error statuses do not.
type Client struct {
	base   string
	apiKey string
	hc     *http.Client
}

// NewClient builds a client for the daemon at base, e.g.
// "http://127.0.0.1:8080".
func NewClient(base, apiKey string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	rc.CheckRetry = checkRetry
	return &Client{
		base:   strings.TrimRight(base, "/"),
		apiKey: apiKey,
		hc:     rc.StandardClient(),
	}
}

// checkRetry is the default retry policy except that a 503 from /readyz is
// treated as an answer, not a failure.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil && resp.StatusCode == http.StatusServiceUnavailable &&
		resp.Request != nil && resp.Request.URL.Path == "/readyz" {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

func (c *Client) Status(ctx context.Context) (types.StatusResponse, error) {
	var out types.StatusResponse
	err := c.get(ctx, "/status", &out)
	return out, err
}

// Ready decodes /readyz, which deliberately answers 503 while critical
// models are still loading.
func (c *Client) Ready(ctx context.Context) (types.ReadyResponse, error) {
	var out types.ReadyResponse
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/readyz", nil)
	if err != nil {
		return out, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return out, fmt.Errorf("GET /readyz: %s", resp.Status)
	}
	return out, json.NewDecoder(resp.Body).Decode(&out)
}

func (c *Client) Models(ctx context.Context) ([]types.ModelInfo, error) {
	var out types.ModelsResponse
	if err := c.get(ctx, "/models", &out); err != nil {
		return nil, err
	}
	return out.Models, nil
}

func (c *Client) Versions(ctx context.Context, id string) (types.VersionsResponse, error) {
	var out types.VersionsResponse
	err := c.get(ctx, "/models/"+id+"/versions", &out)
	return out, err
}

func (c *Client) CacheInfo(ctx context.Context) (types.CacheInfo, error) {
	var out types.CacheInfo
	err := c.get(ctx, "/admin/cache", &out)
	return out, err
}

func (c *Client) ClearCache(ctx context.Context) (types.CacheClearResponse, error) {
	var out types.CacheClearResponse
	err := c.post(ctx, "/admin/cache/clear", nil, &out)
	return out, err
}

func (c *Client) Unload(ctx context.Context, model, version string) (types.UnloadResponse, error) {
	var out types.UnloadResponse
	err := c.post(ctx, "/admin/models/unload", types.UnloadRequest{Model: model, Version: version}, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, c.base+path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var e types.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("daemon: %s", e.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
