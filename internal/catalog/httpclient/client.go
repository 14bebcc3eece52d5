// Package httpclient implements catalog.Gateway over the provider's HTTP API.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jask/starfolk/internal/catalog"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxBody = 8 << 20
)

// Options configures a Client. Zero values pick sensible defaults.
type Options struct {
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

var _ catalog.Gateway = (*Client)(nil)

func New(baseURL string, opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:    base,
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}, nil
}

func (c *Client) Search(ctx context.Context, text string) ([]catalog.Summary, error) {
	q := url.Values{}
	if text != "" {
		q.Set("search", text)
	}
	return c.list(ctx, "/api/characters", q)
}

func (c *Client) Featured(ctx context.Context) ([]catalog.Summary, error) {
	return c.list(ctx, "/api/characters/featured", nil)
}

func (c *Client) Character(ctx context.Context, id int) (catalog.Detail, error) {
	var d catalog.Detail
	body, err := c.get(ctx, "/api/characters/"+strconv.Itoa(id), nil)
	if err != nil {
		return d, err
	}
	if !startsWith(body, '{') {
		return d, fmt.Errorf("character %d: %w", id, catalog.ErrMalformed)
	}
	if err := json.Unmarshal(body, &d); err != nil {
		return d, fmt.Errorf("character %d: %w: %v", id, catalog.ErrMalformed, err)
	}
	return d, nil
}

func (c *Client) list(ctx context.Context, path string, q url.Values) ([]catalog.Summary, error) {
	body, err := c.get(ctx, path, q)
	if err != nil {
		return nil, err
	}
	if !startsWith(body, '[') {
		return nil, fmt.Errorf("%s: expected array: %w", path, catalog.ErrMalformed)
	}
	var out []catalog.Summary
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, catalog.ErrMalformed, err)
	}
	if out == nil {
		out = []catalog.Summary{}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", path), zap.String("request_id", reqID), zap.Error(err))
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("response",
		zap.String("path", path),
		zap.String("query", u.RawQuery),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID),
		zap.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("get %s: %w", path, catalog.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return body, nil
}

func startsWith(body []byte, c byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) > 0 && body[0] == c
}
