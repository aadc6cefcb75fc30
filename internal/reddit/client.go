// Copyright (c) 2025-2026 Reddit Research MCP Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package reddit is a small Reddit API client covering the calls used by the
// research and account tools.  All requests go through a shared rate limiter;
// the client never retries a failed request.
package reddit

// In this file: client construction and the request plumbing.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/trace"
	"strings"

	"golang.org/x/time/rate"
)

const (
	// APIURL is the base URL for OAuth-authenticated API calls.
	APIURL = "https://oauth.reddit.com"
	// WebURL is the base of the public thread permalinks.
	WebURL = "https://reddit.com"

	// DefUserAgent is sent when no user agent is configured.
	DefUserAgent = "ResearchBot/1.0 (IRB Approved)"

	// MaxPageSize is the maximum listing size Reddit returns per request.
	MaxPageSize = 100
	// maxErrBody limits how much of an error response body is kept.
	maxErrBody = 512
)

// Client is the Reddit API client.  The zero value is not usable, use New.
type Client struct {
	hc        *http.Client
	baseURL   string
	userAgent string
	lim       *rate.Limiter
	pageSize  int
	lg        *slog.Logger
}

// Option is the Client option function.
type Option func(*Client)

// WithBaseURL sets the API base URL.  Used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.  Reddit
// rejects requests with generic user agents.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLimiter sets the rate limiter shared by all requests.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		if l != nil {
			c.lim = l
		}
	}
}

// WithPageSize sets the number of items requested per listing page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if 0 < n && n <= MaxPageSize {
			c.pageSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) Option {
	return func(c *Client) {
		if lg != nil {
			c.lg = lg
		}
	}
}

// New returns a client that sends requests with hc.  hc must attach the OAuth
// token, see [Credentials.HTTPClient].  If hc is nil, http.DefaultClient is
// used.
func New(hc *http.Client, opts ...Option) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	c := &Client{
		hc:        hc,
		baseURL:   APIURL,
		userAgent: DefUserAgent,
		lim:       NewLimiter(DefRequestsPerMinute, DefBurst),
		pageSize:  MaxPageSize,
		lg:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	if q == nil {
		q = url.Values{}
	}
	q.Set("raw_json", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, v)
}

func (c *Client) post(ctx context.Context, path string, form url.Values, v any) error {
	if form == nil {
		form = url.Values{}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path+"?raw_json=1", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(ctx, req, v)
}

// do waits for the limiter, executes the request and decodes the JSON
// response into v, if v is not nil.
func (c *Client) do(ctx context.Context, req *http.Request, v any) error {
	var err error
	trace.WithRegion(ctx, "reddit.wait", func() {
		err = c.lim.Wait(ctx)
	})
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.lg.DebugContext(ctx, "reddit: request", "method", req.Method, "path", req.URL.Path)
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("reddit: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return &StatusError{
			Method: req.Method,
			Path:   req.URL.Path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}
	if v == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("reddit: decode %s: %w", req.URL.Path, err)
	}
	return nil
}

// subredditPath returns the /r/name path prefix.  Accepts names with or
// without the "r/" prefix.
func subredditPath(name string) string {
	return "/r/" + url.PathEscape(CleanSubreddit(name))
}

// CleanSubreddit trims whitespace and the optional "r/" or "/r/" prefix.
func CleanSubreddit(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "/")
	if len(name) >= 2 && strings.EqualFold(name[:2], "r/") {
		name = name[2:]
	}
	return name
}
