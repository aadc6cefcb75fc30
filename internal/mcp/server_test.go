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

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"
	"github.com/rusq/fsadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
	"golang.org/x/time/rate"

	"github.com/redditresearch/redditmcp/internal/privacy"
	"github.com/redditresearch/redditmcp/internal/reddit"
	"github.com/redditresearch/redditmcp/internal/research"
	"github.com/redditresearch/redditmcp/internal/research/mock_research"
)

const testSalt = "test-salt"

// newTestServer creates a *Server with the research tools backed by a mock
// upstream and the account tools backed by a Reddit client talking to a test
// server running h.  If h is nil, any request to Reddit fails the test.
func newTestServer(t *testing.T, h http.HandlerFunc) (*Server, *mock_research.MockUpstream) {
	t.Helper()
	if h == nil {
		h = func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	}
	hs := httptest.NewServer(h)
	t.Cleanup(hs.Close)
	rc := reddit.New(hs.Client(), reddit.WithBaseURL(hs.URL), reddit.WithLimiter(rate.NewLimiter(rate.Inf, 1)))

	ctrl := gomock.NewController(t)
	up := mock_research.NewMockUpstream(ctrl)
	dir := t.TempDir()
	res := research.New(up, privacy.New(testSalt),
		research.WithBatchPause(0),
		research.WithExport(fsadapter.NewDirectory(dir), dir),
	)
	srv := New(res, rc, WithLogger(slog.New(slog.DiscardHandler)))
	require.NotNil(t, srv)
	return srv, up
}

// toolReq builds a CallToolRequest with the given argument map.
func toolReq(args map[string]any) mcplib.CallToolRequest {
	req := mcplib.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// isErrorResult returns true when the result carries IsError=true.
func isErrorResult(r *mcplib.CallToolResult) bool {
	return r != nil && r.IsError
}

// firstText returns the text of the first TextContent in the result.
func firstText(t *testing.T, r *mcplib.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, r.Content, "result has no content")
	txt, ok := r.Content[0].(mcplib.TextContent)
	require.True(t, ok, "first content item is not TextContent")
	return txt.Text
}

// decode decodes the JSON envelope of the result.
func decode(t *testing.T, r *mcplib.CallToolResult) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(firstText(t, r)), &m))
	return m
}

// ─── New / options ────────────────────────────────────────────────────────────

func TestNew(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	assert.NotNil(t, srv.mcp)
	assert.NotNil(t, srv.res)
	assert.NotNil(t, srv.rc)
	assert.NotNil(t, srv.logger)
}

func TestNew_nilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		srv := New(nil, nil, WithLogger(nil))
		assert.Same(t, slog.Default(), srv.logger)
	})
}

func TestServer_tools(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	want := []string{
		"search_reddit_threads", "get_thread_details", "get_subreddit_info",
		"batch_search_medications", "export_research_data",
		"moderate_user", "moderate_content", "get_moderation_log", "manage_modmail",
		"get_subreddit_traffic", "submit_content", "interact_with_content",
		"gild_content", "manage_subscriptions", "manage_inbox", "get_my_identity",
		"read_wiki_page", "edit_wiki_page", "list_wiki_pages",
	}
	var got []string
	for _, tool := range srv.tools() {
		got = append(got, tool.Tool.Name)
		assert.NotEmpty(t, tool.Tool.Description, tool.Tool.Name)
		assert.NotNil(t, tool.Handler, tool.Tool.Name)
	}
	assert.ElementsMatch(t, want, got)
}

func TestAddTool(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	extra := mcpsrv.ServerTool{
		Tool: mcplib.NewTool("extra_tool", mcplib.WithDescription("extra")),
		Handler: func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
			return mcplib.NewToolResultText("ok"), nil
		},
	}
	assert.NotPanics(t, func() {
		srv.AddTool(extra)
	})
}

func TestServer_traced(t *testing.T) {
	var buf bytes.Buffer
	srv := New(nil, nil, WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	h := srv.traced("probe", func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return resultErr(errors.New("boom")), nil
	})
	res, err := h(t.Context(), toolReq(nil))
	require.NoError(t, err)
	assert.True(t, isErrorResult(res))
	assert.Contains(t, buf.String(), "tool=probe")
	assert.Contains(t, buf.String(), "is_error=true")
}

// ─── envelopes ────────────────────────────────────────────────────────────────

func TestResultErr(t *testing.T) {
	res := resultErr(errors.New(`bad "input"`))
	require.True(t, isErrorResult(res))
	m := decode(t, res)
	assert.Equal(t, false, m["success"])
	assert.Equal(t, `bad "input"`, m["error"])
}

func TestServer_upstreamErr(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", &reddit.StatusError{Method: "GET", Path: "/x", Code: http.StatusUnauthorized}, "credentials"},
		{"forbidden", &reddit.StatusError{Method: "GET", Path: "/x", Code: http.StatusForbidden}, "not permitted"},
		{"rate limited", &reddit.StatusError{Method: "GET", Path: "/x", Code: http.StatusTooManyRequests}, "try again"},
		{"other", errors.New("connection reset"), "connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := srv.upstreamErr(t.Context(), "probe", tt.err)
			assert.True(t, isErrorResult(res))
			assert.Contains(t, decode(t, res)["error"], tt.want)
		})
	}
}

// ─── argument helpers ─────────────────────────────────────────────────────────

func TestStringsArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]any
		want    []string
		wantErr bool
	}{
		{"absent", map[string]any{}, nil, false},
		{"nil args", nil, nil, false},
		{"any slice", map[string]any{"x": []any{"a", "b"}}, []string{"a", "b"}, false},
		{"string slice", map[string]any{"x": []string{"a"}}, []string{"a"}, false},
		{"empty", map[string]any{"x": []any{}}, []string{}, false},
		{"non-string element", map[string]any{"x": []any{"a", 1.0}}, nil, true},
		{"not an array", map[string]any{"x": "a"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stringsArg(toolReq(tt.args), "x")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntArg(t *testing.T) {
	req := toolReq(map[string]any{
		"n":     7.0,
		"i":     3,
		"zero":  0.0,
		"null":  nil,
		"frac":  2.9,
		"str":   "ten",
		"slice": []any{},
		"huge":  1e12,
	})
	tests := []struct {
		name    string
		req     mcplib.CallToolRequest
		arg     string
		want    int
		wantErr bool
	}{
		{"float", req, "n", 7, false},
		{"int", req, "i", 3, false},
		{"zero is not absent", req, "zero", 0, false},
		{"absent", req, "missing", 1, false},
		{"null", req, "null", 1, false},
		{"no arguments", toolReq(nil), "n", 1, false},
		{"fractional", req, "frac", 0, true},
		{"string", req, "str", 0, true},
		{"array", req, "slice", 0, true},
		{"out of range", req, "huge", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := intArg(tt.req, tt.arg, 1)
			if tt.wantErr {
				assert.ErrorIs(t, err, errNotInteger)
				assert.ErrorContains(t, err, tt.arg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScalarArgs(t *testing.T) {
	req := toolReq(map[string]any{"s": "val", "blank": "  ", "n": 7.0, "i": 3, "b": true, "wrong": []any{}})

	s, ok := stringArg(req, "s")
	assert.True(t, ok)
	assert.Equal(t, "val", s)
	_, ok = stringArg(req, "n")
	assert.False(t, ok)

	assert.Equal(t, "def", stringArgDef(req, "missing", "def"))
	assert.Equal(t, "val", stringArgDef(req, "s", "def"))


	assert.True(t, boolArg(req, "b", false))
	assert.True(t, boolArg(req, "s", true))

	_, err := requiredArg(req, "blank")
	assert.EqualError(t, err, "blank is required")
	got, err := requiredArg(req, "s")
	require.NoError(t, err)
	assert.Equal(t, "val", got)
}

// ─── HTTP transport ───────────────────────────────────────────────────────────

func TestServer_Handler(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	t.Run("healthcheck", func(t *testing.T) {
		resp, err := hs.Client().Get(hs.URL + "/healthcheck")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "ok\n", string(body))
	})
	t.Run("unknown path", func(t *testing.T) {
		resp, err := hs.Client().Get(hs.URL + "/nope")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
	t.Run("initialize", func(t *testing.T) {
		const initReq = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`
		req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, hs.URL+"/mcp", strings.NewReader(initReq))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json, text/event-stream")
		resp, err := hs.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), serverName)
	})
}

func TestServer_ServeHTTP_cancel(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	assert.NoError(t, srv.ServeHTTP(ctx, "127.0.0.1:0"))
}
