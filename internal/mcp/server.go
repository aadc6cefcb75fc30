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

// In this file: MCP server construction and transport management.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"runtime/trace"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/redditresearch/redditmcp/internal/reddit"
	"github.com/redditresearch/redditmcp/internal/research"
)

const (
	serverName    = "reddit-research-mcp"
	serverVersion = "1.0.0"

	shutdownTimeout = 10 * time.Second
)

// Researcher runs the anonymised research operations.  It is implemented by
// [research.Researcher].
type Researcher interface {
	Search(ctx context.Context, c research.Criteria) (*research.SearchResult, error)
	ThreadDetails(ctx context.Context, id string, maxComments int, sort reddit.CommentSort) (*research.ThreadDetail, error)
	SubredditInfo(ctx context.Context, name string) (*research.SubredditInfo, error)
	BatchSearch(ctx context.Context, bc research.BatchCriteria) (*research.BatchResult, error)
	Export(ctx context.Context, req research.ExportRequest) (*research.ExportResult, error)
}

// Client is the Reddit account client used by the passthrough tools.  It is
// implemented by [reddit.Client].
type Client interface {
	// moderation
	Friend(ctx context.Context, subreddit, user, rel string, opt reddit.FriendOptions) error
	Unfriend(ctx context.Context, subreddit, user, rel string) error
	Approve(ctx context.Context, fullname string) error
	Remove(ctx context.Context, fullname string, spam bool) error
	AddRemovalReason(ctx context.Context, fullname, note string) error
	Lock(ctx context.Context, fullname string) error
	Unlock(ctx context.Context, fullname string) error
	Distinguish(ctx context.Context, fullname string, on bool) error
	ModLog(ctx context.Context, subreddit string, p reddit.ModLogParams) ([]reddit.ModAction, error)
	ModmailConversations(ctx context.Context, subreddit string, limit int) ([]reddit.ModmailConversation, error)
	ModmailConversation(ctx context.Context, id string) (*reddit.ModmailThread, error)
	SubredditTraffic(ctx context.Context, name string) (*reddit.Traffic, error)

	// interaction
	Submit(ctx context.Context, p reddit.SubmitParams) (*reddit.Submission, error)
	Vote(ctx context.Context, fullname string, dir int) error
	Save(ctx context.Context, fullname string) error
	Unsave(ctx context.Context, fullname string) error
	Delete(ctx context.Context, fullname string) error
	Gild(ctx context.Context, fullname string) error
	Reply(ctx context.Context, parent, text string) (*reddit.Comment, error)
	Edit(ctx context.Context, fullname, text string) (*reddit.Comment, error)
	Subscribe(ctx context.Context, name string, subscribe bool) error

	// inbox and account
	Messages(ctx context.Context, box reddit.Mailbox, limit int) ([]reddit.Message, error)
	Compose(ctx context.Context, to, subject, body string) error
	MarkRead(ctx context.Context, fullname string) error
	Me(ctx context.Context) (*reddit.Account, error)

	// wiki
	WikiPage(ctx context.Context, subreddit, page string) (*reddit.WikiPage, error)
	EditWikiPage(ctx context.Context, subreddit, page, content, reason string) error
	WikiPages(ctx context.Context, subreddit string) ([]string, error)
}

// Server wraps an MCP server and the services behind its tools.
type Server struct {
	mcp    *mcpsrv.MCPServer
	res    Researcher
	rc     Client
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.  A nil logger is ignored.
func WithLogger(lg *slog.Logger) Option {
	return func(s *Server) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// New creates a new MCP server with the research tools backed by res and the
// account tools backed by rc.  The server does not start listening until one
// of the Serve* methods is called.
func New(res Researcher, rc Client, opts ...Option) *Server {
	s := &Server{
		res:    res,
		rc:     rc,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcpsrv.NewMCPServer(
		serverName,
		serverVersion,
		mcpsrv.WithInstructions(instructions),
		mcpsrv.WithToolCapabilities(false),
	)
	for _, t := range s.tools() {
		s.AddTool(t)
	}
	return s
}

// instructions describe the server to the connecting agent.
const instructions = `You are connected to a Reddit research MCP server.

Research tools (search_reddit_threads, get_thread_details, get_subreddit_info,
batch_search_medications, export_research_data) return anonymised data: every
author is replaced by a 12 character token derived from the study salt, or
"[deleted]" / "[removed]" for deleted accounts.  Tokens are stable within a
study, so the same author can be followed across threads without revealing
their identity.

Account tools (moderation, posting, voting, inbox, modmail, subscriptions and
wiki) act on behalf of the authenticated Reddit account and return the data
unchanged.  They fail with an authorisation error when the server runs without
account credentials.

Dates are YYYY-MM-DD in UTC.  Every tool returns JSON with a "success" field;
on failure "error" holds the reason.
`

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.serveStdio(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	srv := mcpsrv.NewStdioServer(s.mcp)
	s.logger.InfoContext(ctx, "mcp server listening on stdio")
	if err := srv.Listen(ctx, in, out); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("mcp stdio server error: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler of the Streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Get("/healthcheck", healthcheck)
	r.Handle("/mcp", mcpsrv.NewStreamableHTTPServer(s.mcp))
	return r
}

func healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "ok\n")
}

// accessLog logs every HTTP request at debug level.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "mcp: http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"size", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// ServeHTTP runs the MCP server as a Streamable HTTP server on addr until
// ctx is cancelled.  addr should be a host:port string such as "127.0.0.1:8483".
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.InfoContext(ctx, "mcp server listening on http", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("mcp http server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.InfoContext(ctx, "mcp server shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			return fmt.Errorf("mcp http server shutdown error: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// tools returns all MCP tools that this server exposes.
func (s *Server) tools() []mcpsrv.ServerTool {
	return []mcpsrv.ServerTool{
		// research
		s.toolSearchThreads(),
		s.toolThreadDetails(),
		s.toolSubredditInfo(),
		s.toolBatchSearch(),
		s.toolExport(),
		// moderation
		s.toolModerateUser(),
		s.toolModerateContent(),
		s.toolModerationLog(),
		s.toolModmail(),
		s.toolSubredditTraffic(),
		// interaction
		s.toolSubmit(),
		s.toolInteract(),
		s.toolGild(),
		s.toolSubscriptions(),
		s.toolInbox(),
		s.toolIdentity(),
		// wiki
		s.toolReadWiki(),
		s.toolEditWiki(),
		s.toolListWiki(),
	}
}

// AddTool adds a tool to the MCP server.  The handler runs within a trace
// task named after the tool.  It can be called after New but before serving
// starts.
func (s *Server) AddTool(tool mcpsrv.ServerTool) {
	s.mcp.AddTool(tool.Tool, s.traced(tool.Tool.Name, tool.Handler))
}

func (s *Server) traced(name string, h mcpsrv.ToolHandlerFunc) mcpsrv.ToolHandlerFunc {
	return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		ctx, task := trace.NewTask(ctx, "mcp:"+name)
		defer task.End()
		start := time.Now()
		res, err := h(ctx, req)
		s.logger.DebugContext(ctx, "mcp: tool call", "tool", name, "is_error", res != nil && res.IsError, "duration", time.Since(start))
		return res, err
	}
}

// failure is the envelope of a failed tool call.
type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// resultErr wraps an error in the failure envelope with IsError=true.
func resultErr(err error) *mcplib.CallToolResult {
	b, _ := json.Marshal(failure{Success: false, Error: err.Error()})
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(b))},
		IsError: true,
	}
}

// resultJSON serialises v to JSON and returns a CallToolResult.
func resultJSON(v any) (*mcplib.CallToolResult, error) {
	return mcplib.NewToolResultJSON(v)
}

// upstreamErr logs a failed Reddit call and returns the failure envelope with
// a hint for the authorisation errors.
func (s *Server) upstreamErr(ctx context.Context, tool string, err error) *mcplib.CallToolResult {
	s.logger.WarnContext(ctx, "mcp: upstream call failed", "tool", tool, "error", err)
	switch {
	case errors.Is(err, reddit.ErrUnauthorized):
		err = fmt.Errorf("%w (check the Reddit account credentials)", err)
	case errors.Is(err, reddit.ErrForbidden):
		err = fmt.Errorf("%w (the account is not permitted to do this)", err)
	case errors.Is(err, reddit.ErrRateLimited):
		err = fmt.Errorf("%w (wait a minute and try again)", err)
	}
	return resultErr(err)
}

// stringArg extracts a named string argument from a tool call request.
// Returns ("", false) if the argument is absent or not a string.
func stringArg(req mcplib.CallToolRequest, name string) (string, bool) {
	args := req.GetArguments()
	if args == nil {
		return "", false
	}
	v, ok := args[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// stringArgDef returns the named string argument, or def if it is absent or
// empty.
func stringArgDef(req mcplib.CallToolRequest, name string, def string) string {
	if s, ok := stringArg(req, name); ok && s != "" {
		return s
	}
	return def
}

// errNotInteger is returned for numeric arguments that are not whole numbers.
var errNotInteger = errors.New("must be an integer")

// intArg extracts a named int argument from a tool call request.  The MCP
// protocol serialises numbers as float64, so we convert accordingly.
// defaultVal is returned only if the argument is absent; strings and
// fractional numbers are rejected.
func intArg(req mcplib.CallToolRequest, name string, defaultVal int) (int, error) {
	args := req.GetArguments()
	if args == nil {
		return defaultVal, nil
	}
	v, ok := args[name]
	if !ok || v == nil {
		return defaultVal, nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("%s %w, got %v", name, errNotInteger, n)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	}
	return 0, fmt.Errorf("%s %w, got %T", name, errNotInteger, v)
}

// boolArg extracts a named bool argument from a tool call request.
func boolArg(req mcplib.CallToolRequest, name string, defaultVal bool) bool {
	args := req.GetArguments()
	if args == nil {
		return defaultVal
	}
	v, ok := args[name]
	if !ok {
		return defaultVal
	}
	b, ok := v.(bool)
	if !ok {
		return defaultVal
	}
	return b
}

// stringsArg extracts a named array of strings.  An absent argument returns
// nil.
func stringsArg(req mcplib.CallToolRequest, name string) ([]string, error) {
	args := req.GetArguments()
	if args == nil {
		return nil, nil
	}
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}
	switch vv := v.(type) {
	case []string:
		return vv, nil
	case []any:
		out := make([]string, 0, len(vv))
		for i, x := range vv {
			s, ok := x.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: expected a string, got %T", name, i, x)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: expected an array of strings, got %T", name, v)
}

// requiredArg returns the trimmed named string argument or an error if it is
// absent or blank.
func requiredArg(req mcplib.CallToolRequest, name string) (string, error) {
	s, ok := stringArg(req, name)
	if s = strings.TrimSpace(s); !ok || s == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return s, nil
}
