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

// In this file: the anonymised research tools.

import (
	"context"
	"errors"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/redditresearch/redditmcp/internal/reddit"
	"github.com/redditresearch/redditmcp/internal/research"
)

var stringItems = mcplib.Items(map[string]any{"type": "string"})

// criteriaArgs are the criteria arguments shared by the search tools.
func criteriaArgs() []mcplib.ToolOption {
	return []mcplib.ToolOption{
		mcplib.WithArray("subreddits",
			mcplib.Description("Subreddits to search, without the r/ prefix.  An empty list searches all of Reddit."),
			mcplib.Required(),
			stringItems,
		),
		mcplib.WithString("start_date",
			mcplib.Description("Start of the date range, YYYY-MM-DD, UTC."),
			mcplib.DefaultString(research.DefStartDate),
		),
		mcplib.WithString("end_date",
			mcplib.Description("End of the date range, YYYY-MM-DD, UTC."),
			mcplib.DefaultString(research.DefEndDate),
		),
		mcplib.WithNumber("min_comments",
			mcplib.Description("Minimum number of comments."),
			mcplib.DefaultNumber(research.DefMinComments),
			mcplib.Min(0),
		),
		mcplib.WithNumber("min_words",
			mcplib.Description("Minimum number of words in the post body (or title, if the body is empty)."),
			mcplib.DefaultNumber(research.DefMinWords),
			mcplib.Min(0),
		),
	}
}

// criteria reads the shared criteria arguments over the defaults.
func criteria(req mcplib.CallToolRequest) (research.Criteria, error) {
	subs, err := stringsArg(req, "subreddits")
	if err != nil {
		return research.Criteria{}, err
	}
	c := research.DefaultCriteria("", subs...)
	c.StartDate = stringArgDef(req, "start_date", c.StartDate)
	c.EndDate = stringArgDef(req, "end_date", c.EndDate)
	if c.MinComments, err = intArg(req, "min_comments", c.MinComments); err != nil {
		return research.Criteria{}, err
	}
	if c.MinWords, err = intArg(req, "min_words", c.MinWords); err != nil {
		return research.Criteria{}, err
	}
	return c, nil
}

// ─── search_reddit_threads ────────────────────────────────────────────────────

func (s *Server) toolSearchThreads() mcpsrv.ServerTool {
	opts := []mcplib.ToolOption{
		mcplib.WithDescription(`Search Reddit threads that mention a medication within the given subreddits and date range.

Posts are requested in relevance order and kept when, in order: they were created
within the date range, have at least min_comments comments, have at least min_words
words, and mention the medication (case-insensitive).  Authors are anonymised.
Fewer than max_results threads may be returned.`),
		mcplib.WithString("medication_name",
			mcplib.Description("The medication or search term."),
			mcplib.Required(),
		),
	}
	opts = append(opts, criteriaArgs()...)
	opts = append(opts,
		mcplib.WithNumber("max_results",
			mcplib.Description("Maximum number of threads to return."),
			mcplib.DefaultNumber(research.DefMaxResults),
			mcplib.Min(1),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: mcplib.NewTool("search_reddit_threads", opts...), Handler: s.handleSearchThreads}
}

func (s *Server) handleSearchThreads(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	c, err := criteria(req)
	if err != nil {
		return resultErr(err), nil
	}
	c.Term, _ = stringArg(req, "medication_name")
	if c.MaxResults, err = intArg(req, "max_results", c.MaxResults); err != nil {
		return resultErr(err), nil
	}

	sr, err := s.res.Search(ctx, c)
	if err != nil {
		return s.researchErr(ctx, "search_reddit_threads", err), nil
	}
	return resultJSON(sr)
}

// ─── get_thread_details ───────────────────────────────────────────────────────

func (s *Server) toolThreadDetails() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_thread_details",
		mcplib.WithDescription(`Get a Reddit thread with its comments.  Authors are anonymised.

Only the comments present in the first response are returned ("load more"
placeholders are not expanded).  Comments are listed breadth-first: all
top-level comments come first, then their replies level by level.`),
		mcplib.WithString("thread_id",
			mcplib.Description("The thread id, e.g. \"abc123\"."),
			mcplib.Required(),
		),
		mcplib.WithNumber("max_comments",
			mcplib.Description("Maximum number of comments to return."),
			mcplib.DefaultNumber(research.DefMaxComments),
			mcplib.Min(0),
		),
		mcplib.WithString("sort_by",
			mcplib.Description("Comment sort order."),
			mcplib.DefaultString(reddit.SortTop.String()),
			mcplib.Enum(reddit.SortTop.String(), reddit.SortNew.String(), reddit.SortControversial.String(), reddit.SortBest.String()),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleThreadDetails}
}

// threadEnvelope is the result of get_thread_details.
type threadEnvelope struct {
	Success bool                   `json:"success"`
	Thread  *research.ThreadDetail `json:"thread"`
}

func (s *Server) handleThreadDetails(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id, err := requiredArg(req, "thread_id")
	if err != nil {
		return resultErr(err), nil
	}
	sort, err := reddit.ParseCommentSort(stringArgDef(req, "sort_by", ""))
	if err != nil {
		return resultErr(err), nil
	}
	maxComments, err := intArg(req, "max_comments", research.DefMaxComments)
	if err != nil {
		return resultErr(err), nil
	}
	td, err := s.res.ThreadDetails(ctx, id, maxComments, sort)
	if err != nil {
		return s.researchErr(ctx, "get_thread_details", err), nil
	}
	return resultJSON(threadEnvelope{Success: true, Thread: td})
}

// ─── get_subreddit_info ───────────────────────────────────────────────────────

func (s *Server) toolSubredditInfo() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_subreddit_info",
		mcplib.WithDescription("Get the description, size and rules of a subreddit."),
		mcplib.WithString("subreddit_name",
			mcplib.Description("The subreddit name, with or without the r/ prefix."),
			mcplib.Required(),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSubredditInfo}
}

type subredditEnvelope struct {
	Success   bool                    `json:"success"`
	Subreddit *research.SubredditInfo `json:"subreddit"`
}

func (s *Server) handleSubredditInfo(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	name, _ := stringArg(req, "subreddit_name")
	info, err := s.res.SubredditInfo(ctx, name)
	if err != nil {
		return s.researchErr(ctx, "get_subreddit_info", err), nil
	}
	return resultJSON(subredditEnvelope{Success: true, Subreddit: info})
}

// ─── batch_search_medications ─────────────────────────────────────────────────

func (s *Server) toolBatchSearch() mcpsrv.ServerTool {
	opts := []mcplib.ToolOption{
		mcplib.WithDescription(`Search threads for several medications with the same criteria.

Medications are searched one after another with a pause in between to respect
the Reddit rate limit.  A failed medication does not stop the batch, it is
reported in "errors".  Authors are anonymised.`),
		mcplib.WithArray("medications",
			mcplib.Description("The medications or search terms."),
			mcplib.Required(),
			stringItems,
		),
	}
	opts = append(opts, criteriaArgs()...)
	opts = append(opts,
		mcplib.WithNumber("threads_per_medication",
			mcplib.Description("Maximum number of threads per medication."),
			mcplib.DefaultNumber(research.DefThreadsPerTerm),
			mcplib.Min(1),
		),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: mcplib.NewTool("batch_search_medications", opts...), Handler: s.handleBatchSearch}
}

func (s *Server) handleBatchSearch(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	terms, err := stringsArg(req, "medications")
	if err != nil {
		return resultErr(err), nil
	}
	c, err := criteria(req)
	if err != nil {
		return resultErr(err), nil
	}
	if c.MaxResults, err = intArg(req, "threads_per_medication", research.DefThreadsPerTerm); err != nil {
		return resultErr(err), nil
	}

	br, err := s.res.BatchSearch(ctx, research.BatchCriteria{Terms: terms, Criteria: c})
	if err != nil {
		return s.researchErr(ctx, "batch_search_medications", err), nil
	}
	return resultJSON(br)
}

// ─── export_research_data ─────────────────────────────────────────────────────

func (s *Server) toolExport() mcpsrv.ServerTool {
	tool := mcplib.NewTool("export_research_data",
		mcplib.WithDescription(`Export threads to a JSON or CSV file in the export location.  Authors are anonymised.

Threads that cannot be fetched are skipped and listed in the warning.`),
		mcplib.WithArray("thread_ids",
			mcplib.Description("The ids of the threads to export."),
			mcplib.Required(),
			stringItems,
		),
		mcplib.WithString("format",
			mcplib.Description("Output format."),
			mcplib.DefaultString(research.FormatJSON.String()),
			mcplib.Enum(research.FormatJSON.String(), research.FormatCSV.String()),
		),
		mcplib.WithBoolean("include_metadata",
			mcplib.Description("Include the export metadata: anonymisation method and ethical framework."),
			mcplib.DefaultBool(true),
		),
		mcplib.WithBoolean("include_comments",
			mcplib.Description("Include the comments of each thread (JSON only)."),
			mcplib.DefaultBool(false),
		),
		mcplib.WithDestructiveHintAnnotation(false),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleExport}
}

func (s *Server) handleExport(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	ids, err := stringsArg(req, "thread_ids")
	if err != nil {
		return resultErr(err), nil
	}
	format, err := research.ParseFormat(stringArgDef(req, "format", research.FormatJSON.String()))
	if err != nil {
		return resultErr(err), nil
	}
	er, err := s.res.Export(ctx, research.ExportRequest{
		ThreadIDs:       ids,
		Format:          format,
		IncludeMetadata: boolArg(req, "include_metadata", true),
		IncludeComments: boolArg(req, "include_comments", false),
	})
	if err != nil {
		return s.researchErr(ctx, "export_research_data", err), nil
	}
	return resultJSON(er)
}

// researchErr logs a failed research operation and returns the failure
// envelope.  Invalid input is logged at debug level only.
func (s *Server) researchErr(ctx context.Context, tool string, err error) *mcplib.CallToolResult {
	lvl := slog.LevelWarn
	if errors.Is(err, research.ErrInvalidCriteria) || errors.Is(err, research.ErrNoTerms) || errors.Is(err, research.ErrNoThreadIDs) {
		lvl = slog.LevelDebug
	}
	s.logger.Log(ctx, lvl, "mcp: research call failed", "tool", tool, "error", err)
	return resultErr(err)
}
