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

// In this file: the subreddit wiki tools.

import (
	"context"
	"errors"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/redditresearch/redditmcp/internal/reddit"
)

type wikiEnvelope struct {
	Success   bool    `json:"success"`
	Subreddit string  `json:"subreddit"`
	Page      string  `json:"page"`
	Content   string  `json:"content_md,omitempty"`
	RevBy     string  `json:"revision_by,omitempty"`
	RevDate   float64 `json:"revision_date,omitempty"`
}

type wikiPagesEnvelope struct {
	Success   bool     `json:"success"`
	Subreddit string   `json:"subreddit"`
	Pages     []string `json:"pages"`
}

func (s *Server) toolReadWiki() mcpsrv.ServerTool {
	tool := mcplib.NewTool("read_wiki_page",
		mcplib.WithDescription("Read the current revision of a subreddit wiki page."),
		mcplib.WithString("subreddit_name", mcplib.Description("The subreddit name."), mcplib.Required()),
		mcplib.WithString("page_name", mcplib.Description("The wiki page."), mcplib.DefaultString(reddit.DefWikiPage)),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleReadWiki}
}

func (s *Server) handleReadWiki(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	sr, err := requiredArg(req, "subreddit_name")
	if err != nil {
		return resultErr(err), nil
	}
	page := stringArgDef(req, "page_name", reddit.DefWikiPage)
	wp, err := s.rc.WikiPage(ctx, sr, page)
	if err != nil {
		return s.upstreamErr(ctx, "read_wiki_page", err), nil
	}
	return resultJSON(wikiEnvelope{
		Success:   true,
		Subreddit: sr,
		Page:      page,
		Content:   wp.Content,
		RevBy:     wp.RevisionBy.Data.Name,
		RevDate:   wp.RevisionDate,
	})
}

func (s *Server) toolEditWiki() mcpsrv.ServerTool {
	tool := mcplib.NewTool("edit_wiki_page",
		mcplib.WithDescription("Replace the content of a subreddit wiki page."),
		mcplib.WithString("subreddit_name", mcplib.Description("The subreddit name."), mcplib.Required()),
		mcplib.WithString("page_name", mcplib.Description("The wiki page."), mcplib.Required()),
		mcplib.WithString("content", mcplib.Description("The new content, markdown."), mcplib.Required()),
		mcplib.WithString("reason", mcplib.Description("The reason for the edit.")),
		mcplib.WithDestructiveHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleEditWiki}
}

func (s *Server) handleEditWiki(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	sr, err := requiredArg(req, "subreddit_name")
	if err != nil {
		return resultErr(err), nil
	}
	page, err := requiredArg(req, "page_name")
	if err != nil {
		return resultErr(err), nil
	}
	content, ok := stringArg(req, "content")
	if !ok {
		return resultErr(errors.New("content is required")), nil
	}
	if err := s.rc.EditWikiPage(ctx, sr, page, content, stringArgDef(req, "reason", "")); err != nil {
		return s.upstreamErr(ctx, "edit_wiki_page", err), nil
	}
	s.logger.InfoContext(ctx, "mcp: wiki page edited", "subreddit", sr, "page", page)
	return resultJSON(wikiEnvelope{Success: true, Subreddit: sr, Page: page})
}

func (s *Server) toolListWiki() mcpsrv.ServerTool {
	tool := mcplib.NewTool("list_wiki_pages",
		mcplib.WithDescription("List the wiki pages of a subreddit."),
		mcplib.WithString("subreddit_name", mcplib.Description("The subreddit name."), mcplib.Required()),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleListWiki}
}

func (s *Server) handleListWiki(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	sr, err := requiredArg(req, "subreddit_name")
	if err != nil {
		return resultErr(err), nil
	}
	pages, err := s.rc.WikiPages(ctx, sr)
	if err != nil {
		return s.upstreamErr(ctx, "list_wiki_pages", err), nil
	}
	if pages == nil {
		pages = []string{}
	}
	return resultJSON(wikiPagesEnvelope{Success: true, Subreddit: sr, Pages: pages})
}
