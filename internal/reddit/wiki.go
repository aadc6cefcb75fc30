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

package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DefWikiPage is the wiki start page.
const DefWikiPage = "index"

// WikiPage is a wiki page revision.
type WikiPage struct {
	Content      string  `json:"content_md"`
	RevisionDate float64 `json:"revision_date"`
	MayRevise    bool    `json:"may_revise"`
	RevisionBy   struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	} `json:"revision_by"`
}

func wikiPath(subreddit, page string) string {
	page = strings.Trim(strings.TrimSpace(page), "/")
	if page == "" {
		page = DefWikiPage
	}
	return subredditPath(subreddit) + "/wiki/" + page
}

// WikiPage returns the current revision of the page.
func (c *Client) WikiPage(ctx context.Context, subreddit, page string) (*WikiPage, error) {
	var resp struct {
		Data WikiPage `json:"data"`
	}
	if err := c.get(ctx, wikiPath(subreddit, page), nil, &resp); err != nil {
		return nil, fmt.Errorf("wiki %s/%s: %w", subreddit, page, err)
	}
	return &resp.Data, nil
}

// EditWikiPage replaces the content of the page.
func (c *Client) EditWikiPage(ctx context.Context, subreddit, page, content, reason string) error {
	if page == "" {
		page = DefWikiPage
	}
	form := url.Values{
		"page":    {page},
		"content": {content},
	}
	if reason != "" {
		form.Set("reason", reason)
	}
	if err := c.post(ctx, subredditPath(subreddit)+"/api/wiki/edit", form, nil); err != nil {
		return fmt.Errorf("edit wiki %s/%s: %w", subreddit, page, err)
	}
	return nil
}

// WikiPages lists the names of the wiki pages.
func (c *Client) WikiPages(ctx context.Context, subreddit string) ([]string, error) {
	var resp struct {
		Data []string `json:"data"`
	}
	if err := c.get(ctx, subredditPath(subreddit)+"/wiki/pages", nil, &resp); err != nil {
		return nil, fmt.Errorf("wiki pages %s: %w", subreddit, err)
	}
	return resp.Data, nil
}
