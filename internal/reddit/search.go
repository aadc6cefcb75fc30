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
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"
)

// Search sort orders.
const (
	SearchRelevance = "relevance"
	SearchHot       = "hot"
	SearchTop       = "top"
	SearchNew       = "new"
	SearchComments  = "comments"
)

// TimeAll is the "all time" search time filter.
const TimeAll = "all"

// ErrNoQuery is returned when the search query is empty.
var ErrNoQuery = errors.New("search query is empty")

// SearchParams are the parameters of a subreddit search.
type SearchParams struct {
	// Query is the search query.
	Query string
	// Subreddits restricts the search to the union of these subreddits.
	// Empty means all of Reddit.
	Subreddits []string
	// Sort is the sort order, default SearchRelevance.
	Sort string
	// Time is the time filter, default TimeAll.
	Time string
	// Limit is the total number of posts to return.  Zero means one page.
	Limit int
}

// SearchPath returns the listing path for the union of subreddits.
func SearchPath(subreddits []string) string {
	if len(subreddits) == 0 {
		return "/search"
	}
	names := make([]string, 0, len(subreddits))
	for _, s := range subreddits {
		if s = CleanSubreddit(s); s != "" {
			names = append(names, url.PathEscape(s))
		}
	}
	if len(names) == 0 {
		return "/search"
	}
	return "/r/" + strings.Join(names, "+") + "/search"
}

// Search returns an iterator over the posts matching p, in the order
// returned by Reddit.  Pages are fetched lazily as the caller consumes the
// iterator, and iteration stops after p.Limit posts or when the results are
// exhausted.  A request error is yielded once and ends the iteration.
func (c *Client) Search(ctx context.Context, p SearchParams) iter.Seq2[Post, error] {
	return func(yield func(Post, error) bool) {
		if strings.TrimSpace(p.Query) == "" {
			yield(Post{}, ErrNoQuery)
			return
		}
		var (
			path      = SearchPath(p.Subreddits)
			remaining = p.Limit
			after     string
		)
		if remaining <= 0 {
			remaining = c.pageSize
		}
		for remaining > 0 {
			q := url.Values{
				"q":    {p.Query},
				"sort": {or(p.Sort, SearchRelevance)},
				"t":    {or(p.Time, TimeAll)},
				"type": {"link"},
			}
			if path != "/search" {
				q.Set("restrict_sr", "1")
			}
			q.Set("limit", strconv.Itoa(min(remaining, c.pageSize)))
			if after != "" {
				q.Set("after", after)
			}
			var lt listingThing
			if err := c.get(ctx, path, q, &lt); err != nil {
				yield(Post{}, fmt.Errorf("search %q: %w", p.Query, err))
				return
			}
			for _, ch := range lt.Data.Children {
				if ch.Kind != KindLink {
					continue
				}
				var post Post
				if err := json.Unmarshal(ch.Data, &post); err != nil {
					yield(Post{}, fmt.Errorf("search %q: decode post: %w", p.Query, err))
					return
				}
				if !yield(post, nil) {
					return
				}
				remaining--
				if remaining == 0 {
					return
				}
			}
			if lt.Data.After == "" || len(lt.Data.Children) == 0 {
				return
			}
			after = lt.Data.After
		}
	}
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
