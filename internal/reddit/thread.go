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
	"net/url"
	"strconv"
	"strings"
)

// CommentSort is the order in which Reddit returns the comment tree.
type CommentSort uint8

const (
	SortTop CommentSort = iota
	SortNew
	SortControversial
	SortBest
)

var commentSorts = map[string]CommentSort{
	"top":           SortTop,
	"new":           SortNew,
	"controversial": SortControversial,
	"best":          SortBest,
}

// ErrBadSort is returned by [ParseCommentSort] for an unsupported sort name.
var ErrBadSort = errors.New("unsupported comment sort, must be one of: top, new, controversial, best")

// ParseCommentSort parses the sort name.  An empty string is SortTop.
func ParseCommentSort(s string) (CommentSort, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortTop, nil
	}
	cs, ok := commentSorts[s]
	if !ok {
		return SortTop, fmt.Errorf("%w: %q", ErrBadSort, s)
	}
	return cs, nil
}

func (s CommentSort) String() string {
	switch s {
	case SortTop:
		return "top"
	case SortNew:
		return "new"
	case SortControversial:
		return "controversial"
	case SortBest:
		return "best"
	default:
		return "CommentSort(" + strconv.Itoa(int(s)) + ")"
	}
}

// param returns the value of the "sort" query parameter.
func (s CommentSort) param() string {
	if s == SortBest {
		return "confidence"
	}
	return s.String()
}

// CommentParams controls the comment tree fetch.
type CommentParams struct {
	Sort CommentSort
	// Limit is the maximum number of comments requested, zero leaves it
	// to Reddit.
	Limit int
}

// Thread fetches the post with the given id (with or without the t3_
// prefix) and its comment tree in a single request.  "Load more"
// placeholders are dropped.
func (c *Client) Thread(ctx context.Context, id string, p CommentParams) (*Thread, error) {
	id = strings.TrimPrefix(strings.TrimSpace(id), KindLink+"_")
	if id == "" {
		return nil, fmt.Errorf("thread: %w", ErrNotFound)
	}
	q := url.Values{"sort": {p.Sort.param()}}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	var resp []listingThing
	if err := c.get(ctx, "/comments/"+url.PathEscape(id), q, &resp); err != nil {
		return nil, fmt.Errorf("thread %s: %w", id, err)
	}
	if len(resp) == 0 || len(resp[0].Data.Children) == 0 {
		return nil, fmt.Errorf("thread %s: %w", id, ErrNotFound)
	}
	var t Thread
	if err := json.Unmarshal(resp[0].Data.Children[0].Data, &t.Post); err != nil {
		return nil, fmt.Errorf("thread %s: decode post: %w", id, err)
	}
	if len(resp) > 1 {
		comments, more, err := decodeComments(resp[1].Data.Children)
		if err != nil {
			return nil, fmt.Errorf("thread %s: decode comments: %w", id, err)
		}
		t.Comments, t.More = comments, more
	}
	return &t, nil
}
