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

// In this file: Reddit "thing" and listing types.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Kinds of Reddit things.
const (
	KindComment   = "t1"
	KindAccount   = "t2"
	KindLink      = "t3"
	KindMessage   = "t4"
	KindSubreddit = "t5"
	KindMore      = "more"
)

// Fullname returns the Reddit fullname (kind-prefixed id) for a post or a
// comment id.  Ids that already carry a kind prefix are returned unchanged.
func Fullname(id string, isComment bool) string {
	if len(id) > 3 && id[0] == 't' && id[2] == '_' {
		return id
	}
	if isComment {
		return KindComment + "_" + id
	}
	return KindLink + "_" + id
}

// thing is the generic Reddit object wrapper.
type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	After    string  `json:"after"`
	Before   string  `json:"before"`
	Children []thing `json:"children"`
}

// listingThing is a thing of kind "Listing".
type listingThing struct {
	Kind string  `json:"kind"`
	Data listing `json:"data"`
}

// Timestamp converts Reddit's float epoch seconds to time.Time in UTC.
func Timestamp(epoch float64) time.Time {
	sec, frac := math.Modf(epoch)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

// Post is a Reddit submission (t3).
type Post struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	CreatedUTC  float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	Subreddit   string  `json:"subreddit"`
	URL         string  `json:"url"`
	// RemovedByCategory is set when the post was removed or deleted.
	RemovedByCategory string `json:"removed_by_category"`
}

// AbsURL returns the absolute permalink of the post.
func (p Post) AbsURL() string {
	return WebURL + p.Permalink
}

// Comment is a Reddit comment (t1) with its materialised replies.
type Comment struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	ParentID   string  `json:"parent_id"`
	Depth      int     `json:"depth"`

	// Replies are the replies already present in the response.  "Load
	// more" placeholders are not expanded.
	Replies []Comment `json:"-"`
	// More is the number of placeholder stubs dropped from the replies.
	More int `json:"-"`
}

func (c *Comment) UnmarshalJSON(b []byte) error {
	type alias Comment
	var aux struct {
		alias
		Replies json.RawMessage `json:"replies"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = Comment(aux.alias)
	// Replies is an empty string when there are none.
	raw := bytes.TrimSpace(aux.Replies)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var lt listingThing
	if err := json.Unmarshal(raw, &lt); err != nil {
		return fmt.Errorf("comment %s replies: %w", c.ID, err)
	}
	replies, more, err := decodeComments(lt.Data.Children)
	if err != nil {
		return err
	}
	c.Replies = replies
	c.More = more
	return nil
}

// decodeComments decodes t1 things, skipping and counting "more"
// placeholders.
func decodeComments(children []thing) ([]Comment, int, error) {
	var (
		out  = make([]Comment, 0, len(children))
		more int
	)
	for _, ch := range children {
		switch ch.Kind {
		case KindComment:
			var c Comment
			if err := json.Unmarshal(ch.Data, &c); err != nil {
				return nil, more, err
			}
			out = append(out, c)
		case KindMore:
			more++
		}
	}
	return out, more, nil
}

// Thread is a post with its materialised comment tree.
type Thread struct {
	Post     Post
	Comments []Comment
	// More is the number of top-level placeholder stubs that were dropped.
	More int
}

// Walk calls fn for every comment of the thread in breadth-first order:
// all top-level comments first, then their replies level by level.  It stops
// if fn returns false.
func (t *Thread) Walk(fn func(c *Comment) bool) {
	queue := make([]*Comment, 0, len(t.Comments))
	for i := range t.Comments {
		queue = append(queue, &t.Comments[i])
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if !fn(c) {
			return
		}
		for i := range c.Replies {
			queue = append(queue, &c.Replies[i])
		}
	}
}
