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

package research

import (
	"context"
	"errors"
	"fmt"
	"runtime/trace"

	"github.com/redditresearch/redditmcp/internal/reddit"
)

// DefMaxComments is the default number of comments in thread details.
const DefMaxComments = 50

var ErrBadMaxComments = errors.New("max_comments must not be negative")

// Comment is an anonymised comment.
type Comment struct {
	ID          string  `json:"comment_id"`
	Author      string  `json:"author"`
	Body        string  `json:"body"`
	Score       int     `json:"score"`
	CreatedUTC  float64 `json:"created_utc"`
	CreatedDate string  `json:"created_date"`
}

// ThreadDetail is an anonymised thread with its comments flattened into a
// single list.
type ThreadDetail struct {
	Thread
	SelfText string    `json:"selftext"`
	Comments []Comment `json:"comments"`
}

// ThreadDetails fetches the thread with the given id and up to maxComments
// of its comments in the requested order.  Only the comments present in the
// initial response are considered: "load more" placeholders are never
// expanded.  The comment tree is flattened breadth-first, top-level
// comments before their replies, and truncated to maxComments.  An unknown id
// results in an error wrapping [reddit.ErrNotFound].
func (r *Researcher) ThreadDetails(ctx context.Context, id string, maxComments int, sort reddit.CommentSort) (*ThreadDetail, error) {
	ctx, task := trace.NewTask(ctx, "ThreadDetails")
	defer task.End()

	if maxComments < 0 {
		return nil, ErrBadMaxComments
	}
	th, err := r.up.Thread(ctx, id, reddit.CommentParams{Sort: sort})
	if err != nil {
		return nil, err
	}
	if th == nil {
		return nil, fmt.Errorf("thread %s: %w", id, reddit.ErrNotFound)
	}
	td := &ThreadDetail{
		Thread:   r.record(&th.Post),
		SelfText: th.Post.SelfText,
		Comments: make([]Comment, 0, min(maxComments, DefMaxComments)),
	}
	if maxComments > 0 {
		th.Walk(func(c *reddit.Comment) bool {
			td.Comments = append(td.Comments, r.comment(c))
			return len(td.Comments) < maxComments
		})
	}
	r.lg.DebugContext(ctx, "research: thread details", "thread_id", td.ID, "comments", len(td.Comments), "dropped_placeholders", th.More)
	return td, nil
}

func (r *Researcher) comment(c *reddit.Comment) Comment {
	return Comment{
		ID:          c.ID,
		Author:      r.anon.Username(c.Author),
		Body:        c.Body,
		Score:       c.Score,
		CreatedUTC:  c.CreatedUTC,
		CreatedDate: formatDate(c.CreatedUTC),
	}
}
