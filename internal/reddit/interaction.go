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
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// Vote directions.
const (
	VoteUp    = 1
	VoteClear = 0
	VoteDown  = -1
)

var ErrNoTitle = errors.New("title is required")

// postAPI sends a form with api_type=json and decodes the "json" envelope
// of the response, returning the API errors, if any.
func postAPI[T any](ctx context.Context, c *Client, path string, form url.Values) (T, error) {
	form.Set("api_type", "json")
	var resp jsonResponse[T]
	if err := c.post(ctx, path, form, &resp); err != nil {
		return resp.JSON.Data, err
	}
	return resp.JSON.Data, resp.err()
}

// SubmitParams are the parameters of a new post.  If URL is set, a link
// post is created, otherwise a text post.
type SubmitParams struct {
	Subreddit string
	Title     string
	Text      string
	URL       string
	FlairID   string
}

// Submission is the result of a successful submit.
type Submission struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Submit creates a new post.
func (c *Client) Submit(ctx context.Context, p SubmitParams) (*Submission, error) {
	if p.Title == "" {
		return nil, ErrNoTitle
	}
	form := url.Values{
		"sr":    {CleanSubreddit(p.Subreddit)},
		"title": {p.Title},
	}
	if p.URL != "" {
		form.Set("kind", "link")
		form.Set("url", p.URL)
	} else {
		form.Set("kind", "self")
		form.Set("text", p.Text)
	}
	if p.FlairID != "" {
		form.Set("flair_id", p.FlairID)
	}
	s, err := postAPI[Submission](ctx, c, "/api/submit", form)
	if err != nil {
		return nil, fmt.Errorf("submit to %s: %w", p.Subreddit, err)
	}
	return &s, nil
}

// Vote casts a vote on the item, dir is one of VoteUp, VoteDown, VoteClear.
func (c *Client) Vote(ctx context.Context, fullname string, dir int) error {
	return c.thingAction(ctx, "/api/vote", fullname, url.Values{"dir": {strconv.Itoa(dir)}})
}

// Save saves the item to the account.
func (c *Client) Save(ctx context.Context, fullname string) error {
	return c.thingAction(ctx, "/api/save", fullname, nil)
}

// Unsave removes the item from the saved items.
func (c *Client) Unsave(ctx context.Context, fullname string) error {
	return c.thingAction(ctx, "/api/unsave", fullname, nil)
}

// Delete deletes the item, which must belong to the account.
func (c *Client) Delete(ctx context.Context, fullname string) error {
	return c.thingAction(ctx, "/api/del", fullname, nil)
}

// Gild gives an award to the item.
func (c *Client) Gild(ctx context.Context, fullname string) error {
	if err := c.post(ctx, "/api/v1/gold/gild/"+url.PathEscape(fullname), nil, nil); err != nil {
		return fmt.Errorf("gild %s: %w", fullname, err)
	}
	return nil
}

type thingsData struct {
	Things []thing `json:"things"`
}

// Reply posts a comment in reply to the parent item and returns the new
// comment.
func (c *Client) Reply(ctx context.Context, parent, text string) (*Comment, error) {
	form := url.Values{
		"thing_id": {parent},
		"text":     {text},
	}
	data, err := postAPI[thingsData](ctx, c, "/api/comment", form)
	if err != nil {
		return nil, fmt.Errorf("reply to %s: %w", parent, err)
	}
	return firstComment(data)
}

// Edit replaces the text of the item, which must belong to the account.
func (c *Client) Edit(ctx context.Context, fullname, text string) (*Comment, error) {
	form := url.Values{
		"thing_id": {fullname},
		"text":     {text},
	}
	data, err := postAPI[thingsData](ctx, c, "/api/editusertext", form)
	if err != nil {
		return nil, fmt.Errorf("edit %s: %w", fullname, err)
	}
	return firstComment(data)
}

// firstComment returns the first thing in data decoded as a comment.  Self
// posts decode into the same fields that matter here: id, name and body
// (empty for posts).
func firstComment(data thingsData) (*Comment, error) {
	if len(data.Things) == 0 {
		return nil, errors.New("empty response")
	}
	cc, err := decodeChildren[Comment](data.Things[:1])
	if err != nil {
		return nil, err
	}
	return &cc[0], nil
}
