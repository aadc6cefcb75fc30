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

// Mailbox is an inbox listing.
type Mailbox string

const (
	MailboxUnread Mailbox = "unread"
	MailboxInbox  Mailbox = "inbox"
)

var ErrIncompleteMessage = errors.New("recipient, subject and body are required")

// Message is a private message or a comment reply in the inbox.
type Message struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Author     string  `json:"author"`
	Subject    string  `json:"subject"`
	Body       string  `json:"body"`
	CreatedUTC float64 `json:"created_utc"`
	New        bool    `json:"new"`
	WasComment bool    `json:"was_comment"`
}

// Messages returns up to limit messages from the mailbox.
func (c *Client) Messages(ctx context.Context, box Mailbox, limit int) ([]Message, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(min(limit, MaxPageSize)))
	}
	var lt listingThing
	if err := c.get(ctx, "/message/"+string(box), q, &lt); err != nil {
		return nil, fmt.Errorf("%s messages: %w", box, err)
	}
	return decodeChildren[Message](lt.Data.Children)
}

// Compose sends a private message.
func (c *Client) Compose(ctx context.Context, to, subject, body string) error {
	if to == "" || subject == "" || body == "" {
		return ErrIncompleteMessage
	}
	form := url.Values{
		"to":      {to},
		"subject": {subject},
		"text":    {body},
	}
	if _, err := postAPI[struct{}](ctx, c, "/api/compose", form); err != nil {
		return fmt.Errorf("compose to %s: %w", to, err)
	}
	return nil
}

// MarkRead marks the message with the given fullname as read.
func (c *Client) MarkRead(ctx context.Context, fullname string) error {
	return c.thingAction(ctx, "/api/read_message", fullname, nil)
}

// Account is the authenticated account.
type Account struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	LinkKarma        int     `json:"link_karma"`
	CommentKarma     int     `json:"comment_karma"`
	CreatedUTC       float64 `json:"created_utc"`
	IsMod            bool    `json:"is_mod"`
	HasVerifiedEmail bool    `json:"has_verified_email"`
}

// Me returns the account the client is authenticated as.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var a Account
	if err := c.get(ctx, "/api/v1/me", nil, &a); err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &a, nil
}
