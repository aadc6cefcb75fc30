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
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Relationship types for [Client.Friend] and [Client.Unfriend].
const (
	RelBanned      = "banned"
	RelContributor = "contributor"
	RelModInvite   = "moderator_invite"
	RelModerator   = "moderator"
)

// FriendOptions are the optional fields of a relationship change.
type FriendOptions struct {
	// Note is the mod note, visible to moderators only.
	Note string
	// Reason is the ban reason shown to the user.
	Reason string
	// Duration of a ban in days, zero is permanent.
	Duration int
}

// Friend creates a relationship of type rel between the user and the
// subreddit: ban, approve as contributor or invite as moderator.
func (c *Client) Friend(ctx context.Context, subreddit, user, rel string, opt FriendOptions) error {
	form := url.Values{
		"api_type": {"json"},
		"name":     {user},
		"type":     {rel},
	}
	if opt.Note != "" {
		form.Set("note", opt.Note)
	}
	if opt.Reason != "" {
		form.Set("ban_reason", opt.Reason)
		form.Set("ban_message", opt.Reason)
	}
	if opt.Duration > 0 {
		form.Set("duration", strconv.Itoa(opt.Duration))
	}
	if _, err := postAPI[json.RawMessage](ctx, c, subredditPath(subreddit)+"/api/friend", form); err != nil {
		return fmt.Errorf("%s %s in %s: %w", rel, user, subreddit, err)
	}
	return nil
}

// Unfriend removes a relationship of type rel: unban, remove a moderator.
func (c *Client) Unfriend(ctx context.Context, subreddit, user, rel string) error {
	form := url.Values{
		"name": {user},
		"type": {rel},
	}
	if err := c.post(ctx, subredditPath(subreddit)+"/api/unfriend", form, nil); err != nil {
		return fmt.Errorf("remove %s %s in %s: %w", rel, user, subreddit, err)
	}
	return nil
}

// Approve approves a post or comment.
func (c *Client) Approve(ctx context.Context, fullname string) error {
	return c.thingAction(ctx, "/api/approve", fullname, nil)
}

// Remove removes a post or comment, optionally marking it as spam.
func (c *Client) Remove(ctx context.Context, fullname string, spam bool) error {
	return c.thingAction(ctx, "/api/remove", fullname, url.Values{"spam": {strconv.FormatBool(spam)}})
}

// AddRemovalReason attaches a mod note to a removed item.
func (c *Client) AddRemovalReason(ctx context.Context, fullname, note string) error {
	payload, err := json.Marshal(map[string]any{
		"item_ids":  []string{fullname},
		"mod_note":  note,
		"reason_id": nil,
	})
	if err != nil {
		return err
	}
	form := url.Values{"json": {string(payload)}}
	if err := c.post(ctx, "/api/v1/modactions/removal_reasons", form, nil); err != nil {
		return fmt.Errorf("removal reason %s: %w", fullname, err)
	}
	return nil
}

// Lock locks a post or comment.
func (c *Client) Lock(ctx context.Context, fullname string) error {
	return c.thingAction(ctx, "/api/lock", fullname, nil)
}

// Unlock unlocks a post or comment.
func (c *Client) Unlock(ctx context.Context, fullname string) error {
	return c.thingAction(ctx, "/api/unlock", fullname, nil)
}

// Distinguish marks the item as posted by a moderator, or clears the mark.
func (c *Client) Distinguish(ctx context.Context, fullname string, on bool) error {
	how := "no"
	if on {
		how = "yes"
	}
	return c.thingAction(ctx, "/api/distinguish", fullname, url.Values{"how": {how}, "api_type": {"json"}})
}

func (c *Client) thingAction(ctx context.Context, path, fullname string, extra url.Values) error {
	form := url.Values{"id": {fullname}}
	for k, v := range extra {
		form[k] = v
	}
	if err := c.post(ctx, path, form, nil); err != nil {
		return fmt.Errorf("%s %s: %w", strings.TrimPrefix(path, "/api/"), fullname, err)
	}
	return nil
}

// ModAction is a moderation log entry.
type ModAction struct {
	ID             string  `json:"id"`
	Action         string  `json:"action"`
	Mod            string  `json:"mod"`
	TargetFullname string  `json:"target_fullname"`
	TargetAuthor   string  `json:"target_author"`
	Details        string  `json:"details"`
	Description    string  `json:"description"`
	CreatedUTC     float64 `json:"created_utc"`
}

// ModLogParams filter the moderation log.
type ModLogParams struct {
	Limit int
	// Mod restricts the log to a single moderator.
	Mod string
	// Type restricts the log to a single action type, i.e. "removelink".
	Type string
}

// ModLog returns the most recent entries of the moderation log.
func (c *Client) ModLog(ctx context.Context, subreddit string, p ModLogParams) ([]ModAction, error) {
	q := url.Values{}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(min(p.Limit, MaxPageSize)))
	}
	if p.Mod != "" {
		q.Set("mod", p.Mod)
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	var lt listingThing
	if err := c.get(ctx, subredditPath(subreddit)+"/about/log", q, &lt); err != nil {
		return nil, fmt.Errorf("modlog %s: %w", subreddit, err)
	}
	return decodeChildren[ModAction](lt.Data.Children)
}

// ModmailConversation is a modmail conversation summary.
type ModmailConversation struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	State       int    `json:"state"`
	LastUpdated string `json:"lastUpdated"`
	NumMessages int    `json:"numMessages"`
	Highlighted bool   `json:"isHighlighted"`
	Owner       struct {
		DisplayName string `json:"displayName"`
	} `json:"owner"`
}

// ModmailMessage is a single modmail message.
type ModmailMessage struct {
	ID       string `json:"id"`
	Body     string `json:"bodyMarkdown"`
	Date     string `json:"date"`
	Internal bool   `json:"isInternal"`
	Author   struct {
		Name  string `json:"name"`
		IsMod bool   `json:"isMod"`
	} `json:"author"`
}

// ModmailThread is a conversation with its messages in chronological
// order.
type ModmailThread struct {
	Conversation ModmailConversation
	Messages     []ModmailMessage
}

// ModmailConversations lists up to limit recent conversations of the
// subreddit, most recent first.
func (c *Client) ModmailConversations(ctx context.Context, subreddit string, limit int) ([]ModmailConversation, error) {
	q := url.Values{
		"entity": {CleanSubreddit(subreddit)},
		"limit":  {strconv.Itoa(limit)},
	}
	var resp struct {
		Conversations   map[string]ModmailConversation `json:"conversations"`
		ConversationIDs []string                       `json:"conversationIds"`
	}
	if err := c.get(ctx, "/api/mod/conversations", q, &resp); err != nil {
		return nil, fmt.Errorf("modmail %s: %w", subreddit, err)
	}
	out := make([]ModmailConversation, 0, len(resp.ConversationIDs))
	for _, id := range resp.ConversationIDs {
		if conv, ok := resp.Conversations[id]; ok {
			out = append(out, conv)
		}
	}
	return out, nil
}

// ModmailConversation returns the conversation with the given id.
func (c *Client) ModmailConversation(ctx context.Context, id string) (*ModmailThread, error) {
	var resp struct {
		Conversation ModmailConversation       `json:"conversation"`
		Messages     map[string]ModmailMessage `json:"messages"`
	}
	if err := c.get(ctx, "/api/mod/conversations/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, fmt.Errorf("modmail conversation %s: %w", id, err)
	}
	mt := &ModmailThread{
		Conversation: resp.Conversation,
		Messages:     make([]ModmailMessage, 0, len(resp.Messages)),
	}
	for _, m := range resp.Messages {
		mt.Messages = append(mt.Messages, m)
	}
	// dates are RFC 3339 with the same offset.
	sort.Slice(mt.Messages, func(i, j int) bool {
		return mt.Messages[i].Date < mt.Messages[j].Date
	})
	return mt, nil
}

// decodeChildren decodes the data of every listing child into T.
func decodeChildren[T any](children []thing) ([]T, error) {
	out := make([]T, 0, len(children))
	for _, ch := range children {
		var v T
		if err := json.Unmarshal(ch.Data, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", ch.Kind, err)
		}
		out = append(out, v)
	}
	return out, nil
}
