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

// In this file: the tools acting on behalf of the authenticated account.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/redditresearch/redditmcp/internal/reddit"
)

const defInboxLimit = 25

// ─── submit_content ───────────────────────────────────────────────────────────

func (s *Server) toolSubmit() mcpsrv.ServerTool {
	tool := mcplib.NewTool("submit_content",
		mcplib.WithDescription("Submit a new post to a subreddit.  If url is given, a link post is created, otherwise a text post."),
		mcplib.WithString("subreddit_name", mcplib.Description("The subreddit name."), mcplib.Required()),
		mcplib.WithString("title", mcplib.Description("The title of the post."), mcplib.Required()),
		mcplib.WithString("text", mcplib.Description("The body of a text post, markdown.")),
		mcplib.WithString("url", mcplib.Description("The URL of a link post.")),
		mcplib.WithString("flair_id", mcplib.Description("The flair template id.")),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSubmit}
}

type submitEnvelope struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	URL     string `json:"url"`
}

func (s *Server) handleSubmit(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	sr, err := requiredArg(req, "subreddit_name")
	if err != nil {
		return resultErr(err), nil
	}
	p := reddit.SubmitParams{
		Subreddit: sr,
		Title:     stringArgDef(req, "title", ""),
		Text:      stringArgDef(req, "text", ""),
		URL:       stringArgDef(req, "url", ""),
		FlairID:   stringArgDef(req, "flair_id", ""),
	}
	sub, err := s.rc.Submit(ctx, p)
	if err != nil {
		if errors.Is(err, reddit.ErrNoTitle) {
			return resultErr(err), nil
		}
		return s.upstreamErr(ctx, "submit_content", err), nil
	}
	s.logger.InfoContext(ctx, "mcp: post submitted", "subreddit", sr, "id", sub.ID)
	return resultJSON(submitEnvelope{Success: true, ID: sub.ID, URL: sub.URL})
}

// ─── interact_with_content ────────────────────────────────────────────────────

func (s *Server) toolInteract() mcpsrv.ServerTool {
	tool := mcplib.NewTool("interact_with_content",
		mcplib.WithDescription("Vote on, save, reply to, edit or delete a post or a comment."),
		mcplib.WithString("content_id", mcplib.Description("The post or comment id."), mcplib.Required()),
		mcplib.WithString("action",
			mcplib.Description("The action to perform."),
			mcplib.Required(),
			mcplib.Enum(actionNames(interactions)...),
		),
		mcplib.WithBoolean("is_comment", mcplib.Description("True if content_id is a comment."), mcplib.DefaultBool(false)),
		mcplib.WithString("text", mcplib.Description("The text of the reply or the new text for edit, markdown.")),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleInteract}
}

func (s *Server) handleInteract(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	act, err := parseAction(interactions, stringArgDef(req, "action", ""))
	if err != nil {
		return resultErr(err), nil
	}
	id, err := requiredArg(req, "content_id")
	if err != nil {
		return resultErr(err), nil
	}
	text, _ := stringArg(req, "text")
	if act.needsText() && strings.TrimSpace(text) == "" {
		return resultErr(fmt.Errorf("text required for %s", act)), nil
	}
	fullname := reddit.Fullname(id, boolArg(req, "is_comment", false))

	env := actionEnvelope{Success: true, Action: act.String(), ID: id}
	switch act {
	case inUpvote:
		err = s.rc.Vote(ctx, fullname, reddit.VoteUp)
	case inDownvote:
		err = s.rc.Vote(ctx, fullname, reddit.VoteDown)
	case inClearVote:
		err = s.rc.Vote(ctx, fullname, reddit.VoteClear)
	case inSave:
		err = s.rc.Save(ctx, fullname)
	case inUnsave:
		err = s.rc.Unsave(ctx, fullname)
	case inReply:
		var c *reddit.Comment
		if c, err = s.rc.Reply(ctx, fullname, text); err == nil {
			env.ID, env.ReplyID = "", c.ID
		}
	case inEdit:
		_, err = s.rc.Edit(ctx, fullname, text)
	case inDelete:
		err = s.rc.Delete(ctx, fullname)
	default:
		return resultErr(unknownAction(act.String())), nil
	}
	if err != nil {
		return s.upstreamErr(ctx, "interact_with_content", err), nil
	}
	return resultJSON(env)
}

// ─── gild_content ─────────────────────────────────────────────────────────────

func (s *Server) toolGild() mcpsrv.ServerTool {
	tool := mcplib.NewTool("gild_content",
		mcplib.WithDescription("Gild a post or a comment.  Spends the account's Reddit Gold."),
		mcplib.WithString("content_id", mcplib.Description("The post or comment id."), mcplib.Required()),
		mcplib.WithBoolean("is_comment", mcplib.Description("True if content_id is a comment."), mcplib.DefaultBool(false)),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleGild}
}

func (s *Server) handleGild(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	id, err := requiredArg(req, "content_id")
	if err != nil {
		return resultErr(err), nil
	}
	if err := s.rc.Gild(ctx, reddit.Fullname(id, boolArg(req, "is_comment", false))); err != nil {
		return s.upstreamErr(ctx, "gild_content", err), nil
	}
	return resultJSON(actionEnvelope{Success: true, Action: "gilded", ID: id})
}

// ─── manage_subscriptions ─────────────────────────────────────────────────────

func (s *Server) toolSubscriptions() mcpsrv.ServerTool {
	tool := mcplib.NewTool("manage_subscriptions",
		mcplib.WithDescription("Subscribe to or unsubscribe from a subreddit."),
		mcplib.WithString("subreddit_name", mcplib.Description("The subreddit name."), mcplib.Required()),
		mcplib.WithString("action",
			mcplib.Description("The action to perform."),
			mcplib.Required(),
			mcplib.Enum(actionNames(subscriptions)...),
		),
		mcplib.WithIdempotentHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSubscriptions}
}

type subscriptionEnvelope struct {
	Success   bool   `json:"success"`
	Subreddit string `json:"subreddit"`
	Action    string `json:"action"`
}

func (s *Server) handleSubscriptions(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	act, err := parseAction(subscriptions, stringArgDef(req, "action", ""))
	if err != nil {
		return resultErr(err), nil
	}
	sr, err := requiredArg(req, "subreddit_name")
	if err != nil {
		return resultErr(err), nil
	}
	switch act {
	case subSubscribe:
		err = s.rc.Subscribe(ctx, sr, true)
	case subUnsubscribe:
		err = s.rc.Subscribe(ctx, sr, false)
	default:
		return resultErr(unknownAction(act.String())), nil
	}
	if err != nil {
		return s.upstreamErr(ctx, "manage_subscriptions", err), nil
	}
	return resultJSON(subscriptionEnvelope{Success: true, Subreddit: sr, Action: act.String()})
}

// ─── manage_inbox ─────────────────────────────────────────────────────────────

func (s *Server) toolInbox() mcpsrv.ServerTool {
	tool := mcplib.NewTool("manage_inbox",
		mcplib.WithDescription("List the unread messages or the inbox, send a private message, or mark a message as read."),
		mcplib.WithString("action",
			mcplib.Description("The action to perform."),
			mcplib.Required(),
			mcplib.Enum(actionNames(inboxActions)...),
		),
		mcplib.WithString("message_id", mcplib.Description("The message id, required for \"read\".")),
		mcplib.WithString("username", mcplib.Description("The recipient, required for \"send\".")),
		mcplib.WithString("subject", mcplib.Description("The subject, required for \"send\".")),
		mcplib.WithString("body", mcplib.Description("The message body, markdown, required for \"send\".")),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleInbox}
}

type messagesEnvelope struct {
	Success  bool             `json:"success"`
	Messages []reddit.Message `json:"messages"`
}

func (s *Server) handleInbox(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	act, err := parseAction(inboxActions, stringArgDef(req, "action", ""))
	if err != nil {
		return resultErr(err), nil
	}
	switch act {
	case ibListUnread, ibListInbox:
		box := reddit.MailboxUnread
		if act == ibListInbox {
			box = reddit.MailboxInbox
		}
		msgs, err := s.rc.Messages(ctx, box, defInboxLimit)
		if err != nil {
			return s.upstreamErr(ctx, "manage_inbox", err), nil
		}
		return resultJSON(messagesEnvelope{Success: true, Messages: msgs})
	case ibSend:
		to := stringArgDef(req, "username", "")
		if err := s.rc.Compose(ctx, to, stringArgDef(req, "subject", ""), stringArgDef(req, "body", "")); err != nil {
			if errors.Is(err, reddit.ErrIncompleteMessage) {
				return resultErr(err), nil
			}
			return s.upstreamErr(ctx, "manage_inbox", err), nil
		}
		s.logger.InfoContext(ctx, "mcp: message sent", "to", to)
		return resultJSON(actionEnvelope{Success: true, Action: "sent", User: to})
	case ibRead:
		id, err := requiredArg(req, "message_id")
		if err != nil {
			return resultErr(err), nil
		}
		if err := s.rc.MarkRead(ctx, messageFullname(id)); err != nil {
			return s.upstreamErr(ctx, "manage_inbox", err), nil
		}
		return resultJSON(actionEnvelope{Success: true, Action: act.String(), ID: id})
	default:
		return resultErr(unknownAction(act.String())), nil
	}
}

// messageFullname returns the fullname of a private message id.
func messageFullname(id string) string {
	if strings.HasPrefix(id, reddit.KindMessage+"_") || strings.HasPrefix(id, reddit.KindComment+"_") {
		return id
	}
	return reddit.KindMessage + "_" + id
}

// ─── get_my_identity ──────────────────────────────────────────────────────────

func (s *Server) toolIdentity() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_my_identity",
		mcplib.WithDescription("Get the Reddit account the server is authenticated as."),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleIdentity}
}

type identityEnvelope struct {
	Success bool `json:"success"`
	*reddit.Account
}

func (s *Server) handleIdentity(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	me, err := s.rc.Me(ctx)
	if err != nil {
		return s.upstreamErr(ctx, "get_my_identity", err), nil
	}
	return resultJSON(identityEnvelope{Success: true, Account: me})
}
