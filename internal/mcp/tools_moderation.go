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

// In this file: the moderation tools.  They require a moderator account.

import (
	"context"
	"errors"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/redditresearch/redditmcp/internal/reddit"
)

const (
	defModLogLimit  = 25
	defModmailLimit = 25
)

// actionEnvelope is the result of an action on a user or a thing.
type actionEnvelope struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	User    string `json:"user,omitempty"`
	ID      string `json:"id,omitempty"`
	ReplyID string `json:"reply_id,omitempty"`
}

// ─── moderate_user ────────────────────────────────────────────────────────────

func (s *Server) toolModerateUser() mcpsrv.ServerTool {
	tool := mcplib.NewTool("moderate_user",
		mcplib.WithDescription("Ban, unban, approve as a contributor, invite as a moderator or remove a moderator in a subreddit."),
		mcplib.WithString("subreddit_name", mcplib.Description("The subreddit name."), mcplib.Required()),
		mcplib.WithString("username", mcplib.Description("The Reddit username."), mcplib.Required()),
		mcplib.WithString("action",
			mcplib.Description("The action to perform."),
			mcplib.Required(),
			mcplib.Enum(actionNames(userActions)...),
		),
		mcplib.WithString("reason", mcplib.Description("Ban reason, visible to the user.")),
		mcplib.WithString("note", mcplib.Description("Moderator note, visible to moderators only.")),
		mcplib.WithNumber("duration", mcplib.Description("Ban duration in days, omit for a permanent ban."), mcplib.Min(0)),
		mcplib.WithDestructiveHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleModerateUser}
}

func (s *Server) handleModerateUser(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	act, err := parseAction(userActions, stringArgDef(req, "action", ""))
	if err != nil {
		return resultErr(err), nil
	}
	sr, err := requiredArg(req, "subreddit_name")
	if err != nil {
		return resultErr(err), nil
	}
	user, err := requiredArg(req, "username")
	if err != nil {
		return resultErr(err), nil
	}
	reason, _ := stringArg(req, "reason")
	note, _ := stringArg(req, "note")

	duration, err := intArg(req, "duration", 0)
	if err != nil {
		return resultErr(err), nil
	}

	switch act {
	case uaBan:
		err = s.rc.Friend(ctx, sr, user, reddit.RelBanned, reddit.FriendOptions{
			Note:     note,
			Reason:   reason,
			Duration: duration,
		})
	case uaUnban:
		err = s.rc.Unfriend(ctx, sr, user, reddit.RelBanned)
	case uaApprove:
		err = s.rc.Friend(ctx, sr, user, reddit.RelContributor, reddit.FriendOptions{Note: note})
	case uaInviteModerator:
		err = s.rc.Friend(ctx, sr, user, reddit.RelModInvite, reddit.FriendOptions{Note: note})
	case uaRemoveModerator:
		err = s.rc.Unfriend(ctx, sr, user, reddit.RelModerator)
	default:
		return resultErr(unknownAction(act.String())), nil
	}
	if err != nil {
		return s.upstreamErr(ctx, "moderate_user", err), nil
	}
	s.logger.InfoContext(ctx, "mcp: user moderated", "subreddit", sr, "action", act)
	return resultJSON(actionEnvelope{Success: true, Action: act.String(), User: user})
}

// ─── moderate_content ─────────────────────────────────────────────────────────

func (s *Server) toolModerateContent() mcpsrv.ServerTool {
	tool := mcplib.NewTool("moderate_content",
		mcplib.WithDescription("Approve, remove, mark as spam, lock, unlock or distinguish a post or a comment."),
		mcplib.WithString("content_id", mcplib.Description("The post or comment id."), mcplib.Required()),
		mcplib.WithString("action",
			mcplib.Description("The action to perform."),
			mcplib.Required(),
			mcplib.Enum(actionNames(contentActions)...),
		),
		mcplib.WithString("reason", mcplib.Description("Removal reason, attached as a moderator note.")),
		mcplib.WithBoolean("is_comment", mcplib.Description("True if content_id is a comment."), mcplib.DefaultBool(false)),
		mcplib.WithDestructiveHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleModerateContent}
}

func (s *Server) handleModerateContent(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	act, err := parseAction(contentActions, stringArgDef(req, "action", ""))
	if err != nil {
		return resultErr(err), nil
	}
	id, err := requiredArg(req, "content_id")
	if err != nil {
		return resultErr(err), nil
	}
	fullname := reddit.Fullname(id, boolArg(req, "is_comment", false))

	switch act {
	case caApprove:
		err = s.rc.Approve(ctx, fullname)
	case caRemove:
		err = s.rc.Remove(ctx, fullname, false)
		if reason, _ := stringArg(req, "reason"); err == nil && reason != "" {
			err = s.rc.AddRemovalReason(ctx, fullname, reason)
		}
	case caSpam:
		err = s.rc.Remove(ctx, fullname, true)
	case caLock:
		err = s.rc.Lock(ctx, fullname)
	case caUnlock:
		err = s.rc.Unlock(ctx, fullname)
	case caDistinguish:
		err = s.rc.Distinguish(ctx, fullname, true)
	case caUndistinguish:
		err = s.rc.Distinguish(ctx, fullname, false)
	default:
		return resultErr(unknownAction(act.String())), nil
	}
	if err != nil {
		return s.upstreamErr(ctx, "moderate_content", err), nil
	}
	s.logger.InfoContext(ctx, "mcp: content moderated", "fullname", fullname, "action", act)
	return resultJSON(actionEnvelope{Success: true, Action: act.String(), ID: id})
}

// ─── get_moderation_log ───────────────────────────────────────────────────────

func (s *Server) toolModerationLog() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_moderation_log",
		mcplib.WithDescription("Get the most recent entries of the moderation log of a subreddit."),
		mcplib.WithString("subreddit_name", mcplib.Description("The subreddit name."), mcplib.Required()),
		mcplib.WithNumber("limit",
			mcplib.Description("Number of entries to return."),
			mcplib.DefaultNumber(defModLogLimit),
			mcplib.Min(1),
			mcplib.Max(reddit.MaxPageSize),
		),
		mcplib.WithString("mod_name", mcplib.Description("Only the actions of this moderator.")),
		mcplib.WithString("action", mcplib.Description("Only this action type, e.g. \"banuser\" or \"removelink\".")),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleModerationLog}
}

type modLogEnvelope struct {
	Success bool               `json:"success"`
	Log     []reddit.ModAction `json:"log"`
}

func (s *Server) handleModerationLog(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	sr, err := requiredArg(req, "subreddit_name")
	if err != nil {
		return resultErr(err), nil
	}
	limit, err := intArg(req, "limit", defModLogLimit)
	if err != nil {
		return resultErr(err), nil
	}
	p := reddit.ModLogParams{
		Limit: limit,
		Mod:   stringArgDef(req, "mod_name", ""),
		Type:  stringArgDef(req, "action", ""),
	}
	entries, err := s.rc.ModLog(ctx, sr, p)
	if err != nil {
		return s.upstreamErr(ctx, "get_moderation_log", err), nil
	}
	return resultJSON(modLogEnvelope{Success: true, Log: entries})
}

// ─── manage_modmail ───────────────────────────────────────────────────────────

func (s *Server) toolModmail() mcpsrv.ServerTool {
	tool := mcplib.NewTool("manage_modmail",
		mcplib.WithDescription("List the recent modmail conversations of a subreddit, or read a conversation."),
		mcplib.WithString("subreddit_name", mcplib.Description("The subreddit name."), mcplib.Required()),
		mcplib.WithString("action",
			mcplib.Description("The action to perform."),
			mcplib.Required(),
			mcplib.Enum(actionNames(modmailActions)...),
		),
		mcplib.WithString("conversation_id", mcplib.Description("The conversation id, required for \"read\".")),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleModmail}
}

type modmailListEnvelope struct {
	Success       bool                         `json:"success"`
	Conversations []reddit.ModmailConversation `json:"conversations"`
}

type modmailThread struct {
	reddit.ModmailConversation
	Messages []reddit.ModmailMessage `json:"messages"`
}

type modmailReadEnvelope struct {
	Success      bool          `json:"success"`
	Conversation modmailThread `json:"conversation"`
}

func (s *Server) handleModmail(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	act, err := parseAction(modmailActions, stringArgDef(req, "action", ""))
	if err != nil {
		return resultErr(err), nil
	}
	sr, err := requiredArg(req, "subreddit_name")
	if err != nil {
		return resultErr(err), nil
	}
	switch act {
	case mmList:
		convs, err := s.rc.ModmailConversations(ctx, sr, defModmailLimit)
		if err != nil {
			return s.upstreamErr(ctx, "manage_modmail", err), nil
		}
		return resultJSON(modmailListEnvelope{Success: true, Conversations: convs})
	case mmRead:
		id, ok := stringArg(req, "conversation_id")
		if !ok || id == "" {
			return resultErr(errors.New("conversation_id required for read")), nil
		}
		mt, err := s.rc.ModmailConversation(ctx, id)
		if err != nil {
			return s.upstreamErr(ctx, "manage_modmail", err), nil
		}
		return resultJSON(modmailReadEnvelope{
			Success:      true,
			Conversation: modmailThread{ModmailConversation: mt.Conversation, Messages: mt.Messages},
		})
	default:
		return resultErr(unknownAction(act.String())), nil
	}
}

// ─── get_subreddit_traffic ────────────────────────────────────────────────────

func (s *Server) toolSubredditTraffic() mcpsrv.ServerTool {
	tool := mcplib.NewTool("get_subreddit_traffic",
		mcplib.WithDescription(`Get the traffic statistics of a subreddit.  Requires moderator permissions.

Each row is [timestamp, unique visitors, page views] (plus subscriptions for days).`),
		mcplib.WithString("subreddit_name", mcplib.Description("The subreddit name."), mcplib.Required()),
		mcplib.WithReadOnlyHintAnnotation(true),
	)
	return mcpsrv.ServerTool{Tool: tool, Handler: s.handleSubredditTraffic}
}

type trafficEnvelope struct {
	Success   bool            `json:"success"`
	Subreddit string          `json:"subreddit"`
	Traffic   *reddit.Traffic `json:"traffic"`
}

func (s *Server) handleSubredditTraffic(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	sr, err := requiredArg(req, "subreddit_name")
	if err != nil {
		return resultErr(err), nil
	}
	tr, err := s.rc.SubredditTraffic(ctx, sr)
	if err != nil {
		return s.upstreamErr(ctx, "get_subreddit_traffic", err), nil
	}
	return resultJSON(trafficEnvelope{Success: true, Subreddit: sr, Traffic: tr})
}
