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

// In this file: the closed sets of actions accepted by the account tools.

import (
	"errors"
	"fmt"
	"strings"
)

var errUnknownAction = errors.New("unknown action")

// unknownAction returns the error for an action outside of the tool's set.
func unknownAction(s string) error {
	return fmt.Errorf("%w: %s", errUnknownAction, s)
}

// parseAction looks up the normalised s in the action table.
func parseAction[T ~uint8](table map[string]T, s string) (T, error) {
	if a, ok := table[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return 0, unknownAction(s)
}

// actionName is the reverse lookup of parseAction.
func actionName[T ~uint8](table map[string]T, a T) string {
	for name, v := range table {
		if v == a {
			return name
		}
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

type userAction uint8

const (
	_ userAction = iota
	uaBan
	uaUnban
	uaApprove
	uaInviteModerator
	uaRemoveModerator
)

var userActions = map[string]userAction{
	"ban":              uaBan,
	"unban":            uaUnban,
	"approve":          uaApprove,
	"invite_moderator": uaInviteModerator,
	"remove_moderator": uaRemoveModerator,
}

func (a userAction) String() string { return actionName(userActions, a) }

type contentAction uint8

const (
	_ contentAction = iota
	caApprove
	caRemove
	caSpam
	caLock
	caUnlock
	caDistinguish
	caUndistinguish
)

var contentActions = map[string]contentAction{
	"approve":       caApprove,
	"remove":        caRemove,
	"spam":          caSpam,
	"lock":          caLock,
	"unlock":        caUnlock,
	"distinguish":   caDistinguish,
	"undistinguish": caUndistinguish,
}

func (a contentAction) String() string { return actionName(contentActions, a) }

type interaction uint8

const (
	_ interaction = iota
	inUpvote
	inDownvote
	inClearVote
	inSave
	inUnsave
	inReply
	inEdit
	inDelete
)

var interactions = map[string]interaction{
	"upvote":     inUpvote,
	"downvote":   inDownvote,
	"clear_vote": inClearVote,
	"save":       inSave,
	"unsave":     inUnsave,
	"reply":      inReply,
	"edit":       inEdit,
	"delete":     inDelete,
}

func (a interaction) String() string { return actionName(interactions, a) }

// needsText reports whether the interaction requires the text argument.
func (a interaction) needsText() bool {
	return a == inReply || a == inEdit
}

type inboxAction uint8

const (
	_ inboxAction = iota
	ibListUnread
	ibListInbox
	ibSend
	ibRead
)

var inboxActions = map[string]inboxAction{
	"list_unread": ibListUnread,
	"list_inbox":  ibListInbox,
	"send":        ibSend,
	"read":        ibRead,
}

func (a inboxAction) String() string { return actionName(inboxActions, a) }

type modmailAction uint8

const (
	_ modmailAction = iota
	mmList
	mmRead
)

var modmailActions = map[string]modmailAction{
	"list": mmList,
	"read": mmRead,
}

func (a modmailAction) String() string { return actionName(modmailActions, a) }

type subscription uint8

const (
	_ subscription = iota
	subSubscribe
	subUnsubscribe
)

var subscriptions = map[string]subscription{
	"subscribe":   subSubscribe,
	"unsubscribe": subUnsubscribe,
}

func (a subscription) String() string { return actionName(subscriptions, a) }

// actionNames returns the names of the table's actions in declaration order,
// for the tool schemas.
func actionNames[T ~uint8](table map[string]T) []string {
	names := make([]string, len(table))
	for name, v := range table {
		names[int(v)-1] = name
	}
	return names
}
