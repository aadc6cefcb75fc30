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
	"strings"

	"github.com/redditresearch/redditmcp/internal/reddit"
)

var ErrNoSubreddit = errors.New("subreddit name is required")

// SubredditInfo describes a subreddit.
type SubredditInfo struct {
	Name           string        `json:"name"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Subscribers    int           `json:"subscribers"`
	ActiveUsers    int           `json:"active_users"`
	CreatedUTC     float64       `json:"created_utc"`
	CreatedDate    string        `json:"created_date"`
	NSFW           bool          `json:"is_nsfw"`
	SubmissionType string        `json:"submission_type"`
	URL            string        `json:"url"`
	Rules          []reddit.Rule `json:"rules"`
}

// SubredditInfo returns the information about the subreddit.  The name may
// carry the "r/" prefix.  Results are served from the subreddit cache, if
// one is configured.  Failure to fetch the rules is not an error.
func (r *Researcher) SubredditInfo(ctx context.Context, name string) (*SubredditInfo, error) {
	ctx, task := trace.NewTask(ctx, "SubredditInfo")
	defer task.End()

	name = strings.ToLower(reddit.CleanSubreddit(name))
	if name == "" {
		return nil, ErrNoSubreddit
	}
	if r.srCache == nil {
		return r.subredditInfo(ctx, name)
	}
	return r.srCache.Fetch(ctx, name, func(ctx context.Context) (*SubredditInfo, error) {
		return r.subredditInfo(ctx, name)
	})
}

func (r *Researcher) subredditInfo(ctx context.Context, name string) (*SubredditInfo, error) {
	sr, err := r.up.Subreddit(ctx, name)
	if err != nil {
		return nil, subredditError(name, err)
	}
	rules, err := r.up.SubredditRules(ctx, name)
	if err != nil {
		r.lg.WarnContext(ctx, "research: could not fetch subreddit rules", "subreddit", name, "error", err)
		rules = []reddit.Rule{}
	}
	return &SubredditInfo{
		Name:           sr.Name,
		Title:          sr.Title,
		Description:    sr.PublicDescription,
		Subscribers:    sr.Subscribers,
		ActiveUsers:    sr.ActiveUsers,
		CreatedUTC:     sr.CreatedUTC,
		CreatedDate:    formatDate(sr.CreatedUTC),
		NSFW:           sr.Over18,
		SubmissionType: sr.SubmissionType,
		URL:            reddit.WebURL + "/r/" + sr.Name,
		Rules:          rules,
	}, nil
}

// subredditError adds a hint for the common failures.
func subredditError(name string, err error) error {
	switch {
	case errors.Is(err, reddit.ErrNotFound):
		return fmt.Errorf("subreddit r/%s not found, check the name (use names like \"pregnant\", not \"r/pregnant\"): %w", name, err)
	case errors.Is(err, reddit.ErrForbidden):
		return fmt.Errorf("cannot access r/%s, it may be private or restricted: %w", name, err)
	case errors.Is(err, reddit.ErrRateLimited):
		return fmt.Errorf("reddit rate limit reached, wait a moment and try again: %w", err)
	}
	return fmt.Errorf("failed to retrieve subreddit info: %w", err)
}
