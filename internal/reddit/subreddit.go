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
	"fmt"
	"net/url"
)

// Subreddit is the subset of subreddit metadata the server exposes.
type Subreddit struct {
	Name              string  `json:"display_name"`
	Title             string  `json:"title"`
	PublicDescription string  `json:"public_description"`
	Subscribers       int     `json:"subscribers"`
	ActiveUsers       int     `json:"active_user_count"`
	CreatedUTC        float64 `json:"created_utc"`
	Over18            bool    `json:"over18"`
	SubmissionType    string  `json:"submission_type"`
}

// Rule is a subreddit rule.
type Rule struct {
	ShortName       string `json:"short_name"`
	Description     string `json:"description"`
	ViolationReason string `json:"violation_reason"`
}

// Subreddit returns the metadata of the named subreddit.
func (c *Client) Subreddit(ctx context.Context, name string) (*Subreddit, error) {
	var resp struct {
		Kind string    `json:"kind"`
		Data Subreddit `json:"data"`
	}
	if err := c.get(ctx, subredditPath(name)+"/about", nil, &resp); err != nil {
		return nil, fmt.Errorf("subreddit %s: %w", name, err)
	}
	// Reddit answers a search listing for nonexistent subreddits.
	if resp.Kind != KindSubreddit {
		return nil, fmt.Errorf("subreddit %s: %w", name, ErrNotFound)
	}
	return &resp.Data, nil
}

// SubredditRules returns the rules of the named subreddit.
func (c *Client) SubredditRules(ctx context.Context, name string) ([]Rule, error) {
	var resp struct {
		Rules []Rule `json:"rules"`
	}
	if err := c.get(ctx, subredditPath(name)+"/about/rules", nil, &resp); err != nil {
		return nil, fmt.Errorf("subreddit %s rules: %w", name, err)
	}
	return resp.Rules, nil
}

// Traffic is the subreddit traffic report.  Each row is
// [epoch, uniques, pageviews, subscriptions].
type Traffic struct {
	Day   [][]int64 `json:"day"`
	Hour  [][]int64 `json:"hour"`
	Month [][]int64 `json:"month"`
}

// SubredditTraffic returns the traffic statistics.  Requires moderator
// access.
func (c *Client) SubredditTraffic(ctx context.Context, name string) (*Traffic, error) {
	var t Traffic
	if err := c.get(ctx, subredditPath(name)+"/about/traffic", nil, &t); err != nil {
		return nil, fmt.Errorf("subreddit %s traffic: %w", name, err)
	}
	return &t, nil
}

// Subscribe subscribes to or unsubscribes from the named subreddit.
func (c *Client) Subscribe(ctx context.Context, name string, subscribe bool) error {
	action := "unsub"
	if subscribe {
		action = "sub"
	}
	form := url.Values{
		"action":  {action},
		"sr_name": {CleanSubreddit(name)},
	}
	if err := c.post(ctx, "/api/subscribe", form, nil); err != nil {
		return fmt.Errorf("subscribe %s: %w", name, err)
	}
	return nil
}
