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

// Package research implements the privacy-preserving research operations:
// the filtered thread search, thread detail formatting, batch search and
// export.  Every username leaving this package is anonymised.
package research

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/rusq/fsadapter"

	"github.com/redditresearch/redditmcp/internal/cache"
	"github.com/redditresearch/redditmcp/internal/privacy"
	"github.com/redditresearch/redditmcp/internal/reddit"
)

//go:generate mockgen -destination=mock_research/mock_research.go . Upstream

// Upstream is the Reddit data source.  It is implemented by
// [reddit.Client].
type Upstream interface {
	// Search returns a lazy sequence of posts matching the parameters.
	Search(ctx context.Context, p reddit.SearchParams) iter.Seq2[reddit.Post, error]
	// Thread returns the post and its materialised comment tree.
	Thread(ctx context.Context, id string, p reddit.CommentParams) (*reddit.Thread, error)
	// Subreddit returns the subreddit metadata.
	Subreddit(ctx context.Context, name string) (*reddit.Subreddit, error)
	// SubredditRules returns the subreddit rules.
	SubredditRules(ctx context.Context, name string) ([]reddit.Rule, error)
}

// DefBatchPause is the default pause between the terms of a batch search.
const DefBatchPause = 2 * time.Second

// Researcher runs the research operations against the upstream.  It holds no
// per-call state and is safe for concurrent use.
type Researcher struct {
	up   Upstream
	anon *privacy.Anonymizer
	lg   *slog.Logger

	srCache    *cache.TTL[string, *SubredditInfo]
	batchPause time.Duration
	exportFS   fsadapter.FS
	exportLoc  string
	now        func() time.Time
}

// Option configures the Researcher.
type Option func(*Researcher)

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) Option {
	return func(r *Researcher) {
		if lg != nil {
			r.lg = lg
		}
	}
}

// WithSubredditCache sets the cache for subreddit information.  Without it
// every call goes upstream.
func WithSubredditCache(c *cache.TTL[string, *SubredditInfo]) Option {
	return func(r *Researcher) {
		r.srCache = c
	}
}

// WithBatchPause sets the pause between batch search terms.
func WithBatchPause(d time.Duration) Option {
	return func(r *Researcher) {
		if d >= 0 {
			r.batchPause = d
		}
	}
}

// WithExport sets the filesystem that receives the exports.  loc is the
// location of the filesystem reported to the caller, i.e. the directory.
func WithExport(fs fsadapter.FS, loc string) Option {
	return func(r *Researcher) {
		r.exportFS = fs
		r.exportLoc = loc
	}
}

// New returns a new Researcher using the upstream and the anonymizer.
func New(up Upstream, anon *privacy.Anonymizer, opts ...Option) *Researcher {
	r := &Researcher{
		up:         up,
		anon:       anon,
		lg:         slog.Default(),
		batchPause: DefBatchPause,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Anonymizer returns the anonymizer used by r.
func (r *Researcher) Anonymizer() *privacy.Anonymizer {
	return r.anon
}
