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
	"runtime/trace"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/redditresearch/redditmcp/internal/reddit"
)

// Thread is an anonymised thread record.
type Thread struct {
	ID          string  `json:"thread_id"`
	Title       string  `json:"title"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	CreatedUTC  float64 `json:"created_utc"`
	CreatedDate string  `json:"created_date"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	URL         string  `json:"url"`
	WordCount   int     `json:"word_count"`
}

// FilterStats counts the posts dropped by each filter.
type FilterStats struct {
	OutOfRange    int `json:"out_of_range"`
	LowEngagement int `json:"low_engagement"`
	TooShort      int `json:"too_short"`
	NoTerm        int `json:"no_term"`
}

// SearchResult is the result of a research search.
type SearchResult struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Threads []Thread `json:"threads"`
	// Scanned is the number of posts examined.
	Scanned  int         `json:"scanned"`
	Filtered FilterStats `json:"filtered"`
}

// verdict is the outcome of the filter chain for a post.
type verdict uint8

const (
	keep verdict = iota
	outOfRange
	lowEngagement
	tooShort
	noTerm
)

func (v verdict) String() string {
	switch v {
	case keep:
		return "keep"
	case outOfRange:
		return "out_of_range"
	case lowEngagement:
		return "low_engagement"
	case tooShort:
		return "too_short"
	case noTerm:
		return "no_term"
	default:
		return "unknown"
	}
}

func (s *FilterStats) add(v verdict) {
	switch v {
	case outOfRange:
		s.OutOfRange++
	case lowEngagement:
		s.LowEngagement++
	case tooShort:
		s.TooShort++
	case noTerm:
		s.NoTerm++
	}
}

// filter applies the search criteria to posts.
type filter struct {
	win         window
	minComments int
	minWords    int
	fold        cases.Caser
	term        string
}

func newFilter(c Criteria, w window) *filter {
	f := &filter{
		win:         w,
		minComments: c.MinComments,
		minWords:    c.MinWords,
		fold:        cases.Fold(),
	}
	f.term = f.fold.String(strings.TrimSpace(c.Term))
	return f
}

// check runs the filters in order and returns the first failing one.
func (f *filter) check(p *reddit.Post) verdict {
	if !f.win.contains(p.CreatedUTC) {
		return outOfRange
	}
	if p.NumComments < f.minComments {
		return lowEngagement
	}
	if wordCount(p) < f.minWords {
		return tooShort
	}
	if !strings.Contains(f.fold.String(p.Title+" "+p.SelfText), f.term) {
		return noTerm
	}
	return keep
}

// wordCount counts the words of the post body, or the title if the body is
// empty.
func wordCount(p *reddit.Post) int {
	if p.SelfText == "" {
		return CountWords(p.Title)
	}
	return CountWords(p.SelfText)
}

// formatDate returns the RFC 3339 representation of the epoch seconds in UTC.
func formatDate(epoch float64) string {
	return reddit.Timestamp(epoch).Format(time.RFC3339)
}

// record converts the post into an anonymised thread record.
func (r *Researcher) record(p *reddit.Post) Thread {
	return Thread{
		ID:          p.ID,
		Title:       p.Title,
		Subreddit:   p.Subreddit,
		Author:      r.anon.Username(p.Author),
		CreatedUTC:  p.CreatedUTC,
		CreatedDate: formatDate(p.CreatedUTC),
		Score:       p.Score,
		NumComments: p.NumComments,
		URL:         p.AbsURL(),
		WordCount:   wordCount(p),
	}
}

// Search finds threads about the term in the subreddits that satisfy the
// criteria.  It requests OverFetch times MaxResults posts from Reddit in
// relevance order, and keeps the posts that, in order: were created within
// the date range, have at least MinComments comments, have at least MinWords
// words, and mention the term.  The search stops once MaxResults threads are
// collected or the posts are exhausted, so fewer threads than requested is
// not an error.
func (r *Researcher) Search(ctx context.Context, c Criteria) (*SearchResult, error) {
	ctx, task := trace.NewTask(ctx, "Search")
	defer task.End()

	win, err := c.window()
	if err != nil {
		return nil, err
	}
	var (
		f    = newFilter(c, win)
		subs = uniqueSubreddits(c.Subreddits)
		res  = &SearchResult{
			Success: true,
			Threads: make([]Thread, 0, min(c.MaxResults, reddit.MaxPageSize)),
		}
	)
	lg := r.lg.With("term", c.Term)
	lg.DebugContext(ctx, "research: search", "subreddits", subs, "max_results", c.MaxResults)

	params := reddit.SearchParams{
		Query:      c.Term,
		Subreddits: subs,
		Sort:       reddit.SearchRelevance,
		Time:       reddit.TimeAll,
		Limit:      c.MaxResults * OverFetch,
	}
	for post, err := range r.up.Search(ctx, params) {
		if err != nil {
			return nil, err
		}
		res.Scanned++
		if v := f.check(&post); v != keep {
			res.Filtered.add(v)
			lg.DebugContext(ctx, "research: dropped", "thread_id", post.ID, "reason", v)
			continue
		}
		res.Threads = append(res.Threads, r.record(&post))
		if len(res.Threads) >= c.MaxResults {
			break
		}
	}
	res.Count = len(res.Threads)
	lg.InfoContext(ctx, "research: search complete", "count", res.Count, "scanned", res.Scanned)
	return res, nil
}
