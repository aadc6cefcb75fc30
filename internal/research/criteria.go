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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redditresearch/redditmcp/internal/reddit"
	"github.com/redditresearch/redditmcp/internal/validate"
)

// DateLayout is the layout of the criteria dates.
const DateLayout = "2006-01-02"

// Default criteria values.
const (
	DefStartDate   = "2019-01-01"
	DefEndDate     = "2023-12-31"
	DefMinComments = 5
	DefMinWords    = 50
	DefMaxResults  = 100

	// OverFetch is the multiplier applied to the requested number of results
	// when querying Reddit, to make up for the posts dropped by the filters.
	// It is a heuristic: a search may return fewer results than requested
	// even if more matching posts exist.
	OverFetch = 2
)

var (
	ErrInvalidCriteria = errors.New("invalid search criteria")
	ErrDateRange       = errors.New("start_date must not be after end_date")
)

// Criteria are the parameters of a research search.  They are not modified
// by the search.
type Criteria struct {
	Term        string   `json:"medication_name" validate:"required"`
	Subreddits  []string `json:"subreddits" validate:"dive,required"`
	StartDate   string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	MinComments int      `json:"min_comments" validate:"gte=0"`
	MinWords    int      `json:"min_words" validate:"gte=0"`
	MaxResults  int      `json:"max_results" validate:"gt=0"`
}

// DefaultCriteria returns the criteria with default values for the term.
func DefaultCriteria(term string, subreddits ...string) Criteria {
	return Criteria{
		Term:        term,
		Subreddits:  subreddits,
		StartDate:   DefStartDate,
		EndDate:     DefEndDate,
		MinComments: DefMinComments,
		MinWords:    DefMinWords,
		MaxResults:  DefMaxResults,
	}
}

// window is the inclusive time range of the search, in Unix seconds.
type window struct {
	start, end float64
}

func (w window) contains(ts float64) bool {
	return w.start <= ts && ts <= w.end
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// Validate checks the criteria.
func (c Criteria) Validate() error {
	_, err := c.window()
	return err
}

func (c Criteria) window() (window, error) {
	if strings.TrimSpace(c.Term) == "" {
		c.Term = ""
	}
	if err := validate.Struct(c); err != nil {
		return window{}, fmt.Errorf("%w: %w", ErrInvalidCriteria, err)
	}
	start, err := ParseDate(c.StartDate)
	if err != nil {
		return window{}, fmt.Errorf("%w: start_date: %w", ErrInvalidCriteria, err)
	}
	end, err := ParseDate(c.EndDate)
	if err != nil {
		return window{}, fmt.Errorf("%w: end_date: %w", ErrInvalidCriteria, err)
	}
	if start.After(end) {
		return window{}, fmt.Errorf("%w: %w", ErrInvalidCriteria, ErrDateRange)
	}
	return window{start: float64(start.Unix()), end: float64(end.Unix())}, nil
}

// uniqueSubreddits returns the cleaned subreddit names without duplicates,
// preserving the order of the first occurrence.
func uniqueSubreddits(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = reddit.CleanSubreddit(s)
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok || s == "" {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
