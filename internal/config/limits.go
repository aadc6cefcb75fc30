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

package config

// In this file: API limits.

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/redditresearch/redditmcp/internal/cache"
	"github.com/redditresearch/redditmcp/internal/reddit"
	"github.com/redditresearch/redditmcp/internal/research"
	"github.com/redditresearch/redditmcp/internal/validate"
)

// Limits are the Reddit API and cache limits.
type Limits struct {
	// RequestsPerMinute is the sustained request rate.  Zero disables the
	// limiter.
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute" validate:"gte=0,lte=600"`
	// Burst is the number of requests allowed in a burst.
	Burst int `toml:"burst" json:"burst" validate:"gte=1,lte=100"`
	// PageSize is the number of items per listing request.
	PageSize int `toml:"page_size" json:"page_size" validate:"gte=1,lte=100"`
	// RequestTimeout is the timeout of a single HTTP request.
	RequestTimeout time.Duration `toml:"request_timeout" json:"request_timeout" validate:"gte=0"`
	// BatchPause is the pause between the terms of a batch search.
	BatchPause time.Duration `toml:"batch_pause" json:"batch_pause" validate:"gte=0"`
	// CacheSize is the number of subreddits kept in the cache.
	CacheSize int `toml:"subreddit_cache_size" json:"subreddit_cache_size" validate:"gte=1,lte=10000"`
	// CacheTTL is how long subreddit information is cached.
	CacheTTL time.Duration `toml:"subreddit_cache_ttl" json:"subreddit_cache_ttl" validate:"gt=0"`
}

// DefLimits are the default limits.
var DefLimits = Limits{
	RequestsPerMinute: reddit.DefRequestsPerMinute,
	Burst:             reddit.DefBurst,
	PageSize:          reddit.MaxPageSize,
	RequestTimeout:    30 * time.Second,
	BatchPause:        research.DefBatchPause,
	CacheSize:         cache.DefSize,
	CacheTTL:          cache.DefTTL,
}

var ErrUnknownKeys = errors.New("unknown keys in the limits file")

// Validate checks the limits.
func (l Limits) Validate() error {
	return validate.Struct(l)
}

// Apply sets the non-zero values of other on l and validates the result.
// On error l is not modified.
func (l *Limits) Apply(other Limits) error {
	n := *l
	if other.RequestsPerMinute != 0 {
		n.RequestsPerMinute = other.RequestsPerMinute
	}
	if other.Burst != 0 {
		n.Burst = other.Burst
	}
	if other.PageSize != 0 {
		n.PageSize = other.PageSize
	}
	if other.RequestTimeout != 0 {
		n.RequestTimeout = other.RequestTimeout
	}
	if other.BatchPause != 0 {
		n.BatchPause = other.BatchPause
	}
	if other.CacheSize != 0 {
		n.CacheSize = other.CacheSize
	}
	if other.CacheTTL != 0 {
		n.CacheTTL = other.CacheTTL
	}
	if err := n.Validate(); err != nil {
		return err
	}
	*l = n
	return nil
}

// LoadLimits reads the TOML limits file over the default limits.  Keys
// that are not limits are an error.
func LoadLimits(filename string) (Limits, error) {
	l := DefLimits
	md, err := toml.DecodeFile(filename, &l)
	if err != nil {
		return Limits{}, fmt.Errorf("limits file %s: %w", filename, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, 0, len(undec))
		for _, k := range undec {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		return Limits{}, fmt.Errorf("limits file %s: %w: %s", filename, ErrUnknownKeys, strings.Join(keys, ", "))
	}
	if err := l.Validate(); err != nil {
		return Limits{}, fmt.Errorf("limits file %s: %w", filename, err)
	}
	return l, nil
}
