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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/redditresearch/redditmcp/internal/cache"
	"github.com/redditresearch/redditmcp/internal/reddit"
)

func TestResearcher_SubredditInfo(t *testing.T) {
	c, err := cache.New[string, *SubredditInfo](cache.DefSize, cache.DefTTL)
	require.NoError(t, err)
	r, up := newTestResearcher(t, WithSubredditCache(c))

	up.EXPECT().Subreddit(gomock.Any(), "diabetes").Return(&reddit.Subreddit{
		Name:              "diabetes",
		Title:             "Diabetes",
		PublicDescription: "Support",
		Subscribers:       100,
		CreatedUTC:        1200000000,
		Over18:            false,
	}, nil).Times(1)
	up.EXPECT().SubredditRules(gomock.Any(), "diabetes").Return([]reddit.Rule{{ShortName: "Be kind"}}, nil).Times(1)

	for _, name := range []string{"r/Diabetes", "diabetes", " DIABETES "} {
		info, err := r.SubredditInfo(t.Context(), name)
		require.NoError(t, err)
		assert.Equal(t, "diabetes", info.Name)
		assert.Equal(t, "Support", info.Description)
		assert.Equal(t, "https://reddit.com/r/diabetes", info.URL)
		assert.Equal(t, "2008-01-10T21:20:00Z", info.CreatedDate)
		require.Len(t, info.Rules, 1)
	}
	assert.Equal(t, uint64(2), c.Stats().Hits)
}

func TestResearcher_SubredditInfo_rulesFailure(t *testing.T) {
	r, up := newTestResearcher(t)
	up.EXPECT().Subreddit(gomock.Any(), "priv").Return(&reddit.Subreddit{Name: "priv"}, nil)
	up.EXPECT().SubredditRules(gomock.Any(), "priv").Return(nil, &reddit.StatusError{Code: 403})

	info, err := r.SubredditInfo(t.Context(), "priv")
	require.NoError(t, err)
	assert.NotNil(t, info.Rules)
	assert.Empty(t, info.Rules)
}

func TestResearcher_SubredditInfo_errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantErr  error
		wantText string
	}{
		{"not found", &reddit.StatusError{Code: 404}, reddit.ErrNotFound, "not found"},
		{"forbidden", &reddit.StatusError{Code: 403}, reddit.ErrForbidden, "private or restricted"},
		{"rate limited", &reddit.StatusError{Code: 429}, reddit.ErrRateLimited, "rate limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, up := newTestResearcher(t)
			up.EXPECT().Subreddit(gomock.Any(), "x").Return(nil, tt.err)
			_, err := r.SubredditInfo(t.Context(), "x")
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorContains(t, err, tt.wantText)
		})
	}
	t.Run("empty name", func(t *testing.T) {
		r, _ := newTestResearcher(t)
		_, err := r.SubredditInfo(t.Context(), " r/ ")
		assert.ErrorIs(t, err, ErrNoSubreddit)
	})
}
