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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/redditresearch/redditmcp/internal/privacy"
	"github.com/redditresearch/redditmcp/internal/reddit"
)

// testThread returns a thread with the comment tree
//
//	c1 (bob)
//	  c2 ([deleted])
//	    c3 (bob)
//	c4 (carol)
//	  c5 (dave)
func testThread(t *testing.T) *reddit.Thread {
	return &reddit.Thread{
		Post: mkPost(t, "abc", 5, 80, "2021-06-01", "alice"),
		Comments: []reddit.Comment{
			{ID: "c1", Author: "bob", Body: "one", Replies: []reddit.Comment{
				{ID: "c2", Author: privacy.Deleted, Body: "[removed]", Replies: []reddit.Comment{
					{ID: "c3", Author: "bob", Body: "three"},
				}},
			}, More: 2},
			{ID: "c4", Author: "carol", Body: "four", Replies: []reddit.Comment{
				{ID: "c5", Author: "dave", Body: "five", CreatedUTC: 1600000000},
			}},
		},
		More: 1,
	}
}

func commentIDs(cc []Comment) []string {
	ids := make([]string, len(cc))
	for i, c := range cc {
		ids[i] = c.ID
	}
	return ids
}

func TestResearcher_ThreadDetails(t *testing.T) {
	tests := []struct {
		name        string
		maxComments int
		wantIDs     []string
	}{
		{"all comments, level by level", 50, []string{"c1", "c4", "c2", "c5", "c3"}},
		{"truncated to top level", 2, []string{"c1", "c4"}},
		{"truncated inside replies", 3, []string{"c1", "c4", "c2"}},
		{"one", 1, []string{"c1"}},
		{"none", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, up := newTestResearcher(t)
			up.EXPECT().Thread(gomock.Any(), "abc", reddit.CommentParams{Sort: reddit.SortNew}).Return(testThread(t), nil)

			td, err := r.ThreadDetails(t.Context(), "abc", tt.maxComments, reddit.SortNew)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, commentIDs(td.Comments))
			assert.LessOrEqual(t, len(td.Comments), tt.maxComments)
		})
	}
}

func TestResearcher_ThreadDetails_anonymised(t *testing.T) {
	r, up := newTestResearcher(t)
	up.EXPECT().Thread(gomock.Any(), "abc", gomock.Any()).Return(testThread(t), nil)

	td, err := r.ThreadDetails(t.Context(), "abc", 10, reddit.SortTop)
	require.NoError(t, err)

	anon := privacy.New(testSalt)
	assert.Equal(t, "abc", td.ID)
	assert.Equal(t, anon.Username("alice"), td.Author)
	assert.Equal(t, mkPost(t, "abc", 5, 80, "2021-06-01", "alice").SelfText, td.SelfText)
	require.Len(t, td.Comments, 5)
	assert.Equal(t, anon.Username("bob"), td.Comments[0].Author)
	assert.Equal(t, anon.Username("carol"), td.Comments[1].Author)
	assert.Equal(t, privacy.Deleted, td.Comments[2].Author)
	assert.Equal(t, td.Comments[0].Author, td.Comments[4].Author, "same user, same token")
	assert.Equal(t, "2020-09-13T12:26:40Z", td.Comments[3].CreatedDate)
	for _, c := range td.Comments {
		assert.NotContains(t, []string{"bob", "carol", "dave"}, c.Author)
	}
}

func TestResearcher_ThreadDetails_errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		r, up := newTestResearcher(t)
		up.EXPECT().Thread(gomock.Any(), "nope", gomock.Any()).Return(nil, fmt.Errorf("thread nope: %w", reddit.ErrNotFound))
		_, err := r.ThreadDetails(t.Context(), "nope", 10, reddit.SortTop)
		assert.ErrorIs(t, err, reddit.ErrNotFound)
	})
	t.Run("forbidden", func(t *testing.T) {
		r, up := newTestResearcher(t)
		up.EXPECT().Thread(gomock.Any(), "priv", gomock.Any()).Return(nil, &reddit.StatusError{Code: 403})
		_, err := r.ThreadDetails(t.Context(), "priv", 10, reddit.SortTop)
		assert.ErrorIs(t, err, reddit.ErrForbidden)
	})
	t.Run("negative max", func(t *testing.T) {
		r, _ := newTestResearcher(t)
		_, err := r.ThreadDetails(t.Context(), "abc", -1, reddit.SortTop)
		assert.True(t, errors.Is(err, ErrBadMaxComments))
	})
}
