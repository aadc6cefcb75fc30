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
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threadFixture is a thread response with a nested comment tree and "more"
// placeholders at the top level and inside a reply listing.
const threadFixture = `[
 {"kind":"Listing","data":{"children":[{"kind":"t3","data":{
   "id":"abc","name":"t3_abc","title":"On metformin","selftext":"Day 3 report",
   "author":"alice","created_utc":1600000000,"score":42,"num_comments":5,
   "permalink":"/r/diabetes/comments/abc/on_metformin/","subreddit":"diabetes"}}]}},
 {"kind":"Listing","data":{"children":[
   {"kind":"t1","data":{"id":"c1","author":"bob","body":"first","score":3,"created_utc":1600000100,
     "replies":{"kind":"Listing","data":{"children":[
       {"kind":"t1","data":{"id":"c2","author":"[deleted]","body":"[removed]","score":1,"created_utc":1600000200,"replies":""}},
       {"kind":"more","data":{"count":4,"children":["x","y"]}}
     ]}}}},
   {"kind":"t1","data":{"id":"c3","author":"carol","body":"second","score":2,"created_utc":1600000300,"replies":""}},
   {"kind":"more","data":{"count":10,"children":["z"]}}
 ]}}
]`

func TestClient_Thread(t *testing.T) {
	var gotSort, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSort = r.URL.Query().Get("sort")
		gotPath = r.URL.Path
		w.Write([]byte(threadFixture))
	})

	th, err := c.Thread(t.Context(), "t3_abc", CommentParams{Sort: SortBest})
	require.NoError(t, err)
	assert.Equal(t, "confidence", gotSort)
	assert.Equal(t, "/comments/abc", gotPath)

	assert.Equal(t, "abc", th.Post.ID)
	assert.Equal(t, "alice", th.Post.Author)
	assert.Equal(t, "https://reddit.com/r/diabetes/comments/abc/on_metformin/", th.Post.AbsURL())
	assert.Equal(t, 1, th.More)
	require.Len(t, th.Comments, 2)
	assert.Equal(t, 1, th.Comments[0].More)
	require.Len(t, th.Comments[0].Replies, 1)
	assert.Empty(t, th.Comments[1].Replies)

	var order []string
	th.Walk(func(c *Comment) bool {
		order = append(order, c.ID)
		return true
	})
	assert.Equal(t, []string{"c1", "c3", "c2"}, order, "top level first")

	order = order[:0]
	th.Walk(func(c *Comment) bool {
		order = append(order, c.ID)
		return len(order) < 2
	})
	assert.Equal(t, []string{"c1", "c3"}, order, "stops early")
}

func TestClient_Thread_notFound(t *testing.T) {
	tests := []struct {
		name string
		h    http.HandlerFunc
	}{
		{"404", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }},
		{"empty array", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`[]`)) }},
		{"no post", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"kind":"Listing","data":{"children":[]}}]`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.h)
			_, err := c.Thread(t.Context(), "nope", CommentParams{})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestParseCommentSort(t *testing.T) {
	tests := []struct {
		in      string
		want    CommentSort
		wantErr bool
	}{
		{"", SortTop, false},
		{"top", SortTop, false},
		{"NEW", SortNew, false},
		{"controversial", SortControversial, false},
		{"best", SortBest, false},
		{"hot", SortTop, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCommentSort(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadSort)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "top", SortTop.param())
	assert.Equal(t, "confidence", SortBest.param())
}
