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
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/redditresearch/redditmcp/internal/reddit"
)

func TestResearcher_BatchSearch(t *testing.T) {
	r, up := newTestResearcher(t, WithBatchPause(0))
	errBoom := errors.New("boom")
	var queries []string
	up.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p reddit.SearchParams) iter.Seq2[reddit.Post, error] {
		queries = append(queries, p.Query)
		assert.Equal(t, 10*OverFetch, p.Limit)
		switch p.Query {
		case "metformin":
			return seqOf(mkPost(t, "a", 10, 80, "2021-06-01", "u"), mkPost(t, "b", 10, 80, "2021-06-01", "u"))
		case "ozempic":
			return seqErr(errBoom)
		default:
			return seqOf()
		}
	}).Times(3)
	c := testCriteria()
	c.MaxResults = 10
	res, err := r.BatchSearch(t.Context(), BatchCriteria{
		Terms:    []string{"metformin", "ozempic", " metformin ", "insulin", ""},
		Criteria: c,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.TotalTerms)
	assert.Equal(t, 2, res.Completed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, res.TotalThreads)
	assert.Equal(t, 2, res.Results["metformin"].Count)
	assert.False(t, res.Results["ozempic"].Success)
	assert.Contains(t, res.Results["ozempic"].Error, "boom")
	assert.Equal(t, []TermError{{Term: "ozempic", Error: "boom"}}, res.Errors)
	assert.Equal(t, "Completed 2/3 medications. Failed: ozempic", res.Message)
	assert.Equal(t, []string{"metformin", "ozempic", "insulin"}, queries)
}

func TestResearcher_BatchSearch_invalid(t *testing.T) {
	r, _ := newTestResearcher(t)
	_, err := r.BatchSearch(t.Context(), BatchCriteria{Terms: []string{" "}, Criteria: testCriteria()})
	assert.ErrorIs(t, err, ErrNoTerms)

	c := testCriteria()
	c.StartDate = "bad"
	_, err = r.BatchSearch(t.Context(), BatchCriteria{Terms: []string{"a"}, Criteria: c})
	assert.ErrorIs(t, err, ErrInvalidCriteria)
}

func TestResearcher_BatchSearch_cancelledDuringPause(t *testing.T) {
	r, up := newTestResearcher(t, WithBatchPause(time.Hour))
	up.EXPECT().Search(gomock.Any(), gomock.Any()).Return(seqOf()).Times(1)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err := r.BatchSearch(ctx, BatchCriteria{Terms: []string{"a", "b"}, Criteria: testCriteria()})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
