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
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rusq/fsadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/redditresearch/redditmcp/internal/privacy"
	"github.com/redditresearch/redditmcp/internal/reddit"
	"github.com/redditresearch/redditmcp/internal/research/mock_research"
)

var testNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func newExportResearcher(t *testing.T) (*Researcher, string, *mock_research.MockUpstream) {
	t.Helper()
	dir := t.TempDir()
	r, up := newTestResearcher(t, WithExport(fsadapter.NewDirectory(dir), dir))
	r.now = func() time.Time { return testNow }
	return r, dir, up
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	f, err = ParseFormat(" csv ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrBadFormat)
}

func TestResearcher_Export_json(t *testing.T) {
	r, dir, up := newExportResearcher(t)
	up.EXPECT().Thread(gomock.Any(), "abc", gomock.Any()).Return(testThread(t), nil)
	up.EXPECT().Thread(gomock.Any(), "gone", gomock.Any()).Return(nil, &reddit.StatusError{Code: 404})

	res, err := r.Export(t.Context(), ExportRequest{
		ThreadIDs:       []string{"abc", "gone", "abc"},
		Format:          FormatJSON,
		IncludeMetadata: true,
		IncludeComments: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "json", res.Format)
	assert.Equal(t, 1, res.Exported)
	assert.Equal(t, 2, res.Requested)
	assert.Equal(t, filepath.Join(dir, "reddit_export_20250304_050607_"+res.ID[:8]+".json"), res.Path)
	assert.Contains(t, res.Warning, "gone")
	assert.NotEmpty(t, res.ID)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), res.SizeBytes)
	assert.NotContains(t, string(data), `"bob"`)
	assert.NotContains(t, string(data), testSalt)

	var doc struct {
		Threads  []ThreadDetail `json:"threads"`
		Metadata ExportMetadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Threads, 1)
	assert.Len(t, doc.Threads[0].Comments, 5)
	assert.Equal(t, privacy.New(testSalt).Username("alice"), doc.Threads[0].Author)
	assert.Equal(t, res.ID, doc.Metadata.ExportID)
	assert.Equal(t, "2025-03-04T05:06:07Z", doc.Metadata.ExportDate)
	assert.Equal(t, 1, doc.Metadata.FailedThreads)
	assert.Equal(t, privacy.TokenLen, doc.Metadata.Anonymization.HashLength)
	require.Len(t, doc.Metadata.Errors, 1)
	assert.Equal(t, "gone", doc.Metadata.Errors[0].ThreadID)
}

func TestResearcher_Export_sameSecond(t *testing.T) {
	r, dir, up := newExportResearcher(t)
	up.EXPECT().Thread(gomock.Any(), "abc", gomock.Any()).Return(testThread(t), nil).Times(2)

	req := ExportRequest{ThreadIDs: []string{"abc"}, Format: FormatJSON}
	first, err := r.Export(t.Context(), req)
	require.NoError(t, err)
	second, err := r.Export(t.Context(), req)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestResearcher_Export_csv(t *testing.T) {
	r, _, up := newExportResearcher(t)
	th := testThread(t)
	th.Post.Title = `Title, with "quotes"`
	th.Post.SelfText = strings.Repeat("é", 150)
	up.EXPECT().Thread(gomock.Any(), "abc", reddit.CommentParams{Sort: reddit.SortTop}).Return(th, nil)

	res, err := r.Export(t.Context(), ExportRequest{
		ThreadIDs:       []string{"abc"},
		Format:          FormatCSV,
		IncludeMetadata: true,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Path, "reddit_export_20250304_050607_"+res.ID[:8]+".csv"))
	assert.Empty(t, res.Warning)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	var meta, body []string
	for _, line := range strings.SplitAfter(string(data), "\n") {
		if strings.HasPrefix(line, "#") {
			meta = append(meta, line)
		} else {
			body = append(body, line)
		}
	}
	assert.Contains(t, meta[0], "Reddit Research Export")
	assert.Contains(t, strings.Join(meta, ""), "SHA-256 (12-char hash)")

	recs, err := csv.NewReader(strings.NewReader(strings.Join(body, ""))).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, csvHeader, recs[0])
	assert.Equal(t, "abc", recs[1][0])
	assert.Equal(t, `Title, with "quotes"`, recs[1][2])
	assert.Equal(t, privacy.New(testSalt).Username("alice"), recs[1][3])
	assert.Equal(t, strings.Repeat("é", 100), recs[1][10])
}

func TestResearcher_Export_errors(t *testing.T) {
	t.Run("no ids", func(t *testing.T) {
		r, _, _ := newExportResearcher(t)
		_, err := r.Export(t.Context(), ExportRequest{ThreadIDs: []string{" "}})
		assert.ErrorIs(t, err, ErrNoThreadIDs)
	})
	t.Run("none fetched", func(t *testing.T) {
		r, dir, up := newExportResearcher(t)
		up.EXPECT().Thread(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, &reddit.StatusError{Code: 404}).Times(2)
		_, err := r.Export(t.Context(), ExportRequest{ThreadIDs: []string{"a", "b"}})
		assert.ErrorIs(t, err, ErrNoneExported)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
	t.Run("no filesystem", func(t *testing.T) {
		r, _ := newTestResearcher(t)
		_, err := r.Export(t.Context(), ExportRequest{ThreadIDs: []string{"a"}})
		assert.ErrorIs(t, err, ErrNoExportFS)
	})
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "", preview("", 3))
	assert.Equal(t, "ab", preview("ab", 3))
	assert.Equal(t, "abc", preview("abcdef", 3))
	assert.Equal(t, "жжж", preview("жжжж", 3))
}
