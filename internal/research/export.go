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
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime/trace"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/redditresearch/redditmcp/internal/privacy"
	"github.com/redditresearch/redditmcp/internal/reddit"
)

// Format is the export file format.
type Format uint8

const (
	FormatJSON Format = iota
	FormatCSV
)

const (
	exportPrefix     = "reddit_export_"
	exportTimeLayout = "20060102_150405"
	// exportIDLen is the number of export id characters in the file name,
	// keeping exports made within the same second apart.
	exportIDLen = 8
	previewLen       = 100
)

var (
	ErrBadFormat    = errors.New(`format must be "json" or "csv"`)
	ErrNoThreadIDs  = errors.New("thread_ids must be a non-empty list")
	ErrNoExportFS   = errors.New("export location is not configured")
	ErrNoneExported = errors.New("no threads could be fetched, all thread ids were invalid or inaccessible")
)

// ParseFormat parses the format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatJSON, fmt.Errorf("%w, got %q", ErrBadFormat, s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	default:
		return "Format(" + strconv.Itoa(int(f)) + ")"
	}
}

// ExportRequest are the parameters of an export.
type ExportRequest struct {
	ThreadIDs       []string
	Format          Format
	IncludeMetadata bool
	IncludeComments bool
	// MaxComments is the number of comments per thread when comments are
	// included, zero means DefMaxComments.
	MaxComments int
}

// ExportError is a thread that could not be exported.
type ExportError struct {
	ThreadID string `json:"thread_id"`
	Error    string `json:"error"`
}

// Ethics describes the ethical framework of the data collection.
type Ethics struct {
	Framework         string `json:"framework"`
	DataSource        string `json:"data_source"`
	PrivacyProtection string `json:"privacy_protection"`
	ResearchPurpose   string `json:"research_purpose"`
}

var defEthics = Ethics{
	Framework:         "AoIR Ethics 3.0",
	DataSource:        "Public Reddit posts only",
	PrivacyProtection: "All usernames anonymized with SHA-256",
	ResearchPurpose:   "Academic health communication research",
}

// ExportMetadata describes the export.
type ExportMetadata struct {
	ExportID          string           `json:"export_id"`
	ExportDate        string           `json:"export_date"`
	TotalThreads      int              `json:"total_threads"`
	RequestedThreads  int              `json:"requested_threads"`
	FailedThreads     int              `json:"failed_threads"`
	Anonymization     privacy.Metadata `json:"anonymization"`
	EthicalCompliance Ethics           `json:"ethical_compliance"`
	Errors            []ExportError    `json:"errors,omitempty"`
}

// exportDoc is the JSON export document.
type exportDoc struct {
	Threads  []ThreadDetail  `json:"threads"`
	Metadata *ExportMetadata `json:"metadata,omitempty"`
}

// ExportResult is the outcome of an export.
type ExportResult struct {
	Success   bool   `json:"success"`
	ID        string `json:"export_id"`
	Format    string `json:"format"`
	Path      string `json:"filepath"`
	Exported  int    `json:"threads_exported"`
	Requested int    `json:"threads_requested"`
	SizeBytes int64  `json:"file_size_bytes"`
	Size      string `json:"file_size"`
	Warning   string `json:"warning,omitempty"`
}

// Export fetches the threads and writes them into a single JSON or CSV file
// named after the current time.  Threads that fail to fetch are reported in
// the warning, and it is an error if none could be fetched.  Authors are
// always anonymised.
func (r *Researcher) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	ctx, task := trace.NewTask(ctx, "Export")
	defer task.End()

	if r.exportFS == nil {
		return nil, ErrNoExportFS
	}
	ids := uniqueTerms(req.ThreadIDs)
	if len(ids) == 0 {
		return nil, ErrNoThreadIDs
	}
	if req.Format != FormatJSON && req.Format != FormatCSV {
		return nil, ErrBadFormat
	}
	maxComments := 0
	if req.IncludeComments {
		maxComments = req.MaxComments
		if maxComments <= 0 {
			maxComments = DefMaxComments
		}
	}

	var (
		threads = make([]ThreadDetail, 0, len(ids))
		failed  []ExportError
	)
	for i, id := range ids {
		r.lg.DebugContext(ctx, "research: export fetch", "n", i+1, "of", len(ids), "thread_id", id)
		td, err := r.ThreadDetails(ctx, id, maxComments, reddit.SortTop)
		if err != nil {
			if ctx.Err() != nil {
				return nil, context.Cause(ctx)
			}
			r.lg.WarnContext(ctx, "research: export skipped thread", "thread_id", id, "error", err)
			failed = append(failed, ExportError{ThreadID: id, Error: err.Error()})
			continue
		}
		threads = append(threads, *td)
	}
	if len(threads) == 0 {
		return nil, ErrNoneExported
	}

	now := r.now().UTC()
	id := uuid.New().String()
	var meta *ExportMetadata
	if req.IncludeMetadata {
		meta = &ExportMetadata{
			ExportID:          id,
			ExportDate:        now.Format(time.RFC3339),
			TotalThreads:      len(threads),
			RequestedThreads:  len(ids),
			FailedThreads:     len(failed),
			Anonymization:     r.anon.Metadata(),
			EthicalCompliance: defEthics,
			Errors:            failed,
		}
	}

	var buf bytes.Buffer
	var err error
	switch req.Format {
	case FormatJSON:
		err = writeJSON(&buf, exportDoc{Threads: threads, Metadata: meta})
	case FormatCSV:
		err = writeCSV(&buf, threads, meta)
	}
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	name := exportPrefix + now.Format(exportTimeLayout) + "_" + id[:exportIDLen] + "." + req.Format.String()
	if err := r.exportFS.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("cannot write export file %s: %w", name, err)
	}

	res := &ExportResult{
		Success:   true,
		ID:        id,
		Format:    req.Format.String(),
		Path:      filepath.Join(r.exportLoc, name),
		Exported:  len(threads),
		Requested: len(ids),
		SizeBytes: int64(buf.Len()),
		Size:      humanize.Bytes(uint64(buf.Len())),
	}
	if len(failed) > 0 {
		failedIDs := make([]string, 0, len(failed))
		for _, f := range failed {
			failedIDs = append(failedIDs, f.ThreadID)
		}
		res.Warning = fmt.Sprintf("%d threads could not be fetched. IDs: %s", len(failed), strings.Join(failedIDs, ", "))
	}
	r.lg.InfoContext(ctx, "research: export written", "path", res.Path, "threads", res.Exported, "size", res.Size)
	return res, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var csvHeader = []string{
	"thread_id",
	"subreddit",
	"title",
	"author_hash",
	"created_date",
	"created_utc",
	"score",
	"num_comments",
	"word_count",
	"url",
	"selftext_preview",
}

// writeCSV writes the threads as CSV.  The metadata, if not nil, is written
// as "#" comment lines before the header.
func writeCSV(w io.Writer, threads []ThreadDetail, meta *ExportMetadata) error {
	if meta != nil {
		lines := []string{
			"# Reddit Research Export",
			"# Export ID: " + meta.ExportID,
			"# Export Date: " + meta.ExportDate,
			"# Total Threads: " + strconv.Itoa(meta.TotalThreads),
			fmt.Sprintf("# Anonymization: %s (%d-char hash)", meta.Anonymization.Method, meta.Anonymization.HashLength),
			"# Ethical Framework: " + meta.EthicalCompliance.Framework,
			"#",
		}
		if _, err := io.WriteString(w, strings.Join(lines, "\n")+"\n"); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range threads {
		rec := []string{
			t.ID,
			t.Subreddit,
			t.Title,
			t.Author,
			t.CreatedDate,
			strconv.FormatFloat(t.CreatedUTC, 'f', -1, 64),
			strconv.Itoa(t.Score),
			strconv.Itoa(t.NumComments),
			strconv.Itoa(t.WordCount),
			t.URL,
			preview(t.SelfText, previewLen),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// preview returns the first n runes of s.
func preview(s string, n int) string {
	i := 0
	for j := range s {
		if i == n {
			return s[:j]
		}
		i++
	}
	return s
}
