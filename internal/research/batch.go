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
	"fmt"
	"runtime/trace"
	"strings"
	"time"
)

// DefThreadsPerTerm is the default number of threads per batch term.
const DefThreadsPerTerm = 20

var ErrNoTerms = errors.New("at least one search term is required")

// BatchCriteria are the parameters of a batch search.  Every term is
// searched with the shared criteria; Criteria.Term is ignored and
// Criteria.MaxResults is the number of threads per term.
type BatchCriteria struct {
	Terms []string
	Criteria
}

// TermResult is the outcome of the search for a single term.
type TermResult struct {
	Success bool     `json:"success"`
	Count   int      `json:"count,omitempty"`
	Threads []Thread `json:"threads,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// TermError is a failed batch term.
type TermError struct {
	Term  string `json:"medication"`
	Error string `json:"error"`
}

// BatchResult is the result of a batch search.
type BatchResult struct {
	Success      bool                  `json:"success"`
	TotalTerms   int                   `json:"total_medications"`
	Completed    int                   `json:"completed"`
	Failed       int                   `json:"failed"`
	TotalThreads int                   `json:"total_threads"`
	Results      map[string]TermResult `json:"medications"`
	Errors       []TermError           `json:"errors"`
	Message      string                `json:"message"`
}

// uniqueTerms returns the trimmed non-empty terms without duplicates, in the
// order of their first occurrence.
func uniqueTerms(tt []string) []string {
	seen := make(map[string]struct{}, len(tt))
	out := make([]string, 0, len(tt))
	for _, t := range tt {
		t = strings.TrimSpace(t)
		if _, ok := seen[t]; ok || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// BatchSearch runs [Researcher.Search] for each term, one after another,
// pausing between the terms to stay within the rate limit.  A failing term
// is recorded and the batch continues.  Invalid shared criteria fail the
// whole batch before any request is made.  Cancelling the context stops the
// batch with an error.
func (r *Researcher) BatchSearch(ctx context.Context, bc BatchCriteria) (*BatchResult, error) {
	ctx, task := trace.NewTask(ctx, "BatchSearch")
	defer task.End()

	terms := uniqueTerms(bc.Terms)
	if len(terms) == 0 {
		return nil, ErrNoTerms
	}
	// validate the shared part once.
	probe := bc.Criteria
	probe.Term = terms[0]
	if err := probe.Validate(); err != nil {
		return nil, err
	}

	res := &BatchResult{
		Success:    true,
		TotalTerms: len(terms),
		Results:    make(map[string]TermResult, len(terms)),
		Errors:     []TermError{},
	}
	lg := r.lg.With("batch_size", len(terms))
	for i, term := range terms {
		lg.InfoContext(ctx, "research: batch search", "n", i+1, "term", term)
		c := bc.Criteria
		c.Term = term
		sr, err := r.Search(ctx, c)
		if err != nil {
			if ctx.Err() != nil {
				return nil, context.Cause(ctx)
			}
			lg.WarnContext(ctx, "research: batch term failed", "term", term, "error", err)
			res.Results[term] = TermResult{Success: false, Error: err.Error()}
			res.Errors = append(res.Errors, TermError{Term: term, Error: err.Error()})
			res.Failed++
		} else {
			res.Results[term] = TermResult{Success: true, Count: sr.Count, Threads: sr.Threads}
			res.TotalThreads += sr.Count
			res.Completed++
		}
		if i < len(terms)-1 {
			if err := r.pause(ctx); err != nil {
				return nil, err
			}
		}
	}
	if res.Failed > 0 {
		failed := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			failed = append(failed, e.Term)
		}
		res.Message = fmt.Sprintf("Completed %d/%d medications. Failed: %s", res.Completed, res.TotalTerms, strings.Join(failed, ", "))
	} else {
		res.Message = fmt.Sprintf("Successfully searched all %d medications. Found %d total threads.", res.TotalTerms, res.TotalThreads)
	}
	return res, nil
}

func (r *Researcher) pause(ctx context.Context) error {
	if r.batchPause <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.batchPause)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-t.C:
		return nil
	}
}
