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
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when the requested item does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the account has no access to the item.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized is returned when the credentials are rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned when Reddit responds with 429.  The client
	// does not retry.
	ErrRateLimited = errors.New("rate limited")
)

// StatusError is returned for HTTP responses with status 400 and above.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("reddit: %s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is allows matching the StatusError against the package sentinel errors.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrForbidden:
		return e.Code == http.StatusForbidden
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized
	case ErrRateLimited:
		return e.Code == http.StatusTooManyRequests
	}
	return false
}

// APIError is returned when the API accepts the request, but reports errors
// in the "json.errors" field of the response.
type APIError struct {
	Errors [][]string
}

func (e *APIError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, ee := range e.Errors {
		parts = append(parts, strings.Join(ee, ": "))
	}
	return "reddit: api error: " + strings.Join(parts, "; ")
}

// jsonResponse is the envelope returned by endpoints called with
// api_type=json.
type jsonResponse[T any] struct {
	JSON struct {
		Errors [][]string `json:"errors"`
		Data   T          `json:"data"`
	} `json:"json"`
}

func (r *jsonResponse[T]) err() error {
	if len(r.JSON.Errors) == 0 {
		return nil
	}
	return &APIError{Errors: r.JSON.Errors}
}
