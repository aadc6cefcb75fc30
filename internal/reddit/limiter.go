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
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefRequestsPerMinute is Reddit's documented limit for OAuth clients.
	DefRequestsPerMinute = 60
	// DefBurst allows a short burst of requests.
	DefBurst = 5
)

// NewLimiter returns a limiter allowing perMinute requests per minute with
// the given burst.
func NewLimiter(perMinute int, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, max(burst, 1))
	}
	return rate.NewLimiter(rate.Every(every(perMinute)), max(burst, 1))
}

func every(perMinute int) time.Duration {
	return time.Minute / time.Duration(perMinute)
}
