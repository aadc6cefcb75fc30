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

package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
	Date  string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Plain int    `validate:"lte=10"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(sample{Name: "x", Date: "2021-06-01"}))
	})
	t.Run("translated", func(t *testing.T) {
		err := Struct(sample{Count: -1, Date: "June 1", Plain: 11})
		var vErr *Error
		require.True(t, errors.As(err, &vErr))
		require.Len(t, vErr.Fields, 4)
		assert.Equal(t, "name is a required field", vErr.Fields["name"])
		assert.Equal(t, "count must be 0 or greater", vErr.Fields["count"])
		assert.Contains(t, vErr.Fields, "date")
		assert.Equal(t, "Plain must be 10 or less", vErr.Fields["Plain"])
		assert.Contains(t, err.Error(), "; ")
	})
	t.Run("not a struct", func(t *testing.T) {
		err := Struct(42)
		require.Error(t, err)
		var vErr *Error
		assert.False(t, errors.As(err, &vErr))
	})
}
