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

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("text, info level", func(t *testing.T) {
		var buf bytes.Buffer
		lg := New(&buf, false, false)
		lg.Debug("hidden")
		lg.Info("shown", "k", "v")
		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=shown")
		assert.Contains(t, out, "k=v")
	})
	t.Run("debug", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, true, false).Debug("visible")
		assert.Contains(t, buf.String(), "level=DEBUG")
	})
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, false, true).Info("hello", "n", 1)
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, float64(1), rec["n"])
	})
}

func TestSilent(t *testing.T) {
	assert.False(t, Silent.Enabled(t.Context(), slog.LevelError))
}

func BenchmarkSilentInfo(b *testing.B) {
	l := Silent
	for i := 0; b.Loop(); i++ {
		l.Info("hello world", "foo", "bar", "i", i)
	}
}
