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

package privacy

import (
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymizer_Username(t *testing.T) {
	tests := []struct {
		name string
		salt string
		user string
		want string
	}{
		{"empty is deleted", DefaultSalt, "", Deleted},
		{"deleted passes through", DefaultSalt, Deleted, Deleted},
		{"removed passes through", DefaultSalt, Removed, Removed},
		{"default salt", DefaultSalt, "testuser", "4e26dfdc99bd"},
		{"custom salt", "pepper", "alice", "6b41d4741283"},
		{"other salt", "other", "alice", "d5221a5762db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.salt)
			assert.Equal(t, tt.want, a.Username(tt.user))
		})
	}
}

func TestAnonymizer_Username_deterministic(t *testing.T) {
	a := New("study")
	for _, u := range []string{"a", "testuser", "Ünïcödé", strings.Repeat("x", 4096)} {
		first := a.Username(u)
		assert.Equal(t, first, a.Username(u), "same input must give the same token")
		assert.Equal(t, first, New("study").Username(u), "token must not depend on the instance")
	}
}

func TestAnonymizer_Username_fixedWidthHex(t *testing.T) {
	a := New(DefaultSalt)
	for _, u := range []string{"a", "bob", "user_with_a_rather_long_name_1234567890", "名前", " "} {
		got := a.Username(u)
		require.Len(t, got, TokenLen, "user %q", u)
		_, err := hex.DecodeString(got)
		assert.NoError(t, err, "token %q is not hex", got)
		assert.NotEqual(t, u, got)
	}
}

func TestAnonymizer_Username_saltChangesToken(t *testing.T) {
	assert.NotEqual(t, New("one").Username("alice"), New("two").Username("alice"))
}

func TestAnonymizer_Username_distinctUsers(t *testing.T) {
	a := New(DefaultSalt)
	seen := make(map[string]string)
	for i := range 1000 {
		u := "user" + strings.Repeat("_", i%7) + string(rune('a'+i%26)) + hex.EncodeToString([]byte{byte(i), byte(i >> 8)})
		tok := a.Username(u)
		if prev, ok := seen[tok]; ok && prev != u {
			t.Fatalf("collision between %q and %q", prev, u)
		}
		seen[tok] = u
	}
}

func TestAnonymizer_concurrent(t *testing.T) {
	a := New(DefaultSalt)
	want := a.Username("testuser")
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got := a.Username("testuser"); got != want {
					t.Errorf("got %q, want %q", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestAnonymizer_Metadata(t *testing.T) {
	md := New("secret-salt").Metadata()
	assert.Equal(t, "SHA-256", md.Method)
	assert.Equal(t, TokenLen, md.HashLength)
	assert.True(t, md.SaltUsed)
	assert.True(t, md.ConsistentHashing)
	assert.NotContains(t, md.Description, "secret-salt")

	assert.False(t, New("").Metadata().SaltUsed)
}
