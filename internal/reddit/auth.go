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

// In this file: OAuth2 authentication.

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenURL is the Reddit OAuth2 token endpoint.
const TokenURL = "https://www.reddit.com/api/v1/access_token"

var (
	ErrNoClientID     = errors.New("reddit client id is required")
	ErrNoClientSecret = errors.New("reddit client secret is required")
	ErrPartialAccount = errors.New("reddit username and password must be provided together")
)

// Credentials are the Reddit application credentials.  Username and
// Password are optional; without them the client authenticates as the
// application only and account tools are rejected by Reddit.
type Credentials struct {
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	Username     string `validate:"required_with=Password"`
	Password     string `validate:"required_with=Username"`
	// TokenURL overrides the token endpoint, if set.
	TokenURL string `validate:"omitempty,url"`
}

// Validate checks that the mandatory credentials are present.
func (c Credentials) Validate() error {
	if c.ClientID == "" {
		return ErrNoClientID
	}
	if c.ClientSecret == "" {
		return ErrNoClientSecret
	}
	if (c.Username == "") != (c.Password == "") {
		return ErrPartialAccount
	}
	return nil
}

// HasAccount reports whether the credentials carry account login details.
func (c Credentials) HasAccount() bool {
	return c.Username != "" && c.Password != ""
}

func (c Credentials) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return TokenURL
}

// HTTPClient returns an HTTP client that authenticates every request with a
// Reddit OAuth2 token.  With account details it uses the password grant,
// otherwise client credentials.  Tokens are fetched lazily on the first
// request and refreshed when they expire.  timeout is the per-request
// timeout, zero means no timeout.
func (c Credentials) HTTPClient(ctx context.Context, userAgent string, timeout time.Duration) (*http.Client, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if userAgent == "" {
		userAgent = DefUserAgent
	}
	// The token endpoint requires the user agent as well.
	base := &http.Client{
		Transport: &uaTransport{ua: userAgent, rt: http.DefaultTransport},
		Timeout:   timeout,
	}
	ctx = context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, base)

	var ts oauth2.TokenSource
	if c.HasAccount() {
		cfg := &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  c.tokenURL(),
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		}
		// Password grant tokens come without a refresh token, so the
		// source logs in again once the token expires.
		ts = oauth2.ReuseTokenSource(nil, &passwordSource{ctx: ctx, cfg: cfg, user: c.Username, pass: c.Password})
	} else {
		cfg := &clientcredentials.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			TokenURL:     c.tokenURL(),
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		ts = cfg.TokenSource(ctx)
	}
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = timeout
	return hc, nil
}

type passwordSource struct {
	ctx  context.Context
	cfg  *oauth2.Config
	user string
	pass string
}

func (s *passwordSource) Token() (*oauth2.Token, error) {
	return s.cfg.PasswordCredentialsToken(s.ctx, s.user, s.pass)
}

type uaTransport struct {
	ua string
	rt http.RoundTripper
}

func (t *uaTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.ua)
	return t.rt.RoundTrip(r)
}
