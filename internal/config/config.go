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

// Package config holds the server configuration: Reddit credentials, the
// study salt, the transport and the API limits.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rusq/osenv/v2"

	"github.com/redditresearch/redditmcp/internal/privacy"
	"github.com/redditresearch/redditmcp/internal/reddit"
	"github.com/redditresearch/redditmcp/internal/validate"
)

// Environment variables.
const (
	EnvClientID     = "REDDIT_CLIENT_ID"
	EnvClientSecret = "REDDIT_CLIENT_SECRET"
	EnvUsername     = "REDDIT_USERNAME"
	EnvPassword     = "REDDIT_PASSWORD"
	EnvUserAgent    = "REDDIT_USER_AGENT"
	EnvSalt         = "STUDY_SALT"
	EnvExportDir    = "EXPORT_DIR"
	EnvLogFile      = "LOG_FILE"
	EnvTraceFile    = "TRACE_FILE"
	EnvDebug        = "DEBUG"
	EnvTransport    = "MCP_TRANSPORT"
	EnvListen       = "MCP_LISTEN"
)

// secrets are removed from the environment once the flags are set up.
var secrets = []string{EnvClientID, EnvClientSecret, EnvPassword, EnvSalt}

// Transport is the MCP transport.
type Transport string

const (
	TransportStdio Transport = "stdio"
	TransportHTTP  Transport = "http"
)

const (
	DefListenAddr = "127.0.0.1:8483"
	DefExportDir  = "exports"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is the server configuration.
type Config struct {
	Reddit    reddit.Credentials
	UserAgent string `json:"user-agent" validate:"required"`
	Salt      string `json:"salt" validate:"required"`

	Transport  Transport `json:"transport" validate:"oneof=stdio http"`
	ListenAddr string    `json:"listen" validate:"required_if=Transport http,omitempty,hostname_port"`

	LimitsFile string `json:"limits" validate:"omitempty,file"`
	ExportDir  string `json:"export-dir" validate:"required"`

	LogFile      string `json:"log"`
	TraceFile    string `json:"trace"`
	Verbose      bool   `json:"v"`
	PrintVersion bool   `json:"V"`

	Limits Limits
}

// Default returns the configuration with default values.
func Default() Config {
	return Config{
		UserAgent:  reddit.DefUserAgent,
		Salt:       privacy.DefaultSalt,
		Transport:  TransportStdio,
		ListenAddr: DefListenAddr,
		ExportDir:  DefExportDir,
		Limits:     DefLimits,
	}
}

// SetFlags registers the configuration flags on fs.  Default values come
// from the environment.
func (c *Config) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Reddit.ClientID, "client-id", osenv.Secret(EnvClientID, c.Reddit.ClientID), "Reddit application client `id`\n(environment: "+EnvClientID+")")
	fs.StringVar(&c.Reddit.ClientSecret, "client-secret", osenv.Secret(EnvClientSecret, c.Reddit.ClientSecret), "Reddit application client `secret`\n(environment: "+EnvClientSecret+")")
	fs.StringVar(&c.Reddit.Username, "username", osenv.Value(EnvUsername, c.Reddit.Username), "Reddit account `name`, enables the account tools\n(environment: "+EnvUsername+")")
	fs.StringVar(&c.Reddit.Password, "password", osenv.Secret(EnvPassword, c.Reddit.Password), "Reddit account `password`\n(environment: "+EnvPassword+")")
	fs.StringVar(&c.UserAgent, "user-agent", osenv.Value(EnvUserAgent, c.UserAgent), "Reddit API user `agent`")
	fs.StringVar(&c.Salt, "salt", osenv.Secret(EnvSalt, c.Salt), "study `salt` for username anonymisation\n(environment: "+EnvSalt+")")

	fs.Func("transport", "MCP `transport`: stdio or http (default \""+string(c.Transport)+"\")", func(s string) error {
		c.Transport = Transport(strings.ToLower(strings.TrimSpace(s)))
		return nil
	})
	if t := osenv.Value(EnvTransport, ""); t != "" {
		c.Transport = Transport(strings.ToLower(t))
	}
	fs.StringVar(&c.ListenAddr, "listen", osenv.Value(EnvListen, c.ListenAddr), "`address` to listen on with the http transport")

	fs.StringVar(&c.LimitsFile, "limits", "", "TOML `file` with API limits overrides")
	fs.StringVar(&c.ExportDir, "export-dir", osenv.Value(EnvExportDir, c.ExportDir), "`location` (a directory or a ZIP file) for research exports")

	fs.StringVar(&c.LogFile, "log", osenv.Value(EnvLogFile, c.LogFile), "log `file`, if not specified, messages are printed to STDERR")
	fs.StringVar(&c.TraceFile, "trace", osenv.Value(EnvTraceFile, c.TraceFile), "trace `file` (optional)")
	fs.BoolVar(&c.Verbose, "v", osenv.Value(EnvDebug, c.Verbose), "verbose messages")
	fs.BoolVar(&c.PrintVersion, "V", false, "print version and exit")

	for _, s := range secrets {
		os.Unsetenv(s)
	}
}

// Parse parses the command line arguments over the defaults and the
// environment, loads the limits file, if given, and validates the result.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	c := Default()
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.PrintVersion {
		return &c, nil
	}
	if c.LimitsFile != "" {
		l, err := LoadLimits(c.LimitsFile)
		if err != nil {
			return nil, err
		}
		c.Limits = l
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Reddit.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
