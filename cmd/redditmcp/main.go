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

// Command redditmcp is the Reddit research MCP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rusq/fsadapter"

	"github.com/redditresearch/redditmcp/internal/cache"
	"github.com/redditresearch/redditmcp/internal/config"
	"github.com/redditresearch/redditmcp/internal/mcp"
	"github.com/redditresearch/redditmcp/internal/privacy"
	"github.com/redditresearch/redditmcp/internal/reddit"
	"github.com/redditresearch/redditmcp/internal/research"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit statuses.
const (
	sOK               = 0
	sApplicationError = 1
	sInvalidParams    = 2
)

// secrets defines the names of the supported secret files that we load our
// secrets from.  Inexperienced windows users might have bad experience trying
// to create .env file with the notepad as it will battle for having the
// "txt" extension.  Let it have it.
var secrets = []string{".env", ".env.txt", "secrets.txt"}

func main() {
	loadSecrets(secrets)

	fs := flag.NewFlagSet(filepath.Base(os.Args[0]), flag.ContinueOnError)
	fs.Usage = usage(fs)
	cfg, err := config.Parse(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(sOK)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(sInvalidParams)
	}
	if cfg.PrintVersion {
		fmt.Printf("%s (commit: %s) built on: %s\n", version, commit, date)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(sApplicationError)
	}
}

func usage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(fs.Output(),
			"Reddit Research MCP server, %s\n\n"+
				"Exposes anonymised Reddit research tools and Reddit account tools over\n"+
				"the Model Context Protocol.  Credentials are read from the environment,\n"+
				"the .env file or the flags.\n\n"+
				"Usage:  %s [flags]\n\n",
			version, fs.Name())
		fs.PrintDefaults()
	}
}

// loadSecrets load secrets from the files in secrets slice.
func loadSecrets(files []string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// run starts the server with the given configuration and blocks until ctx is
// cancelled or the transport fails.
func run(ctx context.Context, cfg *config.Config) error {
	lg, closeLog, err := initLog(cfg.LogFile, isJSONLog(cfg.LogFile), cfg.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	stopTrace := initTrace(cfg.TraceFile)
	defer stopTrace()

	if cfg.Salt == privacy.DefaultSalt {
		lg.WarnContext(ctx, "using the default study salt, set "+config.EnvSalt+" to a secret value for a real study")
	}
	if !cfg.Reddit.HasAccount() {
		lg.InfoContext(ctx, "no Reddit account configured, account tools will fail with an authorisation error")
	}

	srv, cleanup, err := newServer(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer cleanup()

	switch cfg.Transport {
	case config.TransportHTTP:
		return srv.ServeHTTP(ctx, cfg.ListenAddr)
	default:
		return srv.ServeStdio(ctx)
	}
}

// newServer wires the Reddit client, the research service and the MCP
// server.  The returned cleanup function closes the export location.
func newServer(ctx context.Context, cfg *config.Config, lg *slog.Logger) (*mcp.Server, func(), error) {
	hc, err := cfg.Reddit.HTTPClient(ctx, cfg.UserAgent, cfg.Limits.RequestTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("reddit client: %w", err)
	}
	rc := reddit.New(hc,
		reddit.WithUserAgent(cfg.UserAgent),
		reddit.WithLimiter(reddit.NewLimiter(cfg.Limits.RequestsPerMinute, cfg.Limits.Burst)),
		reddit.WithPageSize(cfg.Limits.PageSize),
		reddit.WithLogger(lg),
	)

	srCache, err := cache.New[string, *research.SubredditInfo](cfg.Limits.CacheSize, cfg.Limits.CacheTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("subreddit cache: %w", err)
	}

	fsa, err := fsadapter.New(cfg.ExportDir)
	if err != nil {
		return nil, nil, fmt.Errorf("export location %q: %w", cfg.ExportDir, err)
	}
	cleanup := func() {
		if err := fsa.Close(); err != nil {
			lg.Error("failed to close the export location", "location", cfg.ExportDir, "error", err)
		}
	}

	res := research.New(rc, privacy.New(cfg.Salt),
		research.WithLogger(lg),
		research.WithSubredditCache(srCache),
		research.WithBatchPause(cfg.Limits.BatchPause),
		research.WithExport(fsa, cfg.ExportDir),
	)
	return mcp.New(res, rc, mcp.WithLogger(lg)), cleanup, nil
}
