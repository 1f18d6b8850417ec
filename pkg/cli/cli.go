// Visual Logger
// Copyright (c) 2026 The Visual Logger Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Visual Logger.
//
// Visual Logger is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Visual Logger is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Visual Logger.  If not, see <http://www.gnu.org/licenses/>.

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/internal/telemetry"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/config"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/helpers"
)

var ErrFlagValue = errors.New("flag requires a value")

// Caller sends requests to a running service.
type Caller interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
	WaitNotification(ctx context.Context, timeout time.Duration, methods ...string) (models.Notification, error)
}

type Flags struct {
	API        *string
	Game       *string
	Version    *bool
	Screenshot *bool
	Games      *bool
	Wait       *bool
}

// SetupFlags defines all common CLI flags.
func SetupFlags() *Flags {
	return &Flags{
		API: flag.String(
			"api",
			"",
			"send method and params to API and print response",
		),
		Game: flag.String(
			"game",
			"",
			"game ID used by -screenshot",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
		Screenshot: flag.Bool(
			"screenshot",
			false,
			"take a manual screenshot of -game, or of the running game",
		),
		Games: flag.Bool(
			"games",
			false,
			"list tracked games",
		),
		Wait: flag.Bool(
			"wait",
			false,
			"print the next snapshot or screenshot notification",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre() {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("Visual Logger v%s\n", config.AppVersion)
		os.Exit(0)
	}
}

// Post actions all remaining common flags against a running service and
// exits if one was handled. Logging is allowed.
func (f *Flags) Post(c Caller) {
	handled, err := f.Dispatch(context.Background(), c, os.Stdout)
	if !handled {
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("error running command")
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		telemetry.Flush()
		os.Exit(1)
	}
	os.Exit(0)
}

// Dispatch runs the first command flag that was set and reports whether
// one was.
func (f *Flags) Dispatch(ctx context.Context, c Caller, out io.Writer) (bool, error) {
	switch {
	case isFlagPassed("api"):
		return true, callAPI(ctx, c, out, *f.API)
	case *f.Screenshot:
		return true, takeScreenshot(ctx, c, out, *f.Game)
	case *f.Games:
		return true, listGames(ctx, c, out)
	case *f.Wait:
		return true, waitCreated(ctx, c, out)
	}
	return false, nil
}

// callAPI sends "method" or "method:params" to the API and prints the raw
// result.
func callAPI(ctx context.Context, c Caller, out io.Writer, value string) error {
	if value == "" {
		return fmt.Errorf("api: %w", ErrFlagValue)
	}

	method, params, _ := strings.Cut(value, ":")
	var args any
	if params != "" {
		args = json.RawMessage(params)
	}

	resp, err := c.Call(ctx, method, args)
	if err != nil {
		return fmt.Errorf("error calling API: %w", err)
	}
	_, _ = fmt.Fprintln(out, string(resp))
	return nil
}

func takeScreenshot(ctx context.Context, c Caller, out io.Writer, gameID string) error {
	var params models.NewScreenshotParams
	if gameID != "" {
		params.GameID = &gameID
	}

	resp, err := c.Call(ctx, models.MethodScreenshotsNew, params)
	if err != nil {
		return fmt.Errorf("error taking screenshot: %w", err)
	}

	var shot database.Screenshot
	if err := json.Unmarshal(resp, &shot); err != nil {
		return fmt.Errorf("error decoding screenshot: %w", err)
	}
	_, _ = fmt.Fprintln(out, shot.ImagePath)
	return nil
}

func listGames(ctx context.Context, c Caller, out io.Writer) error {
	resp, err := c.Call(ctx, models.MethodGames, nil)
	if err != nil {
		return fmt.Errorf("error listing games: %w", err)
	}

	var games models.GamesResponse
	if err := json.Unmarshal(resp, &games); err != nil {
		return fmt.Errorf("error decoding games: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tSAVE FOLDER")
	for i := range games.Games {
		g := &games.Games[i]
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", g.ID, g.Name, g.WatchRoot())
	}
	return tw.Flush()
}

func waitCreated(ctx context.Context, c Caller, out io.Writer) error {
	notif, err := c.WaitNotification(
		ctx, 0,
		models.NotificationSnapshotCreated,
		models.NotificationScreenshotCreated,
	)
	if err != nil {
		return fmt.Errorf("error waiting for notification: %w", err)
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", notif.Method, string(notif.Params))
	return nil
}

// Setup initializes the user config and logging. Returns a user config object.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) *config.Instance {
	err := helpers.EnsureDirs(helpers.ConfigDir(), helpers.DataDir())
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error creating directories: %v\n", err)
		os.Exit(1)
	}

	err = helpers.InitLogging(helpers.DataDir(), writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	helpers.SetLogLevel(cfg.DebugLogging())

	if err := telemetry.Init(cfg.ErrorReportingDSN(), config.AppVersion); err != nil {
		log.Warn().Err(err).Msg("error reporting unavailable")
	}
	return cfg
}
