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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/internal/telemetry"
	"github.com/visual-logger/core/pkg/api/client"
	"github.com/visual-logger/core/pkg/assets"
	"github.com/visual-logger/core/pkg/cli"
	"github.com/visual-logger/core/pkg/clipboard"
	"github.com/visual-logger/core/pkg/config"
	"github.com/visual-logger/core/pkg/helpers"
	"github.com/visual-logger/core/pkg/service"
	"github.com/visual-logger/core/pkg/ui/systray"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags()
	daemonMode := flag.Bool(
		"daemon",
		false,
		"run service in foreground with no tray icon",
	)

	flags.Pre()

	var logWriters []io.Writer
	if *daemonMode {
		logWriters = []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}}
	}

	cfg := cli.Setup(config.BaseDefaults, logWriters)
	defer telemetry.Close()

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Error().Msgf("panic: %v", err)
			telemetry.Close()
			os.Exit(1)
		}
	}()

	api := client.NewLocal(cfg)
	flags.Post(api)

	if api.IsServiceRunning(context.Background()) {
		return errors.New("visual logger is already running")
	}

	stopSvc, done, err := service.Start(cfg)
	if err != nil {
		log.Error().Msgf("error starting service: %s", err)
		return fmt.Errorf("error starting service: %w", err)
	}

	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if *daemonMode {
		log.Info().Msg("started in daemon mode")
		select {
		case <-ctx.Done():
		case <-done:
		}
	} else {
		menu := systray.NewMenu(
			cfg,
			api,
			&helpers.RealCommandExecutor{},
			clipboard.NewSystem(),
			helpers.ConfigDir(),
			helpers.DataDir(),
		)
		go func() {
			select {
			case <-ctx.Done():
			case <-done:
			}
			systray.Stop()
		}()
		menu.Run(assets.TrayIcon(), func() {
			log.Info().Msg("tray closed")
		})
	}

	if err := stopSvc(); err != nil {
		log.Error().Msgf("error stopping service: %s", err)
		return fmt.Errorf("error stopping service: %w", err)
	}
	return nil
}
