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

package service

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/visual-logger/core/pkg/api"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/capture"
	"github.com/visual-logger/core/pkg/clipboard"
	"github.com/visual-logger/core/pkg/config"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/database/userdb"
	"github.com/visual-logger/core/pkg/helpers"
	"github.com/visual-logger/core/pkg/hotkey"
	"github.com/visual-logger/core/pkg/library"
	"github.com/visual-logger/core/pkg/screenshots"
	"github.com/visual-logger/core/pkg/service/broker"
	"github.com/visual-logger/core/pkg/service/publishers"
	"github.com/visual-logger/core/pkg/snapshots"
	"github.com/visual-logger/core/pkg/watcher"
	"golang.org/x/sync/errgroup"
)

const notificationBuffer = 100

// Env holds the OS-facing collaborators of the service. Zero fields are
// replaced with the real implementations.
type Env struct {
	Fs        afero.Fs
	Clock     clockwork.Clock
	Screen    capture.ScreenCapturer
	Locator   capture.WindowLocator
	Processes capture.ProcessFinder
	Clipboard clipboard.Reader
	// Listener overrides the API listen address from the config.
	Listener net.Listener
	DataDir  string
	CacheDir string
}

func (e *Env) fill() {
	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}
	if e.Clock == nil {
		e.Clock = clockwork.NewRealClock()
	}
	if e.Screen == nil {
		e.Screen = capture.NewDisplayCapturer()
	}
	if e.Locator == nil {
		e.Locator = capture.NewWindowLocator()
	}
	if e.Processes == nil {
		e.Processes = capture.NewProcessFinder()
	}
	if e.Clipboard == nil {
		e.Clipboard = clipboard.NewSystem()
	}
	if e.DataDir == "" {
		e.DataDir = helpers.DataDir()
	}
	if e.CacheDir == "" {
		e.CacheDir = helpers.FrameCacheDir()
	}
}

func setupEnvironment(env *Env) error {
	log.Info().Msg("creating service directories")
	for _, dir := range []string{env.DataDir, env.CacheDir} {
		if err := env.Fs.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func makeDatabase(ctx context.Context, dataDir string) (*userdb.UserDB, error) {
	log.Debug().Msg("opening user database")
	db, err := userdb.OpenUserDB(ctx, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}

	log.Debug().Msg("running user database migrations")
	if err := db.MigrateUp(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing user database")
		}
		return nil, fmt.Errorf("error migrating userdb: %w", err)
	}
	return db, nil
}

// watchGames starts monitoring every registered game. A game whose folder
// can't be watched is logged and skipped.
func watchGames(db database.UserDBI, w *watcher.Watcher) {
	games, err := db.GetAllGames()
	if err != nil {
		log.Error().Err(err).Msg("error loading games to watch")
		return
	}
	for i := range games {
		root := games[i].WatchRoot()
		if err := w.Watch(root); err != nil {
			log.Error().Err(err).Str("game", games[i].Name).Str("path", root).Msg("failed to watch game")
			continue
		}
		log.Info().Str("game", games[i].Name).Str("path", root).Msg("watching game")
	}
}

// Start runs the service with the real OS collaborators.
func Start(cfg *config.Instance) (stop func() error, done <-chan struct{}, err error) {
	return StartEnv(cfg, Env{})
}

// StartEnv opens the library, starts monitoring every game and serves the
// API. It returns once the service is ready. stop shuts everything down
// and waits for it; done is closed when the service has exited, either
// through stop or because a component failed.
func StartEnv(cfg *config.Instance, env Env) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)
	env.fill()

	if err := setupEnvironment(&env); err != nil {
		log.Error().Err(err).Msg("error setting up environment")
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	log.Info().Msg("opening database")
	db, err := makeDatabase(ctx, env.DataDir)
	if err != nil {
		cancel()
		log.Error().Err(err).Msg("error opening database")
		return nil, nil, err
	}

	ln := env.Listener
	if ln == nil {
		ln, err = (&net.ListenConfig{}).Listen(ctx, "tcp", cfg.APIListen())
		if err != nil {
			cancel()
			closeDatabase(db)
			return nil, nil, fmt.Errorf("failed to listen on %s: %w", cfg.APIListen(), err)
		}
	}

	w, err := watcher.New(env.Clock)
	if err != nil {
		cancel()
		closeDatabase(db)
		if closeErr := ln.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing api listener")
		}
		return nil, nil, fmt.Errorf("failed to start save watcher: %w", err)
	}

	ns := make(chan models.Notification, notificationBuffer)
	notifBroker := broker.NewBroker(ns)
	apiNotifications := notifBroker.Subscribe(notificationBuffer)

	gate := watcher.NewGate(env.Clock, cfg.SaveDebounce())
	cache := capture.NewFrameCache(env.Fs, cfg.CacheSize())
	sampler := capture.NewSampler(env.Fs, env.Screen, cache, env.Clock, env.CacheDir, cfg.SampleInterval())

	pipeline := snapshots.NewPipeline(snapshots.Deps{
		Fs:            env.Fs,
		DB:            db,
		Cache:         cache,
		Capturer:      env.Screen,
		Locator:       env.Locator,
		Clipboard:     env.Clipboard,
		Clock:         env.Clock,
		Gate:          gate,
		Notifications: ns,
	}, snapshots.Options{
		SettleDelay:      cfg.SettleDelay(),
		MaxFrameAge:      cfg.MaxFrameAge(),
		CaptureClipboard: cfg.ClipboardCapture(),
	})
	consumer := snapshots.NewConsumer(db, gate, pipeline, cfg.SaveExtensions)

	shots := screenshots.NewCapturer(screenshots.Deps{
		Fs:            env.Fs,
		DB:            db,
		Screen:        env.Screen,
		Locator:       env.Locator,
		Processes:     env.Processes,
		Clock:         env.Clock,
		Notifications: ns,
	})

	lib := library.New(library.Deps{
		Fs:            env.Fs,
		DB:            db,
		Watcher:       w,
		Screenshots:   shots,
		Clock:         env.Clock,
		Notifications: ns,
	})

	log.Info().Msg("starting save watchers")
	watchGames(db, w)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return notifBroker.Run(gctx)
	})

	log.Info().Msg("starting screen sampler")
	g.Go(func() error {
		sampler.Run(gctx)
		return nil
	})

	log.Info().Msg("starting snapshot consumer")
	g.Go(func() error {
		consumer.Run(gctx, w.Events())
		return nil
	})

	if cfg.HotkeyEnabled() {
		startHotkey(gctx, g, cfg, env.Clock, shots)
	}

	startPublishers(gctx, g, cfg, notifBroker)

	log.Info().Msg("starting API service")
	server := api.NewServer(cfg, lib, env.Fs)
	g.Go(func() error {
		return server.Serve(gctx, ln, apiNotifications.C)
	})

	doneCh := make(chan struct{})
	go func() {
		err := g.Wait()
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("service component failed")
		}
		log.Info().Msg("service context cancelled, running cleanup")

		if err := w.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing save watcher")
		}
		cache.Clear()
		closeDatabase(db)

		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		cancel()
		<-doneCh
		return nil
	}
	return stop, doneCh, nil
}

// startHotkey runs the manual screenshot hotkey. Registration failures
// are logged and the rest of the service keeps running.
func startHotkey(
	ctx context.Context,
	g *errgroup.Group,
	cfg *config.Instance,
	clock clockwork.Clock,
	shots *screenshots.Capturer,
) {
	binding, err := hotkey.ParseBinding(cfg.HotkeyKey())
	if err != nil {
		log.Error().Err(err).Str("key", cfg.HotkeyKey()).Msg("invalid screenshot hotkey")
		return
	}

	guard := hotkey.NewGuard(clock, cfg.HotkeyDebounce())
	listener := hotkey.NewListener(guard, binding, func(context.Context) error {
		_, err := shots.CaptureRunningGame()
		return err
	})

	log.Info().Str("key", binding.Name).Msg("starting screenshot hotkey")
	g.Go(func() error {
		if err := listener.Run(ctx); err != nil {
			log.Error().Err(err).Msg("screenshot hotkey unavailable")
		}
		return nil
	})
}

// startPublishers forwards notifications to each configured MQTT broker.
// A publisher that fails is logged and does not stop the service.
func startPublishers(ctx context.Context, g *errgroup.Group, cfg *config.Instance, b *broker.Broker) {
	for _, pubCfg := range cfg.MQTTPublishers() {
		pub := publishers.NewMQTTPublisher(pubCfg)
		sub := b.Subscribe(notificationBuffer)
		log.Info().Str("broker", pubCfg.Broker).Str("topic", pubCfg.Topic).Msg("starting mqtt publisher")
		g.Go(func() error {
			defer sub.Close()
			if err := pub.Run(ctx, sub.C); err != nil {
				log.Error().Err(err).Str("broker", pubCfg.Broker).Msg("mqtt publisher stopped")
			}
			return nil
		})
	}
}

func closeDatabase(db *userdb.UserDB) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing user database")
	}
}
