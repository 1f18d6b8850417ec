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

package snapshots

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/watcher"
)

// Processor creates a snapshot for a matched save change.
type Processor interface {
	Process(ctx context.Context, game *database.Game, savePath string) (*database.Snapshot, error)
}

// Consumer applies the debounce gate and game matching to watcher events
// and hands accepted ones to the pipeline, one at a time.
type Consumer struct {
	db        database.UserDBI
	gate      *watcher.Gate
	processor Processor
	exts      func() []string
}

// NewConsumer creates a consumer. exts is called per event so extension
// changes in the config apply without a restart.
func NewConsumer(
	db database.UserDBI,
	gate *watcher.Gate,
	processor Processor,
	exts func() []string,
) *Consumer {
	return &Consumer{
		db:        db,
		gate:      gate,
		processor: processor,
		exts:      exts,
	}
}

// Run handles events until ctx is cancelled or events is closed. A
// snapshot in progress when ctx is cancelled runs to completion; queued
// events are dropped.
func (c *Consumer) Run(ctx context.Context, events <-chan watcher.Event) {
	log.Info().Msg("snapshot consumer started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("snapshot consumer stopped")
			return
		case ev, ok := <-events:
			if !ok {
				log.Debug().Msg("watcher events closed, snapshot consumer stopped")
				return
			}
			c.Handle(context.WithoutCancel(ctx), ev)
		}
	}
}

// Handle processes a single event. It reports whether a snapshot was
// created.
func (c *Consumer) Handle(ctx context.Context, ev watcher.Event) bool {
	if !c.gate.Allow(ev) {
		return false
	}

	games, err := c.db.GetAllGames()
	if err != nil {
		log.Error().Err(err).Msg("failed to load games for save event")
		return false
	}

	game, ok := MatchGame(games, ev.Path, c.exts())
	if !ok {
		log.Debug().Str("path", ev.Path).Msg("save event does not belong to a game")
		return false
	}

	log.Info().Str("game", game.Name).Str("path", ev.Path).Msg("save change detected")
	if _, err := c.processor.Process(ctx, &game, ev.Path); err != nil {
		log.Error().Err(err).Str("game", game.Name).Str("path", ev.Path).Msg("snapshot failed")
		return false
	}
	return true
}
