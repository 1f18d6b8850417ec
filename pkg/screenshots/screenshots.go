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

// Package screenshots takes manual screenshots of a tracked game's window.
package screenshots

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/api/notifications"
	"github.com/visual-logger/core/pkg/capture"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/helpers"
)

var (
	ErrNoRunningGame = errors.New("no running game found")
	ErrNoExecutable  = errors.New("game has no executable path")
)

type Deps struct {
	Fs            afero.Fs
	DB            database.UserDBI
	Screen        capture.ScreenCapturer
	Locator       capture.WindowLocator
	Processes     capture.ProcessFinder
	Clock         clockwork.Clock
	Notifications chan<- models.Notification
}

// Capturer saves screenshots into a game's visual-logger screenshots
// folder and records them in the store.
type Capturer struct {
	deps Deps
}

func NewCapturer(deps Deps) *Capturer {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &Capturer{deps: deps}
}

// Capture screenshots the window of the given game, cropped to the window.
// The game's window must be visible.
func (c *Capturer) Capture(gameID string) (*database.Screenshot, error) {
	game, err := c.deps.DB.GetGame(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	if game.ExePath == "" {
		return nil, ErrNoExecutable
	}

	rect, err := c.deps.Locator.FindWindow(game.ExePath)
	if err != nil {
		return nil, fmt.Errorf("failed to locate window of %s: %w", game.Name, err)
	}
	return c.captureGame(&game, &rect)
}

// CaptureRunningGame screenshots the first tracked game with a visible
// window. If no window is found, the first game whose process is running
// is captured full screen.
func (c *Capturer) CaptureRunningGame() (*database.Screenshot, error) {
	games, err := c.deps.DB.GetAllGames()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	for i := range games {
		if games[i].ExePath == "" {
			continue
		}
		rect, err := c.deps.Locator.FindWindow(games[i].ExePath)
		if err == nil {
			return c.captureGame(&games[i], &rect)
		}
		if !errors.Is(err, capture.ErrWindowNotFound) {
			log.Warn().Err(err).Str("game", games[i].Name).Msg("window lookup failed")
		}
	}

	if c.deps.Processes != nil {
		for i := range games {
			if games[i].ExePath != "" && c.deps.Processes.IsRunning(games[i].ExePath) {
				log.Info().Str("game", games[i].Name).Msg("game window not found, capturing full screen")
				return c.captureGame(&games[i], nil)
			}
		}
	}

	return nil, ErrNoRunningGame
}

func (c *Capturer) captureGame(game *database.Game, rect *capture.Rect) (*database.Screenshot, error) {
	frame, err := c.deps.Screen.CaptureScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}

	var img image.Image = frame.Image
	if rect != nil {
		img, err = capture.Crop(frame.Image, *rect, frame.Origin)
		if err != nil {
			return nil, fmt.Errorf("failed to crop screenshot: %w", err)
		}
	}

	now := c.deps.Clock.Now()
	dir := helpers.ScreenshotsDir(game.GameFolder)
	if err := c.deps.Fs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create screenshots folder: %w", err)
	}
	path := filepath.Join(dir, "screenshot_"+helpers.FileTimestamp(now.UTC())+".png")
	if err := capture.SavePNG(c.deps.Fs, path, img); err != nil {
		return nil, err
	}

	shot := &database.Screenshot{
		ID:        uuid.New().String(),
		GameID:    game.ID,
		Name:      game.Name + " " + now.Format(helpers.DisplayLayout),
		ImagePath: path,
		CreatedAt: now,
	}
	if err := c.deps.DB.AddScreenshot(shot); err != nil {
		return nil, fmt.Errorf("failed to save screenshot record: %w", err)
	}
	notifications.ScreenshotCreated(c.deps.Notifications, *shot)

	log.Info().Str("game", game.Name).Str("path", path).Msg("screenshot captured")
	return shot, nil
}
