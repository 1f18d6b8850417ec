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

// Package library implements the user-facing operations on games,
// snapshots and screenshots. Every operation returns its failure to the
// caller.
package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/api/notifications"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/helpers"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrNameRequired      = errors.New("game name is required")
	ErrDuplicateName     = errors.New("game name already exists")
	ErrDuplicateExe      = errors.New("executable is already used by another game")
	ErrDuplicateSave     = errors.New("save folder is already used by another game")
	ErrPathNotFound      = errors.New("path does not exist")
	ErrNotDirectory      = errors.New("path is not a directory")
	ErrSaveOutsideRoot   = errors.New("save folder is not inside the game folder")
	ErrBackupMissing     = errors.New("backed up save file is missing")
	ErrScreenshotMissing = errors.New("screenshot file is missing")
)

// WatchController starts and stops save folder monitoring.
type WatchController interface {
	Watch(path string) error
	Unwatch(path string) error
}

// ScreenshotCapturer takes manual screenshots of a specific game or of
// whichever tracked game is running.
type ScreenshotCapturer interface {
	Capture(gameID string) (*database.Screenshot, error)
	CaptureRunningGame() (*database.Screenshot, error)
}

type Deps struct {
	Fs            afero.Fs
	DB            database.UserDBI
	Watcher       WatchController
	Screenshots   ScreenshotCapturer
	Clock         clockwork.Clock
	Notifications chan<- models.Notification
}

type Library struct {
	deps Deps
}

func New(deps Deps) *Library {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &Library{deps: deps}
}

// AddGameRequest describes a game to register. GameFolder defaults to
// the executable's parent directory.
type AddGameRequest struct {
	Name       string
	ExePath    string
	SaveFolder string
	GameFolder string
}

// AddGame validates and registers a game, creates its visual-logger
// folders and starts watching its save folder.
func (l *Library) AddGame(req AddGameRequest) (*database.Game, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	if err := l.requireExists(req.ExePath, false); err != nil {
		return nil, fmt.Errorf("executable: %w", err)
	}
	if err := l.requireExists(req.SaveFolder, true); err != nil {
		return nil, fmt.Errorf("save folder: %w", err)
	}

	gameFolder := req.GameFolder
	if gameFolder == "" {
		gameFolder = filepath.Dir(req.ExePath)
	} else if err := l.requireExists(gameFolder, true); err != nil {
		return nil, fmt.Errorf("game folder: %w", err)
	}
	if !helpers.PathHasPrefix(req.SaveFolder, gameFolder) {
		return nil, fmt.Errorf("%w: %s", ErrSaveOutsideRoot, req.SaveFolder)
	}

	games, err := l.deps.DB.GetAllGames()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}
	for i := range games {
		existing := &games[i]
		switch {
		case existing.Name == name:
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		case existing.ExePath != "" && helpers.SamePath(existing.ExePath, req.ExePath):
			return nil, fmt.Errorf("%w: %q", ErrDuplicateExe, existing.Name)
		case existing.SaveFolder != "" && helpers.SamePath(existing.SaveFolder, req.SaveFolder):
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSave, existing.Name)
		}
	}

	for _, dir := range []string{helpers.SnapshotsDir(gameFolder), helpers.ScreenshotsDir(gameFolder)} {
		if err := l.deps.Fs.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	game := &database.Game{
		ID:         uuid.New().String(),
		Name:       name,
		GameFolder: gameFolder,
		SaveFolder: req.SaveFolder,
		ExePath:    req.ExePath,
		Added:      l.deps.Clock.Now(),
	}
	if err := l.deps.DB.AddGame(game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	if l.deps.Watcher != nil {
		if err := l.deps.Watcher.Watch(game.WatchRoot()); err != nil {
			if delErr := l.deps.DB.DeleteGame(game.ID); delErr != nil {
				log.Error().Err(delErr).Str("game", game.ID).Msg("failed to roll back game")
			}
			return nil, fmt.Errorf("failed to watch %s: %w", game.WatchRoot(), err)
		}
	}

	notifications.GamesAdded(l.deps.Notifications, *game)
	log.Info().Str("game", game.Name).Str("watch", game.WatchRoot()).Msg("game added")
	return game, nil
}

func (l *Library) requireExists(path string, dir bool) error {
	if path == "" {
		return ErrPathNotFound
	}
	info, err := l.deps.Fs.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrPathNotFound, path)
	} else if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if dir && !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return nil
}

func (l *Library) Games() ([]database.Game, error) {
	games, err := l.deps.DB.GetAllGames()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}
	return games, nil
}

func (l *Library) Game(id string) (database.Game, error) {
	game, err := l.deps.DB.GetGame(id)
	if errors.Is(err, database.ErrNotFound) {
		return database.Game{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	} else if err != nil {
		return database.Game{}, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

func (l *Library) GameStats(id string) (database.GameStats, error) {
	stats, err := l.deps.DB.GetGameStats(id)
	if err != nil {
		return database.GameStats{}, fmt.Errorf("failed to get game stats: %w", err)
	}
	return stats, nil
}

// SetGameCover sets the game's cover image. An empty path clears it.
func (l *Library) SetGameCover(id, coverImage string) error {
	if _, err := l.Game(id); err != nil {
		return err
	}
	if coverImage != "" {
		if err := l.requireExists(coverImage, false); err != nil {
			return fmt.Errorf("cover image: %w", err)
		}
	}
	if err := l.deps.DB.UpdateGameCover(id, coverImage); err != nil {
		return fmt.Errorf("failed to update cover image: %w", err)
	}
	return nil
}

// DeleteGame removes a game, its records and their backing files. With
// deleteVisualLogger the game's whole visual-logger folder is removed too.
// File removal is best effort; record removal is not.
func (l *Library) DeleteGame(id string, deleteVisualLogger bool) error {
	game, err := l.Game(id)
	if err != nil {
		return err
	}

	snaps, err := l.deps.DB.GetSnapshots(id)
	if err != nil {
		return fmt.Errorf("failed to get snapshots: %w", err)
	}
	shots, err := l.deps.DB.GetScreenshots(id)
	if err != nil {
		return fmt.Errorf("failed to get screenshots: %w", err)
	}

	for i := range snaps {
		l.removeBestEffort(snaps[i].BackupFolder, true)
	}
	for i := range shots {
		l.removeBestEffort(shots[i].ImagePath, false)
	}
	if deleteVisualLogger {
		l.removeBestEffort(helpers.VisualLoggerDir(game.GameFolder), true)
	}

	if err := l.deps.DB.DeleteGame(id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	if l.deps.Watcher != nil {
		if err := l.deps.Watcher.Unwatch(game.WatchRoot()); err != nil {
			log.Warn().Err(err).Str("path", game.WatchRoot()).Msg("failed to stop watching game")
		}
	}

	notifications.GamesRemoved(l.deps.Notifications, id)
	log.Info().Str("game", game.Name).Msg("game deleted")
	return nil
}

func (l *Library) removeBestEffort(path string, all bool) {
	if path == "" {
		return
	}
	var err error
	if all {
		err = l.deps.Fs.RemoveAll(path)
	} else {
		err = l.deps.Fs.Remove(path)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove file")
	}
}
