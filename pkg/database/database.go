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

package database

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a record lookup matches no rows.
var ErrNotFound = errors.New("record not found")

// Database is a portable interface for ENV bindings
type Database struct {
	UserDB UserDBI
}

/*
 * Structs for SQL records
 */

// Game is a registered game whose save folder is being watched. GameFolder
// is the root folder that holds the per-game visual-logger directory.
type Game struct {
	Added      time.Time `json:"added"`
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	GameFolder string    `json:"gameFolderPath"`
	SaveFolder string    `json:"saveFolderPath,omitempty"`
	ExePath    string    `json:"exePath,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
}

// WatchRoot returns the folder that should be monitored for save changes.
func (g *Game) WatchRoot() string {
	if g.SaveFolder != "" {
		return g.SaveFolder
	}
	return g.GameFolder
}

// Snapshot is a backup of one save file change, with the screenshot and
// clipboard text captured alongside it.
type Snapshot struct {
	CreatedAt     time.Time `json:"createdAt"`
	ID            string    `json:"id"`
	GameID        string    `json:"gameId"`
	Name          string    `json:"name"`
	SavePath      string    `json:"originalSavePath"`
	BackupFolder  string    `json:"backupFolderPath"`
	ImagePath     string    `json:"imagePath,omitempty"`
	ClipboardText string    `json:"clipboardText,omitempty"`
	Note          string    `json:"note,omitempty"`
}

// Screenshot is a manual capture triggered by the hotkey or the API.
type Screenshot struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
	GameID    string    `json:"gameId"`
	Name      string    `json:"name"`
	ImagePath string    `json:"imagePath"`
	Note      string    `json:"note,omitempty"`
}

// GameStats holds record counts for a single game.
type GameStats struct {
	Snapshots   int `json:"snapshots"`
	Screenshots int `json:"screenshots"`
}

/*
 * Interfaces for external deps
 */

type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

type UserDBI interface {
	GenericDBI
	AddGame(g *Game) error
	GetGame(id string) (Game, error)
	GetAllGames() ([]Game, error)
	UpdateGameCover(id, coverImage string) error
	DeleteGame(id string) error
	AddSnapshot(s *Snapshot) error
	GetSnapshot(id string) (Snapshot, error)
	GetSnapshots(gameID string) ([]Snapshot, error)
	UpdateSnapshotName(id, name string) error
	UpdateSnapshotNote(id, note string) error
	DeleteSnapshot(id string) error
	AddScreenshot(s *Screenshot) error
	GetScreenshot(id string) (Screenshot, error)
	GetScreenshots(gameID string) ([]Screenshot, error)
	UpdateScreenshotName(id, name string) error
	UpdateScreenshotNote(id, note string) error
	DeleteScreenshot(id string) error
	GetGameStats(gameID string) (GameStats, error)
}
