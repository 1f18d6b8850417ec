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

package models

import (
	"github.com/visual-logger/core/pkg/database"
)

type GamesResponse struct {
	Games []database.Game `json:"games"`
}

type GameStatsResponse struct {
	GameID      string `json:"gameId"`
	Snapshots   int    `json:"snapshots"`
	Screenshots int    `json:"screenshots"`
}

type SnapshotsResponse struct {
	Snapshots []database.Snapshot `json:"snapshots"`
}

type ScreenshotsResponse struct {
	Screenshots []database.Screenshot `json:"screenshots"`
}

type ExportResponse struct {
	Exported int `json:"exported"`
}

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

type GameRemovedPayload struct {
	ID string `json:"id"`
}

type RestoreResponse struct {
	Path string `json:"path"`
}
