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

package config

import "time"

var AppVersion = "DEVELOPMENT"

const (
	AppName           = "visual-logger"
	UserDbFile        = "library.db"
	LogFile           = "visual-logger.log"
	CfgFile           = "config.toml"
	CacheDir          = "screenshot_cache"
	APIRequestTimeout = 30 * time.Second
)

// Per-game directory layout, relative to the game's root folder.
const (
	VisualLoggerDir = "visual-logger"
	SnapshotsDir    = "snapshots"
	ScreenshotsDir  = "screenshots"
	ScreenshotFile  = "screenshot.png"
	MetadataFile    = "metadata.json"
	NoteFile        = "note.txt"
	ContextFile     = "context.txt"
)
