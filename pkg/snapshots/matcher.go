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
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/helpers"
)

// MatchGame returns the game that owns a changed save file. Files whose
// extension is not in exts never match. A game whose save folder contains
// path wins over any game whose root folder contains it. Files under a
// game's own working directory, where backups are written, never match.
func MatchGame(games []database.Game, path string, exts []string) (database.Game, bool) {
	if !helpers.HasExtension(path, exts) {
		return database.Game{}, false
	}

	for i := range games {
		if games[i].GameFolder != "" &&
			helpers.PathHasPrefix(path, helpers.VisualLoggerDir(games[i].GameFolder)) {
			return database.Game{}, false
		}
	}

	for i := range games {
		if games[i].SaveFolder != "" && helpers.PathHasPrefix(path, games[i].SaveFolder) {
			return games[i], true
		}
	}

	for i := range games {
		if games[i].GameFolder != "" && helpers.PathHasPrefix(path, games[i].GameFolder) {
			return games[i], true
		}
	}

	return database.Game{}, false
}
