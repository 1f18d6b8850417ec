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

// Package sqlmock sets up go-sqlmock for the library database tests. It is
// kept apart from the helpers package to avoid an import cycle with
// userdb.
package sqlmock

import (
	"database/sql"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
)

// Column orders returned by the library's select statements.
var (
	GameColumns = []string{
		"ID", "Name", "GameFolder", "SaveFolder", "ExePath", "CoverImage", "Added",
	}
	SnapshotColumns = []string{
		"ID", "GameID", "Name", "SavePath", "BackupFolder",
		"ImagePath", "ClipboardText", "Note", "CreatedAt",
	}
)

// NewSQLMock returns a mock connection that matches queries as regular
// expressions.
func NewSQLMock() (*sql.DB, sqlmock.Sqlmock, error) {
	db, mockDB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sqlmock: %w", err)
	}
	return db, mockDB, nil
}
