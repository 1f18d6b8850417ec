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

package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/visual-logger/core/pkg/config"
	"github.com/visual-logger/core/pkg/database"
)

var ErrNullSQL = errors.New("UserDB is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000&_foreign_keys=ON"

type UserDB struct {
	sql     *sql.DB
	ctx     context.Context
	dataDir string
}

func OpenUserDB(ctx context.Context, dataDir string) (*UserDB, error) {
	db := &UserDB{sql: nil, dataDir: dataDir, ctx: ctx}
	err := db.Open()
	return db, err
}

func (db *UserDB) Open() error {
	dbPath := db.GetDBPath()
	err := os.MkdirAll(filepath.Dir(dbPath), 0o750)
	if err != nil {
		return fmt.Errorf("failed to create directory for database: %w", err)
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	return db.Allocate()
}

func (db *UserDB) GetDBPath() string {
	return filepath.Join(db.dataDir, config.UserDbFile)
}

func (db *UserDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *UserDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *UserDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *UserDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *UserDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// This method should only be used in tests to set up in-memory databases.
func (db *UserDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB) error {
	db.sql = sqlDB
	db.ctx = ctx
	return db.Allocate()
}

func (db *UserDB) AddGame(g *database.Game) error {
	return sqlAddGame(db.ctx, db.sql, *g)
}

func (db *UserDB) GetGame(id string) (database.Game, error) {
	return sqlGetGame(db.ctx, db.sql, id)
}

func (db *UserDB) GetAllGames() ([]database.Game, error) {
	return sqlGetAllGames(db.ctx, db.sql)
}

func (db *UserDB) UpdateGameCover(id, coverImage string) error {
	return sqlUpdateField(db.ctx, db.sql, "Games", "CoverImage", id, coverImage)
}

func (db *UserDB) DeleteGame(id string) error {
	return sqlDeleteGame(db.ctx, db.sql, id)
}

func (db *UserDB) AddSnapshot(s *database.Snapshot) error {
	return sqlAddSnapshot(db.ctx, db.sql, *s)
}

func (db *UserDB) GetSnapshot(id string) (database.Snapshot, error) {
	return sqlGetSnapshot(db.ctx, db.sql, id)
}

func (db *UserDB) GetSnapshots(gameID string) ([]database.Snapshot, error) {
	return sqlGetSnapshots(db.ctx, db.sql, gameID)
}

func (db *UserDB) UpdateSnapshotName(id, name string) error {
	return sqlUpdateField(db.ctx, db.sql, "Snapshots", "Name", id, name)
}

func (db *UserDB) UpdateSnapshotNote(id, note string) error {
	return sqlUpdateField(db.ctx, db.sql, "Snapshots", "Note", id, note)
}

func (db *UserDB) DeleteSnapshot(id string) error {
	return sqlDeleteByID(db.ctx, db.sql, "Snapshots", id)
}

func (db *UserDB) AddScreenshot(s *database.Screenshot) error {
	return sqlAddScreenshot(db.ctx, db.sql, *s)
}

func (db *UserDB) GetScreenshot(id string) (database.Screenshot, error) {
	return sqlGetScreenshot(db.ctx, db.sql, id)
}

func (db *UserDB) GetScreenshots(gameID string) ([]database.Screenshot, error) {
	return sqlGetScreenshots(db.ctx, db.sql, gameID)
}

func (db *UserDB) UpdateScreenshotName(id, name string) error {
	return sqlUpdateField(db.ctx, db.sql, "Screenshots", "Name", id, name)
}

func (db *UserDB) UpdateScreenshotNote(id, note string) error {
	return sqlUpdateField(db.ctx, db.sql, "Screenshots", "Note", id, note)
}

func (db *UserDB) DeleteScreenshot(id string) error {
	return sqlDeleteByID(db.ctx, db.sql, "Screenshots", id)
}

func (db *UserDB) GetGameStats(gameID string) (database.GameStats, error) {
	return sqlGetGameStats(db.ctx, db.sql, gameID)
}
