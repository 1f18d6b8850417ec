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

// Package helpers provides testing utilities for database operations.
//
// This package includes a mock implementation of the UserDBI interface and
// helpers for setting up temporary SQLite databases.
//
// Example usage:
//
//	func TestLibrary(t *testing.T) {
//		userDB := helpers.NewMockUserDBI()
//		userDB.On("GetGame", "g1").Return(database.Game{ID: "g1"}, nil)
//
//		err := MyFunction(userDB)
//
//		require.NoError(t, err)
//		userDB.AssertExpectations(t)
//	}
package helpers

import (
	"database/sql"
	"fmt"

	"github.com/stretchr/testify/mock"
	"github.com/visual-logger/core/pkg/database"
)

// MockUserDBI is a mock implementation of the UserDBI interface using testify/mock
type MockUserDBI struct {
	mock.Mock
}

func NewMockUserDBI() *MockUserDBI {
	return &MockUserDBI{}
}

func mockErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("mock UserDBI %s failed: %w", op, err)
}

// GenericDBI methods
func (m *MockUserDBI) Open() error {
	return mockErr("open", m.Called().Error(0))
}

func (m *MockUserDBI) UnsafeGetSQLDb() *sql.DB {
	args := m.Called()
	if db, ok := args.Get(0).(*sql.DB); ok {
		return db
	}
	return nil
}

func (m *MockUserDBI) Allocate() error {
	return mockErr("allocate", m.Called().Error(0))
}

func (m *MockUserDBI) MigrateUp() error {
	return mockErr("migrate up", m.Called().Error(0))
}

func (m *MockUserDBI) Vacuum() error {
	return mockErr("vacuum", m.Called().Error(0))
}

func (m *MockUserDBI) Close() error {
	return mockErr("close", m.Called().Error(0))
}

func (m *MockUserDBI) GetDBPath() string {
	return m.Called().String(0)
}

// UserDBI methods
func (m *MockUserDBI) AddGame(g *database.Game) error {
	return mockErr("add game", m.Called(g).Error(0))
}

func (m *MockUserDBI) GetGame(id string) (database.Game, error) {
	args := m.Called(id)
	g, _ := args.Get(0).(database.Game)
	return g, mockErr("get game", args.Error(1))
}

func (m *MockUserDBI) GetAllGames() ([]database.Game, error) {
	args := m.Called()
	games, _ := args.Get(0).([]database.Game)
	return games, mockErr("get all games", args.Error(1))
}

func (m *MockUserDBI) UpdateGameCover(id, coverImage string) error {
	return mockErr("update game cover", m.Called(id, coverImage).Error(0))
}

func (m *MockUserDBI) DeleteGame(id string) error {
	return mockErr("delete game", m.Called(id).Error(0))
}

func (m *MockUserDBI) AddSnapshot(s *database.Snapshot) error {
	return mockErr("add snapshot", m.Called(s).Error(0))
}

func (m *MockUserDBI) GetSnapshot(id string) (database.Snapshot, error) {
	args := m.Called(id)
	s, _ := args.Get(0).(database.Snapshot)
	return s, mockErr("get snapshot", args.Error(1))
}

func (m *MockUserDBI) GetSnapshots(gameID string) ([]database.Snapshot, error) {
	args := m.Called(gameID)
	list, _ := args.Get(0).([]database.Snapshot)
	return list, mockErr("get snapshots", args.Error(1))
}

func (m *MockUserDBI) UpdateSnapshotName(id, name string) error {
	return mockErr("update snapshot name", m.Called(id, name).Error(0))
}

func (m *MockUserDBI) UpdateSnapshotNote(id, note string) error {
	return mockErr("update snapshot note", m.Called(id, note).Error(0))
}

func (m *MockUserDBI) DeleteSnapshot(id string) error {
	return mockErr("delete snapshot", m.Called(id).Error(0))
}

func (m *MockUserDBI) AddScreenshot(s *database.Screenshot) error {
	return mockErr("add screenshot", m.Called(s).Error(0))
}

func (m *MockUserDBI) GetScreenshot(id string) (database.Screenshot, error) {
	args := m.Called(id)
	s, _ := args.Get(0).(database.Screenshot)
	return s, mockErr("get screenshot", args.Error(1))
}

func (m *MockUserDBI) GetScreenshots(gameID string) ([]database.Screenshot, error) {
	args := m.Called(gameID)
	list, _ := args.Get(0).([]database.Screenshot)
	return list, mockErr("get screenshots", args.Error(1))
}

func (m *MockUserDBI) UpdateScreenshotName(id, name string) error {
	return mockErr("update screenshot name", m.Called(id, name).Error(0))
}

func (m *MockUserDBI) UpdateScreenshotNote(id, note string) error {
	return mockErr("update screenshot note", m.Called(id, note).Error(0))
}

func (m *MockUserDBI) DeleteScreenshot(id string) error {
	return mockErr("delete screenshot", m.Called(id).Error(0))
}

func (m *MockUserDBI) GetGameStats(gameID string) (database.GameStats, error) {
	args := m.Called(gameID)
	stats, _ := args.Get(0).(database.GameStats)
	return stats, mockErr("get game stats", args.Error(1))
}

// SnapshotMatcher matches any *database.Snapshot argument.
func SnapshotMatcher() any {
	return mock.AnythingOfType("*database.Snapshot")
}

// ScreenshotMatcher matches any *database.Screenshot argument.
func ScreenshotMatcher() any {
	return mock.AnythingOfType("*database.Screenshot")
}
