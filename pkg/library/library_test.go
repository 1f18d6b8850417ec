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

package library

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/database/userdb"
	testhelpers "github.com/visual-logger/core/pkg/testing/helpers"
)

type fakeWatcher struct {
	watchErr  error
	watched   []string
	unwatched []string
}

func (f *fakeWatcher) Watch(path string) error {
	if f.watchErr != nil {
		return f.watchErr
	}
	f.watched = append(f.watched, path)
	return nil
}

func (f *fakeWatcher) Unwatch(path string) error {
	f.unwatched = append(f.unwatched, path)
	return nil
}

type fakeCapturer struct {
	shot *database.Screenshot
	err  error
}

func (f *fakeCapturer) Capture(string) (*database.Screenshot, error) {
	return f.shot, f.err
}

func (f *fakeCapturer) CaptureRunningGame() (*database.Screenshot, error) {
	return f.shot, f.err
}

type libFixture struct {
	fs      afero.Fs
	db      *userdb.UserDB
	watcher *fakeWatcher
	notifs  chan models.Notification
	lib     *Library
}

func newLibFixture(t *testing.T) *libFixture {
	t.Helper()

	db, cleanup := testhelpers.NewInMemoryUserDB(t)
	t.Cleanup(cleanup)

	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/games/alpha/saves", "/games/beta/saves", "/export"} {
		require.NoError(t, fs.MkdirAll(dir, 0o750))
	}
	for _, exe := range []string{"/games/alpha/alpha.exe", "/games/beta/beta.exe"} {
		require.NoError(t, afero.WriteFile(fs, exe, []byte("MZ"), 0o644))
	}

	f := &libFixture{
		fs:      fs,
		db:      db,
		watcher: &fakeWatcher{},
		notifs:  make(chan models.Notification, 10),
	}
	f.lib = New(Deps{
		Fs:            fs,
		DB:            db,
		Watcher:       f.watcher,
		Screenshots:   &fakeCapturer{err: errors.New("not used")},
		Clock:         clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		Notifications: f.notifs,
	})
	return f
}

func (f *libFixture) addAlpha(t *testing.T) *database.Game {
	t.Helper()
	g, err := f.lib.AddGame(AddGameRequest{
		Name:       "Alpha",
		ExePath:    "/games/alpha/alpha.exe",
		SaveFolder: "/games/alpha/saves",
	})
	require.NoError(t, err)
	return g
}

func TestAddGame(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)

	g := f.addAlpha(t)

	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "/games/alpha", g.GameFolder, "defaults to the executable's folder")
	assert.Equal(t, []string{"/games/alpha/saves"}, f.watcher.watched)

	for _, dir := range []string{
		"/games/alpha/visual-logger/snapshots",
		"/games/alpha/visual-logger/screenshots",
	} {
		ok, err := afero.DirExists(f.fs, dir)
		require.NoError(t, err)
		assert.True(t, ok, dir)
	}

	stored, err := f.lib.Game(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", stored.Name)

	require.Len(t, f.notifs, 1)
	assert.Equal(t, models.NotificationGamesAdded, (<-f.notifs).Method)
}

func TestAddGame_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr error
		req     AddGameRequest
		name    string
	}{
		{
			name:    "empty name",
			req:     AddGameRequest{Name: "  ", ExePath: "/games/beta/beta.exe", SaveFolder: "/games/beta/saves"},
			wantErr: ErrNameRequired,
		},
		{
			name:    "missing executable",
			req:     AddGameRequest{Name: "Beta", ExePath: "/games/beta/nope.exe", SaveFolder: "/games/beta/saves"},
			wantErr: ErrPathNotFound,
		},
		{
			name:    "missing save folder",
			req:     AddGameRequest{Name: "Beta", ExePath: "/games/beta/beta.exe", SaveFolder: "/games/beta/nope"},
			wantErr: ErrPathNotFound,
		},
		{
			name:    "save folder is a file",
			req:     AddGameRequest{Name: "Beta", ExePath: "/games/beta/beta.exe", SaveFolder: "/games/beta/beta.exe"},
			wantErr: ErrNotDirectory,
		},
		{
			name:    "save folder outside game folder",
			req:     AddGameRequest{Name: "Beta", ExePath: "/games/beta/beta.exe", SaveFolder: "/export"},
			wantErr: ErrSaveOutsideRoot,
		},
		{
			name:    "duplicate name",
			req:     AddGameRequest{Name: "Alpha", ExePath: "/games/beta/beta.exe", SaveFolder: "/games/beta/saves"},
			wantErr: ErrDuplicateName,
		},
		{
			name: "duplicate executable",
			req: AddGameRequest{
				Name:       "Beta",
				ExePath:    "/games/alpha/alpha.exe",
				SaveFolder: "/games/beta/saves",
				GameFolder: "/games",
			},
			wantErr: ErrDuplicateExe,
		},
		{
			name: "duplicate save folder",
			req: AddGameRequest{
				Name:       "Beta",
				ExePath:    "/games/beta/beta.exe",
				SaveFolder: "/games/alpha/saves",
				GameFolder: "/games",
			},
			wantErr: ErrDuplicateSave,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newLibFixture(t)
			f.addAlpha(t)

			_, err := f.lib.AddGame(tt.req)
			require.ErrorIs(t, err, tt.wantErr)

			games, err := f.lib.Games()
			require.NoError(t, err)
			assert.Len(t, games, 1)
		})
	}
}

func TestAddGame_WatchFailureRollsBack(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	f.watcher.watchErr = errors.New("too many watches")

	_, err := f.lib.AddGame(AddGameRequest{
		Name:       "Alpha",
		ExePath:    "/games/alpha/alpha.exe",
		SaveFolder: "/games/alpha/saves",
	})
	require.Error(t, err)

	games, err := f.lib.Games()
	require.NoError(t, err)
	assert.Empty(t, games)
	assert.Empty(t, f.notifs)
}

// seedSnapshot creates a snapshot record with a backup folder on disk.
func (f *libFixture) seedSnapshot(t *testing.T, g *database.Game, id string) database.Snapshot {
	t.Helper()
	folder := filepath.Join("/games/alpha/visual-logger/snapshots", "Alpha_"+id)
	require.NoError(t, f.fs.MkdirAll(folder, 0o750))
	require.NoError(t, afero.WriteFile(f.fs, filepath.Join(folder, "slot1.dat"), []byte("backup-"+id), 0o644))
	require.NoError(t, afero.WriteFile(f.fs, filepath.Join(folder, "note.txt"), nil, 0o644))

	s := database.Snapshot{
		ID:           id,
		GameID:       g.ID,
		Name:         "Alpha " + id,
		SavePath:     "/games/alpha/saves/slot1.dat",
		BackupFolder: folder,
		ImagePath:    filepath.Join(folder, "screenshot.png"),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, f.db.AddSnapshot(&s))
	return s
}

func (f *libFixture) seedScreenshot(t *testing.T, g *database.Game, id, name string) database.Screenshot {
	t.Helper()
	path := filepath.Join("/games/alpha/visual-logger/screenshots", "screenshot_"+id+".png")
	require.NoError(t, afero.WriteFile(f.fs, path, []byte("png-"+id), 0o644))

	s := database.Screenshot{
		ID:        id,
		GameID:    g.ID,
		Name:      name,
		ImagePath: path,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.db.AddScreenshot(&s))
	return s
}

func TestDeleteGame_RemovesEverything(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	g := f.addAlpha(t)

	snap := f.seedSnapshot(t, g, "s1")
	shot := f.seedScreenshot(t, g, "c1", "Boss")

	require.NoError(t, f.lib.DeleteGame(g.ID, false))

	exists, err := afero.Exists(f.fs, snap.BackupFolder)
	require.NoError(t, err)
	assert.False(t, exists, "snapshot folder removed")
	exists, err = afero.Exists(f.fs, shot.ImagePath)
	require.NoError(t, err)
	assert.False(t, exists, "screenshot file removed")
	exists, err = afero.DirExists(f.fs, "/games/alpha/visual-logger")
	require.NoError(t, err)
	assert.True(t, exists, "visual-logger kept without the flag")

	_, err = f.lib.Game(g.ID)
	require.ErrorIs(t, err, ErrGameNotFound)
	_, err = f.db.GetSnapshot("s1")
	require.ErrorIs(t, err, database.ErrNotFound)
	_, err = f.db.GetScreenshot("c1")
	require.ErrorIs(t, err, database.ErrNotFound)

	assert.Equal(t, []string{"/games/alpha/saves"}, f.watcher.unwatched)
}

func TestDeleteGame_WithVisualLoggerFolder(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	g := f.addAlpha(t)

	require.NoError(t, f.lib.DeleteGame(g.ID, true))

	exists, err := afero.DirExists(f.fs, "/games/alpha/visual-logger")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = afero.Exists(f.fs, "/games/alpha/alpha.exe")
	require.NoError(t, err)
	assert.True(t, exists, "game files untouched")
}

func TestDeleteGame_Unknown(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	require.ErrorIs(t, f.lib.DeleteGame("missing", false), ErrGameNotFound)
}

func TestUpdateSnapshot(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	g := f.addAlpha(t)
	snap := f.seedSnapshot(t, g, "s1")

	name := " Before the boss "
	note := "low on potions"
	require.NoError(t, f.lib.UpdateSnapshot("s1", &name, &note))

	got, err := f.db.GetSnapshot("s1")
	require.NoError(t, err)
	assert.Equal(t, "Before the boss", got.Name)
	assert.Equal(t, note, got.Note)

	data, err := afero.ReadFile(f.fs, filepath.Join(snap.BackupFolder, "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, note, string(data))
}

func TestDeleteSnapshots_CollectsErrors(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	g := f.addAlpha(t)
	s1 := f.seedSnapshot(t, g, "s1")
	f.seedSnapshot(t, g, "s2")

	err := f.lib.DeleteSnapshots([]string{"s1", "missing", "s2"})
	require.ErrorIs(t, err, database.ErrNotFound)

	snaps, err := f.lib.Snapshots(g.ID)
	require.NoError(t, err)
	assert.Empty(t, snaps)
	exists, err := afero.Exists(f.fs, s1.BackupFolder)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRestoreSnapshot(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	g := f.addAlpha(t)
	f.seedSnapshot(t, g, "s1")
	require.NoError(t, afero.WriteFile(f.fs, "/games/alpha/saves/slot1.dat", []byte("current"), 0o644))

	path, err := f.lib.RestoreSnapshot("s1")
	require.NoError(t, err)
	assert.Equal(t, "/games/alpha/saves/slot1.dat", path)

	data, err := afero.ReadFile(f.fs, path)
	require.NoError(t, err)
	assert.Equal(t, "backup-s1", string(data))
}

func TestRestoreSnapshot_MissingBackup(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	g := f.addAlpha(t)
	snap := f.seedSnapshot(t, g, "s1")
	require.NoError(t, f.fs.RemoveAll(snap.BackupFolder))

	_, err := f.lib.RestoreSnapshot("s1")
	require.ErrorIs(t, err, ErrBackupMissing)
}

func TestExportScreenshots(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	g := f.addAlpha(t)
	f.seedScreenshot(t, g, "c1", "Boss: phase 2")
	f.seedScreenshot(t, g, "c2", "Boss: phase 2")
	f.seedScreenshot(t, g, "c3", "")
	gone := f.seedScreenshot(t, g, "c4", "Gone")
	require.NoError(t, f.fs.Remove(gone.ImagePath))

	n, err := f.lib.ExportScreenshots([]string{"c1", "c2", "c3", "c4"}, "/export")
	require.ErrorIs(t, err, ErrScreenshotMissing)
	assert.Equal(t, 3, n)

	for _, name := range []string{"Boss_ phase 2.png", "Boss_ phase 2 (1).png", "screenshot_c3.png"} {
		exists, existsErr := afero.Exists(f.fs, filepath.Join("/export", name))
		require.NoError(t, existsErr)
		assert.True(t, exists, name)
	}
}

func TestExportScreenshots_BadFolder(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)

	_, err := f.lib.ExportScreenshots([]string{"c1"}, "/nowhere")
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestDeleteScreenshot(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	g := f.addAlpha(t)
	shot := f.seedScreenshot(t, g, "c1", "Boss")

	require.NoError(t, f.lib.DeleteScreenshot("c1"))

	exists, err := afero.Exists(f.fs, shot.ImagePath)
	require.NoError(t, err)
	assert.False(t, exists)
	stats, err := f.lib.GameStats(g.ID)
	require.NoError(t, err)
	assert.Equal(t, database.GameStats{}, stats)
}

func TestCaptureScreenshot_UnknownGame(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)

	_, err := f.lib.CaptureScreenshot("missing")
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestSetGameCover(t *testing.T) {
	t.Parallel()
	f := newLibFixture(t)
	g := f.addAlpha(t)

	require.NoError(t, afero.WriteFile(f.fs, "/games/alpha/cover.png", []byte("png"), 0o644))
	require.NoError(t, f.lib.SetGameCover(g.ID, "/games/alpha/cover.png"))

	got, err := f.lib.Game(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "/games/alpha/cover.png", got.CoverImage)

	require.ErrorIs(t, f.lib.SetGameCover(g.ID, "/games/alpha/missing.png"), ErrPathNotFound)
	require.ErrorIs(t, f.lib.SetGameCover("missing", ""), ErrGameNotFound)

	require.NoError(t, f.lib.SetGameCover(g.ID, ""))
	got, err = f.lib.Game(g.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CoverImage)
}
