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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/visual-logger/core/pkg/config"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/helpers"
)

func (l *Library) Snapshots(gameID string) ([]database.Snapshot, error) {
	snaps, err := l.deps.DB.GetSnapshots(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshots: %w", err)
	}
	return snaps, nil
}

func (l *Library) Snapshot(id string) (database.Snapshot, error) {
	snap, err := l.deps.DB.GetSnapshot(id)
	if err != nil {
		return database.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return snap, nil
}

// UpdateSnapshot changes the name and/or note of a snapshot. The note is
// also written to the snapshot's note.txt.
func (l *Library) UpdateSnapshot(id string, name, note *string) error {
	if name != nil {
		if err := l.deps.DB.UpdateSnapshotName(id, strings.TrimSpace(*name)); err != nil {
			return fmt.Errorf("failed to rename snapshot: %w", err)
		}
	}
	if note == nil {
		return nil
	}

	if err := l.deps.DB.UpdateSnapshotNote(id, *note); err != nil {
		return fmt.Errorf("failed to update snapshot note: %w", err)
	}
	snap, err := l.deps.DB.GetSnapshot(id)
	if err != nil {
		return fmt.Errorf("failed to get snapshot: %w", err)
	}
	path := filepath.Join(snap.BackupFolder, config.NoteFile)
	if err := afero.WriteFile(l.deps.Fs, path, []byte(*note), 0o644); err != nil {
		return fmt.Errorf("failed to write note file: %w", err)
	}
	return nil
}

// DeleteSnapshot removes a snapshot record and its backup folder.
func (l *Library) DeleteSnapshot(id string) error {
	snap, err := l.deps.DB.GetSnapshot(id)
	if err != nil {
		return fmt.Errorf("failed to get snapshot: %w", err)
	}
	if err := l.deps.DB.DeleteSnapshot(id); err != nil {
		return fmt.Errorf("failed to delete snapshot %q: %w", snap.Name, err)
	}
	if snap.BackupFolder != "" {
		if err := l.deps.Fs.RemoveAll(snap.BackupFolder); err != nil {
			return fmt.Errorf("failed to delete backup of snapshot %q: %w", snap.Name, err)
		}
	}
	return nil
}

// DeleteSnapshots deletes every snapshot in ids, continuing past failures.
// The returned error joins all failures.
func (l *Library) DeleteSnapshots(ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := l.DeleteSnapshot(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RestoreSnapshot copies a snapshot's backed up save file over the
// original save path, creating missing parent folders.
func (l *Library) RestoreSnapshot(id string) (string, error) {
	snap, err := l.deps.DB.GetSnapshot(id)
	if err != nil {
		return "", fmt.Errorf("failed to get snapshot: %w", err)
	}

	src := filepath.Join(snap.BackupFolder, filepath.Base(snap.SavePath))
	info, err := l.deps.Fs.Stat(src)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrBackupMissing, src)
	}

	if err := l.deps.Fs.MkdirAll(filepath.Dir(snap.SavePath), 0o750); err != nil {
		return "", fmt.Errorf("failed to create save folder: %w", err)
	}
	if err := helpers.CopyFile(l.deps.Fs, src, snap.SavePath); err != nil {
		return "", fmt.Errorf("failed to restore save file: %w", err)
	}

	log.Info().Str("snapshot", snap.Name).Str("path", snap.SavePath).Msg("snapshot restored")
	return snap.SavePath, nil
}

func (l *Library) Screenshots(gameID string) ([]database.Screenshot, error) {
	shots, err := l.deps.DB.GetScreenshots(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get screenshots: %w", err)
	}
	return shots, nil
}

func (l *Library) Screenshot(id string) (database.Screenshot, error) {
	shot, err := l.deps.DB.GetScreenshot(id)
	if err != nil {
		return database.Screenshot{}, fmt.Errorf("failed to get screenshot: %w", err)
	}
	return shot, nil
}

// CaptureScreenshot takes a manual screenshot of the game's window.
func (l *Library) CaptureScreenshot(gameID string) (*database.Screenshot, error) {
	if _, err := l.Game(gameID); err != nil {
		return nil, err
	}
	shot, err := l.deps.Screenshots.Capture(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return shot, nil
}

// CaptureRunningScreenshot takes a manual screenshot of the first tracked
// game found running.
func (l *Library) CaptureRunningScreenshot() (*database.Screenshot, error) {
	shot, err := l.deps.Screenshots.CaptureRunningGame()
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return shot, nil
}

func (l *Library) UpdateScreenshot(id string, name, note *string) error {
	if name != nil {
		if err := l.deps.DB.UpdateScreenshotName(id, strings.TrimSpace(*name)); err != nil {
			return fmt.Errorf("failed to rename screenshot: %w", err)
		}
	}
	if note != nil {
		if err := l.deps.DB.UpdateScreenshotNote(id, *note); err != nil {
			return fmt.Errorf("failed to update screenshot note: %w", err)
		}
	}
	return nil
}

// DeleteScreenshot removes a screenshot record and its image file.
func (l *Library) DeleteScreenshot(id string) error {
	shot, err := l.deps.DB.GetScreenshot(id)
	if err != nil {
		return fmt.Errorf("failed to get screenshot: %w", err)
	}
	if err := l.deps.DB.DeleteScreenshot(id); err != nil {
		return fmt.Errorf("failed to delete screenshot: %w", err)
	}
	if helpers.FileExists(l.deps.Fs, shot.ImagePath) {
		if err := l.deps.Fs.Remove(shot.ImagePath); err != nil {
			return fmt.Errorf("failed to delete screenshot file: %w", err)
		}
	}
	return nil
}

func (l *Library) DeleteScreenshots(ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := l.DeleteScreenshot(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ExportScreenshots copies screenshots into dir, naming each file after
// the screenshot's name. Existing files are never overwritten. It returns
// the number of files exported and the joined per-screenshot failures.
func (l *Library) ExportScreenshots(ids []string, dir string) (int, error) {
	if err := l.requireExists(dir, true); err != nil {
		return 0, fmt.Errorf("export folder: %w", err)
	}

	exported := 0
	var errs []error
	for _, id := range ids {
		if err := l.exportScreenshot(id, dir); err != nil {
			errs = append(errs, err)
			continue
		}
		exported++
	}
	return exported, errors.Join(errs...)
}

func (l *Library) exportScreenshot(id, dir string) error {
	shot, err := l.deps.DB.GetScreenshot(id)
	if err != nil {
		return fmt.Errorf("failed to get screenshot: %w", err)
	}
	if !helpers.FileExists(l.deps.Fs, shot.ImagePath) {
		return fmt.Errorf("%w: %s", ErrScreenshotMissing, shot.Name)
	}

	filename := filepath.Base(shot.ImagePath)
	if strings.TrimSpace(shot.Name) != "" {
		ext := filepath.Ext(shot.ImagePath)
		if ext == "" {
			ext = ".png"
		}
		filename = helpers.SanitizeFilename(shot.Name) + ext
	}
	filename = helpers.UniqueFilename(filename, func(name string) bool {
		return helpers.FileExists(l.deps.Fs, filepath.Join(dir, name))
	})

	if err := helpers.CopyFile(l.deps.Fs, shot.ImagePath, filepath.Join(dir, filename)); err != nil {
		return fmt.Errorf("failed to export %s: %w", shot.Name, err)
	}
	return nil
}
