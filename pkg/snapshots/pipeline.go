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

// Package snapshots turns save file changes into snapshot records: a backup
// copy of the save, a correlated screenshot and the metadata written beside
// them.
package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/corona10/goimagehash"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/api/notifications"
	"github.com/visual-logger/core/pkg/capture"
	"github.com/visual-logger/core/pkg/clipboard"
	"github.com/visual-logger/core/pkg/config"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/helpers"
	"github.com/visual-logger/core/pkg/watcher"
)

// Screenshot sources recorded in metadata.json.
const (
	SourceCacheCropped = "cache_cropped"
	SourceCache        = "cache"
	SourceLive         = "live"
)

// Options are the pipeline tunables.
type Options struct {
	SettleDelay      time.Duration
	MaxFrameAge      time.Duration
	CaptureClipboard bool
}

// Deps are the collaborators a Pipeline uses. Clock, Clipboard and Gate
// are optional.
type Deps struct {
	Fs            afero.Fs
	DB            database.UserDBI
	Cache         *capture.FrameCache
	Capturer      capture.ScreenCapturer
	Locator       capture.WindowLocator
	Clipboard     clipboard.Reader
	Clock         clockwork.Clock
	Gate          *watcher.Gate
	Notifications chan<- models.Notification
}

// Metadata is the structured summary written to metadata.json.
type Metadata struct {
	ID               string `json:"id"`
	GameID           string `json:"game_id"`
	GameName         string `json:"game_name"`
	Timestamp        string `json:"timestamp"`
	DatFile          string `json:"dat_file"`
	DatPath          string `json:"dat_path"`
	ScreenshotSource string `json:"screenshot_source"`
	ScreenshotHash   string `json:"screenshot_phash,omitempty"`
}

// Pipeline creates one snapshot per call to Process. It is not safe for
// concurrent use; the consumer loop runs it serially.
type Pipeline struct {
	deps Deps
	opts Options
}

func NewPipeline(deps Deps, opts Options) *Pipeline {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Clipboard == nil || !opts.CaptureClipboard {
		deps.Clipboard = clipboard.Disabled{}
	}
	return &Pipeline{deps: deps, opts: opts}
}

// Process backs up savePath for game and persists the snapshot record. An
// error before the save copy leaves nothing behind; an error after it
// leaves the backup folder on disk with no record.
func (p *Pipeline) Process(
	ctx context.Context,
	game *database.Game,
	savePath string,
) (*database.Snapshot, error) {
	now := p.deps.Clock.Now()
	id := uuid.New().String()

	folder := filepath.Join(
		helpers.SnapshotsDir(game.GameFolder),
		helpers.SanitizeFilename(game.Name)+"_"+helpers.FolderTimestamp(now.UTC()),
	)
	if err := p.deps.Fs.MkdirAll(folder, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot folder: %w", err)
	}

	if err := p.settle(ctx); err != nil {
		return nil, err
	}

	backupPath, err := helpers.CopyFileInto(p.deps.Fs, savePath, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to back up save file: %w", err)
	}
	log.Debug().Str("backup", backupPath).Msg("save file copied")

	screenshotPath := filepath.Join(folder, config.ScreenshotFile)
	source, err := p.writeScreenshot(game, now, screenshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}

	meta := Metadata{
		ID:               id,
		GameID:           game.ID,
		GameName:         game.Name,
		Timestamp:        now.Format(time.RFC3339),
		DatFile:          filepath.Base(savePath),
		DatPath:          savePath,
		ScreenshotSource: source,
		ScreenshotHash:   p.screenshotHash(screenshotPath),
	}
	if err := p.writeAuxFiles(folder, &meta); err != nil {
		return nil, err
	}

	snap := &database.Snapshot{
		ID:            id,
		GameID:        game.ID,
		Name:          game.Name + " " + now.Format(helpers.DisplayLayout),
		SavePath:      savePath,
		BackupFolder:  folder,
		ImagePath:     screenshotPath,
		ClipboardText: p.readClipboard(),
		CreatedAt:     now,
	}
	if err := p.deps.DB.AddSnapshot(snap); err != nil {
		return nil, fmt.Errorf("failed to save snapshot record: %w", err)
	}

	if p.deps.Gate != nil {
		p.deps.Gate.Mark()
	}
	notifications.SnapshotCreated(p.deps.Notifications, *snap)

	log.Info().
		Str("game", game.Name).
		Str("snapshot", snap.ID).
		Str("source", source).
		Msg("snapshot created")
	return snap, nil
}

func (p *Pipeline) settle(ctx context.Context) error {
	if p.opts.SettleDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("snapshot cancelled before copy: %w", ctx.Err())
	case <-p.deps.Clock.After(p.opts.SettleDelay):
		return nil
	}
}

// writeScreenshot stores the screenshot that best matches the moment of the
// save. It prefers the youngest cached frame, cropped to the game window
// when the window can be found, and falls back to a live capture.
func (p *Pipeline) writeScreenshot(game *database.Game, now time.Time, dst string) (string, error) {
	if p.deps.Cache != nil {
		frame, err := p.deps.Cache.Closest(now, p.opts.MaxFrameAge)
		if err == nil {
			source, err := p.useCachedFrame(game, frame, dst)
			if err == nil {
				return source, nil
			}
			log.Warn().Err(err).Msg("cached frame unusable, falling back to live capture")
		} else if !errors.Is(err, capture.ErrNoFrame) {
			log.Warn().Err(err).Msg("frame cache lookup failed")
		}
	}

	frame, err := p.deps.Capturer.CaptureScreen()
	if err != nil {
		return "", fmt.Errorf("live capture failed: %w", err)
	}
	if err := capture.SavePNG(p.deps.Fs, dst, frame.Image); err != nil {
		return "", err
	}
	return SourceLive, nil
}

func (p *Pipeline) useCachedFrame(game *database.Game, frame capture.CachedFrame, dst string) (string, error) {
	if game.ExePath != "" && p.deps.Locator != nil {
		rect, err := p.deps.Locator.FindWindow(game.ExePath)
		switch {
		case err == nil:
			cropErr := p.cropFrame(frame, rect, dst)
			if cropErr == nil {
				return SourceCacheCropped, nil
			}
			log.Warn().Err(cropErr).Msg("failed to crop cached frame, using whole frame")
		case !errors.Is(err, capture.ErrWindowNotFound):
			log.Warn().Err(err).Str("exe", game.ExePath).Msg("window lookup failed")
		}
	}

	if err := helpers.CopyFile(p.deps.Fs, frame.Path, dst); err != nil {
		return "", err
	}
	return SourceCache, nil
}

func (p *Pipeline) cropFrame(frame capture.CachedFrame, rect capture.Rect, dst string) error {
	img, err := capture.LoadPNG(p.deps.Fs, frame.Path)
	if err != nil {
		return err
	}
	cropped, err := capture.Crop(img, rect, frame.Origin)
	if err != nil {
		return err
	}
	return capture.SavePNG(p.deps.Fs, dst, cropped)
}

func (p *Pipeline) screenshotHash(path string) string {
	img, err := capture.LoadPNG(p.deps.Fs, path)
	if err != nil {
		log.Debug().Err(err).Msg("skipping screenshot hash")
		return ""
	}
	return perceptionHash(img)
}

func perceptionHash(img image.Image) string {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		log.Debug().Err(err).Msg("failed to hash screenshot")
		return ""
	}
	return hash.ToString()
}

func (p *Pipeline) writeAuxFiles(folder string, meta *Metadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := afero.WriteFile(p.deps.Fs, filepath.Join(folder, config.MetadataFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	for _, name := range []string{config.NoteFile, config.ContextFile} {
		if err := afero.WriteFile(p.deps.Fs, filepath.Join(folder, name), nil, 0o644); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("failed to write placeholder file")
		}
	}
	return nil
}

func (p *Pipeline) readClipboard() string {
	text, err := p.deps.Clipboard.ReadText()
	if err != nil {
		if !errors.Is(err, clipboard.ErrEmpty) {
			log.Debug().Err(err).Msg("clipboard read failed")
		}
		return ""
	}
	return text
}
