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

// Package systray shows the desktop tray menu while the service runs.
package systray

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"

	"fyne.io/systray"
	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/config"
	"github.com/visual-logger/core/pkg/database"
	"github.com/visual-logger/core/pkg/helpers"
)

// Caller sends requests to the running service.
type Caller interface {
	Call(ctx context.Context, method string, params any) (json.RawMessage, error)
}

// ClipboardWriter puts text on the system clipboard.
type ClipboardWriter interface {
	WriteText(text string) error
}

// Menu performs the tray menu actions.
type Menu struct {
	cfg       *config.Instance
	api       Caller
	cmd       helpers.CommandExecutor
	clipboard ClipboardWriter
	configDir string
	dataDir   string
}

func NewMenu(
	cfg *config.Instance,
	api Caller,
	cmd helpers.CommandExecutor,
	clip ClipboardWriter,
	configDir string,
	dataDir string,
) *Menu {
	return &Menu{
		cfg:       cfg,
		api:       api,
		cmd:       cmd,
		clipboard: clip,
		configDir: configDir,
		dataDir:   dataDir,
	}
}

// TakeScreenshot captures the running game and returns the saved path.
func (m *Menu) TakeScreenshot(ctx context.Context) (string, error) {
	resp, err := m.api.Call(ctx, models.MethodScreenshotsNew, models.NewScreenshotParams{})
	if err != nil {
		return "", fmt.Errorf("failed to take screenshot: %w", err)
	}
	var shot database.Screenshot
	if err := json.Unmarshal(resp, &shot); err != nil {
		return "", fmt.Errorf("failed to decode screenshot: %w", err)
	}
	return shot.ImagePath, nil
}

func (m *Menu) EditConfig(ctx context.Context) error {
	return helpers.OpenPath(ctx, m.cmd, filepath.Join(m.configDir, config.CfgFile))
}

func (m *Menu) OpenLog(ctx context.Context) error {
	return helpers.OpenPath(ctx, m.cmd, filepath.Join(m.dataDir, config.LogFile))
}

func (m *Menu) OpenDataDir(ctx context.Context) error {
	return helpers.OpenPath(ctx, m.cmd, m.dataDir)
}

// CopyAddress puts the API address on the clipboard.
func (m *Menu) CopyAddress() (string, error) {
	addr := m.cfg.APIListen()
	if err := m.clipboard.WriteText(addr); err != nil {
		return "", fmt.Errorf("failed to copy address: %w", err)
	}
	return addr, nil
}

func (m *Menu) onReady(icon []byte) func() {
	return func() {
		systray.SetIcon(icon)
		if runtime.GOOS != "darwin" {
			systray.SetTitle("Visual Logger")
		}
		systray.SetTooltip("Visual Logger")

		mScreenshot := systray.AddMenuItem("Take Screenshot", "Screenshot the running game")
		mAddress := systray.AddMenuItem("Address: "+m.cfg.APIListen(), "Copy API address")
		systray.AddSeparator()

		mEditConfig := systray.AddMenuItem("Edit Config", "Edit the config file")
		mOpenLog := systray.AddMenuItem("View Log", "View the log file")
		mOpenDataDir := systray.AddMenuItem("Data (Debug)", "Open the data directory")
		mOpenDataDir.Hide()
		if m.cfg.DebugLogging() {
			mOpenDataDir.Show()
		}

		systray.AddSeparator()
		mVersion := systray.AddMenuItem("Version "+config.AppVersion, "")
		mVersion.Disable()

		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Quit and stop the service")

		go func() {
			ctx := context.Background()
			for {
				select {
				case <-mScreenshot.ClickedCh:
					path, err := m.TakeScreenshot(ctx)
					if err != nil {
						log.Error().Err(err).Msg("tray screenshot failed")
						continue
					}
					log.Info().Str("path", path).Msg("tray screenshot saved")
				case <-mAddress.ClickedCh:
					if _, err := m.CopyAddress(); err != nil {
						log.Error().Err(err).Msg("failed to copy address")
					}
				case <-mEditConfig.ClickedCh:
					if err := m.EditConfig(ctx); err != nil {
						log.Error().Err(err).Msg("failed to open config file")
					}
				case <-mOpenLog.ClickedCh:
					if err := m.OpenLog(ctx); err != nil {
						log.Error().Err(err).Msg("failed to open log file")
					}
				case <-mOpenDataDir.ClickedCh:
					if err := m.OpenDataDir(ctx); err != nil {
						log.Error().Err(err).Msg("failed to open data dir")
					}
				case <-mQuit.ClickedCh:
					systray.Quit()
					return
				}
			}
		}()
	}
}

// Run shows the tray and blocks until Quit is chosen or Stop is called.
func (m *Menu) Run(icon []byte, exit func()) {
	systray.Run(m.onReady(icon), exit)
}

// Stop removes the tray, unblocking Run.
func Stop() {
	systray.Quit()
}
