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

package helpers

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

var ErrEmptyPath = errors.New("path is empty")

// CommandExecutor provides an abstraction over exec.Command for testability.
type CommandExecutor interface {
	// Start starts a command without waiting for it to complete.
	Start(ctx context.Context, name string, args ...string) error
}

type RealCommandExecutor struct{}

//nolint:wrapcheck // caller adds context
func (*RealCommandExecutor) Start(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Start()
}

// openCommand returns the desktop's default file opener for goos.
func openCommand(goos string) string {
	switch goos {
	case "windows":
		return "explorer"
	case "darwin":
		return "open"
	default:
		return "xdg-open"
	}
}

// OpenPath opens a file or folder with the desktop's default handler. The
// opener is started and not waited on.
func OpenPath(ctx context.Context, cmd CommandExecutor, path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if err := cmd.Start(ctx, openCommand(runtime.GOOS), path); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}
