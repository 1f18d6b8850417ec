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

package capture

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrWindowNotFound = errors.New("game window not found")

// Rect is a window rectangle in virtual screen coordinates.
type Rect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// WindowLocator finds the on-screen rectangle of the first visible
// top-level window owned by a process running the given executable.
// Not finding a window is a normal outcome and returns ErrWindowNotFound.
type WindowLocator interface {
	FindWindow(exePath string) (Rect, error)
}

// NormalizeExePath folds an executable path for comparison with paths
// reported by the OS.
func NormalizeExePath(p string) string {
	if p == "" {
		return ""
	}
	return strings.ToLower(filepath.ToSlash(strings.ReplaceAll(p, `\`, "/")))
}
