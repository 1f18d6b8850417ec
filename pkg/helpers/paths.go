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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/visual-logger/core/pkg/config"
)

// NormalizePathForComparison normalizes a path for cross-platform case-insensitive comparison.
// Converts to forward slashes and lowercases for consistent matching across all platforms.
func NormalizePathForComparison(path string) string {
	p := filepath.ToSlash(filepath.Clean(path))
	return strings.ToLower(p)
}

// PathHasPrefix checks if path is within root directory, handling separator boundaries correctly.
// This avoids the prefix bug where "c:/games2/save.dat" would incorrectly match root "c:/games".
func PathHasPrefix(path, root string) bool {
	normPath := NormalizePathForComparison(path)
	normRoot := NormalizePathForComparison(root)

	if normPath == normRoot {
		return true
	}

	if normRoot == "" {
		return false
	}

	// "games" must not match "games2"
	if !strings.HasSuffix(normRoot, "/") {
		normRoot += "/"
	}

	return strings.HasPrefix(normPath, normRoot)
}

// HasExtension reports whether path ends in one of exts. Extensions are
// expected lower-cased with a leading dot.
func HasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// CanonicalPath resolves path to an absolute, symlink-free form. Paths
// that cannot be resolved (for example, because they do not exist) fall
// back to the cleaned absolute path.
func CanonicalPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}

// SamePath reports whether two paths refer to the same location after
// canonicalization and case folding.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return NormalizePathForComparison(CanonicalPath(a)) ==
		NormalizePathForComparison(CanonicalPath(b))
}

var filenameReplacer = strings.NewReplacer(
	":", "_",
	"<", "_",
	">", "_",
	"\"", "_",
	"|", "_",
	"?", "_",
	"*", "_",
	"\\", "_",
	"/", "_",
)

// SanitizeFilename replaces characters that are invalid in file names on
// common filesystems. Empty results become "untitled".
func SanitizeFilename(name string) string {
	s := strings.TrimSpace(filenameReplacer.Replace(name))
	if s == "" {
		return "untitled"
	}
	return s
}

// UniqueFilename returns name unchanged if taken reports false for it,
// otherwise the first "base (n).ext" variant that is free.
func UniqueFilename(name string, taken func(string) bool) string {
	if !taken(name) {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := base + " (" + strconv.Itoa(i) + ")" + ext
		if !taken(candidate) {
			return candidate
		}
	}
}

// VisualLoggerDir returns the per-game working directory inside a game's
// root folder.
func VisualLoggerDir(gameFolder string) string {
	return filepath.Join(gameFolder, config.VisualLoggerDir)
}

// SnapshotsDir returns the directory holding a game's snapshot folders.
func SnapshotsDir(gameFolder string) string {
	return filepath.Join(gameFolder, config.VisualLoggerDir, config.SnapshotsDir)
}

// ScreenshotsDir returns the directory holding a game's manual screenshots.
func ScreenshotsDir(gameFolder string) string {
	return filepath.Join(gameFolder, config.VisualLoggerDir, config.ScreenshotsDir)
}

// ExeDir returns the directory of the running executable.
func ExeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

func DataDir() string {
	return filepath.Join(xdg.DataHome, config.AppName)
}

// FrameCacheDir returns the process-wide directory for sampled frames.
func FrameCacheDir() string {
	return filepath.Join(xdg.CacheHome, config.AppName, config.CacheDir)
}

// EnsureDirs creates every directory in dirs.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
