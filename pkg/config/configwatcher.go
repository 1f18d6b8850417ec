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

package config

import (
	"strings"
	"time"
)

const (
	DefaultSaveExtension = ".dat"
	DefaultSaveDebounce  = 2 * time.Second
)

// Watcher configures save folder monitoring.
type Watcher struct {
	Debounce   *string  `toml:"debounce,omitempty"`
	Extensions []string `toml:"extensions,omitempty"`
}

// SaveDebounce returns the minimum time between two accepted save events.
func (c *Instance) SaveDebounce() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr(c.vals.Watcher.Debounce, DefaultSaveDebounce)
}

// SaveExtensions returns the lower-cased file extensions, with a leading
// dot, that are treated as save files.
func (c *Instance) SaveExtensions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	exts := make([]string, 0, len(c.vals.Watcher.Extensions))
	for _, ext := range c.vals.Watcher.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}

	if len(exts) == 0 {
		return []string{DefaultSaveExtension}
	}
	return exts
}
