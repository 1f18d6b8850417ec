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

import "time"

const (
	DefaultHotkey         = "F11"
	DefaultHotkeyDebounce = 2 * time.Second
)

// Hotkey configures the global manual screenshot key.
type Hotkey struct {
	Enabled  *bool   `toml:"enabled,omitempty"`
	Debounce *string `toml:"debounce,omitempty"`
	Key      string  `toml:"key"`
}

func (c *Instance) HotkeyEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Hotkey.Enabled == nil {
		return true
	}
	return *c.vals.Hotkey.Enabled
}

func (c *Instance) HotkeyKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Hotkey.Key == "" {
		return DefaultHotkey
	}
	return c.vals.Hotkey.Key
}

// HotkeyDebounce returns the minimum time between two manual captures.
func (c *Instance) HotkeyDebounce() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr(c.vals.Hotkey.Debounce, DefaultHotkeyDebounce)
}
