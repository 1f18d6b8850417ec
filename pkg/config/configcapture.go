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
	"fmt"
	"time"
)

const (
	DefaultSampleInterval = 800 * time.Millisecond
	DefaultCacheSize      = 20
	DefaultMaxFrameAge    = 10 * time.Second
	DefaultSettleDelay    = 200 * time.Millisecond
)

// Capture configures the background screen sampler and how cached frames
// are matched to save events.
type Capture struct {
	SampleInterval *string `toml:"sample_interval,omitempty"`
	CacheSize      *int    `toml:"cache_size,omitempty"`
	MaxFrameAge    *string `toml:"max_frame_age,omitempty"`
	SettleDelay    *string `toml:"settle_delay,omitempty"`
	Clipboard      *bool   `toml:"clipboard,omitempty"`
}

// SampleInterval returns the period between background screen captures.
func (c *Instance) SampleInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr(c.vals.Capture.SampleInterval, DefaultSampleInterval)
}

// CacheSize returns the maximum number of frames kept in the rolling cache.
func (c *Instance) CacheSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Capture.CacheSize == nil || *c.vals.Capture.CacheSize < 1 {
		return DefaultCacheSize
	}
	return *c.vals.Capture.CacheSize
}

// MaxFrameAge returns how old a cached frame may be and still be attached
// to a snapshot.
func (c *Instance) MaxFrameAge() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr(c.vals.Capture.MaxFrameAge, DefaultMaxFrameAge)
}

// SettleDelay returns how long to wait after a save event before copying
// the file, so the writer can finish.
func (c *Instance) SettleDelay() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDurationOr(c.vals.Capture.SettleDelay, DefaultSettleDelay)
}

// ClipboardCapture returns true if clipboard text is stored with snapshots.
func (c *Instance) ClipboardCapture() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Capture.Clipboard == nil {
		return true
	}
	return *c.vals.Capture.Clipboard
}

func (c *Instance) SetClipboardCapture(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Capture.Clipboard = &enabled
}

// SetSampleInterval sets the sampling period from a duration string (e.g. "1s").
func (c *Instance) SetSampleInterval(interval string) error {
	d, err := time.ParseDuration(interval)
	if err != nil {
		return fmt.Errorf("invalid sample interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid sample interval: %s", interval)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Capture.SampleInterval = &interval
	return nil
}

func (c *Instance) SetCacheSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Capture.CacheSize = &size
}
