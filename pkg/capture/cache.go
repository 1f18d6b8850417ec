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
	"image"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/visual-logger/core/pkg/helpers/syncutil"
)

var ErrNoFrame = errors.New("no cached frame recent enough")

// CachedFrame is a sampled screen image stored on disk.
type CachedFrame struct {
	CapturedAt time.Time
	Path       string
	Origin     image.Point
}

// FrameCache is a bounded FIFO of sampled frames. Evicted frames have their
// backing file deleted.
type FrameCache struct {
	fs       afero.Fs
	frames   []CachedFrame
	capacity int
	mu       syncutil.Mutex
}

func NewFrameCache(fs afero.Fs, capacity int) *FrameCache {
	return &FrameCache{
		fs:       fs,
		capacity: max(capacity, 1),
		frames:   make([]CachedFrame, 0, capacity+1),
	}
}

// Push appends a frame and evicts the oldest ones beyond capacity. Evicted
// files are deleted before the lock is released.
func (c *FrameCache) Push(f CachedFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.frames = append(c.frames, f)
	if over := len(c.frames) - c.capacity; over > 0 {
		for _, old := range c.frames[:over] {
			c.removeFile(old.Path)
		}
		c.frames = append(c.frames[:0], c.frames[over:]...)
	}
}

// Closest returns the frame captured nearest to now whose age does not
// exceed maxAge.
func (c *FrameCache) Closest(now time.Time, maxAge time.Duration) (CachedFrame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var best CachedFrame
	bestAge := time.Duration(-1)
	for _, f := range c.frames {
		age := now.Sub(f.CapturedAt)
		if age < 0 {
			age = -age
		}
		if age > maxAge {
			continue
		}
		if bestAge < 0 || age < bestAge {
			best = f
			bestAge = age
		}
	}

	if bestAge < 0 {
		return CachedFrame{}, ErrNoFrame
	}
	return best, nil
}

func (c *FrameCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// Frames returns a copy of the cached frames, oldest first.
func (c *FrameCache) Frames() []CachedFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CachedFrame, len(c.frames))
	copy(out, c.frames)
	return out
}

// Clear drops every frame and deletes its file.
func (c *FrameCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, f := range c.frames {
		c.removeFile(f.Path)
	}
	c.frames = make([]CachedFrame, 0, c.capacity+1)
}

func (c *FrameCache) removeFile(path string) {
	if err := c.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove cached frame")
	}
}
