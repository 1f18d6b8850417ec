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
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/visual-logger/core/pkg/helpers"
)

// Sampler periodically captures the screen into a FrameCache.
type Sampler struct {
	fs       afero.Fs
	capturer ScreenCapturer
	cache    *FrameCache
	clock    clockwork.Clock
	dir      string
	interval time.Duration
}

func NewSampler(
	fs afero.Fs,
	capturer ScreenCapturer,
	cache *FrameCache,
	clock clockwork.Clock,
	dir string,
	interval time.Duration,
) *Sampler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sampler{
		fs:       fs,
		capturer: capturer,
		cache:    cache,
		clock:    clock,
		dir:      dir,
		interval: interval,
	}
}

// Run samples every interval until ctx is cancelled. Capture failures are
// logged and sampling continues.
func (s *Sampler) Run(ctx context.Context) {
	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		log.Error().Err(err).Str("dir", s.dir).Msg("failed to create frame cache dir")
	}

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info().Msgf("screen sampler started, interval %s", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("screen sampler stopped")
			return
		case <-ticker.Chan():
			if err := s.Sample(); err != nil {
				log.Warn().Err(err).Msg("screen sample failed")
			}
		}
	}
}

// Sample captures one frame and adds it to the cache.
func (s *Sampler) Sample() error {
	now := s.clock.Now()
	frame, err := s.capturer.CaptureScreen()
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, "cache_"+helpers.FileTimestamp(now)+".png")
	if err := SavePNG(s.fs, path, frame.Image); err != nil {
		return fmt.Errorf("failed to store frame: %w", err)
	}

	s.cache.Push(CachedFrame{
		CapturedAt: now,
		Path:       path,
		Origin:     frame.Origin,
	})
	return nil
}
