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

// Package hotkey drives manual screenshot captures from a global hotkey.
package hotkey

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/helpers/syncutil"
)

var ErrCapturePanic = errors.New("capture panicked")

// Guard allows at most one capture at a time and drops requests that
// arrive within the debounce window of the last accepted one. timeMu is
// always taken before flagMu.
type Guard struct {
	clock     clockwork.Clock
	last      time.Time
	debounce  time.Duration
	timeMu    syncutil.Mutex
	flagMu    syncutil.Mutex
	capturing bool
}

func NewGuard(clock clockwork.Clock, debounce time.Duration) *Guard {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Guard{clock: clock, debounce: debounce}
}

// TryClaim moves the guard to capturing and records the capture time. It
// returns false if a capture is in flight or the last one was accepted
// less than the debounce window ago.
func (g *Guard) TryClaim() bool {
	g.timeMu.Lock()
	defer g.timeMu.Unlock()
	g.flagMu.Lock()
	defer g.flagMu.Unlock()

	if g.capturing {
		return false
	}
	if !g.last.IsZero() && g.clock.Since(g.last) < g.debounce {
		return false
	}

	g.capturing = true
	g.last = g.clock.Now()
	return true
}

func (g *Guard) release() {
	g.flagMu.Lock()
	defer g.flagMu.Unlock()
	g.capturing = false
}

// Capturing reports whether a capture is in flight.
func (g *Guard) Capturing() bool {
	g.flagMu.Lock()
	defer g.flagMu.Unlock()
	return g.capturing
}

// LastCapture returns the time of the last accepted capture.
func (g *Guard) LastCapture() time.Time {
	g.timeMu.Lock()
	defer g.timeMu.Unlock()
	return g.last
}

// Run claims the guard and runs capture. After claiming it calls drain to
// discard duplicate requests that queued up meanwhile. The guard is
// released on every exit path, including a panic in capture, which is
// returned as ErrCapturePanic. ran is false when the request was dropped.
func (g *Guard) Run(drain func() int, capture func() error) (ran bool, err error) {
	if !g.TryClaim() {
		return false, nil
	}
	defer g.release()

	if drain != nil {
		if n := drain(); n > 0 {
			log.Debug().Msgf("discarded %d queued capture requests", n)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCapturePanic, r)
		}
	}()
	return true, capture()
}

// Drain empties ch without blocking and returns how many values it
// discarded.
func Drain[T any](ch <-chan T) int {
	n := 0
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}
