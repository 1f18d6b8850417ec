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

package watcher

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/visual-logger/core/pkg/helpers/syncutil"
)

// Gate drops save events that arrive too soon after the last accepted one.
// It is a single gate shared by every watched game.
type Gate struct {
	clock  clockwork.Clock
	last   time.Time
	window time.Duration
	mu     syncutil.Mutex
}

func NewGate(clock clockwork.Clock, window time.Duration) *Gate {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Gate{clock: clock, window: window}
}

// Allow reports whether ev may be processed. Only create and write events
// are eligible. Allow does not record the event; call Mark once it has
// been handled.
func (g *Gate) Allow(ev Event) bool {
	if ev.Op != OpCreate && ev.Op != OpWrite {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last.IsZero() {
		return true
	}
	return g.clock.Since(g.last) > g.window
}

// Mark records now as the last accepted event time.
func (g *Gate) Mark() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = g.clock.Now()
}

// LastAccepted returns the time of the last Mark, or the zero time.
func (g *Gate) LastAccepted() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
