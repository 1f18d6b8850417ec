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

package hotkey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownKey  = errors.New("unknown hotkey")
	ErrUnsupported = errors.New("global hotkeys are not supported on this platform")
)

// Key is an upper case function key name, "F1" to "F12".
type Key string

type Modifier string

const (
	ModCtrl  Modifier = "CTRL"
	ModShift Modifier = "SHIFT"
)

// Binding is a parsed hotkey such as "F11" or "Ctrl+Shift+F9".
type Binding struct {
	Name string
	Key  Key
	Mods []Modifier
}

func isFunctionKey(s string) bool {
	for i := 1; i <= 12; i++ {
		if s == fmt.Sprintf("F%d", i) {
			return true
		}
	}
	return false
}

// ParseBinding parses a key name with optional Ctrl and Shift modifiers.
func ParseBinding(s string) (Binding, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(s)), "+")
	b := Binding{Name: s}

	for i, part := range parts {
		part = strings.TrimSpace(part)
		if i == len(parts)-1 {
			if !isFunctionKey(part) {
				return Binding{}, fmt.Errorf("%w: %q", ErrUnknownKey, s)
			}
			b.Key = Key(part)
			break
		}
		switch mod := Modifier(part); mod {
		case ModCtrl, ModShift:
			b.Mods = append(b.Mods, mod)
		default:
			return Binding{}, fmt.Errorf("%w: modifier %q", ErrUnknownKey, part)
		}
	}
	return b, nil
}

// Listener runs guarded captures in response to hotkey presses.
type Listener struct {
	guard   *Guard
	capture func(ctx context.Context) error
	binding Binding
}

func NewListener(guard *Guard, binding Binding, capture func(ctx context.Context) error) *Listener {
	return &Listener{
		guard:   guard,
		binding: binding,
		capture: capture,
	}
}

// Serve handles presses until ctx is cancelled or presses is closed.
// Capture failures are logged and the listener keeps running.
func (l *Listener) Serve(ctx context.Context, presses <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("hotkey listener stopped")
			return
		case _, ok := <-presses:
			if !ok {
				return
			}
			l.handle(ctx, presses)
		}
	}
}

func (l *Listener) handle(ctx context.Context, presses <-chan struct{}) {
	ran, err := l.guard.Run(
		func() int { return Drain(presses) },
		func() error { return l.capture(ctx) },
	)
	switch {
	case !ran:
		log.Debug().Msg("hotkey capture dropped")
	case err != nil:
		log.Error().Err(err).Msg("hotkey capture failed")
	}
}
