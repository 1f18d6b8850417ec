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

//go:build windows

package hotkey

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.design/x/hotkey"
)

var osKeys = map[Key]hotkey.Key{
	"F1":  hotkey.KeyF1,
	"F2":  hotkey.KeyF2,
	"F3":  hotkey.KeyF3,
	"F4":  hotkey.KeyF4,
	"F5":  hotkey.KeyF5,
	"F6":  hotkey.KeyF6,
	"F7":  hotkey.KeyF7,
	"F8":  hotkey.KeyF8,
	"F9":  hotkey.KeyF9,
	"F10": hotkey.KeyF10,
	"F11": hotkey.KeyF11,
	"F12": hotkey.KeyF12,
}

var osModifiers = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
}

// Run registers the OS hotkey and serves presses until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	key, ok := osKeys[l.binding.Key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKey, l.binding.Name)
	}
	mods := make([]hotkey.Modifier, 0, len(l.binding.Mods))
	for _, m := range l.binding.Mods {
		mods = append(mods, osModifiers[m])
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey %s: %w", l.binding.Name, err)
	}
	defer func() {
		if err := hk.Unregister(); err != nil {
			log.Warn().Err(err).Msg("failed to unregister hotkey")
		}
	}()
	log.Info().Msgf("screenshot hotkey registered: %s", l.binding.Name)

	presses := make(chan struct{}, 16)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-hk.Keydown():
				if !ok {
					return
				}
				select {
				case presses <- struct{}{}:
				default:
				}
			}
		}
	}()

	l.Serve(ctx, presses)
	return nil
}
