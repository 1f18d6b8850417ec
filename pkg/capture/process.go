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
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// ProcessFinder reports whether an executable currently has a running
// process.
type ProcessFinder interface {
	IsRunning(exePath string) bool
}

type SystemProcessFinder struct{}

func NewProcessFinder() *SystemProcessFinder {
	return &SystemProcessFinder{}
}

func (*SystemProcessFinder) IsRunning(exePath string) bool {
	target := NormalizeExePath(exePath)
	if target == "" {
		return false
	}

	procs, err := process.Processes()
	if err != nil {
		log.Debug().Err(err).Msg("failed to list processes")
		return false
	}

	for _, p := range procs {
		exe, err := p.Exe()
		if err != nil {
			continue
		}
		if NormalizeExePath(exe) == target {
			return true
		}
	}
	return false
}
