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

package helpers

import (
	"fmt"
	"time"
)

// Layouts used in generated file and folder names.
const (
	FolderTimeLayout = "20060102_150405"
	DisplayLayout    = "2006-01-02 15:04:05"
)

// FolderTimestamp formats t for snapshot folder names (second resolution).
func FolderTimestamp(t time.Time) string {
	return t.Format(FolderTimeLayout)
}

// FileTimestamp formats t with millisecond resolution for cache frame and
// screenshot file names, e.g. "20240131_142501123".
func FileTimestamp(t time.Time) string {
	return fmt.Sprintf("%s%03d", t.Format(FolderTimeLayout), t.Nanosecond()/int(time.Millisecond))
}
