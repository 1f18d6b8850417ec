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

package capture

import (
	"unsafe"

	"github.com/visual-logger/core/pkg/helpers/syncutil"
	"golang.org/x/sys/windows"
)

var (
	user32            = windows.NewLazySystemDLL("user32.dll")
	procGetWindowRect = user32.NewProc("GetWindowRect")

	// Windows only allows a limited number of callbacks per process, so a
	// single one is shared and searches are serialized.
	enumCallback = windows.NewCallback(enumWindowsProc)
	enumMu       syncutil.Mutex
	enumSearch   *windowSearch
)

type windowSearch struct {
	exes   map[uint32]string
	target string
	found  *Rect
}

type systemWindowLocator struct{}

func NewWindowLocator() WindowLocator {
	return systemWindowLocator{}
}

func (systemWindowLocator) FindWindow(exePath string) (Rect, error) {
	target := NormalizeExePath(exePath)
	if target == "" {
		return Rect{}, ErrWindowNotFound
	}

	enumMu.Lock()
	defer enumMu.Unlock()

	search := &windowSearch{target: target, exes: make(map[uint32]string)}
	enumSearch = search
	defer func() { enumSearch = nil }()

	// EnumWindows reports an error when the callback stops early.
	_ = windows.EnumWindows(enumCallback, nil)

	if search.found == nil {
		return Rect{}, ErrWindowNotFound
	}
	return *search.found, nil
}

func enumWindowsProc(hwnd windows.HWND, _ uintptr) uintptr {
	search := enumSearch
	if search == nil {
		return 0
	}
	if !windows.IsWindowVisible(hwnd) {
		return 1
	}

	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil || pid == 0 {
		return 1
	}

	exe, ok := search.exes[pid]
	if !ok {
		exe = NormalizeExePath(processImagePath(pid))
		search.exes[pid] = exe
	}
	if exe == "" || exe != search.target {
		return 1
	}

	var r windows.Rect
	ret, _, _ := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	if ret == 0 {
		return 1
	}
	search.found = &Rect{
		Left:   int(r.Left),
		Top:    int(r.Top),
		Right:  int(r.Right),
		Bottom: int(r.Bottom),
	}
	return 0
}

// processImagePath returns the full executable path of a process, or an
// empty string if it cannot be queried.
func processImagePath(pid uint32) string {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer func() { _ = windows.CloseHandle(handle) }()

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(handle, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}
