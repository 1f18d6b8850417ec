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
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

var ErrNoDisplay = errors.New("no active display")

// Frame is a capture of the virtual screen. Origin is the screen coordinate
// of the image's top-left pixel, which is negative when a monitor sits left
// of or above the primary one.
type Frame struct {
	Image  image.Image
	Origin image.Point
}

// ScreenCapturer takes full-screen captures. Implementations must be safe
// for concurrent use.
type ScreenCapturer interface {
	CaptureScreen() (Frame, error)
}

// DisplayCapturer captures the union of all active displays.
type DisplayCapturer struct{}

func NewDisplayCapturer() *DisplayCapturer {
	return &DisplayCapturer{}
}

// VirtualScreen returns the bounding rectangle of all active displays.
func VirtualScreen() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return image.Rectangle{}, ErrNoDisplay
	}
	var bounds image.Rectangle
	for i := range n {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}
	if bounds.Empty() {
		return image.Rectangle{}, ErrNoDisplay
	}
	return bounds, nil
}

func (*DisplayCapturer) CaptureScreen() (Frame, error) {
	bounds, err := VirtualScreen()
	if err != nil {
		return Frame{}, err
	}
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return Frame{}, fmt.Errorf("failed to capture screen: %w", err)
	}
	return Frame{Image: img, Origin: bounds.Min}, nil
}
