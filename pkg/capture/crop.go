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
	"image/draw"
)

var ErrEmptyImage = errors.New("image has no pixels")

// CropBounds converts a window rectangle in screen coordinates into a crop
// rectangle inside an image of the given size whose top-left pixel sits at
// origin on screen. The result is always inside the image and at least one
// pixel wide and tall.
func CropBounds(win Rect, origin image.Point, size image.Point) image.Rectangle {
	left := max(win.Left-origin.X, 0)
	top := max(win.Top-origin.Y, 0)
	right := min(win.Right-origin.X, size.X)
	bottom := min(win.Bottom-origin.Y, size.Y)

	// a window fully off the right or bottom edge still yields a pixel
	left = min(left, size.X-1)
	top = min(top, size.Y-1)

	width := max(right-left, 1)
	height := max(bottom-top, 1)
	return image.Rect(left, top, left+width, top+height)
}

// Crop returns a copy of the part of img covered by the window rectangle.
func Crop(img image.Image, win Rect, origin image.Point) (image.Image, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	r := CropBounds(win, origin, b.Size()).Add(b.Min)

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst, nil
}
