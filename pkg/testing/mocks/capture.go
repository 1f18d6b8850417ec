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

package mocks

import (
	"fmt"

	"github.com/stretchr/testify/mock"
	"github.com/visual-logger/core/pkg/capture"
)

// MockScreenCapturer is a mock implementation of capture.ScreenCapturer.
type MockScreenCapturer struct {
	mock.Mock
}

func (m *MockScreenCapturer) CaptureScreen() (capture.Frame, error) {
	args := m.Called()
	frame, _ := args.Get(0).(capture.Frame)
	if err := args.Error(1); err != nil {
		return frame, fmt.Errorf("mock capture failed: %w", err)
	}
	return frame, nil
}

// MockWindowLocator is a mock implementation of capture.WindowLocator.
// Errors are returned unwrapped so callers can match ErrWindowNotFound.
type MockWindowLocator struct {
	mock.Mock
}

func (m *MockWindowLocator) FindWindow(exePath string) (capture.Rect, error) {
	args := m.Called(exePath)
	rect, _ := args.Get(0).(capture.Rect)
	//nolint:wrapcheck // sentinel must be returned as-is
	return rect, args.Error(1)
}

// NewNotFoundWindowLocator returns a locator that never finds a window.
func NewNotFoundWindowLocator() *MockWindowLocator {
	m := &MockWindowLocator{}
	m.On("FindWindow", mock.Anything).Return(capture.Rect{}, capture.ErrWindowNotFound)
	return m
}

// MockProcessFinder is a mock implementation of capture.ProcessFinder.
type MockProcessFinder struct {
	mock.Mock
}

func (m *MockProcessFinder) IsRunning(exePath string) bool {
	args := m.Called(exePath)
	return args.Bool(0)
}

// MockClipboard is a mock implementation of clipboard.Reader.
type MockClipboard struct {
	mock.Mock
}

func (m *MockClipboard) ReadText() (string, error) {
	args := m.Called()
	//nolint:wrapcheck // passthrough
	return args.String(0), args.Error(1)
}
