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

// Package clipboard reads and writes text on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

var ErrEmpty = errors.New("clipboard has no text")

// Reader returns the current clipboard text.
type Reader interface {
	ReadText() (string, error)
}

type System struct {
	initErr  error
	initOnce sync.Once
}

func NewSystem() *System {
	return &System{}
}

func (s *System) init() error {
	s.initOnce.Do(func() {
		s.initErr = clipboard.Init()
	})
	if s.initErr != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", s.initErr)
	}
	return nil
}

func (s *System) ReadText() (string, error) {
	if err := s.init(); err != nil {
		return "", err
	}

	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return "", ErrEmpty
	}
	return string(data), nil
}

func (s *System) WriteText(text string) error {
	if err := s.init(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

// Disabled never returns clipboard contents.
type Disabled struct{}

func (Disabled) ReadText() (string, error) {
	return "", ErrEmpty
}
