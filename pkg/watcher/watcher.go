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

// Package watcher monitors save folders for file changes.
package watcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/helpers"
	"github.com/visual-logger/core/pkg/helpers/syncutil"
)

var ErrNotDirectory = errors.New("watch path is not a directory")

const eventBuffer = 64

// Op is the kind of change reported for a path.
type Op int

const (
	OpOther Op = iota
	OpCreate
	OpWrite
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	default:
		return "other"
	}
}

// Event is a single change inside a watched tree.
type Event struct {
	Time time.Time
	Path string
	Op   Op
}

// Watcher recursively watches directory trees. fsnotify only watches single
// directories, so every subdirectory is added on Watch and new ones are
// added as they appear.
type Watcher struct {
	fsw    *fsnotify.Watcher
	clock  clockwork.Clock
	events chan Event
	done   chan struct{}
	roots  map[string]string
	mu     syncutil.Mutex
}

func New(clock clockwork.Clock) (*Watcher, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fsw:    fsw,
		clock:  clock,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
		roots:  make(map[string]string),
	}
	go w.loop()
	return w, nil
}

// Events delivers changes in the order fsnotify reports them. The channel
// is closed after Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Watch starts monitoring root and everything below it.
func (w *Watcher) Watch(root string) error {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat watch path %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	if err := w.addTree(root); err != nil {
		return err
	}

	w.mu.Lock()
	w.roots[helpers.NormalizePathForComparison(root)] = root
	w.mu.Unlock()

	log.Info().Msgf("watching folder: %s", root)
	return nil
}

// Unwatch stops monitoring root. Directories still covered by another
// watched root stay registered.
func (w *Watcher) Unwatch(root string) error {
	root = filepath.Clean(root)
	key := helpers.NormalizePathForComparison(root)

	w.mu.Lock()
	if _, ok := w.roots[key]; !ok {
		w.mu.Unlock()
		return fmt.Errorf("folder is not being watched: %s", root)
	}
	delete(w.roots, key)
	others := make([]string, 0, len(w.roots))
	for _, r := range w.roots {
		others = append(others, r)
	}
	w.mu.Unlock()

	for _, dir := range w.fsw.WatchList() {
		if !helpers.PathHasPrefix(dir, root) {
			continue
		}
		if coveredBy(dir, others) {
			continue
		}
		if err := w.fsw.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			log.Warn().Err(err).Str("dir", dir).Msg("failed to remove watch")
		}
	}

	log.Info().Msgf("stopped watching folder: %s", root)
	return nil
}

// Roots returns the currently watched root folders.
func (w *Watcher) Roots() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.roots))
	for _, r := range w.roots {
		out = append(out, r)
	}
	return out
}

func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	return nil
}

func coveredBy(dir string, roots []string) bool {
	for _, r := range roots {
		if helpers.PathHasPrefix(dir, r) {
			return true
		}
	}
	return false
}

// addTree registers root and all of its subdirectories.
func (w *Watcher) addTree(root string) error {
	dirs := []string{root}
	var dirsMu syncutil.Mutex

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			log.Debug().Err(err).Str("path", path).Msg("skipping unreadable path")
			return nil
		}
		if d.IsDir() && path != root {
			dirsMu.Lock()
			dirs = append(dirs, path)
			dirsMu.Unlock()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}

	for _, dir := range dirs {
		if err := w.fsw.Add(dir); err != nil {
			if dir == root {
				return fmt.Errorf("failed to watch %s: %w", root, err)
			}
			log.Warn().Err(err).Str("dir", dir).Msg("failed to watch subdirectory")
		}
	}
	return nil
}

func (w *Watcher) watched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range w.roots {
		if helpers.PathHasPrefix(path, r) {
			return true
		}
	}
	return false
}

func translateOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Write):
		return OpWrite
	default:
		return OpOther
	}
}

func (w *Watcher) loop() {
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			op := translateOp(event.Op)
			if op == OpCreate && w.watched(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						log.Warn().Err(err).Msg("failed to watch new directory")
					}
				}
			}

			ev := Event{
				Path: event.Name,
				Op:   op,
				Time: w.clock.Now(),
			}
			select {
			case w.events <- ev:
			case <-w.done:
				return
			}
		case watchErr, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Error().Msgf("error in watcher: %s", watchErr)
		}
	}
}
