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

package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForEvent(t *testing.T, w *Watcher, match func(Event) bool) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			require.True(t, ok, "events channel closed")
			if match(ev) {
				return ev
			}
		case <-timeout:
			t.Fatal("timed out waiting for watcher event")
			return Event{}
		}
	}
}

func TestWatch_ReportsWriteInNestedDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "slots", "a")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	target := filepath.Join(nested, "slot1.dat")
	require.NoError(t, os.WriteFile(target, []byte("v1"), 0o600))

	w, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.Watch(root))
	require.NoError(t, os.WriteFile(target, []byte("v2"), 0o600))

	ev := waitForEvent(t, w, func(ev Event) bool { return ev.Path == target })
	assert.Contains(t, []Op{OpCreate, OpWrite}, ev.Op)
	assert.False(t, ev.Time.IsZero())
}

func TestWatch_NewSubdirectoryIsWatched(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()
	require.NoError(t, w.Watch(root))

	sub := filepath.Join(root, "new")
	require.NoError(t, os.Mkdir(sub, 0o750))
	waitForEvent(t, w, func(ev Event) bool { return ev.Path == sub && ev.Op == OpCreate })

	target := filepath.Join(sub, "slot.dat")
	require.Eventually(t, func() bool {
		for _, d := range w.fsw.WatchList() {
			if d == sub {
				return true
			}
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
	waitForEvent(t, w, func(ev Event) bool { return ev.Path == target })
}

func TestWatch_Errors(t *testing.T) {
	t.Parallel()

	w, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	root := t.TempDir()
	require.NoError(t, w.Watch(root))

	err = w.Watch(filepath.Join(root, "does-not-exist"))
	require.Error(t, err)

	file := filepath.Join(root, "file.dat")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	err = w.Watch(file)
	require.ErrorIs(t, err, ErrNotDirectory)

	assert.Equal(t, []string{filepath.Clean(root)}, w.Roots(), "failed watches leave existing ones intact")
}

func TestUnwatch(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	a := filepath.Join(base, "a")
	b := filepath.Join(base, "b")
	require.NoError(t, os.MkdirAll(filepath.Join(a, "sub"), 0o750))
	require.NoError(t, os.MkdirAll(b, 0o750))

	w, err := New(nil)
	require.NoError(t, err)
	defer func() { _ = w.Close() }()

	require.NoError(t, w.Watch(a))
	require.NoError(t, w.Watch(b))
	require.NoError(t, w.Unwatch(a))

	for _, d := range w.fsw.WatchList() {
		assert.NotContains(t, d, a+string(filepath.Separator))
		assert.NotEqual(t, a, d)
	}
	assert.Equal(t, []string{b}, w.Roots())

	require.Error(t, w.Unwatch(a), "unwatching twice is an error")
}

func TestClose_ClosesEvents(t *testing.T) {
	t.Parallel()

	w, err := New(nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "close is idempotent")

	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed")
	}
}

func TestTranslateOp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OpCreate, translateOp(fsnotify.Create))
	assert.Equal(t, OpWrite, translateOp(fsnotify.Write))
	assert.Equal(t, OpCreate, translateOp(fsnotify.Create|fsnotify.Write))
	assert.Equal(t, OpOther, translateOp(fsnotify.Remove))
	assert.Equal(t, OpOther, translateOp(fsnotify.Rename))
	assert.Equal(t, OpOther, translateOp(fsnotify.Chmod))
}
