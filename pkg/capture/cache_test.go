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
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushFrame(t *testing.T, fs afero.Fs, c *FrameCache, at time.Time, name string) CachedFrame {
	t.Helper()
	path := "/cache/" + name
	require.NoError(t, afero.WriteFile(fs, path, []byte("png"), 0o644))
	f := CachedFrame{CapturedAt: at, Path: path}
	c.Push(f)
	return f
}

func TestFrameCache_EvictsOldestAndDeletesFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	c := NewFrameCache(fs, 3)
	base := time.Unix(1000, 0)

	for i := range 5 {
		pushFrame(t, fs, c, base.Add(time.Duration(i)*time.Second), fmt.Sprintf("f%d.png", i))
	}

	frames := c.Frames()
	require.Len(t, frames, 3)
	assert.Equal(t, "/cache/f2.png", frames[0].Path, "oldest frames evicted first")
	assert.Equal(t, "/cache/f4.png", frames[2].Path)

	for _, gone := range []string{"/cache/f0.png", "/cache/f1.png"} {
		exists, err := afero.Exists(fs, gone)
		require.NoError(t, err)
		assert.False(t, exists, "%s should be deleted on eviction", gone)
	}
	exists, err := afero.Exists(fs, "/cache/f2.png")
	require.NoError(t, err)
	assert.True(t, exists)
}

// lockProbeFs reports, from inside Remove, whether another caller could
// read the cache while the file was being deleted.
type lockProbeFs struct {
	afero.Fs
	cache    *FrameCache
	unlocked atomic.Int32
}

func (l *lockProbeFs) Remove(name string) error {
	read := make(chan struct{})
	go func() {
		l.cache.Len()
		close(read)
	}()
	select {
	case <-read:
		l.unlocked.Add(1)
	case <-time.After(50 * time.Millisecond):
	}
	return l.Fs.Remove(name)
}

func TestFrameCache_EvictionDeletesUnderLock(t *testing.T) {
	t.Parallel()

	fs := &lockProbeFs{Fs: afero.NewMemMapFs()}
	c := NewFrameCache(fs, 1)
	fs.cache = c
	base := time.Unix(1000, 0)

	pushFrame(t, fs, c, base, "a.png")
	pushFrame(t, fs, c, base.Add(time.Second), "b.png")
	pushFrame(t, fs, c, base.Add(2*time.Second), "c.png")
	c.Clear()

	assert.Equal(t, int32(0), fs.unlocked.Load())
	assert.Equal(t, 0, c.Len())
}

func TestFrameCache_NeverExceedsCapacity(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	c := NewFrameCache(fs, 20)
	base := time.Unix(0, 0)
	for i := range 100 {
		c.Push(CachedFrame{CapturedAt: base.Add(time.Duration(i) * time.Millisecond), Path: fmt.Sprintf("/x/%d", i)})
		assert.LessOrEqual(t, c.Len(), 20)
	}
}

func TestFrameCache_Closest(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	now := time.Unix(10_000, 0)

	tests := []struct {
		name    string
		want    string
		wantErr error
		ages    []time.Duration
	}{
		{
			name: "youngest within max age",
			ages: []time.Duration{12 * time.Second, 5 * time.Second, 1 * time.Second},
			want: "/cache/2",
		},
		{
			name:    "only stale frames",
			ages:    []time.Duration{12 * time.Second},
			wantErr: ErrNoFrame,
		},
		{
			name:    "empty cache",
			wantErr: ErrNoFrame,
		},
		{
			name: "exactly max age is usable",
			ages: []time.Duration{10 * time.Second},
			want: "/cache/0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewFrameCache(fs, 20)
			for i, age := range tt.ages {
				c.Push(CachedFrame{CapturedAt: now.Add(-age), Path: fmt.Sprintf("/cache/%d", i)})
			}

			f, err := c.Closest(now, 10*time.Second)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Path)
		})
	}
}

func TestFrameCache_Clear(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	c := NewFrameCache(fs, 5)
	pushFrame(t, fs, c, time.Unix(1, 0), "a.png")
	pushFrame(t, fs, c, time.Unix(2, 0), "b.png")

	c.Clear()

	assert.Equal(t, 0, c.Len())
	exists, err := afero.Exists(fs, "/cache/a.png")
	require.NoError(t, err)
	assert.False(t, exists)
}
