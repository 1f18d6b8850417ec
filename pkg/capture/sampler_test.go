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
	"context"
	"errors"
	"image"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeCapturer struct {
	err   error
	calls atomic.Int32
}

func (f *fakeCapturer) CaptureScreen() (Frame, error) {
	f.calls.Add(1)
	if f.err != nil {
		return Frame{}, f.err
	}
	return Frame{
		Image:  image.NewRGBA(image.Rect(0, 0, 8, 6)),
		Origin: image.Pt(-1920, 0),
	}, nil
}

func TestSampler_SampleStoresFrame(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 42_000_000, time.UTC))
	cache := NewFrameCache(fs, 20)
	s := NewSampler(fs, &fakeCapturer{}, cache, clock, "/cache", 800*time.Millisecond)

	require.NoError(t, s.Sample())

	frames := cache.Frames()
	require.Len(t, frames, 1)
	assert.Equal(t, "/cache/cache_20240501_120000042.png", frames[0].Path)
	assert.Equal(t, image.Pt(-1920, 0), frames[0].Origin)
	assert.Equal(t, clock.Now(), frames[0].CapturedAt)

	img, err := LoadPNG(fs, frames[0].Path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())
}

func TestSampler_SampleError(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cache := NewFrameCache(fs, 20)
	s := NewSampler(fs, &fakeCapturer{err: errors.New("display gone")}, cache,
		clockwork.NewFakeClock(), "/cache", time.Second)

	require.Error(t, s.Sample())
	assert.Equal(t, 0, cache.Len())
}

//nolint:paralleltest // goleak checks process-wide goroutines
func TestSampler_RunTicksAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	fs := afero.NewMemMapFs()
	clock := clockwork.NewFakeClock()
	capturer := &fakeCapturer{}
	cache := NewFrameCache(fs, 2)
	s := NewSampler(fs, capturer, cache, clock, "/cache", 800*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	for i := 1; i <= 3; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(800 * time.Millisecond)
		require.Eventually(t, func() bool {
			return capturer.calls.Load() == int32(i)
		}, time.Second, 5*time.Millisecond)
	}

	require.Eventually(t, func() bool { return cache.Len() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sampler did not stop after cancel")
	}

	files, err := afero.ReadDir(fs, "/cache")
	require.NoError(t, err)
	for _, f := range files {
		assert.True(t, strings.HasPrefix(f.Name(), "cache_"))
	}
	assert.Len(t, files, 2, "evicted frames are deleted from disk")
}

func TestSampler_RunSurvivesCaptureErrors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	clock := clockwork.NewFakeClock()
	capturer := &fakeCapturer{err: errors.New("boom")}
	s := NewSampler(fs, capturer, NewFrameCache(fs, 2), clock, "/cache", time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	for i := 1; i <= 2; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(time.Second)
		require.Eventually(t, func() bool {
			return capturer.calls.Load() == int32(i)
		}, time.Second, 5*time.Millisecond)
	}
}
