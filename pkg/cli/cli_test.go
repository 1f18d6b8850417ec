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

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/visual-logger/core/pkg/api/models"
)

type mockCaller struct {
	mock.Mock
}

func (m *mockCaller) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	args := m.Called(ctx, method, params)
	raw, _ := args.Get(0).(json.RawMessage)
	//nolint:wrapcheck // passthrough
	return raw, args.Error(1)
}

func (m *mockCaller) WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	methods ...string,
) (models.Notification, error) {
	args := m.Called(ctx, timeout, methods)
	notif, _ := args.Get(0).(models.Notification)
	//nolint:wrapcheck // passthrough
	return notif, args.Error(1)
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func newFlags() *Flags {
	return &Flags{
		API:        strPtr(""),
		Game:       strPtr(""),
		Version:    boolPtr(false),
		Screenshot: boolPtr(false),
		Games:      boolPtr(false),
		Wait:       boolPtr(false),
	}
}

func TestCallAPI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		value      string
		method     string
		params     any
		wantErr    error
		wantOutput string
	}{
		{
			name:       "method only",
			value:      "version",
			method:     "version",
			params:     nil,
			wantOutput: "{\"version\":\"1\"}\n",
		},
		{
			name:       "method with params",
			value:      `games.stats:{"gameId":"x"}`,
			method:     "games.stats",
			params:     json.RawMessage(`{"gameId":"x"}`),
			wantOutput: "{\"version\":\"1\"}\n",
		},
		{
			name:    "empty value",
			value:   "",
			wantErr: ErrFlagValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := &mockCaller{}
			if tt.method != "" {
				c.On("Call", mock.Anything, tt.method, tt.params).
					Return(json.RawMessage(`{"version":"1"}`), nil)
			}

			var out bytes.Buffer
			err := callAPI(context.Background(), c, &out, tt.value)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				c.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, out.String())
			c.AssertExpectations(t)
		})
	}
}

func TestCallAPI_Error(t *testing.T) {
	t.Parallel()
	c := &mockCaller{}
	c.On("Call", mock.Anything, "nope", nil).Return(nil, errors.New("method not found"))

	err := callAPI(context.Background(), c, &bytes.Buffer{}, "nope")
	require.ErrorContains(t, err, "method not found")
}

func TestDispatch_Screenshot(t *testing.T) {
	t.Parallel()

	t.Run("running game", func(t *testing.T) {
		t.Parallel()
		c := &mockCaller{}
		c.On("Call", mock.Anything, models.MethodScreenshotsNew, models.NewScreenshotParams{}).
			Return(json.RawMessage(`{"id":"s","imagePath":"/g/shot.png"}`), nil)

		f := newFlags()
		f.Screenshot = boolPtr(true)
		var out bytes.Buffer
		handled, err := f.Dispatch(context.Background(), c, &out)
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Equal(t, "/g/shot.png\n", out.String())
	})

	t.Run("specific game", func(t *testing.T) {
		t.Parallel()
		c := &mockCaller{}
		c.On("Call", mock.Anything, models.MethodScreenshotsNew, mock.MatchedBy(func(p models.NewScreenshotParams) bool {
			return p.GameID != nil && *p.GameID == "g1"
		})).Return(json.RawMessage(`{"imagePath":"/g1.png"}`), nil)

		f := newFlags()
		f.Screenshot = boolPtr(true)
		f.Game = strPtr("g1")
		var out bytes.Buffer
		handled, err := f.Dispatch(context.Background(), c, &out)
		require.NoError(t, err)
		assert.True(t, handled)
		c.AssertExpectations(t)
	})
}

func TestDispatch_Games(t *testing.T) {
	t.Parallel()
	c := &mockCaller{}
	c.On("Call", mock.Anything, models.MethodGames, nil).Return(json.RawMessage(
		`{"games":[{"id":"g1","name":"Alpha","gameFolderPath":"/games/a","saveFolderPath":"/games/a/saves"}]}`,
	), nil)

	f := newFlags()
	f.Games = boolPtr(true)
	var out bytes.Buffer
	handled, err := f.Dispatch(context.Background(), c, &out)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Contains(t, out.String(), "ID")
	assert.Contains(t, out.String(), "Alpha")
	assert.Contains(t, out.String(), "/games/a/saves")
}

func TestDispatch_Wait(t *testing.T) {
	t.Parallel()
	c := &mockCaller{}
	c.On("WaitNotification", mock.Anything, time.Duration(0), []string{
		models.NotificationSnapshotCreated,
		models.NotificationScreenshotCreated,
	}).Return(models.Notification{
		Method: models.NotificationSnapshotCreated,
		Params: json.RawMessage(`{"id":"s1"}`),
	}, nil)

	f := newFlags()
	f.Wait = boolPtr(true)
	var out bytes.Buffer
	handled, err := f.Dispatch(context.Background(), c, &out)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "snapshot-created {\"id\":\"s1\"}\n", out.String())
}

func TestDispatch_NothingSet(t *testing.T) {
	t.Parallel()
	c := &mockCaller{}

	handled, err := newFlags().Dispatch(context.Background(), c, &bytes.Buffer{})
	require.NoError(t, err)
	assert.False(t, handled)
	c.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything)
}
