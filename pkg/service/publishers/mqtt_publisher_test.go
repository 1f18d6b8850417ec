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

package publishers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/config"
	"go.uber.org/goleak"
)

func newTestPublisher(client mqtt.Client, filter []string) *MQTTPublisher {
	p := NewMQTTPublisher(config.MQTTPublisher{
		Broker: "localhost:1883",
		Topic:  "visual-logger/events",
		Filter: filter,
	})
	p.newClient = func(*mqtt.ClientOptions) mqtt.Client { return client }
	return p
}

func runPublisher(t *testing.T, p *MQTTPublisher, ch <-chan models.Notification) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run(ctx, ch)
	}()
	return cancel, errCh
}

func TestMatchesFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		filter []string
		want   bool
	}{
		{name: "empty filter", filter: nil, method: models.NotificationSnapshotCreated, want: true},
		{name: "listed", filter: []string{models.NotificationSnapshotCreated}, method: models.NotificationSnapshotCreated, want: true},
		{name: "not listed", filter: []string{models.NotificationSnapshotCreated}, method: models.NotificationGamesAdded, want: false},
		{name: "case sensitive", filter: []string{"Snapshot-Created"}, method: models.NotificationSnapshotCreated, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := newTestPublisher(newMockMQTTClient(), tt.filter)
			assert.Equal(t, tt.want, p.matchesFilter(tt.method))
		})
	}
}

func TestRun_PublishesNotifications(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	client := newMockMQTTClient()
	ch := make(chan models.Notification, 1)
	cancel, errCh := runPublisher(t, newTestPublisher(client, nil), ch)

	ch <- models.Notification{
		Method: models.NotificationSnapshotCreated,
		Params: json.RawMessage(`{"id":"s1"}`),
	}

	select {
	case msg := <-client.published:
		assert.Equal(t, "visual-logger/events", msg.topic)
		payload, ok := msg.payload.([]byte)
		require.True(t, ok)
		assert.JSONEq(t, `{"method":"snapshot-created","params":{"id":"s1"}}`, string(payload))
	case <-time.After(2 * time.Second):
		t.Fatal("notification not published")
	}

	cancel()
	require.NoError(t, <-errCh)
	assert.Equal(t, 1, client.disconnects())
}

func TestRun_FilteredOut(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	client := newMockMQTTClient()
	ch := make(chan models.Notification, 2)
	cancel, errCh := runPublisher(t, newTestPublisher(client, []string{models.NotificationScreenshotCreated}), ch)
	defer cancel()

	ch <- models.Notification{Method: models.NotificationGamesAdded}
	ch <- models.Notification{Method: models.NotificationScreenshotCreated}

	select {
	case msg := <-client.published:
		payload, ok := msg.payload.([]byte)
		require.True(t, ok)
		assert.Contains(t, string(payload), models.NotificationScreenshotCreated)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not published")
	}
	assert.Empty(t, client.published)

	close(ch)
	require.NoError(t, <-errCh)
}

func TestRun_PublishErrorContinues(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	client := newMockMQTTClient()
	client.publishError = assert.AnError
	ch := make(chan models.Notification)
	cancel, errCh := runPublisher(t, newTestPublisher(client, nil), ch)

	ch <- models.Notification{Method: models.NotificationSnapshotCreated}
	ch <- models.Notification{Method: models.NotificationSnapshotCreated}

	cancel()
	require.NoError(t, <-errCh)
}

func TestRun_ConnectError(t *testing.T) {
	t.Parallel()

	client := newMockMQTTClient()
	client.connectError = assert.AnError

	err := newTestPublisher(client, nil).Run(context.Background(), make(chan models.Notification))
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, client.disconnects())
}

func TestRun_CancelWhileConnecting(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	client := &pendingClient{mockMQTTClient: newMockMQTTClient()}
	cancel, errCh := runPublisher(t, newTestPublisher(client, nil), make(chan models.Notification))

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("publisher did not stop")
	}
}
