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

// Package publishers forwards service notifications to external systems.
package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/config"
)

const disconnectQuiesce = 250

// Message is the MQTT payload for one notification.
type Message struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// MQTTPublisher publishes notifications to an MQTT broker.
type MQTTPublisher struct {
	client    mqtt.Client
	newClient func(*mqtt.ClientOptions) mqtt.Client
	broker    string
	topic     string
	filter    []string
}

// NewMQTTPublisher creates a publisher for one configured broker and topic.
// If the filter is empty, all notifications are published.
func NewMQTTPublisher(cfg config.MQTTPublisher) *MQTTPublisher {
	return &MQTTPublisher{
		newClient: mqtt.NewClient,
		broker:    cfg.Broker,
		topic:     cfg.Topic,
		filter:    cfg.Filter,
	}
}

func (p *MQTTPublisher) options() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker("tcp://" + p.broker)
	opts.SetClientID("visual-logger-" + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(_ mqtt.Client) {
		log.Info().Msgf("mqtt publisher: connected to %s", p.broker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Msg("mqtt publisher: connection lost")
	}
	return opts
}

// Run connects to the broker and publishes notifications until ctx is
// cancelled or notifications is closed. Publish failures are logged and
// skipped.
func (p *MQTTPublisher) Run(ctx context.Context, notifications <-chan models.Notification) error {
	p.client = p.newClient(p.options())
	defer p.disconnect()

	token := p.client.Connect()
	select {
	case <-ctx.Done():
		return nil
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker %s: %w", p.broker, err)
	}
	log.Info().Msgf("mqtt publisher: publishing to %s (topic: %s)", p.broker, p.topic)

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("mqtt publisher: stopping")
			return nil
		case notif, ok := <-notifications:
			if !ok {
				log.Debug().Msg("mqtt publisher: notification channel closed")
				return nil
			}
			p.publish(notif)
		}
	}
}

func (p *MQTTPublisher) publish(notif models.Notification) {
	if !p.matchesFilter(notif.Method) {
		return
	}

	payload, err := json.Marshal(Message{Method: notif.Method, Params: notif.Params})
	if err != nil {
		log.Error().Err(err).Msg("mqtt publisher: failed to marshal notification")
		return
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if token.Wait() && token.Error() != nil {
		log.Error().Err(token.Error()).Msg("mqtt publisher: failed to publish message")
		return
	}
	log.Debug().Msgf("mqtt publisher: published %s notification", notif.Method)
}

func (p *MQTTPublisher) disconnect() {
	if p.client != nil && p.client.IsConnected() {
		log.Debug().Msg("mqtt publisher: disconnecting")
		p.client.Disconnect(disconnectQuiesce)
	}
}

func (p *MQTTPublisher) matchesFilter(method string) bool {
	return len(p.filter) == 0 || slices.Contains(p.filter, method)
}
