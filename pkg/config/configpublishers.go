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

package config

type Publishers struct {
	MQTT []MQTTPublisher `toml:"mqtt,omitempty"`
}

// MQTTPublisher forwards service notifications to an MQTT topic. An empty
// filter forwards every notification.
type MQTTPublisher struct {
	Enabled *bool    `toml:"enabled,omitempty"`
	Broker  string   `toml:"broker"`
	Topic   string   `toml:"topic"`
	Filter  []string `toml:"filter,omitempty"`
}

// MQTTPublishers returns the enabled publishers that have a broker and a
// topic.
func (c *Instance) MQTTPublishers() []MQTTPublisher {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]MQTTPublisher, 0, len(c.vals.Publishers.MQTT))
	for _, p := range c.vals.Publishers.MQTT {
		if p.Enabled != nil && !*p.Enabled {
			continue
		}
		if p.Broker == "" || p.Topic == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
