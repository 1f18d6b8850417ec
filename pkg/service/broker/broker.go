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

// Package broker fans out API notifications from the core to every
// connected consumer without letting a slow consumer stall the core.
package broker

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/helpers/syncutil"
)

// Broker reads notifications from a single source and copies them to
// every subscriber. Sends to subscribers never block.
type Broker struct {
	source      <-chan models.Notification
	subscribers map[int]chan models.Notification
	mu          syncutil.RWMutex
	nextID      int
	dropped     int
}

func NewBroker(source <-chan models.Notification) *Broker {
	return &Broker{
		source:      source,
		subscribers: make(map[int]chan models.Notification),
	}
}

// Run broadcasts until ctx is done or the source closes, then closes all
// subscriber channels. It always returns nil.
func (b *Broker) Run(ctx context.Context) error {
	defer b.closeAll()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("broker: context done")
			return nil
		case notif, ok := <-b.source:
			if !ok {
				log.Debug().Msg("broker: source closed")
				return nil
			}
			b.broadcast(notif)
		}
	}
}

func (b *Broker) broadcast(notif models.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- notif:
		default:
			b.dropped++
			log.Warn().
				Int("subscriber", id).
				Str("method", notif.Method).
				Msg("subscriber channel full, dropping notification")
		}
	}
}

// Subscription is a registered consumer. C is closed on Close or when the
// broker stops.
type Subscription struct {
	C  <-chan models.Notification
	b  *Broker
	id int
}

func (s *Subscription) Close() {
	s.b.unsubscribe(s.id)
}

func (b *Broker) Subscribe(bufferSize int) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan models.Notification, bufferSize)
	b.subscribers[id] = ch

	log.Debug().Int("subscriber", id).Int("buffer", bufferSize).Msg("subscriber registered")
	return &Subscription{C: ch, b: b, id: id}
}

func (b *Broker) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

// Dropped returns how many deliveries were skipped because a subscriber
// was full.
func (b *Broker) Dropped() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dropped
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
