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

// Package notifications builds the UI notifications pushed to API clients.
package notifications

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/database"
)

// sendNotification queues a notification without blocking. Delivery is
// best effort: a full channel drops the notification with a warning.
func sendNotification(ns chan<- models.Notification, method string, payload any) {
	if ns == nil {
		return
	}

	var params json.RawMessage
	if payload != nil {
		var err error
		params, err = json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("method", method).Msg("error marshalling notification params")
			return
		}
	}

	select {
	case ns <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping notification")
	}
}

func SnapshotCreated(ns chan<- models.Notification, payload database.Snapshot) {
	sendNotification(ns, models.NotificationSnapshotCreated, payload)
}

func ScreenshotCreated(ns chan<- models.Notification, payload database.Screenshot) {
	sendNotification(ns, models.NotificationScreenshotCreated, payload)
}

func GamesAdded(ns chan<- models.Notification, payload database.Game) {
	sendNotification(ns, models.NotificationGamesAdded, payload)
}

func GamesRemoved(ns chan<- models.Notification, id string) {
	sendNotification(ns, models.NotificationGamesRemoved, models.GameRemovedPayload{ID: id})
}
