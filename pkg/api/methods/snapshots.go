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

package methods

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/api/models/requests"
	"github.com/visual-logger/core/pkg/api/validation"
)

//nolint:gocritic // single-use parameter in API handler
func HandleSnapshots(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received snapshots request")

	var params models.GameIDParams
	if err := unmarshalGameParams(env, &params); err != nil {
		return nil, err
	}

	snaps, err := env.Library.Snapshots(params.GameID)
	if err != nil {
		return nil, err
	}
	return models.SnapshotsResponse{Snapshots: snaps}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleUpdateSnapshot(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received update snapshot request")

	var params models.UpdateSnapshotParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if err := env.Library.UpdateSnapshot(params.ID, params.Name, params.Note); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDeleteSnapshots(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received delete snapshots request")

	var params models.DeleteRecordsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if err := env.Library.DeleteSnapshots(params.IDs); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleRestoreSnapshot(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received restore snapshot request")

	var params models.RestoreSnapshotParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	path, err := env.Library.RestoreSnapshot(params.ID)
	if err != nil {
		return nil, err
	}
	return models.RestoreResponse{Path: path}, nil
}
