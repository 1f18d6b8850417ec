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
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/api/models/requests"
	"github.com/visual-logger/core/pkg/api/validation"
	"github.com/visual-logger/core/pkg/database"
)

//nolint:gocritic // single-use parameter in API handler
func HandleScreenshots(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received screenshots request")

	var params models.GameIDParams
	if err := unmarshalGameParams(env, &params); err != nil {
		return nil, err
	}

	shots, err := env.Library.Screenshots(params.GameID)
	if err != nil {
		return nil, err
	}
	return models.ScreenshotsResponse{Screenshots: shots}, nil
}

// HandleNewScreenshot captures a screenshot of the given game, or of the
// running game when no game ID is passed.
//
//nolint:gocritic // single-use parameter in API handler
func HandleNewScreenshot(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received new screenshot request")

	var params models.NewScreenshotParams
	if len(env.Params) > 0 {
		if err := unmarshalGameParams(env, &params); err != nil && !errors.Is(err, validation.ErrMissingParams) {
			return nil, err
		}
	}

	var (
		shot *database.Screenshot
		err  error
	)
	if params.GameID != nil {
		shot, err = env.Library.CaptureScreenshot(*params.GameID)
	} else {
		shot, err = env.Library.CaptureRunningScreenshot()
	}
	if err != nil {
		return nil, err
	}
	return shot, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleUpdateScreenshot(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received update screenshot request")

	var params models.UpdateScreenshotParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if err := env.Library.UpdateScreenshot(params.ID, params.Name, params.Note); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDeleteScreenshots(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received delete screenshots request")

	var params models.DeleteRecordsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if err := env.Library.DeleteScreenshots(params.IDs); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleExportScreenshots(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received export screenshots request")

	var params models.ExportScreenshotsParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	exported, err := env.Library.ExportScreenshots(params.IDs, params.Dir)
	if err != nil && exported == 0 {
		return nil, err
	}
	if err != nil {
		log.Warn().Err(err).Int("exported", exported).Msg("some screenshots were not exported")
	}
	return models.ExportResponse{Exported: exported}, nil
}
