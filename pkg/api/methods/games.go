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
	"github.com/visual-logger/core/pkg/library"
)

//nolint:gocritic // single-use parameter in API handler
func HandleGames(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received games request")

	games, err := env.Library.Games()
	if err != nil {
		return nil, err
	}
	return models.GamesResponse{Games: games}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleAddGame(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received add game request")

	var params models.AddGameParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	req := library.AddGameRequest{
		Name:       params.Name,
		ExePath:    params.ExePath,
		SaveFolder: params.SaveFolder,
	}
	if params.GameFolder != nil {
		req.GameFolder = *params.GameFolder
	}

	game, err := env.Library.AddGame(req)
	if err != nil {
		return nil, err
	}
	return game, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDeleteGame(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received delete game request")

	var params models.DeleteGameParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if err := env.Library.DeleteGame(params.ID, params.DeleteVisualLogger); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleGameStats(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received game stats request")

	var params models.GameIDParams
	if err := unmarshalGameParams(env, &params); err != nil {
		return nil, err
	}

	stats, err := env.Library.GameStats(params.GameID)
	if err != nil {
		return nil, err
	}
	return models.GameStatsResponse{
		GameID:      params.GameID,
		Snapshots:   stats.Snapshots,
		Screenshots: stats.Screenshots,
	}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleGameCover(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received game cover request")

	var params models.GameCoverParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	if err := env.Library.SetGameCover(params.ID, params.CoverImage); err != nil {
		return nil, err
	}
	return NoContent{}, nil
}
