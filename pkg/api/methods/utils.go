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
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/api/models"
	"github.com/visual-logger/core/pkg/api/models/requests"
	"github.com/visual-logger/core/pkg/api/validation"
	"github.com/visual-logger/core/pkg/config"
)

// NoContent is returned by handlers that have no result value.
type NoContent struct{}

//nolint:gocritic // single-use parameter in API handler
func HandleVersion(_ requests.RequestEnv) (any, error) {
	log.Info().Msg("received version request")
	return models.VersionResponse{
		Version:  config.AppVersion,
		Platform: runtime.GOOS,
	}, nil
}

// unmarshalGameParams validates params whose game ID must refer to a
// registered game.
//
//nolint:gocritic // env passed through from handler
func unmarshalGameParams[T any](env requests.RequestEnv, dest *T) error {
	games, err := env.Library.Games()
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(games))
	for i := range games {
		ids = append(ids, games[i].ID)
	}

	ctx := env.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validation.ValidateAndUnmarshalCtx(ctx, env.Params, dest, validation.NewContext(ids)); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
