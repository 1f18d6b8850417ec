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

package models

type AddGameParams struct {
	GameFolder *string `json:"gameFolderPath" validate:"omitempty,abspath"`
	Name       string  `json:"name" validate:"required,notblank,max=255"`
	ExePath    string  `json:"exePath" validate:"required,abspath"`
	SaveFolder string  `json:"saveFolderPath" validate:"required,abspath"`
}

type DeleteGameParams struct {
	ID                 string `json:"id" validate:"required,uuid"`
	DeleteVisualLogger bool   `json:"deleteVisualLogger"`
}

type GameCoverParams struct {
	ID         string `json:"id" validate:"required,uuid"`
	CoverImage string `json:"coverImage" validate:"omitempty,abspath"`
}

type GameIDParams struct {
	GameID string `json:"gameId" validate:"required,uuid,game"`
}

type UpdateSnapshotParams struct {
	Name *string `json:"name" validate:"omitempty,notblank,max=255"`
	Note *string `json:"note"`
	ID   string  `json:"id" validate:"required,uuid"`
}

type UpdateScreenshotParams struct {
	Name *string `json:"name" validate:"omitempty,notblank,max=255"`
	Note *string `json:"note"`
	ID   string  `json:"id" validate:"required,uuid"`
}

// DeleteRecordsParams accepts one or more record IDs.
type DeleteRecordsParams struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type RestoreSnapshotParams struct {
	ID string `json:"id" validate:"required,uuid"`
}

type ExportScreenshotsParams struct {
	Dir string   `json:"dir" validate:"required,abspath"`
	IDs []string `json:"ids" validate:"required,min=1,dive,uuid"`
}

type NewScreenshotParams struct {
	GameID *string `json:"gameId" validate:"omitempty,uuid,game"`
}
