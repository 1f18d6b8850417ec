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

package userdb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/visual-logger/core/pkg/database"
)

// Queries go here to keep the interface clean

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run user database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, "vacuum;")
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func closeStmt(stmt *sql.Stmt) {
	if closeErr := stmt.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("failed to close sql statement")
	}
}

func closeRows(rows *sql.Rows) {
	if closeErr := rows.Close(); closeErr != nil {
		log.Warn().Err(closeErr).Msg("failed to close sql rows")
	}
}

// nullString maps empty optional fields to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

//nolint:gocritic // struct passed for DB insertion
func sqlAddGame(ctx context.Context, db *sql.DB, g database.Game) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Games(
			ID, Name, GameFolder, SaveFolder, ExePath, CoverImage, Added
		) values (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare game insert statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx,
		g.ID,
		g.Name,
		g.GameFolder,
		nullString(g.SaveFolder),
		nullString(g.ExePath),
		nullString(g.CoverImage),
		g.Added.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to execute game insert: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (database.Game, error) {
	var g database.Game
	var saveFolder, exePath, coverImage sql.NullString
	var added int64
	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.GameFolder,
		&saveFolder,
		&exePath,
		&coverImage,
		&added,
	)
	if err != nil {
		return g, err
	}
	g.SaveFolder = saveFolder.String
	g.ExePath = exePath.String
	g.CoverImage = coverImage.String
	g.Added = time.UnixMilli(added)
	return g, nil
}

const gameColumns = `ID, Name, GameFolder, SaveFolder, ExePath, CoverImage, Added`

func sqlGetGame(ctx context.Context, db *sql.DB, id string) (database.Game, error) {
	stmt, err := db.PrepareContext(ctx, `select `+gameColumns+` from Games where ID = ?;`)
	if err != nil {
		return database.Game{}, fmt.Errorf("failed to prepare game query statement: %w", err)
	}
	defer closeStmt(stmt)

	g, err := scanGame(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("game %s: %w", id, database.ErrNotFound)
	} else if err != nil {
		return g, fmt.Errorf("failed to scan game row: %w", err)
	}
	return g, nil
}

func sqlGetAllGames(ctx context.Context, db *sql.DB) ([]database.Game, error) {
	list := make([]database.Game, 0)
	rows, err := db.QueryContext(ctx, `select `+gameColumns+` from Games order by Added asc;`)
	if err != nil {
		return list, fmt.Errorf("failed to query games: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		g, scanErr := scanGame(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		list = append(list, g)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating game rows: %w", err)
	}
	return list, nil
}

// sqlDeleteGame removes a game and every record that belongs to it.
func sqlDeleteGame(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn().Err(rbErr).Msg("failed to rollback game delete")
		}
	}()

	if _, err := tx.ExecContext(ctx, `delete from Snapshots where GameID = ?;`, id); err != nil {
		return fmt.Errorf("failed to delete game snapshots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `delete from Screenshots where GameID = ?;`, id); err != nil {
		return fmt.Errorf("failed to delete game screenshots: %w", err)
	}
	res, err := tx.ExecContext(ctx, `delete from Games where ID = ?;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("game %s: %w", id, database.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit game delete: %w", err)
	}
	return nil
}

//nolint:gocritic // struct passed for DB insertion
func sqlAddSnapshot(ctx context.Context, db *sql.DB, s database.Snapshot) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Snapshots(
			ID, GameID, Name, SavePath, BackupFolder, ImagePath, ClipboardText, Note, CreatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx,
		s.ID,
		s.GameID,
		s.Name,
		s.SavePath,
		s.BackupFolder,
		nullString(s.ImagePath),
		nullString(s.ClipboardText),
		nullString(s.Note),
		s.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to execute snapshot insert: %w", err)
	}
	return nil
}

const snapshotColumns = `ID, GameID, Name, SavePath, BackupFolder, ImagePath, ClipboardText, Note, CreatedAt`

func scanSnapshot(row rowScanner) (database.Snapshot, error) {
	var s database.Snapshot
	var imagePath, clipboardText, note sql.NullString
	var createdAt int64
	err := row.Scan(
		&s.ID,
		&s.GameID,
		&s.Name,
		&s.SavePath,
		&s.BackupFolder,
		&imagePath,
		&clipboardText,
		&note,
		&createdAt,
	)
	if err != nil {
		return s, err
	}
	s.ImagePath = imagePath.String
	s.ClipboardText = clipboardText.String
	s.Note = note.String
	s.CreatedAt = time.UnixMilli(createdAt)
	return s, nil
}

func sqlGetSnapshot(ctx context.Context, db *sql.DB, id string) (database.Snapshot, error) {
	stmt, err := db.PrepareContext(ctx, `select `+snapshotColumns+` from Snapshots where ID = ?;`)
	if err != nil {
		return database.Snapshot{}, fmt.Errorf("failed to prepare snapshot query statement: %w", err)
	}
	defer closeStmt(stmt)

	s, err := scanSnapshot(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("snapshot %s: %w", id, database.ErrNotFound)
	} else if err != nil {
		return s, fmt.Errorf("failed to scan snapshot row: %w", err)
	}
	return s, nil
}

func sqlGetSnapshots(ctx context.Context, db *sql.DB, gameID string) ([]database.Snapshot, error) {
	list := make([]database.Snapshot, 0)
	stmt, err := db.PrepareContext(ctx, `
		select `+snapshotColumns+`
		from Snapshots
		where GameID = ?
		order by CreatedAt desc;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare snapshots query statement: %w", err)
	}
	defer closeStmt(stmt)

	rows, err := stmt.QueryContext(ctx, gameID)
	if err != nil {
		return list, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		s, scanErr := scanSnapshot(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan snapshot row: %w", scanErr)
		}
		list = append(list, s)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return list, nil
}

//nolint:gocritic // struct passed for DB insertion
func sqlAddScreenshot(ctx context.Context, db *sql.DB, s database.Screenshot) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Screenshots(
			ID, GameID, Name, ImagePath, Note, CreatedAt
		) values (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare screenshot insert statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx,
		s.ID,
		s.GameID,
		s.Name,
		s.ImagePath,
		nullString(s.Note),
		s.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to execute screenshot insert: %w", err)
	}
	return nil
}

const screenshotColumns = `ID, GameID, Name, ImagePath, Note, CreatedAt`

func scanScreenshot(row rowScanner) (database.Screenshot, error) {
	var s database.Screenshot
	var note sql.NullString
	var createdAt int64
	err := row.Scan(&s.ID, &s.GameID, &s.Name, &s.ImagePath, &note, &createdAt)
	if err != nil {
		return s, err
	}
	s.Note = note.String
	s.CreatedAt = time.UnixMilli(createdAt)
	return s, nil
}

func sqlGetScreenshot(ctx context.Context, db *sql.DB, id string) (database.Screenshot, error) {
	stmt, err := db.PrepareContext(ctx, `select `+screenshotColumns+` from Screenshots where ID = ?;`)
	if err != nil {
		return database.Screenshot{}, fmt.Errorf("failed to prepare screenshot query statement: %w", err)
	}
	defer closeStmt(stmt)

	s, err := scanScreenshot(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("screenshot %s: %w", id, database.ErrNotFound)
	} else if err != nil {
		return s, fmt.Errorf("failed to scan screenshot row: %w", err)
	}
	return s, nil
}

func sqlGetScreenshots(ctx context.Context, db *sql.DB, gameID string) ([]database.Screenshot, error) {
	list := make([]database.Screenshot, 0)
	stmt, err := db.PrepareContext(ctx, `
		select `+screenshotColumns+`
		from Screenshots
		where GameID = ?
		order by CreatedAt desc;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare screenshots query statement: %w", err)
	}
	defer closeStmt(stmt)

	rows, err := stmt.QueryContext(ctx, gameID)
	if err != nil {
		return list, fmt.Errorf("failed to query screenshots: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		s, scanErr := scanScreenshot(rows)
		if scanErr != nil {
			return list, fmt.Errorf("failed to scan screenshot row: %w", scanErr)
		}
		list = append(list, s)
	}
	if err = rows.Err(); err != nil {
		return list, fmt.Errorf("error iterating screenshot rows: %w", err)
	}
	return list, nil
}

// sqlUpdateField sets a single text column on the row with the given ID.
// Table and column are always package constants, never user input.
func sqlUpdateField(ctx context.Context, db *sql.DB, table, column, id, value string) error {
	//nolint:gosec // identifiers are fixed by callers
	stmt, err := db.PrepareContext(ctx, fmt.Sprintf(`update %s set %s = ? where ID = ?;`, table, column))
	if err != nil {
		return fmt.Errorf("failed to prepare %s update statement: %w", table, err)
	}
	defer closeStmt(stmt)

	res, err := stmt.ExecContext(ctx, nullString(value), id)
	if err != nil {
		return fmt.Errorf("failed to execute %s update: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, database.ErrNotFound)
	}
	return nil
}

func sqlDeleteByID(ctx context.Context, db *sql.DB, table, id string) error {
	//nolint:gosec // identifiers are fixed by callers
	stmt, err := db.PrepareContext(ctx, fmt.Sprintf(`delete from %s where ID = ?;`, table))
	if err != nil {
		return fmt.Errorf("failed to prepare %s delete statement: %w", table, err)
	}
	defer closeStmt(stmt)

	res, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to execute %s delete: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, database.ErrNotFound)
	}
	return nil
}

func sqlGetGameStats(ctx context.Context, db *sql.DB, gameID string) (database.GameStats, error) {
	var stats database.GameStats
	err := db.QueryRowContext(ctx, `
		select
			(select count(*) from Snapshots where GameID = ?),
			(select count(*) from Screenshots where GameID = ?);
	`, gameID, gameID).Scan(&stats.Snapshots, &stats.Screenshots)
	if err != nil {
		return stats, fmt.Errorf("failed to count game records: %w", err)
	}
	return stats, nil
}
