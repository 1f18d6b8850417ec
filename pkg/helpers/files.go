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

package helpers

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var ErrSameFile = errors.New("source and destination are the same file")

// CopyFile copies src to dst on fs, creating or truncating dst.
func CopyFile(fs afero.Fs, src, dst string) error {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return fmt.Errorf("%w: %s", ErrSameFile, src)
	}
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("path", src).Msg("failed to close source file")
		}
	}()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}

// CopyFileInto copies src into dir, keeping its base name, and returns the
// destination path.
func CopyFileInto(fs afero.Fs, src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	if err := CopyFile(fs, src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// FileExists reports whether path exists on fs.
func FileExists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
