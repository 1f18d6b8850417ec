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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/visual-logger/core/pkg/config"
)

//nolint:paralleltest // modifies the global logger
func TestInitLogging(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs", "nested")
	var buf bytes.Buffer

	original, originalWriter := log.Logger, logWriter
	t.Cleanup(func() {
		log.Logger = original
		logWriter = originalWriter
	})

	require.NoError(t, InitLogging(logDir, nil))
	require.NoError(t, InitLogging(logDir, []io.Writer{&buf}))

	log.Info().Msg("hello from test")

	assert.Contains(t, buf.String(), "hello from test")
	assert.NotNil(t, LogWriter())
	_, err := os.Stat(filepath.Join(logDir, config.LogFile))
	require.NoError(t, err)
}
