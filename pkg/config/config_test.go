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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func TestNewConfig_WritesDefaults(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	cfg, err := NewConfig(tempDir, BaseDefaults)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(tempDir, CfgFile))
	require.NoError(t, err, "default config should be written to disk")

	assert.Equal(t, []string{".dat"}, cfg.SaveExtensions())
	assert.Equal(t, "F11", cfg.HotkeyKey())
	assert.Equal(t, DefaultAPIPort, cfg.APIPort())
}

func TestAPIPort_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)

	cfg.SetAPIPort(9999)
	require.NoError(t, cfg.Save())
	require.NoError(t, cfg.Load())

	assert.Equal(t, 9999, cfg.APIPort())
	assert.Equal(t, "127.0.0.1:9999", cfg.APIListen())
}

func TestLoad_PreservesDefaultsForMissingFields(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), CfgFile)
	minimalConfig := fmt.Sprintf("config_schema = %d\n", SchemaVersion)
	require.NoError(t, os.WriteFile(cfgPath, []byte(minimalConfig), 0o600))

	cfg := &Instance{
		cfgPath:  cfgPath,
		vals:     BaseDefaults,
		defaults: BaseDefaults,
	}
	require.NoError(t, cfg.Load())

	assert.Equal(t, []string{DefaultSaveExtension}, cfg.vals.Watcher.Extensions)
	assert.Equal(t, DefaultHotkey, cfg.vals.Hotkey.Key)
	assert.Nil(t, cfg.vals.Capture.CacheSize, "cache size should be nil (getter returns default)")
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), CfgFile)
	content := fmt.Sprintf(`config_schema = %d
debug_logging = true

[capture]
sample_interval = "500ms"
cache_size = 5
clipboard = false

[watcher]
debounce = "3s"
extensions = [".sav", "DAT"]

[hotkey]
key = "F9"
debounce = "1s"
`, SchemaVersion)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))

	cfg := &Instance{
		cfgPath:  cfgPath,
		vals:     BaseDefaults,
		defaults: BaseDefaults,
	}
	require.NoError(t, cfg.Load())

	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, 500*time.Millisecond, cfg.SampleInterval())
	assert.Equal(t, 5, cfg.CacheSize())
	assert.False(t, cfg.ClipboardCapture())
	assert.Equal(t, 3*time.Second, cfg.SaveDebounce())
	assert.Equal(t, []string{".sav", ".dat"}, cfg.SaveExtensions())
	assert.Equal(t, "F9", cfg.HotkeyKey())
	assert.Equal(t, time.Second, cfg.HotkeyDebounce())
}

func TestLoad_SchemaMismatch(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), CfgFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte("config_schema = 99\n"), 0o600))

	cfg := &Instance{cfgPath: cfgPath, defaults: BaseDefaults}
	err := cfg.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version mismatch")
}

func TestLoad_NoPath(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	require.Error(t, cfg.Load())
	require.Error(t, cfg.Save())
}

func TestAPIListen_Explicit(t *testing.T) {
	t.Parallel()

	cfg := &Instance{vals: Values{Service: Service{APIListen: "0.0.0.0:1234"}}}
	assert.Equal(t, "0.0.0.0:1234", cfg.APIListen())
}
