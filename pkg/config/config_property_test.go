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
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestPropertySaveExtensionsNormalized(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		exts := rapid.SliceOf(rapid.StringMatching(`\s?\.?[A-Za-z0-9]{0,5}\s?`)).Draw(t, "exts")

		cfg := &Instance{}
		cfg.vals.Watcher.Extensions = exts
		got := cfg.SaveExtensions()

		if len(got) == 0 {
			t.Fatalf("no extensions returned for %q", exts)
		}
		for _, ext := range got {
			if !strings.HasPrefix(ext, ".") {
				t.Fatalf("extension %q missing leading dot", ext)
			}
			if ext != strings.ToLower(ext) {
				t.Fatalf("extension %q not lower case", ext)
			}
			if strings.TrimSpace(ext) != ext {
				t.Fatalf("extension %q not trimmed", ext)
			}
		}
	})
}

func TestPropertyParseDurationOrAlwaysPositive(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.OneOf(
			rapid.StringMatching(`-?[0-9]{1,4}(ms|s|m)`),
			rapid.String(),
		).Draw(t, "duration")
		def := time.Duration(rapid.Int64Range(1, int64(time.Hour)).Draw(t, "default"))

		got := parseDurationOr(&s, def)
		if got <= 0 {
			t.Fatalf("parseDurationOr(%q) = %v, want positive", s, got)
		}
		if d, err := time.ParseDuration(s); err == nil && d > 0 && got != d {
			t.Fatalf("parseDurationOr(%q) = %v, want %v", s, got, d)
		}
	})
}

func TestPropertyCacheSizeAtLeastOne(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(-100, 100).Draw(t, "size")

		cfg := &Instance{}
		cfg.SetCacheSize(size)
		got := cfg.CacheSize()

		if got < 1 {
			t.Fatalf("CacheSize() = %d for %d", got, size)
		}
		if size >= 1 && got != size {
			t.Fatalf("CacheSize() = %d, want %d", got, size)
		}
	})
}
