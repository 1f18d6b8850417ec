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
	"strings"
	"testing"

	"pgregory.net/rapid"
)

// TestPropertyNormalizePathIdempotent verifies normalizing twice gives same result.
func TestPropertyNormalizePathIdempotent(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.StringMatching(`[a-zA-Z0-9_\-./\\]{0,50}`).Draw(t, "path")

		once := NormalizePathForComparison(path)
		twice := NormalizePathForComparison(once)

		if once != twice {
			t.Fatalf("Not idempotent: first=%q, second=%q", once, twice)
		}
	})
}

// TestPropertyNormalizePathLowercase verifies result is always lowercase.
func TestPropertyNormalizePathLowercase(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.StringMatching(`[a-zA-Z0-9_\-./\\]{0,50}`).Draw(t, "path")

		result := NormalizePathForComparison(path)
		if result != strings.ToLower(result) {
			t.Fatalf("Result not lowercase: %q from input %q", result, path)
		}
	})
}

// TestPropertyPathHasPrefixChild verifies any path joined under a root has that root as prefix.
func TestPropertyPathHasPrefixChild(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		root := "/" + rapid.StringMatching(`[a-zA-Z0-9_]{1,12}(/[a-zA-Z0-9_]{1,12}){0,3}`).Draw(t, "root")
		child := rapid.StringMatching(`[a-zA-Z0-9_]{1,12}(/[a-zA-Z0-9_.]{1,12}){0,3}`).Draw(t, "child")

		if !PathHasPrefix(root+"/"+child, root) {
			t.Fatalf("%q should be inside %q", root+"/"+child, root)
		}
	})
}

// TestPropertyPathHasPrefixSiblingRejected verifies a sibling sharing a
// name prefix is never considered inside root.
func TestPropertyPathHasPrefixSiblingRejected(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		root := "/" + rapid.StringMatching(`[a-z0-9]{1,12}`).Draw(t, "root")
		suffix := rapid.StringMatching(`[a-z0-9]{1,6}`).Draw(t, "suffix")

		sibling := root + suffix + "/save.dat"
		if PathHasPrefix(sibling, root) {
			t.Fatalf("%q should not be inside %q", sibling, root)
		}
	})
}

// TestPropertySanitizeFilenameNoReserved verifies sanitized names never
// contain reserved characters.
func TestPropertySanitizeFilenameNoReserved(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.String().Draw(t, "name")

		got := SanitizeFilename(name)
		if got == "" {
			t.Fatalf("empty result for %q", name)
		}
		if strings.ContainsAny(got, `:<>"|?*\/`) {
			t.Fatalf("reserved character left in %q (from %q)", got, name)
		}
	})
}
