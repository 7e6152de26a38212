/**
 * Copyright (c) 2025 CrystalQueue Developers
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testState struct {
	Submitted map[string]uint32 `json:"submitted"`
	Pending   []string          `json:"pending"`
}

func TestPersistentStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "status.json")
	store := NewPersistentStorage(path)
	require.NotNil(t, store)

	saved := &testState{
		Submitted: map[string]uint32{"mgo_bulk": 101},
		Pending:   []string{"slab"},
	}
	require.NoError(t, store.Save(saved))

	loaded := &testState{}
	found, err := NewPersistentStorage(path).Load(loaded)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, loaded)
}

// isolateFallbackDirs points the fallback locations ($HOME, the system
// temp directory) at sandboxes so tests never read or write a real
// status file of the user running them.
func isolateFallbackDirs(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TMPDIR", t.TempDir())
}

func TestPersistentStorageLoadMissing(t *testing.T) {
	isolateFallbackDirs(t)
	path := filepath.Join(t.TempDir(), "status.json")
	store := NewPersistentStorage(path)
	require.NotNil(t, store)

	loaded := &testState{Pending: []string{"untouched"}}
	found, err := store.Load(loaded)
	require.NoError(t, err)
	assert.False(t, found)
	// The value must be left alone when nothing was stored.
	assert.Equal(t, []string{"untouched"}, loaded.Pending)
}

func TestPersistentStorageSaveIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	store := NewPersistentStorage(path)
	require.NotNil(t, store)

	require.NoError(t, store.Save(&testState{Pending: []string{"a"}}))
	require.NoError(t, store.Save(&testState{Pending: []string{"b"}}))

	// No temp file left behind.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded := &testState{}
	found, err := store.Load(loaded)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"b"}, loaded.Pending)
}

func TestPersistentStorageFallsBackToTempDir(t *testing.T) {
	isolateFallbackDirs(t)
	dir := t.TempDir()
	primary := filepath.Join(dir, "status.json")
	store := NewPersistentStorage(primary)
	require.NotNil(t, store)

	// Occupy the primary path with a directory so the write there fails
	// regardless of who runs the tests.
	require.NoError(t, os.Mkdir(primary, 0755))

	require.NoError(t, store.Save(&testState{Pending: []string{"rescued"}}))
	assert.NotEqual(t, primary, store.Path())

	loaded := &testState{}
	found, err := store.Load(loaded)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []string{"rescued"}, loaded.Pending)
}
