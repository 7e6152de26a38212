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
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
)

// PersistentStorage keeps a JSON-encoded value on disk under a file lock.
// Saves are atomic (temp file + rename). When the primary location is not
// writable, Save falls back to the home directory and then the system temp
// directory, and subsequent operations stick with the location that worked.
// Clusters lose quota or mount home read-only often enough that this is
// worth the fallback dance.
type PersistentStorage struct {
	flock *flock.Flock
	file  string
}

func NewPersistentStorage(file string) *PersistentStorage {
	dir := filepath.Dir(file)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Errorf("Failed to create directories: %s %v", dir, err)
			return nil
		}
	}

	return &PersistentStorage{
		flock: flock.New(file + ".lock"),
		file:  file,
	}
}

func (ps *PersistentStorage) Path() string {
	return ps.file
}

// Load decodes the stored value into v. A storage file that does not exist
// yet at any candidate location leaves v untouched and returns false.
func (ps *PersistentStorage) Load(v interface{}) (bool, error) {
	if err := ps.flock.RLock(); err != nil {
		return false, err
	}
	defer func() {
		if err := ps.flock.Unlock(); err != nil {
			log.Warnf("Failed to unlock %s: %v", ps.file, err)
		}
	}()

	for _, path := range ps.candidatePaths() {
		file, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return false, err
		}

		decodeErr := json.NewDecoder(file).Decode(v)
		_ = file.Close()
		if decodeErr != nil {
			log.Errorf("Error reading status file %s: %v", path, decodeErr)
			continue
		}

		if path != ps.file {
			log.Infof("Loaded state from alternate location %s", path)
			ps.file = path
		}
		return true, nil
	}
	return false, nil
}

// Save writes v to the current location, trying the fallback locations in
// order when the write fails.
func (ps *PersistentStorage) Save(v interface{}) error {
	if err := ps.flock.Lock(); err != nil {
		return err
	}
	defer func() {
		if err := ps.flock.Unlock(); err != nil {
			log.Warnf("Failed to unlock %s: %v", ps.file, err)
		}
	}()

	var lastErr error
	for _, path := range ps.candidatePaths() {
		if err := trySave(path, v); err != nil {
			log.Warnf("Failed to save state to %s: %v", path, err)
			lastErr = err
			continue
		}
		if path != ps.file {
			log.Infof("Saved state to alternate location %s", path)
			ps.file = path
		}
		return nil
	}
	return lastErr
}

func (ps *PersistentStorage) candidatePaths() []string {
	base := filepath.Base(ps.file)
	paths := []string{ps.file}
	if home, err := os.UserHomeDir(); err == nil {
		alt := filepath.Join(home, base)
		if alt != ps.file {
			paths = append(paths, alt)
		}
	}
	paths = append(paths, filepath.Join(os.TempDir(), base))
	return paths
}

func trySave(path string, v interface{}) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		_ = file.Close()
		RemoveFileIfExists(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		RemoveFileIfExists(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		RemoveFileIfExists(tmp)
		return err
	}
	return nil
}
